package lexer

import (
	"attrlex/internal/diag"
	"attrlex/internal/token"
)

// scanString сканирует '...', "..." и `...` целиком, включая переводы строк.
// Экранирование: '\' съедает следующий байт. Содержимое (скобки, `#[`, `?>`) на стек
// разделителей не влияет — строка атомарна.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // открывающая кавычка
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == quote {
			return lx.makeToken(token.StringLit, start)
		}
		if b == '\\' {
			lx.cursor.Bump()
		}
	}
	// EOF без закрывающей кавычки
	tok := lx.makeToken(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanHeredoc сканирует heredoc/nowdoc: `<<<ID`, `<<<"ID"`, `<<<'ID'` + перевод строки,
// тело и закрывающий ID (допускается отступ перед ним). Если заголовок не heredoc —
// курсор откатывается и ok == false.
func (lx *Lexer) scanHeredoc() (tok token.Token, ok bool) {
	start := lx.cursor.Mark()
	lx.cursor.Advance(3) // <<<
	for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
		lx.cursor.Bump()
	}

	var quote byte
	if b := lx.cursor.Peek(); b == '"' || b == '\'' {
		quote = lx.cursor.Bump()
	}
	if !isIdentStartByte(lx.cursor.Peek()) {
		lx.cursor.Reset(start)
		return token.Token{}, false
	}
	idStart := lx.cursor.Off
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	id := string(lx.file.Content[idStart:lx.cursor.Off])
	if quote != 0 && !lx.cursor.Eat(quote) {
		lx.cursor.Reset(start)
		return token.Token{}, false
	}
	if lx.cursor.Peek() == '\r' && lx.cursor.PeekAt(1) == '\n' {
		lx.cursor.Bump()
	}
	if !lx.cursor.Eat('\n') {
		lx.cursor.Reset(start)
		return token.Token{}, false
	}

	// тело: построчно ищем закрывающий идентификатор
	for !lx.cursor.EOF() {
		for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
			lx.cursor.Bump()
		}
		if lx.cursor.HasPrefix(id) && !isIdentContinueByte(lx.cursor.PeekAt(uint32(len(id)))) {
			lx.cursor.Advance(len(id))
			return lx.makeToken(token.Heredoc, start), true
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.cursor.Eat('\n')
	}

	tok = lx.makeToken(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedHeredoc, tok.Span, "unterminated heredoc, missing closing "+id)
	return tok, true
}
