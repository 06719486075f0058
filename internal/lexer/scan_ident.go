package lexer

import (
	"strconv"

	"attrlex/internal/diag"
	"attrlex/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Ключевые слова регистронезависимые. После `->`, `?->` и `::` ключевое слово
// становится Ident (`Foo::class`, `$a->list`). Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.makeToken(token.Invalid, start)
	}
	if r >= utf8RuneSelf && !isIdentStartRune(r) {
		// не буква: одна руна как Invalid, текст сохраняем
		lx.bumpRune()
		tok := lx.makeToken(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+strconv.Quote(tok.Text))
		return tok
	}

	lx.scanIdentBody()
	tok := lx.makeToken(token.Ident, start)

	switch lx.prev {
	case token.Arrow, token.NullsafeArrow, token.ColonColon:
		return tok
	}
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanIdentBody съедает [A-Za-z_\x80-][A-Za-z0-9_\x80-]* с Unicode-проверкой для не-ASCII.
func (lx *Lexer) scanIdentBody() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.peekRune()
		if !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}

// scanVariable сканирует `$name`. Вызывается только когда за `$` идёт начало имени.
func (lx *Lexer) scanVariable() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '$'
	if r, _ := lx.peekRune(); r >= utf8RuneSelf && !isIdentStartRune(r) {
		return lx.makeToken(token.Dollar, start)
	}
	lx.scanIdentBody()
	return lx.makeToken(token.Variable, start)
}
