package lexer

import (
	"attrlex/internal/diag"
	"attrlex/internal/token"
)

// Пробелы и комментарии — обычные токены потока:
// - ' ', '\t', '\r', '\f', '\v' коалесцируются в один Whitespace
// - последовательные '\n' коалесцируются в один Newline
// - //... и #... до '\n' или `?>` -> LineComment (перевод строки не входит)
// - /* ... */ -> BlockComment, /** ... */ -> DocComment (без вложенности, как в PHP)

func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for isSpace(lx.cursor.Peek()) {
		// '\r' перед '\n' тоже пробел; '\n' уйдёт в Newline
		lx.cursor.Bump()
	}
	return lx.makeToken(token.Whitespace, start)
}

func (lx *Lexer) scanNewlines() token.Token {
	start := lx.cursor.Mark()
	for lx.cursor.Peek() == '\n' {
		lx.cursor.Bump()
	}
	return lx.makeToken(token.Newline, start)
}

// scanLineComment: курсор на '#' или на "//".
func (lx *Lexer) scanLineComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || (b == '\r' && lx.cursor.PeekAt(1) == '\n') {
			break
		}
		if b == '?' && lx.cursor.PeekAt(1) == '>' {
			break
		}
		lx.cursor.Bump()
	}
	return lx.makeToken(token.LineComment, start)
}

// scanSlashComment: курсор на "//" или "/*".
func (lx *Lexer) scanSlashComment() token.Token {
	if lx.cursor.PeekAt(1) == '/' {
		return lx.scanLineComment()
	}

	start := lx.cursor.Mark()
	kind := token.BlockComment
	// "/**" + пробел — doc-комментарий; "/**/" — обычный пустой
	if lx.cursor.HasPrefix("/**") && (isSpace(lx.cursor.PeekAt(3)) || lx.cursor.PeekAt(3) == '\n') {
		kind = token.DocComment
	}
	lx.cursor.Advance(2) // "/*"
	for !lx.cursor.EOF() {
		if lx.try2('*', '/') {
			return lx.makeToken(kind, start)
		}
		lx.cursor.Bump()
	}
	tok := lx.makeToken(kind, start)
	lx.errLex(diag.LexUnterminatedBlockComment, tok.Span, "unterminated block comment")
	return tok
}
