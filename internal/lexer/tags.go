package lexer

import (
	"attrlex/internal/token"
)

// scanInlineHTML в режиме HTML: всё до `<?php` / `<?=` / `<?` — InlineHTML, сам тег — OpenTag.
func (lx *Lexer) scanInlineHTML() token.Token {
	if lx.atOpenTag() {
		return lx.scanOpenTag()
	}
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && !lx.atOpenTag() {
		lx.cursor.Bump()
	}
	return lx.makeToken(token.InlineHTML, start)
}

func (lx *Lexer) atOpenTag() bool {
	if lx.cursor.HasPrefix("<?=") {
		return true
	}
	if lx.cursor.HasPrefixFold("<?php") && lx.tagEndsAt(5) {
		return true
	}
	// короткий тег `<?` только перед пробелом или концом строки: "<?xml" и "<?phpx" — текст
	return lx.cursor.HasPrefix("<?") && lx.tagEndsAt(2)
}

// tagEndsAt reports whether the byte n positions ahead ends an open tag.
func (lx *Lexer) tagEndsAt(n uint32) bool {
	if lx.cursor.Off+n >= lx.cursor.Limit {
		return true
	}
	next := lx.cursor.PeekAt(n)
	return isSpace(next) || next == '\n'
}

// scanOpenTag включает в токен один пробел или перевод строки после `<?php` и `<?`.
func (lx *Lexer) scanOpenTag() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.HasPrefix("<?=") {
		lx.cursor.Advance(3)
	} else {
		if lx.cursor.HasPrefixFold("<?php") {
			lx.cursor.Advance(5)
		} else {
			lx.cursor.Advance(2)
		}
		switch {
		case lx.cursor.HasPrefix("\r\n"):
			lx.cursor.Advance(2)
		case lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' || lx.cursor.Peek() == '\n':
			lx.cursor.Bump()
		}
	}
	lx.mode = modeCode
	return lx.makeToken(token.OpenTag, start)
}

// scanCloseTag: `?>` плюс один следующий перевод строки; дальше режим HTML.
func (lx *Lexer) scanCloseTag() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)
	switch {
	case lx.cursor.HasPrefix("\r\n"):
		lx.cursor.Advance(2)
	case lx.cursor.Peek() == '\n':
		lx.cursor.Bump()
	}
	lx.mode = modeHTML
	return lx.makeToken(token.CloseTag, start)
}
