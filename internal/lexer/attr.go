package lexer

import (
	"attrlex/internal/token"
)

// attributeOpener is the byte sequence that starts an attribute span.
const attributeOpener = "#["

// recognizeAttribute вызывается только на границе нового токена. При совпадении
// возвращает AttributeOpen длиной 2; иначе курсор остаётся на месте (вместе со
// строкой и колонкой), и '#' разбирается как обычный комментарий.
func (lx *Lexer) recognizeAttribute() (token.Token, bool) {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat(attributeOpener[0]) || !lx.cursor.Eat(attributeOpener[1]) {
		lx.cursor.Reset(start)
		return token.Token{}, false
	}
	return lx.makeToken(token.AttributeOpen, start), true
}
