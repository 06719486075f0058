package lexer

import (
	"attrlex/internal/diag"
	"attrlex/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x..., 0777, 1.0, .5, 1., 1e-3, 1.0E+10.
// Неверные формы (0x без цифр) — репорт в opts.Reporter, токен Invalid.
// "1e" без цифр экспоненты — это IntLit "1" и дальше идентификатор "e", как в PHP.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	// ведущая точка — значит формат ".digits"
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump() // '.'
		kind = token.FloatLit
		lx.eatDigits(isDec)
		return lx.finishExponent(start, kind)
	}

	// ведущий 0 и база?
	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'x', 'X':
			digit = isHex
		}
		if digit != nil {
			lx.cursor.Advance(2)
			if !digit(lx.cursor.Peek()) {
				tok := lx.makeToken(token.Invalid, start)
				lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after base prefix "+tok.Text)
				return tok
			}
			lx.eatDigits(digit)
			return lx.makeToken(token.IntLit, start)
		}
	}

	// десятичная целая часть
	lx.eatDigits(isDec)

	// дробная часть; "1." тоже float
	if lx.cursor.Peek() == '.' && !lx.cursor.HasPrefix("...") {
		lx.cursor.Bump()
		kind = token.FloatLit
		if isDec(lx.cursor.Peek()) {
			lx.eatDigits(isDec)
		}
	}

	return lx.finishExponent(start, kind)
}

// eatDigits съедает цифры и одиночные '_' между цифрами.
func (lx *Lexer) eatDigits(digit func(byte) bool) {
	for {
		b := lx.cursor.Peek()
		switch {
		case digit(b):
			lx.cursor.Bump()
		case b == '_' && digit(lx.cursor.PeekAt(1)):
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) finishExponent(start Mark, kind token.Kind) token.Token {
	if b := lx.cursor.Peek(); b != 'e' && b != 'E' {
		return lx.makeToken(kind, start)
	}
	m := lx.cursor.Mark()
	lx.cursor.Bump() // e/E
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		lx.cursor.Reset(m)
		return lx.makeToken(kind, start)
	}
	lx.eatDigits(isDec)
	return lx.makeToken(token.FloatLit, start)
}
