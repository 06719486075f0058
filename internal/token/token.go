package token

import (
	"attrlex/internal/source"
)

// NoIndex marks an absent attribute cross-reference.
const NoIndex = -1

// Token represents a single source token with its location and attribute pairing.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Index int    // позиция в итоговой последовательности
	Line  uint32 // 1-based
	Col   uint32 // 1-based, в рунах

	// AttributeOpener is set on AttributeClose tokens: index of the matching opener.
	AttributeOpener int
	// AttributeCloser is set on AttributeOpen tokens: index of the matching closer,
	// NoIndex while (or if) the span is unterminated.
	AttributeCloser int
}

// HasAttributeOpener reports whether the token is a paired attribute closer.
func (t Token) HasAttributeOpener() bool { return t.AttributeOpener != NoIndex }

// HasAttributeCloser reports whether the token is a paired attribute opener.
func (t Token) HasAttributeCloser() bool { return t.AttributeCloser != NoIndex }

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, Heredoc:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= RBracket
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsTrivia reports whether the token is whitespace or a comment.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }
