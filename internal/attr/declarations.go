package attr

import (
	"strings"

	"attrlex/internal/token"
)

// Declaration is one attribute inside a (possibly grouped) span:
// `#[A, B(1), \C\D]` has three.
type Declaration struct {
	// Name is the qualified class name as written, e.g. `\App\Route`.
	Name string
	// NameFrom and NameTo delimit the name tokens as [NameFrom, NameTo).
	NameFrom, NameTo int
	// ArgsOpen and ArgsClose are the argument parentheses, token.NoIndex without arguments.
	ArgsOpen, ArgsClose int
}

// HasArgs reports whether the declaration has an argument list.
func (d Declaration) HasArgs() bool { return d.ArgsOpen != token.NoIndex }

// Declarations splits span into its top-level comma-separated declarations.
// Commas inside arguments, arrays or nested attributes do not split.
// Empty segments (a trailing comma) are skipped.
func Declarations(tokens []token.Token, sp Span) []Declaration {
	end := len(tokens)
	if sp.Terminated() {
		end = sp.Closer
	}

	var (
		out   []Declaration
		cur   = newDeclaration()
		depth int
	)
	flush := func() {
		if cur.NameFrom != token.NoIndex {
			out = append(out, cur)
		}
		cur = newDeclaration()
	}

	for i := sp.Opener + 1; i < end; i++ {
		tok := &tokens[i]
		switch {
		case tok.Kind == token.AttributeOpen:
			// вложенный атрибут пропускаем целиком
			if !tok.HasAttributeCloser() {
				i = end
				continue
			}
			i = tok.AttributeCloser
			continue
		case tok.Kind == token.LParen || tok.Kind == token.LBracket || tok.Kind == token.LBrace:
			if depth == 0 && tok.Kind == token.LParen && cur.NameFrom != token.NoIndex && !cur.HasArgs() {
				cur.ArgsOpen = i
			}
			depth++
		case tok.Kind == token.RParen || tok.Kind == token.RBracket || tok.Kind == token.RBrace:
			if depth == 0 {
				// лишняя закрывающая скобка, лексер уже выдал предупреждение
				continue
			}
			depth--
			if depth == 0 && tok.Kind == token.RParen && cur.HasArgs() && cur.ArgsClose == token.NoIndex {
				cur.ArgsClose = i
			}
		case depth == 0 && tok.Kind == token.Comma:
			flush()
		case depth == 0 && cur.NameFrom == token.NoIndex && isNameToken(tok.Kind):
			cur.NameFrom = i
			cur.NameTo = nameEnd(tokens, i, end)
			cur.Name = joinText(tokens[cur.NameFrom:cur.NameTo])
			i = cur.NameTo - 1
		}
	}
	flush()
	return out
}

func newDeclaration() Declaration {
	return Declaration{
		NameFrom:  token.NoIndex,
		NameTo:    token.NoIndex,
		ArgsOpen:  token.NoIndex,
		ArgsClose: token.NoIndex,
	}
}

// имена классов могут совпадать с ключевыми словами (`#[Readonly]`)
func isNameToken(k token.Kind) bool {
	return k == token.Ident || k == token.Backslash || k.IsKeyword()
}

func nameEnd(tokens []token.Token, from, end int) int {
	i := from
	for i < end && isNameToken(tokens[i].Kind) {
		i++
	}
	return i
}

func joinText(tokens []token.Token) string {
	var sb strings.Builder
	for i := range tokens {
		sb.WriteString(tokens[i].Text)
	}
	return sb.String()
}
