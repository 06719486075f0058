package attr

import (
	"attrlex/internal/token"
)

// Span is one attribute span `#[ ... ]` in a token sequence.
type Span struct {
	Opener int // index of the AttributeOpen token
	Closer int // index of the AttributeClose token; token.NoIndex when unterminated
	Depth  int // 0 для атрибутов верхнего уровня
	Parent int // opener of the enclosing span, token.NoIndex at top level
}

// Terminated reports whether the span has a closer.
func (s Span) Terminated() bool { return s.Closer != token.NoIndex }

// Contains reports whether token i lies inside the span, delimiters included.
// An unterminated span extends to the end of the sequence.
func (s Span) Contains(i int) bool {
	if i < s.Opener {
		return false
	}
	return !s.Terminated() || i <= s.Closer
}

// Len returns the number of tokens in the span including both delimiters,
// or 0 for an unterminated span.
func (s Span) Len() int {
	if !s.Terminated() {
		return 0
	}
	return s.Closer - s.Opener + 1
}

// Spans returns every attribute span ordered by opener index.
func Spans(tokens []token.Token) []Span {
	var (
		out  []Span
		open []int // индексы в out, от внешнего к внутреннему
	)
	for i := range tokens {
		if tokens[i].Kind != token.AttributeOpen {
			continue
		}
		// закрытые до i спаны больше не охватывают текущий
		for len(open) > 0 {
			top := out[open[len(open)-1]]
			if top.Contains(i) {
				break
			}
			open = open[:len(open)-1]
		}

		sp := Span{
			Opener: i,
			Closer: tokens[i].AttributeCloser,
			Depth:  len(open),
			Parent: token.NoIndex,
		}
		if len(open) > 0 {
			sp.Parent = out[open[len(open)-1]].Opener
		}
		out = append(out, sp)
		open = append(open, len(out)-1)
	}
	return out
}

// Enclosing returns the innermost attribute span that contains token i.
func Enclosing(tokens []token.Token, i int) (Span, bool) {
	var (
		best  Span
		found bool
	)
	for _, sp := range Spans(tokens) {
		if sp.Opener > i {
			break
		}
		// спаны отсортированы по opener и вложены, так что последний подходящий — самый внутренний
		if sp.Contains(i) {
			best, found = sp, true
		}
	}
	return best, found
}
