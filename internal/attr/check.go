package attr

import (
	"errors"
	"fmt"
	"math"

	"attrlex/internal/diag"
	"attrlex/internal/source"
	"attrlex/internal/token"

	"fortio.org/safecast"
)

// Violation is one broken invariant of a paired token sequence.
type Violation struct {
	Code  diag.Code
	Index int // token the violation is attached to, token.NoIndex for the whole sequence
	Msg   string
}

func (v *Violation) Error() string {
	if v.Index == token.NoIndex {
		return v.Code.ID() + ": " + v.Msg
	}
	return fmt.Sprintf("%s: token %d: %s", v.Code.ID(), v.Index, v.Msg)
}

// Check verifies that tokens is a faithful tokenization of src: pairing is total and
// symmetric for terminated spans, spans nest without overlapping and the texts
// reconstruct src. Unterminated openers are allowed. All violations are joined.
func Check(tokens []token.Token, src []byte) error {
	vs := Verify(tokens, src)
	errs := make([]error, 0, len(vs))
	for i := range vs {
		errs = append(errs, &vs[i])
	}
	return errors.Join(errs...)
}

// Verify is Check returning the violations as values.
func Verify(tokens []token.Token, src []byte) []Violation {
	var out []Violation
	out = append(out, verifyReconstruction(tokens, src)...)
	out = append(out, verifyPairing(tokens)...)
	out = append(out, verifyNesting(tokens)...)
	return out
}

func verifyReconstruction(tokens []token.Token, src []byte) []Violation {
	var out []Violation
	off := 0
	for i := range tokens {
		tok := &tokens[i]
		if tok.Index != i {
			out = append(out, Violation{diag.AttrReconstruction, i, fmt.Sprintf("Index is %d", tok.Index)})
		}
		end := min(off+len(tok.Text), len(src))
		if string(src[off:end]) != tok.Text {
			out = append(out, Violation{diag.AttrReconstruction, i,
				fmt.Sprintf("text %q does not match source at byte %d", tok.Text, off)})
			return out
		}
		off += len(tok.Text)
	}
	if off != len(src) {
		out = append(out, Violation{diag.AttrReconstruction, token.NoIndex,
			fmt.Sprintf("tokens cover %d of %d bytes", off, len(src))})
	}
	return out
}

func verifyPairing(tokens []token.Token) []Violation {
	var out []Violation
	bad := func(i int, format string, args ...any) {
		out = append(out, Violation{diag.AttrPairingBroken, i, fmt.Sprintf(format, args...)})
	}
	valid := func(j int) bool { return j >= 0 && j < len(tokens) }

	for i := range tokens {
		tok := &tokens[i]
		switch tok.Kind {
		case token.AttributeOpen:
			if tok.HasAttributeOpener() {
				bad(i, "opener carries AttributeOpener %d", tok.AttributeOpener)
			}
			if !tok.HasAttributeCloser() {
				continue
			}
			j := tok.AttributeCloser
			switch {
			case !valid(j) || j <= i:
				bad(i, "closer %d is not after the opener", j)
			case tokens[j].Kind != token.AttributeClose:
				bad(i, "closer %d is %v", j, tokens[j].Kind)
			case tokens[j].AttributeOpener != i:
				bad(i, "closer %d points back to %d", j, tokens[j].AttributeOpener)
			}
		case token.AttributeClose:
			if tok.HasAttributeCloser() {
				bad(i, "closer carries AttributeCloser %d", tok.AttributeCloser)
			}
			o := tok.AttributeOpener
			switch {
			case !valid(o) || tokens[o].Kind != token.AttributeOpen:
				bad(i, "opener %d is not an attribute opener", o)
			case tokens[o].AttributeCloser != i:
				bad(i, "opener %d points to %d", o, tokens[o].AttributeCloser)
			}
		default:
			if tok.HasAttributeOpener() || tok.HasAttributeCloser() {
				bad(i, "%v token carries pairing fields", tok.Kind)
			}
		}
	}
	return out
}

func verifyNesting(tokens []token.Token) []Violation {
	var out []Violation
	var stack []int // closers of the open spans
	for i := range tokens {
		for len(stack) > 0 && stack[len(stack)-1] < i {
			stack = stack[:len(stack)-1]
		}
		tok := &tokens[i]
		if tok.Kind != token.AttributeOpen || !tok.HasAttributeCloser() {
			continue
		}
		c := tok.AttributeCloser
		if len(stack) > 0 && c > stack[len(stack)-1] {
			out = append(out, Violation{diag.AttrOverlap, i,
				fmt.Sprintf("span %d..%d overlaps the enclosing span ending at %d", i, c, stack[len(stack)-1])})
			continue
		}
		stack = append(stack, c)
	}
	return out
}

// Report emits every violation as an error diagnostic on the token's span
// (or on the whole file for sequence-level violations).
func Report(r diag.Reporter, file *source.File, tokens []token.Token, vs []Violation) {
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		size = math.MaxUint32
	}
	whole := source.Span{File: file.ID, Start: 0, End: size}
	for _, v := range vs {
		sp := whole
		if v.Index >= 0 && v.Index < len(tokens) {
			sp = tokens[v.Index].Span
		}
		diag.ReportError(r, v.Code, sp, v.Msg).Emit()
	}
}
