package fuzztests

import (
	"testing"

	"attrlex/internal/attr"
	"attrlex/internal/diag"
	"attrlex/internal/lexer"
	"attrlex/internal/source"
	"attrlex/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// FuzzLexerTokens гоняет сырой лексер до EOF: никаких паник, каждый токен непустой.
func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.php", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}, InlineHTML: true})
		var total int
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if tok.Text == "" {
				t.Fatalf("empty %v token at %s", tok.Kind, tok.Span)
			}
			total += len(tok.Text)
		}
		if total != len(input) {
			t.Fatalf("tokens cover %d bytes, input has %d", total, len(input))
		}
	})
}

// countingReporter считает диагностики без лимита Bag.
type countingReporter struct {
	unterminated int
}

func (r *countingReporter) Report(code diag.Code, _ diag.Severity, _ source.Span, _ string, _ []diag.Note, _ []diag.Fix) {
	if code == diag.LexUnterminatedAttribute {
		r.unterminated++
	}
}

// FuzzTokenizeInvariants проверяет поток из Tokenize в обоих режимах.
func FuzzTokenizeInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("#[A(]"))
	f.Add([]byte("#[A(#[B]"))
	f.Add([]byte("]]]#[[[((("))
	f.Add([]byte("#[A('#[', \"]\", /* ] */)]"))
	f.Add([]byte("?>#[<?php #["))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		for _, inline := range []bool{false, true} {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.php", input))

			rep := &countingReporter{}
			res := lexer.Tokenize(file, lexer.Options{Reporter: rep, InlineHTML: inline})

			if err := attr.Check(res.Tokens, file.Content); err != nil {
				t.Fatalf("inline=%v: %v", inline, err)
			}

			spans := attr.Spans(res.Tokens)
			var unterminated []int
			for _, sp := range spans {
				if !sp.Terminated() {
					unterminated = append(unterminated, sp.Opener)
				}
			}
			if len(unterminated) != len(res.Unterminated) {
				t.Fatalf("inline=%v: spans report %v unterminated, result %v", inline, unterminated, res.Unterminated)
			}
			for i := range unterminated {
				if unterminated[i] != res.Unterminated[i] {
					t.Fatalf("inline=%v: unterminated mismatch %v vs %v", inline, unterminated, res.Unterminated)
				}
			}
			if (len(res.Unterminated) > 0) != (rep.unterminated > 0) {
				t.Fatalf("inline=%v: %d unterminated spans but %d diagnostics",
					inline, len(res.Unterminated), rep.unterminated)
			}
		}
	})
}

// FuzzTokenizeDeterministic: два прогона над одним буфером дают одинаковый поток.
func FuzzTokenizeDeterministic(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.php", input))

		a := lexer.Tokenize(file, lexer.Options{InlineHTML: true})
		b := lexer.Tokenize(file, lexer.Options{InlineHTML: true})
		if len(a.Tokens) != len(b.Tokens) {
			t.Fatalf("token count differs: %d vs %d", len(a.Tokens), len(b.Tokens))
		}
		for i := range a.Tokens {
			if a.Tokens[i] != b.Tokens[i] {
				t.Fatalf("token %d differs: %+v vs %+v", i, a.Tokens[i], b.Tokens[i])
			}
		}
	})
}
