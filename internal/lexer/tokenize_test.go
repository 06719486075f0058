package lexer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"attrlex/internal/diag"
	"attrlex/internal/lexer"
	"attrlex/internal/source"
	"attrlex/internal/token"
	"attrlex/internal/trace"
)

func tokenize(t *testing.T, src string, opts lexer.Options) (lexer.Result, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.php", []byte(src)))
	rep := &testReporter{}
	opts.Reporter = rep
	res := lexer.Tokenize(file, opts)
	checkInvariants(t, src, res)
	return res, rep
}

// checkInvariants проверяет свойства, общие для любого входа:
// реконструкция, индексы, взаимные ссылки пар и правильная вложенность.
func checkInvariants(t *testing.T, src string, res lexer.Result) {
	t.Helper()
	toks := res.Tokens

	var sb strings.Builder
	for i, tok := range toks {
		sb.WriteString(tok.Text)
		if tok.Index != i {
			t.Fatalf("token %d has Index %d", i, tok.Index)
		}
	}
	if sb.String() != src {
		t.Fatalf("reconstruction mismatch:\n got %q\nwant %q", sb.String(), src)
	}

	unterminated := make(map[int]bool, len(res.Unterminated))
	for i, idx := range res.Unterminated {
		if i > 0 && res.Unterminated[i-1] >= idx {
			t.Fatalf("Unterminated not ascending: %v", res.Unterminated)
		}
		unterminated[idx] = true
	}

	type pair struct{ open, close int }
	var pairs []pair
	for i, tok := range toks {
		switch tok.Kind {
		case token.AttributeOpen:
			if tok.HasAttributeOpener() {
				t.Fatalf("opener %d carries AttributeOpener", i)
			}
			if !tok.HasAttributeCloser() {
				if !unterminated[i] {
					t.Fatalf("opener %d has no closer and is not unterminated", i)
				}
				continue
			}
			j := tok.AttributeCloser
			if j <= i || j >= len(toks) {
				t.Fatalf("opener %d points to %d", i, j)
			}
			if toks[j].Kind != token.AttributeClose || toks[j].AttributeOpener != i {
				t.Fatalf("closer %d does not point back to %d", j, i)
			}
			pairs = append(pairs, pair{i, j})
		case token.AttributeClose:
			if tok.HasAttributeCloser() {
				t.Fatalf("closer %d carries AttributeCloser", i)
			}
			if o := tok.AttributeOpener; o < 0 || toks[o].AttributeCloser != i {
				t.Fatalf("closer %d not referenced by its opener", i)
			}
			if tok.Text != "]" {
				t.Fatalf("closer %d text %q", i, tok.Text)
			}
		default:
			if tok.HasAttributeOpener() || tok.HasAttributeCloser() {
				t.Fatalf("token %d (%v) carries pairing fields", i, tok.Kind)
			}
		}
	}

	for _, a := range pairs {
		for _, b := range pairs {
			if a.open < b.open && b.open < a.close && b.close > a.close {
				t.Fatalf("spans %v and %v overlap", a, b)
			}
		}
	}
}

func nthOpener(t *testing.T, toks []token.Token, n int) int {
	t.Helper()
	for i, tok := range toks {
		if tok.Kind == token.AttributeOpen {
			if n == 0 {
				return i
			}
			n--
		}
	}
	t.Fatalf("opener #%d not found", n)
	return -1
}

func TestAttributeScenarios(t *testing.T) {
	tests := []struct {
		name   string
		attr   string
		offset int // closer - opener
	}{
		{"plain", "#[Attribute]", 2},
		{"class constant argument", "#[Attribute(Attribute::TARGET_CLASS)]", 7},
		{"named argument", "#[Attribute(flags: Attribute::TARGET_CLASS)]", 10},
		{"array argument", "#[AttributeWithParams('foo', bar: ['foo' => 'bar'])]", 17},
		{"grouped", "#[CustomAttribute, AttributeWithParams('foo'), AttributeWithParams('foo', bar: ['foo' => 'bar'])]", 26},
		{"empty", "#[]", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "<?php\n\nclass Foo {\n    " + tt.attr + "\n    public function bar() {}\n}\n"
			res, rep := tokenize(t, src, lexer.Options{InlineHTML: true})
			if len(rep.items) != 0 {
				t.Fatalf("unexpected diagnostics: %v", rep.codes())
			}
			if !res.Complete() {
				t.Fatalf("unexpected unterminated spans: %v", res.Unterminated)
			}

			opener := nthOpener(t, res.Tokens, 0)
			closer := res.Tokens[opener].AttributeCloser
			if closer-opener != tt.offset {
				t.Fatalf("closer at opener+%d, want +%d", closer-opener, tt.offset)
			}
			if res.Tokens[closer+1].Kind != token.Newline {
				t.Errorf("token after closer = %v, want Newline", res.Tokens[closer+1].Kind)
			}
			if res.Tokens[opener].Line != 4 || res.Tokens[opener].Col != 5 {
				t.Errorf("opener at %d:%d, want 4:5", res.Tokens[opener].Line, res.Tokens[opener].Col)
			}
		})
	}
}

func TestTwoAttributesOnOneLine(t *testing.T) {
	res, _ := tokenize(t, "#[Attr1] #[Attr2]\nfunction f() {}", lexer.Options{})

	first := nthOpener(t, res.Tokens, 0)
	second := nthOpener(t, res.Tokens, 1)
	firstCloser := res.Tokens[first].AttributeCloser
	if firstCloser != first+2 {
		t.Fatalf("first closer at %d, want %d", firstCloser, first+2)
	}
	if second != firstCloser+2 {
		t.Fatalf("second opener at %d, want %d", second, firstCloser+2)
	}
	if res.Tokens[second].AttributeCloser != second+2 {
		t.Fatalf("second closer at %d", res.Tokens[second].AttributeCloser)
	}
}

func TestTrailingComment(t *testing.T) {
	for _, comment := range []string{"// comment", "# comment", "/* comment */"} {
		t.Run(comment, func(t *testing.T) {
			res, _ := tokenize(t, "#[Attribute] "+comment+"\nclass A {}", lexer.Options{})
			closer := res.Tokens[0].AttributeCloser
			if closer != 2 {
				t.Fatalf("closer at %d", closer)
			}
			if k := res.Tokens[closer+1].Kind; k != token.Whitespace {
				t.Errorf("closer+1 = %v, want Whitespace", k)
			}
			if tok := res.Tokens[closer+2]; !tok.Kind.IsComment() || tok.Text != comment {
				t.Errorf("closer+2 = %v %q, want comment %q", tok.Kind, tok.Text, comment)
			}
		})
	}
}

func TestParameterAttribute(t *testing.T) {
	res, _ := tokenize(t, "function foo(#[ParamAttribute] int $param) {}", lexer.Options{})
	toks := res.Tokens

	opener := nthOpener(t, toks, 0)
	closer := toks[opener].AttributeCloser
	if closer != opener+2 {
		t.Fatalf("closer at opener+%d, want +2", closer-opener)
	}
	if toks[opener+4].Kind != token.Ident || toks[opener+4].Text != "int" {
		t.Errorf("opener+4 = %v %q, want type name", toks[opener+4].Kind, toks[opener+4].Text)
	}
	if toks[opener+6].Kind != token.Variable || toks[opener+6].Text != "$param" {
		t.Errorf("opener+6 = %v %q, want $param", toks[opener+6].Kind, toks[opener+6].Text)
	}
	// скобки параметров вне атрибута не трогаются
	if toks[opener-1].Kind != token.LParen || toks[opener+7].Kind != token.RParen {
		t.Errorf("parameter parens not preserved")
	}
}

func TestDocCommentAfterAttribute(t *testing.T) {
	res, _ := tokenize(t, "#[A]\n/** doc */\nfunction f() {}", lexer.Options{})
	if res.Tokens[3].Kind != token.Newline || res.Tokens[4].Kind != token.DocComment {
		t.Fatalf("got %v %v", res.Tokens[3].Kind, res.Tokens[4].Kind)
	}
}

func TestMultilineGroupedAttribute(t *testing.T) {
	src := "#[\n    CustomAttribute,\n    AttributeWithParams('foo'),\n]\nfunction f() {}"
	res, _ := tokenize(t, src, lexer.Options{})

	closer := res.Tokens[0].AttributeCloser
	if closer != 13 {
		t.Fatalf("closer at %d, want 13", closer)
	}
	if tok := res.Tokens[closer]; tok.Line != 4 || tok.Col != 1 {
		t.Errorf("closer at %d:%d, want 4:1", tok.Line, tok.Col)
	}
}

func TestNestedAttributes(t *testing.T) {
	res, rep := tokenize(t, "#[Outer(#[Inner] fn() => [1])]", lexer.Options{})
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes())
	}
	toks := res.Tokens

	if toks[0].AttributeCloser != 17 {
		t.Errorf("outer closer at %d, want 17", toks[0].AttributeCloser)
	}
	if toks[3].Kind != token.AttributeOpen || toks[3].AttributeCloser != 5 {
		t.Errorf("inner span = %v..%d", toks[3].Kind, toks[3].AttributeCloser)
	}
	if toks[7].Kind != token.KwFn {
		t.Errorf("token 7 = %v, want fn", toks[7].Kind)
	}
	// ']' массива — обычная скобка
	if toks[15].Kind != token.RBracket {
		t.Errorf("array bracket retagged as %v", toks[15].Kind)
	}
}

func TestDelimitersInsideAtomicTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		closer int
	}{
		{"string", `#[Route('/a)]b', methods: ["GET"])]`, 13},
		{"hash comment", "#[A( # c )\n)]", 7},
		{"block comment", "#[A(/* ] */)]", 5},
		{"heredoc", "#[A(<<<EOT\n)]\nEOT)]", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, rep := tokenize(t, tt.src, lexer.Options{})
			if len(rep.items) != 0 {
				t.Fatalf("unexpected diagnostics: %v", rep.codes())
			}
			if got := res.Tokens[0].AttributeCloser; got != tt.closer {
				t.Fatalf("closer at %d, want %d", got, tt.closer)
			}
		})
	}
}

func TestHashWithoutBracketIsComment(t *testing.T) {
	res, _ := tokenize(t, "# [A]\n#\n#", lexer.Options{})
	for _, tok := range res.Tokens {
		if tok.Kind == token.AttributeOpen || tok.Kind == token.AttributeClose {
			t.Fatalf("unexpected attribute token %q", tok.Text)
		}
	}
}

func TestUnterminatedAttribute(t *testing.T) {
	src := "#[A(1, 2)\nfunction f() {}"
	res, rep := tokenize(t, src, lexer.Options{})

	if res.Complete() {
		t.Fatal("expected incomplete result")
	}
	if diff := cmp.Diff([]int{0}, res.Unterminated); diff != "" {
		t.Fatalf("Unterminated mismatch (-want +got):\n%s", diff)
	}
	if res.Tokens[0].AttributeCloser != token.NoIndex {
		t.Errorf("unterminated opener has closer %d", res.Tokens[0].AttributeCloser)
	}
	for _, tok := range res.Tokens {
		if tok.Kind == token.AttributeClose {
			t.Fatalf("unexpected closer at %d", tok.Index)
		}
	}

	if len(rep.items) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", rep.codes())
	}
	d := rep.items[0]
	if d.Code != diag.LexUnterminatedAttribute || d.Severity != diag.SevError {
		t.Fatalf("got %v %v", d.Code, d.Severity)
	}
	if d.Primary != res.Tokens[0].Span {
		t.Errorf("primary span %v, want opener %v", d.Primary, res.Tokens[0].Span)
	}
	if len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Fatalf("want one note and one fix, got %d/%d", len(d.Notes), len(d.Fixes))
	}
	edit := d.Fixes[0].Edits[0]
	end := uint32(len(src))
	if edit.NewText != "]" || edit.Span.Start != end || edit.Span.End != end {
		t.Errorf("fix edit = %+v", edit)
	}
}

func TestNestedUnterminated(t *testing.T) {
	res, rep := tokenize(t, "#[A(#[B", lexer.Options{})

	if diff := cmp.Diff([]int{0, 3}, res.Unterminated); diff != "" {
		t.Fatalf("Unterminated mismatch (-want +got):\n%s", diff)
	}
	if len(rep.items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", rep.codes())
	}
	for i, want := range []int{0, 3} {
		if rep.items[i].Code != diag.LexUnterminatedAttribute {
			t.Errorf("diag %d: %v", i, rep.items[i].Code)
		}
		if rep.items[i].Primary != res.Tokens[want].Span {
			t.Errorf("diag %d points at %v, want token %d", i, rep.items[i].Primary, want)
		}
	}
}

func TestOpenerAtEOF(t *testing.T) {
	res, _ := tokenize(t, "#[", lexer.Options{})
	if diff := cmp.Diff([]int{0}, res.Unterminated); diff != "" {
		t.Fatalf("Unterminated mismatch (-want +got):\n%s", diff)
	}
}

func TestStrayCloserInsideAttribute(t *testing.T) {
	res, rep := tokenize(t, "#[A)]", lexer.Options{})

	if res.Tokens[2].Kind != token.RParen {
		t.Errorf("stray closer kind = %v", res.Tokens[2].Kind)
	}
	if res.Tokens[0].AttributeCloser != 3 {
		t.Fatalf("closer at %d, want 3", res.Tokens[0].AttributeCloser)
	}
	if len(rep.items) != 1 || rep.items[0].Code != diag.LexUnbalancedDelimiter {
		t.Fatalf("got %v", rep.codes())
	}
	if rep.items[0].Severity != diag.SevWarning {
		t.Errorf("severity %v, want warning", rep.items[0].Severity)
	}
}

func TestUnclosedInnerDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		closer  int
		unclose int // индекс незакрытого разделителя
	}{
		{"paren closed by bracket", "#[A(1] $x", 4, 2},
		{"brace closed by paren", "#[A({)]", 5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, rep := tokenize(t, tt.src, lexer.Options{})
			if got := res.Tokens[0].AttributeCloser; got != tt.closer {
				t.Fatalf("closer at %d, want %d", got, tt.closer)
			}
			if len(rep.items) != 1 || rep.items[0].Code != diag.LexUnclosedDelimiter {
				t.Fatalf("got %v", rep.codes())
			}
			if rep.items[0].Primary != res.Tokens[tt.unclose].Span {
				t.Errorf("warning on %v, want token %d", rep.items[0].Primary, tt.unclose)
			}
		})
	}
}

func TestClosersOutsideAttributesAreIgnored(t *testing.T) {
	res, rep := tokenize(t, "}) ] #[A] )", lexer.Options{})
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes())
	}
	if res.Tokens[5].AttributeCloser != 7 {
		t.Fatalf("closer at %d, want 7", res.Tokens[5].AttributeCloser)
	}
}

func TestInlineHTMLFile(t *testing.T) {
	src := "<html>\n<p>#[not]</p>\n<?php\n#[A]\nfunction f() {}\n?>\n</html>"
	res, _ := tokenize(t, src, lexer.Options{InlineHTML: true})
	toks := res.Tokens

	if toks[0].Kind != token.InlineHTML || toks[1].Kind != token.OpenTag {
		t.Fatalf("got %v %v", toks[0].Kind, toks[1].Kind)
	}
	if toks[2].Kind != token.AttributeOpen || toks[2].AttributeCloser != 4 {
		t.Fatalf("attribute not paired: %v -> %d", toks[2].Kind, toks[2].AttributeCloser)
	}
	if toks[2].Line != 4 || toks[2].Col != 1 {
		t.Errorf("opener at %d:%d, want 4:1", toks[2].Line, toks[2].Col)
	}
	last := toks[len(toks)-1]
	if last.Kind != token.InlineHTML || last.Text != "</html>" {
		t.Errorf("last token %v %q", last.Kind, last.Text)
	}
}

func TestShortOpenTagFile(t *testing.T) {
	res, _ := tokenize(t, "<? #[A] function f() {}", lexer.Options{InlineHTML: true})
	toks := res.Tokens
	if toks[0].Kind != token.OpenTag || toks[0].Text != "<? " {
		t.Fatalf("first token %v %q, want OpenTag \"<? \"", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.AttributeOpen || toks[1].AttributeCloser != 3 {
		t.Fatalf("attribute not paired: %v -> %d", toks[1].Kind, toks[1].AttributeCloser)
	}
}

func TestCRLFInsideAttribute(t *testing.T) {
	res, _ := tokenize(t, "#[A(\r\n  1\r\n)]\r\nclass B {}", lexer.Options{})
	closer := res.Tokens[0].AttributeCloser
	if tok := res.Tokens[closer]; tok.Line != 3 || tok.Col != 2 {
		t.Errorf("closer at %d:%d, want 3:2", tok.Line, tok.Col)
	}
}

func TestInvalidTokenInsideAttribute(t *testing.T) {
	res, rep := tokenize(t, "#[A(§)]", lexer.Options{})
	if res.Tokens[3].Kind != token.Invalid {
		t.Errorf("token 3 = %v", res.Tokens[3].Kind)
	}
	if res.Tokens[0].AttributeCloser != 5 {
		t.Errorf("closer at %d, want 5", res.Tokens[0].AttributeCloser)
	}
	if len(rep.items) != 1 || rep.items[0].Code != diag.LexUnknownChar {
		t.Errorf("got %v", rep.codes())
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	src := "<?php\n#[A(#[B] fn() => [1]), C]\nfunction f(#[D] $x) {}\n#[E("
	first, rep1 := tokenize(t, src, lexer.Options{InlineHTML: true})
	second, rep2 := tokenize(t, src, lexer.Options{InlineHTML: true})

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(rep1.items, rep2.items); diff != "" {
		t.Fatalf("diagnostics differ (-first +second):\n%s", diff)
	}
}

func TestTokenizeNilReporter(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("nil.php", []byte("#[A)(")))
	res := lexer.Tokenize(file, lexer.Options{})
	if diff := cmp.Diff([]int{0}, res.Unterminated); diff != "" {
		t.Fatalf("Unterminated mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeTracesSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)

	tokenize(t, "#[Outer(#[Inner])]", lexer.Options{Tracer: tracer})

	out := buf.String()
	if strings.Count(out, "attribute (") != 2 {
		t.Fatalf("expected 2 span events, got:\n%s", out)
	}
	if !strings.Contains(out, "3..5") || !strings.Contains(out, "depth=1") {
		t.Errorf("inner span event missing:\n%s", out)
	}
	if !strings.Contains(out, "0..7") || !strings.Contains(out, "depth=0") {
		t.Errorf("outer span event missing:\n%s", out)
	}
}

func TestTracerBelowDebugIsSilent(t *testing.T) {
	var buf bytes.Buffer
	tracer := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)
	tokenize(t, "#[A]", lexer.Options{Tracer: tracer})
	if buf.Len() != 0 {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func deepNesting(n int) string {
	return "#[A" + strings.Repeat("(", n) + strings.Repeat(")", n) + "]"
}

// линейное время на глубокой вложенности: поиск закрывающей не копирует стек
func TestDeepNestingIsLinear(t *testing.T) {
	const depth = 50_000
	src := deepNesting(depth)

	start := time.Now()
	res, rep := tokenize(t, src, lexer.Options{})
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("tokenize of depth %d took %v", depth, elapsed)
	}

	last := len(res.Tokens) - 1
	if res.Tokens[0].AttributeCloser != last {
		t.Fatalf("closer at %d, want %d", res.Tokens[0].AttributeCloser, last)
	}
	if len(res.Unterminated) != 0 || len(rep.items) != 0 {
		t.Fatalf("unexpected unterminated %v / diagnostics %v", res.Unterminated, rep.codes())
	}
}

func BenchmarkTokenizeDeepNesting(b *testing.B) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("deep.php", []byte(deepNesting(50_000))))
	b.ReportAllocs()
	for b.Loop() {
		lexer.Tokenize(file, lexer.Options{})
	}
}
