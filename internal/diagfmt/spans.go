package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"attrlex/internal/attr"
	"attrlex/internal/token"
)

// SpanOutput is one attribute span in JSON output.
type SpanOutput struct {
	Opener       int      `json:"opener"`
	Closer       *int     `json:"closer,omitempty"`
	Depth        int      `json:"depth"`
	Parent       *int     `json:"parent,omitempty"`
	Line         uint32   `json:"line"`
	Column       uint32   `json:"column"`
	EndLine      uint32   `json:"end_line,omitempty"`
	EndColumn    uint32   `json:"end_column,omitempty"`
	Declarations []string `json:"declarations"`
}

type FileSpansOutput struct {
	File  string       `json:"file"`
	Spans []SpanOutput `json:"spans"`
}

func buildSpanOutput(tokens []token.Token, sp attr.Span) SpanOutput {
	open := tokens[sp.Opener]
	out := SpanOutput{
		Opener:       sp.Opener,
		Depth:        sp.Depth,
		Line:         open.Line,
		Column:       open.Col,
		Declarations: []string{},
	}
	if sp.Terminated() {
		closer := sp.Closer
		out.Closer = &closer
		out.EndLine = tokens[closer].Line
		out.EndColumn = tokens[closer].Col
	}
	if sp.Parent != token.NoIndex {
		parent := sp.Parent
		out.Parent = &parent
	}
	for _, d := range attr.Declarations(tokens, sp) {
		out.Declarations = append(out.Declarations, d.Name)
	}
	return out
}

// FormatSpansPretty печатает дерево атрибутов одного файла:
//
//	src/User.php
//	  4:5-4:20 Route, Get
//	    5:3-<unterminated> Inner
func FormatSpansPretty(w io.Writer, path string, tokens []token.Token, spans []attr.Span, opts TokenOpts) error {
	bad := color.New(color.FgRed, color.Bold)
	if opts.Color {
		bad.EnableColor()
	} else {
		bad.DisableColor()
	}

	if _, err := fmt.Fprintln(w, path); err != nil {
		return err
	}
	for _, sp := range spans {
		out := buildSpanOutput(tokens, sp)
		end := bad.Sprint("<unterminated>")
		if out.Closer != nil {
			end = fmt.Sprintf("%d:%d", out.EndLine, out.EndColumn)
		}
		indent := strings.Repeat("  ", sp.Depth+1)
		if _, err := fmt.Fprintf(w, "%s%d:%d-%s %s\n", indent, out.Line, out.Column, end, strings.Join(out.Declarations, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatSpansJSON выводит спаны нескольких файлов одним JSON массивом.
func FormatSpansJSON(w io.Writer, files []FileSpansOutput) error {
	return encodeJSON(w, files)
}

// BuildFileSpans собирает JSON представление спанов файла.
func BuildFileSpans(path string, tokens []token.Token, spans []attr.Span) FileSpansOutput {
	out := FileSpansOutput{File: path, Spans: make([]SpanOutput, 0, len(spans))}
	for _, sp := range spans {
		out.Spans = append(out.Spans, buildSpanOutput(tokens, sp))
	}
	return out
}
