package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"attrlex/internal/token"
)

type TokenOutput struct {
	Index           int    `json:"index"`
	Kind            string `json:"kind"`
	Text            string `json:"text"`
	Line            uint32 `json:"line"`
	Column          uint32 `json:"column"`
	StartByte       uint32 `json:"start_byte"`
	EndByte         uint32 `json:"end_byte"`
	AttributeOpener *int   `json:"attribute_opener,omitempty"`
	AttributeCloser *int   `json:"attribute_closer,omitempty"`
	Unterminated    bool   `json:"unterminated,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
//
//	  3: AttributeOpen    "#[" at 2:1 [-> 5]
func FormatTokensPretty(w io.Writer, tokens []token.Token, opts TokenOpts) error {
	attrColor := color.New(color.FgCyan, color.Bold)
	badColor := color.New(color.FgRed, color.Bold)
	if opts.Color {
		attrColor.EnableColor()
		badColor.EnableColor()
	} else {
		attrColor.DisableColor()
		badColor.DisableColor()
	}

	for _, tok := range tokens {
		if opts.SkipTrivia && tok.IsTrivia() {
			continue
		}

		kind := fmt.Sprintf("%-16s", tok.Kind.String())
		switch tok.Kind {
		case token.AttributeOpen, token.AttributeClose:
			kind = attrColor.Sprint(kind)
		case token.Invalid:
			kind = badColor.Sprint(kind)
		}

		if _, err := fmt.Fprintf(w, "%4d: %s %q at %d:%d", tok.Index, kind, tok.Text, tok.Line, tok.Col); err != nil {
			return err
		}

		var pairing string
		switch {
		case tok.Kind == token.AttributeOpen && tok.HasAttributeCloser():
			pairing = fmt.Sprintf(" [-> %d]", tok.AttributeCloser)
		case tok.Kind == token.AttributeOpen:
			pairing = badColor.Sprint(" [unterminated]")
		case tok.HasAttributeOpener():
			pairing = fmt.Sprintf(" [%d <-]", tok.AttributeOpener)
		}
		if _, err := fmt.Fprintln(w, pairing); err != nil {
			return err
		}
	}
	return nil
}

// FileTokensOutput groups the tokens of one file for multi-file JSON output.
type FileTokensOutput struct {
	File   string        `json:"file"`
	Tokens []TokenOutput `json:"tokens"`
}

// BuildTokenOutputs converts tokens into their JSON representation.
func BuildTokenOutputs(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Index:     tok.Index,
			Kind:      tok.Kind.String(),
			Text:      tok.Text,
			Line:      tok.Line,
			Column:    tok.Col,
			StartByte: tok.Span.Start,
			EndByte:   tok.Span.End,
		}
		if tok.HasAttributeOpener() {
			opener := tok.AttributeOpener
			out.AttributeOpener = &opener
		}
		if tok.HasAttributeCloser() {
			closer := tok.AttributeCloser
			out.AttributeCloser = &closer
		}
		out.Unterminated = tok.Kind == token.AttributeOpen && !tok.HasAttributeCloser()
		output = append(output, out)
	}
	return output
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	return encodeJSON(w, BuildTokenOutputs(tokens))
}

// FormatFileTokensJSON выводит токены нескольких файлов одним массивом.
func FormatFileTokensJSON(w io.Writer, files []FileTokensOutput) error {
	return encodeJSON(w, files)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
