package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"attrlex/internal/diag"
	"attrlex/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	gutter, note    *color.Color
	fix, added      *color.Color
	removed         *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		gutter:  color.New(color.FgBlue),
		note:    color.New(color.FgGreen),
		fix:     color.New(color.FgMagenta),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.gutter, p.note, p.fix, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty печатает диагностики в человекочитаемом виде:
//
//	app/User.php:4:5: ERROR LEX1010: attribute is never closed
//	   4 | #[Route('/x'
//	     | ^^
//	  note: app/User.php:9:1: end of file reached here
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	header := sev.Sprintf("%s %s", d.Severity, d.Code.ID())

	file := fileOf(fs, d.Primary.File)
	if file == nil {
		fmt.Fprintf(w, "<unknown>: %s: %s\n", header, d.Message)
		return
	}
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", DisplayPath(file, fs, opts.PathMode), start.Line, start.Col, header, d.Message)

	// ObsTimings несёт JSON в заметке, исходник ему не нужен
	if d.Code != diag.ObsTimings {
		writeSnippet(w, file, d.Primary, start.Line, opts, pal, sev)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fileOf(fs, n.Span.File)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), DisplayPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.fix.Sprintf("fix #%d:", i+1), fx.Title)
			for _, e := range fx.Edits {
				ef := fileOf(fs, e.Span.File)
				if ef == nil {
					continue
				}
				pos, _ := fs.Resolve(e.Span)
				fmt.Fprintf(w, "    edit %s:%d:%d apply=%s\n", DisplayPath(ef, fs, opts.PathMode), pos.Line, pos.Col, strconv.Quote(e.NewText))
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, l := range preview.before {
					fmt.Fprintf(w, "      %s\n", pal.removed.Sprint("- "+l))
				}
				for _, l := range preview.after {
					fmt.Fprintf(w, "      %s\n", pal.added.Sprint("+ "+l))
				}
			}
		}
	}
}

// writeSnippet печатает строку с основным span, Context строк перед ней и подчёркивание.
func writeSnippet(w io.Writer, file *source.File, sp source.Span, line uint32, opts PrettyOpts, pal palette, mark *color.Color) {
	if sp.Start > sp.End || int(sp.End) > len(file.Content) {
		return
	}
	first := line
	for ctx := opts.Context; ctx > 0 && first > 1; ctx-- {
		first--
	}
	gw := len(strconv.FormatUint(uint64(line), 10))
	if gw < 3 {
		gw = 3
	}

	for n := first; n <= line; n++ {
		text := displayLine(file.GetLine(n), opts.Width)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gw, n), text)
	}

	from := lineStart(file.Content, sp.Start)
	raw := file.GetLine(line)
	lineEndOff := from + uint32(len(raw)) //nolint:gosec // строка файла
	underEnd := min(sp.End, lineEndOff)
	if underEnd < sp.Start {
		underEnd = sp.Start
	}

	pad := textWidth(string(file.Content[from:sp.Start]))
	width := max(textWidth(string(file.Content[sp.Start:underEnd])), 1)
	if opts.Width > 0 {
		limit := int(opts.Width)
		if pad >= limit {
			return
		}
		width = min(width, limit-pad)
	}
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gw, ""), strings.Repeat(" ", pad), mark.Sprint(strings.Repeat("^", width)))
}

func displayLine(s string, width uint8) string {
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	if width > 0 && runewidth.StringWidth(s) > int(width) {
		return runewidth.Truncate(s, int(width), "…")
	}
	return s
}

func textWidth(s string) int {
	return runewidth.StringWidth(strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth)))
}

func fileOf(fs *source.FileSet, id source.FileID) *source.File {
	if fs == nil {
		return nil
	}
	return fs.Get(id)
}
