package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"attrlex/internal/source"
)

// shortLine — одна строка короткого формата.
type shortLine struct {
	label string // error | warning | info | note
	code  string
	path  string
	line  uint32
	col   uint32
	msg   string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
}

// FormatShortDiagnostics renders one `severity CODE path:line:col message` line
// per diagnostic (and per note when includeNotes is set), sorted by location.
// Paths are relative to the FileSet base and use forward slashes, so the output
// is stable across machines. Used by golden tests and `check --format short`.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	var lines []shortLine
	add := func(label string, code Code, sp source.Span, msg string) {
		f := fs.Get(sp.File)
		if f == nil {
			return
		}
		start, _ := fs.Resolve(sp)
		lines = append(lines, shortLine{
			label: label,
			code:  code.ID(),
			path:  slashPath(f.FormatPath("relative", fs.BaseDir())),
			line:  start.Line,
			col:   start.Col,
			msg:   oneLine(msg),
		})
	}
	for i := range diags {
		d := &diags[i]
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.label, b.label),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func slashPath(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

func oneLine(msg string) string {
	msg = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}
