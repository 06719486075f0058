package diag

import (
	"fmt"

	"attrlex/internal/source"
)

// New returns a diagnostic without notes or fixes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// WithInsertion adds a fix titled "insert 'text'" that inserts text at the
// start of at, e.g. the missing ']' of an attribute at end of file.
func (d Diagnostic) WithInsertion(at source.Span, text string) Diagnostic {
	pos := source.Span{File: at.File, Start: at.Start, End: at.Start}
	return d.WithFix(fmt.Sprintf("insert '%s'", text), FixEdit{Span: pos, NewText: text})
}
