package diag

import (
	"attrlex/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the bytes under Span with NewText.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a suggested correction; nothing in this module applies it.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
