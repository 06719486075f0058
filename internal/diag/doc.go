// Package diag defines the diagnostic model shared by the tokenizer, the driver and
// the CLI.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form
//     such as LEX1010.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages, e.g. "attribute opened here".
//   - Fixes – optional suggested edits. Nothing in this module applies them.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter to decouple emission from storage. The lexer
// constructs a ReportBuilder via ReportError/ReportWarning and chains WithNote /
// WithFix before calling Emit. BagReporter aggregates diagnostics into a Bag,
// which supports a size limit, sorting and deduplication.
//
// Package diag does not format for terminals; rendering lives in internal/diagfmt.
package diag
