// Package attr reads attribute spans out of a paired token sequence produced by
// lexer.Tokenize. It never re-lexes: everything is derived from the pairing fields.
package attr
