
// Package fuzztests houses Go fuzz harnesses for the attribute-aware tokenizer.
// Each harness loads arbitrary bytes into a FileSet, tokenizes them and asserts
// the token-stream invariants: full reconstruction, pairing symmetry and proper
// nesting of attribute spans.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/attr, internal/diag.

package fuzztests
