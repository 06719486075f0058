// Package token defines lexical token kinds for the attribute-aware PHP tokenizer.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End); concatenating Text of all tokens
//     reconstructs the file byte-for-byte.
//   - Whitespace and comments are ordinary tokens in the stream, not trivia.
//   - Attributes are AttributeOpen (`#[`) ... AttributeClose (`]`) pairs linked by
//     AttributeCloser/AttributeOpener indices; every other token has NoIndex in both.
//   - true, false, null and built-in type names (int, string, ...) are identifiers.
package token
