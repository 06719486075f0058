package lexer

import (
	"attrlex/internal/source"
	"attrlex/internal/token"
)

// Result is the output of one tokenization run.
type Result struct {
	// Tokens is the full sequence; concatenating Text reconstructs the file.
	Tokens []token.Token
	// Unterminated lists indices of AttributeOpen tokens whose span reached EOF,
	// in ascending order. Their AttributeCloser is token.NoIndex.
	Unterminated []int
}

// Complete reports whether every attribute span in the file was closed.
func (r Result) Complete() bool { return len(r.Unterminated) == 0 }

// Tokenize tokenizes the whole file and pairs every attribute opener with its
// closer. Each call owns its cursor, delimiter stack and output; nothing is shared
// between calls, so files can be tokenized in parallel.
func Tokenize(file *source.File, opts Options) Result {
	lx := New(file, opts)
	// грубая оценка: ~1 токен на 4 байта
	em := newEmitter(len(file.Content)/4 + 1)
	spans := newSpanBuilder(lx, em)

	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		idx := em.emit(tok)
		if tok.Kind == token.AttributeOpen {
			spans.build(idx)
		}
	}

	return Result{
		Tokens:       em.finish(),
		Unterminated: spans.unterminated,
	}
}
