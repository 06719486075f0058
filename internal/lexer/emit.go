package lexer

import (
	"attrlex/internal/token"
)

// emitter appends finished tokens in source order and assigns their Index.
// The span builder patches pairing fields of already emitted tokens by index.
type emitter struct {
	tokens []token.Token
}

func newEmitter(sizeHint int) *emitter {
	return &emitter{tokens: make([]token.Token, 0, sizeHint)}
}

func (e *emitter) emit(tok token.Token) int {
	tok.Index = len(e.tokens)
	e.tokens = append(e.tokens, tok)
	return tok.Index
}

func (e *emitter) at(i int) *token.Token {
	return &e.tokens[i]
}

// pair links an attribute opener with its closer and retags the closer.
func (e *emitter) pair(opener, closer int) {
	open := &e.tokens[opener]
	cl := &e.tokens[closer]
	cl.Kind = token.AttributeClose
	cl.AttributeOpener = opener
	open.AttributeCloser = closer
}

// finish hands the sequence over to the caller; the emitter keeps no reference.
func (e *emitter) finish() []token.Token {
	out := e.tokens
	e.tokens = nil
	return out
}
