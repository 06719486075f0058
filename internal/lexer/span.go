package lexer

import (
	"fmt"

	"attrlex/internal/diag"
	"attrlex/internal/source"
	"attrlex/internal/token"
	"attrlex/internal/trace"
)

// spanBuilder drives one attribute span from its opener to the matching closer.
// It asks the general lexer for every token in between, feeds openers and closers
// through the delimiter stack and never looks at grammar: the same code handles
// top-level, grouped, nested and parameter attributes.
//
//	SEEKING_OPENER → OPENER_FOUND → (CONTENT | NESTED_OPEN → … → NESTED_CLOSE)*
//	  → CLOSER_FOUND → DONE
//	UNTERMINATED: EOF with a non-empty stack.
type spanBuilder struct {
	lx    *Lexer
	em    *emitter
	stack *delimStack

	unterminated []int
}

func newSpanBuilder(lx *Lexer, em *emitter) *spanBuilder {
	return &spanBuilder{lx: lx, em: em, stack: newDelimStack()}
}

// build runs until the opener at index opener is closed or input ends.
func (b *spanBuilder) build(opener int) {
	b.stack.push(delimAttribute, opener)
	for !b.stack.empty() {
		tok := b.lx.Next()
		if tok.Kind == token.EOF {
			b.unterminate(tok.Span)
			return
		}
		b.step(b.em.emit(tok))
	}
}

// step обновляет стек по одному содержательному токену.
func (b *spanBuilder) step(idx int) {
	tok := b.em.at(idx)
	switch tok.Kind {
	case token.AttributeOpen:
		b.stack.push(delimAttribute, idx)
	case token.LParen:
		b.stack.push(delimParen, idx)
	case token.LBracket:
		b.stack.push(delimBracket, idx)
	case token.LBrace:
		b.stack.push(delimBrace, idx)
	case token.RParen, token.RBracket, token.RBrace:
		b.close(idx, tok.Text[0])
	}
}

func (b *spanBuilder) close(idx int, c byte) {
	closer := b.em.at(idx)
	skip, ok := b.stack.search(c)
	if !ok {
		// лишняя закрывающая скобка: остаётся содержимым, спан не закрываем
		inner, _ := b.stack.top()
		diag.ReportWarning(b.lx.opts.Reporter, diag.LexUnbalancedDelimiter, closer.Span,
			fmt.Sprintf("'%c' has no matching opener inside the attribute", c)).
			WithNote(b.em.at(inner.index).Span, "innermost open delimiter "+inner.kind.String()).
			Emit()
		return
	}

	for range skip {
		e, _ := b.stack.pop()
		diag.ReportWarning(b.lx.opts.Reporter, diag.LexUnclosedDelimiter, b.em.at(e.index).Span,
			fmt.Sprintf("'%s' is never closed; closed implicitly by '%c'", e.kind, c)).
			WithNote(closer.Span, "closed here").
			Emit()
	}

	e, _ := b.stack.pop()
	if e.kind != delimAttribute {
		return
	}
	b.em.pair(e.index, idx)
	b.traceSpan(e.index, idx, b.stack.attributeDepth())
}

// unterminate reports every attribute still open at EOF and clears the stack.
func (b *spanBuilder) unterminate(eof source.Span) {
	entries := b.stack.drain()
	// drain отдаёт от внутреннего к внешнему; в Result нужен порядок по возрастанию
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.kind != delimAttribute {
			continue
		}
		b.unterminated = append(b.unterminated, e.index)
		opener := b.em.at(e.index)
		diag.ReportError(b.lx.opts.Reporter, diag.LexUnterminatedAttribute, opener.Span,
			fmt.Sprintf("attribute opened at %d:%d is never closed", opener.Line, opener.Col)).
			WithNote(eof, "end of file reached inside the attribute").
			WithInsertion(eof, "]").
			Emit()
	}
}

func (b *spanBuilder) traceSpan(opener, closer, depth int) {
	t := b.lx.tracer()
	if !t.Level().ShouldEmit(trace.ScopeToken) {
		return
	}
	open := b.em.at(opener)
	trace.Point(t, trace.ScopeToken, "attribute",
		fmt.Sprintf("%s %d..%d at %d:%d depth=%d", b.lx.file.Path, opener, closer, open.Line, open.Col, depth), 0)
}
