package lexer

import (
	"attrlex/internal/diag"
	"attrlex/internal/source"
	"attrlex/internal/trace"
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)

	// InlineHTML starts the file in HTML mode: everything before the first `<?php`
	// or `<?=` is an InlineHTML token. When false the buffer is code from byte 0.
	// `?>` switches to HTML mode in both cases.
	InlineHTML bool

	// Tracer receives one ScopeToken event per closed attribute span (nil: trace.Nop).
	Tracer trace.Tracer
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
}

func (lx *Lexer) tracer() trace.Tracer {
	if lx.opts.Tracer == nil {
		return trace.Nop
	}
	return lx.opts.Tracer
}
