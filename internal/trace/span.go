package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open begin/end pair. A Span obtained from a disabled tracer is
// inert: every method is a no-op and ID returns 0.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	fields  []Field
}

// Begin emits a begin event and returns the span to End. parent is 0 for roots.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	sp := &Span{
		t:       t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{
		Time:     sp.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   sp.id,
		ParentID: parent,
		Name:     name,
	})
	return sp
}

// Start begins a span under the parent recorded in ctx and returns a context
// in which the new span is the parent.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	sp := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	if sp.id == 0 {
		return sp, ctx
	}
	return sp, WithParent(ctx, sp.id)
}

func (s *Span) live() bool { return s != nil && s.t != nil }

// With records a field for the end event.
func (s *Span) With(key, value string) *Span {
	if s.live() {
		s.fields = append(s.fields, Field{Key: key, Value: value})
	}
	return s
}

// End emits the end event with detail and returns the elapsed time.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	elapsed := time.Since(s.started)
	s.t.Emit(&Event{
		Time:     s.started.Add(elapsed),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Fields:   s.fields,
	})
	return elapsed
}

// ID returns the span ID, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
