package trace

import "context"

// runState — трассировщик и текущий родительский span одной операции.
type runState struct {
	tracer Tracer
	parent uint64
}

type ctxKey struct{}

func stateOf(ctx context.Context) runState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(runState); ok {
			return st
		}
	}
	return runState{tracer: Nop}
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer { return stateOf(ctx).tracer }

// WithTracer attaches t to ctx. The parent span is reset.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, runState{tracer: t})
}

// ParentID returns the span new spans in ctx should hang under (0: root).
func ParentID(ctx context.Context) uint64 { return stateOf(ctx).parent }

// WithParent records id as the parent span for spans started from ctx.
func WithParent(ctx context.Context, id uint64) context.Context {
	st := stateOf(ctx)
	st.parent = id
	return context.WithValue(ctx, ctxKey{}, st)
}
