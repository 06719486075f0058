// Package trace provides a tracing subsystem for the attrlex tokenizer.
//
// Enable tracing via command-line flags:
//
//	attrlex tokenize --trace=- --trace-level=detail src/
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Reserved, emits nothing
//   - LevelPhase: Driver and directory-run boundaries
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything including one event per attribute span
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "tokenize_dir")
//	defer span.End("")
//
// Spans started from the returned ctx hang under span.
package trace
