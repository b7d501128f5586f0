// Package trace provides lightweight tracing for apiscan runs.
//
// Tracing answers "where did the time go" for large source trees: the driver
// opens one span per run, one span per analysed file and, at debug level,
// spans for the lex+scan pass and cache lookups.
//
// # Usage
//
//	apiscan scan --trace=- --trace-level=detail src/
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Reserved for failures
//   - LevelPhase: The driver span
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, "file:"+path, parentID)
//	defer span.End("")
package trace
