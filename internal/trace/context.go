package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from context, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// SpanContext is the propagated part of the active span.
// File is the path of the file being analysed, empty above file scope.
type SpanContext struct {
	SpanID uint64
	GID    uint64
	File   string
}

type spanCtxKey struct{}

// CurrentSpan retrieves the active span context; zero when absent.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	if sc, ok := ctx.Value(spanCtxKey{}).(SpanContext); ok {
		return sc
	}
	return SpanContext{}
}

// WithSpanContext attaches span context.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanCtxKey{}, sc)
}

// WithFile marks ctx as belonging to the analysis of path. Pass spans started
// from it carry the path as the "file" extra.
func WithFile(ctx context.Context, path string) context.Context {
	sc := CurrentSpan(ctx)
	sc.File = path
	return WithSpanContext(ctx, sc)
}

// BeginPass starts a pass span under the active span of ctx.
func BeginPass(ctx context.Context, name string) *Span {
	sc := CurrentSpan(ctx)
	sp := Begin(FromContext(ctx), ScopePass, name, sc.SpanID)
	if sc.File != "" {
		sp.WithExtra("file", sc.File)
	}
	return sp
}
