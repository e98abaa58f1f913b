package trace

import "context"

// SpanContext is the span and session new spans are parented to.
type SpanContext struct {
	SpanID  uint64
	Session string
}

type carrierKey struct{}

type carrier struct {
	tracer Tracer
	span   SpanContext
}

func load(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(carrierKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{tracer: Nop}
}

func store(ctx context.Context, c carrier) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, carrierKey{}, c)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return load(ctx).tracer
}

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	c := load(ctx)
	c.tracer = t
	return store(ctx, c)
}

// CurrentSpan returns the span carried by ctx, zero when there is none.
func CurrentSpan(ctx context.Context) SpanContext {
	return load(ctx).span
}

// WithSession tags every span started below ctx with session.
func WithSession(ctx context.Context, session string) context.Context {
	c := load(ctx)
	c.span.Session = session
	return store(ctx, c)
}
