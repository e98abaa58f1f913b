package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

func nextSeq() uint64 { return seq.Add(1) }

// Span is an open span; End emits its end event. A Span that was filtered
// out by the tracer level is inert.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  SpanContext
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

func (s *Span) live() bool { return s != nil && s.id != 0 }

// Start opens a span under the span carried by ctx. The returned context
// makes it the parent of nested spans.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	c := load(ctx)
	if !records(c.tracer, scope) {
		return ctx, &Span{}
	}
	s := &Span{
		tracer:  c.tracer,
		id:      spanIDs.Add(1),
		parent:  c.span,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "", nil)
	c.span = SpanContext{SpanID: s.id, Session: c.span.Session}
	return store(ctx, c), s
}

// Point emits an instant event under the span carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	c := load(ctx)
	if !records(c.tracer, scope) {
		return
	}
	c.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: c.span.SpanID,
		Session:  c.span.Session,
		Name:     name,
		Detail:   detail,
	})
}

func (s *Span) emit(kind Kind, at time.Time, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent.SpanID,
		Session:  s.parent.Session,
		Name:     s.name,
		Detail:   detail,
		Extra:    extra,
	})
}

// End emits the end event with the collected extras and returns the span's
// duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.extra)
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID is zero for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
