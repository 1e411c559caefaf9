package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const InstrumentationName = "sunhex/token"

type otelTracer struct {
	t trace.Tracer
}

// NewOTel wraps t, or the global provider's tracer when t is nil.
func NewOTel(t trace.Tracer) Tracer {
	if t == nil {
		t = otel.Tracer(InstrumentationName)
	}
	return otelTracer{t: t}
}

func (o otelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, sp := o.t.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, otelSpan{sp: sp}
}

type otelSpan struct {
	sp trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.sp.RecordError(err)
		s.sp.SetStatus(codes.Error, err.Error())
	}
	s.sp.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) { s.sp.SetAttributes(attrs...) }

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.sp.AddEvent(name, trace.WithAttributes(attrs...))
}
