// Package tracer is the span API the token service depends on. Attributes
// are OpenTelemetry key-values; the otel tracer itself stays behind Tracer
// so services and their tests can run without a provider.
package tracer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span is an active trace span. End must be called exactly once; a non-nil
// err marks the span failed.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

type Attribute = attribute.KeyValue

var (
	String = attribute.String
	Bool   = attribute.Bool
	Int    = attribute.Int
)

const (
	SpanGenerate = "token.generate"
	SpanDecode   = "token.decode"
)

// Never attach names, dates, PINs or raw tokens.
const (
	AttrCountry     = "sin.country"
	AttrFingerprint = "token.fingerprint"
	AttrOutcome     = "decode.outcome"
)

const EventGuardLocked = "guard.locked"
