package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sunhex/internal/audit"
	guardmodels "sunhex/internal/guard/models"
	guard "sunhex/internal/guard/service"
	"sunhex/internal/platform/tracer"
	"sunhex/internal/sin"
	"sunhex/internal/token/metrics"
	"sunhex/internal/token/models"
	dErrors "sunhex/pkg/domain-errors"
)

// MsgDecodeFailed is the only message a failed decode produces. A wrong PIN
// and a damaged token cannot be told apart, so neither is named.
const MsgDecodeFailed = "Invalid PIN or corrupted hex code"

// Guard brakes repeated failed decodes of one token.
type Guard interface {
	Check(ctx context.Context, fingerprint string) error
	RecordFailure(ctx context.Context, fingerprint string) (*guardmodels.Attempt, error)
	Clear(ctx context.Context, fingerprint string) error
}

// Service is the boundary around the sin codec: it maps codec errors to
// domain errors and adds attempt limiting, audit, metrics and tracing.
type Service struct {
	guard   Guard
	audit   audit.Publisher
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

type Option func(*Service)

func WithGuard(g Guard) Option {
	return func(s *Service) {
		s.guard = g
	}
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.audit = p
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a Service. Without WithGuard decodes are never limited.
func New(opts ...Option) *Service {
	s := &Service{
		audit:  audit.NoopPublisher{},
		tracer: tracer.NewNoop(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces a token for the command's identity.
func (s *Service) Generate(ctx context.Context, cmd models.GenerateCommand) (_ *models.GenerateResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGenerate)
	defer func() { span.End(err) }()

	start := time.Now()
	trace, err := sin.GenerateDetailed(cmd.Info, cmd.PIN)
	s.observe(metrics.OperationGenerate, start)
	if err != nil {
		return nil, toDomainError(err)
	}

	country := sin.DecodeCountry(trace.Fields.Country)
	span.SetAttributes(tracer.String(tracer.AttrCountry, country))
	if s.metrics != nil {
		s.metrics.IncGenerated(country)
	}

	event := audit.NewEvent(ctx, audit.ActionTokenGenerated, audit.OutcomeSuccess)
	event.Fingerprint = guardmodels.Fingerprint(trace.Token)
	event.CountryCode = country
	s.publish(ctx, event)

	return &models.GenerateResult{Token: trace.Token, Trace: trace}, nil
}

// Decode recovers the identity behind a token. Structural failures count
// against the fingerprint of the token's canonical hex, so re-spelling a
// token with leading zeros or a sign does not reset its count; a locked
// fingerprint is refused before the codec runs.
func (s *Service) Decode(ctx context.Context, cmd models.DecodeCommand) (_ *models.DecodeResult, err error) {
	fp := guardmodels.Fingerprint(sin.CanonicalHex(cmd.Token))
	ctx, span := s.tracer.Start(ctx, tracer.SpanDecode, tracer.String(tracer.AttrFingerprint, fp))
	defer func() { span.End(err) }()

	if s.guard != nil {
		if lockErr := s.guard.Check(ctx, fp); lockErr != nil {
			span.AddEvent(tracer.EventGuardLocked)
			s.recordDecode(ctx, span, fp, "", metrics.OutcomeLocked)
			return nil, dErrors.Wrap(lockErr, dErrors.CodeTooManyAttempts, "Too many failed attempts for this hex code, try again later")
		}
	}

	start := time.Now()
	info, trace, err := sin.DecodeDetailed(cmd.Token, cmd.PIN)
	s.observe(metrics.OperationDecode, start)

	if err != nil {
		if !sin.IsStructuralError(err) {
			return nil, toDomainError(err)
		}
		s.recordDecode(ctx, span, fp, "", metrics.OutcomeFailed)
		if s.guard != nil {
			if _, gerr := s.guard.RecordFailure(ctx, fp); gerr != nil {
				s.logger.WarnContext(ctx, "failed to record decode failure", "fingerprint", fp, "error", gerr)
			}
		}
		return nil, toDomainError(err)
	}

	if s.guard != nil {
		if gerr := s.guard.Clear(ctx, fp); gerr != nil {
			s.logger.WarnContext(ctx, "failed to clear decode failures", "fingerprint", fp, "error", gerr)
		}
	}
	s.recordDecode(ctx, span, fp, info.CountryCode, metrics.OutcomeSuccess)

	return &models.DecodeResult{Info: info, Trace: trace}, nil
}

// Countries lists the supported ISO codes in sorted order.
func (s *Service) Countries(_ context.Context) []string {
	return sin.Countries()
}

func (s *Service) recordDecode(ctx context.Context, span tracer.Span, fp, country, outcome string) {
	span.SetAttributes(tracer.String(tracer.AttrOutcome, outcome))
	if s.metrics != nil {
		s.metrics.IncDecode(outcome)
	}

	var event audit.Event
	switch outcome {
	case metrics.OutcomeSuccess:
		event = audit.NewEvent(ctx, audit.ActionTokenDecoded, audit.OutcomeSuccess)
	case metrics.OutcomeLocked:
		event = audit.NewEvent(ctx, audit.ActionDecodeLocked, audit.OutcomeLocked)
	default:
		event = audit.NewEvent(ctx, audit.ActionDecodeFailed, audit.OutcomeFailure)
	}
	event.Fingerprint = fp
	event.CountryCode = country
	s.publish(ctx, event)
}

func (s *Service) publish(ctx context.Context, event audit.Event) {
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"action", string(event.Action),
			"error", err,
		)
	}
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCodec(operation, time.Since(start).Seconds())
	}
}

// toDomainError translates codec errors once, at the service boundary.
func toDomainError(err error) error {
	switch {
	case sin.IsStructuralError(err):
		return dErrors.Wrap(err, dErrors.CodeDecodeFailed, MsgDecodeFailed)
	case errors.Is(err, sin.ErrInvalidPin):
		return dErrors.Wrap(err, dErrors.CodeValidation, "PIN cannot be -2025")
	case sin.IsInputError(err):
		return dErrors.Wrap(err, dErrors.CodeValidation, inputMessage(err))
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
}

func inputMessage(err error) string {
	switch {
	case errors.Is(err, sin.ErrInvalidCharacter):
		return fmt.Sprintf("Names may only contain letters and hyphens (%v)", err)
	case errors.Is(err, sin.ErrUnknownCountry):
		return "Unknown country code"
	default:
		return err.Error()
	}
}

var _ Guard = (*guard.Service)(nil)
