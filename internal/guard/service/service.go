package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sunhex/internal/guard/metrics"
	"sunhex/internal/guard/models"
	"sunhex/pkg/platform/sync"
)

// Store is the persistence port for attempt records. Get returns nil, nil
// for an unknown fingerprint.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*models.Attempt, error)
	Save(ctx context.Context, attempt *models.Attempt, ttl time.Duration) error
	Delete(ctx context.Context, fingerprint string) error
	DeleteStale(ctx context.Context, cutoff time.Time) (int, error)
}

// ErrLocked is matched by every *LockedError.
var ErrLocked = errors.New("too many failed decode attempts")

// LockedError reports a locked fingerprint and when it unlocks.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s, locked until %s", ErrLocked, e.Until.UTC().Format(time.RFC3339))
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// RetryAfter is the whole number of seconds until the lock lifts, at least 1.
func (e *LockedError) RetryAfter(now time.Time) int {
	secs := int(e.Until.Sub(now).Round(time.Second) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// Service applies the lockout policy on top of a Store.
type Service struct {
	store   Store
	policy  models.Policy
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	locks   *sync.ShardedMutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, policy models.Policy, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("attempt store is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid guard policy: %w", err)
	}

	svc := &Service{
		store:  store,
		policy: policy,
		logger: slog.Default(),
		now:    time.Now,
		locks:  sync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Policy returns the active policy.
func (s *Service) Policy() models.Policy {
	return s.policy
}

// Check returns a *LockedError if fingerprint is locked. Store failures are
// logged and the decode is allowed to proceed.
func (s *Service) Check(ctx context.Context, fingerprint string) error {
	attempt, err := s.store.Get(ctx, fingerprint)
	if err != nil {
		s.storeError(ctx, "check", fingerprint, err)
		return nil
	}
	if attempt.IsLocked(s.now()) {
		if s.metrics != nil {
			s.metrics.Rejected.Inc()
		}
		return &LockedError{Until: *attempt.LockedUntil}
	}
	return nil
}

// RecordFailure counts a structural decode failure against fingerprint and
// returns the updated record. Updates for one fingerprint are serialized
// within the process.
func (s *Service) RecordFailure(ctx context.Context, fingerprint string) (*models.Attempt, error) {
	var updated *models.Attempt
	err := s.locks.With(fingerprint, func() error {
		attempt, err := s.store.Get(ctx, fingerprint)
		if err != nil {
			return err
		}
		if attempt == nil {
			attempt = models.NewAttempt(fingerprint)
		}

		lockedNow := attempt.RegisterFailure(s.now(), s.policy)
		if err := s.store.Save(ctx, attempt, s.policy.Retention()); err != nil {
			return err
		}
		if lockedNow {
			if s.metrics != nil {
				s.metrics.Lockouts.Inc()
			}
			s.logger.WarnContext(ctx, "decode_guard_locked",
				"fingerprint", fingerprint,
				"failures", attempt.FailureCount,
				"locked_until", attempt.LockedUntil,
			)
		}
		updated = attempt
		return nil
	})
	if err != nil {
		s.storeError(ctx, "record_failure", fingerprint, err)
		return nil, fmt.Errorf("record decode failure: %w", err)
	}
	return updated, nil
}

// Clear forgets the failures of fingerprint after a successful decode.
func (s *Service) Clear(ctx context.Context, fingerprint string) error {
	if err := s.store.Delete(ctx, fingerprint); err != nil {
		s.storeError(ctx, "clear", fingerprint, err)
		return fmt.Errorf("clear decode failures: %w", err)
	}
	return nil
}

// Sweep removes records that can no longer lock anything.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.policy.Retention())
	removed, err := s.store.DeleteStale(ctx, cutoff)
	if err != nil {
		s.storeError(ctx, "sweep", "", err)
		return 0, fmt.Errorf("sweep decode attempts: %w", err)
	}
	return removed, nil
}

func (s *Service) storeError(ctx context.Context, op, fingerprint string, err error) {
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(op).Inc()
	}
	s.logger.WarnContext(ctx, "decode guard store error",
		"operation", op,
		"fingerprint", fingerprint,
		"error", err,
	)
}
