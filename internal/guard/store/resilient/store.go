// Package resilient keeps the decode guard working through an outage of its
// shared store.
//
// Every write lands in a process-local memory copy as well as the primary.
// Reads come from the primary while its circuit allows calls and from the
// local copy otherwise, so failures counted on this instance still lock a
// token while the primary is down. Writes made during an outage are not
// replayed; once the circuit closes the primary is authoritative again.
package resilient

import (
	"context"
	"log/slog"
	"time"

	"sunhex/internal/guard/models"
	guard "sunhex/internal/guard/service"
	"sunhex/internal/guard/store/memory"
	"sunhex/pkg/platform/circuit"
)

type Store struct {
	primary  guard.Store
	fallback *memory.Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func New(primary guard.Store, breaker *circuit.Breaker, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		primary:  primary,
		fallback: memory.New(),
		breaker:  breaker,
		logger:   logger,
	}
}

func (s *Store) Get(ctx context.Context, fingerprint string) (*models.Attempt, error) {
	var attempt *models.Attempt
	if s.call(ctx, "get", func() (err error) {
		attempt, err = s.primary.Get(ctx, fingerprint)
		return err
	}) {
		return attempt, nil
	}
	return s.fallback.Get(ctx, fingerprint)
}

func (s *Store) Save(ctx context.Context, attempt *models.Attempt, ttl time.Duration) error {
	if err := s.fallback.Save(ctx, attempt, ttl); err != nil {
		return err
	}
	s.call(ctx, "save", func() error { return s.primary.Save(ctx, attempt, ttl) })
	return nil
}

func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	if err := s.fallback.Delete(ctx, fingerprint); err != nil {
		return err
	}
	s.call(ctx, "delete", func() error { return s.primary.Delete(ctx, fingerprint) })
	return nil
}

// DeleteStale trims both copies. The count is the primary's when it was
// reachable and the local copy's otherwise.
func (s *Store) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	local, err := s.fallback.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	var removed int
	if s.call(ctx, "delete_stale", func() (err error) {
		removed, err = s.primary.DeleteStale(ctx, cutoff)
		return err
	}) {
		return removed, nil
	}
	return local, nil
}

// call runs fn against the primary when the breaker allows it and reports
// whether the primary answered.
func (s *Store) call(ctx context.Context, op string, fn func() error) bool {
	if !s.breaker.Allow() {
		return false
	}
	if err := fn(); err != nil {
		s.breaker.Failure()
		s.logger.DebugContext(ctx, "guard store call failed, using local copy",
			"circuit", s.breaker.Name(),
			"operation", op,
			"error", err,
		)
		return false
	}
	s.breaker.Success()
	return true
}
