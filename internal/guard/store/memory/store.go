package memory

import (
	"context"
	"sync"
	"time"

	"sunhex/internal/guard/models"
)

// Store keeps attempts in process memory. Records are copied on the way in
// and out so callers never share state with the map.
type Store struct {
	mu      sync.RWMutex
	records map[string]models.Attempt
}

func New() *Store {
	return &Store{records: make(map[string]models.Attempt)}
}

func (s *Store) Get(_ context.Context, fingerprint string) (*models.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[fingerprint]
	if !ok {
		return nil, nil
	}
	return clone(record), nil
}

// Save stores a copy of attempt. The ttl is unused; DeleteStale handles expiry.
func (s *Store) Save(_ context.Context, attempt *models.Attempt, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[attempt.Fingerprint] = *clone(*attempt)
	return nil
}

func (s *Store) Delete(_ context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, fingerprint)
	return nil
}

// DeleteStale drops records whose last failure is before cutoff.
func (s *Store) DeleteStale(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for fp, record := range s.records {
		if record.LastFailureAt.Before(cutoff) {
			delete(s.records, fp)
			removed++
		}
	}
	return removed, nil
}

func clone(a models.Attempt) *models.Attempt {
	if a.LockedUntil != nil {
		until := *a.LockedUntil
		a.LockedUntil = &until
	}
	return &a
}
