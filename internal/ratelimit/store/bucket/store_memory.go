package bucket

import (
	"context"
	"sync"
	"time"

	"sunhex/internal/ratelimit/models"
)

// InMemoryBucketStore keeps admitted request times per key in process. It
// is the store for single instance deployments and for tests.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]*hits
	now     func() time.Time
}

// hits holds admitted request times in arrival order.
type hits struct {
	at   []time.Time
	span time.Duration
}

// prune forgets requests at or before now-span.
func (h *hits) prune(now time.Time) {
	cutoff := now.Add(-h.span)
	keep := 0
	for keep < len(h.at) && !h.at[keep].After(cutoff) {
		keep++
	}
	h.at = h.at[keep:]
}

type MemoryOption func(*InMemoryBucketStore)

func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryBucketStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewInMemoryBucketStore(opts ...MemoryOption) *InMemoryBucketStore {
	s := &InMemoryBucketStore{buckets: make(map[string]*hits), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit models.Limit) (*models.Result, error) {
	if err := checkArgs(key, limit); err != nil {
		return nil, err
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.buckets[key]
	if !ok {
		h = &hits{}
		s.buckets[key] = h
	}
	h.span = limit.Window
	h.prune(now)

	admitted := len(h.at) < limit.Requests
	if admitted {
		h.at = append(h.at, now)
	}
	return limit.Outcome(admitted, len(h.at), h.at[0], now), nil
}

func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.buckets, key)
	s.mu.Unlock()
	return nil
}

// Sweep prunes every key and drops the ones left empty.
func (s *InMemoryBucketStore) Sweep(_ context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, h := range s.buckets {
		if h.prune(now); len(h.at) == 0 {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed, nil
}
