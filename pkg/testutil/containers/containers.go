//go:build integration

// Package containers starts throwaway Postgres, Redis and Redpanda instances
// for integration tests. Each is started on first use and shared by every
// suite in the test binary; Ryuk removes them when the process exits.
package containers

import (
	"sync"
	"testing"
)

// shared starts one T on first request. A failed start is remembered so
// later suites fail fast instead of retrying a slow container pull.
type shared[T any] struct {
	mu    sync.Mutex
	value *T
	err   error
}

func (s *shared[T]) get(t *testing.T, start func() (*T, error)) *T {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.value == nil && s.err == nil {
		s.value, s.err = start()
	}
	if s.err != nil {
		t.Fatalf("start container: %v", s.err)
	}
	return s.value
}

var (
	postgresOnce shared[PostgresContainer]
	redisOnce    shared[RedisContainer]
	kafkaOnce    shared[KafkaContainer]
)

// Postgres returns the shared database with migrations applied.
func Postgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return postgresOnce.get(t, startPostgres)
}

// Redis returns the shared Redis server.
func Redis(t *testing.T) *RedisContainer {
	t.Helper()
	return redisOnce.get(t, startRedis)
}

// Kafka returns the shared Redpanda broker.
func Kafka(t *testing.T) *KafkaContainer {
	t.Helper()
	return kafkaOnce.get(t, startKafka)
}
