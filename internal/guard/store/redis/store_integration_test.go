//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sunhex/internal/guard/models"
	guardredis "sunhex/internal/guard/store/redis"
	"sunhex/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	rc    *containers.RedisContainer
	store *guardredis.Store
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.rc = containers.Redis(s.T())
	s.store = guardredis.New(s.rc.Client)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	until := now.Add(time.Minute)
	in := &models.Attempt{Fingerprint: "fp", FailureCount: 3, FirstFailureAt: now, LastFailureAt: now, LockedUntil: &until}

	s.Require().NoError(s.store.Save(s.ctx, in, time.Hour))
	got, err := s.store.Get(s.ctx, "fp")
	s.Require().NoError(err)
	s.Equal(3, got.FailureCount)
	s.True(got.LockedUntil.Equal(until))
}

func (s *RedisStoreSuite) TestSaveSetsTTL() {
	now := time.Now()
	s.Require().NoError(s.store.Save(s.ctx, &models.Attempt{Fingerprint: "fp", FailureCount: 1, FirstFailureAt: now, LastFailureAt: now}, 30*time.Minute))

	ttl, err := s.rc.Client.TTL(s.ctx, "sunhex:guard:fp").Result()
	s.Require().NoError(err)
	s.InDelta(30*time.Minute, ttl, float64(5*time.Second))
}

func (s *RedisStoreSuite) TestGetMissingAndDelete() {
	got, err := s.store.Get(s.ctx, "fp")
	s.NoError(err)
	s.Nil(got)

	now := time.Now()
	s.Require().NoError(s.store.Save(s.ctx, &models.Attempt{Fingerprint: "fp", FirstFailureAt: now, LastFailureAt: now}, time.Minute))
	s.Require().NoError(s.store.Delete(s.ctx, "fp"))
	got, err = s.store.Get(s.ctx, "fp")
	s.NoError(err)
	s.Nil(got)
}

func (s *RedisStoreSuite) TestDeleteStaleIsNoop() {
	n, err := s.store.DeleteStale(s.ctx, time.Now())
	s.NoError(err)
	s.Zero(n)
}
