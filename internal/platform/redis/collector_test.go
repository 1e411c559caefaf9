package redis

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunhex/internal/platform/config"
)

type fixedPool redis.PoolStats

func (f *fixedPool) PoolStats() *redis.PoolStats {
	s := redis.PoolStats(*f)
	return &s
}

func TestPoolCollector(t *testing.T) {
	pool := &fixedPool{Hits: 40, Misses: 2, Timeouts: 1, TotalConns: 5, IdleConns: 3, StaleConns: 4}
	c := NewPoolCollector(pool)

	assert.Equal(t, 6, testutil.CollectAndCount(c))

	expected := `
# HELP sunhex_redis_pool_hits_total Connections found free in the pool.
# TYPE sunhex_redis_pool_hits_total counter
sunhex_redis_pool_hits_total 40
# HELP sunhex_redis_pool_idle_conns Idle connections currently in the pool.
# TYPE sunhex_redis_pool_idle_conns gauge
sunhex_redis_pool_idle_conns 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"sunhex_redis_pool_hits_total", "sunhex_redis_pool_idle_conns"))

	pool.Hits = 41
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(strings.Replace(expected, "hits_total 40", "hits_total 41", 1)),
		"sunhex_redis_pool_hits_total", "sunhex_redis_pool_idle_conns"))
}

func TestNewRejectsEmptyURL(t *testing.T) {
	_, err := New(configWithURL(""))
	assert.Error(t, err)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(configWithURL("mysql://nope"))
	assert.ErrorContains(t, err, "parse redis URL")
}

func configWithURL(url string) config.RedisConfig {
	return config.RedisConfig{URL: url}
}
