package redis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// PoolStatter is satisfied by *redis.Client and *Client.
type PoolStatter interface {
	PoolStats() *redis.PoolStats
}

// PoolCollector reads go-redis pool counters at scrape time.
type PoolCollector struct {
	pool PoolStatter

	hits, misses, timeouts, stale *prometheus.Desc
	total, idle                   *prometheus.Desc
}

// NewPoolCollector describes pool under the sunhex_redis_pool_ prefix.
func NewPoolCollector(pool PoolStatter) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("sunhex_redis_pool_"+name, help, nil, nil)
	}
	return &PoolCollector{
		pool:     pool,
		hits:     desc("hits_total", "Connections found free in the pool."),
		misses:   desc("misses_total", "Connections not found free in the pool."),
		timeouts: desc("timeouts_total", "Waits for a connection that timed out."),
		stale:    desc("stale_conns_total", "Stale connections removed from the pool."),
		total:    desc("total_conns", "Connections currently in the pool."),
		idle:     desc("idle_conns", "Idle connections currently in the pool."),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.hits, c.misses, c.timeouts, c.stale, c.total, c.idle} {
		ch <- d
	}
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.PoolStats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(s.Timeouts))
	ch <- prometheus.MustNewConstMetric(c.stale, prometheus.CounterValue, float64(s.StaleConns))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns))
}
