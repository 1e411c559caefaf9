package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the decode attempt guard.
type Metrics struct {
	Lockouts        prometheus.Counter
	Rejected        prometheus.Counter
	StoreErrors     *prometheus.CounterVec
	CleanupRemoved  prometheus.Counter
	CleanupDuration prometheus.Histogram
	CircuitState    *prometheus.GaugeVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lockouts: f.NewCounter(prometheus.CounterOpts{
			Name: "sunhex_guard_lockouts_total",
			Help: "Number of token fingerprints locked after repeated decode failures",
		}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Name: "sunhex_guard_rejected_total",
			Help: "Number of decode requests rejected because the fingerprint was locked",
		}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunhex_guard_store_errors_total",
			Help: "Attempt store errors by operation",
		}, []string{"operation"}),
		CleanupRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "sunhex_guard_cleanup_removed_total",
			Help: "Stale attempt records removed by the cleanup worker",
		}),
		CleanupDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sunhex_guard_cleanup_duration_seconds",
			Help:    "Duration of attempt cleanup runs",
			Buckets: prometheus.DefBuckets,
		}),
		CircuitState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sunhex_circuit_state",
			Help: "Circuit breaker state: 0 closed, 1 open, 2 half open",
		}, []string{"circuit"}),
	}
}
