package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decode outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeLocked  = "locked"
)

// Operations timed by CodecLatency.
const (
	OperationGenerate = "generate"
	OperationDecode   = "decode"
)

// Metrics holds the token service Prometheus metrics.
type Metrics struct {
	TokensGenerated *prometheus.CounterVec
	Decodes         *prometheus.CounterVec
	CodecLatency    *prometheus.HistogramVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TokensGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunhex_tokens_generated_total",
			Help: "Tokens generated, by country code",
		}, []string{"country"}),
		Decodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunhex_decode_total",
			Help: "Decode attempts by outcome",
		}, []string{"outcome"}),
		CodecLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sunhex_codec_latency_seconds",
			Help:    "Time spent in the codec per operation",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncGenerated(country string) {
	m.TokensGenerated.WithLabelValues(country).Inc()
}

func (m *Metrics) IncDecode(outcome string) {
	m.Decodes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCodec(operation string, seconds float64) {
	m.CodecLatency.WithLabelValues(operation).Observe(seconds)
}
