package cleanup

import (
	"context"
	"log/slog"
	"time"

	"sunhex/internal/guard/metrics"
)

// Sweeper removes attempt records that can no longer affect a decode.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Result describes one cleanup run.
type Result struct {
	Removed  int
	Duration time.Duration
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithName labels the worker's log lines; it defaults to "decode_guard".
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// Worker runs Sweep on a fixed interval until its context ends.
type Worker struct {
	sweeper  Sweeper
	name     string
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
}

func New(sweeper Sweeper, opts ...Option) *Worker {
	w := &Worker{
		sweeper:  sweeper,
		name:     "decode_guard",
		logger:   slog.Default(),
		interval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start blocks until ctx is done and then returns ctx.Err().
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := w.RunOnce(ctx)
			if err != nil {
				w.logger.Error("cleanup_failed", "worker", w.name, "error", err)
				continue
			}
			if res.Removed > 0 {
				w.logger.Info("cleanup_completed",
					"worker", w.name,
					"removed", res.Removed,
					"duration_ms", res.Duration.Milliseconds(),
				)
			}
		case <-ctx.Done():
			w.logger.Info("cleanup worker stopping", "worker", w.name, "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single sweep.
func (w *Worker) RunOnce(ctx context.Context) (*Result, error) {
	start := time.Now()
	removed, err := w.sweeper.Sweep(ctx)
	duration := time.Since(start)

	if w.metrics != nil {
		w.metrics.CleanupDuration.Observe(duration.Seconds())
	}
	if err != nil {
		return nil, err
	}
	if w.metrics != nil {
		w.metrics.CleanupRemoved.Add(float64(removed))
	}
	return &Result{Removed: removed, Duration: duration}, nil
}
