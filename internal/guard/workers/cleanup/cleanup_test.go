package cleanup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"sunhex/internal/guard/metrics"
)

type stubSweeper struct {
	calls   atomic.Int32
	removed int
	err     error
}

func (s *stubSweeper) Sweep(context.Context) (int, error) {
	s.calls.Add(1)
	return s.removed, s.err
}

type CleanupWorkerSuite struct {
	suite.Suite
	sweeper *stubSweeper
	metrics *metrics.Metrics
	worker  *Worker
}

func TestCleanupWorkerSuite(t *testing.T) {
	suite.Run(t, new(CleanupWorkerSuite))
}

func (s *CleanupWorkerSuite) SetupTest() {
	s.sweeper = &stubSweeper{}
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	s.worker = New(s.sweeper, WithMetrics(s.metrics), WithInterval(5*time.Millisecond))
}

func (s *CleanupWorkerSuite) TestRunOnceReportsRemoved() {
	s.sweeper.removed = 4

	res, err := s.worker.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(4, res.Removed)
	s.Equal(4.0, testutil.ToFloat64(s.metrics.CleanupRemoved))
}

func (s *CleanupWorkerSuite) TestRunOncePropagatesError() {
	s.sweeper.err = errors.New("db down")

	_, err := s.worker.RunOnce(context.Background())
	s.ErrorIs(err, s.sweeper.err)
	s.Equal(0.0, testutil.ToFloat64(s.metrics.CleanupRemoved))
}

func (s *CleanupWorkerSuite) TestStartRunsUntilCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.worker.Start(ctx) }()

	s.Eventually(func() bool { return s.sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("worker did not stop")
	}
}

func (s *CleanupWorkerSuite) TestStartSurvivesSweepErrors() {
	s.sweeper.err = errors.New("transient")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.worker.Start(ctx) }()

	s.Eventually(func() bool { return s.sweeper.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}
