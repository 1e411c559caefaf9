package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"sunhex/internal/guard/metrics"
	"sunhex/internal/guard/models"
	"sunhex/internal/guard/store/memory"
)

type GuardServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	metrics *metrics.Metrics
	svc     *Service
	now     time.Time
}

func TestGuardServiceSuite(t *testing.T) {
	suite.Run(t, new(GuardServiceSuite))
}

func (s *GuardServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	s.now = time.Date(2025, 3, 22, 10, 0, 0, 0, time.UTC)

	svc, err := New(s.store, models.Policy{MaxFailures: 3, Window: 15 * time.Minute, LockDuration: 15 * time.Minute},
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *GuardServiceSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *GuardServiceSuite) fail(fp string, times int) *models.Attempt {
	var last *models.Attempt
	for range times {
		a, err := s.svc.RecordFailure(s.ctx, fp)
		s.Require().NoError(err)
		last = a
	}
	return last
}

func (s *GuardServiceSuite) TestNewRejectsBadInput() {
	_, err := New(nil, models.DefaultPolicy())
	s.Error(err)

	_, err = New(memory.New(), models.Policy{})
	s.Error(err)
}

func (s *GuardServiceSuite) TestUnknownFingerprintIsAllowed() {
	s.NoError(s.svc.Check(s.ctx, "fp"))
}

func (s *GuardServiceSuite) TestLocksAfterMaxFailures() {
	a := s.fail("fp", 2)
	s.Equal(2, a.FailureCount)
	s.NoError(s.svc.Check(s.ctx, "fp"))

	a = s.fail("fp", 1)
	s.Require().NotNil(a.LockedUntil)

	err := s.svc.Check(s.ctx, "fp")
	s.Require().ErrorIs(err, ErrLocked)

	var locked *LockedError
	s.Require().ErrorAs(err, &locked)
	s.Equal(s.now.Add(15*time.Minute), locked.Until)
	s.Equal(900, locked.RetryAfter(s.now))

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Lockouts))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Rejected))
}

func (s *GuardServiceSuite) TestLockExpires() {
	s.fail("fp", 3)
	s.advance(15 * time.Minute)
	s.NoError(s.svc.Check(s.ctx, "fp"))

	a := s.fail("fp", 1)
	s.Equal(1, a.FailureCount)
}

func (s *GuardServiceSuite) TestWindowExpiryResetsCount() {
	s.fail("fp", 2)
	s.advance(16 * time.Minute)

	a := s.fail("fp", 1)
	s.Equal(1, a.FailureCount)
	s.NoError(s.svc.Check(s.ctx, "fp"))
}

func (s *GuardServiceSuite) TestFingerprintsAreIndependent() {
	s.fail("a", 3)
	s.Error(s.svc.Check(s.ctx, "a"))
	s.NoError(s.svc.Check(s.ctx, "b"))
}

func (s *GuardServiceSuite) TestClearResetsCounter() {
	s.fail("fp", 2)
	s.Require().NoError(s.svc.Clear(s.ctx, "fp"))

	a := s.fail("fp", 2)
	s.Equal(2, a.FailureCount)
	s.NoError(s.svc.Check(s.ctx, "fp"))
}

func (s *GuardServiceSuite) TestConcurrentFailuresAreAllCounted() {
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			_, err := s.svc.RecordFailure(s.ctx, "fp")
			s.NoError(err)
		})
	}
	wg.Wait()

	a, err := s.store.Get(s.ctx, "fp")
	s.Require().NoError(err)
	s.Equal(50, a.FailureCount)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Lockouts))
}

func (s *GuardServiceSuite) TestSweepRemovesOnlyStaleRecords() {
	s.fail("old", 1)
	s.advance(31 * time.Minute)
	s.fail("new", 1)

	removed, err := s.svc.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)
}

func (s *GuardServiceSuite) TestStoreFailures() {
	broken := &failingStore{err: errors.New("connection refused")}
	svc, err := New(broken, models.DefaultPolicy(), WithMetrics(s.metrics))
	s.Require().NoError(err)

	s.Run("check fails open", func() {
		s.NoError(svc.Check(s.ctx, "fp"))
	})

	s.Run("record failure surfaces the error", func() {
		_, err := svc.RecordFailure(s.ctx, "fp")
		s.ErrorIs(err, broken.err)
	})

	s.Run("clear surfaces the error", func() {
		s.ErrorIs(svc.Clear(s.ctx, "fp"), broken.err)
	})

	s.Equal(1.0, testutil.ToFloat64(s.metrics.StoreErrors.WithLabelValues("check")))
}

type failingStore struct {
	err error
}

func (f *failingStore) Get(context.Context, string) (*models.Attempt, error) { return nil, f.err }
func (f *failingStore) Save(context.Context, *models.Attempt, time.Duration) error {
	return f.err
}
func (f *failingStore) Delete(context.Context, string) error { return f.err }
func (f *failingStore) DeleteStale(context.Context, time.Time) (int, error) {
	return 0, f.err
}
