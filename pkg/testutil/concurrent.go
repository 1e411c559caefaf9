package testutil

import (
	"sync"
	"sync/atomic"

	dErrors "sunhex/pkg/domain-errors"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes      int32
	DecodeFailures int32
	Locked         int32
	Errors         int32
}

// Total returns the number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.DecodeFailures + r.Locked + r.Errors
}

// RunConcurrent runs fn in parallel goroutines and buckets each result by
// its domain error code.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, decodeFailures, locked, errs atomic.Int32

	for i := range goroutines {
		wg.Go(func() {
			err := fn(i)
			switch {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeDecodeFailed):
				decodeFailures.Add(1)
			case dErrors.HasCode(err, dErrors.CodeTooManyAttempts):
				locked.Add(1)
			default:
				errs.Add(1)
			}
		})
	}
	wg.Wait()

	return &ConcurrentResult{
		Successes:      successes.Load(),
		DecodeFailures: decodeFailures.Load(),
		Locked:         locked.Load(),
		Errors:         errs.Load(),
	}
}
