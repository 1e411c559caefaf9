package models

import (
	"fmt"
	"time"
)

// Limit is a sliding-window allowance: at most Requests within Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Enabled reports whether the limit should be enforced at all.
func (l Limit) Enabled() bool {
	return l.Requests > 0 && l.Window > 0
}

func (l Limit) Validate() error {
	if l.Requests < 0 {
		return fmt.Errorf("rate limit requests must not be negative")
	}
	if l.Requests > 0 && l.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	return nil
}

type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// Outcome builds the Result of one Allow call. held counts the requests in
// the window after the call, oldest is the earliest of them and is zero when
// the window is empty.
func (l Limit) Outcome(admitted bool, held int, oldest, now time.Time) *Result {
	if oldest.IsZero() {
		oldest = now
	}
	r := &Result{
		Allowed: admitted,
		Limit:   l.Requests,
		ResetAt: oldest.Add(l.Window),
	}
	if admitted {
		r.Remaining = max(l.Requests-held, 0)
	}
	r.RetryAfter = RetryAfterSeconds(admitted, r.ResetAt, now)
	return r
}

// IPKey is the bucket key for a client address on one route class.
func IPKey(class, ip string) string {
	return "ip:" + class + ":" + ip
}

// RetryAfterSeconds is the whole number of seconds until a denied caller
// may retry, at least 1.
func RetryAfterSeconds(allowed bool, resetAt, now time.Time) int {
	if allowed {
		return 0
	}
	seconds := int(resetAt.Sub(now).Round(time.Second) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}
