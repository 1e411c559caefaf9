package models

import (
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Attempt tracks failed decodes for one token fingerprint.
type Attempt struct {
	Fingerprint    string     `json:"fingerprint"`
	FailureCount   int        `json:"failure_count"`
	FirstFailureAt time.Time  `json:"first_failure_at"`
	LastFailureAt  time.Time  `json:"last_failure_at"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
}

// NewAttempt starts an empty record for fp.
func NewAttempt(fp string) *Attempt {
	return &Attempt{Fingerprint: fp}
}

// IsLocked reports whether the record blocks decodes at now.
func (a *Attempt) IsLocked(now time.Time) bool {
	return a != nil && a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// RegisterFailure counts one more failure at now and returns true if this
// failure triggered a new lock. An expired window or an expired lock starts
// a fresh count.
func (a *Attempt) RegisterFailure(now time.Time, p Policy) bool {
	lockExpired := a.LockedUntil != nil && !now.Before(*a.LockedUntil)
	if a.FailureCount == 0 || now.Sub(a.FirstFailureAt) >= p.Window || lockExpired {
		a.FailureCount = 0
		a.FirstFailureAt = now
		a.LockedUntil = nil
	}

	a.FailureCount++
	a.LastFailureAt = now

	if a.FailureCount >= p.MaxFailures && a.LockedUntil == nil {
		until := now.Add(p.LockDuration)
		a.LockedUntil = &until
		return true
	}
	return false
}

// Policy decides when a fingerprint gets locked.
type Policy struct {
	MaxFailures  int
	Window       time.Duration
	LockDuration time.Duration
}

// DefaultPolicy locks after 5 failures within 15 minutes for 15 minutes.
func DefaultPolicy() Policy {
	return Policy{MaxFailures: 5, Window: 15 * time.Minute, LockDuration: 15 * time.Minute}
}

func (p Policy) Validate() error {
	if p.MaxFailures < 1 {
		return errors.New("max failures must be at least 1")
	}
	if p.Window <= 0 || p.LockDuration <= 0 {
		return errors.New("window and lock duration must be positive")
	}
	return nil
}

// Retention is how long a record can matter after its last failure.
func (p Policy) Retention() time.Duration {
	return p.Window + p.LockDuration
}

// Fingerprint is the hex blake2b-256 of the trimmed, upper-cased token, so
// no raw token is stored. Callers pass the token's canonical spelling.
func Fingerprint(token string) string {
	sum := blake2b.Sum256([]byte(strings.ToUpper(strings.TrimSpace(token))))
	return hex.EncodeToString(sum[:])
}
