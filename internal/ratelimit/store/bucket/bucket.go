// Package bucket holds the sliding-window stores behind the rate limiter:
// process memory, Redis and PostgreSQL.
package bucket

import (
	"errors"

	"sunhex/internal/ratelimit/models"
)

var (
	errKeyRequired = errors.New("rate limit key is required")
	errDisabled    = errors.New("rate limit requests and window must be positive")
)

func checkArgs(key string, limit models.Limit) error {
	if key == "" {
		return errKeyRequired
	}
	if !limit.Enabled() {
		return errDisabled
	}
	return nil
}
