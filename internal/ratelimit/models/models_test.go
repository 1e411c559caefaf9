package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimit(t *testing.T) {
	assert.True(t, Limit{Requests: 10, Window: time.Minute}.Enabled())
	assert.False(t, Limit{Requests: 0, Window: time.Minute}.Enabled())
	assert.False(t, Limit{}.Enabled())

	assert.NoError(t, Limit{}.Validate())
	assert.Error(t, Limit{Requests: -1}.Validate())
	assert.Error(t, Limit{Requests: 5}.Validate())
}

func TestRetryAfterSeconds(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Zero(t, RetryAfterSeconds(true, now.Add(time.Minute), now))
	assert.Equal(t, 30, RetryAfterSeconds(false, now.Add(30*time.Second), now))
	assert.Equal(t, 1, RetryAfterSeconds(false, now.Add(-time.Second), now))
}

func TestIPKey(t *testing.T) {
	assert.Equal(t, "ip:decode:192.0.2.1", IPKey("decode", "192.0.2.1"))
}

func TestOutcome(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limit := Limit{Requests: 3, Window: time.Minute}

	admitted := limit.Outcome(true, 2, now.Add(-20*time.Second), now)
	assert.True(t, admitted.Allowed)
	assert.Equal(t, 1, admitted.Remaining)
	assert.Equal(t, now.Add(40*time.Second), admitted.ResetAt)
	assert.Zero(t, admitted.RetryAfter)

	denied := limit.Outcome(false, 3, now.Add(-20*time.Second), now)
	assert.False(t, denied.Allowed)
	assert.Zero(t, denied.Remaining)
	assert.Equal(t, 40, denied.RetryAfter)

	empty := limit.Outcome(true, 1, time.Time{}, now)
	assert.Equal(t, now.Add(time.Minute), empty.ResetAt)
}
