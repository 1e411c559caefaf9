package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 22, 10, 0, 0, 0, time.UTC)

func TestRegisterFailureLocksAtThreshold(t *testing.T) {
	p := Policy{MaxFailures: 3, Window: time.Minute, LockDuration: 10 * time.Minute}
	a := NewAttempt("fp")

	assert.False(t, a.RegisterFailure(t0, p))
	assert.False(t, a.RegisterFailure(t0.Add(10*time.Second), p))
	assert.True(t, a.RegisterFailure(t0.Add(20*time.Second), p))

	require.NotNil(t, a.LockedUntil)
	assert.Equal(t, t0.Add(20*time.Second+10*time.Minute), *a.LockedUntil)
	assert.Equal(t, 3, a.FailureCount)
	assert.True(t, a.IsLocked(t0.Add(5*time.Minute)))
	assert.False(t, a.IsLocked(a.LockedUntil.Add(time.Nanosecond)))
}

func TestRegisterFailureWhileLockedDoesNotExtendLock(t *testing.T) {
	p := Policy{MaxFailures: 1, Window: time.Minute, LockDuration: time.Minute}
	a := NewAttempt("fp")
	require.True(t, a.RegisterFailure(t0, p))
	until := *a.LockedUntil

	assert.False(t, a.RegisterFailure(t0.Add(30*time.Second), p))
	assert.Equal(t, until, *a.LockedUntil)
}

func TestRegisterFailureResetsAfterWindow(t *testing.T) {
	p := Policy{MaxFailures: 3, Window: time.Minute, LockDuration: time.Minute}
	a := NewAttempt("fp")
	a.RegisterFailure(t0, p)
	a.RegisterFailure(t0.Add(time.Second), p)

	assert.False(t, a.RegisterFailure(t0.Add(time.Minute), p))
	assert.Equal(t, 1, a.FailureCount)
	assert.Equal(t, t0.Add(time.Minute), a.FirstFailureAt)
}

func TestRegisterFailureResetsAfterLockExpires(t *testing.T) {
	p := Policy{MaxFailures: 2, Window: time.Hour, LockDuration: time.Minute}
	a := NewAttempt("fp")
	a.RegisterFailure(t0, p)
	require.True(t, a.RegisterFailure(t0.Add(time.Second), p))

	assert.False(t, a.RegisterFailure(t0.Add(2*time.Minute), p))
	assert.Equal(t, 1, a.FailureCount)
	assert.Nil(t, a.LockedUntil)
}

func TestIsLockedNilSafe(t *testing.T) {
	var a *Attempt
	assert.False(t, a.IsLocked(t0))
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.Error(t, Policy{MaxFailures: 0, Window: time.Minute, LockDuration: time.Minute}.Validate())
	assert.Error(t, Policy{MaxFailures: 1, Window: 0, LockDuration: time.Minute}.Validate())
	assert.Equal(t, 30*time.Minute, DefaultPolicy().Retention())
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("1ce186f670cc")
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint(" 1CE186F670CC "))
	assert.NotEqual(t, fp, Fingerprint("1CE186F670CD"))
	assert.NotContains(t, fp, "1CE186F670CC")
}
