package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vaultguard/pkg/domain-errors"
)

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, Policy{MaxRequests: 5, Window: time.Minute, BlockDuration: time.Minute}.Validate())
	for _, p := range []Policy{
		{MaxRequests: 0, Window: time.Minute, BlockDuration: time.Minute},
		{MaxRequests: 5, Window: 0, BlockDuration: time.Minute},
		{MaxRequests: 5, Window: time.Minute, BlockDuration: 0},
	} {
		assert.True(t, dErrors.HasCode(p.Validate(), dErrors.CodeInvariantViolation))
	}
}

func TestBlockEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &BlockEntry{ClientID: "c", UnblockAt: now.Add(90 * time.Second)}

	assert.True(t, entry.Active(now))
	assert.Equal(t, 90, entry.RetryAfter(now))
	assert.False(t, entry.Active(now.Add(90*time.Second)), "unblocks exactly at UnblockAt")

	var missing *BlockEntry
	assert.False(t, missing.Active(now))
}

func TestLockoutState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("requires account id", func(t *testing.T) {
		_, err := NewLockoutState("")
		assert.Error(t, err)
	})

	t.Run("locks at threshold", func(t *testing.T) {
		state, err := NewLockoutState("acct-1")
		require.NoError(t, err)
		for i := 1; i < 5; i++ {
			assert.False(t, state.RegisterFailure(now, 5, 30*time.Minute))
			assert.False(t, state.IsLocked(now))
		}
		assert.True(t, state.RegisterFailure(now, 5, 30*time.Minute))
		assert.Equal(t, 5, state.FailedAttempts)
		require.NotNil(t, state.LockedUntil)
		assert.Equal(t, now.Add(30*time.Minute), *state.LockedUntil)
		assert.True(t, state.IsLocked(now.Add(29*time.Minute)))
		assert.False(t, state.IsLocked(now.Add(30*time.Minute)))
	})

	t.Run("failure after elapsed lock starts a fresh count", func(t *testing.T) {
		until := now.Add(-time.Second)
		state := &LockoutState{AccountID: "acct-2", FailedAttempts: 5, LockedUntil: &until}
		assert.False(t, state.RegisterFailure(now, 5, 30*time.Minute))
		assert.Equal(t, 1, state.FailedAttempts)
		assert.Nil(t, state.LockedUntil)
	})

	t.Run("reset clears everything", func(t *testing.T) {
		until := now.Add(time.Hour)
		state := &LockoutState{AccountID: "acct-3", FailedAttempts: 7, LockedUntil: &until}
		state.Reset()
		assert.Zero(t, state.FailedAttempts)
		assert.Nil(t, state.LockedUntil)
		assert.False(t, state.IsLocked(now))
	})
}
