package authlockout

import (
	"context"
	"time"

	"vaultguard/internal/ratelimit/models"
	psync "vaultguard/pkg/platform/sync"
)

// InMemoryStore keeps lockout state per account in a sharded map. An account with no
// failures and no lock has no entry.
type InMemoryStore struct {
	states *psync.ShardedMap[*models.LockoutState]
}

func New() *InMemoryStore {
	return &InMemoryStore{
		states: psync.NewShardedMap[*models.LockoutState](),
	}
}

// Get returns a copy of the account's state, or a zero state when none is stored.
func (s *InMemoryStore) Get(_ context.Context, accountID string) (*models.LockoutState, error) {
	current, ok := s.states.Get(accountID)
	if !ok {
		return &models.LockoutState{AccountID: accountID}, nil
	}
	copied := *current
	return &copied, nil
}

// Update runs fn on the account's state under the account's shard lock and stores the
// result. If fn fails nothing is written.
func (s *InMemoryStore) Update(_ context.Context, accountID string, fn func(*models.LockoutState) error) (*models.LockoutState, error) {
	var (
		result *models.LockoutState
		fnErr  error
	)
	s.states.Update(accountID, func(current *models.LockoutState, ok bool) (*models.LockoutState, bool) {
		next := models.LockoutState{AccountID: accountID}
		if ok {
			next = *current
		}
		if err := fn(&next); err != nil {
			fnErr = err
			return current, ok
		}
		copied := next
		result = &copied
		return &next, next.FailedAttempts > 0 || next.LockedUntil != nil
	})
	if fnErr != nil {
		return nil, fnErr
	}
	return result, nil
}

// PurgeElapsed drops states whose lock has run out. It returns the number removed.
func (s *InMemoryStore) PurgeElapsed(_ context.Context, now time.Time) (int, error) {
	return s.states.Sweep(func(_ string, state *models.LockoutState) bool {
		return !state.LockElapsed(now)
	}), nil
}

// CountLocked returns the number of accounts locked at now.
func (s *InMemoryStore) CountLocked(_ context.Context, now time.Time) (int, error) {
	locked := 0
	s.states.Sweep(func(_ string, state *models.LockoutState) bool {
		if state.IsLocked(now) {
			locked++
		}
		return true
	})
	return locked, nil
}
