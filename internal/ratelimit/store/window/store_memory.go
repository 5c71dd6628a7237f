package window

import (
	"context"
	"sort"
	"time"

	"vaultguard/internal/ratelimit/models"
	psync "vaultguard/pkg/platform/sync"
)

// InMemoryStore keeps per-client sliding windows and block entries in process memory.
// Everything belonging to one client lives behind that client's shard lock, so a check
// reads and writes the block entry and the endpoint window in one critical section.
type InMemoryStore struct {
	clients *psync.ShardedMap[*clientState]
}

type clientState struct {
	windows       map[string]*slidingWindow // normalized endpoint -> window
	block         *models.BlockEntry
	requests      int64
	blocks        int64
	lastRequestAt time.Time
}

// slidingWindow holds request timestamps for one (client, endpoint) pair, oldest first.
type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

// prune drops timestamps older than now-window. A timestamp exactly at the
// boundary is still inside the window.
func (sw *slidingWindow) prune(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if !sw.timestamps[i].Before(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

func (sw *slidingWindow) count(now time.Time) int {
	sw.prune(now)
	return len(sw.timestamps)
}

func (sw *slidingWindow) resetAt(now time.Time) time.Time {
	if len(sw.timestamps) == 0 {
		return now.Add(sw.window)
	}
	return sw.timestamps[0].Add(sw.window)
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		clients: psync.NewShardedMap[*clientState](),
	}
}

// Check applies policy to one request from clientID on endpoint at now.
func (s *InMemoryStore) Check(_ context.Context, clientID, endpoint string, policy models.Policy, now time.Time) (*models.Decision, error) {
	var decision *models.Decision
	s.clients.Update(clientID, func(cs *clientState, ok bool) (*clientState, bool) {
		if !ok {
			cs = &clientState{windows: make(map[string]*slidingWindow)}
		}

		if cs.block.Active(now) {
			decision = &models.Decision{
				Outcome:    models.OutcomeBlocked,
				Limit:      policy.MaxRequests,
				ResetAt:    cs.block.UnblockAt,
				RetryAfter: cs.block.UnblockAt.Sub(now),
			}
			return cs, true
		}
		cs.block = nil

		sw, ok := cs.windows[endpoint]
		if !ok {
			sw = &slidingWindow{}
			cs.windows[endpoint] = sw
		}
		sw.window = policy.Window

		count := sw.count(now)
		if count >= policy.MaxRequests {
			unblockAt := now.Add(policy.BlockDuration)
			cs.block = &models.BlockEntry{ClientID: clientID, UnblockAt: unblockAt}
			cs.blocks++
			decision = &models.Decision{
				Outcome:    models.OutcomeThrottled,
				Limit:      policy.MaxRequests,
				ResetAt:    unblockAt,
				RetryAfter: policy.BlockDuration,
			}
			return cs, true
		}

		sw.timestamps = append(sw.timestamps, now)
		cs.requests++
		cs.lastRequestAt = now
		decision = &models.Decision{
			Outcome:   models.OutcomeAllowed,
			Limit:     policy.MaxRequests,
			Remaining: policy.MaxRequests - count - 1,
			ResetAt:   sw.resetAt(now),
		}
		return cs, true
	})
	return decision, nil
}

// GetBlock returns the client's block entry if one is active at now.
func (s *InMemoryStore) GetBlock(_ context.Context, clientID string, now time.Time) (*models.BlockEntry, error) {
	var entry *models.BlockEntry
	s.clients.Update(clientID, func(cs *clientState, ok bool) (*clientState, bool) {
		if ok && cs.block.Active(now) {
			copied := *cs.block
			entry = &copied
		}
		return cs, ok
	})
	return entry, nil
}

// ResetClient forgets everything about a client: windows, block and counters.
func (s *InMemoryStore) ResetClient(_ context.Context, clientID string) (bool, error) {
	return s.clients.Delete(clientID), nil
}

// ResetAll forgets every client.
func (s *InMemoryStore) ResetAll(_ context.Context) error {
	s.clients.Clear()
	return nil
}

// Unblock removes a client's block entry and keeps its windows.
// It reports whether an active block was removed.
func (s *InMemoryStore) Unblock(_ context.Context, clientID string, now time.Time) (bool, error) {
	removed := false
	s.clients.Update(clientID, func(cs *clientState, ok bool) (*clientState, bool) {
		if !ok {
			return nil, false
		}
		removed = cs.block.Active(now)
		cs.block = nil
		return cs, true
	})
	return removed, nil
}

// Sweep prunes every window, drops empty windows and expired blocks, and evicts
// clients left with neither. It returns the number of evicted clients.
func (s *InMemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	evicted := s.clients.Sweep(func(_ string, cs *clientState) bool {
		for endpoint, sw := range cs.windows {
			if sw.count(now) == 0 {
				delete(cs.windows, endpoint)
			}
		}
		if cs.block != nil && !cs.block.Active(now) {
			cs.block = nil
		}
		return len(cs.windows) > 0 || cs.block != nil
	})
	return evicted, nil
}

// Snapshot returns per-client stats sorted by client id.
func (s *InMemoryStore) Snapshot(_ context.Context, now time.Time) ([]models.ClientStats, error) {
	var out []models.ClientStats
	s.clients.Sweep(func(clientID string, cs *clientState) bool {
		stats := models.ClientStats{
			ClientID:      clientID,
			Requests:      cs.requests,
			Blocks:        cs.blocks,
			LastRequestAt: cs.lastRequestAt,
			Windows:       make(map[string]int, len(cs.windows)),
		}
		if cs.block.Active(now) {
			until := cs.block.UnblockAt
			stats.BlockedUntil = &until
		}
		for endpoint, sw := range cs.windows {
			stats.Windows[endpoint] = sw.count(now)
		}
		out = append(out, stats)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out, nil
}
