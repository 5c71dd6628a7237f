package models

import (
	"time"

	dErrors "vaultguard/pkg/domain-errors"
)

// Policy is the limit applied to one normalized endpoint.
type Policy struct {
	MaxRequests   int
	Window        time.Duration
	BlockDuration time.Duration
}

func (p Policy) Validate() error {
	if p.MaxRequests <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "max requests must be positive")
	}
	if p.Window <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "window must be positive")
	}
	if p.BlockDuration <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "block duration must be positive")
	}
	return nil
}

// Outcome is the result of a rate limit check.
type Outcome string

const (
	OutcomeAllowed   Outcome = "allowed"
	OutcomeBlocked   Outcome = "blocked"   // client already serving a block
	OutcomeThrottled Outcome = "throttled" // this request tripped the limit and started a block
)

// Decision is what the sliding window store reports for one request.
type Decision struct {
	Outcome    Outcome
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

func (d *Decision) Allowed() bool {
	return d.Outcome == OutcomeAllowed
}

// RateLimitResult is the boundary value handed to the HTTP layer.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Reason     Outcome   `json:"reason"`
	ClientID   string    `json:"-"`
	Endpoint   string    `json:"-"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// BlockEntry marks a client as blocked across all endpoints until UnblockAt.
type BlockEntry struct {
	ClientID  string    `json:"client_id"`
	UnblockAt time.Time `json:"unblock_at"`
}

func (b *BlockEntry) Active(now time.Time) bool {
	return b != nil && now.Before(b.UnblockAt)
}

// RetryAfter rounds the remaining block time up to whole seconds, minimum one.
func (b *BlockEntry) RetryAfter(now time.Time) int {
	return CeilSeconds(b.UnblockAt.Sub(now))
}

// ClientStats is the admin view of one client's limiter state.
type ClientStats struct {
	ClientID      string         `json:"client_id"`
	Requests      int64          `json:"requests"`
	Blocks        int64          `json:"blocks"`
	LastRequestAt time.Time      `json:"last_request_at"`
	BlockedUntil  *time.Time     `json:"blocked_until,omitempty"`
	Windows       map[string]int `json:"windows"` // endpoint -> requests in window
}

// Stats is the admin view of the whole limiter.
type Stats struct {
	TotalClients   int                   `json:"total_clients"`
	BlockedClients int                   `json:"blocked_clients"`
	Clients        []ClientStats         `json:"clients"`
	Policies       map[string]PolicyView `json:"endpoint_limits"`
}

type PolicyView struct {
	Requests      int `json:"requests"`
	WindowSeconds int `json:"window"`
	BlockSeconds  int `json:"block_duration"`
}

// LockoutState is the failed-login bookkeeping attached to an account.
type LockoutState struct {
	AccountID      string     `json:"account_id"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
}

func NewLockoutState(accountID string) (*LockoutState, error) {
	if accountID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "account id cannot be empty")
	}
	return &LockoutState{AccountID: accountID}, nil
}

func (l *LockoutState) IsLocked(now time.Time) bool {
	if l == nil || l.LockedUntil == nil {
		return false
	}
	return now.Before(*l.LockedUntil)
}

// LockElapsed reports a lock that was set and has since run out.
func (l *LockoutState) LockElapsed(now time.Time) bool {
	return l != nil && l.LockedUntil != nil && !now.Before(*l.LockedUntil)
}

// RegisterFailure applies one failed credential check: a lock that has run out starts a
// fresh count, and reaching threshold locks the account until now+duration.
// It reports whether this failure triggered a new lock.
func (l *LockoutState) RegisterFailure(now time.Time, threshold int, duration time.Duration) bool {
	if l.LockElapsed(now) {
		l.Reset()
	}
	l.FailedAttempts++
	if l.FailedAttempts >= threshold && !l.IsLocked(now) {
		until := now.Add(duration)
		l.LockedUntil = &until
		return true
	}
	return false
}

func (l *LockoutState) Reset() {
	l.FailedAttempts = 0
	l.LockedUntil = nil
}

// CeilSeconds rounds d up to whole seconds with a floor of one, the smallest
// meaningful Retry-After value.
func CeilSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return max(secs, 1)
}
