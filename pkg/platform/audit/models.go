package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture security-relevant actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    string
	AccountID string // empty when the actor is unknown (failed login for an unknown email)
	Success   bool
	Detail    string
	IP        string
	Device    string // short label derived from the User-Agent
	RequestID string // correlation id from the HTTP request context
}

type AuditEvent string

const (
	EventRegister         AuditEvent = "REGISTER"
	EventLoginSuccess     AuditEvent = "LOGIN_SUCCESS"
	EventLoginFailed      AuditEvent = "LOGIN_FAILED"
	EventAccountLocked    AuditEvent = "ACCOUNT_LOCKED"
	EventAccountUnlocked  AuditEvent = "ACCOUNT_UNLOCKED"
	EventCreatePassword   AuditEvent = "CREATE_PASSWORD"
	EventRevealPassword   AuditEvent = "REVEAL_PASSWORD"
	EventUpdatePassword   AuditEvent = "UPDATE_PASSWORD"
	EventDeletePassword   AuditEvent = "DELETE_PASSWORD"
	EventRateLimitBlocked AuditEvent = "RATE_LIMIT_BLOCKED"
	EventRateLimitReset   AuditEvent = "RATE_LIMIT_RESET"
)

// Category groups events for retention and alerting.
type Category string

const (
	CategorySecurity   Category = "security"
	CategoryVault      Category = "vault"
	CategoryOperations Category = "operations"
)

// Category maps an event to its category. Unknown events fall back to operations.
func (e AuditEvent) Category() Category {
	switch e {
	case EventLoginSuccess, EventLoginFailed, EventAccountLocked, EventAccountUnlocked,
		EventRateLimitBlocked, EventRateLimitReset:
		return CategorySecurity
	case EventCreatePassword, EventRevealPassword, EventUpdatePassword, EventDeletePassword:
		return CategoryVault
	default:
		return CategoryOperations
	}
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAccount(ctx context.Context, accountID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
