package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "vaultguard/pkg/domain-errors"
)

// Account is a registered vault owner. FailedLoginAttempts and LockedUntil mirror the
// lockout state kept by the abuse-control layer; they are read-only here.
type Account struct {
	ID                  uuid.UUID
	Email               string
	PasswordHash        string
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewAccount creates an active account with a fresh id.
func NewAccount(email, passwordHash string, now time.Time) (*Account, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash cannot be empty")
	}
	return &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CanLogin reports whether the account may authenticate at all.
func (a *Account) CanLogin() bool {
	return a.IsActive
}

// IsLocked reports the mirrored lockout state at now.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
