package models

import "time"

// AccountView is the public projection of an account. It never carries the hash.
type AccountView struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewAccountView(a *Account) AccountView {
	return AccountView{
		ID:          a.ID.String(),
		Email:       a.Email,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}

// TokenResult is returned by register and login.
type TokenResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"` // seconds
	ExpiresAt   time.Time   `json:"expires_at"`
	Account     AccountView `json:"user"`
}

// ProfileResult is returned by GET /api/users/profile.
type ProfileResult struct {
	AccountView
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"locked_until,omitempty"`
}
