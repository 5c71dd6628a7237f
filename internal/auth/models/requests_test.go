package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vaultguard/pkg/domain-errors"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() *RegisterRequest {
		return &RegisterRequest{Email: "alice@example.com", Password: "Str0ng!pass"}
	}

	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("normalize lowercases and trims email", func(t *testing.T) {
		req := valid()
		req.Email = "  Alice@Example.COM "
		req.Normalize()
		assert.Equal(t, "alice@example.com", req.Email)
	})

	tests := []struct {
		name     string
		mutate   func(*RegisterRequest)
		contains string
	}{
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "email is required"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email must be a valid email"},
		{"long email", func(r *RegisterRequest) { r.Email = strings.Repeat("a", 250) + "@example.com" }, "email must be"},
		{"short password", func(r *RegisterRequest) { r.Password = "S1!a" }, "password must be at least 8"},
		{"password over bcrypt limit", func(r *RegisterRequest) { r.Password = strings.Repeat("Aa1!", 19) }, "password must be at most 72"},
		{"no uppercase", func(r *RegisterRequest) { r.Password = "str0ng!pass" }, "uppercase"},
		{"no lowercase", func(r *RegisterRequest) { r.Password = "STR0NG!PASS" }, "lowercase"},
		{"no digit", func(r *RegisterRequest) { r.Password = "Strong!pass" }, "digit"},
		{"no special", func(r *RegisterRequest) { r.Password = "Str0ngpass" }, "special character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	t.Run("nil request", func(t *testing.T) {
		var req *RegisterRequest
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeBadRequest))
	})
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "bob@example.com", Password: "x"}).Validate())

	err := (&LoginRequest{Email: "bob@example.com"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")

	err = (&LoginRequest{Email: "bob", Password: "x"}).Validate()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewAccount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acct, err := NewAccount(" Carol@Example.com", "$2a$hash", now)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", acct.Email)
	assert.True(t, acct.IsActive)
	assert.True(t, acct.CanLogin())
	assert.Equal(t, now, acct.CreatedAt)
	assert.NotEqual(t, "", acct.ID.String())

	_, err = NewAccount("  ", "$2a$hash", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	_, err = NewAccount("x@example.com", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	until := now.Add(time.Minute)
	acct.LockedUntil = &until
	assert.True(t, acct.IsLocked(now))
	assert.False(t, acct.IsLocked(until))

	view := NewAccountView(acct)
	assert.Equal(t, acct.ID.String(), view.ID)
	assert.Equal(t, acct.Email, view.Email)
}
