package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vaultguard/internal/ratelimit/models"
)

func TestPolicyFor(t *testing.T) {
	short := models.Policy{MaxRequests: 1, Window: time.Second, BlockDuration: time.Second}
	mid := models.Policy{MaxRequests: 2, Window: time.Second, BlockDuration: time.Second}
	long := models.Policy{MaxRequests: 3, Window: time.Second, BlockDuration: time.Second}
	exact := models.Policy{MaxRequests: 4, Window: time.Second, BlockDuration: time.Second}
	fallback := models.Policy{MaxRequests: 99, Window: time.Minute, BlockDuration: time.Minute}

	policies := NewPolicies(map[string]models.Policy{
		"/api/*":                 short,
		"/api/passwords/*":       mid,
		"/api/passwords/*/hist*": long,
		"/api/passwords":         exact,
	}, fallback)

	assert.Equal(t, exact, policies.PolicyFor("/api/passwords"), "exact match wins")
	assert.Equal(t, mid, policies.PolicyFor("/api/passwords/*"))
	assert.Equal(t, long, policies.PolicyFor("/api/passwords/*/history"), "longest prefix wins")
	assert.Equal(t, short, policies.PolicyFor("/api/users/profile"))
	assert.Equal(t, fallback, policies.PolicyFor("/health"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	login := cfg.Policies.PolicyFor("/api/auth/login")
	assert.Equal(t, 10, login.MaxRequests)
	assert.Equal(t, 5*time.Minute, login.Window)
	assert.Equal(t, 2*time.Minute, login.BlockDuration)

	entry := cfg.Policies.PolicyFor(models.NormalizeEndpoint("/api/passwords/11111111-1111-1111-1111-111111111111"))
	assert.Equal(t, 30, entry.MaxRequests)

	assert.Equal(t, 100, cfg.Policies.PolicyFor("/unknown").MaxRequests)
	assert.Equal(t, 5, cfg.Lockout.Threshold)
	assert.Equal(t, 30*time.Minute, cfg.Lockout.Duration)

	for pattern, policy := range cfg.Policies.Exact {
		assert.NoError(t, policy.Validate(), pattern)
	}

	view := cfg.Policies.View()
	assert.Equal(t, 100, view["default"].Requests)
	assert.Equal(t, 30, view["/api/passwords/*"].Requests)
	assert.Equal(t, 300, view["/api/auth/login"].WindowSeconds)
}
