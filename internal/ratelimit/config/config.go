package config

import (
	"sort"
	"strings"
	"time"

	"vaultguard/internal/ratelimit/models"
)

// Config holds rate limiting and lockout configuration.
type Config struct {
	// Per-endpoint request policies, keyed by normalized endpoint. Keys ending in
	// "*" match by prefix.
	Policies Policies

	// Per-account lockout after repeated failed logins
	Lockout LockoutConfig

	// Background eviction of idle windows, expired blocks and elapsed locks
	CleanupInterval time.Duration
}

// LockoutConfig defines per-account lockout parameters.
type LockoutConfig struct {
	Threshold int           // failed attempts before locking (5)
	Duration  time.Duration // lock length (30 minutes)
}

// Policies resolves endpoints to rate limit policies.
type Policies struct {
	Exact    map[string]models.Policy
	Prefixes []PrefixPolicy // sorted longest prefix first
	Default  models.Policy
}

type PrefixPolicy struct {
	Prefix string
	Policy models.Policy
}

// DefaultConfig returns the production policy table.
func DefaultConfig() *Config {
	return &Config{
		Policies: NewPolicies(map[string]models.Policy{
			"/api/auth/login":    {MaxRequests: 10, Window: 5 * time.Minute, BlockDuration: 2 * time.Minute},
			"/api/auth/register": {MaxRequests: 5, Window: 5 * time.Minute, BlockDuration: 2 * time.Minute},
			"/api/auth/refresh":  {MaxRequests: 20, Window: 5 * time.Minute, BlockDuration: time.Minute},
			"/api/passwords":     {MaxRequests: 50, Window: time.Minute, BlockDuration: time.Minute},
			"/api/passwords/*":   {MaxRequests: 30, Window: time.Minute, BlockDuration: time.Minute},
			"/api/users/profile": {MaxRequests: 30, Window: time.Minute, BlockDuration: time.Minute},
		}, models.Policy{MaxRequests: 100, Window: time.Minute, BlockDuration: time.Minute}),
		Lockout: LockoutConfig{
			Threshold: 5,
			Duration:  30 * time.Minute,
		},
		CleanupInterval: time.Minute,
	}
}

// NewPolicies splits a policy table into exact and wildcard entries.
func NewPolicies(table map[string]models.Policy, fallback models.Policy) Policies {
	p := Policies{
		Exact:   make(map[string]models.Policy),
		Default: fallback,
	}
	for pattern, policy := range table {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			p.Prefixes = append(p.Prefixes, PrefixPolicy{Prefix: prefix, Policy: policy})
			continue
		}
		p.Exact[pattern] = policy
	}
	sort.Slice(p.Prefixes, func(i, j int) bool {
		if len(p.Prefixes[i].Prefix) != len(p.Prefixes[j].Prefix) {
			return len(p.Prefixes[i].Prefix) > len(p.Prefixes[j].Prefix)
		}
		return p.Prefixes[i].Prefix < p.Prefixes[j].Prefix
	})
	return p
}

// PolicyFor resolves an already-normalized endpoint: exact match, then longest
// wildcard prefix, then the default.
func (p Policies) PolicyFor(endpoint string) models.Policy {
	if policy, ok := p.Exact[endpoint]; ok {
		return policy
	}
	for _, candidate := range p.Prefixes {
		if strings.HasPrefix(endpoint, candidate.Prefix) {
			return candidate.Policy
		}
	}
	return p.Default
}

// View renders the table for the admin stats endpoint.
func (p Policies) View() map[string]models.PolicyView {
	out := make(map[string]models.PolicyView, len(p.Exact)+len(p.Prefixes)+1)
	for endpoint, policy := range p.Exact {
		out[endpoint] = toView(policy)
	}
	for _, prefix := range p.Prefixes {
		out[prefix.Prefix+"*"] = toView(prefix.Policy)
	}
	out["default"] = toView(p.Default)
	return out
}

func toView(p models.Policy) models.PolicyView {
	return models.PolicyView{
		Requests:      p.MaxRequests,
		WindowSeconds: int(p.Window / time.Second),
		BlockSeconds:  int(p.BlockDuration / time.Second),
	}
}
