package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"VAULTGUARD_ADDR", "ENVIRONMENT", "JWT_SIGNING_KEY", "TOKEN_TTL", "VAULT_MASTER_KEY",
		"KDF_WORKERS", "LOCKOUT_THRESHOLD", "LOCKOUT_DURATION", "DATABASE_URL", "DATABASE_AUTO_MIGRATE",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, runtime.NumCPU(), cfg.KDFWorkers)
	assert.Equal(t, 5, cfg.LockoutThreshold)
	assert.Equal(t, 30*time.Minute, cfg.LockoutDuration)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("VAULTGUARD_ADDR", ":9090")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("TOKEN_TTL", "5m")
	t.Setenv("KDF_WORKERS", "2")
	t.Setenv("LOCKOUT_THRESHOLD", "notanumber")
	t.Setenv("LOCKOUT_DURATION", "-1m")
	t.Setenv("DATABASE_URL", "postgres://localhost/vault")
	t.Setenv("DATABASE_AUTO_MIGRATE", "false")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 2, cfg.KDFWorkers)
	assert.Equal(t, 5, cfg.LockoutThreshold, "malformed value falls back")
	assert.Equal(t, 30*time.Minute, cfg.LockoutDuration, "non-positive value falls back")
	assert.Equal(t, "postgres://localhost/vault", cfg.Database.URL)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestValidate_Production(t *testing.T) {
	cfg := Server{
		Environment:    "production",
		JWTSigningKey:  devSigningKey,
		VaultMasterKey: "0123456789abcdef0123456789abcdef",
	}
	require.ErrorContains(t, cfg.Validate(), "JWT_SIGNING_KEY")

	cfg.JWTSigningKey = "real-key"
	cfg.VaultMasterKey = "short"
	require.ErrorContains(t, cfg.Validate(), "at least 32")

	cfg.VaultMasterKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}
