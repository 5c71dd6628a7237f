package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"vaultguard/internal/platform/database"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration

	// VaultMasterKey seeds per-account vault key material. Rotating it makes
	// existing entries undecryptable.
	VaultMasterKey string
	KDFWorkers     int
	BcryptCost     int

	AdminAPIToken  string
	TrustedProxies string

	LockoutThreshold int
	LockoutDuration  time.Duration
	CleanupInterval  time.Duration

	AuditBuffer int

	Database database.Config
}

// IsDevelopment reports whether relaxed defaults are in effect.
func (s Server) IsDevelopment() bool {
	return s.Environment == "" || s.Environment == "development" || s.Environment == "test"
}

// Validate rejects production configurations that still rely on development defaults.
func (s Server) Validate() error {
	if s.IsDevelopment() {
		return nil
	}
	if s.JWTSigningKey == devSigningKey {
		return fmt.Errorf("JWT_SIGNING_KEY must be set outside development")
	}
	if s.VaultMasterKey == devMasterKey {
		return fmt.Errorf("VAULT_MASTER_KEY must be set outside development")
	}
	if len(s.VaultMasterKey) < 32 {
		return fmt.Errorf("VAULT_MASTER_KEY must be at least 32 characters")
	}
	return nil
}

const (
	devSigningKey = "dev-secret-key-change-in-production"
	devMasterKey  = "dev-master-key-change-in-production"
)

// FromEnv builds a Server config from environment variables so main stays lean.
// Malformed values fall back to defaults.
func FromEnv() Server {
	db := database.DefaultConfig()
	db.URL = os.Getenv("DATABASE_URL")
	db.AutoMigrate = envBool("DATABASE_AUTO_MIGRATE", true)

	return Server{
		Addr:             envString("VAULTGUARD_ADDR", ":8080"),
		Environment:      strings.ToLower(envString("ENVIRONMENT", "development")),
		LogLevel:         envString("LOG_LEVEL", "info"),
		JWTSigningKey:    envString("JWT_SIGNING_KEY", devSigningKey),
		JWTIssuer:        envString("JWT_ISSUER", "vaultguard"),
		JWTAudience:      envString("JWT_AUDIENCE", "vaultguard-api"),
		TokenTTL:         envDuration("TOKEN_TTL", 15*time.Minute),
		VaultMasterKey:   envString("VAULT_MASTER_KEY", devMasterKey),
		KDFWorkers:       envInt("KDF_WORKERS", runtime.NumCPU()),
		BcryptCost:       envInt("BCRYPT_COST", 12),
		AdminAPIToken:    os.Getenv("ADMIN_API_TOKEN"),
		TrustedProxies:   os.Getenv("TRUSTED_PROXIES"),
		LockoutThreshold: envInt("LOCKOUT_THRESHOLD", 5),
		LockoutDuration:  envDuration("LOCKOUT_DURATION", 30*time.Minute),
		CleanupInterval:  envDuration("CLEANUP_INTERVAL", time.Minute),
		AuditBuffer:      envInt("AUDIT_BUFFER", 1024),
		Database:         db,
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && v > 0 {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil && v > 0 {
		return v
	}
	return fallback
}
