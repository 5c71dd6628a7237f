package main

import (
	"log/slog"

	authservice "vaultguard/internal/auth/service"
	"vaultguard/internal/auth/store/user"
	"vaultguard/internal/platform/database"
	"vaultguard/internal/ratelimit/service/authlockout"
	lockoutstore "vaultguard/internal/ratelimit/store/authlockout"
	vaultservice "vaultguard/internal/vault/service"
	"vaultguard/internal/vault/store/entry"
	"vaultguard/pkg/platform/audit"
	auditmemory "vaultguard/pkg/platform/audit/store/memory"
	auditpostgres "vaultguard/pkg/platform/audit/store/postgres"
)

// stores groups the persistence backends picked for this process.
type stores struct {
	accounts authservice.AccountStore
	lockouts authlockout.Store
	entries  vaultservice.EntryStore
	audit    audit.Store
}

// newStores selects Postgres when a pool is available and in-memory stores otherwise.
// In-memory state is lost on restart.
func newStores(pool *database.Pool, logger *slog.Logger) stores {
	if pool == nil {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		return stores{
			accounts: user.New(),
			lockouts: lockoutstore.New(),
			entries:  entry.New(),
			audit:    auditmemory.NewInMemoryStore(),
		}
	}

	db := pool.DB()
	return stores{
		accounts: user.NewPostgres(db),
		lockouts: lockoutstore.NewPostgres(db),
		entries:  entry.NewPostgres(db),
		audit:    auditpostgres.New(db),
	}
}
