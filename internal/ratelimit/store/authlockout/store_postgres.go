package authlockout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vaultguard/internal/ratelimit/models"
	dErrors "vaultguard/pkg/domain-errors"
)

// PostgresStore keeps lockout state on the account row (failed_login_attempts,
// locked_until). The store is pure I/O; the lockout rules run in the fn passed to Update.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, accountID string) (*models.LockoutState, error) {
	state := &models.LockoutState{AccountID: accountID}
	var lockedUntil sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT failed_login_attempts, locked_until
		FROM accounts
		WHERE id = $1
	`, accountID).Scan(&state.FailedAttempts, &lockedUntil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, fmt.Errorf("get lockout state: %w", err)
	}
	if lockedUntil.Valid {
		state.LockedUntil = &lockedUntil.Time
	}
	return state, nil
}

// Update reads the account row with SELECT ... FOR UPDATE, applies fn and writes the
// result back in the same transaction, so concurrent failures for one account serialize.
func (s *PostgresStore) Update(ctx context.Context, accountID string, fn func(*models.LockoutState) error) (*models.LockoutState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin lockout update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	state := &models.LockoutState{AccountID: accountID}
	var lockedUntil sql.NullTime
	err = tx.QueryRowContext(ctx, `
		SELECT failed_login_attempts, locked_until
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID).Scan(&state.FailedAttempts, &lockedUntil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, fmt.Errorf("lock account row: %w", err)
	}
	if lockedUntil.Valid {
		state.LockedUntil = &lockedUntil.Time
	}

	if err := fn(state); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE accounts
		SET failed_login_attempts = $2, locked_until = $3, updated_at = NOW()
		WHERE id = $1
	`, accountID, state.FailedAttempts, state.LockedUntil)
	if err != nil {
		return nil, fmt.Errorf("update lockout state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit lockout update: %w", err)
	}
	return state, nil
}

// PurgeElapsed clears failure counts on accounts whose lock has run out.
func (s *PostgresStore) PurgeElapsed(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE locked_until IS NOT NULL AND locked_until <= $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("purge elapsed locks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge elapsed locks rows: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) CountLocked(ctx context.Context, now time.Time) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE locked_until > $1`, now).Scan(&n); err != nil {
		return 0, fmt.Errorf("count locked accounts: %w", err)
	}
	return n, nil
}
