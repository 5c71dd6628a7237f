package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"vaultguard/internal/sentinel"
	"vaultguard/internal/vault/models"
)

// PostgresStore persists entries in the vault_entries table. Only the envelope
// blob is written; plaintext never reaches the database.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const entryColumns = `id, user_id, site_name, site_url, username, encrypted_password,
	notes, created_at, updated_at, last_used_at`

func (s *PostgresStore) Create(ctx context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vault_entries (id, user_id, site_name, site_url, username,
			encrypted_password, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, entry.UserID, entry.SiteName, entry.SiteURL, entry.Username,
		entry.EncryptedPassword, entry.Notes, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("entry already exists: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM vault_entries WHERE id = $1`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("entry not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return entry, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM vault_entries
		WHERE user_id = $1
		ORDER BY site_name, created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	return s.exec(ctx, "update entry", `
		UPDATE vault_entries
		SET site_name = $2, site_url = $3, username = $4, encrypted_password = $5,
			notes = $6, updated_at = $7
		WHERE id = $1
	`, entry.ID, entry.SiteName, entry.SiteURL, entry.Username,
		entry.EncryptedPassword, entry.Notes, entry.UpdatedAt)
}

func (s *PostgresStore) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.exec(ctx, "touch entry",
		`UPDATE vault_entries SET last_used_at = $2 WHERE id = $1`, id, at)
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.exec(ctx, "delete entry", `DELETE FROM vault_entries WHERE id = $1`, id)
}

func (s *PostgresStore) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("entry not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e        models.Entry
		lastUsed sql.NullTime
	)
	err := row.Scan(&e.ID, &e.UserID, &e.SiteName, &e.SiteURL, &e.Username,
		&e.EncryptedPassword, &e.Notes, &e.CreatedAt, &e.UpdatedAt, &lastUsed)
	if err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		e.LastUsedAt = &t
	}
	return &e, nil
}
