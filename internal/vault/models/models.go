package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "vaultguard/pkg/domain-errors"
)

// Entry is one stored credential. EncryptedPassword is an envelope blob; the
// plaintext never lives on this type.
type Entry struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	SiteName          string
	SiteURL           string
	Username          string
	EncryptedPassword string
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastUsedAt        *time.Time
}

// NewEntry creates an entry owned by userID with a fresh id.
func NewEntry(userID uuid.UUID, siteName, siteURL, username, encryptedPassword, notes string, now time.Time) (*Entry, error) {
	if userID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner cannot be empty")
	}
	siteName = strings.TrimSpace(siteName)
	if siteName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "site name cannot be empty")
	}
	if encryptedPassword == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "encrypted password cannot be empty")
	}
	return &Entry{
		ID:                uuid.New(),
		UserID:            userID,
		SiteName:          siteName,
		SiteURL:           strings.TrimSpace(siteURL),
		Username:          strings.TrimSpace(username),
		EncryptedPassword: encryptedPassword,
		Notes:             notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// OwnedBy reports whether userID owns the entry.
func (e *Entry) OwnedBy(userID uuid.UUID) bool {
	return e.UserID == userID
}

// MarkUsed stamps a reveal.
func (e *Entry) MarkUsed(at time.Time) {
	used := at
	e.LastUsedAt = &used
}
