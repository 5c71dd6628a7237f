package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"vaultguard/internal/sentinel"
	"vaultguard/internal/vault/models"
	"vaultguard/internal/vault/tracer"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/audit"
	"vaultguard/pkg/platform/middleware/requesttime"
)

// Create encrypts the password and stores a new entry for userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *models.CreateEntryRequest) (_ *models.EntrySummary, err error) {
	defer func() { s.recordOperation("create", err) }()
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	blob, err := s.seal(ctx, userID, req.Password)
	if err != nil {
		return nil, err
	}

	entry, err := models.NewEntry(userID, req.SiteName, req.SiteURL, req.Username, blob, req.Notes, requesttime.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store password entry")
	}

	s.auditor.Record(ctx, audit.EventCreatePassword, userID.String(), true, entry.ID.String())
	summary := models.NewEntrySummary(entry)
	return &summary, nil
}

// List returns the caller's entries without any secret material.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (_ *models.EntryList, err error) {
	defer func() { s.recordOperation("list", err) }()
	ctx, span := s.tracer.Start(ctx, tracer.SpanList, tracer.String(tracer.AttrUserID, userID.String()))
	defer func() { span.End(err) }()

	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list password entries")
	}
	span.SetAttributes(tracer.Int(tracer.AttrEntryCount, len(entries)))

	out := &models.EntryList{
		Entries: make([]models.EntrySummary, 0, len(entries)),
		Total:   len(entries),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, models.NewEntrySummary(e))
	}
	return out, nil
}

// Reveal decrypts one entry and stamps it as used. Every attempt is audited.
func (s *Service) Reveal(ctx context.Context, userID, entryID uuid.UUID) (_ *models.RevealedEntry, err error) {
	defer func() { s.recordOperation("reveal", err) }()

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.open(ctx, entry)
	if err != nil {
		s.auditor.Record(ctx, audit.EventRevealPassword, userID.String(), false, entry.ID.String())
		return nil, err
	}

	now := requesttime.Now(ctx)
	if err := s.entries.TouchLastUsed(ctx, entry.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to record entry use",
			"entry_id", entry.ID.String(),
			"error", err,
		)
	} else {
		entry.MarkUsed(now)
	}

	s.auditor.Record(ctx, audit.EventRevealPassword, userID.String(), true, entry.ID.String())
	return &models.RevealedEntry{
		EntrySummary: models.NewEntrySummary(entry),
		Password:     plaintext,
	}, nil
}

// Update applies the non-nil fields of req. A new password is encrypted with fresh
// salt and nonce; the old blob is discarded.
func (s *Service) Update(ctx context.Context, userID, entryID uuid.UUID, req *models.UpdateEntryRequest) (_ *models.EntrySummary, err error) {
	defer func() { s.recordOperation("update", err) }()
	if req == nil || req.Empty() {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if req.SiteName != nil {
		entry.SiteName = *req.SiteName
	}
	if req.SiteURL != nil {
		entry.SiteURL = *req.SiteURL
	}
	if req.Username != nil {
		entry.Username = *req.Username
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	detail := entry.ID.String()
	if req.Password != nil {
		blob, err := s.seal(ctx, userID, *req.Password)
		if err != nil {
			return nil, err
		}
		entry.EncryptedPassword = blob
		detail += " password_rotated"
	}
	entry.UpdatedAt = requesttime.Now(ctx)

	if err := s.entries.Update(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errEntryNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update password entry")
	}

	s.auditor.Record(ctx, audit.EventUpdatePassword, userID.String(), true, detail)
	summary := models.NewEntrySummary(entry)
	return &summary, nil
}

// Delete removes one of the caller's entries.
func (s *Service) Delete(ctx context.Context, userID, entryID uuid.UUID) (err error) {
	defer func() { s.recordOperation("delete", err) }()

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, entry.ID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return errEntryNotFound()
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete password entry")
	}

	s.auditor.Record(ctx, audit.EventDeletePassword, userID.String(), true, entry.ID.String())
	return nil
}
