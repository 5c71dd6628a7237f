package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vaultguard/internal/sentinel"
	"vaultguard/internal/vault/metrics"
	"vaultguard/internal/vault/models"
	"vaultguard/internal/vault/tracer"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/audit"
)

// EntryStore persists vault entries.
// Error Contract: lookups and mutations of a missing entry return sentinel.ErrNotFound.
// Stores do not check ownership.
type EntryStore interface {
	Create(ctx context.Context, entry *models.Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// KeySource supplies the key material for one user's entries.
type KeySource interface {
	KeyFor(ctx context.Context, userID uuid.UUID) (string, error)
}

// Cipher is the envelope encryption boundary. Satisfied by envelope.Pool.
type Cipher interface {
	Encrypt(ctx context.Context, plaintext, secret string) (string, error)
	Decrypt(ctx context.Context, blob, secret string) (string, error)
}

type Service struct {
	entries        EntryStore
	keys           KeySource
	cipher         Cipher
	logger         *slog.Logger
	auditPublisher audit.Emitter
	auditor        *audit.Logger
	metrics        *metrics.Metrics
	tracer         tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Emitter) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(entries EntryStore, keys KeySource, cipher Cipher, opts ...Option) (*Service, error) {
	if entries == nil {
		return nil, fmt.Errorf("entry store is required")
	}
	if keys == nil {
		return nil, fmt.Errorf("key source is required")
	}
	if cipher == nil {
		return nil, fmt.Errorf("cipher is required")
	}

	svc := &Service{
		entries: entries,
		keys:    keys,
		cipher:  cipher,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	svc.auditor = audit.NewLogger(svc.logger, svc.auditPublisher)
	return svc, nil
}

func errEntryNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "password entry not found")
}

// ownedEntry loads entryID and hides entries owned by someone else behind NotFound.
func (s *Service) ownedEntry(ctx context.Context, userID, entryID uuid.UUID) (*models.Entry, error) {
	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errEntryNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load password entry")
	}
	if !entry.OwnedBy(userID) {
		return nil, errEntryNotFound()
	}
	return entry, nil
}

// seal encrypts plaintext under userID's key material.
func (s *Service) seal(ctx context.Context, userID uuid.UUID, plaintext string) (blob string, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanEncrypt, tracer.String(tracer.AttrUserID, userID.String()))
	start := time.Now()
	defer func() {
		span.End(err)
		if s.metrics != nil {
			s.metrics.ObserveCipher("encrypt", time.Since(start).Seconds())
		}
	}()

	secret, err := s.keys.KeyFor(ctx, userID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load key material")
	}
	blob, err = s.cipher.Encrypt(ctx, plaintext, secret)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to encrypt password")
	}
	return blob, nil
}

// open decrypts a stored blob. A blob that fails authentication keeps its
// DecryptionFailed code.
func (s *Service) open(ctx context.Context, entry *models.Entry) (plaintext string, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDecrypt,
		tracer.String(tracer.AttrUserID, entry.UserID.String()),
		tracer.String(tracer.AttrEntryID, entry.ID.String()),
	)
	start := time.Now()
	defer func() {
		span.End(err)
		if s.metrics != nil {
			s.metrics.ObserveCipher("decrypt", time.Since(start).Seconds())
		}
	}()

	secret, err := s.keys.KeyFor(ctx, entry.UserID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load key material")
	}
	plaintext, err = s.cipher.Decrypt(ctx, entry.EncryptedPassword, secret)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeDecryptionFailed) {
			if s.metrics != nil {
				s.metrics.IncrementDecryptionFailures()
			}
			s.logger.ErrorContext(ctx, "stored password failed authentication",
				"entry_id", entry.ID.String(),
				"user_id", entry.UserID.String(),
			)
			return "", err
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to decrypt password")
	}
	return plaintext, nil
}

func (s *Service) recordOperation(operation string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.RecordOperation(operation, outcome)
}
