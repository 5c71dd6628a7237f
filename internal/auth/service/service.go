package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vaultguard/internal/auth/metrics"
	"vaultguard/internal/auth/models"
	rlmodels "vaultguard/internal/ratelimit/models"
	"vaultguard/pkg/platform/audit"
	"vaultguard/pkg/platform/middleware/requesttime"
)

// AccountStore persists accounts.
// Error Contract: Find methods return sentinel.ErrNotFound when the account does not
// exist; Create returns sentinel.ErrAlreadyUsed for a taken email.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Lockout is the per-account abuse-control boundary.
type Lockout interface {
	IsLocked(ctx context.Context, accountID string) (bool, error)
	ReportOutcome(ctx context.Context, accountID string, success bool) error
	Status(ctx context.Context, accountID string) (*rlmodels.LockoutState, error)
}

type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) error
	VerifyDummy(secret string)
}

type TokenIssuer interface {
	GenerateAccessToken(ctx context.Context, accountID, email string) (string, time.Time, error)
}

type Service struct {
	accounts       AccountStore
	lockout        Lockout
	hasher         PasswordHasher
	tokens         TokenIssuer
	logger         *slog.Logger
	auditPublisher audit.Emitter
	auditor        *audit.Logger
	metrics        *metrics.Metrics
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

func New(accounts AccountStore, lockout Lockout, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account store is required")
	}
	if lockout == nil {
		return nil, fmt.Errorf("lockout service is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}

	svc := &Service{
		accounts: accounts,
		lockout:  lockout,
		hasher:   hasher,
		tokens:   tokens,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	svc.auditor = audit.NewLogger(svc.logger, svc.auditPublisher)
	return svc, nil
}

// issueToken signs an access token for account and builds the response.
func (s *Service) issueToken(ctx context.Context, account *models.Account) (*models.TokenResult, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(ctx, account.ID.String(), account.Email)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementTokensIssued()
	}
	expiresIn := int(expiresAt.Sub(requesttime.Now(ctx)) / time.Second)
	if expiresIn < 0 {
		expiresIn = 0
	}
	return &models.TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		ExpiresAt:   expiresAt,
		Account:     models.NewAccountView(account),
	}, nil
}
