// Package authlockout implements per-account progressive lockout: after Threshold
// consecutive failed logins an account is locked for Duration, and a successful
// login or an admin unlock clears the state.
package authlockout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vaultguard/internal/ratelimit/config"
	"vaultguard/internal/ratelimit/metrics"
	"vaultguard/internal/ratelimit/models"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/audit"
	"vaultguard/pkg/platform/middleware/requesttime"
)

// Store persists lockout state. Update must apply fn atomically per account.
type Store interface {
	Get(ctx context.Context, accountID string) (*models.LockoutState, error)
	Update(ctx context.Context, accountID string, fn func(*models.LockoutState) error) (*models.LockoutState, error)
	PurgeElapsed(ctx context.Context, now time.Time) (int, error)
	CountLocked(ctx context.Context, now time.Time) (int, error)
}

type Service struct {
	store          Store
	auditPublisher audit.Emitter
	auditor        *audit.Logger
	logger         *slog.Logger
	config         config.LockoutConfig
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

func WithConfig(cfg config.LockoutConfig) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("lockout store is required")
	}

	svc := &Service{
		store:  store,
		config: config.DefaultConfig().Lockout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.config.Threshold <= 0 || svc.config.Duration <= 0 {
		return nil, fmt.Errorf("lockout threshold and duration must be positive")
	}
	svc.auditor = audit.NewLogger(svc.logger, svc.auditPublisher)

	return svc, nil
}

// Threshold is the number of consecutive failures that locks an account.
func (s *Service) Threshold() int {
	return s.config.Threshold
}

// IsLocked reports whether the account is locked at the request time.
func (s *Service) IsLocked(ctx context.Context, accountID string) (bool, error) {
	state, err := s.Status(ctx, accountID)
	if err != nil {
		return false, err
	}
	return state.IsLocked(requesttime.Now(ctx)), nil
}

// Status returns the account's current lockout state.
func (s *Service) Status(ctx context.Context, accountID string) (*models.LockoutState, error) {
	if accountID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	state, err := s.store.Get(ctx, accountID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get lockout state")
	}
	return state, nil
}

// RecordFailure counts one failed credential check. Reaching the threshold locks the
// account until now+duration; a failure after an elapsed lock starts a new count.
func (s *Service) RecordFailure(ctx context.Context, accountID string) (*models.LockoutState, error) {
	if accountID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	now := requesttime.Now(ctx)

	locked := false
	state, err := s.store.Update(ctx, accountID, func(st *models.LockoutState) error {
		locked = st.RegisterFailure(now, s.config.Threshold, s.config.Duration)
		return nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record login failure")
	}

	if s.metrics != nil {
		s.metrics.IncrementAuthFailures()
	}
	if locked {
		if s.metrics != nil {
			s.metrics.IncrementAuthLockouts()
		}
		s.auditor.Record(ctx, audit.EventAccountLocked, accountID, false,
			fmt.Sprintf("locked after %d failed attempts until %s", state.FailedAttempts, state.LockedUntil.UTC().Format(time.RFC3339)))
		if s.logger != nil {
			s.logger.WarnContext(ctx, "auth_lockout_triggered",
				"account_id", accountID,
				"failed_attempts", state.FailedAttempts,
				"locked_until", state.LockedUntil,
			)
		}
	}
	return state, nil
}

// RecordSuccess clears the failure count and any lock.
func (s *Service) RecordSuccess(ctx context.Context, accountID string) error {
	if accountID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	_, err := s.store.Update(ctx, accountID, func(st *models.LockoutState) error {
		st.Reset()
		return nil
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset lockout state")
	}
	return nil
}

// ReportOutcome is called by the login flow once credentials have been checked.
func (s *Service) ReportOutcome(ctx context.Context, accountID string, success bool) error {
	if success {
		return s.RecordSuccess(ctx, accountID)
	}
	_, err := s.RecordFailure(ctx, accountID)
	return err
}

// Unlock clears the account's lockout out of band. It reports whether the account was
// locked at the time.
func (s *Service) Unlock(ctx context.Context, accountID string) (bool, error) {
	if accountID == "" {
		return false, dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	now := requesttime.Now(ctx)

	wasLocked := false
	_, err := s.store.Update(ctx, accountID, func(st *models.LockoutState) error {
		wasLocked = st.IsLocked(now)
		st.Reset()
		return nil
	})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to unlock account")
	}

	if s.metrics != nil {
		s.metrics.RecordAdminAction("unlock")
	}
	s.auditor.Record(ctx, audit.EventAccountUnlocked, accountID, true, "manual unlock")
	return wasLocked, nil
}

// Purge drops elapsed locks and refreshes the locked-accounts gauge. Used by the
// cleanup worker.
func (s *Service) Purge(ctx context.Context) (int, error) {
	now := requesttime.Now(ctx)
	purged, err := s.store.PurgeElapsed(ctx, now)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge elapsed locks")
	}
	locked, err := s.store.CountLocked(ctx, now)
	if err != nil {
		return purged, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count locked accounts")
	}
	if s.metrics != nil {
		s.metrics.SetLockedAccounts(locked)
		s.metrics.AddCleanupEvicted("locks", purged)
	}
	return purged, nil
}
