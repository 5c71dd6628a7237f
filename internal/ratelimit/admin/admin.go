// Package admin backs the operator endpoints that inspect and reset abuse-control state.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"vaultguard/internal/ratelimit/models"
	"vaultguard/pkg/requestcontext"
)

// Limiter is the subset of the request limiter used by operators.
type Limiter interface {
	ResetClient(ctx context.Context, clientID string) (bool, error)
	ResetAll(ctx context.Context) error
	Unblock(ctx context.Context, clientID string) (bool, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// Lockout is the subset of the account lockout service used by operators.
type Lockout interface {
	Unlock(ctx context.Context, accountID string) (bool, error)
}

type Service struct {
	limiter Limiter
	lockout Lockout
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(limiter Limiter, lockout Lockout, opts ...Option) (*Service, error) {
	if limiter == nil {
		return nil, fmt.Errorf("limiter is required")
	}
	if lockout == nil {
		return nil, fmt.Errorf("lockout service is required")
	}

	svc := &Service{
		limiter: limiter,
		lockout: lockout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ResetRateLimit resets one client, or every client when no client id is given.
func (s *Service) ResetRateLimit(ctx context.Context, req *models.ResetRateLimitRequest) (*models.AdminActionResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.ClientID == "" {
		if err := s.limiter.ResetAll(ctx); err != nil {
			return nil, err
		}
		s.log(ctx, "rate_limit_reset_all")
		return &models.AdminActionResponse{Status: "success", Message: "Reset all rate limits"}, nil
	}

	found, err := s.limiter.ResetClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	s.log(ctx, "rate_limit_reset", "client_id", req.ClientID, "found", found)
	if !found {
		return &models.AdminActionResponse{Status: "success", Message: "Client " + req.ClientID + " had no rate limit state"}, nil
	}
	return &models.AdminActionResponse{Status: "success", Message: "Reset rate limits for client " + req.ClientID}, nil
}

// Unblock lifts a client's block. Unblocking a client that is not blocked succeeds.
func (s *Service) Unblock(ctx context.Context, req *models.UnblockRequest) (*models.AdminActionResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	removed, err := s.limiter.Unblock(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	s.log(ctx, "rate_limit_unblock", "client_id", req.ClientID, "was_blocked", removed)
	if !removed {
		return &models.AdminActionResponse{Status: "success", Message: "Client " + req.ClientID + " was not blocked"}, nil
	}
	return &models.AdminActionResponse{Status: "success", Message: "Unblocked client " + req.ClientID}, nil
}

// UnlockAccount clears an account's lockout.
func (s *Service) UnlockAccount(ctx context.Context, req *models.UnlockAccountRequest) (*models.AdminActionResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	wasLocked, err := s.lockout.Unlock(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	s.log(ctx, "auth_lockout_cleared", "account_id", req.AccountID, "was_locked", wasLocked)
	if !wasLocked {
		return &models.AdminActionResponse{Status: "success", Message: "Account " + req.AccountID + " was not locked"}, nil
	}
	return &models.AdminActionResponse{Status: "success", Message: "Unlocked account " + req.AccountID}, nil
}

func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	return s.limiter.Stats(ctx)
}

func (s *Service) log(ctx context.Context, event string, attrs ...any) {
	if s.logger == nil {
		return
	}
	attrs = append(attrs, "event", event, "log_type", "audit", "request_id", requestcontext.RequestID(ctx))
	s.logger.InfoContext(ctx, event, attrs...)
}
