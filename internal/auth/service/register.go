package service

import (
	"context"
	"errors"

	"vaultguard/internal/auth/models"
	"vaultguard/internal/sentinel"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/audit"
	"vaultguard/pkg/platform/middleware/requesttime"
)

// Register creates an account and signs the caller in. The request must already be
// normalized and validated.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResult, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	account, err := models.NewAccount(req.Email, hash, requesttime.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			s.auditor.Record(ctx, audit.EventRegister, "", false, "email already registered")
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	if s.metrics != nil {
		s.metrics.IncrementRegistered()
	}
	s.auditor.Record(ctx, audit.EventRegister, account.ID.String(), true, "")

	result, err := s.issueToken(ctx, account)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	return result, nil
}
