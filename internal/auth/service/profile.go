package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"vaultguard/internal/auth/models"
	"vaultguard/internal/sentinel"
	dErrors "vaultguard/pkg/domain-errors"
)

// Profile returns the caller's account together with its current lockout state.
func (s *Service) Profile(ctx context.Context, accountID uuid.UUID) (*models.ProfileResult, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find account")
	}

	result := &models.ProfileResult{
		AccountView:         models.NewAccountView(account),
		FailedLoginAttempts: account.FailedLoginAttempts,
		LockedUntil:         account.LockedUntil,
	}

	state, err := s.lockout.Status(ctx, accountID.String())
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read lockout state for profile",
			"error", err,
			"account_id", accountID.String(),
		)
		return result, nil
	}
	result.FailedLoginAttempts = state.FailedAttempts
	result.LockedUntil = state.LockedUntil
	return result, nil
}
