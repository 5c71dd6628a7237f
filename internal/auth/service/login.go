package service

import (
	"context"
	"errors"
	"time"

	"vaultguard/internal/auth/models"
	"vaultguard/internal/sentinel"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/audit"
	"vaultguard/pkg/platform/middleware/requesttime"
)

const (
	loginOutcomeSuccess = "success"
	loginOutcomeInvalid = "invalid_credentials"
	loginOutcomeLocked  = "locked"
	loginOutcomeError   = "error"
)

func errInvalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// Login checks credentials in a fixed order: lockout state, then the password, then the
// outcome is reported to the lockout policy. Unknown emails and locked accounts still
// pay for one bcrypt comparison so response timing does not reveal which case applied.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (result *models.TokenResult, err error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	start := time.Now()
	outcome := loginOutcomeError
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordLogin(outcome, time.Since(start).Seconds())
		}
	}()

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.hasher.VerifyDummy(req.Password)
			s.auditor.Record(ctx, audit.EventLoginFailed, "", false, "unknown account")
			outcome = loginOutcomeInvalid
			return nil, errInvalidCredentials()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find account")
	}
	accountID := account.ID.String()

	locked, err := s.lockout.IsLocked(ctx, accountID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check account lockout")
	}
	if locked {
		s.hasher.VerifyDummy(req.Password)
		s.auditor.Record(ctx, audit.EventLoginFailed, accountID, false, "account locked")
		outcome = loginOutcomeLocked
		return nil, dErrors.New(dErrors.CodeAccountLocked, "account is temporarily locked")
	}

	if err := s.hasher.Verify(req.Password, account.PasswordHash); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
		}
		if reportErr := s.lockout.ReportOutcome(ctx, accountID, false); reportErr != nil {
			return nil, dErrors.Wrap(reportErr, dErrors.CodeInternal, "failed to record login failure")
		}
		s.auditor.Record(ctx, audit.EventLoginFailed, accountID, false, "invalid password")
		outcome = loginOutcomeInvalid
		return nil, errInvalidCredentials()
	}

	if !account.CanLogin() {
		s.auditor.Record(ctx, audit.EventLoginFailed, accountID, false, "account disabled")
		outcome = loginOutcomeInvalid
		return nil, errInvalidCredentials()
	}

	if err := s.lockout.ReportOutcome(ctx, accountID, true); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset lockout state")
	}

	now := requesttime.Now(ctx)
	if err := s.accounts.RecordLogin(ctx, account.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login",
			"error", err,
			"account_id", accountID,
		)
	} else {
		account.LastLoginAt = &now
	}

	result, err = s.issueToken(ctx, account)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	s.auditor.Record(ctx, audit.EventLoginSuccess, accountID, true, "")
	outcome = loginOutcomeSuccess
	return result, nil
}
