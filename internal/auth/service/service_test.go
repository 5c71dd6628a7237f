package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AccountStore,Lockout,PasswordHasher,TokenIssuer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vaultguard/internal/auth/metrics"
	"vaultguard/internal/auth/models"
	"vaultguard/internal/auth/service/mocks"
	rlmodels "vaultguard/internal/ratelimit/models"
	"vaultguard/internal/sentinel"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/audit"
	auditmemory "vaultguard/pkg/platform/audit/store/memory"
	"vaultguard/pkg/platform/audit/publisher"
	"vaultguard/pkg/platform/middleware/requesttime"
)

type ServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockStore   *mocks.MockAccountStore
	mockLockout *mocks.MockLockout
	mockHasher  *mocks.MockPasswordHasher
	mockTokens  *mocks.MockTokenIssuer
	auditStore  *auditmemory.InMemoryStore
	metrics     *metrics.Metrics
	service     *Service
	ctx         context.Context
	now         time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockAccountStore(s.ctrl)
	s.mockLockout = mocks.NewMockLockout(s.ctrl)
	s.mockHasher = mocks.NewMockPasswordHasher(s.ctrl)
	s.mockTokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requesttime.WithTime(context.Background(), s.now)

	var err error
	s.service, err = New(s.mockStore, s.mockLockout, s.mockHasher, s.mockTokens,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) newAccount() *models.Account {
	account, err := models.NewAccount("alice@example.com", "$2a$hash", s.now.Add(-24*time.Hour))
	s.Require().NoError(err)
	return account
}

func (s *ServiceSuite) auditActions() []string {
	events, err := s.auditStore.ListRecent(context.Background(), 100)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

func (s *ServiceSuite) TestNewRequiresDependencies() {
	_, err := New(nil, s.mockLockout, s.mockHasher, s.mockTokens)
	s.ErrorContains(err, "account store is required")
	_, err = New(s.mockStore, nil, s.mockHasher, s.mockTokens)
	s.ErrorContains(err, "lockout service is required")
	_, err = New(s.mockStore, s.mockLockout, nil, s.mockTokens)
	s.ErrorContains(err, "password hasher is required")
	_, err = New(s.mockStore, s.mockLockout, s.mockHasher, nil)
	s.ErrorContains(err, "token issuer is required")
}

func (s *ServiceSuite) TestRegister() {
	req := &models.RegisterRequest{Email: "alice@example.com", Password: "Str0ng!pass"}

	s.Run("creates account and issues token", func() {
		s.mockHasher.EXPECT().Hash("Str0ng!pass").Return("$2a$hash", nil)
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, a *models.Account) error {
				s.Equal("alice@example.com", a.Email)
				s.Equal("$2a$hash", a.PasswordHash)
				s.True(a.IsActive)
				s.Equal(s.now, a.CreatedAt)
				return nil
			})
		s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), gomock.Any(), "alice@example.com").
			Return("signed-token", s.now.Add(15*time.Minute), nil)

		result, err := s.service.Register(s.ctx, req)
		s.Require().NoError(err)
		s.Equal("signed-token", result.AccessToken)
		s.Equal("Bearer", result.TokenType)
		s.Equal(900, result.ExpiresIn)
		s.Equal("alice@example.com", result.Account.Email)
		s.Contains(s.auditActions(), string(audit.EventRegister))
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.AccountsRegistered))
	})

	s.Run("duplicate email is a conflict", func() {
		s.mockHasher.EXPECT().Hash(gomock.Any()).Return("$2a$hash", nil)
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("account already exists: %w", sentinel.ErrAlreadyUsed))

		_, err := s.service.Register(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("store failure is internal", func() {
		s.mockHasher.EXPECT().Hash(gomock.Any()).Return("$2a$hash", nil)
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := s.service.Register(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestLogin_Success() {
	account := s.newAccount()
	req := &models.LoginRequest{Email: account.Email, Password: "Str0ng!pass"}

	gomock.InOrder(
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil),
		s.mockLockout.EXPECT().IsLocked(gomock.Any(), account.ID.String()).Return(false, nil),
		s.mockHasher.EXPECT().Verify("Str0ng!pass", account.PasswordHash).Return(nil),
		s.mockLockout.EXPECT().ReportOutcome(gomock.Any(), account.ID.String(), true).Return(nil),
		s.mockStore.EXPECT().RecordLogin(gomock.Any(), account.ID, s.now).Return(nil),
		s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), account.ID.String(), account.Email).
			Return("signed-token", s.now.Add(time.Hour), nil),
	)

	result, err := s.service.Login(s.ctx, req)
	s.Require().NoError(err)
	s.Equal("signed-token", result.AccessToken)
	s.Require().NotNil(result.Account.LastLoginAt)
	s.Equal(s.now, *result.Account.LastLoginAt)
	s.Contains(s.auditActions(), string(audit.EventLoginSuccess))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.LoginAttempts.WithLabelValues(loginOutcomeSuccess)))
}

func (s *ServiceSuite) TestLogin_WrongPasswordReportsFailure() {
	account := s.newAccount()

	gomock.InOrder(
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil),
		s.mockLockout.EXPECT().IsLocked(gomock.Any(), account.ID.String()).Return(false, nil),
		s.mockHasher.EXPECT().Verify("wrong", account.PasswordHash).
			Return(dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")),
		s.mockLockout.EXPECT().ReportOutcome(gomock.Any(), account.ID.String(), false).Return(nil),
	)

	_, err := s.service.Login(s.ctx, &models.LoginRequest{Email: account.Email, Password: "wrong"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Contains(s.auditActions(), string(audit.EventLoginFailed))
}

func (s *ServiceSuite) TestLogin_LockedAccountRunsDummyCompareAndRecordsNothing() {
	account := s.newAccount()

	s.mockStore.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil)
	s.mockLockout.EXPECT().IsLocked(gomock.Any(), account.ID.String()).Return(true, nil)
	s.mockHasher.EXPECT().VerifyDummy("Str0ng!pass")
	s.mockHasher.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)
	s.mockLockout.EXPECT().ReportOutcome(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.Login(s.ctx, &models.LoginRequest{Email: account.Email, Password: "Str0ng!pass"})
	s.True(dErrors.HasCode(err, dErrors.CodeAccountLocked))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.LoginAttempts.WithLabelValues(loginOutcomeLocked)))
}

func (s *ServiceSuite) TestLogin_UnknownEmailRunsDummyCompare() {
	s.mockStore.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").
		Return(nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound))
	s.mockHasher.EXPECT().VerifyDummy("whatever")

	_, err := s.service.Login(s.ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("invalid credentials", err.Error())
}

func (s *ServiceSuite) TestLogin_DisabledAccountLooksLikeInvalidCredentials() {
	account := s.newAccount()
	account.IsActive = false

	s.mockStore.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil)
	s.mockLockout.EXPECT().IsLocked(gomock.Any(), account.ID.String()).Return(false, nil)
	s.mockHasher.EXPECT().Verify(gomock.Any(), account.PasswordHash).Return(nil)
	s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.Login(s.ctx, &models.LoginRequest{Email: account.Email, Password: "Str0ng!pass"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("invalid credentials", err.Error())
}

func (s *ServiceSuite) TestLogin_InfrastructureErrors() {
	account := s.newAccount()
	req := &models.LoginRequest{Email: account.Email, Password: "Str0ng!pass"}

	s.Run("lookup failure", func() {
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
		_, err := s.service.Login(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("lockout check failure", func() {
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(account, nil)
		s.mockLockout.EXPECT().IsLocked(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
		_, err := s.service.Login(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("corrupt hash", func() {
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(account, nil)
		s.mockLockout.EXPECT().IsLocked(gomock.Any(), gomock.Any()).Return(false, nil)
		s.mockHasher.EXPECT().Verify(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeInternal, "stored hash is invalid"))
		_, err := s.service.Login(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("last login failure does not fail the login", func() {
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(account, nil)
		s.mockLockout.EXPECT().IsLocked(gomock.Any(), gomock.Any()).Return(false, nil)
		s.mockHasher.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)
		s.mockLockout.EXPECT().ReportOutcome(gomock.Any(), gomock.Any(), true).Return(nil)
		s.mockStore.EXPECT().RecordLogin(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("signed-token", s.now.Add(time.Hour), nil)
		result, err := s.service.Login(s.ctx, req)
		s.Require().NoError(err)
		s.Nil(result.Account.LastLoginAt)
	})
}

func (s *ServiceSuite) TestProfile() {
	account := s.newAccount()
	until := s.now.Add(10 * time.Minute)

	s.Run("merges lockout state", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		s.mockLockout.EXPECT().Status(gomock.Any(), account.ID.String()).
			Return(&rlmodels.LockoutState{AccountID: account.ID.String(), FailedAttempts: 5, LockedUntil: &until}, nil)

		profile, err := s.service.Profile(s.ctx, account.ID)
		s.Require().NoError(err)
		s.Equal(account.Email, profile.Email)
		s.Equal(5, profile.FailedLoginAttempts)
		s.Equal(&until, profile.LockedUntil)
	})

	s.Run("lockout read failure falls back to the account record", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		s.mockLockout.EXPECT().Status(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		profile, err := s.service.Profile(s.ctx, account.ID)
		s.Require().NoError(err)
		s.Zero(profile.FailedLoginAttempts)
	})

	s.Run("unknown account", func() {
		missing := uuid.New()
		s.mockStore.EXPECT().FindByID(gomock.Any(), missing).
			Return(nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound))

		_, err := s.service.Profile(s.ctx, missing)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
