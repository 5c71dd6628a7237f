package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks EntryStore,KeySource,Cipher

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

	"vaultguard/internal/sentinel"
	"vaultguard/internal/vault/metrics"
	"vaultguard/internal/vault/models"
	"vaultguard/internal/vault/service/mocks"
	"vaultguard/pkg/crypto/envelope"
	dErrors "vaultguard/pkg/domain-errors"
	auditmemory "vaultguard/pkg/platform/audit/store/memory"
	"vaultguard/pkg/platform/audit/publisher"
	"vaultguard/pkg/platform/middleware/requesttime"
)

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockStore  *mocks.MockEntryStore
	mockKeys   *mocks.MockKeySource
	mockCipher *mocks.MockCipher
	auditStore *auditmemory.InMemoryStore
	metrics    *metrics.Metrics
	service    *Service
	ctx        context.Context
	now        time.Time
	owner      uuid.UUID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockEntryStore(s.ctrl)
	s.mockKeys = mocks.NewMockKeySource(s.ctrl)
	s.mockCipher = mocks.NewMockCipher(s.ctrl)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requesttime.WithTime(context.Background(), s.now)
	s.owner = uuid.New()

	var err error
	s.service, err = New(s.mockStore, s.mockKeys, s.mockCipher,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) storedEntry() *models.Entry {
	entry, err := models.NewEntry(s.owner, "GitHub", "https://github.com", "alice", "stored-blob", "", s.now.Add(-time.Hour))
	s.Require().NoError(err)
	return entry
}

func (s *ServiceSuite) auditActions() []string {
	events, err := s.auditStore.ListRecent(context.Background(), 100)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, fmt.Sprintf("%s:%t", e.Action, e.Success))
	}
	return actions
}

func (s *ServiceSuite) TestNewRequiresDependencies() {
	_, err := New(nil, s.mockKeys, s.mockCipher)
	s.ErrorContains(err, "entry store is required")
	_, err = New(s.mockStore, nil, s.mockCipher)
	s.ErrorContains(err, "key source is required")
	_, err = New(s.mockStore, s.mockKeys, nil)
	s.ErrorContains(err, "cipher is required")
}

func (s *ServiceSuite) TestCreate() {
	req := &models.CreateEntryRequest{SiteName: "GitHub", Username: "alice", Password: "hunter2"}

	s.Run("encrypts under the owner's key before storing", func() {
		gomock.InOrder(
			s.mockKeys.EXPECT().KeyFor(gomock.Any(), s.owner).Return("owner-key", nil),
			s.mockCipher.EXPECT().Encrypt(gomock.Any(), "hunter2", "owner-key").Return("sealed", nil),
			s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, e *models.Entry) error {
					s.Equal(s.owner, e.UserID)
					s.Equal("sealed", e.EncryptedPassword)
					s.Equal(s.now, e.CreatedAt)
					return nil
				}),
		)

		summary, err := s.service.Create(s.ctx, s.owner, req)
		s.Require().NoError(err)
		s.Equal("GitHub", summary.SiteName)
		s.Contains(s.auditActions(), "CREATE_PASSWORD:true")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Operations.WithLabelValues("create", "success")))
	})

	s.Run("cipher failure stores nothing", func() {
		s.mockKeys.EXPECT().KeyFor(gomock.Any(), s.owner).Return("owner-key", nil)
		s.mockCipher.EXPECT().Encrypt(gomock.Any(), gomock.Any(), gomock.Any()).Return("", context.Canceled)
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := s.service.Create(s.ctx, s.owner, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Operations.WithLabelValues("create", "error")))
	})

	s.Run("key source failure", func() {
		s.mockKeys.EXPECT().KeyFor(gomock.Any(), s.owner).Return("", errors.New("kms down"))

		_, err := s.service.Create(s.ctx, s.owner, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestList() {
	entry := s.storedEntry()
	s.mockStore.EXPECT().ListByUser(gomock.Any(), s.owner).Return([]*models.Entry{entry}, nil)

	list, err := s.service.List(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(1, list.Total)
	s.Equal(entry.ID.String(), list.Entries[0].ID)
}

func (s *ServiceSuite) TestReveal() {
	s.Run("decrypts and stamps last use", func() {
		entry := s.storedEntry()
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockKeys.EXPECT().KeyFor(gomock.Any(), s.owner).Return("owner-key", nil)
		s.mockCipher.EXPECT().Decrypt(gomock.Any(), "stored-blob", "owner-key").Return("hunter2", nil)
		s.mockStore.EXPECT().TouchLastUsed(gomock.Any(), entry.ID, s.now).Return(nil)

		revealed, err := s.service.Reveal(s.ctx, s.owner, entry.ID)
		s.Require().NoError(err)
		s.Equal("hunter2", revealed.Password)
		s.Require().NotNil(revealed.LastUsedAt)
		s.Equal(s.now, *revealed.LastUsedAt)
		s.Contains(s.auditActions(), "REVEAL_PASSWORD:true")
	})

	s.Run("another user's entry is not found", func() {
		entry := s.storedEntry()
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockCipher.EXPECT().Decrypt(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := s.service.Reveal(s.ctx, uuid.New(), entry.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("missing entry", func() {
		id := uuid.New()
		s.mockStore.EXPECT().FindByID(gomock.Any(), id).Return(nil, fmt.Errorf("entry not found: %w", sentinel.ErrNotFound))

		_, err := s.service.Reveal(s.ctx, s.owner, id)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("tampered blob is audited and counted", func() {
		entry := s.storedEntry()
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockKeys.EXPECT().KeyFor(gomock.Any(), s.owner).Return("owner-key", nil)
		s.mockCipher.EXPECT().Decrypt(gomock.Any(), gomock.Any(), gomock.Any()).Return("", envelope.ErrDecryptionFailed)
		s.mockStore.EXPECT().TouchLastUsed(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := s.service.Reveal(s.ctx, s.owner, entry.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeDecryptionFailed))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.DecryptionFailures))
	})

	s.Run("touch failure does not hide the secret", func() {
		entry := s.storedEntry()
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockKeys.EXPECT().KeyFor(gomock.Any(), s.owner).Return("owner-key", nil)
		s.mockCipher.EXPECT().Decrypt(gomock.Any(), gomock.Any(), gomock.Any()).Return("hunter2", nil)
		s.mockStore.EXPECT().TouchLastUsed(gomock.Any(), entry.ID, s.now).Return(errors.New("db down"))

		revealed, err := s.service.Reveal(s.ctx, s.owner, entry.ID)
		s.Require().NoError(err)
		s.Equal("hunter2", revealed.Password)
		s.Nil(revealed.LastUsedAt)
	})
}

func (s *ServiceSuite) TestRevealAuditsFailure() {
	entry := s.storedEntry()
	s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
	s.mockKeys.EXPECT().KeyFor(gomock.Any(), s.owner).Return("owner-key", nil)
	s.mockCipher.EXPECT().Decrypt(gomock.Any(), gomock.Any(), gomock.Any()).Return("", envelope.ErrDecryptionFailed)

	_, err := s.service.Reveal(s.ctx, s.owner, entry.ID)
	s.Require().Error(err)
	s.Equal([]string{"REVEAL_PASSWORD:false"}, s.auditActions())
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("metadata only keeps the blob", func() {
		entry := s.storedEntry()
		username := "bob"
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockCipher.EXPECT().Encrypt(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		s.mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e *models.Entry) error {
				s.Equal("bob", e.Username)
				s.Equal("stored-blob", e.EncryptedPassword)
				s.Equal(s.now, e.UpdatedAt)
				return nil
			})

		summary, err := s.service.Update(s.ctx, s.owner, entry.ID, &models.UpdateEntryRequest{Username: &username})
		s.Require().NoError(err)
		s.Equal("bob", summary.Username)
	})

	s.Run("new password is re-encrypted", func() {
		entry := s.storedEntry()
		password := "n3w-secret"
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockKeys.EXPECT().KeyFor(gomock.Any(), s.owner).Return("owner-key", nil)
		s.mockCipher.EXPECT().Encrypt(gomock.Any(), "n3w-secret", "owner-key").Return("resealed", nil)
		s.mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e *models.Entry) error {
				s.Equal("resealed", e.EncryptedPassword)
				return nil
			})

		_, err := s.service.Update(s.ctx, s.owner, entry.ID, &models.UpdateEntryRequest{Password: &password})
		s.Require().NoError(err)
	})

	s.Run("empty request", func() {
		_, err := s.service.Update(s.ctx, s.owner, uuid.New(), &models.UpdateEntryRequest{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("another user's entry", func() {
		entry := s.storedEntry()
		notes := "mine now"
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

		_, err := s.service.Update(s.ctx, uuid.New(), entry.ID, &models.UpdateEntryRequest{Notes: &notes})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDelete() {
	s.Run("owner deletes", func() {
		entry := s.storedEntry()
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockStore.EXPECT().Delete(gomock.Any(), entry.ID).Return(nil)

		s.Require().NoError(s.service.Delete(s.ctx, s.owner, entry.ID))
		s.Contains(s.auditActions(), "DELETE_PASSWORD:true")
	})

	s.Run("stranger cannot delete", func() {
		entry := s.storedEntry()
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockStore.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		err := s.service.Delete(s.ctx, uuid.New(), entry.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure", func() {
		entry := s.storedEntry()
		s.mockStore.EXPECT().FindByID(gomock.Any(), entry.ID).Return(entry, nil)
		s.mockStore.EXPECT().Delete(gomock.Any(), entry.ID).Return(errors.New("db down"))

		err := s.service.Delete(s.ctx, s.owner, entry.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestGenerate() {
	s.Run("preset", func() {
		res, err := s.service.Generate(s.ctx, &models.GenerateRequest{Preset: "pin"})
		s.Require().NoError(err)
		s.Len(res.Password, 6)
		s.Equal("password", res.Type)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PasswordsGenerated.WithLabelValues("pin")))
	})

	s.Run("custom length override", func() {
		noSpecial := false
		res, err := s.service.Generate(s.ctx, &models.GenerateRequest{Length: 40, Special: &noSpecial})
		s.Require().NoError(err)
		s.Len(res.Password, 40)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PasswordsGenerated.WithLabelValues("custom")))
	})

	s.Run("passphrase", func() {
		res, err := s.service.Generate(s.ctx, &models.GenerateRequest{Preset: "passphrase", WordCount: 3, NoNumbers: true})
		s.Require().NoError(err)
		s.Equal("passphrase", res.Type)
		s.Equal(3, res.WordCount)
	})

	s.Run("unknown preset", func() {
		_, err := s.service.Generate(s.ctx, &models.GenerateRequest{Preset: "ultra"})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("impossible options", func() {
		_, err := s.service.Generate(s.ctx, &models.GenerateRequest{Length: 4, Preset: "maximum"})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestStrength() {
	report := s.service.Strength(s.ctx, &models.StrengthRequest{Password: "Password123!"})
	s.Equal(4, report.Strength)
	s.Equal(12, report.Length)
	s.True(report.HasSpecial)
}
