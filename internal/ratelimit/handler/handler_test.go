package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vaultguard/internal/ratelimit/handler/mocks"
	"vaultguard/internal/ratelimit/models"
	dErrors "vaultguard/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	ctrl        *gomock.Controller
	mockService *mocks.MockService
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(s.mockService, logger)

	r := chi.NewRouter()
	h.RegisterAdmin(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestStats() {
	s.mockService.EXPECT().Stats(gomock.Any()).Return(&models.Stats{
		TotalClients:   2,
		BlockedClients: 1,
	}, nil)

	rec := s.do(http.MethodGet, "/admin/ratelimit/stats", "")

	s.Equal(http.StatusOK, rec.Code)
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.EqualValues(2, body["total_clients"])
	s.EqualValues(1, body["blocked_clients"])
}

func (s *HandlerSuite) TestResetRateLimit() {
	s.Run("empty body resets all clients", func() {
		s.mockService.EXPECT().
			ResetRateLimit(gomock.Any(), &models.ResetRateLimitRequest{}).
			Return(&models.AdminActionResponse{Status: "success", Message: "Reset all rate limits"}, nil)

		rec := s.do(http.MethodPost, "/admin/ratelimit/reset", "")

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "Reset all rate limits")
	})

	s.Run("client id is passed through", func() {
		s.mockService.EXPECT().
			ResetRateLimit(gomock.Any(), &models.ResetRateLimitRequest{ClientID: "abc"}).
			Return(&models.AdminActionResponse{Status: "success"}, nil)

		rec := s.do(http.MethodPost, "/admin/ratelimit/reset", `{"client_id":"abc"}`)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("invalid JSON", func() {
		rec := s.do(http.MethodPost, "/admin/ratelimit/reset", "not valid json")
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code, "expected 400 for invalid JSON")
	})
}

func (s *HandlerSuite) TestUnblock() {
	s.Run("validation error maps to 400", func() {
		s.mockService.EXPECT().
			Unblock(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "client_id is required"))

		rec := s.do(http.MethodPost, "/admin/ratelimit/unblock", `{}`)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "client_id is required")
	})

	s.Run("unknown fields are rejected", func() {
		rec := s.do(http.MethodPost, "/admin/ratelimit/unblock", `{"ip":"1.2.3.4"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("success", func() {
		s.mockService.EXPECT().
			Unblock(gomock.Any(), &models.UnblockRequest{ClientID: "abc"}).
			Return(&models.AdminActionResponse{Status: "success", Message: "Unblocked client abc"}, nil)

		rec := s.do(http.MethodPost, "/admin/ratelimit/unblock", `{"client_id":"abc"}`)

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "Unblocked client abc")
	})
}

func (s *HandlerSuite) TestUnlockAccount() {
	s.Run("internal error hides message", func() {
		s.mockService.EXPECT().
			UnlockAccount(gomock.Any(), &models.UnlockAccountRequest{AccountID: "acct-1"}).
			Return(nil, dErrors.New(dErrors.CodeInternal, "connection refused"))

		rec := s.do(http.MethodPost, "/admin/lockout/unlock", `{"account_id":"acct-1"}`)

		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "connection refused")
	})

	s.Run("success", func() {
		s.mockService.EXPECT().
			UnlockAccount(gomock.Any(), &models.UnlockAccountRequest{AccountID: "acct-1"}).
			Return(&models.AdminActionResponse{Status: "success"}, nil)

		rec := s.do(http.MethodPost, "/admin/lockout/unlock", `{"account_id":"acct-1"}`)
		s.Equal(http.StatusOK, rec.Code)
	})
}
