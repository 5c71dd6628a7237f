package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"vaultguard/pkg/requestcontext"
)

const testAccountID = "550e8400-e29b-41d4-a716-446655440001"

// MockJWTValidator is a testify mock for JWTValidator
type MockJWTValidator struct {
	mock.Mock
}

func (m *MockJWTValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	args := m.Called(tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(*JWTClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockHandler struct {
	called  bool
	context context.Context
}

func (m *mockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.called = true
	m.context = r.Context()
	w.WriteHeader(http.StatusOK)
}

type AuthMiddlewareTestSuite struct {
	suite.Suite
	validator   *MockJWTValidator
	nextHandler *mockHandler
	middleware  func(http.Handler) http.Handler
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	s.validator = new(MockJWTValidator)
	s.nextHandler = &mockHandler{}
	s.middleware = RequireAuth(s.validator, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *AuthMiddlewareTestSuite) serve(authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/passwords", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.middleware(s.nextHandler).ServeHTTP(w, req)
	return w
}

func (s *AuthMiddlewareTestSuite) TestValidTokenSetsAccountID() {
	s.validator.On("ValidateToken", "good").Return(&JWTClaims{AccountID: testAccountID, JTI: "j1"}, nil)

	w := s.serve("Bearer good")

	s.Equal(http.StatusOK, w.Code)
	s.True(s.nextHandler.called)
	s.Equal(testAccountID, requestcontext.AccountID(s.nextHandler.context))
	s.validator.AssertExpectations(s.T())
}

func (s *AuthMiddlewareTestSuite) TestMissingOrMalformedHeader() {
	for _, header := range []string{"", "Basic abc", "Bearer ", "bearer token"} {
		s.Run(header, func() {
			s.nextHandler.called = false
			w := s.serve(header)
			s.Equal(http.StatusUnauthorized, w.Code)
			s.False(s.nextHandler.called)
		})
	}
	s.validator.AssertNotCalled(s.T(), "ValidateToken", mock.Anything)
}

func (s *AuthMiddlewareTestSuite) TestInvalidToken() {
	s.validator.On("ValidateToken", "bad").Return(nil, errors.New("signature mismatch"))

	w := s.serve("Bearer bad")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(s.nextHandler.called)
	s.NotContains(w.Body.String(), "signature mismatch")
}

func (s *AuthMiddlewareTestSuite) TestMalformedAccountClaim() {
	s.validator.On("ValidateToken", "odd").Return(&JWTClaims{AccountID: "not-a-uuid"}, nil)

	w := s.serve("Bearer odd")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(s.nextHandler.called)
}
