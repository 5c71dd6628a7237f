package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vaultguard/internal/auth/models"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/httputil"
	"vaultguard/pkg/requestcontext"
)

// Service defines the account operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResult, error)
	Profile(ctx context.Context, accountID uuid.UUID) (*models.ProfileResult, error)
}

// Handler serves registration, login and the caller's profile.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{
		auth:   auth,
		logger: logger,
	}
}

// Register mounts the public routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/login", h.HandleLogin)
}

// RegisterProtected mounts routes that expect the auth middleware in front of them.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/users/profile", h.HandleProfile)
}

// HandleRegister implements POST /api/auth/register.
//
// Input: { "email": "user@example.com", "password": "..." }
// Output: 201 { "access_token": "...", "token_type": "Bearer", "expires_in": 900, "user": {...} }
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.auth.Register(ctx, req)
	if err != nil {
		h.logFailure(ctx, "registration failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// HandleLogin implements POST /api/auth/login. Unknown email, wrong password and a
// disabled account all answer 401 invalid_credentials; a locked account answers 429.
//
// Input: { "email": "user@example.com", "password": "..." }
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.auth.Login(ctx, req)
	if err != nil {
		h.logFailure(ctx, "login failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleProfile implements GET /api/users/profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, err := httputil.RequireAccountID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	accountID, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject"))
		return
	}

	res, err := h.auth.Profile(ctx, accountID)
	if err != nil {
		h.logFailure(ctx, "profile lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// logFailure logs expected client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	attrs := []any{
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, msg, attrs...)
	default:
		h.logger.WarnContext(ctx, msg, attrs...)
	}
}
