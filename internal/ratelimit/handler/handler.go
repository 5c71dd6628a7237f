package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaultguard/internal/ratelimit/models"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/httputil"
	"vaultguard/pkg/requestcontext"
)

type Service interface {
	ResetRateLimit(ctx context.Context, req *models.ResetRateLimitRequest) (*models.AdminActionResponse, error)
	Unblock(ctx context.Context, req *models.UnblockRequest) (*models.AdminActionResponse, error)
	UnlockAccount(ctx context.Context, req *models.UnlockAccountRequest) (*models.AdminActionResponse, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/ratelimit/stats", h.HandleStats)
	r.Post("/admin/ratelimit/reset", h.HandleResetRateLimit)
	r.Post("/admin/ratelimit/unblock", h.HandleUnblock)
	r.Post("/admin/lockout/unlock", h.HandleUnlockAccount)
}

// HandleStats implements GET /admin/ratelimit/stats.
//
// Output: { "total_clients": 3, "blocked_clients": 1, "policies": {...} }
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect rate limit stats",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleResetRateLimit implements POST /admin/ratelimit/reset.
// An empty body, or one without client_id, resets every client.
//
// Input: { "client_id": "3f9a..." }
// Output: { "status": "success", "message": "..." }
func (h *Handler) HandleResetRateLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req models.ResetRateLimitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "failed to decode reset rate limit request",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.ResetRateLimit(ctx, &req)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reset rate limit",
			"error", err,
			"client_id", req.ClientID,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleUnblock implements POST /admin/ratelimit/unblock.
//
// Input: { "client_id": "3f9a..." }
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[models.UnblockRequest](w, r, h.logger)
	if !ok {
		return
	}

	resp, err := h.service.Unblock(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to unblock client",
			"error", err,
			"client_id", req.ClientID,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleUnlockAccount implements POST /admin/lockout/unlock.
//
// Input: { "account_id": "..." }
func (h *Handler) HandleUnlockAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[models.UnlockAccountRequest](w, r, h.logger)
	if !ok {
		return
	}

	resp, err := h.service.UnlockAccount(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to unlock account",
			"error", err,
			"account_id", req.AccountID,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
