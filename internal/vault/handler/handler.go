package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vaultguard/internal/vault/models"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/httputil"
	"vaultguard/pkg/requestcontext"
)

// Service defines the vault operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req *models.CreateEntryRequest) (*models.EntrySummary, error)
	List(ctx context.Context, userID uuid.UUID) (*models.EntryList, error)
	Reveal(ctx context.Context, userID, entryID uuid.UUID) (*models.RevealedEntry, error)
	Update(ctx context.Context, userID, entryID uuid.UUID, req *models.UpdateEntryRequest) (*models.EntrySummary, error)
	Delete(ctx context.Context, userID, entryID uuid.UUID) error
	Generate(ctx context.Context, req *models.GenerateRequest) (*models.GeneratedPassword, error)
	Strength(ctx context.Context, req *models.StrengthRequest) *models.StrengthReport
}

type Handler struct {
	vault  Service
	logger *slog.Logger
}

func New(vault Service, logger *slog.Logger) *Handler {
	return &Handler{
		vault:  vault,
		logger: logger,
	}
}

// Register mounts the vault routes. They expect the auth middleware in front.
func (h *Handler) Register(r chi.Router) {
	r.Get("/passwords", h.HandleList)
	r.Post("/passwords", h.HandleCreate)
	r.Post("/passwords/generate", h.HandleGenerate)
	r.Post("/passwords/strength", h.HandleStrength)
	r.Get("/passwords/{id}", h.HandleReveal)
	r.Put("/passwords/{id}", h.HandleUpdate)
	r.Delete("/passwords/{id}", h.HandleDelete)
}

// HandleList implements GET /api/passwords. Secrets are never listed.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	res, err := h.vault.List(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "list password entries failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleCreate implements POST /api/passwords.
//
// Input: { "site_name": "...", "site_url": "...", "username": "...", "password": "...", "notes": "..." }
// Output: 201 entry summary (no password)
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CreateEntryRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.vault.Create(ctx, userID, req)
	if err != nil {
		h.logFailure(ctx, "create password entry failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// HandleReveal implements GET /api/passwords/{id} and returns the decrypted password.
func (h *Handler) HandleReveal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	entryID, ok := entryIDParam(w, r)
	if !ok {
		return
	}

	res, err := h.vault.Reveal(ctx, userID, entryID)
	if err != nil {
		h.logFailure(ctx, "reveal password entry failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleUpdate implements PUT /api/passwords/{id}. Omitted fields are unchanged.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	entryID, ok := entryIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateEntryRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.vault.Update(ctx, userID, entryID, req)
	if err != nil {
		h.logFailure(ctx, "update password entry failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleDelete implements DELETE /api/passwords/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	entryID, ok := entryIDParam(w, r)
	if !ok {
		return
	}

	if err := h.vault.Delete(ctx, userID, entryID); err != nil {
		h.logFailure(ctx, "delete password entry failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGenerate implements POST /api/passwords/generate.
//
// Input: { "preset": "strong" } or explicit options; an empty body uses the defaults.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.caller(w, r); !ok {
		return
	}

	req := &models.GenerateRequest{}
	if r.ContentLength != 0 {
		var ok bool
		if req, ok = httputil.DecodeAndPrepare[models.GenerateRequest](w, r, h.logger); !ok {
			return
		}
	}

	res, err := h.vault.Generate(ctx, req)
	if err != nil {
		h.logFailure(ctx, "generate password failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleStrength implements POST /api/passwords/strength.
func (h *Handler) HandleStrength(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.caller(w, r); !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.StrengthRequest](w, r, h.logger)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.vault.Strength(ctx, req))
}

// caller resolves the authenticated user or writes the error response.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, err := httputil.RequireAccountID(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject"))
		return uuid.Nil, false
	}
	return id, true
}

func entryIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid password entry id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	attrs := []any{
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeDecryptionFailed:
		h.logger.ErrorContext(ctx, msg, attrs...)
	default:
		h.logger.WarnContext(ctx, msg, attrs...)
	}
}
