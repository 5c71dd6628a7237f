package models

import (
	"strings"

	dErrors "vaultguard/pkg/domain-errors"
)

// ResetRateLimitRequest resets one client, or every client when ClientID is empty.
type ResetRateLimitRequest struct {
	ClientID string `json:"client_id"`
}

func (r *ResetRateLimitRequest) Normalize() {
	if r == nil {
		return
	}
	r.ClientID = strings.TrimSpace(r.ClientID)
}

func (r *ResetRateLimitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.ClientID) > 64 {
		return dErrors.New(dErrors.CodeValidation, "client_id must be 64 characters or less")
	}
	return nil
}

type UnblockRequest struct {
	ClientID string `json:"client_id"`
}

func (r *UnblockRequest) Normalize() {
	if r == nil {
		return
	}
	r.ClientID = strings.TrimSpace(r.ClientID)
}

func (r *UnblockRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.ClientID == "" {
		return dErrors.New(dErrors.CodeValidation, "client_id is required")
	}
	if len(r.ClientID) > 64 {
		return dErrors.New(dErrors.CodeValidation, "client_id must be 64 characters or less")
	}
	return nil
}

type UnlockAccountRequest struct {
	AccountID string `json:"account_id"`
}

func (r *UnlockAccountRequest) Normalize() {
	if r == nil {
		return
	}
	r.AccountID = strings.TrimSpace(r.AccountID)
}

func (r *UnlockAccountRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.AccountID == "" {
		return dErrors.New(dErrors.CodeValidation, "account_id is required")
	}
	return nil
}
