// Package keysource supplies the per-user key material handed to the envelope
// cipher. Nothing here stores derived keys; material is recomputed on every call.
package keysource

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"

	dErrors "vaultguard/pkg/domain-errors"
)

// MinMasterKeyLength is the shortest master key accepted at startup.
const MinMasterKeyLength = 32

var ErrMasterKeyTooShort = errors.New("vault master key must be at least 32 bytes")

// HMACKeySource derives key material as hex(HMAC-SHA256(master, user id)), so a
// leaked database without the master key does not reveal any secret.
type HMACKeySource struct {
	master []byte
}

func NewHMAC(masterKey string) (*HMACKeySource, error) {
	if len(masterKey) < MinMasterKeyLength {
		return nil, ErrMasterKeyTooShort
	}
	return &HMACKeySource{master: []byte(masterKey)}, nil
}

// KeyFor returns the secret for userID.
func (k *HMACKeySource) KeyFor(_ context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	mac := hmac.New(sha256.New, k.master)
	mac.Write(userID[:])
	return hex.EncodeToString(mac.Sum(nil)), nil
}
