// Package kdf stretches low-entropy secret material into AES-256 keys.
package kdf

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	dErrors "vaultguard/pkg/domain-errors"
)

const (
	SaltSize   = 32      // bytes
	KeySize    = 32      // AES-256
	Iterations = 100_000 // PBKDF2-HMAC-SHA256 rounds
)

var (
	ErrEmptySecret = dErrors.New(dErrors.CodeInvalidInput, "key material cannot be empty")
	ErrSaltSize    = dErrors.New(dErrors.CodeInvalidInput, "salt must be 32 bytes")
)

// Derive returns the 32-byte key for (secret, salt). The same inputs always
// produce the same key. Safe for concurrent use.
func Derive(secret string, salt []byte) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(salt) != SaltSize {
		return nil, ErrSaltSize
	}
	return pbkdf2.Key([]byte(secret), salt, Iterations, KeySize, sha256.New), nil
}

// Zero overwrites key material once a cipher operation is done with it.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
