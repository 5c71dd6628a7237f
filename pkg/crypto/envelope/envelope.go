// Package envelope seals a single secret string into a self-describing blob.
//
// Blob layout (before base64):
//
//	[0:32]  salt        PBKDF2 salt, fresh per Encrypt
//	[32:48] nonce       AES-GCM nonce, fresh per Encrypt
//	[48:64] tag         GCM authentication tag
//	[64:]   ciphertext
//
// Decryption needs nothing but the blob and the caller's key material.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"vaultguard/pkg/crypto/kdf"
	dErrors "vaultguard/pkg/domain-errors"
)

const (
	SaltSize  = kdf.SaltSize
	NonceSize = 16
	TagSize   = 16
	// HeaderSize is the smallest well-formed decoded blob.
	HeaderSize = SaltSize + NonceSize + TagSize
)

var (
	// ErrDecryptionFailed covers malformed blobs, wrong key material and tampering alike.
	ErrDecryptionFailed = dErrors.New(dErrors.CodeDecryptionFailed, "decryption failed")
	ErrEmptyPlaintext   = dErrors.New(dErrors.CodeInvalidInput, "plaintext cannot be empty")
)

// Blob is the parsed form of an encrypted secret. Fields alias the decoded buffer.
type Blob struct {
	Salt       []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// ParseBlob splits a base64 blob at the fixed offsets.
func ParseBlob(encoded string) (*Blob, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < HeaderSize {
		return nil, ErrDecryptionFailed
	}
	return &Blob{
		Salt:       raw[:SaltSize],
		Nonce:      raw[SaltSize : SaltSize+NonceSize],
		Tag:        raw[SaltSize+NonceSize : HeaderSize],
		Ciphertext: raw[HeaderSize:],
	}, nil
}

// Encode serializes the blob as base64(salt‖nonce‖tag‖ciphertext).
func (b *Blob) Encode() string {
	raw := make([]byte, 0, HeaderSize+len(b.Ciphertext))
	raw = append(raw, b.Salt...)
	raw = append(raw, b.Nonce...)
	raw = append(raw, b.Tag...)
	raw = append(raw, b.Ciphertext...)
	return base64.StdEncoding.EncodeToString(raw)
}

// Encrypt seals plaintext under a key derived from secret and a fresh salt.
// Two calls with the same arguments never return the same blob.
func Encrypt(plaintext, secret string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPlaintext
	}
	if secret == "" {
		return "", kdf.ErrEmptySecret
	}

	salt, err := randomBytes(SaltSize)
	if err != nil {
		return "", err
	}
	nonce, err := randomBytes(NonceSize)
	if err != nil {
		return "", err
	}

	key, err := kdf.Derive(secret, salt)
	if err != nil {
		return "", err
	}
	defer kdf.Zero(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to initialize cipher")
	}

	// Seal appends the tag after the ciphertext; the blob stores it in front.
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(sealed) - TagSize
	blob := &Blob{
		Salt:       salt,
		Nonce:      nonce,
		Tag:        sealed[split:],
		Ciphertext: sealed[:split],
	}
	return blob.Encode(), nil
}

// Decrypt opens a blob produced by Encrypt. Every failure past input validation is
// reported as ErrDecryptionFailed so callers cannot tell which stage rejected the blob.
func Decrypt(encoded, secret string) (string, error) {
	if secret == "" {
		return "", kdf.ErrEmptySecret
	}

	blob, err := ParseBlob(encoded)
	if err != nil {
		return "", err
	}

	key, err := kdf.Derive(secret, blob.Salt)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	defer kdf.Zero(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(blob.Ciphertext)+TagSize)
	sealed = append(sealed, blob.Ciphertext...)
	sealed = append(sealed, blob.Tag...)

	plaintext, err := aead.Open(nil, blob.Nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read random bytes")
	}
	return b, nil
}
