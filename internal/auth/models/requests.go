package models

import (
	"strings"
	"unicode"

	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/validation"
)

// MinPasswordLength is the shortest account password accepted at registration.
const MinPasswordLength = 8

// passwordSpecials are the characters that satisfy the special-character rule.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = NormalizeEmail(r.Email)
}

// Validate checks field shape, then the password composition rules.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	return CheckPasswordPolicy(r.Password)
}

// CheckPasswordPolicy requires upper and lower case letters, a digit and a special
// character. The first missing class is reported.
func CheckPasswordPolicy(password string) error {
	if len(password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters long")
	}
	var upper, lower, digit, special bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		}
	}
	switch {
	case !upper:
		return dErrors.New(dErrors.CodeValidation, "password must contain at least one uppercase letter")
	case !lower:
		return dErrors.New(dErrors.CodeValidation, "password must contain at least one lowercase letter")
	case !digit:
		return dErrors.New(dErrors.CodeValidation, "password must contain at least one digit")
	case !special:
		return dErrors.New(dErrors.CodeValidation, "password must contain at least one special character")
	}
	return nil
}

// LoginRequest is the body of POST /api/auth/login. Password shape is not checked
// beyond presence so a wrong password and a malformed one look the same.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
}

func (r *LoginRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}
