package models

import (
	"strings"

	"vaultguard/pkg/validation"
)

// CreateEntryRequest stores a new credential. Password is plaintext on the wire only.
type CreateEntryRequest struct {
	SiteName string `json:"site_name" validate:"required,notblank,max=200"`
	SiteURL  string `json:"site_url" validate:"omitempty,max=500"`
	Username string `json:"username" validate:"required,notblank,max=200"`
	Password string `json:"password" validate:"required,max=1024"`
	Notes    string `json:"notes" validate:"max=2000"`
}

func (r *CreateEntryRequest) Normalize() {
	if r == nil {
		return
	}
	r.SiteName = strings.TrimSpace(r.SiteName)
	r.SiteURL = strings.TrimSpace(r.SiteURL)
	r.Username = strings.TrimSpace(r.Username)
}

func (r *CreateEntryRequest) Validate() error {
	return validation.Validate(r)
}

// UpdateEntryRequest patches an entry. Nil fields are left as they are; a non-nil
// Password re-encrypts the secret.
type UpdateEntryRequest struct {
	SiteName *string `json:"site_name" validate:"omitempty,notblank,max=200"`
	SiteURL  *string `json:"site_url" validate:"omitempty,max=500"`
	Username *string `json:"username" validate:"omitempty,notblank,max=200"`
	Password *string `json:"password" validate:"omitempty,min=1,max=1024"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *UpdateEntryRequest) Normalize() {
	if r == nil {
		return
	}
	trim(r.SiteName)
	trim(r.SiteURL)
	trim(r.Username)
}

func (r *UpdateEntryRequest) Validate() error {
	return validation.Validate(r)
}

// Empty reports whether the request changes nothing.
func (r *UpdateEntryRequest) Empty() bool {
	return r.SiteName == nil && r.SiteURL == nil && r.Username == nil && r.Password == nil && r.Notes == nil
}

// GenerateRequest asks for a random password or, with Preset "passphrase", a word
// based one. Zero values fall back to the generator defaults.
type GenerateRequest struct {
	Preset           string `json:"preset" validate:"omitempty,oneof=weak medium strong maximum pin passphrase"`
	Length           int    `json:"length" validate:"omitempty,min=4,max=128"`
	Uppercase        *bool  `json:"include_uppercase"`
	Lowercase        *bool  `json:"include_lowercase"`
	Digits           *bool  `json:"include_digits"`
	Special          *bool  `json:"include_special"`
	ExcludeAmbiguous *bool  `json:"exclude_ambiguous"`
	SafeSpecialOnly  bool   `json:"safe_special_only"`
	WordCount        int    `json:"word_count" validate:"omitempty,min=3,max=8"`
	Separator        string `json:"separator" validate:"max=3"`
	NoNumbers        bool   `json:"no_numbers"`
	NoCapitalize     bool   `json:"no_capitalize"`
}

func (r *GenerateRequest) Normalize() {
	if r == nil {
		return
	}
	r.Preset = strings.ToLower(strings.TrimSpace(r.Preset))
}

func (r *GenerateRequest) Validate() error {
	return validation.Validate(r)
}

// StrengthRequest evaluates a candidate password without storing it.
type StrengthRequest struct {
	Password string `json:"password" validate:"required,max=1024"`
}

func (r *StrengthRequest) Validate() error {
	return validation.Validate(r)
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
