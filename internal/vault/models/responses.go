package models

import "time"

// EntrySummary is the list projection. It never carries the secret, encrypted or not.
type EntrySummary struct {
	ID         string     `json:"id"`
	SiteName   string     `json:"site_name"`
	SiteURL    string     `json:"site_url,omitempty"`
	Username   string     `json:"username"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

func NewEntrySummary(e *Entry) EntrySummary {
	return EntrySummary{
		ID:         e.ID.String(),
		SiteName:   e.SiteName,
		SiteURL:    e.SiteURL,
		Username:   e.Username,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		LastUsedAt: e.LastUsedAt,
	}
}

// EntryList is returned by GET /api/passwords.
type EntryList struct {
	Entries []EntrySummary `json:"entries"`
	Total   int            `json:"total"`
}

// RevealedEntry is returned by GET /api/passwords/{id} and is the only response
// that carries the plaintext password.
type RevealedEntry struct {
	EntrySummary
	Password string `json:"password"`
}

// GeneratedPassword is returned by POST /api/passwords/generate.
type GeneratedPassword struct {
	Password  string   `json:"password"`
	Type      string   `json:"type"`
	WordCount int      `json:"word_count,omitempty"`
	Strength  int      `json:"strength"`
	Entropy   float64  `json:"entropy"`
	Feedback  []string `json:"feedback"`
}

// StrengthReport is returned by POST /api/passwords/strength.
type StrengthReport struct {
	Strength     int      `json:"strength"`
	Entropy      float64  `json:"entropy"`
	Feedback     []string `json:"feedback"`
	HasLowercase bool     `json:"has_lowercase"`
	HasUppercase bool     `json:"has_uppercase"`
	HasDigits    bool     `json:"has_digits"`
	HasSpecial   bool     `json:"has_special"`
	Length       int      `json:"length"`
}
