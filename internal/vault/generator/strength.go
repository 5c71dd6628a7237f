package generator

import (
	"math"
	"strings"
	"unicode/utf8"
)

var commonPasswords = map[string]struct{}{
	"password": {}, "123456": {}, "123456789": {}, "qwerty": {}, "abc123": {},
	"password123": {}, "admin": {}, "letmein": {}, "welcome": {}, "monkey": {},
	"dragon": {}, "master": {}, "shadow": {}, "azerty": {}, "motdepasse": {},
}

var sequences = []string{"abc", "bcd", "cde", "123", "234", "345", "qwe", "wer", "ert"}

// Strength scores a password from 1 (weak) to 5 (strong). An empty password
// scores 0.
type Strength struct {
	Score        int
	Entropy      float64
	Feedback     []string
	HasLowercase bool
	HasUppercase bool
	HasDigits    bool
	HasSpecial   bool
	Length       int
}

// EvaluateStrength applies length, character-class, common-password, repetition
// and sequence rules. Entropy is length * log2(alphabet size), rounded to one
// decimal, with 32 symbols assumed for the special class.
func EvaluateStrength(password string) Strength {
	if password == "" {
		return Strength{Feedback: []string{"Password is empty"}}
	}

	s := Strength{Length: utf8.RuneCountInString(password), Feedback: []string{}}
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			s.HasLowercase = true
		case r >= 'A' && r <= 'Z':
			s.HasUppercase = true
		case r >= '0' && r <= '9':
			s.HasDigits = true
		default:
			s.HasSpecial = true
		}
	}

	alphabet := 0
	classes := 0
	if s.HasLowercase {
		alphabet += 26
		classes++
	}
	if s.HasUppercase {
		alphabet += 26
		classes++
	}
	if s.HasDigits {
		alphabet += 10
		classes++
	}
	if s.HasSpecial {
		alphabet += 32
		classes++
	}
	entropy := float64(s.Length) * math.Log2(float64(alphabet))
	s.Entropy = math.Round(entropy*10) / 10

	score := 1
	if s.Length >= 8 {
		score++
		if s.Length >= 12 {
			score++
		}
	} else {
		s.Feedback = append(s.Feedback, "Use at least 8 characters")
	}

	if classes >= 3 {
		score++
		if classes == 4 {
			score++
		}
	} else {
		s.Feedback = append(s.Feedback, "Mix upper and lower case letters, digits and symbols")
	}

	if isCommon(password) {
		score = max(1, score-2)
		s.Feedback = append(s.Feedback, "Avoid common passwords")
	}
	if hasRun(password, 3) {
		score = max(1, score-1)
		s.Feedback = append(s.Feedback, "Avoid repeated characters")
	}
	if hasSequence(password) {
		score = max(1, score-1)
		s.Feedback = append(s.Feedback, "Avoid sequences")
	}

	switch {
	case entropy < 30:
		s.Feedback = append(s.Feedback, "Password is too predictable")
	case entropy >= 60 && len(s.Feedback) == 0:
		s.Feedback = append(s.Feedback, "Excellent password")
	}

	s.Score = min(5, max(1, score))
	return s
}

func isCommon(password string) bool {
	_, ok := commonPasswords[strings.ToLower(password)]
	return ok
}

// hasRun reports n or more identical consecutive characters.
func hasRun(password string, n int) bool {
	var prev rune
	run := 0
	for i, r := range password {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

func hasSequence(password string) bool {
	lower := strings.ToLower(password)
	for _, seq := range sequences {
		if strings.Contains(lower, seq) {
			return true
		}
	}
	return false
}
