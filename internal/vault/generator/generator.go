// Package generator produces random passwords and passphrases and scores
// candidate passwords. All randomness comes from crypto/rand.
package generator

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	dErrors "vaultguard/pkg/domain-errors"
)

const (
	lowercase   = "abcdefghijklmnopqrstuvwxyz"
	uppercase   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits      = "0123456789"
	special     = "!@#$%^&*()_+-=[]{}|;':\",./<>?"
	safeSpecial = "!@#$%^&*_+-="
	ambiguous   = "0O1lI"

	MinLength = 4
	MaxLength = 128

	MinWords = 3
	MaxWords = 8
)

// Result types.
const (
	TypePassword   = "password"
	TypePassphrase = "passphrase"
)

// Options controls Generate. Minimum counts apply only to enabled classes.
type Options struct {
	Length           int
	Uppercase        bool
	Lowercase        bool
	Digits           bool
	Special          bool
	ExcludeAmbiguous bool
	SafeSpecialOnly  bool
	MinUppercase     int
	MinLowercase     int
	MinDigits        int
	MinSpecial       int
}

// DefaultOptions is a 16 character password using every class.
func DefaultOptions() Options {
	return Options{
		Length:           16,
		Uppercase:        true,
		Lowercase:        true,
		Digits:           true,
		Special:          true,
		ExcludeAmbiguous: true,
		MinUppercase:     1,
		MinLowercase:     1,
		MinDigits:        1,
		MinSpecial:       1,
	}
}

// Result is a generated secret with its strength report.
type Result struct {
	Password  string
	Type      string
	WordCount int
	Strength  Strength
}

// Generate builds a password that satisfies opts and is not a common password.
func Generate(opts Options) (*Result, error) {
	if opts.Length < MinLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("length must be at least %d", MinLength))
	}
	if opts.Length > MaxLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("length must be at most %d", MaxLength))
	}

	type class struct {
		enabled bool
		chars   string
		min     int
	}
	specials := special
	if opts.SafeSpecialOnly {
		specials = safeSpecial
	}
	classes := []class{
		{opts.Lowercase, stripAmbiguous(lowercase, opts.ExcludeAmbiguous), opts.MinLowercase},
		{opts.Uppercase, stripAmbiguous(uppercase, opts.ExcludeAmbiguous), opts.MinUppercase},
		{opts.Digits, stripAmbiguous(digits, opts.ExcludeAmbiguous), opts.MinDigits},
		{opts.Special, specials, opts.MinSpecial},
	}

	var alphabet strings.Builder
	required := 0
	for _, c := range classes {
		if !c.enabled {
			continue
		}
		alphabet.WriteString(c.chars)
		if c.min > 0 {
			required += c.min
		}
	}
	if alphabet.Len() == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one character class must be enabled")
	}
	if required > opts.Length {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("minimum character counts (%d) exceed the requested length (%d)", required, opts.Length))
	}

	for {
		out := make([]byte, 0, opts.Length)
		for _, c := range classes {
			if !c.enabled {
				continue
			}
			for i := 0; i < c.min; i++ {
				b, err := pick(c.chars)
				if err != nil {
					return nil, err
				}
				out = append(out, b)
			}
		}
		all := alphabet.String()
		for len(out) < opts.Length {
			b, err := pick(all)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
		if err := shuffle(out); err != nil {
			return nil, err
		}

		password := string(out)
		if isCommon(password) {
			continue
		}
		return &Result{
			Password: password,
			Type:     TypePassword,
			Strength: EvaluateStrength(password),
		}, nil
	}
}

// PassphraseOptions controls Passphrase.
type PassphraseOptions struct {
	Words      int
	Separator  string
	Numbers    bool
	Capitalize bool
}

func DefaultPassphraseOptions() PassphraseOptions {
	return PassphraseOptions{Words: 4, Separator: "-", Numbers: true, Capitalize: true}
}

var wordList = []string{
	"ocean", "mountain", "forest", "river", "cloud", "storm", "lightning", "thunder",
	"crystal", "diamond", "golden", "silver", "bronze", "copper", "steel", "iron",
	"dragon", "phoenix", "eagle", "lion", "tiger", "wolf", "bear", "falcon",
	"castle", "tower", "bridge", "garden", "rainbow", "sunrise", "sunset", "moonlight",
	"whisper", "shadow", "mystery", "secret", "magic", "wonder", "dream", "vision",
	"journey", "adventure", "quest", "treasure", "legend", "story", "tale", "myth",
}

// Passphrase joins random words. With Numbers set, a number either replaces one
// word or is appended, with equal probability.
func Passphrase(opts PassphraseOptions) (*Result, error) {
	if opts.Words < MinWords || opts.Words > MaxWords {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("word count must be between %d and %d", MinWords, MaxWords))
	}

	words := make([]string, 0, opts.Words+1)
	for i := 0; i < opts.Words; i++ {
		n, err := randIntn(len(wordList))
		if err != nil {
			return nil, err
		}
		w := wordList[n]
		if opts.Capitalize {
			w = strings.ToUpper(w[:1]) + w[1:]
		}
		words = append(words, w)
	}

	if opts.Numbers {
		replace, err := randIntn(2)
		if err != nil {
			return nil, err
		}
		if replace == 1 {
			idx, err := randIntn(len(words))
			if err != nil {
				return nil, err
			}
			n, err := randIntn(9999)
			if err != nil {
				return nil, err
			}
			words[idx] = strconv.Itoa(n + 1)
		} else {
			n, err := randIntn(999)
			if err != nil {
				return nil, err
			}
			words = append(words, strconv.Itoa(n+1))
		}
	}

	phrase := strings.Join(words, opts.Separator)
	return &Result{
		Password:  phrase,
		Type:      TypePassphrase,
		WordCount: len(words),
		Strength:  EvaluateStrength(phrase),
	}, nil
}

func stripAmbiguous(chars string, exclude bool) string {
	if !exclude {
		return chars
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(ambiguous, r) {
			return -1
		}
		return r
	}, chars)
}

func pick(chars string) (byte, error) {
	n, err := randIntn(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[n], nil
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randIntn(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func randIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read random bytes")
	}
	return int(v.Int64()), nil
}
