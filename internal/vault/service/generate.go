package service

import (
	"context"

	"vaultguard/internal/vault/generator"
	"vaultguard/internal/vault/models"
	dErrors "vaultguard/pkg/domain-errors"
)

const presetPassphrase = "passphrase"

// Generate produces a password from a preset or explicit options. Nothing is stored.
func (s *Service) Generate(_ context.Context, req *models.GenerateRequest) (*models.GeneratedPassword, error) {
	if req == nil {
		req = &models.GenerateRequest{}
	}

	var (
		result *generator.Result
		err    error
		label  = req.Preset
	)
	if req.Preset == presetPassphrase {
		opts := generator.DefaultPassphraseOptions()
		if req.WordCount > 0 {
			opts.Words = req.WordCount
		}
		if req.Separator != "" {
			opts.Separator = req.Separator
		}
		opts.Numbers = !req.NoNumbers
		opts.Capitalize = !req.NoCapitalize
		result, err = generator.Passphrase(opts)
	} else {
		opts := generator.DefaultOptions()
		if req.Preset != "" {
			var ok bool
			if opts, ok = generator.PresetOptions(req.Preset); !ok {
				return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown preset")
			}
		} else {
			label = "custom"
		}
		applyOverrides(&opts, req)
		result, err = generator.Generate(opts)
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementGenerated(label)
	}
	return &models.GeneratedPassword{
		Password:  result.Password,
		Type:      result.Type,
		WordCount: result.WordCount,
		Strength:  result.Strength.Score,
		Entropy:   result.Strength.Entropy,
		Feedback:  result.Strength.Feedback,
	}, nil
}

// Strength scores a candidate password without storing it.
func (s *Service) Strength(_ context.Context, req *models.StrengthRequest) *models.StrengthReport {
	st := generator.EvaluateStrength(req.Password)
	return &models.StrengthReport{
		Strength:     st.Score,
		Entropy:      st.Entropy,
		Feedback:     st.Feedback,
		HasLowercase: st.HasLowercase,
		HasUppercase: st.HasUppercase,
		HasDigits:    st.HasDigits,
		HasSpecial:   st.HasSpecial,
		Length:       st.Length,
	}
}

func applyOverrides(opts *generator.Options, req *models.GenerateRequest) {
	if req.Length > 0 {
		opts.Length = req.Length
	}
	if req.Uppercase != nil {
		opts.Uppercase = *req.Uppercase
	}
	if req.Lowercase != nil {
		opts.Lowercase = *req.Lowercase
	}
	if req.Digits != nil {
		opts.Digits = *req.Digits
	}
	if req.Special != nil {
		opts.Special = *req.Special
	}
	if req.ExcludeAmbiguous != nil {
		opts.ExcludeAmbiguous = *req.ExcludeAmbiguous
	}
	if req.SafeSpecialOnly {
		opts.SafeSpecialOnly = true
	}
}
