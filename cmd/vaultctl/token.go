package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	jwttoken "vaultguard/internal/jwt_token"
	"vaultguard/internal/platform/config"
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresAt time.Time         `json:"expires_at"`
	Claims    map[string]any    `json:"claims"`
	Usage     map[string]string `json:"usage"`
}

// newTokenCmd signs an access token with the configured JWT key. Outside development
// the key is whatever JWT_SIGNING_KEY holds, so treat the output as a real credential.
func newTokenCmd() *cobra.Command {
	var (
		accountID  string
		email      string
		ttl        time.Duration
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an access token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			if accountID == "" {
				accountID = uuid.NewString()
			} else if _, err := uuid.Parse(accountID); err != nil {
				return fmt.Errorf("invalid --account-id: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}

			svc := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience, ttl)
			svc.SetEnv(cfg.Environment)
			token, expiresAt, err := svc.GenerateAccessToken(cmd.Context(), accountID, email)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tokenOutput{
					Token:     token,
					Type:      "Bearer",
					ExpiresAt: expiresAt,
					Claims: map[string]any{
						"sub":   accountID,
						"email": email,
						"iss":   cfg.JWTIssuer,
						"aud":   cfg.JWTAudience,
					},
					Usage: map[string]string{
						"header": "Authorization: Bearer <token>",
					},
				})
			}

			fmt.Fprintln(out, "Access Token (JWT)")
			fmt.Fprintln(out, "==================")
			fmt.Fprintf(out, "Account ID:  %s\n", accountID)
			fmt.Fprintf(out, "Environment: %s\n", cfg.Environment)
			fmt.Fprintf(out, "Expires At:  %s\n", expiresAt.Format(time.RFC3339))
			fmt.Fprintln(out)
			fmt.Fprintln(out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account-id", "", "account id (UUID), generated if empty")
	cmd.Flags().StringVar(&email, "email", "dev@example.com", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
