package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vaultguard/internal/vault/keysource"
	"vaultguard/pkg/crypto/envelope"
)

func newEncryptCmd(masterKey func() string) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "encrypt [plaintext]",
		Short: "Seal a secret for an account, reading stdin when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := accountSecret(cmd, masterKey(), userID)
			if err != nil {
				return err
			}
			plaintext, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}

			blob, err := envelope.Encrypt(plaintext, secret)
			if err != nil {
				return fmt.Errorf("encrypt: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), blob)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owning account id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newDecryptCmd(masterKey func() string) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "decrypt [blob]",
		Short: "Open a sealed secret for an account, reading stdin when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := accountSecret(cmd, masterKey(), userID)
			if err != nil {
				return err
			}
			blob, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}

			plaintext, err := envelope.Decrypt(strings.TrimSpace(blob), secret)
			if err != nil {
				return fmt.Errorf("decrypt: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), plaintext)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owning account id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// accountSecret derives the per-account key material the server would use.
func accountSecret(cmd *cobra.Command, masterKey, rawUserID string) (string, error) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return "", fmt.Errorf("invalid --user: %w", err)
	}
	keys, err := keysource.NewHMAC(masterKey)
	if err != nil {
		return "", err
	}
	return keys.KeyFor(cmd.Context(), userID)
}

func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
