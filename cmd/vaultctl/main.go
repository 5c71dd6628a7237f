// Command vaultctl is the operator CLI: offline envelope encryption, password
// generation, development tokens, schema migrations and audit inspection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vaultguard/internal/platform/config"
)

func newRootCmd() *cobra.Command {
	var masterKey string

	root := &cobra.Command{
		Use:   "vaultctl",
		Short: "Operator tooling for the vaultguard password vault",
		Long: `vaultctl works against the same key material and database as the server.

Key material comes from --master-key or VAULT_MASTER_KEY. Database commands
read DATABASE_URL.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&masterKey, "master-key", "", "vault master key (defaults to VAULT_MASTER_KEY)")

	resolveMasterKey := func() string {
		if masterKey != "" {
			return masterKey
		}
		return config.FromEnv().VaultMasterKey
	}

	root.AddCommand(
		newEncryptCmd(resolveMasterKey),
		newDecryptCmd(resolveMasterKey),
		newGenerateCmd(),
		newStrengthCmd(),
		newTokenCmd(),
		newMigrateCmd(),
		newAuditCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
