package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"vaultguard/internal/platform/config"
	"vaultguard/internal/platform/database"
	"vaultguard/pkg/platform/audit"
	auditpostgres "vaultguard/pkg/platform/audit/store/postgres"
)

// openDatabase connects without running migrations so `migrate status` reports the
// schema as found.
func openDatabase(ctx context.Context) (*database.Pool, error) {
	cfg := config.FromEnv().Database
	cfg.AutoMigrate = false

	pool, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errors.New("DATABASE_URL is required")
	}
	return pool, nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close() //nolint:errcheck // command is exiting

			if err := database.Migrate(cmd.Context(), pool.DB()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close() //nolint:errcheck // command is exiting

			return database.MigrationStatus(cmd.Context(), pool.DB())
		},
	})

	return cmd
}

func newAuditCmd() *cobra.Command {
	var (
		limit     int
		accountID string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recent audit events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer pool.Close() //nolint:errcheck // command is exiting

			store := auditpostgres.New(pool.DB())
			var events []audit.Event
			if accountID != "" {
				events, err = store.ListByAccount(ctx, accountID)
			} else {
				events, err = store.ListRecent(ctx, limit)
			}
			if err != nil {
				return fmt.Errorf("list audit events: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tACTION\tACCOUNT\tOK\tIP\tDEVICE\tDETAIL")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\t%s\n",
					e.Timestamp.Format(time.RFC3339), e.Action, e.AccountID, e.Success, e.IP, e.Device, e.Detail)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum events to list")
	cmd.Flags().StringVar(&accountID, "account", "", "only events for this account id")
	return cmd
}
