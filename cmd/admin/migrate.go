package main

import (
	"fmt"
	"strconv"

	"skillswap/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run schema operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.RunMigrations(cmd.Context(), app.db); err != nil {
				return fmt.Errorf("sql migrations failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sql migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down <version>",
		Short: "Revert one applied migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			if err := database.RollbackMigration(cmd.Context(), app.db, version); err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back migration %d\n", version)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the schema policy and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := database.GetSchemaStatus(cmd.Context(), app.db, app.cfg)
			if err != nil {
				return fmt.Errorf("schema status failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode=%s env=%s dialect=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
				status.Mode, status.Environment, status.Dialect, status.WillRunSQL, status.WillRunAutoMigrate,
				len(status.AppliedVersions), len(status.PendingMigrations))
			for _, m := range status.PendingMigrations {
				fmt.Fprintf(out, "pending: %s\n", m.String())
			}
			return nil
		},
	})

	return cmd
}
