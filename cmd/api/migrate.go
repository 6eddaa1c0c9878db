// AngelaMos | 2026
// migrate.go

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/barulogix/barulogix-api/internal/core"
	"github.com/barulogix/barulogix-api/migrations"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command = args[0]
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			db, err := core.NewDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits right after

			provider, err := goose.NewProvider(
				goose.DialectPostgres,
				db.DB.DB,
				migrations.EmbedMigrations,
			)
			if err != nil {
				return fmt.Errorf("create goose provider: %w", err)
			}

			return runMigration(ctx, provider, command, cmd.OutOrStdout())
		},
	}
}

func runMigration(
	ctx context.Context,
	provider *goose.Provider,
	command string,
	out io.Writer,
) error {
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(out, "applied %s (%s)\n", r.Source.Path, r.Duration)
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "database is up to date")
		}

	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "rolled back %s\n", result.Source.Path)

	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			appliedAt := "pending"
			if s.State == goose.StateApplied {
				appliedAt = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(out, "%-25s %s\n", appliedAt, s.Source.Path)
		}
	}

	return nil
}
