// AngelaMos | 2026
// accounts.go

package main

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/barulogix/barulogix-api/internal/auth"
	"github.com/barulogix/barulogix-api/internal/core"
	"github.com/barulogix/barulogix-api/internal/user"
)

const adminPasswordEnv = "BARULOGIX_ADMIN_PASSWORD"

// newCreateAdminCmd bootstraps the first administrator. Self-registered
// accounts start pending, so someone has to be able to activate them.
func newCreateAdminCmd(load configLoader) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active administrator account",
		Long: "Create an active administrator account. The password is read from " +
			adminPasswordEnv + ".",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := os.Getenv(adminPasswordEnv)
			if utf8.RuneCountInString(password) < 8 ||
				!core.PasswordHasLettersAndDigits(password) {
				return fmt.Errorf(
					"%s must hold at least 8 characters with letters and digits",
					adminPasswordEnv,
				)
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

			hash, err := core.HashPassword(password)
			if err != nil {
				return err
			}

			admin, err := user.NewService(user.NewRepository(db.DB)).
				CreateAdmin(ctx, email, hash, name)
			if errors.Is(err, core.ErrDuplicateKey) {
				return fmt.Errorf("an account for %s already exists", email)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newCleanupCmd(load configLoader) *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete refresh tokens that expired before the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			jwtManager, err := auth.NewJWTManager(cfg.JWT)
			if err != nil {
				return err
			}

			svc := auth.NewService(auth.NewRepository(db.DB), jwtManager, nil, nil)

			n, err := svc.PurgeExpiredTokens(ctx, retention)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired refresh tokens\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&retention, "retention", 7*24*time.Hour, "keep tokens expired for less than this")

	return cmd
}
