// Package cli implements the uamctl operator commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/config"
	"github.com/carnage999-max/ultimate-app-manager/internal/observability"
	"github.com/carnage999-max/ultimate-app-manager/internal/persistence"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
)

// NewRootCmd builds the uamctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "uamctl",
		Short:         "Ultimate Apartment Manager operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(MigrateCmd(), SeedCmd())
	return root
}

// MigrateCmd applies the embedded SQL migrations.
func MigrateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				names, err := persistence.MigrationNames()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			return withDatabase(cmd.Context(), func(_ *config.Config, pg *persistence.Postgres, logger *zap.Logger) error {
				applied, err := persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "print embedded migrations without connecting")
	return cmd
}

// SeedCmd upserts the bootstrap admin and reviewer accounts.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "seed [admin|reviewer|both]",
		Short:     "Create or reset the admin and reviewer accounts",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(SeedAdmin), string(SeedReviewer), string(SeedBoth)},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			mode, err := ParseSeedMode(raw)
			if err != nil {
				return err
			}
			return withDatabase(cmd.Context(), func(cfg *config.Config, pg *persistence.Postgres, _ *zap.Logger) error {
				pool := pg.PoolHandle()
				seeder := NewSeeder(repository.NewUserRepository(pool), repository.NewLeaseRepository(pool), cfg.Auth.BcryptCost)
				accounts, err := seeder.Seed(cmd.Context(), mode, cfg.Seed)
				if err != nil {
					return err
				}
				PrintAccounts(cmd, accounts)
				return nil
			})
		},
	}
}

// PrintAccounts writes the seeded credentials for the operator.
func PrintAccounts(cmd *cobra.Command, accounts []SeededAccount) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Seed complete. Credentials to use:")
	for _, a := range accounts {
		state := "updated"
		if a.Created {
			state = "created"
		}
		fmt.Fprintf(out, " - %s: %s / %s (%s)\n", a.Role, a.Email, a.Password, state)
	}
	fmt.Fprintln(out, "Change these passwords after first use.")
}

func withDatabase(ctx context.Context, fn func(*config.Config, *persistence.Postgres, *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	return fn(cfg, pg, logger)
}
