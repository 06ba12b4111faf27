// Package cli wires the propnest_backend commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/core/services"
	"github.com/SscSPs/propnest_backend/internal/platform/config"
	"github.com/SscSPs/propnest_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/propnest_backend/internal/repositories/memory"
	"github.com/SscSPs/propnest_backend/internal/utils"
	"github.com/SscSPs/propnest_backend/pkg/database"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "propnest_backend",
	Short: "PropNest points ledger and rewards backend",
	Long: `PropNest backend: tenants and landlords earn points for marketplace
actions and spend them on rewards. Run "serve" to start the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every command needs after start-up.
type app struct {
	cfg      *config.Config
	repos    portsrepo.RepositoryProvider
	services *portssvc.ServiceContainer
	posthog  *utils.PosthogClientWrapper
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// bootstrap loads config and builds repositories and services for the configured store.
// Migrations run only when migrate is set and the store is Postgres.
func bootstrap(ctx context.Context, migrate bool) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a := &app{cfg: cfg}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn("Using in-memory store; data is lost on exit")
		a.repos = memory.NewStore().Provider()
	default:
		if migrate {
			changed, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp)
			if err != nil {
				return nil, err
			}
			if changed {
				slog.Info("Database migrations applied successfully.")
			} else {
				slog.Info("No new migrations to apply.")
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(pool) })
		a.repos = pgsql.NewRepositoryProvider(pool)
	}

	a.posthog = utils.InitializePosthogClient(cfg.PosthogAPIKey, slog.Default())
	a.closers = append(a.closers, a.posthog.Close)

	a.services, err = services.NewServiceContainer(cfg, a.repos, a.posthog)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}
