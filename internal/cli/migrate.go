package cli

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/propnest_backend/internal/platform/config"
	"github.com/SscSPs/propnest_backend/pkg/database"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(database.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(database.MigrateDown)
	},
}

func runMigrate(direction database.MigrateDirection) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StoreDriver != config.StoreDriverPgSQL {
		return fmt.Errorf("migrations need STORE_DRIVER=%s, got %q", config.StoreDriverPgSQL, cfg.StoreDriver)
	}

	changed, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction)
	if err != nil {
		return err
	}
	slog.Info("Migrations finished", slog.String("direction", string(direction)), slog.Bool("changed", changed))
	return nil
}
