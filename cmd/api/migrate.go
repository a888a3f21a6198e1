package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/spec-kit/vetclinic-service/internal/config"
	"github.com/spec-kit/vetclinic-service/internal/persistence"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, m *persistence.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: withMigrator(func(cmd *cobra.Command, m *persistence.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: withMigrator(func(cmd *cobra.Command, m *persistence.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("version=%d dirty=%t\n", version, dirty)
				return nil
			}),
		},
	)
	return cmd
}

func withMigrator(run func(cmd *cobra.Command, m *persistence.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if err := requirePostgres(cfg); err != nil {
			return err
		}

		m, err := persistence.NewMigrator(cfg.Postgres.DSN, logger)
		if err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "open migrator").Wrap(err)
		}
		defer m.Close() //nolint:errcheck

		return run(cmd, m)
	}
}

func requirePostgres(cfg *config.Config) error {
	if cfg.Storage.Driver != config.DriverPostgres {
		return oops.Code("CONFIG_INVALID").
			With("driver", cfg.Storage.Driver).
			Errorf("migrations only apply to STORAGE_DRIVER=postgres")
	}
	return nil
}
