// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/store"
)

// NewMigrateCmd creates the migrate subcommand with its actions.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, and inspect database schema migrations.`,
	}

	cmd.PersistentFlags().String("database.url", "", "PostgreSQL connection URL")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, _ []string, m *store.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: withMigrator(func(cmd *cobra.Command, _ []string, m *store.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations (negative rolls back)",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, args []string, m *store.Migrator) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_ARGUMENT").Wrapf(err, "steps must be an integer")
				}
				if err := m.Steps(n); err != nil {
					return err
				}
				cmd.Printf("Applied %d migration step(s)\n", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Force the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, args []string, m *store.Migrator) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_ARGUMENT").Wrapf(err, "version must be an integer")
				}
				if err := m.Force(v); err != nil {
					return err
				}
				cmd.Printf("Forced schema version to %d\n", v)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: withMigrator(func(cmd *cobra.Command, _ []string, m *store.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					cmd.Println("No migrations applied")
					return nil
				}
				cmd.Printf("%d (dirty: %v)\n", version, dirty)
				return nil
			}),
		},
		newMigrateStatusCmd(),
	)

	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, _ []string, m *store.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				cmd.Println("Current version: none")
			} else {
				cmd.Printf("Current version: %d (dirty: %v)\n", version, dirty)
			}

			applied, err := m.AppliedMigrations()
			if err != nil {
				return err
			}
			for _, v := range applied {
				name, err := store.MigrationName(v)
				if err != nil {
					return err
				}
				cmd.Printf("  applied: %s\n", name)
			}

			pending, err := m.PendingMigrations()
			if err != nil {
				return err
			}
			for _, v := range pending {
				name, err := store.MigrationName(v)
				if err != nil {
					return err
				}
				cmd.Printf("  pending: %s\n", name)
			}
			return nil
		}),
	}
}

// withMigrator loads config, opens a migrator, and closes it after the
// action runs.
func withMigrator(fn func(*cobra.Command, []string, *store.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path, explicit, err := configPath(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.Load(path, explicit, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.Database.URL == "" {
			return oops.Code("CONFIG_INVALID").
				With("field", "database.url").
				Errorf("database URL is required")
		}

		migrator, err := store.NewMigrator(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := migrator.Close(); closeErr != nil {
				cmd.PrintErrln("warning: failed to close migrator:", closeErr)
			}
		}()

		return fn(cmd, args, migrator)
	}
}
