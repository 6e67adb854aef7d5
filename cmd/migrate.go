/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"github.com/votesecure/platform/config"
	"github.com/votesecure/platform/internal/db"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		migrationsURL := "file://internal/db/migrations"
		migrator, err := migrate.New(migrationsURL, db.DSN(cfg))
		if err != nil {
			return fmt.Errorf("init migrator failed: %w", err)
		}
		defer func() {
			_, _ = migrator.Close()
		}()

		if err := migrator.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				return nil
			}
			return fmt.Errorf("migrate up failed: %w", err)
		}
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		migrationsURL := "file://internal/db/migrations"
		migrator, err := migrate.New(migrationsURL, db.DSN(cfg))
		if err != nil {
			return fmt.Errorf("init migrator failed: %w", err)
		}
		defer func() {
			_, _ = migrator.Close()
		}()

		if err := migrator.Down(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				return nil
			}
			return fmt.Errorf("migrate down failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
