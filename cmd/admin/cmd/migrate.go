package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/templui/profiledesk/internal/config"
	"github.com/templui/profiledesk/internal/db"
)

// LoadConfig returns the runtime configuration, normally config.Load.
type LoadConfig func() *config.Config

var errNoMigrations = errors.New("migrations only apply to the sqlite and pgx drivers")

func MigrateCmd(load LoadConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(c *cobra.Command, args []string) error {
			return withDB(c.Context(), load(), func(ctx context.Context, database *sqlx.DB, driver string) error {
				err := db.RunMigrations(ctx, database.DB, driver)
				if err != nil {
					return err
				}
				return printVersion(ctx, c.OutOrStdout(), database, driver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(c *cobra.Command, args []string) error {
			return withDB(c.Context(), load(), func(ctx context.Context, database *sqlx.DB, driver string) error {
				err := db.MigrateDown(ctx, database.DB, driver)
				if err != nil {
					return err
				}
				return printVersion(ctx, c.OutOrStdout(), database, driver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(c *cobra.Command, args []string) error {
			return withDB(c.Context(), load(), func(ctx context.Context, database *sqlx.DB, driver string) error {
				return printVersion(ctx, c.OutOrStdout(), database, driver)
			})
		},
	})

	return cmd
}

func withDB(ctx context.Context, cfg *config.Config, fn func(context.Context, *sqlx.DB, string) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.DBDriver == "mongodb" {
		return errNoMigrations
	}

	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return fn(ctx, database, cfg.DBDriver)
}

func printVersion(ctx context.Context, out io.Writer, database *sqlx.DB, driver string) error {
	version, err := db.Version(ctx, database.DB, driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version: %d\n", version)
	return nil
}
