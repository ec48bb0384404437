package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"lease-agent/config"
	"lease-agent/migrations"
	"lease-agent/repository"
)

func newMigrateCommand(ctx context.Context, configPath *string) *cobra.Command {
	dsn := ""
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres schema migrations",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				cfg, err := config.Load(*configPath)
				if err != nil {
					return err
				}
				dsn = cfg.Storage.PostgresDSN
			}
			if dsn == "" {
				return errors.New("no postgres DSN: set --dsn, storage.postgres_dsn or DATABASE_URL")
			}

			db, err := repository.OpenPostgres(ctx, dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrations.Up(db.DB); err != nil {
				return err
			}
			version, dirty, err := migrations.Version(db.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	}
	c.Flags().StringVar(&dsn, "dsn", "", "postgres connection string, overrides the config")
	return c
}
