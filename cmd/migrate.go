package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/passiton/backend/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply PostgreSQL schema migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := storeBackend(cfg.Store)
		if err != nil {
			return err
		}
		if kind != backendPostgres {
			return errors.New("migrate requires a PostgreSQL DATABASE_URL or PGUSER/PGDATABASE")
		}

		pool, err := db.NewPostgresPool(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
