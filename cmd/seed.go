package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/passiton/backend/internal/service"
)

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo recruiters and their opportunities",
	Long: `seed creates the demo recruiter accounts when they are missing and
replaces their demo opportunities. The recruiter password comes from
--password or SEED_PASSWORD.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		password := seedPassword
		if password == "" {
			password = os.Getenv("SEED_PASSWORD")
		}
		if password == "" {
			return errors.New("seed password is required (--password or SEED_PASSWORD)")
		}

		st, err := openStore(cmd.Context(), cfg.Store, true)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())

		res, err := service.Seed(cmd.Context(), st, password, logger)
		if err != nil {
			return err
		}
		logger.Info("seed complete",
			slog.Int("users_created", res.UsersCreated),
			slog.Int("opportunities_created", res.OpportunitiesCreated),
			slog.Int64("opportunities_removed", res.OpportunitiesRemoved),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "password for the demo recruiter accounts")
	rootCmd.AddCommand(seedCmd)
}
