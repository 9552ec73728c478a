package main

import (
	"errors"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/internal/repository/postgres"
)

func migrateCmd() *cobra.Command {
	var down, seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run the Postgres migrations",
		Example: heredoc.Doc(`
			$ REPOFORMS_DATABASE_URL=postgres://localhost/repoforms?sslmode=disable repoforms migrate --seed
			$ repoforms migrate --down
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("REPOFORMS_DATABASE_URL is required")
			}

			if down {
				return postgres.Rollback(cfg.DatabaseURL, logger)
			}
			if err := postgres.Migrate(cfg.DatabaseURL, logger); err != nil {
				return err
			}
			if !seed {
				return nil
			}

			set, err := loadFixtures(cfg)
			if err != nil {
				return err
			}
			pool, err := postgres.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := postgres.New(pool, postgres.WithLogger(logger)).Import(ctx, set); err != nil {
				return err
			}
			logger.Info("fixtures imported",
				zap.Int("contentTypes", len(set.ContentTypes)),
				zap.Int("locations", len(set.Locations)),
				zap.Int("contents", len(set.Contents)),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll every migration back")
	cmd.Flags().BoolVar(&seed, "seed", false, "import the fixtures after migrating")
	return cmd
}
