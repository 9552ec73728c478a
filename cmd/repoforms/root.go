package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	repoforms "github.com/goliatone/go-repoforms"
	"github.com/goliatone/go-repoforms/internal/config"
	"github.com/goliatone/go-repoforms/internal/logging"
	"github.com/goliatone/go-repoforms/internal/repository/fixtures"
	"github.com/goliatone/go-repoforms/internal/repository/memory"
	"github.com/goliatone/go-repoforms/internal/repository/postgres"
)

const configFlag = "config"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "repoforms <command> [flags]",
		Short:         "Content editing forms for repository content types",
		Long:          "Render, fill and serve the create, edit and translate forms of repository content types.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: heredoc.Doc(`
			$ repoforms serve
			$ repoforms render article --location 2
			$ repoforms fill article --location 2 --save
			$ repoforms schema article --document
			$ repoforms migrate --seed
		`),
	}
	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "YAML config file; REPOFORMS_* variables override it")

	rootCmd.AddCommand(
		serveCmd(),
		renderCmd(),
		fillCmd(),
		schemaCmd(),
		migrateCmd(),
		envCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the config and builds the logger every command shares.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString(configFlag)
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func loadFixtures(cfg config.Config) (fixtures.Set, error) {
	if cfg.Fixtures == "" {
		return fixtures.Default()
	}
	return fixtures.Load(os.DirFS(cfg.Fixtures), ".")
}

// openServices connects the configured storage. The returned func releases
// it.
func openServices(ctx context.Context, cfg config.Config, logger *zap.Logger) (repoforms.Services, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return repoforms.Services{}, nil, err
		}
		repo := postgres.New(pool, postgres.WithLogger(logger))
		return repoforms.Services{ContentTypes: repo, Locations: repo, Contents: repo}, pool.Close, nil
	default:
		set, err := loadFixtures(cfg)
		if err != nil {
			return repoforms.Services{}, nil, err
		}
		repo, err := memory.NewFromFixtures(set, memory.WithLogger(logger))
		if err != nil {
			return repoforms.Services{}, nil, err
		}
		logger.Debug("memory storage ready", zap.Strings("contentTypes", repo.ContentTypes()))
		return repoforms.Services{ContentTypes: repo, Locations: repo, Contents: repo}, func() {}, nil
	}
}

func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "repoforms version %s\n", Version)
		},
	}
}
