package main

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the content forms over HTTP",
		Example: heredoc.Doc(`
			$ repoforms serve
			$ REPOFORMS_STORAGE=postgres REPOFORMS_DATABASE_URL=postgres://localhost/repoforms repoforms serve --addr :9000
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			services, release, err := openServices(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer release()

			srv, err := server.New(services,
				server.WithLogger(logger),
				server.WithCSRFSecret(cfg.CSRFSecret),
				server.WithDefaultLanguage(cfg.LanguageCode),
			)
			if err != nil {
				return err
			}
			logger.Info("repoforms starting",
				zap.String("version", Version),
				zap.String("storage", cfg.Storage),
			)
			return srv.ListenAndServe(ctx, cfg.HTTPAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides REPOFORMS_HTTP_ADDR")
	return cmd
}
