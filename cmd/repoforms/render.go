package main

import (
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	repoforms "github.com/goliatone/go-repoforms"
)

func renderCmd() *cobra.Command {
	var (
		flags  formFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "render [content-type]",
		Short: "Render a content form as HTML",
		Example: heredoc.Doc(`
			$ repoforms render article --location 2
			$ repoforms render --content 1 --language fre-FR --from eng-GB -o translate.html
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			services, release, err := openServices(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer release()

			gen, err := repoforms.New(services, repoforms.WithLogger(logger))
			if err != nil {
				return err
			}
			f, err := flags.resolve(ctx, gen, args, cfg.LanguageCode)
			if err != nil {
				return err
			}
			html, err := gen.Render(ctx, f, "vanilla", repoforms.RenderOptions{})
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(html)
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return err
			}
			logger.Info("form written", zap.String("output", output))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
