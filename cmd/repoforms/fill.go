package main

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	repoforms "github.com/goliatone/go-repoforms"
	"github.com/goliatone/go-repoforms/pkg/renderers/tui"
	"github.com/goliatone/go-repoforms/pkg/validation"
)

func fillCmd() *cobra.Command {
	var (
		flags  formFlags
		format string
		button string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "fill [content-type]",
		Short: "Fill a content form in the terminal",
		Long: heredoc.Doc(`
			Prompt for every input of a content form. The answers are printed
			as a form body ready to POST to the form action, or stored through
			the configured storage with --save.
		`),
		Example: heredoc.Doc(`
			$ repoforms fill article --location 2
			$ repoforms fill article --format json
			$ repoforms fill --content 1 --save
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

			prompts, err := tui.New(
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithButton(button),
			)
			if err != nil {
				return err
			}
			gen, err := repoforms.New(services,
				repoforms.WithLogger(logger),
				repoforms.WithRenderer(prompts),
			)
			if err != nil {
				return err
			}
			f, err := flags.resolve(ctx, gen, args, cfg.LanguageCode)
			if err != nil {
				return err
			}

			if !save {
				out, err := gen.Render(ctx, f, prompts.Name(), repoforms.RenderOptions{})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}

			fctx := f.Context(ctx)
			values, err := prompts.Fill(fctx, f.CreateView(fctx), repoforms.RenderOptions{Locale: f.Language()})
			if err != nil {
				return err
			}
			saved, err := gen.Submit(ctx, f, values)
			var fieldErrs validation.FieldErrors
			switch {
			case errors.Is(err, repoforms.ErrCanceled):
				fmt.Fprintln(cmd.OutOrStdout(), "canceled")
				return nil
			case errors.As(err, &fieldErrs):
				for _, issue := range fieldErrs.Issues() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", issue.Path, issue.Message)
				}
				return errors.New("the form is invalid")
			case err != nil:
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved content %d version %d at location %d\n",
				saved.ID, saved.VersionNo, saved.MainLocationID)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatFormURLEncoded), "output format: form, json or pretty")
	cmd.Flags().StringVar(&button, "button", "", "submit button to click, defaults to the first one")
	cmd.Flags().BoolVar(&save, "save", false, "store the answers instead of printing them")
	return cmd
}
