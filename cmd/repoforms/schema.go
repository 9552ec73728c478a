package main

import (
	"encoding/json"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-repoforms/pkg/openapi"
)

func schemaCmd() *cobra.Command {
	var (
		language string
		document bool
	)
	cmd := &cobra.Command{
		Use:   "schema <content-type>",
		Short: "Print the JSON schema of a content type create payload",
		Example: heredoc.Doc(`
			$ repoforms schema article
			$ repoforms schema article --document --language fre-FR
		`),
		Args: cobra.ExactArgs(1),
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

			ct, err := services.ContentTypes.LoadContentTypeByIdentifier(ctx, args[0])
			if err != nil {
				return err
			}
			if language == "" {
				language = ct.MainLanguageCode
			}

			var out any
			if document {
				out, err = openapi.DocumentFor(ctx, ct, language)
			} else {
				out, err = openapi.SchemaFor(ctx, ct, language)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "language, defaults to the content type main language")
	cmd.Flags().BoolVar(&document, "document", false, "print a full OpenAPI document with the create operation")
	return cmd
}
