package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	repoforms "github.com/goliatone/go-repoforms"
)

// formFlags select the create form (content type argument plus --location)
// or the edit form (--content and --version).
type formFlags struct {
	location  int64
	language  string
	contentID int64
	versionNo int
	from      string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.location, "location", 2, "parent location of new content")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "form language, defaults to REPOFORMS_LANGUAGE")
	cmd.Flags().Int64Var(&f.contentID, "content", 0, "content id; selects the edit form")
	cmd.Flags().IntVar(&f.versionNo, "version", 1, "version number of the edited content")
	cmd.Flags().StringVar(&f.from, "from", "", "source language; selects the translate form")
}

func (f *formFlags) resolve(ctx context.Context, gen *repoforms.Generator, args []string, defaultLanguage string) (*repoforms.Form, error) {
	language := f.language
	if language == "" {
		language = defaultLanguage
	}
	if f.contentID > 0 {
		return gen.EditForm(ctx, repoforms.EditRequest{
			ContentID:    f.contentID,
			VersionNo:    f.versionNo,
			Language:     language,
			FromLanguage: f.from,
		})
	}
	if len(args) == 0 {
		return nil, errors.New("a content type identifier or --content is required")
	}
	return gen.CreateForm(ctx, repoforms.CreateRequest{
		ContentType:      args[0],
		Language:         language,
		ParentLocationID: f.location,
	})
}
