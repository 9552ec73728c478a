package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-repoforms/internal/repository/fixtures"
	"github.com/goliatone/go-repoforms/internal/repository/memory"
	"github.com/goliatone/go-repoforms/pkg/content"
)

func seeded(t *testing.T) *memory.Repository {
	t.Helper()
	set, err := fixtures.Default()
	require.NoError(t, err)
	repo, err := memory.NewFromFixtures(set, memory.WithRemoteIDs(func() string { return "remote" }))
	require.NoError(t, err)
	return repo
}

func TestLoadContentType(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	ct, err := repo.LoadContentTypeByIdentifier(ctx, "article")
	require.NoError(t, err)
	assert.Equal(t, "Article", ct.Name("eng-GB"))
	assert.Len(t, ct.FieldDefinitions, 7)

	_, err = repo.LoadContentTypeByIdentifier(ctx, "folder")
	assert.True(t, content.IsNotFound(err))

	assert.Equal(t, []string{"article", "user"}, repo.ContentTypes())
}

func TestReturnedContentTypesAreCopies(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	ct, err := repo.LoadContentTypeByIdentifier(ctx, "article")
	require.NoError(t, err)
	ct.FieldDefinitions[0].Identifier = "changed"

	again, err := repo.LoadContentTypeByIdentifier(ctx, "article")
	require.NoError(t, err)
	assert.Equal(t, "title", again.FieldDefinitions[0].Identifier)
}

func TestCreateContentType(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	created, err := repo.CreateContentType(ctx, content.ContentType{
		Identifier:       "folder",
		MainLanguageCode: "eng-GB",
		FieldDefinitions: []content.FieldDefinition{{Identifier: "name", FieldTypeIdentifier: "ezstring"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(1), created.FieldDefinitions[0].ID)

	_, err = repo.CreateContentType(ctx, content.ContentType{Identifier: "folder"})
	assert.True(t, content.IsInvalidArgument(err))

	_, err = repo.CreateContentType(ctx, content.ContentType{})
	assert.True(t, content.IsInvalidArgument(err))
}

func TestCreateContentTypeRejectsRepeatedFields(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	_, err := repo.CreateContentType(ctx, content.ContentType{
		Identifier: "event",
		FieldDefinitions: []content.FieldDefinition{
			{Identifier: "title", FieldTypeIdentifier: "ezstring"},
			{Identifier: "title", FieldTypeIdentifier: "ezdate"},
		},
	})
	assert.True(t, content.IsInvalidArgument(err))

	_, err = repo.LoadContentTypeByIdentifier(ctx, "event")
	assert.True(t, content.IsNotFound(err), "rejected types must not be stored")

	_, err = repo.CreateContentType(ctx, content.ContentType{
		Identifier:       "event",
		FieldDefinitions: []content.FieldDefinition{{Identifier: " ", FieldTypeIdentifier: "ezstring"}},
	})
	assert.True(t, content.IsInvalidArgument(err))
}

func TestUpdateFieldDefinition(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	updated, err := repo.UpdateFieldDefinition(ctx, "article", "category", content.FieldDefinitionUpdateStruct{
		FieldSettings: map[string]any{"isMultiple": true},
	})
	require.NoError(t, err)
	def, ok := updated.FieldDefinition("category")
	require.True(t, ok)
	assert.Equal(t, true, def.FieldSettings["isMultiple"])
	assert.Equal(t, []any{"News", "Opinion", "Review"}, def.FieldSettings["options"])

	_, err = repo.UpdateFieldDefinition(ctx, "article", "missing", content.FieldDefinitionUpdateStruct{})
	assert.True(t, content.IsNotFound(err))
	_, err = repo.UpdateFieldDefinition(ctx, "missing", "title", content.FieldDefinitionUpdateStruct{})
	assert.True(t, content.IsNotFound(err))
}

func TestCreateContentPlacesUnderParent(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	created, err := repo.CreateContent(ctx, content.ContentCreateStruct{
		ContentTypeIdentifier: "article",
		MainLanguageCode:      "eng-GB",
		Locations:             []content.LocationCreateStruct{repo.NewLocationCreateStruct(2)},
		Fields:                map[string]any{"title": "Hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, "remote", created.RemoteID)
	assert.Equal(t, 1, created.VersionNo)
	assert.True(t, created.Published)

	loc, err := repo.LoadLocation(ctx, created.MainLocationID)
	require.NoError(t, err)
	assert.Equal(t, content.Location{ID: 6, ContentID: 2, ParentLocationID: 2, PathString: "/1/2/6/"}, loc)

	stored, err := repo.LoadContent(ctx, created.ID, 1)
	require.NoError(t, err)
	v, ok := stored.FieldValue("title", "eng-GB")
	require.True(t, ok)
	assert.Equal(t, "Hello", v)
}

func TestCreateContentErrors(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		create content.ContentCreateStruct
		check  func(error) bool
	}{
		{
			name:   "unknown content type",
			create: content.ContentCreateStruct{ContentTypeIdentifier: "folder", Locations: []content.LocationCreateStruct{{ParentLocationID: 2}}},
			check:  content.IsNotFound,
		},
		{
			name:   "unknown parent",
			create: content.ContentCreateStruct{ContentTypeIdentifier: "article", Locations: []content.LocationCreateStruct{{ParentLocationID: 99}}},
			check:  content.IsNotFound,
		},
		{
			name:   "no parent",
			create: content.ContentCreateStruct{ContentTypeIdentifier: "article"},
			check:  content.IsInvalidArgument,
		},
		{
			name: "unknown field",
			create: content.ContentCreateStruct{
				ContentTypeIdentifier: "article",
				Locations:             []content.LocationCreateStruct{{ParentLocationID: 2}},
				Fields:                map[string]any{"subtitle": "x"},
			},
			check: content.IsInvalidArgument,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.CreateContent(ctx, tc.create)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error %v", err)
		})
	}
}

func TestUpdateContentWritesLanguage(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	updated, err := repo.UpdateContent(ctx, content.ContentUpdateStruct{
		ContentID:    1,
		VersionNo:    1,
		LanguageCode: "fre-FR",
		Fields:       map[string]any{"title": "Bienvenue"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"eng-GB", "fre-FR"}, updated.Languages())

	stored, err := repo.LoadContent(ctx, 1, 1)
	require.NoError(t, err)
	v, _ := stored.FieldValue("title", "eng-GB")
	assert.Equal(t, "Welcome", v)
	v, _ = stored.FieldValue("title", "fre-FR")
	assert.Equal(t, "Bienvenue", v)

	_, err = repo.LoadContent(ctx, 1, 2)
	assert.True(t, content.IsNotFound(err))
	_, err = repo.UpdateContent(ctx, content.ContentUpdateStruct{ContentID: 1, VersionNo: 1})
	assert.True(t, content.IsInvalidArgument(err))
}

func TestCanceledContext(t *testing.T) {
	repo := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.LoadLocation(ctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
