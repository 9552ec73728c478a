package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-repoforms/pkg/content"
)

var contentTypeColumns = []string{"id", "identifier", "main_language_code", "names", "field_definitions"}

const (
	selectContentType = "SELECT id, identifier, main_language_code, names, field_definitions FROM content_types WHERE identifier = $1"
	selectLocation    = "SELECT id, COALESCE(content_id, 0), COALESCE(parent_location_id, 0), path_string, hidden FROM locations WHERE id = $1"
	selectContent     = "SELECT c.id, c.remote_id, c.content_type_identifier, c.main_language_code, COALESCE(c.main_location_id, 0), c.published, v.version_no, v.fields FROM contents c JOIN content_versions v ON v.content_id = c.id WHERE c.id = $1 AND v.version_no = $2"
)

func exact(q string) string {
	return "^" + regexp.QuoteMeta(q) + "$"
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	mock.MatchExpectationsInOrder(true)
	return mock, New(mock, WithRemoteIDs(func() string { return "remote-1" }))
}

func articleRow(mock pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mock.NewRows(contentTypeColumns).AddRow(
		int64(1), "article", "eng-GB",
		[]byte(`{"eng-GB":"Article"}`),
		[]byte(`[{"id":1,"identifier":"title","fieldTypeIdentifier":"ezstring","isRequired":true,"isTranslatable":false,"position":1,"validatorConfiguration":{"StringLengthValidator":{"maxStringLength":40}}}]`),
	)
}

func TestLoadContentTypeByIdentifier(t *testing.T) {
	mock, repo := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery(exact(selectContentType)).WithArgs("article").WillReturnRows(articleRow(mock))
	ct, err := repo.LoadContentTypeByIdentifier(ctx, "article")
	require.NoError(t, err)
	assert.Equal(t, "Article", ct.Name("eng-GB"))
	require.Len(t, ct.FieldDefinitions, 1)
	assert.Equal(t, "ezstring", ct.FieldDefinitions[0].FieldTypeIdentifier)
	assert.Equal(t, float64(40), ct.FieldDefinitions[0].Validator("StringLengthValidator")["maxStringLength"])

	mock.ExpectQuery(exact(selectContentType)).WithArgs("folder").WillReturnRows(mock.NewRows(contentTypeColumns))
	_, err = repo.LoadContentTypeByIdentifier(ctx, "folder")
	assert.True(t, content.IsNotFound(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContentTypeReportsDuplicates(t *testing.T) {
	mock, repo := newMock(t)
	ctx := context.Background()
	insert := `INSERT INTO content_types (identifier,main_language_code,names,field_definitions) VALUES ($1,$2,$3,$4) ON CONFLICT (identifier) DO NOTHING RETURNING "id"`

	mock.ExpectQuery(exact(insert)).
		WithArgs("folder", "eng-GB", []byte(`{}`), []byte(`[{"id":1,"identifier":"name","fieldTypeIdentifier":"ezstring","isRequired":false,"isTranslatable":false,"position":0}]`)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(3)))
	created, err := repo.CreateContentType(ctx, content.ContentType{
		Identifier:       "folder",
		MainLanguageCode: "eng-GB",
		FieldDefinitions: []content.FieldDefinition{{Identifier: "name", FieldTypeIdentifier: "ezstring"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, int64(1), created.FieldDefinitions[0].ID)

	mock.ExpectQuery(exact(insert)).WithArgs("folder", "eng-GB", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows([]string{"id"}))
	_, err = repo.CreateContentType(ctx, content.ContentType{Identifier: "folder", MainLanguageCode: "eng-GB"})
	assert.True(t, content.IsInvalidArgument(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContentTypeRejectsRepeatedFields(t *testing.T) {
	mock, repo := newMock(t)

	_, err := repo.CreateContentType(context.Background(), content.ContentType{
		Identifier: "event",
		FieldDefinitions: []content.FieldDefinition{
			{Identifier: "title", FieldTypeIdentifier: "ezstring"},
			{Identifier: "title", FieldTypeIdentifier: "ezdate"},
		},
	})
	assert.True(t, content.IsInvalidArgument(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFieldDefinitionMergesSettings(t *testing.T) {
	mock, repo := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(exact(selectContentType+" FOR UPDATE")).WithArgs("article").WillReturnRows(articleRow(mock))
	mock.ExpectExec(exact("UPDATE content_types SET field_definitions = $1, updated_at = now() WHERE id = $2")).
		WithArgs(pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	updated, err := repo.UpdateFieldDefinition(ctx, "article", "title", content.FieldDefinitionUpdateStruct{
		ValidatorConfiguration: map[string]any{"StringLengthValidator": map[string]any{"minStringLength": 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"maxStringLength": float64(40), "minStringLength": 2},
		updated.FieldDefinitions[0].Validator("StringLengthValidator"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFieldDefinitionUnknownField(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(exact(selectContentType+" FOR UPDATE")).WithArgs("article").WillReturnRows(articleRow(mock))
	mock.ExpectRollback()

	_, err := repo.UpdateFieldDefinition(context.Background(), "article", "body", content.FieldDefinitionUpdateStruct{})
	assert.True(t, content.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadLocation(t *testing.T) {
	mock, repo := newMock(t)
	ctx := context.Background()
	cols := []string{"id", "content_id", "parent_location_id", "path_string", "hidden"}

	mock.ExpectQuery(exact(selectLocation)).WithArgs(int64(2)).
		WillReturnRows(mock.NewRows(cols).AddRow(int64(2), int64(1), int64(1), "/1/2/", false))
	loc, err := repo.LoadLocation(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, content.Location{ID: 2, ContentID: 1, ParentLocationID: 1, PathString: "/1/2/"}, loc)

	mock.ExpectQuery(exact(selectLocation)).WithArgs(int64(99)).WillReturnRows(mock.NewRows(cols))
	_, err = repo.LoadLocation(ctx, 99)
	assert.True(t, content.IsNotFound(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContent(t *testing.T) {
	mock, repo := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(exact(selectContentType)).WithArgs("article").WillReturnRows(articleRow(mock))
	mock.ExpectQuery(exact(`INSERT INTO contents (remote_id,content_type_identifier,main_language_code,published) VALUES ($1,$2,$3,$4) RETURNING "id"`)).
		WithArgs("remote-1", "article", "eng-GB", true).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(exact(selectLocation)).WithArgs(int64(2)).
		WillReturnRows(mock.NewRows([]string{"id", "content_id", "parent_location_id", "path_string", "hidden"}).
			AddRow(int64(2), int64(1), int64(1), "/1/2/", false))
	mock.ExpectQuery(exact(`INSERT INTO locations (content_id,parent_location_id) VALUES ($1,$2) RETURNING "id"`)).
		WithArgs(int64(7), int64(2)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectExec(exact("UPDATE locations SET path_string = $1 WHERE id = $2")).
		WithArgs("/1/2/12/", int64(12)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(exact("UPDATE contents SET main_location_id = $1 WHERE id = $2")).
		WithArgs(int64(12), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(exact("INSERT INTO content_versions (content_id,version_no,fields) VALUES ($1,$2,$3)")).
		WithArgs(int64(7), 1, []byte(`{"title":{"eng-GB":"Hello"}}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	created, err := repo.CreateContent(ctx, content.ContentCreateStruct{
		ContentTypeIdentifier: "article",
		MainLanguageCode:      "eng-GB",
		Locations:             []content.LocationCreateStruct{{ParentLocationID: 2}},
		Fields:                map[string]any{"title": "Hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, int64(12), created.MainLocationID)
	assert.Equal(t, "remote-1", created.RemoteID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContentUnknownParentRollsBack(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(exact(selectContentType)).WithArgs("article").WillReturnRows(articleRow(mock))
	mock.ExpectQuery(exact(`INSERT INTO contents (remote_id,content_type_identifier,main_language_code,published) VALUES ($1,$2,$3,$4) RETURNING "id"`)).
		WithArgs(pgxmock.AnyArg(), "article", "eng-GB", true).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(exact(selectLocation)).WithArgs(int64(99)).
		WillReturnRows(mock.NewRows([]string{"id", "content_id", "parent_location_id", "path_string", "hidden"}))
	mock.ExpectRollback()

	_, err := repo.CreateContent(context.Background(), content.ContentCreateStruct{
		ContentTypeIdentifier: "article",
		MainLanguageCode:      "eng-GB",
		Locations:             []content.LocationCreateStruct{{ParentLocationID: 99}},
	})
	assert.True(t, content.IsNotFound(err), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContentWritesLanguage(t *testing.T) {
	mock, repo := newMock(t)
	cols := []string{"id", "remote_id", "content_type_identifier", "main_language_code", "main_location_id", "published", "version_no", "fields"}

	mock.ExpectBegin()
	mock.ExpectQuery(exact(selectContent+" FOR UPDATE OF v")).WithArgs(int64(7), 1).
		WillReturnRows(mock.NewRows(cols).AddRow(int64(7), "remote-1", "article", "eng-GB", int64(12), true, 1, []byte(`{"title":{"eng-GB":"Hello"}}`)))
	mock.ExpectQuery(exact(selectContentType)).WithArgs("article").WillReturnRows(articleRow(mock))
	mock.ExpectExec(exact("UPDATE content_versions SET fields = $1, updated_at = now() WHERE content_id = $2 AND version_no = $3")).
		WithArgs([]byte(`{"title":{"eng-GB":"Hello","fre-FR":"Bonjour"}}`), int64(7), 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	updated, err := repo.UpdateContent(context.Background(), content.ContentUpdateStruct{
		ContentID:    7,
		VersionNo:    1,
		LanguageCode: "fre-FR",
		Fields:       map[string]any{"title": "Bonjour"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"eng-GB", "fre-FR"}, updated.Languages())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadContentUnknownVersion(t *testing.T) {
	mock, repo := newMock(t)
	cols := []string{"id", "remote_id", "content_type_identifier", "main_language_code", "main_location_id", "published", "version_no", "fields"}

	mock.ExpectQuery(exact(selectContent)).WithArgs(int64(7), 3).WillReturnRows(mock.NewRows(cols))
	_, err := repo.LoadContent(context.Background(), 7, 3)
	assert.True(t, content.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
