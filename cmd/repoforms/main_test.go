package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REPOFORMS_STORAGE", "memory")
	t.Setenv("REPOFORMS_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCreateForm(t *testing.T) {
	out, err := run(t, "render", "article", "--location", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `name="ezrepoforms_content_edit[fieldsData][title][value]"`)
	assert.Contains(t, out, `data-action-type="create"`)
}

func TestRenderTranslateForm(t *testing.T) {
	out, err := run(t, "render", "--content", "1", "--language", "fre-FR", "--from", "eng-GB")
	require.NoError(t, err)
	assert.Contains(t, out, `value="Welcome"`)
	assert.Contains(t, out, `data-action-type="edit"`)
}

func TestRenderRequiresAContentType(t *testing.T) {
	_, err := run(t, "render")
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	out, err := run(t, "schema", "article")
	require.NoError(t, err)

	var schema struct {
		Title    string   `json:"title"`
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "Article", schema.Title)
	assert.Equal(t, []string{"fieldsData"}, schema.Required)

	_, err = run(t, "schema", "gallery")
	assert.Error(t, err)
}

func TestEnvAndVersion(t *testing.T) {
	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "REPOFORMS_HTTP_ADDR")

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "repoforms version "))
}

func TestMigrateNeedsDatabaseURL(t *testing.T) {
	t.Setenv("REPOFORMS_DATABASE_URL", "")
	_, err := run(t, "migrate")
	assert.Error(t, err)
}
