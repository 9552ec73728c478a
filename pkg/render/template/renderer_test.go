package template_test

import (
	"testing"
	"testing/fstest"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-repoforms/pkg/render/template"
	"github.com/goliatone/go-repoforms/pkg/render/template/gotemplate"
)

func render(t *testing.T, engine template.TemplateRenderer) string {
	t.Helper()
	out, err := engine.RenderTemplate("page", map[string]any{"title": "Article", "form": "<form></form>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestEnginesShareTheContract(t *testing.T) {
	files := fstest.MapFS{
		"page.tmpl": {Data: []byte(`<h1>{{ title }}</h1>{{ form|safe }}`)},
	}
	upstream, err := gotemplatepkg.NewRenderer(gotemplatepkg.WithFS(files), gotemplatepkg.WithExtension(".tmpl"))
	if err != nil {
		t.Fatalf("go-template engine: %v", err)
	}
	local, err := gotemplate.New(gotemplate.WithFS(files), gotemplate.WithExtension(".tmpl"))
	if err != nil {
		t.Fatalf("pongo2 engine: %v", err)
	}

	want := "<h1>Article</h1><form></form>"
	for name, engine := range map[string]template.TemplateRenderer{"go-template": upstream, "gotemplate": local} {
		if got := render(t, engine); got != want {
			t.Fatalf("%s: got %q, want %q", name, got, want)
		}
	}
}
