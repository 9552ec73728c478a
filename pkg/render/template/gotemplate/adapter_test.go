package gotemplate_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-repoforms/pkg/render/template/gotemplate"
	"github.com/goliatone/go-repoforms/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tmpl":      {Data: []byte(`Hello {{ name }}!`)},
		"use-global.tmpl": {Data: []byte(`env={{ settings.env }}`)},
		"input.tmpl":      {Data: []byte(`<input{{ field.attr|html_attrs }} name="{{ field.full_name }}">`)},
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestRenderTemplateWritesOutput(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "<Ada>"}, w)
	})
	if result != "Hello &lt;Ada&gt;!" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer got %q, want %q", written, result)
	}
}

func TestGlobalContext(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))
	result, err := engine.RenderTemplate("use-global.tmpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestStructDataUsesJSONNames(t *testing.T) {
	type vars struct {
		FullName string            `json:"full_name"`
		Attr     map[string]string `json:"attr"`
	}
	engine := newEngine(t)
	result, err := engine.RenderTemplate("input", map[string]any{
		"field": vars{
			FullName: "f[value]",
			Attr:     map[string]string{"maxlength": "10", "data-x": `"q"`, "bad name": "x"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<input data-x="&#34;q&#34;" maxlength="10" name="f[value]">`
	if result != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, result)
	}
}

func TestRenderStringAndFilters(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout_test", func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout_test", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter to fail")
	}

	result, err := engine.Render(`{{ word|shout_test }} {{ pad|trim }}`, map[string]any{"word": "hey", "pad": "  x  "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "HEY x" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestNewRequiresTemplates(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected missing template source to fail")
	}
}
