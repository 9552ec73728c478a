package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/render"
)

func node(name string, children ...*form.View) *form.View {
	return &form.View{Vars: form.Vars{Name: name, Label: name, Valid: true}, Children: children}
}

func sampleView() *form.View {
	root := node("ezrepoforms_content_edit",
		node("fieldsData",
			node("title", node("value")),
			node("author", node("value", node("username"), node("email"))),
		),
		node("publish"),
	)
	root.Vars.Method = "POST"
	root.Vars.Action = "/content/create"
	return root
}

func TestMapErrorPayload(t *testing.T) {
	payload := map[string][]string{
		"ezrepoforms_content_edit[fieldsData][title][value]": {"This value should not be blank."},
		"fieldsData.author.value.email":                      {"Invalid email", " Invalid email "},
		"/fieldsData/author/value/username/extra":            {"Taken"},
		"non_field_errors":                                   {"Form level error"},
		"unknown.field":                                      {"Unknown field"},
		"":                                                   {"  "},
	}

	mapped := render.MapErrorPayload(sampleView(), payload)

	wantFields := map[string][]string{
		"fieldsData.title.value":          {"This value should not be blank."},
		"fieldsData.author.value.email":    {"Invalid email"},
		"fieldsData.author.value.username": {"Taken"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"Form level error", "Unknown field"}
	if diff := cmp.Diff(wantForm, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayloadKeepsUnscopedForFieldlessPaths(t *testing.T) {
	mapped := render.MapErrorPayload(sampleView(), map[string][]string{"fieldsData": {"Nope"}})
	if diff := cmp.Diff(map[string][]string{"fieldsData": {"Nope"}}, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyErrors(t *testing.T) {
	root := sampleView()
	unmatched := render.ApplyErrors(root, map[string][]string{
		"fieldsData.title.value": {"Too short"},
		"fieldsData.missing":     {"Lost"},
	})
	if diff := cmp.Diff([]string{"Lost"}, unmatched); diff != "" {
		t.Fatalf("unmatched mismatch (-want +got):\n%s", diff)
	}
	value, _ := root.Get("fieldsData", "title", "value")
	if value.Vars.Valid || len(value.Vars.Errors) != 1 {
		t.Fatalf("expected invalid value view, got %+v", value.Vars)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	if diff := cmp.Diff([]string{"First", "Second", "third"}, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSubmission(t *testing.T) {
	root := sampleView()

	got := render.ResolveSubmission(root, render.RenderOptions{
		HiddenFields: map[string]string{"redirect": "/done", " ": "skip"},
	})
	want := render.Submission{
		Method: "POST",
		Action: "/content/create",
		Hidden: []render.HiddenField{{Name: "redirect", Value: "/done"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}

	got = render.ResolveSubmission(root, render.RenderOptions{Method: "patch", Action: "/content/1"})
	want = render.Submission{
		Method: "POST",
		Action: "/content/1",
		Hidden: []render.HiddenField{{Name: "_method", Value: "PATCH"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("override submission mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySubset(t *testing.T) {
	root := sampleView()
	render.ApplySubset(root, render.FieldSubset{Fields: []string{"author"}})

	fields, _ := root.Child("fieldsData")
	var names []string
	for _, child := range fields.Children {
		names = append(names, child.Vars.Name)
	}
	if diff := cmp.Diff([]string{"author"}, names); diff != "" {
		t.Fatalf("subset mismatch (-want +got):\n%s", diff)
	}
	if _, ok := root.Child("publish"); !ok {
		t.Fatalf("subset must keep buttons")
	}
}

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizeView(t *testing.T) {
	root := sampleView()
	title, _ := root.Get("fieldsData", "title", "value")
	title.Vars.Label = "Title"
	title.SetHint(render.HintLabelKey, "fields.title")
	author, _ := root.Get("fieldsData", "author", "value", "username")
	author.Vars.Label = "Username"
	email, _ := root.Get("fieldsData", "author", "value", "email")
	email.Vars.Label = "Email"
	email.SetHint(render.HintLabelKey, "fields.email")

	render.LocalizeView(root, render.RenderOptions{
		Locale:     "fr",
		Translator: stubTranslator{"fields.title": "Titre", "Username": "Identifiant"},
	})

	if title.Vars.Label != "Titre" {
		t.Fatalf("expected keyed translation, got %q", title.Vars.Label)
	}
	if author.Vars.Label != "Identifiant" {
		t.Fatalf("expected text translation, got %q", author.Vars.Label)
	}
	if email.Vars.Label != "Email" {
		t.Fatalf("expected fallback label, got %q", email.Vars.Label)
	}
}

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, *form.View, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("vanilla"))
	registry.MustRegister(namedRenderer("tui"))

	if err := registry.Register(namedRenderer("tui")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	got, err := registry.Get("")
	if err != nil || got.Name() != "vanilla" {
		t.Fatalf("expected vanilla default, got %v (%v)", got, err)
	}
	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got, _ := registry.Get(""); got.Name() != "tui" {
		t.Fatalf("expected tui default, got %s", got.Name())
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
