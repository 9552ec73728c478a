package form_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/transformer"
	"github.com/goliatone/go-repoforms/pkg/value"
)

func buildArticleForm(t *testing.T) *form.Form {
	t.Helper()

	root := form.NewBuilder("article", form.CompoundWidget())
	fields := root.Add("fieldsData", form.CompoundWidget())

	title := fields.Add("title", form.CompoundWidget())
	title.Add("value", form.TextWidget()).
		SetLabel("Title").
		SetRequired(true).
		AddModelTransformer(transformer.TextLineValueTransformer{}).
		SetData(value.TextLine{Text: "Draft"})

	count := fields.Add("count", form.CompoundWidget())
	count.Add("value", form.IntegerWidget()).
		SetLabel("Count").
		AddModelTransformer(transformer.IntegerValueTransformer{}).
		AddConstraint(func(f *form.Form) []string {
			n, _ := f.Data().(value.Integer)
			if n.Value != nil && *n.Value > 10 {
				return []string{"too many"}
			}
			return nil
		})

	root.Add("publish", form.SubmitWidget()).SetLabel("Publish")

	f, err := root.Form()
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return f
}

func TestFormNamesAndInitialData(t *testing.T) {
	f := buildArticleForm(t)

	node, ok := f.Get("fieldsData.title.value")
	if !ok {
		t.Fatalf("expected title value node")
	}
	if got, want := node.FullName(), "article[fieldsData][title][value]"; got != want {
		t.Fatalf("full name = %q, want %q", got, want)
	}
	if got, want := node.ID(), "article_fieldsData_title_value"; got != want {
		t.Fatalf("id = %q, want %q", got, want)
	}
	if got, want := node.Path(), "fieldsData.title.value"; got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
	if node.ViewData() != "Draft" {
		t.Fatalf("expected view data from initial domain value, got %#v", node.ViewData())
	}

	count, _ := f.Get("fieldsData.count.value")
	if count.ViewData() != "" {
		t.Fatalf("expected empty integer view data, got %#v", count.ViewData())
	}
	if f.IsSubmitted() || f.IsValid() {
		t.Fatalf("fresh form must not be submitted or valid")
	}
}

func TestFormHandleRequestBindsValues(t *testing.T) {
	f := buildArticleForm(t)

	values := url.Values{}
	values.Set("article[fieldsData][title][value]", "Hello")
	values.Set("article[fieldsData][count][value]", "7")
	values.Set("article[publish]", "")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := f.HandleRequest(req); err != nil {
		t.Fatalf("handle request: %v", err)
	}
	if !f.IsSubmitted() {
		t.Fatalf("expected submitted form")
	}
	if !f.IsValid() {
		t.Fatalf("expected valid form, errors: %v", f.Errors())
	}
	if got := f.ClickedButton(); got != "publish" {
		t.Fatalf("clicked button = %q, want publish", got)
	}

	title, _ := f.Get("fieldsData.title.value")
	if diff := cmp.Diff(value.TextLine{Text: "Hello"}, title.Data()); diff != "" {
		t.Fatalf("title mismatch (-want +got):\n%s", diff)
	}
	count, _ := f.Get("fieldsData.count.value")
	if diff := cmp.Diff(value.NewInteger(7), count.Data()); diff != "" {
		t.Fatalf("count mismatch (-want +got):\n%s", diff)
	}
}

func TestFormRecordsFieldErrors(t *testing.T) {
	f := buildArticleForm(t)

	f.Submit(map[string]any{
		"fieldsData": map[string]any{
			"title": map[string]any{"value": "  "},
			"count": map[string]any{"value": "seven"},
		},
	})

	if f.IsValid() {
		t.Fatalf("expected invalid form")
	}
	want := map[string][]string{
		"fieldsData.title.value": {form.RequiredMessage},
		"fieldsData.count.value": {form.InvalidMessage},
	}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	count, _ := f.Get("fieldsData.count.value")
	if !count.TransformationFailed() {
		t.Fatalf("expected transformation failure to be recorded")
	}
	if count.ViewData() != "seven" {
		t.Fatalf("expected submitted input to be kept for re-rendering, got %#v", count.ViewData())
	}
	if count.Data() != nil {
		t.Fatalf("expected model data to keep last valid value, got %#v", count.Data())
	}
}

func TestFormConstraintsRunAfterTransformation(t *testing.T) {
	f := buildArticleForm(t)
	f.Submit(map[string]any{
		"fieldsData": map[string]any{
			"title": map[string]any{"value": "ok"},
			"count": map[string]any{"value": "11"},
		},
	})
	if diff := cmp.Diff(map[string][]string{"fieldsData.count.value": {"too many"}}, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestFormIgnoresForeignSubmissions(t *testing.T) {
	f := buildArticleForm(t)

	if err := f.HandleValues(url.Values{"other[field]": {"x"}}); err != nil {
		t.Fatalf("handle values: %v", err)
	}
	if f.IsSubmitted() {
		t.Fatalf("form must ignore values for another root")
	}

	get := httptest.NewRequest(http.MethodGet, "/?article[fieldsData][title][value]=x", nil)
	if err := f.HandleRequest(get); err != nil {
		t.Fatalf("handle GET: %v", err)
	}
	if f.IsSubmitted() {
		t.Fatalf("POST form must ignore GET requests")
	}
}

func TestParseValues(t *testing.T) {
	values := url.Values{
		"root[a][b]":   {"1"},
		"root[list][]": {"x", "y"},
		"root[a][c]":   {"first", "last"},
		"plain":        {"p"},
	}
	tree, err := form.ParseValues(values)
	if err != nil {
		t.Fatalf("parse values: %v", err)
	}
	want := map[string]any{
		"root": map[string]any{
			"a":    map[string]any{"b": "1", "c": "last"},
			"list": []string{"x", "y"},
		},
		"plain": "p",
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	if _, err := form.ParseValues(url.Values{"root[a": {"x"}}); err == nil {
		t.Fatalf("expected malformed name to fail")
	}
}

func TestParseValuesPrefersCompounds(t *testing.T) {
	values := url.Values{
		"root[a]":      {"leaf"},
		"root[a][b]":   {"1"},
		"root[list]":   {"leaf"},
		"root[list][]": {"x"},
	}
	want := map[string]any{
		"root": map[string]any{
			"a":    map[string]any{"b": "1"},
			"list": []string{"x"},
		},
	}
	for i := 0; i < 20; i++ {
		tree, err := form.ParseValues(values)
		if err != nil {
			t.Fatalf("parse values: %v", err)
		}
		if diff := cmp.Diff(want, tree); diff != "" {
			t.Fatalf("run %d: tree mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestHandleValuesSkipsMalformedForeignNames(t *testing.T) {
	f := buildArticleForm(t)

	err := f.HandleValues(url.Values{
		"utm[":                              {"campaign"},
		"article[fieldsData][title][value]": {"Hello"},
	})
	if err != nil {
		t.Fatalf("handle values: %v", err)
	}
	if !f.IsSubmitted() {
		t.Fatalf("expected the article submission to bind")
	}
	title, ok := f.Get("fieldsData.title.value")
	if !ok {
		t.Fatalf("title input missing")
	}
	if diff := cmp.Diff("Hello", title.ViewData()); diff != "" {
		t.Fatalf("title mismatch (-want +got):\n%s", diff)
	}

	if err := f.HandleValues(url.Values{"article[fieldsData": {"x"}}); err == nil {
		t.Fatalf("expected malformed name under the form root to fail")
	}
}

func TestCreateViewRunsHooks(t *testing.T) {
	root := form.NewBuilder("demo", form.CompoundWidget()).SetAction("/submit")
	root.Add("when", form.IntegerWidget()).
		SetBlockPrefix("demo_date").
		SetAttr("class", "base").
		OnView(func(ctx context.Context, view *form.View) {
			view.SetAttr("data-route", form.RouteFromContext(ctx))
		})
	root.Add("flag", form.CheckboxWidget()).SetData(true)
	root.Add("pick", form.ChoiceWidget(2)).SetChoices([]form.Choice{{Label: "A"}, {Label: "B"}}, true, false).SetData([]int{1})

	f, err := root.Form()
	if err != nil {
		t.Fatalf("build form: %v", err)
	}

	ctx := form.ContextWithRequest(context.Background(), form.RequestInfo{Route: "some_route"})
	view := f.CreateView(ctx)

	if view.Vars.Action != "/submit" || view.Vars.Method != http.MethodPost {
		t.Fatalf("unexpected root vars: %+v", view.Vars)
	}

	when, _ := view.Child("when")
	if diff := cmp.Diff(map[string]string{"class": "base", "data-route": "some_route"}, when.Vars.Attr); diff != "" {
		t.Fatalf("attr mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"form", "integer", "demo_date"}, when.Vars.BlockPrefixes); diff != "" {
		t.Fatalf("block prefixes mismatch (-want +got):\n%s", diff)
	}
	if when.BlockPrefix() != "demo_date" {
		t.Fatalf("unexpected block prefix %q", when.BlockPrefix())
	}

	flag, _ := view.Child("flag")
	if !flag.Vars.Checked {
		t.Fatalf("expected checkbox to be checked")
	}

	pick, _ := view.Child("pick")
	if pick.Vars.FullName != "demo[pick][]" {
		t.Fatalf("expected multiple choice name suffix, got %q", pick.Vars.FullName)
	}
	wantChoices := []form.ChoiceView{
		{Label: "A", Value: "0"},
		{Label: "B", Value: "1", Selected: true},
	}
	if diff := cmp.Diff(wantChoices, pick.Vars.Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
}
