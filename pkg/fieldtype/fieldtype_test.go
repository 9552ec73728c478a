package fieldtype_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/fieldtype"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/value"
)

func buildField(t *testing.T, c fieldtype.Component, def content.FieldDefinition, data value.Value) *form.Form {
	t.Helper()

	root := form.NewBuilder("f", form.CompoundWidget())
	node := root.Add("value", form.CompoundWidget())
	if err := c.Build(node, def, fieldtype.BuildOptions{LanguageCode: "eng-GB"}); err != nil {
		t.Fatalf("build %s: %v", c.FieldTypeIdentifier(), err)
	}
	if data != nil {
		node.SetData(data)
	}
	f, err := root.Form()
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	return f
}

func valueView(t *testing.T, f *form.Form, route string) *form.View {
	t.Helper()
	ctx := form.ContextWithRequest(context.Background(), form.RequestInfo{Route: route})
	view, ok := f.CreateView(ctx).Child("value")
	if !ok {
		t.Fatalf("value view missing")
	}
	return view
}

func TestDefaultRegistry(t *testing.T) {
	reg := fieldtype.NewDefaultRegistry()

	want := []string{
		"ezboolean", "ezdate", "ezdatetime", "ezemail", "ezfloat", "ezinteger",
		"ezselection", "ezstring", "eztext", "ezurl", "ezuser",
	}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Fatalf("registered field types mismatch (-want +got):\n%s", diff)
	}

	c, err := reg.Get("ezdate")
	if err != nil {
		t.Fatalf("get ezdate: %v", err)
	}
	if c.BlockPrefix() != "ezplatform_fieldtype_ezdate" {
		t.Fatalf("unexpected block prefix %q", c.BlockPrefix())
	}

	if _, err := reg.Get("ezmatrix"); !errors.Is(err, fieldtype.ErrUnknownFieldType) {
		t.Fatalf("expected ErrUnknownFieldType, got %v", err)
	}
	if err := reg.Register(fieldtype.Date{}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestRequiredPolicy(t *testing.T) {
	policy := fieldtype.DefaultRequiredPolicy()

	if policy.Required("ezuser", "enabled", true) {
		t.Fatalf("enabled must never be required")
	}
	if !policy.Required("ezuser", "username", true) {
		t.Fatalf("username follows the field definition")
	}
	if policy.Required("ezstring", "", false) {
		t.Fatalf("optional field must stay optional")
	}

	merged := policy.Merge(fieldtype.RequiredPolicy{"ezstring": {"": true}})
	if !merged.Required("ezstring", "", false) {
		t.Fatalf("merged policy must force ezstring required")
	}
	if merged.Required("ezuser", "enabled", true) {
		t.Fatalf("merge must keep the built-in exceptions")
	}
}

func TestDateActionTypeFollowsRoute(t *testing.T) {
	def := content.FieldDefinition{
		Identifier:          "published",
		FieldTypeIdentifier: "ezdate",
		Names:               map[string]string{"eng-GB": "Published"},
	}
	f := buildField(t, fieldtype.Date{}, def, nil)

	cases := []struct {
		route string
		want  string
	}{
		{form.RouteContentDraftEdit, "edit"},
		{form.RouteContentTranslate, "edit"},
		{form.RouteContentCreateNoDraft, "create"},
		{"", "create"},
	}

	var baseline *form.View
	for _, tc := range cases {
		view := valueView(t, f, tc.route)
		if got := view.Vars.Attr["data-action-type"]; got != tc.want {
			t.Fatalf("route %q: data-action-type = %q, want %q", tc.route, got, tc.want)
		}
		if view.Vars.Attr["class"] != "ez-data-source__input" || view.Vars.Attr["hidden"] != "hidden" {
			t.Fatalf("route %q: unexpected attrs %v", tc.route, view.Vars.Attr)
		}

		delete(view.Vars.Attr, "data-action-type")
		if baseline == nil {
			baseline = view
			continue
		}
		if diff := cmp.Diff(baseline.Vars, view.Vars); diff != "" {
			t.Fatalf("route %q changed more than the action type (-want +got):\n%s", tc.route, diff)
		}
	}
}

func TestDateRejectsInvalidInput(t *testing.T) {
	def := content.FieldDefinition{Identifier: "published", FieldTypeIdentifier: "ezdate"}

	for _, input := range []string{"tomorrow-ish", "253402300800", "99999999999999999999"} {
		f := buildField(t, fieldtype.Date{}, def, nil)
		f.Submit(map[string]any{"value": input})

		if diff := cmp.Diff(map[string][]string{"value": {form.InvalidMessage}}, f.Errors()); diff != "" {
			t.Fatalf("input %q errors mismatch (-want +got):\n%s", input, diff)
		}
		node, _ := f.Child("value")
		if node.ViewData() != input {
			t.Fatalf("input %q not kept for re-rendering: %#v", input, node.ViewData())
		}
	}

	f := buildField(t, fieldtype.Date{}, def, nil)
	f.Submit(map[string]any{"value": "1609459200"})
	if !f.IsValid() {
		t.Fatalf("expected valid date, errors: %v", f.Errors())
	}
	node, _ := f.Child("value")
	want := value.NewDate(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	if diff := cmp.Diff(want, node.Data()); diff != "" {
		t.Fatalf("date mismatch (-want +got):\n%s", diff)
	}
}

func TestUserAccountWidget(t *testing.T) {
	def := content.FieldDefinition{
		Identifier:          "user_account",
		FieldTypeIdentifier: "ezuser",
		Names:               map[string]string{"eng-GB": "Field"},
		IsRequired:          true,
	}
	f := buildField(t, fieldtype.User{}, def, fieldtype.User{}.EmptyValue(def))
	node, _ := f.Child("value")

	required := map[string]bool{}
	labels := map[string]string{}
	for _, child := range node.Children() {
		required[child.Name()] = child.IsRequired()
		labels[child.Name()] = child.Label()
	}
	wantRequired := map[string]bool{
		"username":         true,
		"email":            true,
		"password":         true,
		"password_confirm": true,
		"enabled":          false,
	}
	if diff := cmp.Diff(wantRequired, required); diff != "" {
		t.Fatalf("required flags mismatch (-want +got):\n%s", diff)
	}
	if labels["enabled"] != "Enabled" {
		t.Fatalf("unexpected enabled label %q", labels["enabled"])
	}

	enabled, _ := node.Child("enabled")
	if enabled.ViewData() != "1" {
		t.Fatalf("new accounts start enabled, got %#v", enabled.ViewData())
	}

	f.Submit(map[string]any{"value": map[string]any{
		"username":         "jdoe",
		"email":            "jdoe@example.com",
		"password":         "secret",
		"password_confirm": "secret",
	}})
	if !f.IsValid() {
		t.Fatalf("expected valid account, errors: %v", f.Errors())
	}
	want := value.UserAccount{Login: "jdoe", Email: "jdoe@example.com", Password: "secret", Enabled: false}
	if diff := cmp.Diff(want, node.Data()); diff != "" {
		t.Fatalf("account mismatch (-want +got):\n%s", diff)
	}

	f.Submit(map[string]any{"value": map[string]any{
		"username":         "jdoe",
		"email":            "not-an-email",
		"password":         "secret",
		"password_confirm": "other",
	}})
	wantErrors := map[string][]string{
		"value":       {"The password fields must match."},
		"value.email": {"This value is not a valid email address."},
	}
	if diff := cmp.Diff(wantErrors, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionChoices(t *testing.T) {
	def := content.FieldDefinition{
		Identifier:          "colors",
		FieldTypeIdentifier: "ezselection",
		FieldSettings: map[string]any{
			"isMultiple": true,
			"options":    []any{"Red", "Green", "Blue"},
		},
	}
	f := buildField(t, fieldtype.Selection{}, def, value.Selection{Selection: []int{1}})

	view := valueView(t, f, "")
	wantChoices := []form.ChoiceView{
		{Label: "Red", Value: "0"},
		{Label: "Green", Value: "1", Selected: true},
		{Label: "Blue", Value: "2"},
	}
	if diff := cmp.Diff(wantChoices, view.Vars.Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}

	f.Submit(map[string]any{"value": []string{"0", "2"}})
	node, _ := f.Child("value")
	if diff := cmp.Diff(value.Selection{Selection: []int{0, 2}}, node.Data()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	f.Submit(map[string]any{"value": []string{"7"}})
	if !node.TransformationFailed() {
		t.Fatalf("expected unknown option to fail")
	}
}

func TestStringLengthConstraint(t *testing.T) {
	def := content.FieldDefinition{
		Identifier:          "title",
		FieldTypeIdentifier: "ezstring",
		ValidatorConfiguration: map[string]any{
			"StringLengthValidator": map[string]any{"minStringLength": 3, "maxStringLength": 5},
		},
	}
	f := buildField(t, fieldtype.TextLine{}, def, nil)

	view := valueView(t, f, "")
	if view.Vars.Attr["maxlength"] != "5" {
		t.Fatalf("expected maxlength attr, got %v", view.Vars.Attr)
	}

	f.Submit(map[string]any{"value": "ab"})
	want := map[string][]string{"value": {"This value is too short. It should have 3 characters or more."}}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	f.Submit(map[string]any{"value": ""})
	if !f.IsValid() {
		t.Fatalf("optional empty text must be valid, errors: %v", f.Errors())
	}
}

func TestBindValueAndHash(t *testing.T) {
	selectionDef := content.FieldDefinition{
		FieldSettings: map[string]any{"options": []string{"a", "b"}},
	}
	cases := []struct {
		name string
		c    fieldtype.Component
		def  content.FieldDefinition
		raw  any
		want value.Value
	}{
		{"string", fieldtype.TextLine{}, content.FieldDefinition{}, "hello", value.TextLine{Text: "hello"}},
		{"text", fieldtype.TextBlock{}, content.FieldDefinition{}, "body", value.TextBlock{Text: "body"}},
		{"integer string", fieldtype.Integer{}, content.FieldDefinition{}, "42", value.NewInteger(42)},
		{"integer json", fieldtype.Integer{}, content.FieldDefinition{}, float64(42), value.NewInteger(42)},
		{"float", fieldtype.Float{}, content.FieldDefinition{}, 1.5, value.NewFloat(1.5)},
		{"boolean", fieldtype.Checkbox{}, content.FieldDefinition{}, "1", value.Checkbox{Bool: true}},
		{"email", fieldtype.Email{}, content.FieldDefinition{}, " a@b.io ", value.EmailAddress{Email: "a@b.io"}},
		{"url", fieldtype.URL{}, content.FieldDefinition{}, map[string]any{"link": "https://ez.no", "text": "eZ"}, value.URL{Link: "https://ez.no", Text: "eZ"}},
		{"date", fieldtype.Date{}, content.FieldDefinition{}, int64(1609459200), value.NewDate(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))},
		{"datetime", fieldtype.DateTime{}, content.FieldDefinition{}, "2021-01-01 10:30:00", value.NewDateTime(time.Date(2021, 1, 1, 10, 30, 0, 0, time.UTC))},
		{"selection", fieldtype.Selection{}, selectionDef, []any{float64(1)}, value.Selection{Selection: []int{1}}},
		{"user", fieldtype.User{}, content.FieldDefinition{}, map[string]any{"login": "jdoe", "email": "j@ez.no", "enabled": false}, value.UserAccount{Login: "jdoe", Email: "j@ez.no"}},
		{"empty", fieldtype.Integer{}, content.FieldDefinition{}, nil, value.Integer{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.c.BindValue(tc.def, tc.raw)
			if err != nil {
				t.Fatalf("bind: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("bind mismatch (-want +got):\n%s", diff)
			}

			again, err := tc.c.BindValue(tc.def, tc.c.Hash(got))
			if err != nil {
				t.Fatalf("bind hash: %v", err)
			}
			if diff := cmp.Diff(got, again); diff != "" {
				t.Fatalf("hash round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectionBindValueRejectsUnknownOption(t *testing.T) {
	def := content.FieldDefinition{FieldSettings: map[string]any{"options": []string{"a"}}}
	if _, err := (fieldtype.Selection{}).BindValue(def, []any{3}); err == nil {
		t.Fatalf("expected out of range index to fail")
	}
}
