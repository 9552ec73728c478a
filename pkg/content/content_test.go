package content_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repoforms/pkg/content"
)

func TestFieldDefinitionNameFallbacks(t *testing.T) {
	def := content.FieldDefinition{
		Identifier: "title",
		Names:      map[string]string{"eng-GB": "Title", "ger-DE": "Titel"},
	}

	cases := map[string]string{
		"eng-GB": "Title",
		"ger-DE": "Titel",
		"fre-FR": "Title",
	}
	for lang, want := range cases {
		if got := def.Name(lang); got != want {
			t.Fatalf("Name(%q) = %q, want %q", lang, got, want)
		}
	}

	bare := content.FieldDefinition{Identifier: "body"}
	if got := bare.Name("eng-GB"); got != "body" {
		t.Fatalf("expected identifier fallback, got %q", got)
	}
}

func TestContentTypeLookups(t *testing.T) {
	ct := content.ContentType{
		Identifier:       "user",
		MainLanguageCode: "eng-GB",
		FieldDefinitions: []content.FieldDefinition{
			{Identifier: "account", FieldTypeIdentifier: "ezuser", Position: 2},
			{Identifier: "name", FieldTypeIdentifier: "ezstring", Position: 1},
		},
	}

	if !ct.HasFieldType("ezuser") {
		t.Fatalf("expected ezuser field type to be detected")
	}
	if ct.HasFieldType("ezdate") {
		t.Fatalf("did not expect ezdate field type")
	}
	if _, ok := ct.FieldDefinition("missing"); ok {
		t.Fatalf("expected missing definition lookup to fail")
	}

	var order []string
	for _, def := range ct.SortedFieldDefinitions() {
		order = append(order, def.Identifier)
	}
	if diff := cmp.Diff([]string{"name", "account"}, order); diff != "" {
		t.Fatalf("sorted order mismatch (-want +got):\n%s", diff)
	}
	if ct.FieldDefinitions[0].Identifier != "account" {
		t.Fatalf("SortedFieldDefinitions mutated the content type")
	}
}

func TestValidatorConfigurationAcceptsYAMLMaps(t *testing.T) {
	def := content.FieldDefinition{
		ValidatorConfiguration: map[string]any{
			"StringLengthValidator": map[any]any{"maxStringLength": 10},
		},
	}
	got := def.Validator("StringLengthValidator")
	if diff := cmp.Diff(map[string]any{"maxStringLength": 10}, got); diff != "" {
		t.Fatalf("validator config mismatch (-want +got):\n%s", diff)
	}
	if def.Validator("IntegerValueValidator") != nil {
		t.Fatalf("expected nil for unknown validator")
	}
}

func TestErrorClassification(t *testing.T) {
	notFound := fmt.Errorf("view: load content type: %w", content.NotFound("ContentType", "article"))
	if !content.IsNotFound(notFound) {
		t.Fatalf("expected wrapped not found error to be detected")
	}
	if content.IsUnauthorized(notFound) {
		t.Fatalf("not found must not classify as unauthorized")
	}

	denied := content.Unauthorized(content.ModuleContent, content.FunctionRead)
	if !content.IsUnauthorized(denied) {
		t.Fatalf("expected unauthorized error to be detected")
	}
	if got, want := denied.Error(), "[unauthorized:UNAUTHORIZED] user does not have access to content/read"; got != want {
		t.Fatalf("error message mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestFieldDefinitionUpdateMergesSettings(t *testing.T) {
	required := true
	def := content.FieldDefinition{
		Identifier:    "category",
		Names:         map[string]string{"eng-GB": "Category"},
		FieldSettings: map[string]any{"isMultiple": false, "options": []any{"News"}},
		ValidatorConfiguration: map[string]any{
			"StringLengthValidator": map[string]any{"minStringLength": 1, "maxStringLength": 10},
		},
	}
	update := content.FieldDefinitionUpdateStruct{
		Names:         map[string]string{"fre-FR": "Catégorie"},
		IsRequired:    &required,
		FieldSettings: map[string]any{"isMultiple": true},
		ValidatorConfiguration: map[string]any{
			"StringLengthValidator": map[string]any{"maxStringLength": 40},
		},
	}

	got := update.Apply(def)
	want := content.FieldDefinition{
		Identifier:    "category",
		Names:         map[string]string{"eng-GB": "Category", "fre-FR": "Catégorie"},
		IsRequired:    true,
		FieldSettings: map[string]any{"isMultiple": true, "options": []any{"News"}},
		ValidatorConfiguration: map[string]any{
			"StringLengthValidator": map[string]any{"minStringLength": 1, "maxStringLength": 40},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("updated definition mismatch (-want +got):\n%s", diff)
	}
	if def.FieldSettings["isMultiple"] != false {
		t.Fatalf("Apply must not modify the stored definition")
	}
}

func TestContentTypeValidate(t *testing.T) {
	valid := content.ContentType{
		Identifier: "article",
		FieldDefinitions: []content.FieldDefinition{
			{Identifier: "title", FieldTypeIdentifier: "ezstring"},
			{Identifier: "published", FieldTypeIdentifier: "ezdate"},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	cases := map[string]content.ContentType{
		"no identifier": {},
		"field without identifier": {
			Identifier:       "article",
			FieldDefinitions: []content.FieldDefinition{{FieldTypeIdentifier: "ezstring"}},
		},
		"field without type": {
			Identifier:       "article",
			FieldDefinitions: []content.FieldDefinition{{Identifier: "title"}},
		},
		"repeated field": {
			Identifier: "article",
			FieldDefinitions: []content.FieldDefinition{
				{Identifier: "title", FieldTypeIdentifier: "ezstring"},
				{Identifier: "title", FieldTypeIdentifier: "ezdate"},
			},
		},
	}
	for name, ct := range cases {
		if err := ct.Validate(); !content.IsInvalidArgument(err) {
			t.Fatalf("%s: expected invalid argument, got %v", name, err)
		}
	}
}
