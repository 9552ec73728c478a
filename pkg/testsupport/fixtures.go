package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-repoforms/pkg/content"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// SingleFieldContentType returns a content type with one field named
// "field", labelled "Field" in eng-GB.
func SingleFieldContentType(fieldType string, required bool) content.ContentType {
	return content.ContentType{
		Identifier:       "test_" + fieldType,
		MainLanguageCode: "eng-GB",
		Names:            map[string]string{"eng-GB": "Test " + fieldType},
		FieldDefinitions: []content.FieldDefinition{{
			Identifier:          "field",
			FieldTypeIdentifier: fieldType,
			Names:               map[string]string{"eng-GB": "Field"},
			IsRequired:          required,
			IsTranslatable:      true,
		}},
	}
}
