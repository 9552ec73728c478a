package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-repoforms/pkg/content"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

// CreatePath returns the create route of a content type in language.
func CreatePath(identifier, language string) string {
	return fmt.Sprintf("/content/create/nodraft/%s/%s/{parentLocationId}", identifier, language)
}

// SchemaName is the components key of a content type's create payload.
func SchemaName(identifier string) string {
	return identifier + "Create"
}

// DocumentFor wraps SchemaFor into an OpenAPI document holding the create
// operation of the content type. The document is validated before it is
// returned.
func DocumentFor(ctx context.Context, contentType content.ContentType, language string, opts ...Option) (*openapi3.T, error) {
	schema, err := SchemaFor(ctx, contentType, language, opts...)
	if err != nil {
		return nil, err
	}
	name := SchemaName(contentType.Identifier)
	ref := openapi3.NewSchemaRef("#/components/schemas/"+name, schema)

	parent := openapi3.NewPathParameter("parentLocationId").
		WithSchema(openapi3.NewInt64Schema().WithMin(1))
	parent.Description = "Location the content is created under."

	operation := &openapi3.Operation{
		OperationID: "create_" + contentType.Identifier,
		Summary:     fmt.Sprintf("Create %s", contentType.Name(language)),
		Parameters:  openapi3.Parameters{{Value: parent}},
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusSeeOther, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Content published; redirects to its location."),
			}),
			openapi3.WithStatus(http.StatusNotFound, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Unknown content type or parent location."),
			}),
			openapi3.WithStatus(http.StatusForbidden, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("The user may not create content here."),
			}),
			openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("The payload failed validation."),
			}),
		),
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:   contentType.Name(language),
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(CreatePath(contentType.Identifier, language), &openapi3.PathItem{Post: operation}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{name: openapi3.NewSchemaRef("", schema)},
		},
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: document for %q: %w", contentType.Identifier, err)
	}
	return doc, nil
}

// LoadDocument parses and validates a serialized document, JSON or YAML.
func LoadDocument(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// CreateSchema returns the request schema of the create operation of
// identifier in a loaded document.
func CreateSchema(doc *openapi3.T, identifier string) (*openapi3.Schema, error) {
	if doc == nil || doc.Components == nil {
		return nil, errors.New("openapi: document has no components")
	}
	ref, ok := doc.Components.Schemas[SchemaName(identifier)]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: no create schema for %q", identifier)
	}
	return ref.Value, nil
}
