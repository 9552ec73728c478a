// Package openapi describes content create payloads as OpenAPI schemas. The
// schema is derived from the same form the HTML renderer draws, so a JSON
// client and a browser are held to the same inputs.
package openapi

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/formtype"
	"github.com/goliatone/go-repoforms/pkg/mapper"
)

// Option configures schema generation.
type Option func(*options)

type options struct {
	factory *formtype.Factory
}

// WithFactory sets the form factory. Defaults to formtype.NewFactory().
func WithFactory(factory *formtype.Factory) Option {
	return func(o *options) {
		if factory != nil {
			o.factory = factory
		}
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.factory == nil {
		o.factory = formtype.NewFactory()
	}
	return o
}

// Date inputs accept timestamps between 0001-01-01 and 9999-12-31.
const (
	minTimestamp = -62135596800
	maxTimestamp = 253402300799
)

// SchemaFor returns the schema of the create payload of contentType in
// language: {"fieldsData": {"<identifier>": {"value": ...}}}.
func SchemaFor(ctx context.Context, contentType content.ContentType, language string, opts ...Option) (*openapi3.Schema, error) {
	o := newOptions(opts)
	m := mapper.NewContentCreateMapper(o.factory.Registry())
	f, err := o.factory.CreateFor(
		m.Map(contentType, mapper.CreateParams{MainLanguageCode: language}),
		form.WithLanguageCode(language),
		form.WithMainLanguageCode(language),
	)
	if err != nil {
		return nil, fmt.Errorf("openapi: build form for %q: %w", contentType.Identifier, err)
	}

	schema := SchemaFromView(f.CreateView(ctx))
	schema.Title = contentType.Name(language)
	return schema, nil
}

// SchemaFromView converts a form view into an object schema. Buttons and
// hidden inputs are skipped; required children are listed on their parent.
func SchemaFromView(view *form.View) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, child := range view.Children {
		switch child.Vars.InputType {
		case "submit", "hidden":
			continue
		}
		schema.WithProperty(child.Vars.Name, schemaFor(child))
		if requires(child) {
			schema.Required = append(schema.Required, child.Vars.Name)
		}
	}
	return schema
}

// requires reports whether a payload must carry view: it is required itself
// or holds a required input.
func requires(view *form.View) bool {
	if view.Vars.Required {
		return true
	}
	if !view.Vars.Compound {
		return false
	}
	for _, child := range view.Children {
		if child.Vars.InputType != "submit" && requires(child) {
			return true
		}
	}
	return false
}

func schemaFor(view *form.View) *openapi3.Schema {
	vars := view.Vars
	if vars.Compound {
		return SchemaFromView(view)
	}

	var schema *openapi3.Schema
	switch vars.InputType {
	case "number":
		if slices.Contains(vars.BlockPrefixes, form.WidgetInteger) {
			schema = openapi3.NewIntegerSchema()
		} else {
			schema = openapi3.NewFloat64Schema()
		}
		if minimum, ok := floatAttr(vars, "min"); ok {
			schema.WithMin(minimum)
		}
		if maximum, ok := floatAttr(vars, "max"); ok {
			schema.WithMax(maximum)
		}
		switch vars.Hints["field_type"] {
		case "ezdate", "ezdatetime":
			schema.WithMin(minTimestamp).WithMax(maxTimestamp)
			schema.Description = "Unix timestamp"
		}
	case "checkbox":
		schema = openapi3.NewBoolSchema()
	case "select":
		schema = choiceSchema(vars)
	default:
		schema = openapi3.NewStringSchema()
		switch vars.InputType {
		case "email":
			schema.Format = "email"
		case "url":
			schema.Format = "uri"
		case "password":
			schema.Format = "password"
		}
		if maxLength, ok := floatAttr(vars, "maxlength"); ok {
			schema.WithMaxLength(int64(maxLength))
		}
		if vars.Required {
			schema.WithMinLength(1)
		}
	}

	if vars.Label != "" && schema.Title == "" {
		schema.Title = vars.Label
	}
	if !vars.Required {
		schema.Nullable = true
	}
	return schema
}

func choiceSchema(vars form.Vars) *openapi3.Schema {
	values := make([]any, 0, len(vars.Choices))
	for _, choice := range vars.Choices {
		values = append(values, choice.Value)
	}
	item := openapi3.NewStringSchema().WithEnum(values...)
	if !vars.Multiple {
		return item
	}
	schema := openapi3.NewArraySchema().WithItems(item)
	schema.UniqueItems = true
	if vars.Required {
		schema.WithMinItems(1)
	}
	return schema
}

func floatAttr(vars form.Vars, name string) (float64, bool) {
	raw, ok := vars.Attr[name]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	return f, err == nil
}
