// Package mapper builds form data from content types and stored content and
// turns bound form data back into repository create and update structs.
package mapper

import (
	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/data"
	"github.com/goliatone/go-repoforms/pkg/fieldtype"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// CreateParams is the context of a content create form.
type CreateParams struct {
	MainLanguageCode string
	ParentLocation   content.LocationCreateStruct
}

// ContentCreateMapper maps a content type to ContentCreateData.
type ContentCreateMapper struct {
	registry *fieldtype.Registry
}

// NewContentCreateMapper returns a mapper resolving default values through
// registry. A nil registry uses the built-in components.
func NewContentCreateMapper(registry *fieldtype.Registry) *ContentCreateMapper {
	if registry == nil {
		registry = fieldtype.NewDefaultRegistry()
	}
	return &ContentCreateMapper{registry: registry}
}

// MapToFormData creates one FieldData per field definition, in definition
// order, holding the definition's default value. A content type without
// definitions yields empty fields.
func (m *ContentCreateMapper) MapToFormData(contentType content.ContentType, params CreateParams) *data.ContentCreateData {
	out := &data.ContentCreateData{
		ContentType:      contentType,
		MainLanguageCode: params.MainLanguageCode,
		ParentLocation:   params.ParentLocation,
	}
	for _, def := range contentType.SortedFieldDefinitions() {
		out.FieldsData.Add(&data.FieldData{
			FieldDefinition: def,
			Value:           m.defaultValue(def),
		})
	}
	return out
}

// MapToUserFormData maps a content type holding an ezuser field. The first
// ezuser definition carries the account.
func (m *ContentCreateMapper) MapToUserFormData(contentType content.ContentType, params CreateParams) *data.UserCreateData {
	out := &data.UserCreateData{ContentCreateData: *m.MapToFormData(contentType, params)}
	for _, def := range contentType.SortedFieldDefinitions() {
		if def.FieldTypeIdentifier == UserFieldType {
			out.UserFieldIdentifier = def.Identifier
			break
		}
	}
	return out
}

// Map picks MapToUserFormData for content types holding an ezuser field and
// MapToFormData otherwise.
func (m *ContentCreateMapper) Map(contentType content.ContentType, params CreateParams) data.FieldsHolder {
	if contentType.HasFieldType(UserFieldType) {
		return m.MapToUserFormData(contentType, params)
	}
	return m.MapToFormData(contentType, params)
}

// UserFieldType is the field type that turns a content form into a user
// create form.
const UserFieldType = "ezuser"

// defaultValue prefers the definition's DefaultValue and falls back to the
// component's empty value when it is unset or cannot be bound.
func (m *ContentCreateMapper) defaultValue(def content.FieldDefinition) value.Value {
	component, err := m.registry.Get(def.FieldTypeIdentifier)
	if err != nil {
		return nil
	}
	if def.DefaultValue != nil {
		if v, err := component.BindValue(def, def.DefaultValue); err == nil {
			return v
		}
	}
	return component.EmptyValue(def)
}
