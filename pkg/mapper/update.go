package mapper

import (
	"fmt"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/data"
	"github.com/goliatone/go-repoforms/pkg/fieldtype"
)

// UpdateParams is the context of a draft edit or translation form.
type UpdateParams struct {
	// LanguageCode is the language being edited.
	LanguageCode string
	// InitialLanguageCode seeds the values; defaults to LanguageCode.
	InitialLanguageCode string
}

// ContentUpdateMapper maps stored content to ContentUpdateData.
type ContentUpdateMapper struct {
	registry *fieldtype.Registry
}

// NewContentUpdateMapper returns a mapper binding stored values through
// registry. A nil registry uses the built-in components.
func NewContentUpdateMapper(registry *fieldtype.Registry) *ContentUpdateMapper {
	if registry == nil {
		registry = fieldtype.NewDefaultRegistry()
	}
	return &ContentUpdateMapper{registry: registry}
}

// MapToFormData seeds one FieldData per definition from the stored values in
// the initial language, falling back to the main language of the content.
// Fields without a stored value start empty.
func (m *ContentUpdateMapper) MapToFormData(c content.Content, contentType content.ContentType, params UpdateParams) (*data.ContentUpdateData, error) {
	initial := params.InitialLanguageCode
	if initial == "" {
		initial = params.LanguageCode
	}
	out := &data.ContentUpdateData{
		ContentType:         contentType,
		ContentID:           c.ID,
		VersionNo:           c.VersionNo,
		InitialLanguageCode: initial,
		LanguageCode:        params.LanguageCode,
	}

	for _, def := range contentType.SortedFieldDefinitions() {
		component, err := m.registry.Get(def.FieldTypeIdentifier)
		if err != nil {
			return nil, fmt.Errorf("mapper: field %q: %w", def.Identifier, err)
		}

		raw, ok := c.FieldValue(def.Identifier, initial)
		if !ok {
			raw, ok = c.FieldValue(def.Identifier, c.MainLanguageCode)
		}
		fd := &data.FieldData{FieldDefinition: def, Value: component.EmptyValue(def)}
		if ok {
			v, err := component.BindValue(def, raw)
			if err != nil {
				return nil, fmt.Errorf("mapper: stored value of field %q: %w", def.Identifier, err)
			}
			fd.Value = v
		}
		out.FieldsData.Add(fd)
	}
	return out, nil
}
