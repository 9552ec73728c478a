package mapper

import (
	"fmt"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/data"
	"github.com/goliatone/go-repoforms/pkg/fieldtype"
)

// ToCreateStruct converts bound create data into a repository create struct.
// Field values are stored as component hashes.
func ToCreateStruct(registry *fieldtype.Registry, d *data.ContentCreateData) (content.ContentCreateStruct, error) {
	fields, err := hashes(registry, &d.FieldsData)
	if err != nil {
		return content.ContentCreateStruct{}, err
	}
	return content.ContentCreateStruct{
		ContentTypeIdentifier: d.ContentType.Identifier,
		MainLanguageCode:      d.MainLanguageCode,
		Locations:             []content.LocationCreateStruct{d.ParentLocation},
		Fields:                fields,
	}, nil
}

// ToUpdateStruct converts bound update data into a repository update struct.
func ToUpdateStruct(registry *fieldtype.Registry, d *data.ContentUpdateData) (content.ContentUpdateStruct, error) {
	fields, err := hashes(registry, &d.FieldsData)
	if err != nil {
		return content.ContentUpdateStruct{}, err
	}
	return content.ContentUpdateStruct{
		ContentID:    d.ContentID,
		VersionNo:    d.VersionNo,
		LanguageCode: d.LanguageCode,
		Fields:       fields,
	}, nil
}

func hashes(registry *fieldtype.Registry, fields *data.FieldsData) (map[string]any, error) {
	if registry == nil {
		registry = fieldtype.NewDefaultRegistry()
	}
	out := make(map[string]any, fields.Len())
	for _, fd := range fields.All() {
		component, err := registry.Get(fd.FieldDefinition.FieldTypeIdentifier)
		if err != nil {
			return nil, fmt.Errorf("mapper: field %q: %w", fd.Identifier(), err)
		}
		out[fd.Identifier()] = component.Hash(fd.Value)
	}
	return out, nil
}
