package content

import (
	"fmt"
	"sort"
	"strings"
)

// ContentType describes a class of content as an ordered list of field
// definitions. Values returned by a ContentTypeService are treated as
// immutable for the duration of a request.
type ContentType struct {
	ID               int64             `json:"id" yaml:"id"`
	Identifier       string            `json:"identifier" yaml:"identifier"`
	MainLanguageCode string            `json:"mainLanguageCode" yaml:"mainLanguageCode"`
	Names            map[string]string `json:"names,omitempty" yaml:"names,omitempty"`
	FieldDefinitions []FieldDefinition `json:"fieldDefinitions" yaml:"fieldDefinitions"`
}

// FieldDefinition is one typed slot within a ContentType.
type FieldDefinition struct {
	ID                     int64             `json:"id" yaml:"id"`
	Identifier             string            `json:"identifier" yaml:"identifier"`
	FieldTypeIdentifier    string            `json:"fieldTypeIdentifier" yaml:"fieldTypeIdentifier"`
	Names                  map[string]string `json:"names,omitempty" yaml:"names,omitempty"`
	Descriptions           map[string]string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
	FieldSettings          map[string]any    `json:"fieldSettings,omitempty" yaml:"fieldSettings,omitempty"`
	ValidatorConfiguration map[string]any    `json:"validatorConfiguration,omitempty" yaml:"validatorConfiguration,omitempty"`
	DefaultValue           any               `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	IsRequired             bool              `json:"isRequired" yaml:"isRequired"`
	IsTranslatable         bool              `json:"isTranslatable" yaml:"isTranslatable"`
	Position               int               `json:"position" yaml:"position"`
}

// FieldDefinition looks up a definition by identifier.
func (ct ContentType) FieldDefinition(identifier string) (FieldDefinition, bool) {
	for _, def := range ct.FieldDefinitions {
		if def.Identifier == identifier {
			return def, true
		}
	}
	return FieldDefinition{}, false
}

// Validate checks the identifier of the content type and of each field
// definition. Field identifiers must be unique within the content type.
func (ct ContentType) Validate() error {
	if strings.TrimSpace(ct.Identifier) == "" {
		return InvalidArgument("identifier", "content type identifier is required")
	}
	seen := make(map[string]struct{}, len(ct.FieldDefinitions))
	for i, def := range ct.FieldDefinitions {
		if strings.TrimSpace(def.Identifier) == "" {
			return InvalidArgument("fieldDefinitions", fmt.Sprintf("field definition %d of %q has no identifier", i, ct.Identifier))
		}
		if strings.TrimSpace(def.FieldTypeIdentifier) == "" {
			return InvalidArgument("fieldDefinitions", fmt.Sprintf("field %q of %q has no field type", def.Identifier, ct.Identifier))
		}
		if _, dup := seen[def.Identifier]; dup {
			return InvalidArgument("fieldDefinitions", fmt.Sprintf("content type %q repeats field %q", ct.Identifier, def.Identifier))
		}
		seen[def.Identifier] = struct{}{}
	}
	return nil
}

// HasFieldType reports whether any definition uses the given field type.
func (ct ContentType) HasFieldType(fieldTypeIdentifier string) bool {
	for _, def := range ct.FieldDefinitions {
		if def.FieldTypeIdentifier == fieldTypeIdentifier {
			return true
		}
	}
	return false
}

// Name resolves the content type name for a language, falling back to the
// main language and then the identifier.
func (ct ContentType) Name(languageCode string) string {
	return pickTranslation(ct.Names, languageCode, ct.MainLanguageCode, ct.Identifier)
}

// SortedFieldDefinitions returns a copy ordered by Position. Ties keep their
// declaration order.
func (ct ContentType) SortedFieldDefinitions() []FieldDefinition {
	out := make([]FieldDefinition, len(ct.FieldDefinitions))
	copy(out, ct.FieldDefinitions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// Name resolves the field name for a language. Definitions without any name
// fall back to their identifier.
func (fd FieldDefinition) Name(languageCode string) string {
	return pickTranslation(fd.Names, languageCode, "", fd.Identifier)
}

// Description resolves the description for a language, or "" when unset.
func (fd FieldDefinition) Description(languageCode string) string {
	return pickTranslation(fd.Descriptions, languageCode, "", "")
}

// Setting returns a field setting by key.
func (fd FieldDefinition) Setting(key string) (any, bool) {
	if fd.FieldSettings == nil {
		return nil, false
	}
	v, ok := fd.FieldSettings[key]
	return v, ok
}

// Validator returns the constraint map configured for a named validator, for
// example "StringLengthValidator".
func (fd FieldDefinition) Validator(name string) map[string]any {
	if fd.ValidatorConfiguration == nil {
		return nil
	}
	raw, ok := fd.ValidatorConfiguration[name]
	if !ok {
		return nil
	}
	switch typed := raw.(type) {
	case map[string]any:
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			if key, ok := k.(string); ok {
				out[key] = v
			}
		}
		return out
	default:
		return nil
	}
}

func pickTranslation(values map[string]string, languageCode, fallbackLanguage, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	if v := strings.TrimSpace(values[languageCode]); v != "" {
		return v
	}
	if fallbackLanguage != "" {
		if v := strings.TrimSpace(values[fallbackLanguage]); v != "" {
			return v
		}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := strings.TrimSpace(values[k]); v != "" {
			return v
		}
	}
	return fallback
}

// Location is a placement node in the content tree.
type Location struct {
	ID               int64  `json:"id" yaml:"id"`
	ContentID        int64  `json:"contentId" yaml:"contentId"`
	ParentLocationID int64  `json:"parentLocationId" yaml:"parentLocationId"`
	PathString       string `json:"pathString" yaml:"pathString"`
	Hidden           bool   `json:"hidden" yaml:"hidden"`
}

// LocationCreateStruct references the parent a new content item is placed
// under.
type LocationCreateStruct struct {
	ParentLocationID int64 `json:"parentLocationId"`
}

// Content is a stored content item with its field values per language.
type Content struct {
	ID                    int64                     `json:"id" yaml:"id"`
	RemoteID              string                    `json:"remoteId" yaml:"remoteId"`
	ContentTypeIdentifier string                    `json:"contentTypeIdentifier" yaml:"contentTypeIdentifier"`
	VersionNo             int                       `json:"versionNo" yaml:"versionNo"`
	MainLanguageCode      string                    `json:"mainLanguageCode" yaml:"mainLanguageCode"`
	MainLocationID        int64                     `json:"mainLocationId" yaml:"mainLocationId"`
	Published             bool                      `json:"published" yaml:"published"`
	Fields                map[string]map[string]any `json:"fields" yaml:"fields"`
}

// FieldValue returns the stored value of a field in a language.
func (c Content) FieldValue(fieldIdentifier, languageCode string) (any, bool) {
	perLanguage, ok := c.Fields[fieldIdentifier]
	if !ok {
		return nil, false
	}
	v, ok := perLanguage[languageCode]
	return v, ok
}

// Languages lists the languages the content has values for, sorted.
func (c Content) Languages() []string {
	seen := make(map[string]struct{})
	for _, perLanguage := range c.Fields {
		for lang := range perLanguage {
			seen[lang] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// ContentCreateStruct carries everything needed to create and publish a
// content item.
type ContentCreateStruct struct {
	ContentTypeIdentifier string
	MainLanguageCode      string
	Locations             []LocationCreateStruct
	Fields                map[string]any
}

// ContentUpdateStruct writes field values of one language into an existing
// version.
type ContentUpdateStruct struct {
	ContentID    int64
	VersionNo    int
	LanguageCode string
	Fields       map[string]any
}

// FieldDefinitionUpdateStruct describes a partial update. Nil pointers and
// nil maps leave the stored value untouched; FieldSettings are merged.
type FieldDefinitionUpdateStruct struct {
	Names                  map[string]string
	Descriptions           map[string]string
	IsRequired             *bool
	FieldSettings          map[string]any
	ValidatorConfiguration map[string]any
	Position               *int
}
