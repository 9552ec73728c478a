// Package data holds the structures forms are bound to. They are created per
// request by the mappers, filled by form submission and handed to
// persistence afterwards.
package data

import (
	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// FieldData is the value container for one field definition.
type FieldData struct {
	FieldDefinition content.FieldDefinition
	Value           value.Value
}

// Identifier returns the identifier of the underlying definition.
func (fd *FieldData) Identifier() string {
	return fd.FieldDefinition.Identifier
}

// FieldsData keeps FieldData in field definition order and indexes it by
// field identifier.
type FieldsData struct {
	order []string
	items map[string]*FieldData
}

// Add appends fd. Adding an identifier twice replaces the earlier entry and
// keeps its position.
func (f *FieldsData) Add(fd *FieldData) {
	if fd == nil {
		return
	}
	if f.items == nil {
		f.items = make(map[string]*FieldData)
	}
	id := fd.Identifier()
	if _, exists := f.items[id]; !exists {
		f.order = append(f.order, id)
	}
	f.items[id] = fd
}

// Get returns the FieldData for a field identifier.
func (f *FieldsData) Get(identifier string) (*FieldData, bool) {
	fd, ok := f.items[identifier]
	return fd, ok
}

// Len returns the number of entries.
func (f *FieldsData) Len() int { return len(f.order) }

// Identifiers returns field identifiers in insertion order.
func (f *FieldsData) Identifiers() []string {
	return append([]string(nil), f.order...)
}

// All returns the entries in insertion order.
func (f *FieldsData) All() []*FieldData {
	out := make([]*FieldData, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.items[id])
	}
	return out
}

// Values returns the current values keyed by field identifier.
func (f *FieldsData) Values() map[string]value.Value {
	out := make(map[string]value.Value, len(f.order))
	for _, id := range f.order {
		out[id] = f.items[id].Value
	}
	return out
}

// FieldsHolder is implemented by every form data structure.
type FieldsHolder interface {
	Fields() *FieldsData
}

// ContentCreateData backs the content_edit form when creating content.
type ContentCreateData struct {
	ContentType      content.ContentType
	MainLanguageCode string
	ParentLocation   content.LocationCreateStruct
	FieldsData       FieldsData
}

// Fields implements FieldsHolder.
func (d *ContentCreateData) Fields() *FieldsData { return &d.FieldsData }

// ContentUpdateData backs the content_edit form for draft edits and
// translations.
type ContentUpdateData struct {
	ContentType         content.ContentType
	ContentID           int64
	VersionNo           int
	InitialLanguageCode string
	LanguageCode        string
	FieldsData          FieldsData
}

// Fields implements FieldsHolder.
func (d *ContentUpdateData) Fields() *FieldsData { return &d.FieldsData }

// IsTranslation reports whether the form edits a language other than the one
// the values were seeded from.
func (d *ContentUpdateData) IsTranslation() bool {
	return d.InitialLanguageCode != "" && d.InitialLanguageCode != d.LanguageCode
}

// UserCreateData backs the user_create form. The account lives in the
// FieldData of the ezuser field named by UserFieldIdentifier.
type UserCreateData struct {
	ContentCreateData
	UserFieldIdentifier string
}

// Account returns the bound user account, if any.
func (d *UserCreateData) Account() (value.UserAccount, bool) {
	fd, ok := d.FieldsData.Get(d.UserFieldIdentifier)
	if !ok {
		return value.UserAccount{}, false
	}
	account, ok := fd.Value.(value.UserAccount)
	return account, ok
}
