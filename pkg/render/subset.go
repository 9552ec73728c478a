package render

import (
	"strings"

	"github.com/goliatone/go-repoforms/pkg/form"
)

// FieldsDataName is the view child holding one node per field definition.
const FieldsDataName = "fieldsData"

// FieldSubset limits rendering to the named field definitions. An empty
// subset renders every field.
type FieldSubset struct {
	Fields []string
}

// Empty reports whether the subset keeps everything.
func (s FieldSubset) Empty() bool {
	for _, name := range s.Fields {
		if strings.TrimSpace(name) != "" {
			return false
		}
	}
	return true
}

// ApplySubset drops field nodes under fieldsData that the subset does not
// name. Buttons and hidden inputs stay.
func ApplySubset(root *form.View, subset FieldSubset) {
	if root == nil || subset.Empty() {
		return
	}
	fields, ok := root.Child(FieldsDataName)
	if !ok {
		return
	}
	keep := make(map[string]struct{}, len(subset.Fields))
	for _, name := range subset.Fields {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			keep[trimmed] = struct{}{}
		}
	}
	filtered := fields.Children[:0]
	for _, child := range fields.Children {
		if _, ok := keep[child.Vars.Name]; ok {
			filtered = append(filtered, child)
		}
	}
	fields.Children = filtered
}

// Prepare applies the option-driven view mutations every renderer shares:
// subset filtering, server errors and localisation. It returns the
// form-level errors to display.
func Prepare(root *form.View, opts RenderOptions) []string {
	ApplySubset(root, opts.Subset)
	unmatched := ApplyErrors(root, opts.Errors)
	LocalizeView(root, opts)

	var formErrors []string
	if root != nil {
		formErrors = append(formErrors, root.Vars.Errors...)
	}
	return MergeFormErrors(formErrors, append(opts.FormErrors, unmatched...)...)
}
