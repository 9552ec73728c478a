package render

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/form"
)

// MethodOverrideField is the hidden input carrying verbs browsers cannot
// submit.
const MethodOverrideField = "_method"

// HiddenField represents a hidden input emitted alongside the form tree.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields sorts hidden fields by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return result
}

// Submission is the resolved method, action and hidden inputs of a root
// view.
type Submission struct {
	Method string
	Action string
	Hidden []HiddenField
}

// ResolveSubmission combines the root view with the render options. Verbs
// other than GET and POST are sent as POST with a _method field.
func ResolveSubmission(root *form.View, opts RenderOptions) Submission {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	action := strings.TrimSpace(opts.Action)
	if root != nil {
		if method == "" {
			method = strings.ToUpper(root.Vars.Method)
		}
		if action == "" {
			action = root.Vars.Action
		}
	}
	if method == "" {
		method = http.MethodPost
	}

	hidden := opts.HiddenFields
	if method != http.MethodGet && method != http.MethodPost {
		hidden = MergeHiddenFields(hidden, Hidden(MethodOverrideField, method))
		method = http.MethodPost
	}
	return Submission{
		Method: method,
		Action: action,
		Hidden: SortedHiddenFields(hidden),
	}
}
