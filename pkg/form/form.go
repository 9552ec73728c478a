package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/transformer"
)

// Messages attached by the form itself. Components add their own through
// constraints.
var (
	RequiredMessage = "This value should not be blank."
	InvalidMessage  = "This value is not valid."
)

// Form is one node of a bound form tree. Leaves hold a submitted value;
// compound nodes hold children and, when they carry data, map it to and from
// their children by name.
type Form struct {
	name     string
	parent   *Form
	config   config
	children []*Form

	mapped    bool
	modelData any
	normData  any
	viewData  any

	submitted            bool
	clicked              bool
	transformationFailed bool
	transformErr         error
	errors               []string
}

// Name returns the node name.
func (f *Form) Name() string { return f.name }

// Parent returns the parent node or nil for the root.
func (f *Form) Parent() *Form { return f.parent }

// Root walks up to the root node.
func (f *Form) Root() *Form {
	node := f
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// IsRoot reports whether f has no parent.
func (f *Form) IsRoot() bool { return f.parent == nil }

// Children returns the child nodes in declaration order.
func (f *Form) Children() []*Form { return append([]*Form(nil), f.children...) }

// Child returns a direct child by name.
func (f *Form) Child(name string) (*Form, bool) {
	for _, child := range f.children {
		if child.name == name {
			return child, true
		}
	}
	return nil, false
}

// Get resolves a dotted path relative to f, e.g. "fieldsData.title.value".
func (f *Form) Get(path string) (*Form, bool) {
	node := f
	for _, segment := range strings.Split(strings.Trim(path, "."), ".") {
		if segment == "" {
			continue
		}
		child, ok := node.Child(segment)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// FullName is the HTML name attribute, e.g. root[fieldsData][title][value].
func (f *Form) FullName() string {
	if f.parent == nil {
		return f.name
	}
	return f.parent.FullName() + "[" + f.name + "]"
}

// ID is the HTML id attribute, e.g. root_fieldsData_title_value.
func (f *Form) ID() string {
	if f.parent == nil {
		return f.name
	}
	return f.parent.ID() + "_" + f.name
}

// Path is the dotted path below the root; the root itself has an empty path.
func (f *Form) Path() string {
	if f.parent == nil {
		return ""
	}
	if parent := f.parent.Path(); parent != "" {
		return parent + "." + f.name
	}
	return f.name
}

// Label returns the configured label.
func (f *Form) Label() string { return f.config.label }

// IsRequired reports the required flag.
func (f *Form) IsRequired() bool { return f.config.required }

// IsDisabled reports the disabled flag.
func (f *Form) IsDisabled() bool { return f.config.disabled }

// Widget returns the base widget.
func (f *Form) Widget() Widget { return f.config.widget }

// BlockPrefix returns the component block prefix, or "" for bare widgets.
func (f *Form) BlockPrefix() string { return f.config.blockPrefix }

// IsCompound reports whether the node groups children.
func (f *Form) IsCompound() bool { return f.config.widget.Compound }

// Choices returns the choice options.
func (f *Form) Choices() []Choice { return append([]Choice(nil), f.config.choices...) }

// Method returns the HTTP method of the root form.
func (f *Form) Method() string { return f.Root().config.method }

// Action returns the action URL of the root form.
func (f *Form) Action() string { return f.Root().config.action }

// Data returns the domain data. After a failed transformation it keeps the
// last valid value.
func (f *Form) Data() any { return f.modelData }

// NormData returns the normalized data between model and view.
func (f *Form) NormData() any { return f.normData }

// ViewData returns what the widget displays: a string, a []string for
// multiple choices, or nil for compound nodes.
func (f *Form) ViewData() any { return f.viewData }

// SetData replaces the domain data and refreshes the subtree.
func (f *Form) SetData(data any) error {
	f.config.data = data
	f.config.hasData = true
	return f.setData(data)
}

// IsSubmitted reports whether Submit or HandleRequest bound values.
func (f *Form) IsSubmitted() bool { return f.submitted }

// TransformationFailed reports whether submitted input could not be
// converted for this node.
func (f *Form) TransformationFailed() bool { return f.transformationFailed }

// TransformationError returns the underlying transformer error, if any.
func (f *Form) TransformationError() error { return f.transformErr }

// IsValid reports whether the form was submitted and no node has errors.
func (f *Form) IsValid() bool {
	if !f.submitted {
		return false
	}
	return !f.hasErrors()
}

func (f *Form) hasErrors() bool {
	if len(f.errors) > 0 {
		return true
	}
	for _, child := range f.children {
		if child.hasErrors() {
			return true
		}
	}
	return false
}

// OwnErrors returns the errors attached to this node only.
func (f *Form) OwnErrors() []string { return append([]string(nil), f.errors...) }

// AddError attaches an error to the node.
func (f *Form) AddError(message string) {
	if message = strings.TrimSpace(message); message != "" {
		f.errors = append(f.errors, message)
	}
}

// Errors collects errors of the subtree keyed by Path. Errors of the root
// are keyed by "".
func (f *Form) Errors() map[string][]string {
	out := make(map[string][]string)
	f.collectErrors(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func (f *Form) collectErrors(dest map[string][]string) {
	if len(f.errors) > 0 {
		dest[f.Path()] = append(dest[f.Path()], f.errors...)
	}
	for _, child := range f.children {
		child.collectErrors(dest)
	}
}

// ClickedButton returns the path of the submit button used, or "".
func (f *Form) ClickedButton() string {
	if f.config.widget.Button && f.clicked {
		return f.Path()
	}
	for _, child := range f.children {
		if name := child.ClickedButton(); name != "" {
			return name
		}
	}
	return ""
}

// Submit binds values (a nested map keyed by child name) and validates the
// tree. Submitting a non-root node only binds that subtree.
func (f *Form) Submit(values any) {
	f.submit(values)
	f.validate()
}

func (f *Form) initData() error {
	if f.config.hasData || !f.IsCompound() || len(f.config.modelTransformers) > 0 {
		return f.setData(f.config.data)
	}
	for _, child := range f.children {
		if err := child.initData(); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) setData(model any) error {
	f.modelData = model
	if f.config.widget.Button {
		return nil
	}

	norm, err := f.config.modelTransformers.Transform(model)
	if err != nil {
		return fmt.Errorf("form: transform data of %q: %w", f.ID(), err)
	}
	f.normData = norm

	if !f.IsCompound() {
		view, err := f.viewTransformer().Transform(norm)
		if err != nil {
			return fmt.Errorf("form: transform view data of %q: %w", f.ID(), err)
		}
		f.viewData = view
		return nil
	}

	f.mapped = true
	values, _ := norm.(map[string]any)
	for _, child := range f.children {
		if child.config.hasData {
			if err := child.initData(); err != nil {
				return err
			}
			continue
		}
		if err := child.setData(values[child.name]); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) submit(submitted any) {
	f.submitted = true
	f.errors = nil
	f.transformationFailed = false
	f.transformErr = nil

	if f.config.disabled {
		return
	}
	if f.config.widget.Button {
		f.clicked = submitted != nil
		return
	}

	if f.IsCompound() {
		values, _ := submitted.(map[string]any)
		for _, child := range f.children {
			child.submit(values[child.name])
		}
		if f.mapped {
			f.reverseFromChildren()
		}
	} else {
		f.reverseFromView(normalizeSubmitted(submitted, f.config.multiple))
	}

	for _, hook := range f.config.submitHooks {
		hook(f)
	}
}

func (f *Form) reverseFromChildren() {
	norm := make(map[string]any, len(f.children))
	for _, child := range f.children {
		if child.config.widget.Button {
			continue
		}
		if child.transformationFailed {
			return
		}
		norm[child.name] = child.modelData
	}
	model, err := f.config.modelTransformers.ReverseTransform(norm)
	if err != nil {
		f.fail(err)
		return
	}
	f.normData = norm
	f.modelData = model
}

func (f *Form) reverseFromView(view any) {
	f.viewData = view
	norm, err := f.viewTransformer().ReverseTransform(view)
	if err != nil {
		f.fail(err)
		return
	}
	model, err := f.config.modelTransformers.ReverseTransform(norm)
	if err != nil {
		f.fail(err)
		return
	}
	f.normData = norm
	f.modelData = model
}

func (f *Form) fail(err error) {
	f.transformationFailed = true
	f.transformErr = err
	msg := f.config.invalidMessage
	if msg == "" {
		msg = InvalidMessage
	}
	f.errors = append(f.errors, msg)
}

func (f *Form) validate() {
	for _, child := range f.children {
		child.validate()
	}
	if !f.submitted || f.transformationFailed || f.config.disabled || f.config.widget.Button {
		return
	}
	if f.config.required && !f.IsCompound() && isEmptyValue(f.normData) {
		f.errors = append(f.errors, RequiredMessage)
		return
	}
	for _, constraint := range f.config.constraints {
		for _, msg := range constraint(f) {
			f.AddError(msg)
		}
	}
}

func (f *Form) viewTransformer() transformer.DataTransformer {
	if f.config.widget.ViewTransformer == nil {
		return transformer.Funcs{}
	}
	return f.config.widget.ViewTransformer
}

func normalizeSubmitted(submitted any, multiple bool) any {
	switch typed := submitted.(type) {
	case nil:
		if multiple {
			return []string(nil)
		}
		return ""
	case string:
		if multiple {
			if typed == "" {
				return []string(nil)
			}
			return []string{typed}
		}
		return typed
	case []string:
		if multiple {
			return typed
		}
		if len(typed) == 0 {
			return ""
		}
		return typed[0]
	default:
		if multiple {
			return []string{fmt.Sprint(typed)}
		}
		return fmt.Sprint(typed)
	}
}

func isEmptyValue(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case bool:
		return !typed
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
