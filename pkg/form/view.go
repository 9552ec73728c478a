package form

import (
	"context"
	"slices"
	"strconv"
)

// Vars are the variables a renderer needs for one node.
type Vars struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	FullName      string            `json:"full_name"`
	Label         string            `json:"label,omitempty"`
	Help          string            `json:"help,omitempty"`
	InputType     string            `json:"input_type,omitempty"`
	Value         any               `json:"value,omitempty"`
	Checked       bool              `json:"checked,omitempty"`
	Required      bool              `json:"required"`
	Disabled      bool              `json:"disabled,omitempty"`
	Compound      bool              `json:"compound"`
	Multiple      bool              `json:"multiple,omitempty"`
	Expanded      bool              `json:"expanded,omitempty"`
	Valid         bool              `json:"valid"`
	Submitted     bool              `json:"submitted"`
	Attr          map[string]string `json:"attr,omitempty"`
	LabelAttr     map[string]string `json:"label_attr,omitempty"`
	Errors        []string          `json:"errors,omitempty"`
	BlockPrefixes []string          `json:"block_prefixes"`
	Choices       []ChoiceView      `json:"choices,omitempty"`
	Method        string            `json:"method,omitempty"`
	Action        string            `json:"action,omitempty"`
	Hints         map[string]string `json:"hints,omitempty"`
}

// ChoiceView is one rendered choice option.
type ChoiceView struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// View is the render tree built from a form for one request.
type View struct {
	Vars     Vars    `json:"vars"`
	Children []*View `json:"children,omitempty"`
}

// Child returns a direct child view by name.
func (v *View) Child(name string) (*View, bool) {
	for _, child := range v.Children {
		if child.Vars.Name == name {
			return child, true
		}
	}
	return nil, false
}

// Get resolves a dotted path of child names.
func (v *View) Get(path ...string) (*View, bool) {
	node := v
	for _, name := range path {
		child, ok := node.Child(name)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// SetAttr sets an attribute, allocating the map when needed.
func (v *View) SetAttr(name, value string) {
	if v.Vars.Attr == nil {
		v.Vars.Attr = make(map[string]string)
	}
	v.Vars.Attr[name] = value
}

// SetHint records a render hint consumed by renderers (CSS classes,
// visibility flags, widget modes).
func (v *View) SetHint(name, value string) {
	if v.Vars.Hints == nil {
		v.Vars.Hints = make(map[string]string)
	}
	v.Vars.Hints[name] = value
}

// BlockPrefix returns the most specific registered block prefix.
func (v *View) BlockPrefix() string {
	if len(v.Vars.BlockPrefixes) == 0 {
		return ""
	}
	return v.Vars.BlockPrefixes[len(v.Vars.BlockPrefixes)-1]
}

// Walk visits the view depth first.
func (v *View) Walk(fn func(*View)) {
	fn(v)
	for _, child := range v.Children {
		child.Walk(fn)
	}
}

// CreateView builds the render tree. View hooks see the request context and
// may read request details stored with ContextWithRequest.
func (f *Form) CreateView(ctx context.Context) *View {
	if ctx == nil {
		ctx = context.Background()
	}
	view := &View{Vars: f.vars()}
	for _, child := range f.children {
		view.Children = append(view.Children, child.CreateView(ctx))
	}
	for _, hook := range f.config.viewHooks {
		hook(ctx, view)
	}
	return view
}

func (f *Form) vars() Vars {
	widget := f.config.widget
	vars := Vars{
		ID:            f.ID(),
		Name:          f.name,
		FullName:      f.FullName(),
		Label:         f.config.label,
		Help:          f.config.help,
		InputType:     widget.InputType,
		Required:      f.config.required,
		Disabled:      f.config.disabled,
		Compound:      widget.Compound,
		Multiple:      f.config.multiple,
		Expanded:      f.config.expanded,
		Submitted:     f.submitted,
		Valid:         len(f.errors) == 0,
		Attr:          cloneStrings(f.config.attr),
		LabelAttr:     cloneStrings(f.config.labelAttr),
		Errors:        append([]string(nil), f.errors...),
		BlockPrefixes: f.blockPrefixes(),
	}
	if f.IsRoot() {
		vars.Method = f.config.method
		vars.Action = f.config.action
	}
	if f.config.multiple {
		vars.FullName += "[]"
	}

	switch {
	case widget.Compound || widget.Button:
	case widget.Name == WidgetPassword:
		vars.Value = ""
	case widget.Name == WidgetCheckbox:
		s, _ := f.viewData.(string)
		vars.Checked = s != ""
		vars.Value = BooleanTrueValue
	case widget.Name == WidgetChoice:
		vars.Value = f.viewData
		vars.Choices = f.choiceViews()
	default:
		vars.Value = f.viewData
	}
	return vars
}

// BooleanTrueValue is the value attribute of rendered checkboxes.
const BooleanTrueValue = "1"

func (f *Form) blockPrefixes() []string {
	prefixes := []string{WidgetForm}
	if name := f.config.widget.Name; name != "" && name != WidgetForm {
		prefixes = append(prefixes, name)
	}
	if p := f.config.blockPrefix; p != "" && !slices.Contains(prefixes, p) {
		prefixes = append(prefixes, p)
	}
	return prefixes
}

func (f *Form) choiceViews() []ChoiceView {
	var selected []string
	switch typed := f.viewData.(type) {
	case string:
		if typed != "" {
			selected = []string{typed}
		}
	case []string:
		selected = typed
	}
	out := make([]ChoiceView, 0, len(f.config.choices))
	for idx, choice := range f.config.choices {
		value := choice.Value
		if value == "" {
			value = strconv.Itoa(idx)
		}
		out = append(out, ChoiceView{
			Label:    choice.Label,
			Value:    value,
			Selected: slices.Contains(selected, value),
		})
	}
	return out
}
