package form

import (
	"context"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/transformer"
)

// Choice is one option of a choice widget. Options submit their index.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Constraint validates a submitted form node and returns error messages.
type Constraint func(f *Form) []string

// ViewHook contributes view variables for the current request.
type ViewHook func(ctx context.Context, view *View)

// SubmitHook runs after a node and its children have been submitted.
type SubmitHook func(f *Form)

type config struct {
	widget            Widget
	blockPrefix       string
	label             string
	help              string
	required          bool
	disabled          bool
	multiple          bool
	expanded          bool
	invalidMessage    string
	attr              map[string]string
	labelAttr         map[string]string
	choices           []Choice
	modelTransformers transformer.Chain
	constraints       []Constraint
	viewHooks         []ViewHook
	submitHooks       []SubmitHook
	data              any
	hasData           bool
	method            string
	action            string
}

// Builder assembles a form tree. Field-type components receive a Builder for
// their node and configure it by composing a base widget.
type Builder struct {
	name     string
	config   config
	children []*Builder
}

// NewBuilder starts a tree rooted at name.
func NewBuilder(name string, widget Widget) *Builder {
	return &Builder{
		name:   strings.TrimSpace(name),
		config: config{widget: widget, method: "POST"},
	}
}

// Name returns the node name.
func (b *Builder) Name() string { return b.name }

// Widget returns the base widget of the node.
func (b *Builder) Widget() Widget { return b.config.widget }

// Add appends a child node and returns its builder. Adding an existing name
// replaces the earlier child.
func (b *Builder) Add(name string, widget Widget) *Builder {
	child := &Builder{
		name:   strings.TrimSpace(name),
		config: config{widget: widget},
	}
	for i, existing := range b.children {
		if existing.name == child.name {
			b.children[i] = child
			return child
		}
	}
	b.children = append(b.children, child)
	return child
}

// Child returns a previously added child.
func (b *Builder) Child(name string) (*Builder, bool) {
	for _, child := range b.children {
		if child.name == name {
			return child, true
		}
	}
	return nil, false
}

// SetWidget swaps the base widget.
func (b *Builder) SetWidget(widget Widget) *Builder {
	b.config.widget = widget
	return b
}

// SetBlockPrefix sets the component block prefix used to pick a renderer.
func (b *Builder) SetBlockPrefix(prefix string) *Builder {
	b.config.blockPrefix = strings.TrimSpace(prefix)
	return b
}

// SetLabel sets the label text. An empty label renders no <label>.
func (b *Builder) SetLabel(label string) *Builder {
	b.config.label = label
	return b
}

// SetHelp sets help text rendered below the control.
func (b *Builder) SetHelp(help string) *Builder {
	b.config.help = help
	return b
}

// SetRequired flags the node as required.
func (b *Builder) SetRequired(required bool) *Builder {
	b.config.required = required
	return b
}

// SetDisabled disables the control; disabled nodes ignore submissions.
func (b *Builder) SetDisabled(disabled bool) *Builder {
	b.config.disabled = disabled
	return b
}

// SetAttr sets an HTML attribute on the control.
func (b *Builder) SetAttr(name, value string) *Builder {
	if b.config.attr == nil {
		b.config.attr = make(map[string]string)
	}
	b.config.attr[name] = value
	return b
}

// SetLabelAttr sets an HTML attribute on the label.
func (b *Builder) SetLabelAttr(name, value string) *Builder {
	if b.config.labelAttr == nil {
		b.config.labelAttr = make(map[string]string)
	}
	b.config.labelAttr[name] = value
	return b
}

// SetChoices configures choice options.
func (b *Builder) SetChoices(choices []Choice, multiple, expanded bool) *Builder {
	b.config.choices = append([]Choice(nil), choices...)
	b.config.multiple = multiple
	b.config.expanded = expanded
	return b
}

// SetInvalidMessage overrides the message used when transformation fails.
func (b *Builder) SetInvalidMessage(msg string) *Builder {
	b.config.invalidMessage = msg
	return b
}

// AddModelTransformer appends a transformer between domain and normalized
// data. Transformers run in order on the way to the view.
func (b *Builder) AddModelTransformer(t transformer.DataTransformer) *Builder {
	if t != nil {
		b.config.modelTransformers = append(b.config.modelTransformers, t)
	}
	return b
}

// AddConstraint registers a validation constraint.
func (b *Builder) AddConstraint(c Constraint) *Builder {
	if c != nil {
		b.config.constraints = append(b.config.constraints, c)
	}
	return b
}

// OnView registers a hook that adjusts the view for the current request.
func (b *Builder) OnView(hook ViewHook) *Builder {
	if hook != nil {
		b.config.viewHooks = append(b.config.viewHooks, hook)
	}
	return b
}

// OnSubmit registers a hook that runs once the node has been submitted.
func (b *Builder) OnSubmit(hook SubmitHook) *Builder {
	if hook != nil {
		b.config.submitHooks = append(b.config.submitHooks, hook)
	}
	return b
}

// SetData sets the initial domain data of the node.
func (b *Builder) SetData(data any) *Builder {
	b.config.data = data
	b.config.hasData = true
	return b
}

// SetMethod sets the HTTP method the root form expects. Defaults to POST.
func (b *Builder) SetMethod(method string) *Builder {
	b.config.method = strings.ToUpper(strings.TrimSpace(method))
	return b
}

// SetAction sets the form action URL.
func (b *Builder) SetAction(action string) *Builder {
	b.config.action = action
	return b
}

// Form freezes the builder into a form tree and initialises data.
func (b *Builder) Form() (*Form, error) {
	root := b.build(nil)
	if err := root.initData(); err != nil {
		return nil, err
	}
	return root, nil
}

func (b *Builder) build(parent *Form) *Form {
	f := &Form{
		name:   b.name,
		parent: parent,
		config: b.config,
	}
	f.config.attr = cloneStrings(b.config.attr)
	f.config.labelAttr = cloneStrings(b.config.labelAttr)
	for _, child := range b.children {
		f.children = append(f.children, child.build(f))
	}
	return f
}

func cloneStrings(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
