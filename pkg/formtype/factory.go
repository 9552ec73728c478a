// Package formtype builds the repository forms: content_edit for creating
// and editing content and user_create for content types holding a user
// account.
package formtype

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/pkg/data"
	"github.com/goliatone/go-repoforms/pkg/fieldtype"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/validation"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// Form type names. The HTML form name is NamePrefix + type name.
const (
	TypeContentEdit = "content_edit"
	TypeUserCreate  = "user_create"

	NamePrefix = "ezrepoforms_"
)

// Names of the children every repository form carries.
const (
	FieldsDataName = "fieldsData"
	ValueName      = "value"
	TokenName      = "_token"
)

// ErrInvalidOptions wraps option validation failures. The validation
// errors are wrapped too and can be read with errors.As.
var ErrInvalidOptions = errors.New("formtype: invalid options")

// Button names.
const (
	ButtonPublish   = "publish"
	ButtonSaveDraft = "saveDraft"
	ButtonCancel    = "cancel"
	ButtonCreate    = "create"
)

// InvalidTokenMessage is attached to _token when the submitted CSRF token
// does not match.
var InvalidTokenMessage = "The CSRF token is invalid. Please try to resubmit the form."

// FormName returns the HTML name of a form type.
func FormName(typeName string) string { return NamePrefix + typeName }

// Factory creates repository forms.
type Factory struct {
	registry  *fieldtype.Registry
	validator *validation.Validator
	policy    fieldtype.RequiredPolicy
	logger    *zap.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithRegistry sets the field type registry.
func WithRegistry(registry *fieldtype.Registry) Option {
	return func(f *Factory) {
		if registry != nil {
			f.registry = registry
		}
	}
}

// WithValidator sets the validator used for options and field constraints.
func WithValidator(v *validation.Validator) Option {
	return func(f *Factory) {
		if v != nil {
			f.validator = v
		}
	}
}

// WithRequiredPolicy merges extra required exceptions over the defaults.
func WithRequiredPolicy(policy fieldtype.RequiredPolicy) Option {
	return func(f *Factory) {
		f.policy = f.policy.Merge(policy)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory returns a factory using the built-in components by default.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		policy: fieldtype.DefaultRequiredPolicy(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.registry == nil {
		f.registry = fieldtype.NewDefaultRegistry()
	}
	if f.validator == nil {
		f.validator = validation.MustNew()
	}
	return f
}

// Registry exposes the field type registry.
func (f *Factory) Registry() *fieldtype.Registry { return f.registry }

// Create builds a form of the named type bound to d. Submitting the form
// writes values back into the FieldData of d.
func (f *Factory) Create(typeName string, d data.FieldsHolder, opts form.Options) (*form.Form, error) {
	if d == nil {
		return nil, fmt.Errorf("formtype: data is required")
	}
	if err := f.validator.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	var buttons []button
	switch typeName {
	case TypeContentEdit:
		buttons = append(buttons, button{ButtonPublish, "Publish"})
		if opts.DraftsEnabled {
			buttons = append(buttons, button{ButtonSaveDraft, "Save draft"})
		}
		buttons = append(buttons, button{ButtonCancel, "Cancel"})
	case TypeUserCreate:
		buttons = []button{{ButtonCreate, "Create"}, {ButtonCancel, "Cancel"}}
	default:
		return nil, fmt.Errorf("formtype: unknown form type %q", typeName)
	}

	root := form.NewBuilder(FormName(typeName), form.CompoundWidget()).
		SetAction(opts.Action)
	if err := f.addFields(root, d.Fields(), opts); err != nil {
		return nil, err
	}
	for _, btn := range buttons {
		root.Add(btn.name, form.SubmitWidget()).SetLabel(btn.label)
	}
	if opts.CSRFToken != "" {
		addToken(root, opts.CSRFToken)
	}

	built, err := root.Form()
	if err != nil {
		return nil, fmt.Errorf("formtype: build %s: %w", typeName, err)
	}
	f.logger.Debug("form built",
		zap.String("type", typeName),
		zap.String("language", opts.LanguageCode),
		zap.Int("fields", d.Fields().Len()),
	)
	return built, nil
}

// ContentEdit builds a content_edit form.
func (f *Factory) ContentEdit(d data.FieldsHolder, opts ...form.Option) (*form.Form, error) {
	return f.Create(TypeContentEdit, d, form.NewOptions(opts...))
}

// UserCreate builds a user_create form.
func (f *Factory) UserCreate(d *data.UserCreateData, opts ...form.Option) (*form.Form, error) {
	if d == nil {
		return nil, fmt.Errorf("formtype: data is required")
	}
	if d.UserFieldIdentifier == "" {
		return nil, fmt.Errorf("formtype: content type %q has no user account field", d.ContentType.Identifier)
	}
	return f.Create(TypeUserCreate, d, form.NewOptions(opts...))
}

// CreateFor builds user_create for user data and content_edit otherwise.
func (f *Factory) CreateFor(d data.FieldsHolder, opts ...form.Option) (*form.Form, error) {
	if user, ok := d.(*data.UserCreateData); ok {
		return f.UserCreate(user, opts...)
	}
	return f.ContentEdit(d, opts...)
}

type button struct {
	name  string
	label string
}

func (f *Factory) addFields(root *form.Builder, fields *data.FieldsData, opts form.Options) error {
	buildOpts := fieldtype.BuildOptions{
		LanguageCode: opts.LanguageCode,
		Validator:    f.validator,
		Policy:       f.policy,
	}

	fieldsData := root.Add(FieldsDataName, form.CompoundWidget())
	for _, fd := range fields.All() {
		def := fd.FieldDefinition
		component, err := f.registry.Get(def.FieldTypeIdentifier)
		if err != nil {
			return fmt.Errorf("formtype: field %q: %w", def.Identifier, err)
		}

		node := fieldsData.Add(def.Identifier, form.CompoundWidget()).
			Add(ValueName, form.CompoundWidget())
		if err := component.Build(node, def, buildOpts); err != nil {
			return fmt.Errorf("formtype: build field %q: %w", def.Identifier, err)
		}

		initial := fd.Value
		if initial == nil {
			initial = component.EmptyValue(def)
		}
		target := fd
		node.SetData(initial).OnSubmit(func(n *form.Form) {
			if n.TransformationFailed() {
				return
			}
			if v, ok := n.Data().(value.Value); ok {
				target.Value = v
			}
		})
	}
	return nil
}

func addToken(root *form.Builder, token string) {
	root.Add(TokenName, form.HiddenWidget()).
		SetData(token).
		AddConstraint(func(n *form.Form) []string {
			submitted, _ := n.ViewData().(string)
			if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				return []string{InvalidTokenMessage}
			}
			return nil
		})
}
