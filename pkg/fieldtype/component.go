// Package fieldtype maps CMS field types onto form widgets. Each component
// wraps a base widget from package form, attaches the model transformer for
// its value type and contributes request dependent view variables.
package fieldtype

import (
	"context"
	"sync"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/validation"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// BlockPrefixBase prefixes the block prefix of every component.
const BlockPrefixBase = "ezplatform_fieldtype_"

// Component is the contract every field type implements.
type Component interface {
	// FieldTypeIdentifier is the registry key, e.g. "ezstring".
	FieldTypeIdentifier() string
	// BlockPrefix selects the renderer template, e.g. "ezplatform_fieldtype_ezstring".
	BlockPrefix() string
	// Build configures the value node of a field.
	Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error
	// BindValue converts a stored hash or default value into the domain value.
	BindValue(def content.FieldDefinition, raw any) (value.Value, error)
	// Hash converts a domain value into its storable form.
	Hash(v value.Value) any
	// EmptyValue is the value of a field without default.
	EmptyValue(def content.FieldDefinition) value.Value
	// RenderHints adjusts the view of the value node for the current request.
	RenderHints(ctx context.Context, def content.FieldDefinition, view *form.View)
}

// BuildOptions carry the per form settings components need.
type BuildOptions struct {
	LanguageCode string
	Validator    *validation.Validator
	Policy       RequiredPolicy
}

// Required resolves the required flag of a child of a field type's widget
// through the policy. A nil policy means DefaultRequiredPolicy.
func (o BuildOptions) Required(fieldType, child string, def content.FieldDefinition) bool {
	policy := o.Policy
	if policy == nil {
		policy = DefaultRequiredPolicy()
	}
	return policy.Required(fieldType, child, def.IsRequired)
}

func (o BuildOptions) validator() *validation.Validator {
	if o.Validator != nil {
		return o.Validator
	}
	return defaultValidator()
}

var (
	defaultValidatorOnce sync.Once
	sharedValidator      *validation.Validator
)

func defaultValidator() *validation.Validator {
	defaultValidatorOnce.Do(func() {
		sharedValidator = validation.MustNew()
	})
	return sharedValidator
}

// configure applies what every component shares: widget, block prefix,
// label, help, required flag, model transformer and the render hook.
func configure(c Component, b *form.Builder, def content.FieldDefinition, opts BuildOptions, widget form.Widget) *form.Builder {
	b.SetWidget(widget).
		SetBlockPrefix(c.BlockPrefix()).
		SetLabel(def.Name(opts.LanguageCode)).
		SetHelp(def.Description(opts.LanguageCode)).
		SetRequired(opts.Required(c.FieldTypeIdentifier(), "", def)).
		OnView(func(ctx context.Context, view *form.View) {
			view.SetHint("field_type", c.FieldTypeIdentifier())
			view.SetHint("field_identifier", def.Identifier)
			c.RenderHints(ctx, def, view)
		})
	return b
}
