package fieldtype

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/transformer"
	"github.com/goliatone/go-repoforms/pkg/validation"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// TextLine handles ezstring fields.
type TextLine struct{}

func (TextLine) FieldTypeIdentifier() string { return "ezstring" }
func (TextLine) BlockPrefix() string         { return BlockPrefixBase + "ezstring" }

func (c TextLine) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	configure(c, b, def, opts, form.TextWidget()).
		AddModelTransformer(transformer.TextLineValueTransformer{}).
		AddConstraint(stringLengthConstraint(opts.validator(), def))
	if max, ok := validatorInt(def, "StringLengthValidator", "maxStringLength"); ok && max > 0 {
		b.SetAttr("maxlength", strconv.FormatInt(max, 10))
	}
	return nil
}

func (c TextLine) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	return bindAs[value.TextLine](c.FieldTypeIdentifier(), transformer.TextLineValueTransformer{}, raw)
}

func (TextLine) Hash(v value.Value) any {
	typed, _ := v.(value.TextLine)
	return typed.Text
}

func (TextLine) EmptyValue(content.FieldDefinition) value.Value { return value.TextLine{} }

func (TextLine) RenderHints(context.Context, content.FieldDefinition, *form.View) {}

// TextBlock handles eztext fields.
type TextBlock struct{}

func (TextBlock) FieldTypeIdentifier() string { return "eztext" }
func (TextBlock) BlockPrefix() string         { return BlockPrefixBase + "eztext" }

func (c TextBlock) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	configure(c, b, def, opts, form.TextareaWidget()).
		AddModelTransformer(transformer.TextBlockValueTransformer{})
	rows, ok := intSetting(def, "textRows")
	if !ok || rows <= 0 {
		rows = 10
	}
	b.SetAttr("rows", strconv.FormatInt(rows, 10))
	return nil
}

func (c TextBlock) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	return bindAs[value.TextBlock](c.FieldTypeIdentifier(), transformer.TextBlockValueTransformer{}, raw)
}

func (TextBlock) Hash(v value.Value) any {
	typed, _ := v.(value.TextBlock)
	return typed.Text
}

func (TextBlock) EmptyValue(content.FieldDefinition) value.Value { return value.TextBlock{} }

func (TextBlock) RenderHints(context.Context, content.FieldDefinition, *form.View) {}

// Email handles ezemail fields.
type Email struct{}

func (Email) FieldTypeIdentifier() string { return "ezemail" }
func (Email) BlockPrefix() string         { return BlockPrefixBase + "ezemail" }

func (c Email) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	v := opts.validator()
	configure(c, b, def, opts, form.EmailWidget()).
		AddModelTransformer(transformer.EmailValueTransformer{}).
		AddConstraint(func(f *form.Form) []string {
			email, _ := f.Data().(value.EmailAddress)
			if email.IsEmpty() {
				return nil
			}
			return v.Var(email.Email, "email")
		})
	return nil
}

func (c Email) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	return bindAs[value.EmailAddress](c.FieldTypeIdentifier(), transformer.EmailValueTransformer{}, raw)
}

func (Email) Hash(v value.Value) any {
	typed, _ := v.(value.EmailAddress)
	return typed.Email
}

func (Email) EmptyValue(content.FieldDefinition) value.Value { return value.EmailAddress{} }

func (Email) RenderHints(context.Context, content.FieldDefinition, *form.View) {}

// stringLengthConstraint enforces StringLengthValidator bounds on non-empty
// text.
func stringLengthConstraint(v *validation.Validator, def content.FieldDefinition) form.Constraint {
	var tags []string
	if min, ok := validatorInt(def, "StringLengthValidator", "minStringLength"); ok && min > 0 {
		tags = append(tags, "min="+strconv.FormatInt(min, 10))
	}
	if max, ok := validatorInt(def, "StringLengthValidator", "maxStringLength"); ok && max > 0 {
		tags = append(tags, "max="+strconv.FormatInt(max, 10))
	}
	if len(tags) == 0 {
		return nil
	}
	tag := strings.Join(tags, ",")
	return func(f *form.Form) []string {
		text, _ := f.Data().(value.Value)
		if text == nil || text.IsEmpty() {
			return nil
		}
		return v.Var(text.String(), tag)
	}
}
