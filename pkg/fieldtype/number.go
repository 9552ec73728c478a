package fieldtype

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/transformer"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// Integer handles ezinteger fields.
type Integer struct{}

func (Integer) FieldTypeIdentifier() string { return "ezinteger" }
func (Integer) BlockPrefix() string         { return BlockPrefixBase + "ezinteger" }

func (c Integer) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	configure(c, b, def, opts, form.IntegerWidget()).
		AddModelTransformer(transformer.IntegerValueTransformer{})

	var tags []string
	if min, ok := validatorInt(def, "IntegerValueValidator", "minIntegerValue"); ok {
		tags = append(tags, "min="+strconv.FormatInt(min, 10))
		b.SetAttr("min", strconv.FormatInt(min, 10))
	}
	if max, ok := validatorInt(def, "IntegerValueValidator", "maxIntegerValue"); ok {
		tags = append(tags, "max="+strconv.FormatInt(max, 10))
		b.SetAttr("max", strconv.FormatInt(max, 10))
	}
	if len(tags) > 0 {
		v, tag := opts.validator(), strings.Join(tags, ",")
		b.AddConstraint(func(f *form.Form) []string {
			n, _ := f.Data().(value.Integer)
			if n.Value == nil {
				return nil
			}
			return v.Var(*n.Value, tag)
		})
	}
	b.SetAttr("step", "1")
	return nil
}

func (c Integer) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	if s, ok := raw.(string); ok {
		if strings.TrimSpace(s) == "" {
			return value.Integer{}, nil
		}
		n, ok := intOf(s)
		if !ok {
			return nil, transformer.Failed(raw, "%q is not an integer", s)
		}
		raw = n
	}
	return bindAs[value.Integer](c.FieldTypeIdentifier(), transformer.IntegerValueTransformer{}, raw)
}

func (Integer) Hash(v value.Value) any {
	typed, _ := v.(value.Integer)
	if typed.Value == nil {
		return nil
	}
	return *typed.Value
}

func (Integer) EmptyValue(content.FieldDefinition) value.Value { return value.Integer{} }

func (Integer) RenderHints(context.Context, content.FieldDefinition, *form.View) {}

// Float handles ezfloat fields.
type Float struct{}

func (Float) FieldTypeIdentifier() string { return "ezfloat" }
func (Float) BlockPrefix() string         { return BlockPrefixBase + "ezfloat" }

func (c Float) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	configure(c, b, def, opts, form.NumberWidget()).
		AddModelTransformer(transformer.FloatValueTransformer{}).
		SetAttr("step", "any")

	var tags []string
	if min, ok := validatorFloat(def, "FloatValueValidator", "minFloatValue"); ok {
		tags = append(tags, "min="+strconv.FormatFloat(min, 'f', -1, 64))
		b.SetAttr("min", strconv.FormatFloat(min, 'f', -1, 64))
	}
	if max, ok := validatorFloat(def, "FloatValueValidator", "maxFloatValue"); ok {
		tags = append(tags, "max="+strconv.FormatFloat(max, 'f', -1, 64))
		b.SetAttr("max", strconv.FormatFloat(max, 'f', -1, 64))
	}
	if len(tags) > 0 {
		v, tag := opts.validator(), strings.Join(tags, ",")
		b.AddConstraint(func(f *form.Form) []string {
			n, _ := f.Data().(value.Float)
			if n.Value == nil {
				return nil
			}
			return v.Var(*n.Value, tag)
		})
	}
	return nil
}

func (c Float) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	if s, ok := raw.(string); ok {
		if strings.TrimSpace(s) == "" {
			return value.Float{}, nil
		}
		f, ok := floatOf(s)
		if !ok {
			return nil, transformer.Failed(raw, "%q is not a number", s)
		}
		raw = f
	}
	return bindAs[value.Float](c.FieldTypeIdentifier(), transformer.FloatValueTransformer{}, raw)
}

func (Float) Hash(v value.Value) any {
	typed, _ := v.(value.Float)
	if typed.Value == nil {
		return nil
	}
	return *typed.Value
}

func (Float) EmptyValue(content.FieldDefinition) value.Value { return value.Float{} }

func (Float) RenderHints(context.Context, content.FieldDefinition, *form.View) {}

// Checkbox handles ezboolean fields.
type Checkbox struct{}

func (Checkbox) FieldTypeIdentifier() string { return "ezboolean" }
func (Checkbox) BlockPrefix() string         { return BlockPrefixBase + "ezboolean" }

func (c Checkbox) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	configure(c, b, def, opts, form.CheckboxWidget()).
		AddModelTransformer(transformer.CheckboxValueTransformer{})
	return nil
}

func (c Checkbox) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	switch typed := raw.(type) {
	case string, int, int64, float64:
		raw = boolOf(typed)
	}
	return bindAs[value.Checkbox](c.FieldTypeIdentifier(), transformer.CheckboxValueTransformer{}, raw)
}

func (Checkbox) Hash(v value.Value) any {
	typed, _ := v.(value.Checkbox)
	return typed.Bool
}

// EmptyValue honours the defaultValue setting of the definition.
func (Checkbox) EmptyValue(def content.FieldDefinition) value.Value {
	return value.Checkbox{Bool: boolSetting(def, "defaultValue")}
}

func (Checkbox) RenderHints(context.Context, content.FieldDefinition, *form.View) {}
