package fieldtype

import (
	"context"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/transformer"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// Selection handles ezselection fields. Options come from the "options"
// setting, "isMultiple" allows more than one selected option.
type Selection struct{}

func (Selection) FieldTypeIdentifier() string { return "ezselection" }
func (Selection) BlockPrefix() string         { return BlockPrefixBase + "ezselection" }

func (c Selection) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	options := selectionOptions(def)
	choices := make([]form.Choice, 0, len(options))
	for _, label := range options {
		choices = append(choices, form.Choice{Label: label})
	}
	configure(c, b, def, opts, form.ChoiceWidget(len(choices))).
		SetChoices(choices, boolSetting(def, "isMultiple"), false).
		AddModelTransformer(transformer.SelectionValueTransformer{})
	return nil
}

func (c Selection) BindValue(def content.FieldDefinition, raw any) (value.Value, error) {
	switch typed := raw.(type) {
	case []any:
		indexes := make([]int, 0, len(typed))
		for _, item := range typed {
			n, ok := intOf(item)
			if !ok {
				return nil, transformer.Failed(raw, "selection index %v is not an integer", item)
			}
			indexes = append(indexes, int(n))
		}
		raw = indexes
	case int, int64, float64, string:
		n, ok := intOf(typed)
		if !ok {
			return nil, transformer.Failed(raw, "selection index %v is not an integer", typed)
		}
		raw = []int{int(n)}
	}
	v, err := bindAs[value.Selection](c.FieldTypeIdentifier(), transformer.SelectionValueTransformer{}, raw)
	if err != nil {
		return nil, err
	}
	count := len(selectionOptions(def))
	for _, idx := range v.(value.Selection).Selection {
		if idx < 0 || idx >= count {
			return nil, transformer.Failed(raw, "selection index %d is out of range", idx)
		}
	}
	return v, nil
}

func (Selection) Hash(v value.Value) any {
	typed, _ := v.(value.Selection)
	return append([]int{}, typed.Selection...)
}

func (Selection) EmptyValue(content.FieldDefinition) value.Value { return value.Selection{} }

func (Selection) RenderHints(_ context.Context, def content.FieldDefinition, view *form.View) {
	if !def.IsRequired && !view.Vars.Multiple {
		view.SetHint("placeholder", "None")
	}
}

func selectionOptions(def content.FieldDefinition) []string {
	raw, _ := def.Setting("options")
	return stringsOf(raw)
}
