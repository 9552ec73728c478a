package fieldtype

import (
	"context"
	"slices"
	"time"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/transformer"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// Action types exposed to the date picker through data-action-type.
const (
	ActionTypeCreate = "create"
	ActionTypeEdit   = "edit"
)

// EditActionRoutes are the routes on which date pickers run in edit mode.
var EditActionRoutes = []string{form.RouteContentDraftEdit, form.RouteContentTranslate}

// ActionType selects the picker mode from the route name alone.
func ActionType(route string) string {
	if slices.Contains(EditActionRoutes, route) {
		return ActionTypeEdit
	}
	return ActionTypeCreate
}

// dateSourceHints marks the integer input as the hidden data source of a
// picker widget.
func dateSourceHints(ctx context.Context, view *form.View) {
	view.SetAttr("data-action-type", ActionType(form.RouteFromContext(ctx)))
	view.SetAttr("class", "ez-data-source__input")
	view.SetAttr("hidden", "hidden")
}

// Date handles ezdate fields: an integer widget holding a midnight UTC
// timestamp.
type Date struct{}

func (Date) FieldTypeIdentifier() string { return "ezdate" }
func (Date) BlockPrefix() string         { return BlockPrefixBase + "ezdate" }

func (c Date) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	configure(c, b, def, opts, form.IntegerWidget()).
		AddModelTransformer(transformer.DateValueTransformer{})
	return nil
}

func (c Date) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	return bindAs[value.Date](c.FieldTypeIdentifier(), transformer.DateValueTransformer{}, raw)
}

func (Date) Hash(v value.Value) any {
	ts, _ := transformer.DateValueTransformer{}.Transform(v)
	return ts
}

// EmptyValue is today when the definition asks for the current date.
func (Date) EmptyValue(def content.FieldDefinition) value.Value {
	if n, ok := intSetting(def, "defaultType"); ok && n == DateDefaultCurrent {
		return value.NewDate(now())
	}
	return value.Date{}
}

func (Date) RenderHints(ctx context.Context, _ content.FieldDefinition, view *form.View) {
	dateSourceHints(ctx, view)
}

// DateTime handles ezdatetime fields.
type DateTime struct{}

func (DateTime) FieldTypeIdentifier() string { return "ezdatetime" }
func (DateTime) BlockPrefix() string         { return BlockPrefixBase + "ezdatetime" }

func (c DateTime) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	configure(c, b, def, opts, form.IntegerWidget()).
		AddModelTransformer(transformer.DateTimeValueTransformer{})
	return nil
}

func (c DateTime) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	return bindAs[value.DateTime](c.FieldTypeIdentifier(), transformer.DateTimeValueTransformer{}, raw)
}

func (DateTime) Hash(v value.Value) any {
	ts, _ := transformer.DateTimeValueTransformer{}.Transform(v)
	return ts
}

func (DateTime) EmptyValue(def content.FieldDefinition) value.Value {
	if n, ok := intSetting(def, "defaultType"); ok && n == DateDefaultCurrent {
		return value.NewDateTime(now())
	}
	return value.DateTime{}
}

// RenderHints also tells the picker whether to offer seconds.
func (DateTime) RenderHints(ctx context.Context, def content.FieldDefinition, view *form.View) {
	dateSourceHints(ctx, view)
	if boolSetting(def, "useSeconds") {
		view.SetAttr("data-seconds", "1")
	} else {
		view.SetAttr("data-seconds", "0")
	}
}

var now = time.Now

// Values of the defaultType setting of date fields.
const (
	DateDefaultEmpty   = 0
	DateDefaultCurrent = 1
)
