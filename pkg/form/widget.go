package form

import (
	"github.com/goliatone/go-repoforms/pkg/transformer"
)

// Widget is a base input that field-type components wrap. It owns the view
// transformer between normalized data and what the browser submits.
type Widget struct {
	// Name identifies the widget and doubles as its block prefix
	// ("integer", "text", "choice", ...).
	Name string
	// InputType is the HTML input type rendered for leaf widgets.
	InputType string
	// Compound widgets have children and no submitted value of their own.
	Compound bool
	// Button widgets record which submit button was clicked.
	Button bool
	// ViewTransformer converts normalized data to submitted values. Nil means
	// pass through.
	ViewTransformer transformer.DataTransformer
}

// Base widget names.
const (
	WidgetForm     = "form"
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetInteger  = "integer"
	WidgetNumber   = "number"
	WidgetCheckbox = "checkbox"
	WidgetEmail    = "email"
	WidgetURL      = "url"
	WidgetPassword = "password"
	WidgetHidden   = "hidden"
	WidgetChoice   = "choice"
	WidgetSubmit   = "submit"
)

// CompoundWidget groups child forms.
func CompoundWidget() Widget {
	return Widget{Name: WidgetForm, Compound: true}
}

// TextWidget renders <input type="text">.
func TextWidget() Widget {
	return Widget{Name: WidgetText, InputType: "text", ViewTransformer: transformer.StringViewTransformer{}}
}

// TextareaWidget renders <textarea>.
func TextareaWidget() Widget {
	return Widget{Name: WidgetTextarea, InputType: "textarea", ViewTransformer: transformer.StringViewTransformer{}}
}

// IntegerWidget renders <input type="number"> and parses whole numbers.
func IntegerWidget() Widget {
	return Widget{Name: WidgetInteger, InputType: "number", ViewTransformer: transformer.IntegerToStringTransformer{}}
}

// NumberWidget renders <input type="number" step="any"> for floats.
func NumberWidget() Widget {
	return Widget{Name: WidgetNumber, InputType: "number", ViewTransformer: transformer.FloatToStringTransformer{}}
}

// CheckboxWidget renders <input type="checkbox" value="1">.
func CheckboxWidget() Widget {
	return Widget{Name: WidgetCheckbox, InputType: "checkbox", ViewTransformer: transformer.BooleanToStringTransformer{}}
}

// EmailWidget renders <input type="email">.
func EmailWidget() Widget {
	return Widget{Name: WidgetEmail, InputType: "email", ViewTransformer: transformer.StringViewTransformer{}}
}

// URLWidget renders <input type="url">.
func URLWidget() Widget {
	return Widget{Name: WidgetURL, InputType: "url", ViewTransformer: transformer.StringViewTransformer{}}
}

// PasswordWidget renders <input type="password">. Values are never echoed
// back into the view.
func PasswordWidget() Widget {
	return Widget{Name: WidgetPassword, InputType: "password", ViewTransformer: transformer.StringViewTransformer{}}
}

// HiddenWidget renders <input type="hidden">.
func HiddenWidget() Widget {
	return Widget{Name: WidgetHidden, InputType: "hidden", ViewTransformer: transformer.StringViewTransformer{}}
}

// ChoiceWidget renders a select (or checkbox list when expanded) over count
// options. Normalized data is the slice of selected indexes.
func ChoiceWidget(count int) Widget {
	return Widget{Name: WidgetChoice, InputType: "select", ViewTransformer: transformer.ChoicesToValuesTransformer{Count: count}}
}

// SubmitWidget renders <button type="submit">.
func SubmitWidget() Widget {
	return Widget{Name: WidgetSubmit, InputType: "submit", Button: true}
}
