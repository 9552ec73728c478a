package transformer

import (
	"strings"

	"github.com/goliatone/go-repoforms/pkg/value"
)

// TextLineValueTransformer maps value.TextLine to the plain string a text
// widget edits.
type TextLineValueTransformer struct{}

func (TextLineValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case value.TextLine:
		return typed.Text, nil
	default:
		return nil, unexpectedType(v, "value.TextLine")
	}
}

func (TextLineValueTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return value.TextLine{}, nil
	case string:
		return value.TextLine{Text: typed}, nil
	default:
		return nil, unexpectedType(v, "string")
	}
}

// TextBlockValueTransformer maps value.TextBlock to a string.
type TextBlockValueTransformer struct{}

func (TextBlockValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case value.TextBlock:
		return typed.Text, nil
	default:
		return nil, unexpectedType(v, "value.TextBlock")
	}
}

func (TextBlockValueTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return value.TextBlock{}, nil
	case string:
		return value.TextBlock{Text: typed}, nil
	default:
		return nil, unexpectedType(v, "string")
	}
}

// EmailValueTransformer maps value.EmailAddress to a string.
type EmailValueTransformer struct{}

func (EmailValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case value.EmailAddress:
		return typed.Email, nil
	default:
		return nil, unexpectedType(v, "value.EmailAddress")
	}
}

func (EmailValueTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return value.EmailAddress{}, nil
	case string:
		return value.EmailAddress{Email: strings.TrimSpace(typed)}, nil
	default:
		return nil, unexpectedType(v, "string")
	}
}

// IntegerValueTransformer maps value.Integer to an int64, or nil when empty.
type IntegerValueTransformer struct{}

func (IntegerValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil
	case value.Integer:
		if typed.Value == nil {
			return nil, nil
		}
		return *typed.Value, nil
	default:
		return nil, unexpectedType(v, "value.Integer")
	}
}

func (IntegerValueTransformer) ReverseTransform(v any) (any, error) {
	if v == nil {
		return value.Integer{}, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil, unexpectedType(v, "integer")
	}
	return value.NewInteger(n), nil
}

// FloatValueTransformer maps value.Float to a float64, or nil when empty.
type FloatValueTransformer struct{}

func (FloatValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil
	case value.Float:
		if typed.Value == nil {
			return nil, nil
		}
		return *typed.Value, nil
	default:
		return nil, unexpectedType(v, "value.Float")
	}
}

func (FloatValueTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return value.Float{}, nil
	case float64:
		return value.NewFloat(typed), nil
	case float32:
		return value.NewFloat(float64(typed)), nil
	default:
		if n, ok := toInt64(v); ok {
			return value.NewFloat(float64(n)), nil
		}
		return nil, unexpectedType(v, "float")
	}
}

// CheckboxValueTransformer maps value.Checkbox to a bool.
type CheckboxValueTransformer struct{}

func (CheckboxValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return false, nil
	case value.Checkbox:
		return typed.Bool, nil
	default:
		return nil, unexpectedType(v, "value.Checkbox")
	}
}

func (CheckboxValueTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return value.Checkbox{}, nil
	case bool:
		return value.Checkbox{Bool: typed}, nil
	default:
		return nil, unexpectedType(v, "bool")
	}
}

// SelectionValueTransformer maps value.Selection to the option indexes the
// choice widget works with.
type SelectionValueTransformer struct{}

func (SelectionValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return []int(nil), nil
	case value.Selection:
		return append([]int(nil), typed.Selection...), nil
	default:
		return nil, unexpectedType(v, "value.Selection")
	}
}

func (SelectionValueTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return value.Selection{}, nil
	case []int:
		if len(typed) == 0 {
			return value.Selection{}, nil
		}
		return value.Selection{Selection: append([]int(nil), typed...)}, nil
	default:
		return nil, unexpectedType(v, "[]int")
	}
}

// URLValueTransformer maps value.URL to the link/text pair of the compound
// url widget.
type URLValueTransformer struct{}

func (URLValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return map[string]any{"link": "", "text": ""}, nil
	case value.URL:
		return map[string]any{"link": typed.Link, "text": typed.Text}, nil
	default:
		return nil, unexpectedType(v, "value.URL")
	}
}

func (URLValueTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return value.URL{}, nil
	case map[string]any:
		return value.URL{
			Link: strings.TrimSpace(stringOf(typed["link"])),
			Text: stringOf(typed["text"]),
		}, nil
	default:
		return nil, unexpectedType(v, "map[string]any")
	}
}

// UserAccountValueTransformer maps value.UserAccount to the children of the
// compound user widget.
type UserAccountValueTransformer struct{}

func (UserAccountValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return map[string]any{"username": "", "email": "", "password": "", "enabled": true}, nil
	case value.UserAccount:
		return map[string]any{
			"username": typed.Login,
			"email":    typed.Email,
			"password": "",
			"enabled":  typed.Enabled,
		}, nil
	default:
		return nil, unexpectedType(v, "value.UserAccount")
	}
}

func (UserAccountValueTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return value.UserAccount{}, nil
	case map[string]any:
		enabled, _ := typed["enabled"].(bool)
		return value.UserAccount{
			Login:    strings.TrimSpace(stringOf(typed["username"])),
			Email:    strings.TrimSpace(stringOf(typed["email"])),
			Password: stringOf(typed["password"]),
			Enabled:  enabled,
		}, nil
	default:
		return nil, unexpectedType(v, "map[string]any")
	}
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toInt64(v any) (int64, bool) {
	switch typed := v.(type) {
	case int:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case int64:
		return typed, true
	case float64:
		if typed != float64(int64(typed)) {
			return 0, false
		}
		return int64(typed), true
	default:
		return 0, false
	}
}
