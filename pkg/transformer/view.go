package transformer

import (
	"errors"
	"strconv"
	"strings"
)

// StringViewTransformer passes strings through; nil becomes "".
type StringViewTransformer struct{}

func (StringViewTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	default:
		return nil, unexpectedType(v, "string")
	}
}

func (StringViewTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	default:
		return nil, unexpectedType(v, "string")
	}
}

// IntegerToStringTransformer renders int64 values for number inputs and
// parses them back. An empty submission is nil.
type IntegerToStringTransformer struct{}

func (IntegerToStringTransformer) Transform(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil, unexpectedType(v, "integer")
	}
	return strconv.FormatInt(n, 10), nil
}

func (IntegerToStringTransformer) ReverseTransform(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, unexpectedType(v, "string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, &TransformationFailedError{Message: "number is out of range", Value: v, Cause: err}
		}
		return nil, &TransformationFailedError{Message: "value is not a valid integer", Value: v, Cause: err}
	}
	return n, nil
}

// FloatToStringTransformer renders float64 values and parses them back.
type FloatToStringTransformer struct{}

func (FloatToStringTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	default:
		return nil, unexpectedType(v, "float64")
	}
}

func (FloatToStringTransformer) ReverseTransform(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, unexpectedType(v, "string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &TransformationFailedError{Message: "value is not a valid number", Value: v, Cause: err}
	}
	return f, nil
}

// BooleanToStringTransformer maps a checkbox state to the submitted value.
// Browsers omit unchecked boxes, so any non-empty submission is true.
type BooleanToStringTransformer struct {
	TrueValue string
}

func (t BooleanToStringTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case bool:
		if !typed {
			return "", nil
		}
		return t.trueValue(), nil
	default:
		return nil, unexpectedType(v, "bool")
	}
}

func (t BooleanToStringTransformer) ReverseTransform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return false, nil
	case string:
		return typed != "", nil
	default:
		return nil, unexpectedType(v, "string")
	}
}

func (t BooleanToStringTransformer) trueValue() string {
	if t.TrueValue == "" {
		return "1"
	}
	return t.TrueValue
}

// ChoicesToValuesTransformer maps selected option indexes to the submitted
// option values ("0", "1", ...). Indexes must be below Count.
type ChoicesToValuesTransformer struct {
	Count int
}

func (t ChoicesToValuesTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return []string(nil), nil
	case []int:
		out := make([]string, 0, len(typed))
		for _, idx := range typed {
			out = append(out, strconv.Itoa(idx))
		}
		return out, nil
	default:
		return nil, unexpectedType(v, "[]int")
	}
}

func (t ChoicesToValuesTransformer) ReverseTransform(v any) (any, error) {
	var raw []string
	switch typed := v.(type) {
	case nil:
		return []int(nil), nil
	case string:
		if typed != "" {
			raw = []string{typed}
		}
	case []string:
		raw = typed
	default:
		return nil, unexpectedType(v, "[]string")
	}

	out := make([]int, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		idx, err := strconv.Atoi(item)
		if err != nil || idx < 0 || idx >= t.Count {
			return nil, Failed(v, "the selected choice %q is invalid", item)
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	if len(out) == 0 {
		return []int(nil), nil
	}
	return out, nil
}
