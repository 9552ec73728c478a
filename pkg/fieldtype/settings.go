package fieldtype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/transformer"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// Settings and validator configuration arrive from YAML, JSON or SQL, so
// numbers may be any numeric kind or a numeric string.

func intOf(v any) (int64, bool) {
	switch typed := v.(type) {
	case int:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case int64:
		return typed, true
	case uint64:
		return int64(typed), true
	case float64:
		if typed != float64(int64(typed)) {
			return 0, false
		}
		return int64(typed), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func floatOf(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		n, ok := intOf(v)
		return float64(n), ok
	}
}

func boolOf(v any) bool {
	switch typed := v.(type) {
	case bool:
		return typed
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(typed))
		return b
	default:
		n, ok := intOf(v)
		return ok && n != 0
	}
}

func stringsOf(v any) []string {
	switch typed := v.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case map[string]any:
		// Options keyed by index, as stored by some backends.
		out := make([]string, len(typed))
		for k, item := range typed {
			idx, err := strconv.Atoi(k)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil
			}
			out[idx] = fmt.Sprint(item)
		}
		return out
	default:
		return nil
	}
}

func intSetting(def content.FieldDefinition, key string) (int64, bool) {
	raw, ok := def.Setting(key)
	if !ok {
		return 0, false
	}
	return intOf(raw)
}

func boolSetting(def content.FieldDefinition, key string) bool {
	raw, _ := def.Setting(key)
	return boolOf(raw)
}

// validatorInt reads one bound of a validator configuration. Missing or nil
// bounds are unbounded.
func validatorInt(def content.FieldDefinition, validator, key string) (int64, bool) {
	cfg := def.Validator(validator)
	if cfg == nil {
		return 0, false
	}
	raw, ok := cfg[key]
	if !ok || raw == nil {
		return 0, false
	}
	n, ok := intOf(raw)
	if !ok {
		return 0, false
	}
	return n, true
}

func validatorFloat(def content.FieldDefinition, validator, key string) (float64, bool) {
	cfg := def.Validator(validator)
	if cfg == nil {
		return 0, false
	}
	raw, ok := cfg[key]
	if !ok || raw == nil {
		return 0, false
	}
	return floatOf(raw)
}

// bindAs returns raw unchanged when it already is a T and otherwise feeds it
// through the reverse side of the component's model transformer.
func bindAs[T value.Value](fieldType string, t transformer.DataTransformer, raw any) (value.Value, error) {
	if typed, ok := raw.(T); ok {
		return typed, nil
	}
	out, err := t.ReverseTransform(raw)
	if err != nil {
		return nil, fmt.Errorf("fieldtype: bind %s value: %w", fieldType, err)
	}
	typed, ok := out.(T)
	if !ok {
		return nil, fmt.Errorf("fieldtype: bind %s value: unexpected %T", fieldType, out)
	}
	return typed, nil
}
