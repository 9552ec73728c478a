package transformer

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-module/carbon/v2"

	"github.com/goliatone/go-repoforms/pkg/value"
)

// Bounds of timestamps accepted by the date transformers: 0001-01-01 to
// 9999-12-31T23:59:59Z.
const (
	MinTimestamp int64 = -62135596800
	MaxTimestamp int64 = 253402300799
)

// DateValueTransformer maps value.Date to a unix timestamp at midnight UTC,
// the representation the integer widget of ezdate fields submits.
type DateValueTransformer struct{}

func (DateValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil
	case value.Date:
		if typed.Date == nil {
			return nil, nil
		}
		return carbon.CreateFromTimestamp(typed.Date.Unix(), carbon.UTC).StartOfDay().Timestamp(), nil
	default:
		return nil, unexpectedType(v, "value.Date")
	}
}

func (DateValueTransformer) ReverseTransform(v any) (any, error) {
	c, empty, err := carbonFrom(v)
	if err != nil {
		return nil, err
	}
	if empty {
		return value.Date{}, nil
	}
	t := time.Unix(c.StartOfDay().Timestamp(), 0).UTC()
	return value.Date{Date: &t}, nil
}

// DateTimeValueTransformer maps value.DateTime to a unix timestamp.
type DateTimeValueTransformer struct{}

func (DateTimeValueTransformer) Transform(v any) (any, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil
	case value.DateTime:
		if typed.Value == nil {
			return nil, nil
		}
		return typed.Value.Unix(), nil
	default:
		return nil, unexpectedType(v, "value.DateTime")
	}
}

func (DateTimeValueTransformer) ReverseTransform(v any) (any, error) {
	c, empty, err := carbonFrom(v)
	if err != nil {
		return nil, err
	}
	if empty {
		return value.DateTime{}, nil
	}
	t := time.Unix(c.Timestamp(), 0).UTC()
	return value.DateTime{Value: &t}, nil
}

// carbonFrom accepts a timestamp (any integer kind or a numeric string) or a
// date string carbon can parse.
func carbonFrom(v any) (carbon.Carbon, bool, error) {
	var ts int64
	switch typed := v.(type) {
	case nil:
		return carbon.Carbon{}, true, nil
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return carbon.Carbon{}, true, nil
		}
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			ts = n
			break
		}
		c := carbon.Parse(trimmed, carbon.UTC)
		if c.IsInvalid() {
			return carbon.Carbon{}, false, &TransformationFailedError{
				Message: "value is neither a timestamp nor a date",
				Value:   v,
				Cause:   c.Error,
			}
		}
		ts = c.Timestamp()
	default:
		n, ok := toInt64(v)
		if !ok {
			return carbon.Carbon{}, false, unexpectedType(v, "timestamp")
		}
		ts = n
	}

	if ts < MinTimestamp || ts > MaxTimestamp {
		return carbon.Carbon{}, false, Failed(v, "timestamp %d is out of range", ts)
	}
	c := carbon.CreateFromTimestamp(ts, carbon.UTC)
	if c.Error != nil {
		return carbon.Carbon{}, false, &TransformationFailedError{
			Message: "invalid timestamp",
			Value:   v,
			Cause:   c.Error,
		}
	}
	return c, false, nil
}
