// Package coerce converts decoded JSON payload values to SQLite-storable
// scalars and parses structured text columns back.
package coerce

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// ToStorable serializes slices and maps to JSON text and narrows json.Number.
// Every other value, nil included, is returned unchanged.
func ToStorable(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("coerce number %q: %w", v.String(), err)
		}
		return f, nil
	case []byte:
		return v, nil
	case string, bool, int, int64, float64:
		return v, nil
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("coerce %T: %w", value, err)
		}
		return string(raw), nil
	default:
		return value, nil
	}
}

// BoolFlag maps boolean-like payload values to SQLite's 0/1 convention.
func BoolFlag(value any) (int, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return nonZero(i), true
	case int:
		return nonZero(int64(v)), true
	case int64:
		return nonZero(v), true
	case float64:
		return nonZero(int64(v)), true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return 1, true
		case "0", "false", "no", "off", "":
			return 0, true
		}
	}
	return 0, false
}

func nonZero(v int64) int {
	if v != 0 {
		return 1
	}
	return 0
}
