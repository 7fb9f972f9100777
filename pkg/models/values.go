package models

import (
	"encoding/json"
	"strconv"
)

// The CiviCRM API is loosely typed: numeric IDs arrive as strings or
// numbers depending on the endpoint, and multi-value fields arrive as a
// string when singular. These helpers normalize decoded JSON values.

// IntValue coerces a decoded JSON value to an int, returning 0 when the
// value is absent or not numeric.
func IntValue(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case json.Number:
		n, _ := val.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(val)
		return n
	}
	return 0
}

// StringValue coerces a decoded JSON value to a string.
func StringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "1"
		}
		return "0"
	}
	return ""
}

// FloatValue coerces a decoded JSON value to a float64, returning 0 when
// the value is absent or not numeric.
func FloatValue(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	}
	return 0
}

// BoolValue coerces a decoded JSON value to a bool. CiviCRM booleans come
// back as "0"/"1" strings as often as real booleans.
func BoolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "1" || val == "true"
	case float64:
		return val != 0
	case int:
		return val != 0
	}
	return false
}

// StringList coerces a value that may be a scalar or an array into a
// slice of strings. Contact sub-types are the usual offender.
func StringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := StringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := StringValue(val); s != "" {
			return []string{s}
		}
		return nil
	}
}
