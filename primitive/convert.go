package primitive

import (
	"reflect"
	"strconv"
	"strings"
)

// Int converts v to an integer the way loosely typed metadata is read:
// strings by their leading number, floats truncated, true as 1 and
// anything unreadable as 0.
func Int(v any) int64 {
	switch value := v.(type) {
	case nil:
		return 0
	case bool:
		if value {
			return 1
		}

		return 0
	case string:
		return int64(Float(value))
	}

	switch KindOf(v) {
	case KindInt:
		rv := reflect.ValueOf(v)
		if rv.CanInt() {
			return rv.Int()
		}

		return int64(rv.Uint())
	case KindFloat:
		return int64(reflect.ValueOf(v).Float())
	case KindList, KindAssoc:
		if Truthy(v) {
			return 1
		}
	}

	return 0
}

// Float converts v to a float with the same rules as Int.
func Float(v any) float64 {
	switch value := v.(type) {
	case string:
		return leadingNumber(value)
	case float32:
		return float64(value)
	case float64:
		return value
	}

	if KindOf(v) == KindFloat {
		return reflect.ValueOf(v).Float()
	}

	return float64(Int(v))
}

// String converts scalars to strings: true is "1", false and nil are
// empty. Other values are returned as "".
func String(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if value {
			return "1"
		}

		return ""
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	if KindOf(v) == KindInt {
		rv := reflect.ValueOf(v)
		if rv.CanInt() {
			return strconv.FormatInt(rv.Int(), 10)
		}

		return strconv.FormatUint(rv.Uint(), 10)
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}

	return ""
}

func leadingNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	seenDigit, seenDot, seenExp := false, false, false

scan:
	for end < len(s) {
		c := s[end]

		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case (c == '+' || c == '-') && (end == 0 || s[end-1] == 'e' || s[end-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			break scan
		}

		end++
	}

	for end > 0 {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}

		end--
	}

	return 0
}
