package primitive

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"metatree/utils"
)

// Truthy reports whether the value would be considered set by the host
// platform: nil, false, zero numbers, "", "0" and empty collections are not.
func Truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != "" && value != "0"
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	case []any:
		return len(value) > 0
	case []string:
		return len(value) > 0
	case map[string]any:
		return len(value) > 0
	}

	rv := reflect.ValueOf(v)
	switch KindOf(v) {
	case KindBool:
		return rv.Bool()
	case KindInt:
		if rv.CanInt() {
			return rv.Int() != 0
		}

		return rv.Uint() != 0
	case KindFloat:
		return rv.Float() != 0
	case KindString:
		s := rv.String()
		return s != "" && s != "0"
	case KindList, KindAssoc:
		return rv.Len() > 0
	case KindOther:
		if rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
			return !rv.IsNil()
		}
	}

	return true
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// AsCount interprets v as a non-negative row count. Only integers and
// strings made of digits qualify; floats and signed strings never do.
func AsCount(v any) (int, bool) {
	switch value := v.(type) {
	case string:
		if !IsDigits(value) {
			return 0, false
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}

		return n, true
	case int:
		return value, value >= 0
	}

	if KindOf(v) != KindInt {
		return 0, false
	}

	rv := reflect.ValueOf(v)
	if rv.CanInt() {
		n := rv.Int()
		return int(n), utils.IsInRange(0, n, math.MaxInt32)
	}

	n := rv.Uint()
	return int(n), n <= math.MaxInt32
}

// AsID interprets v as a positive entity identifier. Integral floats and
// padded digit strings are accepted as the host platform stores them.
func AsID(v any) (int64, bool) {
	switch value := v.(type) {
	case string:
		value = strings.TrimSpace(value)
		if !IsDigits(value) {
			return 0, false
		}

		id, err := strconv.ParseInt(value, 10, 64)
		return id, err == nil && id > 0
	case float64:
		if value != math.Trunc(value) || value <= 0 || value > math.MaxInt64 {
			return 0, false
		}

		return int64(value), true
	}

	switch KindOf(v) {
	case KindInt:
		rv := reflect.ValueOf(v)
		if rv.CanInt() {
			return rv.Int(), rv.Int() > 0
		}

		if rv.Uint() > math.MaxInt64 {
			return 0, false
		}

		return int64(rv.Uint()), rv.Uint() > 0
	case KindFloat:
		return AsID(reflect.ValueOf(v).Float())
	}

	return 0, false
}

// Items returns the elements of a list-shaped value.
func Items(v any) ([]any, bool) {
	switch value := v.(type) {
	case []any:
		return value, true
	case []string:
		items := make([]any, len(value))
		for i, s := range value {
			items[i] = s
		}

		return items, true
	case string:
		return nil, false
	}

	if KindOf(v) != KindList {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}

	return items, true
}
