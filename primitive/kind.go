package primitive

import (
	"reflect"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies a decoded metadata value.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindList  // slices and arrays
	KindAssoc // maps with string keys
	KindOther // structs, pointers, functions and anything else

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindFloat:
		return true
	}
}

func (k KindEnum) IsScalar() bool {
	switch k {
	default:
		return false
	case KindNull, KindBool, KindInt, KindFloat, KindString:
		return true
	}
}

func (k KindEnum) IsCollection() bool {
	return k == KindList || k == KindAssoc
}

// KindOf returns the kind of the given value.
// Named types are classified by their underlying kind.
func KindOf(v any) KindEnum {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case []any, []string:
		return KindList
	case map[string]any:
		return KindAssoc
	}

	return FromReflectType(reflect.TypeOf(v))
}

func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return KindNull
	}

	switch rtype.Kind() {
	default:
		return KindOther
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Slice, reflect.Array:
		return KindList
	case reflect.Map:
		if rtype.Key().Kind() == reflect.String {
			return KindAssoc
		}

		return KindOther
	}
}
