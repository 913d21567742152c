package mapper

import (
	"strings"

	"metatree/primitive"
)

// RegisterBuiltins registers the scalar conversion functions. Each is
// available under a short name and under its PHP-style name.
func RegisterBuiltins(r *Registry) {
	builtins := []struct {
		names []string
		fn    func(any) (any, error)
	}{
		{[]string{"int", "intval"}, func(v any) (any, error) { return primitive.Int(v), nil }},
		{[]string{"float", "floatval"}, func(v any) (any, error) { return primitive.Float(v), nil }},
		{[]string{"bool", "boolval"}, func(v any) (any, error) { return primitive.Truthy(v), nil }},
		{[]string{"string", "strval"}, func(v any) (any, error) { return primitive.String(v), nil }},
		{[]string{"trim"}, stringFunc(strings.TrimSpace)},
		{[]string{"lower", "strtolower"}, stringFunc(strings.ToLower)},
		{[]string{"upper", "strtoupper"}, stringFunc(strings.ToUpper)},
		{[]string{"split"}, split},
	}

	for _, b := range builtins {
		for _, name := range b.names {
			r.functions[name] = b.fn
		}
	}
}

// stringFunc applies fn to strings and leaves other values untouched.
func stringFunc(fn func(string) string) func(any) (any, error) {
	return func(v any) (any, error) {
		if s, ok := v.(string); ok {
			return fn(s), nil
		}

		return v, nil
	}
}

// split turns a comma separated string into a list of trimmed, non-empty parts.
func split(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}

	parts := []any{}

	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	return parts, nil
}
