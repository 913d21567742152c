package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTarget is returned for target declarations that cannot be parsed.
var ErrInvalidTarget = errors.New("invalid mapping target")

const (
	// FilterPrefix introduces a host-registered filter target.
	FilterPrefix = "filter:"
	// MethodSeparator separates a type name from a method name.
	MethodSeparator = "::"
	// ElementWiseSuffix marks a target or a path as applied per element.
	ElementWiseSuffix = "[]"
)

// Func is the normalized form of every callable target.
type Func func(value any) (any, error)

// TargetKind enumerates the shapes a target can take.
type TargetKind uint8

const (
	// TargetName is a bare name resolved at map time as an alias,
	// a constructible type or a free function, in that order.
	TargetName TargetKind = iota
	// TargetMethod is a "Type::method" reference.
	TargetMethod
	// TargetFilter is a "filter:name" reference.
	TargetFilter
	// TargetCallable is a Go function supplied at registration.
	TargetCallable
)

// String returns a human-readable kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetName:
		return "name"
	case TargetMethod:
		return "method"
	case TargetFilter:
		return "filter"
	case TargetCallable:
		return "callable"
	default:
		return fmt.Sprintf("TargetKind(%d)", k)
	}
}

// Target is one step of a mapping entry.
type Target struct {
	Kind TargetKind
	// Name is the bare name, the type of a method target or the filter name.
	Name string
	// Method is set for TargetMethod only.
	Method string
	// Func is set for TargetCallable only.
	Func Func
	// ElementWise applies the target to every element of a list value.
	ElementWise bool
}

// Name returns a bare name target.
func Name(name string) Target {
	return Target{Kind: TargetName, Name: name}
}

// Method returns a "Type::method" target.
func Method(typ, method string) Target {
	return Target{Kind: TargetMethod, Name: typ, Method: method}
}

// Filter returns a "filter:name" target.
func Filter(name string) Target {
	return Target{Kind: TargetFilter, Name: name}
}

// Callable returns a target invoking fn.
func Callable(fn Func) Target {
	return Target{Kind: TargetCallable, Func: fn, Name: FuncName(fn)}
}

// Each returns a copy of t applied per element.
func (t Target) Each() Target {
	t.ElementWise = true
	return t
}

// String renders the target in its declaration syntax.
// Callables render as their function name.
func (t Target) String() string {
	var s string

	switch t.Kind {
	case TargetMethod:
		s = t.Name + MethodSeparator + t.Method
	case TargetFilter:
		s = FilterPrefix + t.Name
	default:
		s = t.Name
	}

	if t.ElementWise {
		s += ElementWiseSuffix
	}

	return s
}

// ParseTarget parses a target declaration.
func ParseTarget(decl string) (Target, error) {
	s := strings.TrimSpace(decl)

	var t Target

	if rest, ok := strings.CutSuffix(s, ElementWiseSuffix); ok {
		t.ElementWise = true
		s = rest
	}

	if s == "" {
		return Target{}, fmt.Errorf("%w %q: empty name", ErrInvalidTarget, decl)
	}

	if strings.ContainsAny(s, "[] \t\r\n") {
		return Target{}, fmt.Errorf("%w %q: unexpected character", ErrInvalidTarget, decl)
	}

	if name, ok := strings.CutPrefix(s, FilterPrefix); ok {
		if name == "" {
			return Target{}, fmt.Errorf("%w %q: empty filter name", ErrInvalidTarget, decl)
		}

		t.Kind = TargetFilter
		t.Name = name

		return t, nil
	}

	if typ, method, ok := strings.Cut(s, MethodSeparator); ok {
		switch {
		case typ == "":
			return Target{}, fmt.Errorf("%w %q: empty type name", ErrInvalidTarget, decl)
		case method == "":
			return Target{}, fmt.Errorf("%w %q: empty method name", ErrInvalidTarget, decl)
		case strings.Contains(method, ":"):
			return Target{}, fmt.Errorf("%w %q: repeated separator", ErrInvalidTarget, decl)
		}

		t.Kind = TargetMethod
		t.Name = typ
		t.Method = method

		return t, nil
	}

	if strings.Contains(s, ":") {
		return Target{}, fmt.Errorf("%w %q: unknown prefix", ErrInvalidTarget, decl)
	}

	t.Kind = TargetName
	t.Name = s

	return t, nil
}

// MustParseTarget is like ParseTarget but panics on error.
func MustParseTarget(decl string) Target {
	t, err := ParseTarget(decl)
	if err != nil {
		panic(err)
	}

	return t
}
