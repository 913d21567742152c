package mapping

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"metatree/utils"
)

var (
	ErrNotAFunction = errors.New("provided callable is not a function")
	ErrNotACallable = errors.New("provided function is not a recognizable callable")
	ErrArgumentType = errors.New("value does not fit the callable argument")

	errorType = reflect.TypeFor[error]()
	funcType  = reflect.TypeFor[Func]()
)

// AdaptFunc wraps a single-argument function into a Func.
//
// Supports signatures:
//   - func(src T) R
//   - func(src T) (R, bool)
//   - func(src T) (R, error)
//   - func(src T) (R, bool, error)
//
// A false bool result yields an absent value (nil, nil).
// Values are passed as is when assignable to T; numbers convert between
// numeric kinds and strings between string kinds. Anything else fails
// with ErrArgumentType.
func AdaptFunc(fn any) (Func, error) {
	switch f := fn.(type) {
	case nil:
		return nil, ErrNotAFunction
	case Func:
		return f, nil
	case func(any) (any, error):
		return f, nil
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, ErrNotAFunction
	}

	if fnType.ConvertibleTo(funcType) {
		return fnVal.Convert(funcType).Interface().(Func), nil
	}

	if fnType.NumIn() != 1 || fnType.IsVariadic() {
		return nil, ErrNotACallable
	}

	var hasBool, hasErr bool

	switch fnType.NumOut() {
	default:
		return nil, ErrNotACallable

	case 1:

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return nil, ErrNotACallable
		case last.Kind() == reflect.Bool:
			hasBool = true
		case last == errorType:
			hasErr = true
		}

	case 3:
		if fnType.Out(1).Kind() != reflect.Bool || fnType.Out(2) != errorType {
			return nil, ErrNotACallable
		}

		hasBool, hasErr = true, true
	}

	in := fnType.In(0)
	name := FuncName(fn)

	return func(value any) (any, error) {
		arg, ok := argumentOf(value, in)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects %s, got %T", ErrArgumentType, name, in, value)
		}

		out := fnVal.Call([]reflect.Value{arg})

		if hasErr {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return nil, errVal.Interface().(error)
			}
		}

		if hasBool && !out[1].Bool() {
			return nil, nil
		}

		return resultOf(out[0]), nil
	}, nil
}

// FuncName returns "pkg.Name" for a function value, or "func" when
// the runtime cannot name it.
func FuncName(fn any) string {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return "func"
	}

	fnPC := runtime.FuncForPC(fnVal.Pointer())
	if fnPC == nil {
		return "func"
	}

	alias, name := utils.Unpack2(strings.SplitN(fnPC.Name(), ".", 2))
	if name == "" {
		return alias
	}

	return utils.Second(path.Split(alias)) + "." + name
}

func argumentOf(value any, in reflect.Type) (reflect.Value, bool) {
	if value == nil {
		return reflect.Zero(in), true
	}

	v := reflect.ValueOf(value)

	switch {
	case v.Type().AssignableTo(in):
		return v, true
	case isNumeric(v.Kind()) && isNumeric(in.Kind()):
		return v.Convert(in), true
	case v.Kind() == reflect.String && in.Kind() == reflect.String:
		return v.Convert(in), true
	}

	return reflect.Value{}, false
}

func resultOf(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func:
		if v.IsNil() {
			return nil
		}
	}

	return v.Interface()
}

func isNumeric(k reflect.Kind) bool {
	return reflect.Int <= k && k <= reflect.Float64
}
