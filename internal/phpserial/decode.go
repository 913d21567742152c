package phpserial

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/elliotchance/phpserialize"
)

var (
	// ErrUnsupported is returned for serialized forms the decoder does not handle.
	ErrUnsupported = errors.New("unsupported serialized form")

	// ErrMalformed is returned when the input cannot be parsed.
	ErrMalformed = errors.New("malformed serialized value")
)

// memberCount matches the element count header of arrays and objects.
var memberCount = regexp.MustCompile(`:(\d+):\{`)

// minMemberSize is the size of the shortest key/value pair, "i:0;N;".
const minMemberSize = 6

// LooksSerialized performs the cheap shape check the host platform uses
// before attempting to decode a stored string.
func LooksSerialized(s string) bool {
	s = strings.TrimSpace(s)
	if s == "N;" {
		return true
	}

	if len(s) < 4 || s[1] != ':' {
		return false
	}

	last := s[len(s)-1]
	if last != ';' && last != '}' {
		return false
	}

	switch s[0] {
	case 's', 'a', 'O', 'b', 'i', 'd':
		return true
	default:
		return false
	}
}

// MaybeUnserialize decodes s when it looks serialized. Any decode failure
// yields the original string.
func MaybeUnserialize(s string) any {
	if !LooksSerialized(s) {
		return s
	}

	v, err := Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return s
	}

	return v
}

// Unmarshal decodes a complete serialized value.
func Unmarshal(data string) (v any, err error) {
	if data == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	if err := checkCounts(data); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	raw := []byte(data)

	switch data[0] {
	case 'N':
		if err := phpserialize.UnmarshalNil(raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		return nil, nil
	case 'b':
		return wrap(phpserialize.UnmarshalBool(raw))
	case 'i':
		return wrap(phpserialize.UnmarshalInt(raw))
	case 'd':
		return wrap(phpserialize.UnmarshalFloat(raw))
	case 's':
		return wrap(phpserialize.UnmarshalString(raw))
	case 'a':
		return array(raw)
	case 'O':
		body, err := objectBody(data)
		if err != nil {
			return nil, err
		}

		m, err := array([]byte(body))
		if err != nil {
			return nil, err
		}

		return properties(m), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, data[0])
	}
}

func wrap[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return plain(v), nil
}

// checkCounts rejects element counts that cannot fit in the input.
func checkCounts(data string) error {
	for _, match := range memberCount.FindAllStringSubmatch(data, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || n > len(data)/minMemberSize {
			return fmt.Errorf("%w: %s members in %d bytes", ErrMalformed, match[1], len(data))
		}
	}

	return nil
}

func array(raw []byte) (any, error) {
	m, err := phpserialize.UnmarshalAssociativeArray(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return plain(m), nil
}

// objectBody rewrites `O:<n>:"<class>":<count>:{...}` as the array
// `a:<count>:{...}`.
func objectBody(data string) (string, error) {
	rest, ok := strings.CutPrefix(data, "O:")
	if !ok {
		return "", fmt.Errorf("%w: not an object", ErrMalformed)
	}

	size, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return "", fmt.Errorf("%w: missing class name length", ErrMalformed)
	}

	n, err := strconv.Atoi(size)
	if err != nil || n < 0 || len(rest) < n+3 || rest[0] != '"' {
		return "", fmt.Errorf("%w: invalid class name", ErrMalformed)
	}

	rest = rest[1+n:]
	if !strings.HasPrefix(rest, `":`) {
		return "", fmt.Errorf("%w: invalid class name", ErrMalformed)
	}

	return "a:" + rest[2:], nil
}

// plain converts decoded values into []any, map[string]any and scalars.
func plain(v any) any {
	switch value := v.(type) {
	case map[any]any:
		return fromArray(value)
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = plain(item)
		}

		return out
	case int:
		return int64(value)
	case int32:
		return int64(value)
	case float32:
		return float64(value)
	default:
		return v
	}
}

func fromArray(m map[any]any) any {
	list := make([]any, len(m))
	sequential := true

	for k, v := range m {
		i, ok := index(k)
		if !ok || i < 0 || i >= len(m) {
			sequential = false
			break
		}

		list[i] = plain(v)
	}

	if sequential {
		return list
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[key(k)] = plain(v)
	}

	return out
}

func index(k any) (int, bool) {
	switch n := k.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func key(k any) string {
	switch v := k.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// properties strips the visibility marker of protected ("\0*\0name") and
// private ("\0Class\0name") property names.
func properties(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}

	out := make(map[string]any, len(m))
	for k, value := range m {
		if len(k) > 0 && k[0] == 0 {
			if i := strings.IndexByte(k[1:], 0); i >= 0 {
				k = k[i+2:]
			}
		}

		out[k] = value
	}

	return out
}
