package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DecodeStore decodes a flat store: a single object of key to value.
//
// JSON input may contain comments and trailing commas. Integral JSON
// numbers decode to int64, others to float64. Top-level arrays holding
// only strings decode to []string, the multi-value shape stores use.
func DecodeStore(data []byte, format Format) (map[string]any, error) {
	var (
		raw map[string]any
		err error
	)

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.UseNumber()
		err = dec.Decode(&raw)

	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)

	case FormatCBOR:
		err = UnmarshalCBOR(data, &raw)

	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s store: %w", format, err)
	}

	store := make(map[string]any, len(raw))
	for key, value := range raw {
		store[key] = topLevel(normalize(value))
	}

	return store, nil
}

// ReadStoreFile reads a store from disk, picking the format from the
// file extension. "-" reads standard input as JSON.
func ReadStoreFile(path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	store, err := DecodeStore(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return store, nil
}

// normalize converts decoder-specific shapes into plain Go values.
func normalize(v any) any {
	switch value := v.(type) {
	case json.Number:
		if i, err := value.Int64(); err == nil {
			return i
		}

		f, err := value.Float64()
		if err != nil {
			return value.String()
		}

		return f

	case uint64:
		if value <= 1<<63-1 {
			return int64(value)
		}

		return value

	case int:
		return int64(value)

	case []any:
		for i, item := range value {
			value[i] = normalize(item)
		}

		return value

	case map[string]any:
		for key, item := range value {
			value[key] = normalize(item)
		}

		return value

	case map[any]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[fmt.Sprint(key)] = normalize(item)
		}

		return out
	}

	return v
}

func topLevel(v any) any {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return v
	}

	strs := make([]string, len(items))

	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return v
		}

		strs[i] = s
	}

	return strs
}
