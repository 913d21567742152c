package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Encode writes v to w in the given format. JSON is indented with two
// spaces and YAML uses two-space indentation.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}

		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}

		return enc.Close()

	case FormatCBOR:
		if err := encMode.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding cbor: %w", err)
		}

		return nil
	}

	return fmt.Errorf("unknown format %q", format)
}
