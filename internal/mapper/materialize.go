package mapper

import (
	"fmt"

	"metatree/internal/reconstruct"
)

// Materializer is implemented by mapped values that know their plain form,
// such as entities.
type Materializer interface {
	Materialize() (any, error)
}

// Materialize converts mapped values into plain maps, lists and scalars
// ready for encoding. Sequences are forced row by row.
func Materialize(v any) (any, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil

	case *Sequence:
		items := make([]any, value.Len())

		for i := range items {
			row, err := value.At(i)
			if err != nil {
				return nil, err
			}

			items[i], err = Materialize(row)
			if err != nil {
				return nil, err
			}
		}

		return items, nil

	case *MappedRow:
		out := make(map[string]any, len(value.Fields)+1)

		for key, field := range value.Fields {
			m, err := Materialize(field)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			out[key] = m
		}

		if value.Type != "" {
			out[reconstruct.TypeKey] = value.Type
		}

		return out, nil

	case reconstruct.Node:
		return reconstruct.ToValue(value), nil

	case Materializer:
		return value.Materialize()

	case []any:
		items := make([]any, len(value))

		for i, item := range value {
			m, err := Materialize(item)
			if err != nil {
				return nil, err
			}

			items[i] = m
		}

		return items, nil

	case map[string]any:
		out := make(map[string]any, len(value))

		for key, item := range value {
			m, err := Materialize(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			out[key] = m
		}

		return out, nil
	}

	return v, nil
}
