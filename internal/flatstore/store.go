package flatstore

import (
	"maps"
	"slices"

	"metatree/internal/common"
	"metatree/internal/phpserial"
)

// Store is a flat metadata map keyed by meta key.
type Store map[string]any

// Keys returns the keys of the store in lexicographic order.
func (s Store) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns a shallow copy of the store.
func (s Store) Clone() Store {
	return maps.Clone(s)
}

// Normalize returns a new store with every value passed through NormalizeValue.
// The input is never modified.
func Normalize(raw Store) Store {
	normalized := make(Store, len(raw))
	for key, value := range raw {
		normalized[key] = NormalizeValue(value)
	}

	return normalized
}

// NormalizeValue collapses a single-element []string wrapper to its element
// and decodes serialized strings. Values that fail to decode stay as they are.
// Already decoded structures ([]any, maps) are returned untouched.
func NormalizeValue(value any) any {
	if wrapper, ok := value.([]string); ok && common.IsSingle(wrapper) {
		value, _ = common.First(wrapper)
	}

	if s, ok := value.(string); ok {
		return phpserial.MaybeUnserialize(s)
	}

	return value
}
