package reconstruct

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"metatree/internal/flatstore"
	"metatree/primitive"
)

// shadowPrefix starts the companion key the custom field layer stores next
// to every field ("_title" holds the field definition reference of "title").
const shadowPrefix = "_"

// scan holds the detection state for one level of a flat store.
type scan struct {
	fields flatstore.Store
	keys   []string

	// consumed maps a key to the root that claimed it.
	consumed map[string]string
	// groups maps a detected root to its collected rows.
	groups map[string][]rowData

	flexible  []string
	repeaters []string
}

func newScan(fields flatstore.Store) *scan {
	return &scan{
		fields:   fields,
		keys:     fields.Keys(),
		consumed: make(map[string]string),
		groups:   make(map[string][]rowData),
	}
}

func (s *scan) detectFlexible(logger *slog.Logger) {
	for _, key := range s.keys {
		tags, ok := typeTags(valueOf(s.fields[key]))
		if !ok {
			continue
		}

		if claimedBy(key, s.flexible) != "" || !s.hasPrefixed(key+"_") {
			continue
		}

		s.flexible = append(s.flexible, key)
		s.collectFlexible(key, tags)

		logger.Debug("flexible content detected", "key", key, "rows", len(tags))
	}
}

func (s *scan) collectFlexible(root string, tags []string) {
	rows := make([]rowData, len(tags))
	for i, tag := range tags {
		rows[i] = rowData{typ: tag, fields: make(flatstore.Store)}
	}

	prefix := root + "_"
	for _, key := range s.keys {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}

		idx, field, ok := splitIndex(rest)
		if !ok || idx >= len(rows) {
			continue
		}

		s.consume(key, root)

		if field == TypeKey {
			if tag, ok := valueOf(s.fields[key]).(string); ok && tag != "" {
				rows[idx].typ = tag
			}

			continue
		}

		rows[idx].fields[field] = s.fields[key]
	}

	s.consumed[shadowPrefix+root] = root
	s.groups[root] = rows
}

func (s *scan) detectRepeaters(logger *slog.Logger) {
	for _, key := range s.keys {
		if s.consumed[key] != "" {
			continue
		}

		if _, isGroup := s.groups[key]; isGroup {
			continue
		}

		count, ok := primitive.AsCount(valueOf(s.fields[key]))
		if !ok || count == 0 {
			continue
		}

		if claimedBy(key, s.repeaters) != "" {
			continue
		}

		if missing := s.firstMissingRow(key, count); missing >= 0 {
			logger.Debug("repeater candidate rejected",
				"key", key, "count", count, "missing_row", missing)

			continue
		}

		s.repeaters = append(s.repeaters, key)
		s.collectRepeater(key, count)

		logger.Debug("repeater detected", "key", key, "rows", count)
	}
}

// firstMissingRow returns the first row index without any field, or -1.
// Rows must be contiguous from zero, so the scan stops at the first gap.
func (s *scan) firstMissingRow(root string, count int) int {
	for i := 0; i < count; i++ {
		if !s.hasPrefixed(root + "_" + strconv.Itoa(i) + "_") {
			return i
		}
	}

	return -1
}

func (s *scan) collectRepeater(root string, count int) {
	prefix := root + "_"

	// Flexible roots detected inside this repeater's rows are dissolved so
	// that their keys move into the row and get detected one level down.
	s.flexible = slices.DeleteFunc(s.flexible, func(flex string) bool {
		rest, ok := strings.CutPrefix(flex, prefix)
		if !ok {
			return false
		}

		if idx, _, ok := splitIndex(rest); !ok || idx >= count {
			return false
		}

		delete(s.groups, flex)
		for key, owner := range s.consumed {
			if owner == flex {
				delete(s.consumed, key)
			}
		}

		return true
	})

	rows := make([]rowData, count)
	for i := range rows {
		rows[i] = rowData{fields: make(flatstore.Store)}
	}

	for _, key := range s.keys {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}

		idx, field, ok := splitIndex(rest)
		if !ok || idx >= count {
			continue
		}

		s.consume(key, root)
		rows[idx].fields[field] = s.fields[key]
	}

	s.consumed[shadowPrefix+root] = root
	s.groups[root] = rows
}

func (s *scan) consume(key, root string) {
	s.consumed[key] = root
	s.consumed[shadowPrefix+key] = root
}

// hasPrefixed reports whether any key starts with prefix.
func (s *scan) hasPrefixed(prefix string) bool {
	i, _ := slices.BinarySearch(s.keys, prefix)
	for ; i < len(s.keys); i++ {
		if s.keys[i] != prefix {
			return strings.HasPrefix(s.keys[i], prefix)
		}
	}

	return false
}

// claimedBy returns the root among roots under whose rows key is nested.
func claimedBy(key string, roots []string) string {
	for _, root := range roots {
		if strings.HasPrefix(key, root+"_") {
			return root
		}
	}

	return ""
}

// typeTags returns the layout tags of a flexible content root value:
// a non-empty list whose elements are all truthy strings or integers.
func typeTags(v any) ([]string, bool) {
	if _, isNode := v.(Node); isNode {
		return nil, false
	}

	items, ok := primitive.Items(v)
	if !ok || len(items) == 0 {
		return nil, false
	}

	tags := make([]string, len(items))
	for i, item := range items {
		kind := primitive.KindOf(item)
		if (kind != primitive.KindString && kind != primitive.KindInt) || !primitive.Truthy(item) {
			return nil, false
		}

		tags[i] = primitive.String(item)
	}

	return tags, true
}

// splitIndex splits "<index>_<field>" into its parts. The index must be a
// canonical decimal number and the field must not be empty.
func splitIndex(rest string) (int, string, bool) {
	digits, field, ok := strings.Cut(rest, "_")
	if !ok || field == "" || !primitive.IsDigits(digits) {
		return 0, "", false
	}

	idx, err := strconv.Atoi(digits)
	if err != nil || strconv.Itoa(idx) != digits {
		return 0, "", false
	}

	return idx, field, true
}
