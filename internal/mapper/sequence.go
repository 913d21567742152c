package mapper

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"metatree/internal/mapping"
	"metatree/internal/reconstruct"
)

// ErrIndexOutOfRange is returned by Sequence.At for indexes outside [0, Len).
var ErrIndexOutOfRange = errors.New("index out of range")

// MappedRow is one row of a list after mapping.
type MappedRow struct {
	Type   string
	Fields map[string]any
}

// Get returns the mapped field stored under key.
func (r *MappedRow) Get(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Keys returns the field names in lexicographic order.
func (r *MappedRow) Keys() []string {
	return slices.Sorted(maps.Keys(r.Fields))
}

// Sequence is a lazily mapped view over the rows of a list.
//
// Rows are mapped on first access and cached for the lifetime of the
// sequence, so repeated access returns the same *MappedRow. The
// underlying rows are never modified. A Sequence is meant for one
// consumer at a time.
type Sequence struct {
	engine *Engine
	schema *mapping.Schema
	rows   []*reconstruct.Row
	cache  []*MappedRow
	pos    int
	err    error
}

func newSequence(engine *Engine, rows []*reconstruct.Row, schema *mapping.Schema) *Sequence {
	return &Sequence{
		engine: engine,
		schema: schema,
		rows:   rows,
		cache:  make([]*MappedRow, len(rows)),
	}
}

// NewSequence creates a lazy view mapping rows through schema.
func (e *Engine) NewSequence(rows reconstruct.List, schema *mapping.Schema) *Sequence {
	return newSequence(e, rows, schema)
}

// Len returns the number of rows without mapping any of them.
func (s *Sequence) Len() int {
	return len(s.rows)
}

// Schema returns the schema rows are mapped through.
func (s *Sequence) Schema() *mapping.Schema {
	return s.schema
}

// Raw returns the unmapped row at index i.
func (s *Sequence) Raw(i int) (*reconstruct.Row, bool) {
	if i < 0 || i >= len(s.rows) {
		return nil, false
	}

	return s.rows[i], true
}

// At returns the mapped row at index i, mapping it on first access.
func (s *Sequence) At(i int) (*MappedRow, error) {
	if i < 0 || i >= len(s.rows) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.rows))
	}

	if cached := s.cache[i]; cached != nil {
		return cached, nil
	}

	row, err := s.engine.mapRow(s.rows[i], s.schema)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", i, err)
	}

	s.cache[i] = row

	return row, nil
}

// Mapped reports whether row i has been mapped already.
func (s *Sequence) Mapped(i int) bool {
	return i >= 0 && i < len(s.cache) && s.cache[i] != nil
}

// Rewind moves the cursor back to the first row. Cached rows stay cached.
func (s *Sequence) Rewind() {
	s.pos = 0
}

// Valid reports whether the cursor points at a row.
func (s *Sequence) Valid() bool {
	return s.pos < len(s.rows)
}

// Key returns the cursor position.
func (s *Sequence) Key() int {
	return s.pos
}

// Current returns the mapped row under the cursor.
func (s *Sequence) Current() (*MappedRow, error) {
	return s.At(s.pos)
}

// Next advances the cursor.
func (s *Sequence) Next() {
	s.pos++
}

// All iterates over the mapped rows from the first one. Iteration stops
// at the first row that fails to map; Err reports that failure.
func (s *Sequence) All() iter.Seq2[int, *MappedRow] {
	return func(yield func(int, *MappedRow) bool) {
		s.err = nil

		for i := range s.rows {
			row, err := s.At(i)
			if err != nil {
				s.err = err
				return
			}

			if !yield(i, row) {
				return
			}
		}
	}
}

// Err returns the error that stopped the last All iteration.
func (s *Sequence) Err() error {
	return s.err
}
