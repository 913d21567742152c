package mapping

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strings"

	"metatree/internal/diagnostic"
)

// Entry is what a schema key maps to: either a chain of targets applied
// in sequence, or a nested schema for the rows of a list value.
type Entry struct {
	Chain  []Target
	Nested *Schema
}

// IsNested reports whether the entry is a nested schema.
func (e Entry) IsNested() bool {
	return e.Nested != nil
}

// IsZero reports whether the entry maps to nothing.
func (e Entry) IsZero() bool {
	return e.Nested == nil && len(e.Chain) == 0
}

// String renders the chain in declaration syntax, or "{...}" for nested entries.
func (e Entry) String() string {
	if e.IsNested() {
		return "{...}"
	}

	parts := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		parts[i] = t.String()
	}

	return strings.Join(parts, ", ")
}

func (e Entry) each() Entry {
	chain := make([]Target, len(e.Chain))
	for i, t := range e.Chain {
		chain[i] = t.Each()
	}

	return Entry{Chain: chain}
}

// EntryOf converts a target declaration into an Entry.
//
// Accepted shapes: a target string, a list of target strings, a Target or
// a list of them, a Go function (see AdaptFunc), a list mixing those,
// a *Schema, a map of paths to declarations (nested schema) or an Entry.
func EntryOf(spec any) (Entry, error) {
	switch v := spec.(type) {
	case nil:
		return Entry{}, fmt.Errorf("%w: nil declaration", ErrInvalidTarget)

	case Entry:
		if v.IsZero() {
			return Entry{}, fmt.Errorf("%w: empty entry", ErrInvalidTarget)
		}

		return v, nil

	case *Schema:
		if v == nil {
			return Entry{}, fmt.Errorf("%w: nil schema", ErrInvalidTarget)
		}

		return Entry{Nested: v}, nil

	case map[string]any:
		nested := New()
		if err := nested.SetMany(v); err != nil {
			return Entry{}, err
		}

		return Entry{Nested: nested}, nil

	case map[string]string:
		nested := New()
		for _, k := range slices.Sorted(maps.Keys(v)) {
			if err := nested.Set(k, v[k]); err != nil {
				return Entry{}, err
			}
		}

		return Entry{Nested: nested}, nil

	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}

		return chainOf(items)

	case []Target:
		items := make([]any, len(v))
		for i, t := range v {
			items[i] = t
		}

		return chainOf(items)

	case []any:
		return chainOf(v)
	}

	t, err := targetOf(spec)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Chain: []Target{t}}, nil
}

func chainOf(items []any) (Entry, error) {
	if len(items) == 0 {
		return Entry{}, fmt.Errorf("%w: empty target list", ErrInvalidTarget)
	}

	chain := make([]Target, 0, len(items))

	for _, item := range items {
		t, err := targetOf(item)
		if err != nil {
			return Entry{}, err
		}

		chain = append(chain, t)
	}

	return Entry{Chain: chain}, nil
}

func targetOf(spec any) (Target, error) {
	switch v := spec.(type) {
	case string:
		return ParseTarget(v)

	case Target:
		if v.Kind == TargetCallable && v.Func == nil {
			return Target{}, fmt.Errorf("%w: callable target without function", ErrInvalidTarget)
		}

		if v.Kind != TargetCallable && v.Name == "" {
			return Target{}, fmt.Errorf("%w: %s target without name", ErrInvalidTarget, v.Kind)
		}

		return v, nil
	}

	if reflect.TypeOf(spec) != nil && reflect.TypeOf(spec).Kind() == reflect.Func {
		fn, err := AdaptFunc(spec)
		if err != nil {
			return Target{}, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
		}

		return Target{Kind: TargetCallable, Func: fn, Name: FuncName(spec)}, nil
	}

	return Target{}, fmt.Errorf("%w: unsupported declaration %T", ErrInvalidTarget, spec)
}

// Schema is an ordered set of path registrations.
// The zero value is an empty, unnamed schema ready to use.
type Schema struct {
	name    string
	order   []string
	entries map[string]Entry

	compiled *compiledSchema
}

type compiledSchema struct {
	keys    []string
	entries map[string]Entry
	diags   diagnostic.Diagnostics
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{}
}

// NewNamed creates an empty schema named for diagnostics.
func NewNamed(name string) *Schema {
	return &Schema{name: name}
}

// Name returns the schema name used in diagnostics.
func (s *Schema) Name() string {
	return s.name
}

// Set registers spec under path. Registering the same path again
// replaces the earlier entry and moves it to the end of the order.
// See EntryOf for the accepted spec shapes.
func (s *Schema) Set(path string, spec any) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}

	entry, err := EntryOf(spec)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if p.ElementWise {
		if entry.IsNested() {
			return fmt.Errorf("%w %q: nested schema cannot be element-wise", ErrInvalidPath, path)
		}

		entry = entry.each()
	}

	s.put(p.Key(), entry)

	return nil
}

// MustSet is like Set but panics on error.
func (s *Schema) MustSet(path string, spec any) *Schema {
	if err := s.Set(path, spec); err != nil {
		panic(err)
	}

	return s
}

// SetMany registers every entry of m, in sorted key order.
func (s *Schema) SetMany(m map[string]any) error {
	var errs []error

	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := s.Set(k, m[k]); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Merge registers every path of others, left to right, on top of s.
// Exact paths override; nothing merges inside one key.
func (s *Schema) Merge(others ...*Schema) *Schema {
	for _, o := range others {
		if o == nil {
			continue
		}

		for _, key := range o.order {
			s.put(key, o.entries[key])
		}
	}

	return s
}

// Merge returns a new schema holding every registration of schemas,
// applied left to right.
func Merge(schemas ...*Schema) *Schema {
	return New().Merge(schemas...)
}

// Clone returns a shallow copy: nested schemas are shared.
func (s *Schema) Clone() *Schema {
	c := &Schema{
		name:    s.name,
		order:   slices.Clone(s.order),
		entries: maps.Clone(s.entries),
	}

	return c
}

func (s *Schema) put(key string, e Entry) {
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}

	if _, ok := s.entries[key]; ok {
		s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == key })
	}

	s.order = append(s.order, key)
	s.entries[key] = e
	s.compiled = nil
}

// Len returns the number of registered paths.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}

	return len(s.order)
}

// Paths returns the registered paths in registration order.
func (s *Schema) Paths() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.order)
}

// Registered returns the entry registered under the exact path.
func (s *Schema) Registered(path string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}

	e, ok := s.entries[path]

	return e, ok
}

// Keys returns the top-level keys after dot expansion, in first-seen order.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.compile().keys)
}

// Lookup returns the entry for a top-level key after dot expansion.
func (s *Schema) Lookup(key string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}

	e, ok := s.compile().entries[key]

	return e, ok
}

// Has reports whether key has an entry.
func (s *Schema) Has(key string) bool {
	_, ok := s.Lookup(key)
	return ok
}

// All iterates over the top-level entries after dot expansion.
func (s *Schema) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		if s == nil {
			return
		}

		c := s.compile()
		for _, k := range c.keys {
			if !yield(k, c.entries[k]) {
				return
			}
		}
	}
}

// Resolve walks a dotted path through nested schemas.
func (s *Schema) Resolve(path string) (Entry, bool) {
	p, err := ParsePath(path)
	if err != nil {
		return Entry{}, false
	}

	cur := s

	for i, seg := range p.Segments {
		e, ok := cur.Lookup(seg)
		if !ok {
			return Entry{}, false
		}

		if i == len(p.Segments)-1 {
			return e, true
		}

		if !e.IsNested() {
			return Entry{}, false
		}

		cur = e.Nested
	}

	return Entry{}, false
}

// ForType returns the nested schema registered under a row type tag,
// or nil when the tag has no nested entry.
func (s *Schema) ForType(tag string) *Schema {
	if tag == "" {
		return nil
	}

	e, ok := s.Lookup(tag)
	if !ok || !e.IsNested() {
		return nil
	}

	return e.Nested
}

// Diagnostics returns the conflicts found while expanding dotted paths,
// including those of nested schemas.
func (s *Schema) Diagnostics() *diagnostic.Diagnostics {
	var d diagnostic.Diagnostics

	s.collect(&d, make(map[*Schema]bool))

	return &d
}

func (s *Schema) collect(d *diagnostic.Diagnostics, seen map[*Schema]bool) {
	if s == nil || seen[s] {
		return
	}

	seen[s] = true

	c := s.compile()
	d.Merge(c.diags)

	for _, k := range c.keys {
		if e := c.entries[k]; e.IsNested() {
			e.Nested.collect(d, seen)
		}
	}
}

// compile expands dotted paths into nested schemas. The result is cached
// until the next registration.
func (s *Schema) compile() *compiledSchema {
	if s.compiled != nil {
		return s.compiled
	}

	c := &compiledSchema{entries: make(map[string]Entry, len(s.order))}
	owned := make(map[string]bool)

	for _, key := range s.order {
		e := s.entries[key]
		head, rest, dotted := strings.Cut(key, ".")
		prev, exists := c.entries[head]

		if !exists {
			c.keys = append(c.keys, head)
		}

		if !dotted {
			if exists && prev.IsNested() != e.IsNested() {
				c.diags.AddWarning(diagnostic.CodePathConflict,
					fmt.Sprintf("%s entry replaces earlier %s entry", kindOf(e), kindOf(prev)),
					s.name, key)
			}

			c.entries[head] = e
			delete(owned, head)

			continue
		}

		var child *Schema

		switch {
		case exists && !prev.IsNested():
			c.diags.AddWarning(diagnostic.CodePathConflict,
				"nested entry replaces earlier leaf entry "+head, s.name, key)
		case exists && owned[head]:
			child = prev.Nested
		case exists:
			child = prev.Nested.Clone()
		}

		if child == nil {
			child = NewNamed(childName(s.name, head))
		}

		child.put(rest, e)
		owned[head] = true
		c.entries[head] = Entry{Nested: child}
	}

	s.compiled = c

	return c
}

func kindOf(e Entry) string {
	if e.IsNested() {
		return "nested"
	}

	return "leaf"
}

func childName(parent, key string) string {
	if parent == "" {
		return key
	}

	return parent + "." + key
}
