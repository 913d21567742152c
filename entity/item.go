package entity

import (
	"fmt"
	"maps"

	"metatree/internal/hooks"
	"metatree/internal/mapping"
	"metatree/internal/reconstruct"
	"metatree/primitive"
)

// Entity is implemented by every kind built on an Item.
type Entity interface {
	Base() *Item
}

// External computes a property from the entity it is read on.
type External func(e Entity) (any, error)

// resolver is one step of the property pipeline. name is the requested
// property and property its translation.
type resolver func(it *Item, name, property string) (any, error)

// pipeline lists the property sources in priority order.
var pipeline = []resolver{
	(*Item).fromExternal,
	(*Item).fromMethods,
	(*Item).fromMeta,
	(*Item).fromGetter,
	(*Item).fromData,
}

// Item holds what all entity kinds share: the record, its reconstructed
// metadata, the property dictionary and the mapping schema.
type Item struct {
	env      *Env
	owner    Entity
	typeName string
	record   *Record
	meta     *reconstruct.Row

	dictionary map[string]string
	schema     *mapping.Schema
	methods    map[string]func() (any, error)
	getter     func(property string) (any, error)
	external   map[string]External
	cache      map[string]any
}

func newItem(env *Env, typeName string, record *Record, meta *reconstruct.Row) *Item {
	if meta == nil {
		meta = reconstruct.NewRow("")
	}

	return &Item{
		env:        env,
		typeName:   typeName,
		record:     record,
		meta:       meta,
		dictionary: make(map[string]string),
		schema:     mapping.NewNamed(typeName),
		methods:    make(map[string]func() (any, error)),
		external:   make(map[string]External),
		cache:      make(map[string]any),
	}
}

// extend runs the environment extensions once the kind defaults are in place.
func (it *Item) extend(owner Entity) {
	it.owner = owner

	for _, fn := range it.env.extensions {
		fn(it)
	}
}

// Base implements Entity.
func (it *Item) Base() *Item {
	return it
}

// TypeName returns the kind name the item was created as, such as "Post".
func (it *Item) TypeName() string {
	return it.typeName
}

// ID returns the record ID, zero for items without a record.
func (it *Item) ID() int64 {
	if it.record == nil {
		return 0
	}

	return it.record.ID
}

// Record returns the underlying record, nil for the site and widgets.
func (it *Item) Record() *Record {
	return it.record
}

// Meta returns the reconstructed metadata tree.
func (it *Item) Meta() *reconstruct.Row {
	return it.meta
}

// Schema returns the schema property values are mapped through.
func (it *Item) Schema() *mapping.Schema {
	return it.schema
}

// Translate adds property name translations. Later translations win.
func (it *Item) Translate(translations map[string]string) {
	maps.Copy(it.dictionary, translations)
	clear(it.cache)
}

// Translation returns the stored name a property is read under.
func (it *Item) Translation(name string) string {
	if translated, ok := it.dictionary[name]; ok {
		return translated
	}

	return name
}

// Map registers how the value stored under path is mapped.
func (it *Item) Map(path string, target any) error {
	if err := it.schema.Set(path, target); err != nil {
		return err
	}

	clear(it.cache)

	return nil
}

// MapMany registers several mappings.
func (it *Item) MapMany(m map[string]any) error {
	err := it.schema.SetMany(m)
	clear(it.cache)

	return err
}

// AddExternal adds a computed property. External properties take
// precedence over every other source.
func (it *Item) AddExternal(name string, fn External) {
	it.external[name] = fn
	delete(it.cache, name)
}

func (it *Item) method(name string, fn func() (any, error)) {
	it.methods[name] = fn
}

// Has reports whether the property resolves to a non-nil value.
func (it *Item) Has(name string) bool {
	v, err := it.Get(name)
	return err == nil && v != nil
}

// Get reads a property. The first source with a value wins; the value
// then passes the raw filter, the item schema when truthy and the mapped
// filter. Results are cached per requested name. Unknown properties
// read as nil.
func (it *Item) Get(name string) (any, error) {
	if v, ok := it.cache[name]; ok {
		return v, nil
	}

	property := it.Translation(name)

	value, err := it.resolve(name, property)
	if err != nil {
		return nil, it.errorf(name, err)
	}

	if value == nil {
		return nil, nil
	}

	value, err = it.env.filters.Apply(hooks.PropertyRaw, value, property, it.owner)
	if err != nil {
		return nil, it.errorf(name, err)
	}

	if primitive.Truthy(value) {
		value, err = it.env.engine.Map(value, property, it.schema)
		if err != nil {
			return nil, it.errorf(name, err)
		}
	}

	value, err = it.env.filters.Apply(hooks.PropertyMapped, value, property, it.owner)
	if err != nil {
		return nil, it.errorf(name, err)
	}

	it.cache[name] = value

	return value, nil
}

// MustGet is like Get but returns nil on errors.
func (it *Item) MustGet(name string) any {
	v, err := it.Get(name)
	if err != nil {
		it.env.logger.Debug("property read failed", "type", it.typeName, "id", it.ID(), "property", name, "error", err)
		return nil
	}

	return v
}

func (it *Item) resolve(name, property string) (any, error) {
	for _, step := range pipeline {
		v, err := step(it, name, property)
		if err != nil || v != nil {
			return v, err
		}
	}

	return nil, nil
}

func (it *Item) fromExternal(name, _ string) (any, error) {
	fn, ok := it.external[name]
	if !ok {
		return nil, nil
	}

	return fn(it.owner)
}

func (it *Item) fromMethods(name, _ string) (any, error) {
	fn, ok := it.methods[name]
	if !ok {
		return nil, nil
	}

	return fn()
}

func (it *Item) fromMeta(_, property string) (any, error) {
	v, _ := it.meta.Value(property)
	return v, nil
}

func (it *Item) fromGetter(_, property string) (any, error) {
	if it.getter == nil {
		return nil, nil
	}

	return it.getter(property)
}

func (it *Item) fromData(_, property string) (any, error) {
	if it.record == nil {
		return nil, nil
	}

	return it.record.Data[property], nil
}

func (it *Item) errorf(name string, err error) error {
	if it.record == nil {
		return fmt.Errorf("%s: property %q: %w", it.typeName, name, err)
	}

	return fmt.Errorf("%s %d: property %q: %w", it.typeName, it.record.ID, name, err)
}

// Materialize returns the unmapped fields of the item: record data
// overlaid with metadata, tagged with the type name.
func (it *Item) Materialize() (any, error) {
	out := make(map[string]any)

	if it.record != nil {
		maps.Copy(out, it.record.Data)
	}

	for key, n := range it.meta.Fields {
		out[key] = reconstruct.ToValue(n)
	}

	out[reconstruct.TypeKey] = it.typeName

	return out, nil
}
