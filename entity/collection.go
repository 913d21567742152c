package entity

import (
	"errors"
	"fmt"
	"iter"

	"metatree/internal/common"
	"metatree/internal/mapper"
	"metatree/primitive"
)

// Collection is an ordered list of entities of one kind.
type Collection struct {
	kind  string
	items []Entity
}

// collect builds the entities of a list of IDs or entities. Missing
// entities and entities of another kind are skipped.
func (env *Env) collect(kind string, v any, each func(any) (Entity, error)) (*Collection, error) {
	if c, ok := v.(*Collection); ok && c.kind == kind {
		return c, nil
	}

	items, ok := primitive.Items(v)
	if !ok {
		items = []any{v}
		if v == nil {
			items = nil
		}
	}

	c := &Collection{kind: kind, items: make([]Entity, 0, len(items))}
	if common.IsEmpty(items) {
		return c, nil
	}

	for i, item := range items {
		e, err := each(item)
		if errors.Is(err, mapper.ErrMissingObject) {
			env.logger.Debug("collection item skipped", "kind", kind, "index", i, "error", err)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%s collection item %d: %w", kind, i, err)
		}

		if !accepts(kind, e) {
			env.logger.Debug("collection item of another kind skipped", "kind", kind, "index", i, "type", e.Base().TypeName())
			continue
		}

		c.items = append(c.items, e)
	}

	return c, nil
}

func accepts(kind string, e Entity) bool {
	switch kind {
	case "Image":
		_, ok := e.(*Image)
		return ok
	case "File":
		switch e.(type) {
		case *File, *Image:
			return true
		}

		return false
	}

	return true
}

// Kind returns the entity kind held by the collection.
func (c *Collection) Kind() string {
	return c.kind
}

// Len returns the number of entities.
func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the entity at index i, nil when out of range.
func (c *Collection) At(i int) Entity {
	if i < 0 || i >= len(c.items) {
		return nil
	}

	return c.items[i]
}

// All iterates over the entities in order.
func (c *Collection) All() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		for i, e := range c.items {
			if !yield(i, e) {
				return
			}
		}
	}
}

// IDs returns the record IDs of the entities.
func (c *Collection) IDs() []int64 {
	ids := make([]int64, len(c.items))
	for i, e := range c.items {
		ids[i] = e.Base().ID()
	}

	return ids
}

// Materialize implements mapper.Materializer.
func (c *Collection) Materialize() (any, error) {
	out := make([]any, len(c.items))

	for i, e := range c.items {
		v, err := mapper.Materialize(e)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}
