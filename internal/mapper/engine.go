package mapper

import (
	"errors"
	"fmt"
	"log/slog"

	"metatree/internal/mapping"
	"metatree/internal/reconstruct"
	"metatree/primitive"
)

// DefaultMaxAliasHops bounds alias-to-alias substitution.
const DefaultMaxAliasHops = 8

// FilterApplier runs a host-registered filter, the "filter:name" targets.
type FilterApplier interface {
	ApplyFilter(name string, value any) (any, error)
}

// Engine maps raw values through schema targets.
type Engine struct {
	registry     *Registry
	filters      FilterApplier
	logger       *slog.Logger
	maxAliasHops int
}

// Option configures an Engine.
type Option func(*Engine)

// WithFilters sets the applier for "filter:name" targets. Without one,
// filter targets pass values through unchanged.
func WithFilters(filters FilterApplier) Option {
	return func(e *Engine) {
		e.filters = filters
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxAliasHops bounds alias-to-alias substitution.
func WithMaxAliasHops(hops int) Option {
	return func(e *Engine) {
		if hops > 0 {
			e.maxAliasHops = hops
		}
	}
}

// New creates an engine resolving names against registry.
// A nil registry is replaced by an empty one.
func New(registry *Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}

	e := &Engine{
		registry:     registry,
		logger:       slog.New(slog.DiscardHandler),
		maxAliasHops: DefaultMaxAliasHops,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Registry returns the registry names are resolved against.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Map maps value, read under key, through the schema entry for key.
//
//   - No entry: value is returned unchanged.
//   - Nested schema: list-shaped values become a lazy *Sequence, a single
//     row becomes a *MappedRow, anything else is returned unchanged.
//   - Chain: the value is threaded through each target in turn.
//
// A target failing with ErrMissingObject makes the whole key absent
// (nil, nil). Other errors are returned wrapped with the key.
func (e *Engine) Map(value any, key string, schema *mapping.Schema) (any, error) {
	entry, ok := schema.Lookup(key)
	if !ok {
		return value, nil
	}

	out, err := e.apply(value, entry)

	switch {
	case errors.Is(err, ErrMissingObject):
		e.logger.Debug("missing object mapped to absent value", "key", key, "error", err)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("map %q: %w", key, err)
	}

	return out, nil
}

func (e *Engine) apply(value any, entry mapping.Entry) (any, error) {
	value = unwrap(value)

	if entry.IsNested() {
		if row, ok := value.(*reconstruct.Row); ok {
			return e.mapRow(row, entry.Nested)
		}

		if rows, ok := rowsOf(value); ok {
			return newSequence(e, rows, entry.Nested), nil
		}

		return value, nil
	}

	for _, t := range entry.Chain {
		var err error

		value, err = e.applyTarget(value, t)
		if err != nil {
			return nil, err
		}
	}

	return value, nil
}

func (e *Engine) applyTarget(value any, t mapping.Target) (any, error) {
	t = e.resolveAlias(t)

	if !t.ElementWise {
		return e.call(value, t)
	}

	if assoc, ok := value.(map[string]any); ok {
		return e.callEach(assoc, t)
	}

	items, ok := primitive.Items(value)
	if !ok {
		if value == nil {
			return nil, nil
		}

		return e.call(value, t)
	}

	out := make([]any, len(items))

	for i, item := range items {
		mapped, err := e.call(unwrap(item), t)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out[i] = mapped
	}

	return out, nil
}

// callEach maps the values of an associative array, keeping the keys.
func (e *Engine) callEach(assoc map[string]any, t mapping.Target) (any, error) {
	out := make(map[string]any, len(assoc))

	for key, item := range assoc {
		mapped, err := e.call(unwrap(item), t)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", key, err)
		}

		out[key] = mapped
	}

	return out, nil
}

// resolveAlias substitutes aliases of bare names. The element-wise
// marker of any step carries over to the result.
func (e *Engine) resolveAlias(t mapping.Target) mapping.Target {
	for hops := 0; t.Kind == mapping.TargetName && hops < e.maxAliasHops; hops++ {
		next, ok := e.registry.alias(t.Name)
		if !ok {
			break
		}

		next.ElementWise = next.ElementWise || t.ElementWise
		t = next
	}

	return t
}

func (e *Engine) call(value any, t mapping.Target) (any, error) {
	fn, ok := e.resolve(t)
	if !ok {
		e.logger.Debug("unresolved mapping target, value passed through", "target", t.String())
		return value, nil
	}

	out, err := fn(value)
	if errors.Is(err, mapping.ErrArgumentType) {
		e.logger.Debug("value does not fit target, passed through", "target", t.String(), "error", err)
		return value, nil
	}

	return out, err
}

// resolve finds the function a target dispatches to: a callable as is,
// a bare name as a constructible type then a free function, a method
// on its type and a filter through the injected applier.
func (e *Engine) resolve(t mapping.Target) (mapping.Func, bool) {
	switch t.Kind {
	case mapping.TargetCallable:
		return t.Func, t.Func != nil

	case mapping.TargetName:
		if spec, ok := e.registry.typeOf(t.Name); ok && spec.New != nil {
			return spec.New, true
		}

		return e.registry.function(t.Name)

	case mapping.TargetMethod:
		spec, ok := e.registry.typeOf(t.Name)
		if !ok {
			return nil, false
		}

		fn, ok := spec.Methods[t.Method]

		return fn, ok

	case mapping.TargetFilter:
		if e.filters == nil {
			return nil, false
		}

		name := t.Name

		return func(value any) (any, error) {
			return e.filters.ApplyFilter(name, value)
		}, true
	}

	return nil, false
}

// mapRow maps every field of row through schema, switching to the
// nested schema registered under the row's type tag when there is one.
func (e *Engine) mapRow(row *reconstruct.Row, schema *mapping.Schema) (*MappedRow, error) {
	if typed := schema.ForType(row.Type); typed != nil {
		schema = typed
	}

	out := &MappedRow{
		Type:   row.Type,
		Fields: make(map[string]any, len(row.Fields)),
	}

	for _, key := range row.Keys() {
		value, err := e.Map(reconstruct.Unwrap(row.Fields[key]), key, schema)
		if err != nil {
			return nil, err
		}

		out.Fields[key] = value
	}

	return out, nil
}

func unwrap(v any) any {
	if n, ok := v.(reconstruct.Node); ok {
		return reconstruct.Unwrap(n)
	}

	return v
}

// rowsOf returns the rows of a list value. Lists of plain maps are
// accepted too; a "__type" entry becomes the row's type tag.
func rowsOf(v any) ([]*reconstruct.Row, bool) {
	if list, ok := v.(reconstruct.List); ok {
		return list, true
	}

	items, ok := primitive.Items(v)
	if !ok {
		return nil, false
	}

	rows := make([]*reconstruct.Row, 0, len(items))

	for _, item := range items {
		row, ok := rowOf(item)
		if !ok {
			return nil, false
		}

		rows = append(rows, row)
	}

	return rows, true
}

func rowOf(v any) (*reconstruct.Row, bool) {
	switch value := v.(type) {
	case *reconstruct.Row:
		return value, value != nil

	case map[string]any:
		row := reconstruct.NewRow("")

		for key, field := range value {
			if key == reconstruct.TypeKey {
				if tag, ok := field.(string); ok {
					row.Type = tag
					continue
				}
			}

			if n, ok := field.(reconstruct.Node); ok {
				row.Fields[key] = n
			} else {
				row.Fields[key] = reconstruct.Scalar{Value: field}
			}
		}

		return row, true
	}

	return nil, false
}
