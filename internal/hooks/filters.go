package hooks

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"metatree/internal/mapping"
)

// DefaultPriority is the priority used by Add.
const DefaultPriority = 10

// Names of the property hooks applied by entity items.
// Both receive the property name and the item as extra arguments.
const (
	PropertyRaw    = "property.raw"
	PropertyMapped = "property.mapped"
)

// Filter transforms a value. Extra arguments are hook specific.
type Filter func(value any, args ...any) (any, error)

type registered struct {
	fn       Filter
	priority int
	seq      int
}

// Filters is a registry of named filter chains.
type Filters struct {
	chains map[string][]registered
	seq    int
	logger *slog.Logger
}

// Option configures a Filters registry.
type Option func(*Filters)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filters) {
		f.logger = logger
	}
}

// New creates an empty registry.
func New(opts ...Option) *Filters {
	f := &Filters{
		chains: make(map[string][]registered),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Add registers fn under name with DefaultPriority.
func (f *Filters) Add(name string, fn Filter) {
	f.AddWithPriority(name, fn, DefaultPriority)
}

// AddWithPriority registers fn under name. Lower priorities run first.
func (f *Filters) AddWithPriority(name string, fn Filter, priority int) {
	f.seq++

	chain := append(f.chains[name], registered{fn: fn, priority: priority, seq: f.seq})
	slices.SortStableFunc(chain, func(a, b registered) int {
		if a.priority != b.priority {
			return a.priority - b.priority
		}

		return a.seq - b.seq
	})

	f.chains[name] = chain
}

// AddFunc registers a single-argument function under name, adapted the
// way callable mapping targets are (see mapping.AdaptFunc).
func (f *Filters) AddFunc(name string, fn any) error {
	adapted, err := mapping.AdaptFunc(fn)
	if err != nil {
		return fmt.Errorf("filter %q: %w", name, err)
	}

	f.Add(name, func(value any, _ ...any) (any, error) {
		return adapted(value)
	})

	return nil
}

// Remove drops every filter registered under name.
func (f *Filters) Remove(name string) {
	delete(f.chains, name)
}

// Has reports whether anything is registered under name.
func (f *Filters) Has(name string) bool {
	return len(f.chains[name]) > 0
}

// Names returns the registered names, sorted.
func (f *Filters) Names() []string {
	return slices.Sorted(maps.Keys(f.chains))
}

// Apply runs the chain registered under name. The first error stops
// the chain and is returned wrapped with the filter name.
func (f *Filters) Apply(name string, value any, args ...any) (any, error) {
	chain := f.chains[name]
	if len(chain) == 0 {
		f.logger.Debug("no filters registered", "filter", name)
		return value, nil
	}

	for _, r := range chain {
		next, err := r.fn(value, args...)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", name, err)
		}

		value = next
	}

	return value, nil
}

// ApplyFilter runs the chain registered under name without extra arguments.
func (f *Filters) ApplyFilter(name string, value any) (any, error) {
	return f.Apply(name, value)
}
