package mapper

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"metatree/internal/common"
	"metatree/internal/mapping"
)

// ErrMissingObject signals that a referenced entity does not exist.
// The engine turns it into an absent value for the key being mapped.
var ErrMissingObject = errors.New("object not found")

// FactoryMethod is the method name under which entity factories are registered.
const FactoryMethod = "factory"

// TypeSpec describes a constructible type.
type TypeSpec struct {
	// New constructs the type from a raw value. Nil when the type can only
	// be reached through its methods.
	New mapping.Func
	// Methods are the static methods reachable as "Type::method".
	Methods map[string]mapping.Func
}

// EntityFactory builds one entity kind from an ID, an existing entity or nil.
// Unknown IDs fail with an error wrapping ErrMissingObject.
type EntityFactory interface {
	TypeName() string
	Factory(value any) (any, error)
}

// Registry is the engine context: aliases, constructible types and free
// functions that bare names and "Type::method" targets resolve against.
type Registry struct {
	aliases   map[string]mapping.Target
	types     map[string]TypeSpec
	functions map[string]mapping.Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		aliases:   make(map[string]mapping.Target),
		types:     make(map[string]TypeSpec),
		functions: make(map[string]mapping.Func),
	}
}

// NewDefaultRegistry creates a registry with DefaultAliases and the builtin functions.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	if err := r.AliasMany(DefaultAliases()); err != nil {
		panic(err)
	}

	RegisterBuiltins(r)

	return r
}

// DefaultAliases returns the shortcut table for the entity kinds.
func DefaultAliases() map[string]string {
	return map[string]string{
		"date":     "Date::factory",
		"post":     "Post::factory",
		"term":     "Term::factory",
		"file":     "File::factory",
		"image":    "Image::factory",
		"user":     "User::factory",
		"comment":  "Comment::factory",
		"posts":    "Posts",
		"terms":    "Terms",
		"users":    "Users",
		"comments": "Comments",
		"files":    "Files",
		"images":   "Images",
	}
}

// Alias registers name as a shortcut for target. Aliases may point to
// other aliases; resolution stops after a bounded number of hops.
func (r *Registry) Alias(name, target string) error {
	t, err := mapping.ParseTarget(target)
	if err != nil {
		return fmt.Errorf("alias %q: %w", name, err)
	}

	r.aliases[name] = t

	return nil
}

// AliasMany registers every alias of m.
func (r *Registry) AliasMany(m map[string]string) error {
	var errs []error

	for _, name := range slices.Sorted(maps.Keys(m)) {
		if err := r.Alias(name, m[name]); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// RegisterType registers a constructible type, replacing any earlier one.
func (r *Registry) RegisterType(name string, spec TypeSpec) {
	r.types[name] = spec
}

// RegisterMethod adds a static method to a type, creating the type
// entry when needed. fn is adapted with mapping.AdaptFunc.
func (r *Registry) RegisterMethod(typ, method string, fn any) error {
	adapted, err := mapping.AdaptFunc(fn)
	if err != nil {
		return fmt.Errorf("method %s::%s: %w", typ, method, err)
	}

	spec := r.types[typ]
	if spec.Methods == nil {
		spec.Methods = make(map[string]mapping.Func)
	}

	spec.Methods[method] = adapted
	r.types[typ] = spec

	return nil
}

// RegisterFactory registers f under its type name, both as the
// constructor and as the "factory" method.
func (r *Registry) RegisterFactory(f EntityFactory) {
	spec := r.types[f.TypeName()]
	if spec.Methods == nil {
		spec.Methods = make(map[string]mapping.Func)
	}

	spec.New = f.Factory
	spec.Methods[FactoryMethod] = f.Factory
	r.types[f.TypeName()] = spec
}

// RegisterFunc registers a free function. fn is adapted with mapping.AdaptFunc.
func (r *Registry) RegisterFunc(name string, fn any) error {
	adapted, err := mapping.AdaptFunc(fn)
	if err != nil {
		return fmt.Errorf("function %q: %w", name, err)
	}

	r.functions[name] = adapted

	return nil
}

// Aliases returns the alias names, sorted.
func (r *Registry) Aliases() []string {
	return slices.Sorted(maps.Keys(r.aliases))
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.types))
}

// Functions returns the registered function names, sorted.
func (r *Registry) Functions() []string {
	return slices.Sorted(maps.Keys(r.functions))
}

func (r *Registry) alias(name string) (mapping.Target, bool) {
	t, ok := r.aliases[name]
	return t, ok
}

// typeOf looks a type up by its exact name first, then by the last
// element of a namespaced name.
func (r *Registry) typeOf(name string) (TypeSpec, bool) {
	if spec, ok := r.types[name]; ok {
		return spec, true
	}

	spec, ok := r.types[common.Basename(name)]

	return spec, ok
}

func (r *Registry) function(name string) (mapping.Func, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}
