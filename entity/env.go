package entity

import (
	"fmt"
	"log/slog"
	"time"

	"metatree/internal/flatstore"
	"metatree/internal/hooks"
	"metatree/internal/mapper"
	"metatree/internal/reconstruct"
)

// Env is the context entities are created in: the repository they are
// read from, the mapping engine their properties go through and the
// reconstructor their metadata is rebuilt with.
type Env struct {
	repo          Repository
	registry      *mapper.Registry
	engine        *mapper.Engine
	filters       *hooks.Filters
	reconstructor *reconstruct.Reconstructor
	logger        *slog.Logger

	aliases     map[string]string
	maxDepth    int
	extensions  []func(*Item)
	now         func() time.Time
	currentUser int64

	site *Site
}

// Option configures an Env.
type Option func(*Env)

// WithFilters sets the filter registry used for "filter:name" targets
// and the property hooks.
func WithFilters(filters *hooks.Filters) Option {
	return func(env *Env) {
		env.filters = filters
	}
}

// WithLogger sets the logger passed down to the engine and the reconstructor.
func WithLogger(logger *slog.Logger) Option {
	return func(env *Env) {
		env.logger = logger
	}
}

// WithMaxDepth bounds metadata reconstruction recursion.
func WithMaxDepth(depth int) Option {
	return func(env *Env) {
		env.maxDepth = depth
	}
}

// WithAliases adds mapping aliases on top of mapper.DefaultAliases.
func WithAliases(aliases map[string]string) Option {
	return func(env *Env) {
		env.aliases = aliases
	}
}

// WithExtension registers fn to run on every new item, after the kind's
// defaults are applied. Extensions add translations, mappings and
// external properties.
func WithExtension(fn func(*Item)) Option {
	return func(env *Env) {
		env.extensions = append(env.extensions, fn)
	}
}

// WithClock sets the time source used for dates created from nothing.
func WithClock(now func() time.Time) Option {
	return func(env *Env) {
		env.now = now
	}
}

// WithCurrentUser sets the user returned by the user factory for nil.
func WithCurrentUser(id int64) Option {
	return func(env *Env) {
		env.currentUser = id
	}
}

// NewEnv creates an environment reading from repo.
func NewEnv(repo Repository, opts ...Option) (*Env, error) {
	env := &Env{
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(env)
	}

	if env.filters == nil {
		env.filters = hooks.New(hooks.WithLogger(env.logger))
	}

	env.registry = mapper.NewDefaultRegistry()
	if err := env.registry.AliasMany(env.aliases); err != nil {
		return nil, fmt.Errorf("registering aliases: %w", err)
	}

	env.registerFactories()

	if err := env.registry.RegisterFunc("wpautop", Autop); err != nil {
		return nil, err
	}

	env.engine = mapper.New(env.registry,
		mapper.WithFilters(env.filters),
		mapper.WithLogger(env.logger))

	reconstructOpts := []reconstruct.Option{reconstruct.WithLogger(env.logger)}
	if env.maxDepth > 0 {
		reconstructOpts = append(reconstructOpts, reconstruct.WithMaxDepth(env.maxDepth))
	}

	env.reconstructor = reconstruct.New(reconstructOpts...)

	return env, nil
}

// Engine returns the mapping engine.
func (env *Env) Engine() *mapper.Engine {
	return env.engine
}

// Registry returns the registry of aliases, types and functions.
func (env *Env) Registry() *mapper.Registry {
	return env.registry
}

// Filters returns the filter registry.
func (env *Env) Filters() *hooks.Filters {
	return env.filters
}

// Repository returns the record source.
func (env *Env) Repository() Repository {
	return env.repo
}

// Tree normalizes and reconstructs a raw flat store.
func (env *Env) Tree(raw map[string]any) (*reconstruct.Row, error) {
	return env.reconstructor.Reconstruct(flatstore.Normalize(raw))
}

// Post returns the post, file or image for an ID or an existing entity.
func (env *Env) Post(v any) (Entity, error) {
	return env.post(v)
}

// Term returns the term for an ID or an existing term.
func (env *Env) Term(v any) (*Term, error) {
	return env.term(v)
}

// User returns the user for an ID, an existing user or nil for the current user.
func (env *Env) User(v any) (*User, error) {
	return env.user(v)
}

// Comment returns the comment for an ID or an existing comment.
func (env *Env) Comment(v any) (*Comment, error) {
	return env.comment(v)
}

// Date returns the date for a timestamp, a date string, a time or nil for now.
func (env *Env) Date(v any) (*Date, error) {
	return env.date(v)
}

func (env *Env) registerFactories() {
	factories := []factory{
		{name: "Post", build: func(v any) (any, error) { return env.post(v) }},
		{name: "File", build: func(v any) (any, error) { return env.post(v) }},
		{name: "Image", build: func(v any) (any, error) { return env.post(v) }},
		{name: "Term", build: func(v any) (any, error) { return env.term(v) }},
		{name: "User", build: func(v any) (any, error) { return env.user(v) }},
		{name: "Comment", build: func(v any) (any, error) { return env.comment(v) }},
		{name: "Date", build: func(v any) (any, error) { return env.date(v) }},
	}

	for _, f := range factories {
		env.registry.RegisterFactory(f)
	}

	collections := []struct {
		name string
		kind string
		each func(any) (Entity, error)
	}{
		{"Posts", "Post", env.post},
		{"Files", "File", env.post},
		{"Images", "Image", env.post},
		{"Terms", "Term", env.termEntity},
		{"Users", "User", env.userEntity},
		{"Comments", "Comment", env.commentEntity},
	}

	for _, c := range collections {
		env.registry.RegisterType(c.name, mapper.TypeSpec{
			New: func(v any) (any, error) { return env.collect(c.kind, v, c.each) },
		})
	}
}

func (env *Env) termEntity(v any) (Entity, error) {
	return env.term(v)
}

func (env *Env) userEntity(v any) (Entity, error) {
	return env.user(v)
}

func (env *Env) commentEntity(v any) (Entity, error) {
	return env.comment(v)
}

// factory adapts a constructor to mapper.EntityFactory.
type factory struct {
	name  string
	build func(any) (any, error)
}

func (f factory) TypeName() string {
	return f.name
}

func (f factory) Factory(v any) (any, error) {
	return f.build(v)
}
