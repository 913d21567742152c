package entity

import (
	"fmt"
	"maps"

	"metatree/internal/flatstore"
	"metatree/primitive"
)

// Site exposes the site options. Option-page fields stored with the
// "options_" prefix are readable under their plain name.
type Site struct {
	*Item
	options flatstore.Store
}

// Site returns the site entity. It is built once per environment.
func (env *Env) Site() (*Site, error) {
	if env.site != nil {
		return env.site, nil
	}

	raw, err := env.repo.Options()
	if err != nil {
		return nil, fmt.Errorf("site options: %w", err)
	}

	options := flatstore.Normalize(raw)

	tree, err := env.reconstructor.Reconstruct(flatstore.Promote(options, flatstore.OptionsPrefix))
	if err != nil {
		return nil, fmt.Errorf("site options: %w", err)
	}

	s := &Site{Item: newItem(env, "Site", nil, tree), options: options}
	s.Translate(map[string]string{
		"template": "template_url",
		"home":     "page_on_front",
		"blog":     "page_for_posts",
		"title":    "name",
	})
	s.schema.
		MustSet("page_on_front", "post").
		MustSet("page_for_posts", "post")
	s.getter = func(property string) (any, error) {
		return s.Option(property), nil
	}
	s.extend(s)

	env.site = s

	return s, nil
}

// Option returns a raw option, falling back to the option-page field of
// the same name when the option is not set.
func (s *Site) Option(key string) any {
	if v := s.options[key]; primitive.Truthy(v) {
		return v
	}

	return s.options[flatstore.OptionsPrefix+key]
}

// Options returns a copy of all normalized options.
func (s *Site) Options() flatstore.Store {
	return maps.Clone(s.options)
}
