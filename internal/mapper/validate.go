package mapper

import (
	"fmt"
	"slices"

	"metatree/internal/diagnostic"
	"metatree/internal/mapping"
	"metatree/internal/match"
)

// Validate reports schema targets that nothing in the engine resolves.
// Unresolved targets pass values through at map time, so they are
// warnings, not errors. Conflicts found while expanding dotted paths
// are included.
func (e *Engine) Validate(schema *mapping.Schema) *diagnostic.Diagnostics {
	d := schema.Diagnostics()

	e.validate(schema, "", d, make(map[*mapping.Schema]bool))

	return d
}

func (e *Engine) validate(schema *mapping.Schema, prefix string, d *diagnostic.Diagnostics, seen map[*mapping.Schema]bool) {
	if schema == nil || seen[schema] {
		return
	}

	seen[schema] = true

	for key, entry := range schema.All() {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if entry.IsNested() {
			e.validate(entry.Nested, path, d, seen)
			continue
		}

		for _, t := range entry.Chain {
			if !e.resolvable(t) {
				d.Add(diagnostic.Diagnostic{
					Severity:    diagnostic.DiagnosticWarning,
					Code:        diagnostic.CodeUnresolvedTarget,
					Message:     fmt.Sprintf("target %s does not resolve, values pass through unchanged", t),
					Schema:      schema.Name(),
					Path:        path,
					Suggestions: e.suggest(t),
				})
			}
		}
	}
}

func (e *Engine) resolvable(t mapping.Target) bool {
	t = e.resolveAlias(t)

	if t.Kind == mapping.TargetFilter {
		if e.filters == nil {
			return false
		}

		if checker, ok := e.filters.(interface{ Has(name string) bool }); ok {
			return checker.Has(t.Name)
		}

		return true
	}

	_, ok := e.resolve(t)

	return ok
}

// maxSuggestions bounds the names offered for an unresolved target.
const maxSuggestions = 3

// suggest lists registered names close to an unresolved target.
func (e *Engine) suggest(t mapping.Target) []string {
	switch t.Kind {
	case mapping.TargetName:
		names := slices.Concat(e.registry.Aliases(), e.registry.Types(), e.registry.Functions())
		return match.Suggest(t.Name, names, maxSuggestions)

	case mapping.TargetFilter:
		if lister, ok := e.filters.(interface{ Names() []string }); ok {
			return match.Suggest(t.Name, lister.Names(), maxSuggestions)
		}
	}

	return nil
}
