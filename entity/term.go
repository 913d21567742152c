package entity

import (
	"fmt"
	"maps"

	"metatree/internal/flatstore"
	"metatree/internal/mapper"
	"metatree/primitive"
)

// Term is a taxonomy term.
type Term struct {
	*Item
}

func (env *Env) term(v any) (*Term, error) {
	var rec *Record

	switch value := v.(type) {
	case *Term:
		return value, nil
	case *Record:
		rec = value
	default:
		id, ok := primitive.AsID(v)
		if !ok {
			return nil, fmt.Errorf("term %v: %w", v, mapper.ErrMissingObject)
		}

		found, err := env.repo.Find(KindTerm, id)
		if err != nil {
			return nil, err
		}

		rec = found
	}

	if rec == nil || rec.Kind != KindTerm {
		return nil, fmt.Errorf("term factory: %w", mapper.ErrMissingObject)
	}

	meta, err := env.termMeta(rec)
	if err != nil {
		return nil, err
	}

	tree, err := env.Tree(meta)
	if err != nil {
		return nil, fmt.Errorf("term %d meta: %w", rec.ID, err)
	}

	t := &Term{Item: newItem(env, "Term", rec, tree)}
	t.Translate(map[string]string{
		"id":    "term_id",
		"title": "name",
	})
	t.schema.MustSet("parent", "Term::factory")
	t.extend(t)

	return t, nil
}

// termMeta combines the site options stored for the term with the
// record's own metadata, which wins on conflicts.
func (env *Env) termMeta(rec *Record) (map[string]any, error) {
	options, err := env.repo.Options()
	if err != nil {
		return nil, fmt.Errorf("term %d options: %w", rec.ID, err)
	}

	meta := flatstore.Scope(options, flatstore.TermPrefix(rec.Taxonomy(), rec.ID))
	maps.Copy(meta, rec.Meta)

	return meta, nil
}

// Taxonomy returns the taxonomy the term belongs to.
func (t *Term) Taxonomy() string {
	return t.record.Taxonomy()
}

// Name returns the mapped term name.
func (t *Term) Name() string {
	return primitive.String(t.MustGet("title"))
}
