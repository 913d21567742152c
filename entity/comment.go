package entity

import (
	"fmt"

	"metatree/internal/mapper"
	"metatree/primitive"
)

// Comment is a comment on a post.
type Comment struct {
	*Item
}

func (env *Env) comment(v any) (*Comment, error) {
	var rec *Record

	switch value := v.(type) {
	case *Comment:
		return value, nil
	case *Record:
		rec = value
	default:
		id, ok := primitive.AsID(v)
		if !ok {
			return nil, fmt.Errorf("comment %v: %w", v, mapper.ErrMissingObject)
		}

		found, err := env.repo.Find(KindComment, id)
		if err != nil {
			return nil, err
		}

		rec = found
	}

	if rec == nil || rec.Kind != KindComment {
		return nil, fmt.Errorf("comment factory: %w", mapper.ErrMissingObject)
	}

	tree, err := env.Tree(rec.Meta)
	if err != nil {
		return nil, fmt.Errorf("comment %d meta: %w", rec.ID, err)
	}

	c := &Comment{Item: newItem(env, "Comment", rec, tree)}
	c.Translate(map[string]string{
		"id":       "comment_ID",
		"ID":       "comment_ID",
		"post":     "comment_post_ID",
		"date":     "comment_date",
		"text":     "comment_content",
		"content":  "comment_content",
		"user":     "user_id",
		"author":   "user_id",
		"approved": "comment_approved",
		"parent":   "comment_parent",
	})
	c.schema.
		MustSet("comment_post_ID", "post").
		MustSet("comment_content", "wpautop").
		MustSet("user_id", "user").
		MustSet("comment_parent", "comment").
		MustSet("comment_date", "date")
	c.extend(c)

	return c, nil
}
