package entity

import (
	"fmt"

	"metatree/internal/mapper"
	"metatree/primitive"
)

// User is a registered user.
type User struct {
	*Item
}

func (env *Env) user(v any) (*User, error) {
	if v == nil && env.currentUser > 0 {
		v = env.currentUser
	}

	var rec *Record

	switch value := v.(type) {
	case *User:
		return value, nil
	case *Record:
		rec = value
	default:
		id, ok := primitive.AsID(v)
		if !ok {
			return nil, fmt.Errorf("user %v: %w", v, mapper.ErrMissingObject)
		}

		found, err := env.repo.Find(KindUser, id)
		if err != nil {
			return nil, err
		}

		rec = found
	}

	if rec == nil || rec.Kind != KindUser {
		return nil, fmt.Errorf("user factory: %w", mapper.ErrMissingObject)
	}

	tree, err := env.Tree(rec.Meta)
	if err != nil {
		return nil, fmt.Errorf("user %d meta: %w", rec.ID, err)
	}

	u := &User{Item: newItem(env, "User", rec, tree)}
	u.Translate(map[string]string{
		"id":    "ID",
		"name":  "display_name",
		"title": "display_name",
		"email": "user_email",
		"login": "user_login",
	})
	u.extend(u)

	return u, nil
}

// Name returns the display name.
func (u *User) Name() string {
	return primitive.String(u.MustGet("name"))
}
