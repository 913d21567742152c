package entity

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"metatree/internal/mapper"
	"metatree/primitive"
)

// AttachmentType is the post type of uploaded files.
const AttachmentType = "attachment"

// Post is a content entry.
type Post struct {
	*Item
}

// File is an attachment that is not an image.
type File struct {
	*Post
}

// Image is an attachment with an image mime type.
type Image struct {
	*File
}

func (env *Env) post(v any) (Entity, error) {
	var rec *Record

	switch value := v.(type) {
	case *Post:
		return value, nil
	case *File:
		return value, nil
	case *Image:
		return value, nil
	case *Record:
		rec = value
	default:
		id, ok := primitive.AsID(v)
		if !ok {
			return nil, fmt.Errorf("post %v: %w", v, mapper.ErrMissingObject)
		}

		found, err := env.repo.Find(KindPost, id)
		if err != nil {
			return nil, err
		}

		rec = found
	}

	if rec == nil || rec.Kind != KindPost {
		return nil, fmt.Errorf("post factory: %w", mapper.ErrMissingObject)
	}

	tree, err := env.Tree(rec.Meta)
	if err != nil {
		return nil, fmt.Errorf("post %d meta: %w", rec.ID, err)
	}

	if primitive.String(rec.Data["post_type"]) != AttachmentType {
		p := &Post{Item: newItem(env, "Post", rec, tree)}
		p.defaults()
		p.extend(p)

		return p, nil
	}

	if strings.HasPrefix(primitive.String(rec.Data["post_mime_type"]), "image/") {
		img := &Image{File: &File{Post: &Post{Item: newItem(env, "Image", rec, tree)}}}
		img.defaults()
		img.extend(img)

		return img, nil
	}

	f := &File{Post: &Post{Item: newItem(env, "File", rec, tree)}}
	f.defaults()
	f.extend(f)

	return f, nil
}

func (p *Post) defaults() {
	p.Translate(map[string]string{
		"id":        "ID",
		"title":     "post_title",
		"content":   "post_content",
		"date":      "post_date",
		"image":     "_thumbnail_id",
		"thumbnail": "_thumbnail_id",
		"status":    "post_status",
		"parent":    "post_parent",
		"template":  "_wp_page_template",
		"author":    "post_author",
		"user":      "post_author",
		"type":      "post_type",
	})

	p.schema.
		MustSet("_thumbnail_id", "image").
		MustSet("post_date", "date").
		MustSet("post_date_gmt", "date").
		MustSet("post_parent", "post").
		MustSet("post_title", "filter:the_title").
		MustSet("post_author", "user").
		MustSet("post_content", "filter:the_content")

	p.getter = p.taxonomy
	p.method("time", p.time)
}

// taxonomy resolves a taxonomy name to the assigned terms: the singular
// name gives the first term, the plural name the whole collection.
func (p *Post) taxonomy(property string) (any, error) {
	if p.record == nil || len(p.record.Terms) == 0 {
		return nil, nil
	}

	for _, taxonomy := range slices.Sorted(maps.Keys(p.record.Terms)) {
		ids := p.record.Terms[taxonomy]
		pure := strings.ReplaceAll(taxonomy, "-", "_")

		switch property {
		case pure:
			terms, err := p.env.collect("Term", ids, p.env.termEntity)
			if err != nil || terms.Len() == 0 {
				return nil, err
			}

			return terms.At(0), nil

		case plural(pure):
			return p.env.collect("Term", ids, p.env.termEntity)
		}
	}

	return nil, nil
}

func (p *Post) time() (any, error) {
	v, err := p.Get("date")
	if err != nil {
		return nil, err
	}

	if d, ok := v.(*Date); ok {
		return d.Time(), nil
	}

	return nil, nil
}

// Title returns the mapped title.
func (p *Post) Title() string {
	return primitive.String(p.MustGet("title"))
}

func plural(name string) string {
	if base, ok := strings.CutSuffix(name, "y"); ok {
		return base + "ies"
	}

	return name + "s"
}

func (img *Image) defaults() {
	img.Translate(map[string]string{
		"id":      "ID",
		"title":   "post_title",
		"content": "post_content",
		"date":    "post_date",
		"post":    "post_parent",
		"author":  "post_author",
		"user":    "post_author",
	})

	img.schema.
		MustSet("post_date", "date").
		MustSet("post_date_gmt", "date").
		MustSet("post_parent", "post").
		MustSet("post_title", "filter:the_title").
		MustSet("post_author", "user").
		MustSet("post_content", "filter:the_content")

	img.getter = img.attribute
}

// attribute exposes the image attributes (alt, width, height) before
// falling back to taxonomies.
func (img *Image) attribute(property string) (any, error) {
	switch property {
	case "alt":
		for _, v := range []any{
			img.metaValue("_wp_attachment_image_alt"),
			img.record.Data["post_excerpt"],
			img.record.Data["post_title"],
		} {
			if primitive.Truthy(v) {
				return strings.TrimSpace(primitive.String(v)), nil
			}
		}

		return "", nil

	case "width", "height", "file":
		if m, ok := img.metaValue("_wp_attachment_metadata").(map[string]any); ok {
			return m[property], nil
		}

		return nil, nil
	}

	return img.taxonomy(property)
}

func (it *Item) metaValue(key string) any {
	v, _ := it.meta.Value(key)
	return v
}
