package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleSchemaFile = `
version: "1"
max_depth: 8
aliases:
  hero_image: image
schemas:
  post:
    author: user
    tags[]: filter:tag_link
    gallery: [images, "filter:gallery_order"]
    blocks:
      image: image
      hero:
        background: hero_image
    blocks.text.body: filter:the_content
  landing:
    author: term
    thumbnail: image
`

func TestParse(t *testing.T) {
	sf, err := Parse([]byte(sampleSchemaFile))
	require.NoError(t, err)
	require.NotNil(t, sf)

	assert.Equal(t, "1", sf.Version)
	assert.Equal(t, 8, sf.MaxDepth)
	assert.Equal(t, map[string]string{"hero_image": "image"}, sf.Aliases)
	assert.Equal(t, []string{"post", "landing"}, sf.Schemas.Names())

	post, ok := sf.Schemas.Lookup("post")
	require.True(t, ok)
	assert.Equal(t, []string{"author", "tags", "gallery", "blocks", "blocks.text.body"}, post.Paths())

	tags, ok := post.Lookup("tags")
	require.True(t, ok)
	assert.Equal(t, "filter:tag_link[]", tags.String())

	blocks, ok := post.Lookup("blocks")
	require.True(t, ok)
	assert.Equal(t, []string{"image", "hero", "text"}, blocks.Nested.Keys())

	body, ok := post.Resolve("blocks.text.body")
	require.True(t, ok)
	assert.Equal(t, "filter:the_content", body.String())

	bg, ok := post.Resolve("blocks.hero.background")
	require.True(t, ok)
	assert.Equal(t, "hero_image", bg.String())
}

func TestParse_Defaults(t *testing.T) {
	sf, err := Parse([]byte("schemas: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", sf.Version)
	assert.Equal(t, 0, sf.MaxDepth)
	assert.Empty(t, sf.Schemas.List)
}

func TestParse_CollectsErrors(t *testing.T) {
	data := `
schemas:
  post:
    author: "User::"
    "a..b": image
    gallery: [images, {x: y}]
    empty:
  page: [x]
`
	_, err := Parse([]byte(data))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "[post] author: [target_syntax]")
	assert.Contains(t, msg, "[post] a..b: [path_syntax]")
	assert.Contains(t, msg, "[post] gallery: [target_syntax]")
	assert.Contains(t, msg, "[post] empty: [target_syntax] missing target")
	assert.Contains(t, msg, "[page]: [target_syntax] schema body must be a mapping")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("schemas: [a, b]\n"))
	require.Error(t, err)

	_, err = Parse([]byte("max_depth: -1\n"))
	require.Error(t, err)

	_, err = Parse([]byte("schemas: {post: {a: x}, post: {b: y}}\n"))
	require.Error(t, err)
}

func TestSchemaFile_Build(t *testing.T) {
	sf, err := Parse([]byte(sampleSchemaFile))
	require.NoError(t, err)

	s, err := sf.Build("post", "landing")
	require.NoError(t, err)
	assert.Equal(t, "post+landing", s.Name())

	author, ok := s.Lookup("author")
	require.True(t, ok)
	assert.Equal(t, "term", author.String())
	assert.True(t, s.Has("thumbnail"))
	assert.True(t, s.Has("blocks"))

	all, err := sf.Build()
	require.NoError(t, err)
	assert.Equal(t, s.Paths(), all.Paths())

	_, err = sf.Build("post", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_schema")
}

func TestMarshal_RoundTrip(t *testing.T) {
	sf, err := Parse([]byte(sampleSchemaFile))
	require.NoError(t, err)

	data, err := Marshal(sf)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, sf.Schemas.Names(), again.Schemas.Names())

	for _, name := range sf.Schemas.Names() {
		a, _ := sf.Schemas.Lookup(name)
		b, _ := again.Schemas.Lookup(name)
		assert.Equal(t, a.Paths(), b.Paths(), name)

		for _, p := range a.Paths() {
			ea, _ := a.Resolve(p)
			eb, _ := b.Resolve(p)
			assert.Equal(t, ea.String(), eb.String(), p)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")

	sf, err := Parse([]byte(sampleSchemaFile))
	require.NoError(t, err)
	require.NoError(t, WriteFile(sf, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sf.Schemas.Names(), loaded.Schemas.Names())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSchema_UnmarshalYAML(t *testing.T) {
	var s Schema

	require.NoError(t, yaml.Unmarshal([]byte("author: user\nblocks.title: trim\n"), &s))
	assert.Equal(t, []string{"author", "blocks.title"}, s.Paths())

	var bad Schema
	require.Error(t, yaml.Unmarshal([]byte("author: \"::\"\n"), &bad))
}
