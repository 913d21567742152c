package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatree/internal/hooks"
	"metatree/internal/mapper"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRepository() *MemoryRepository {
	return NewMemoryRepository().
		Add(&Record{
			Kind: KindUser,
			ID:   1,
			Data: map[string]any{
				"display_name": "Ada",
				"user_email":   "ada@example.com",
				"user_login":   "ada",
			},
			Meta: map[string]any{"nickname": []string{"ada"}},
		}).
		Add(&Record{
			Kind: KindPost,
			ID:   10,
			Data: map[string]any{
				"post_title":   "Hello",
				"post_content": "Body",
				"post_date":    "2024-03-01 09:30:00",
				"post_author":  "1",
				"post_parent":  0,
				"post_type":    "post",
				"post_status":  "publish",
			},
			Meta: map[string]any{
				"_thumbnail_id":    []string{"20"},
				"gallery":          "a:2:{i:0;i:20;i:1;i:21;}",
				"slides":           "2",
				"slides_0_caption": "One",
				"slides_0_image":   "20",
				"slides_1_caption": "Two",
				"slides_1_image":   "99",
			},
			Terms: map[string][]int64{
				"category": {5},
				"post_tag": {6, 7, 404},
			},
		}).
		Add(&Record{
			Kind: KindPost,
			ID:   20,
			Data: map[string]any{
				"post_type":      AttachmentType,
				"post_mime_type": "image/jpeg",
				"post_title":     "Sunset",
				"post_excerpt":   "",
				"post_parent":    10,
			},
			Meta: map[string]any{
				"_wp_attachment_image_alt": "  Red sky ",
				"_wp_attachment_metadata":  `a:2:{s:5:"width";i:800;s:6:"height";i:600;}`,
			},
		}).
		Add(&Record{
			Kind: KindPost,
			ID:   21,
			Data: map[string]any{
				"post_type":      AttachmentType,
				"post_mime_type": "application/pdf",
				"post_title":     "Manual",
			},
		}).
		Add(
			&Record{Kind: KindTerm, ID: 5, Data: map[string]any{"taxonomy": "category", "name": "News", "parent": 0}},
			&Record{Kind: KindTerm, ID: 6, Data: map[string]any{"taxonomy": "post_tag", "name": "Go", "parent": "5"}},
			&Record{Kind: KindTerm, ID: 7, Data: map[string]any{"taxonomy": "post_tag", "name": "Rust", "parent": 0}},
		).
		Add(&Record{
			Kind: KindComment,
			ID:   30,
			Data: map[string]any{
				"comment_post_ID":  "10",
				"comment_content":  "Nice post.\n\nThanks",
				"user_id":          "1",
				"comment_parent":   "0",
				"comment_date":     "2024-03-02 10:00:00",
				"comment_approved": "1",
			},
		}).
		SetOptions(map[string]any{
			"name":                "Example",
			"page_on_front":       "10",
			"page_for_posts":      "404",
			"options_footer_text": "Bye",
			"options_links":       "2",
			"options_links_0_url": "https://a.example",
			"options_links_1_url": "https://b.example",
			"category_5_color":    "red",
			"widget_text-3_title": "Hello widget",
		})
}

func newTestEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)

	env, err := NewEnv(newTestRepository(), opts...)
	require.NoError(t, err)

	return env
}

func TestNewEnv_RegistersEntityTypes(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"Post", "File", "Image", "Term", "User", "Comment", "Date", "Posts", "Terms", "Users", "Comments", "Files", "Images"} {
		assert.Contains(t, env.Registry().Types(), name)
	}

	assert.Contains(t, env.Registry().Functions(), "wpautop")
	assert.Same(t, env.Registry(), env.Engine().Registry())
	assert.NotNil(t, env.Filters())
	assert.NotNil(t, env.Repository())
}

func TestNewEnv_InvalidAlias(t *testing.T) {
	_, err := NewEnv(NewMemoryRepository(), WithAliases(map[string]string{"broken": "a b"}))
	require.Error(t, err)
}

func TestNewEnv_CustomAlias(t *testing.T) {
	env := newTestEnv(t, WithAliases(map[string]string{"author": "user"}))

	p, err := env.Post(10)
	require.NoError(t, err)
	require.NoError(t, p.Base().Map("post_author", "author"))

	got, err := p.Base().Get("author")
	require.NoError(t, err)
	require.IsType(t, &User{}, got)
	assert.Equal(t, "Ada", got.(*User).Name())
}

func TestNewEnv_Extension(t *testing.T) {
	env := newTestEnv(t, WithExtension(func(it *Item) {
		if it.TypeName() != "Post" {
			return
		}

		it.Translate(map[string]string{"headline": "post_title"})
		it.AddExternal("kind", func(e Entity) (any, error) {
			return e.Base().TypeName(), nil
		})
	}))

	p, err := env.Post(10)
	require.NoError(t, err)

	assert.Equal(t, "Hello", p.Base().MustGet("headline"))
	assert.Equal(t, "Post", p.Base().MustGet("kind"))

	u, err := env.User(1)
	require.NoError(t, err)
	assert.False(t, u.Has("kind"))
}

func TestEnv_Filters(t *testing.T) {
	filters := hooks.New()
	filters.Add("the_title", func(value any, _ ...any) (any, error) {
		return "<" + value.(string) + ">", nil
	})

	env := newTestEnv(t, WithFilters(filters))

	p, err := env.Post(10)
	require.NoError(t, err)
	assert.Equal(t, "<Hello>", p.(*Post).Title())
}

func TestEnv_Tree(t *testing.T) {
	env := newTestEnv(t, WithMaxDepth(4))

	tree, err := env.Tree(map[string]any{"tags": []string{"a:1:{i:0;s:1:\"x\";}"}})
	require.NoError(t, err)

	v, ok := tree.Value("tags")
	require.True(t, ok)
	assert.Equal(t, []any{"x"}, v)
}

func TestEnv_MissingObjects(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Post(999)
	require.ErrorIs(t, err, mapper.ErrMissingObject)

	_, err = env.Post("abc")
	require.ErrorIs(t, err, mapper.ErrMissingObject)

	_, err = env.Term(10)
	require.ErrorIs(t, err, mapper.ErrMissingObject)

	_, err = env.User(nil)
	require.ErrorIs(t, err, mapper.ErrMissingObject)

	_, err = env.Comment(0)
	require.ErrorIs(t, err, mapper.ErrMissingObject)

	_, err = env.Post(&Record{Kind: KindUser, ID: 1})
	require.ErrorIs(t, err, mapper.ErrMissingObject)
}

func TestEnv_CurrentUser(t *testing.T) {
	env := newTestEnv(t, WithCurrentUser(1))

	u, err := env.User(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID())

	same, err := env.User(u)
	require.NoError(t, err)
	assert.Same(t, u, same)
}
