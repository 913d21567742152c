package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatree/internal/mapper"
	"metatree/internal/reconstruct"
)

func TestUser_Translations(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.User("1")
	require.NoError(t, err)

	assert.Equal(t, "Ada", u.Name())
	assert.Equal(t, "Ada", u.MustGet("title"))
	assert.Equal(t, "ada@example.com", u.MustGet("email"))
	assert.Equal(t, "ada", u.MustGet("login"))
	assert.Equal(t, "ada", u.MustGet("nickname"))
	assert.Equal(t, int64(1), u.MustGet("id"))
}

func TestComment_DefaultMappings(t *testing.T) {
	env := newTestEnv(t)

	c, err := env.Comment(30)
	require.NoError(t, err)

	assert.Equal(t, "<p>Nice post.</p>\n<p>Thanks</p>\n", c.MustGet("text"))
	assert.Equal(t, "1", c.MustGet("approved"))
	assert.Equal(t, int64(30), c.MustGet("ID"))

	post, ok := c.MustGet("post").(*Post)
	require.True(t, ok)
	assert.Equal(t, "Hello", post.Title())

	author, ok := c.MustGet("author").(*User)
	require.True(t, ok)
	assert.Equal(t, int64(1), author.ID())

	assert.Equal(t, "0", c.MustGet("parent"))
	assert.IsType(t, &Date{}, c.MustGet("date"))
}

func TestSite_Options(t *testing.T) {
	env := newTestEnv(t)

	s, err := env.Site()
	require.NoError(t, err)

	again, err := env.Site()
	require.NoError(t, err)
	assert.Same(t, s, again)

	assert.Equal(t, "Example", s.MustGet("title"))
	assert.Equal(t, "Bye", s.MustGet("footer_text"))
	assert.Equal(t, "Bye", s.Option("footer_text"))
	assert.Equal(t, "red", s.Option("category_5_color"))
	assert.Nil(t, s.Option("missing"))
	assert.Contains(t, s.Options(), "options_footer_text")

	home, ok := s.MustGet("home").(*Post)
	require.True(t, ok)
	assert.Equal(t, int64(10), home.ID())

	assert.Nil(t, s.MustGet("blog"))

	links, ok := s.Meta().Get("links")
	require.True(t, ok)
	require.IsType(t, reconstruct.List{}, links)
	assert.Len(t, links, 2)
}

func TestWidget_ScopedOptions(t *testing.T) {
	env := newTestEnv(t)

	w, err := env.Widget("text-3", map[string]any{"text": "Body", "count": []string{"3"}})
	require.NoError(t, err)

	assert.Equal(t, "text-3", w.WidgetID())
	assert.Equal(t, "Hello widget", w.MustGet("title"))
	assert.Equal(t, "Body", w.MustGet("text"))
	assert.Equal(t, "3", w.MustGet("count"))
	assert.Equal(t, int64(0), w.ID())

	w2, err := env.Widget("text-3", map[string]any{"title": "Instance wins"})
	require.NoError(t, err)
	assert.Equal(t, "Instance wins", w2.MustGet("title"))
}

func TestTerm_MetaOverridesOptions(t *testing.T) {
	env := newTestEnv(t)

	term, err := env.Term(&Record{
		Kind: KindTerm,
		ID:   5,
		Data: map[string]any{"taxonomy": "category", "name": "News"},
		Meta: map[string]any{"color": "blue"},
	})
	require.NoError(t, err)
	assert.Equal(t, "blue", term.MustGet("color"))

	same, err := env.Term(term)
	require.NoError(t, err)
	assert.Same(t, term, same)
}

func TestCollection(t *testing.T) {
	env := newTestEnv(t)

	posts, err := env.collect("Post", []any{"10", 999, "20", "21"}, env.post)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 21}, posts.IDs())
	assert.Equal(t, "Post", posts.Kind())
	assert.Nil(t, posts.At(3))
	assert.Nil(t, posts.At(-1))

	files, err := env.collect("File", posts.IDs(), env.post)
	require.NoError(t, err)
	assert.Equal(t, []int64{20, 21}, files.IDs())

	var seen []int64
	for _, e := range files.All() {
		seen = append(seen, e.Base().ID())
		break
	}

	assert.Equal(t, []int64{20}, seen)

	single, err := env.collect("User", "1", env.userEntity)
	require.NoError(t, err)
	assert.Equal(t, 1, single.Len())

	empty, err := env.collect("User", nil, env.userEntity)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	reused, err := env.collect("User", single, env.userEntity)
	require.NoError(t, err)
	assert.Same(t, single, reused)
}

func TestCollection_Materialize(t *testing.T) {
	env := newTestEnv(t)

	users, err := env.collect("User", []int64{1}, env.userEntity)
	require.NoError(t, err)

	got, err := mapper.Materialize(users)
	require.NoError(t, err)

	items, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Ada", items[0].(map[string]any)["display_name"])
}

func TestRepository(t *testing.T) {
	repo := NewMemoryRepository().
		Add(&Record{Kind: KindComment, ID: 3}).
		Add(&Record{Kind: KindComment, ID: 1, Data: map[string]any{"comment_ID": "1"}}).
		SetOption("blogname", "x")

	assert.Equal(t, []int64{1, 3}, repo.IDs(KindComment))

	rec, err := repo.Find(KindComment, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Data["comment_ID"])

	rec, err = repo.Find(KindComment, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", rec.Data["comment_ID"])

	_, err = repo.Find(KindPost, 1)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, mapper.ErrMissingObject)

	options, err := repo.Options()
	require.NoError(t, err)
	options["blogname"] = "changed"

	options, err = repo.Options()
	require.NoError(t, err)
	assert.Equal(t, "x", options["blogname"])
}

func TestAutop(t *testing.T) {
	assert.Equal(t, "", Autop("  \n "))
	assert.Equal(t, "<p>One<br />\nline</p>\n", Autop("One\nline"))
	assert.Equal(t, "<p>A</p>\n<p>B</p>\n", Autop("A\r\n\r\n  \nB"))
}
