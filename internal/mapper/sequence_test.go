package mapper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatree/internal/mapping"
	"metatree/internal/reconstruct"
)

func blockRows() reconstruct.List {
	hero := reconstruct.NewRow("hero")
	hero.Fields["title"] = reconstruct.Scalar{Value: "Hi"}
	hero.Fields["image"] = reconstruct.Scalar{Value: "7"}

	text := reconstruct.NewRow("text")
	text.Fields["title"] = reconstruct.Scalar{Value: "About"}
	text.Fields["body"] = reconstruct.Scalar{Value: "Lorem"}

	return reconstruct.List{hero, text}
}

func countingSchema(calls *int) *mapping.Schema {
	return mapping.New().MustSet("blocks", map[string]any{
		"title": func(s string) string {
			*calls++
			return "<" + s + ">"
		},
	})
}

func TestSequence_LazyAndCached(t *testing.T) {
	calls := 0
	e := New(NewDefaultRegistry())

	got, err := e.Map(blockRows(), "blocks", countingSchema(&calls))
	require.NoError(t, err)

	seq, ok := got.(*Sequence)
	require.True(t, ok)

	assert.Equal(t, 2, seq.Len())
	assert.Equal(t, 0, calls)
	assert.False(t, seq.Mapped(0))

	first, err := seq.At(0)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "<Hi>", first.Fields["title"])
	assert.Equal(t, "hero", first.Type)

	again, err := seq.At(0)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, calls)
	assert.True(t, seq.Mapped(0))
	assert.False(t, seq.Mapped(1))

	_, err = seq.At(2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = seq.At(-1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSequence_RowsUntouched(t *testing.T) {
	calls := 0
	rows := blockRows()

	seq := New(nil).NewSequence(rows, countingSchema(&calls).ForType("none"))
	assert.Nil(t, seq.Schema())

	seq = New(nil).NewSequence(rows, mapping.New().MustSet("title", "upper"))
	_, err := seq.At(0)
	require.NoError(t, err)

	raw, ok := seq.Raw(0)
	require.True(t, ok)
	assert.Equal(t, reconstruct.Scalar{Value: "Hi"}, raw.Fields["title"])

	_, ok = seq.Raw(5)
	assert.False(t, ok)
}

func TestSequence_TypeSchema(t *testing.T) {
	e := New(NewDefaultRegistry())

	schema := mapping.New()
	schema.MustSet("blocks.title", "upper")
	schema.MustSet("blocks.text.body", "upper")

	got, err := e.Map(blockRows(), "blocks", schema)
	require.NoError(t, err)

	seq := got.(*Sequence)

	hero, err := seq.At(0)
	require.NoError(t, err)
	assert.Equal(t, "HI", hero.Fields["title"])

	// The per-type schema replaces the shared one for typed rows.
	text, err := seq.At(1)
	require.NoError(t, err)
	assert.Equal(t, "LOREM", text.Fields["body"])
	assert.Equal(t, "About", text.Fields["title"])
}

func TestSequence_Cursor(t *testing.T) {
	calls := 0
	e := New(nil)

	got, err := e.Map(blockRows(), "blocks", countingSchema(&calls))
	require.NoError(t, err)

	seq := got.(*Sequence)

	var titles []any
	for seq.Rewind(); seq.Valid(); seq.Next() {
		row, err := seq.Current()
		require.NoError(t, err)

		titles = append(titles, row.Fields["title"])
		assert.Len(t, titles, seq.Key()+1)
	}

	assert.Equal(t, []any{"<Hi>", "<About>"}, titles)
	assert.Equal(t, 2, calls)

	// Re-iterating uses the cache.
	for i, row := range seq.All() {
		assert.Equal(t, titles[i], row.Fields["title"])
	}

	require.NoError(t, seq.Err())
	assert.Equal(t, 2, calls)
}

func TestSequence_AllStopsOnError(t *testing.T) {
	boom := errors.New("boom")

	schema := mapping.New().MustSet("blocks", map[string]any{
		"body": func(string) (string, error) { return "", boom },
	})

	got, err := New(nil).Map(blockRows(), "blocks", schema)
	require.NoError(t, err)

	seq := got.(*Sequence)

	var seen []int
	for i := range seq.All() {
		seen = append(seen, i)
	}

	assert.Equal(t, []int{0}, seen)
	require.ErrorIs(t, seq.Err(), boom)
}

func TestSequence_FromPlainMaps(t *testing.T) {
	value := []any{
		map[string]any{"__type": "hero", "n": "1"},
		map[string]any{"n": "2"},
	}

	schema := mapping.New().MustSet("rows.n", "int")

	got, err := New(NewDefaultRegistry()).Map(value, "rows", schema)
	require.NoError(t, err)

	seq, ok := got.(*Sequence)
	require.True(t, ok)

	row, err := seq.At(0)
	require.NoError(t, err)
	assert.Equal(t, "hero", row.Type)
	assert.Equal(t, int64(1), row.Fields["n"])
	assert.Equal(t, []string{"n"}, row.Keys())

	v, ok := row.Get("n")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	// Lists of non-rows are not sequences.
	got, err = New(nil).Map([]any{"a", 1}, "rows", schema)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", 1}, got)
}

type materialized struct{ id int }

func (m materialized) Materialize() (any, error) {
	return map[string]any{"id": m.id}, nil
}

func TestMaterialize(t *testing.T) {
	calls := 0

	got, err := New(nil).Map(blockRows(), "blocks", countingSchema(&calls))
	require.NoError(t, err)

	out, err := Materialize(map[string]any{
		"blocks": got,
		"tree":   reconstruct.List{reconstruct.NewRow("x")},
		"entity": materialized{id: 3},
		"list":   []any{materialized{id: 4}, "s"},
		"plain":  1,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"blocks": []any{
			map[string]any{"__type": "hero", "title": "<Hi>", "image": "7"},
			map[string]any{"__type": "text", "title": "<About>", "body": "Lorem"},
		},
		"tree":   []any{map[string]any{"__type": "x"}},
		"entity": map[string]any{"id": 3},
		"list":   []any{map[string]any{"id": 4}, "s"},
		"plain":  1,
	}, out)
}

func TestMaterialize_Error(t *testing.T) {
	boom := errors.New("boom")
	schema := mapping.New().MustSet("blocks.body", func(string) (string, error) { return "", boom })

	got, err := New(nil).Map(blockRows(), "blocks", schema)
	require.NoError(t, err)

	_, err = Materialize(got)
	require.ErrorIs(t, err, boom)
}
