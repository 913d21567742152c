package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input       string
		segments    []string
		elementWise bool
	}{
		{"author", []string{"author"}, false},
		{"tags[]", []string{"tags"}, true},
		{"blocks.title", []string{"blocks", "title"}, false},
		{"blocks.hero.gallery[]", []string{"blocks", "hero", "gallery"}, true},
		{"post-thumbnail", []string{"post-thumbnail"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.segments, p.Segments)
			assert.Equal(t, tt.elementWise, p.ElementWise)
			assert.Equal(t, tt.input, p.String())
		})
	}
}

func TestParsePath_Errors(t *testing.T) {
	for _, input := range []string{"", "  ", "[]", ".a", "a.", "a..b", "a[].b", "a b"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePath(input)
			require.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestPath_HeadTail(t *testing.T) {
	p, err := ParsePath("blocks.hero.image[]")
	require.NoError(t, err)

	assert.True(t, p.IsNested())
	assert.Equal(t, "blocks", p.Head())
	assert.Equal(t, "blocks.hero.image", p.Key())

	tail := p.Tail()
	assert.Equal(t, "hero.image[]", tail.String())
	assert.False(t, tail.Tail().IsNested())
}
