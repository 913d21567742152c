package primitive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{nil, 0},
		{true, 1},
		{false, 0},
		{42, 42},
		{uint8(7), 7},
		{3.9, 3},
		{"12", 12},
		{" 12abc", 12},
		{"-4.5", -4},
		{"1e3", 1000},
		{"abc", 0},
		{"", 0},
		{[]any{1}, 1},
		{[]any{}, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Int(tt.in), "%#v", tt.in)
	}
}

func TestFloat(t *testing.T) {
	assert.InDelta(t, 1.5, Float("1.5px"), 1e-9)
	assert.InDelta(t, 2.0, Float(2), 1e-9)
	assert.InDelta(t, 0.25, Float(float32(0.25)), 1e-9)
	assert.InDelta(t, 0.0, Float("e5"), 1e-9)
	assert.InDelta(t, 12.0, Float("12e"), 1e-9)
}

func TestString(t *testing.T) {
	type slug string

	assert.Equal(t, "", String(nil))
	assert.Equal(t, "1", String(true))
	assert.Equal(t, "", String(false))
	assert.Equal(t, "42", String(42))
	assert.Equal(t, "42", String(uint(42)))
	assert.Equal(t, "1.5", String(1.5))
	assert.Equal(t, "x", String(slug("x")))
	assert.Equal(t, "", String([]any{1}))
}
