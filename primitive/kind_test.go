package primitive_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"metatree/primitive"
)

func Example() {
	type Label string
	type Empty struct{}

	fmt.Println(primitive.KindOf(nil))
	fmt.Println(primitive.KindOf(42))
	fmt.Println(primitive.KindOf("42"))
	fmt.Println(primitive.KindOf(Label("x")))
	fmt.Println(primitive.KindOf([]any{"hero", "text"}))
	fmt.Println(primitive.KindOf(map[string]any{"a": 1}))
	fmt.Println(primitive.KindOf(Empty{}))
	fmt.Println(primitive.KindEnum(0))
	// Output:
	// KindNull
	// KindInt
	// KindString
	// KindString
	// KindList
	// KindAssoc
	// KindOther
	// KindEnum(0)
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero", 0, false},
		{"int", 7, true},
		{"uint8", uint8(1), true},
		{"zero float", 0.0, false},
		{"empty string", "", false},
		{"zero string", "0", false},
		{"string", "hero", true},
		{"empty list", []any{}, false},
		{"list", []string{"a"}, true},
		{"empty map", map[string]any{}, false},
		{"nil pointer", (*time.Time)(nil), false},
		{"struct", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, primitive.Truthy(tt.value))
		})
	}
}

func TestAsCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  any
		want   int
		wantOK bool
	}{
		{"2", 2, true},
		{"0", 0, true},
		{2, 2, true},
		{int64(3), 3, true},
		{uint16(4), 4, true},
		{-1, -1, false},
		{"-1", 0, false},
		{"2.5", 0, false},
		{2.0, 0, false},
		{" 2", 0, false},
		{"", 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T(%v)", tt.value, tt.value), func(t *testing.T) {
			got, ok := primitive.AsCount(tt.value)
			assert.Equal(t, tt.wantOK, ok)

			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAsID(t *testing.T) {
	t.Parallel()

	id, ok := primitive.AsID(" 15 ")
	assert.True(t, ok)
	assert.Equal(t, int64(15), id)

	id, ok = primitive.AsID(float64(9))
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)

	_, ok = primitive.AsID(9.5)
	assert.False(t, ok)

	_, ok = primitive.AsID(0)
	assert.False(t, ok)

	_, ok = primitive.AsID("abc")
	assert.False(t, ok)

	id, ok = primitive.AsID(uint32(12))
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)
}

func TestItems(t *testing.T) {
	t.Parallel()

	items, ok := primitive.Items([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, items)

	items, ok = primitive.Items([]int{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2}, items)

	_, ok = primitive.Items("ab")
	assert.False(t, ok)

	_, ok = primitive.Items(map[string]any{"a": 1})
	assert.False(t, ok)
}
