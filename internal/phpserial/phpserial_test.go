package phpserial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_Scalars(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{`N;`, nil},
		{`b:1;`, true},
		{`b:0;`, false},
		{`i:-42;`, int64(-42)},
		{`d:1.5;`, 1.5},
		{`s:5:"hello";`, "hello"},
		{`s:0:"";`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Unmarshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshal_Arrays(t *testing.T) {
	got, err := Unmarshal(`a:2:{i:0;s:4:"hero";i:1;s:4:"text";}`)
	require.NoError(t, err)
	assert.Equal(t, []any{"hero", "text"}, got)

	got, err = Unmarshal(`a:2:{s:5:"title";s:2:"Hi";i:3;b:1;}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Hi", "3": true}, got)

	got, err = Unmarshal(`a:2:{i:1;s:1:"a";i:5;s:1:"b";}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "a", "5": "b"}, got, "gaps in the keys are not a list")

	got, err = Unmarshal(`a:1:{s:4:"rows";a:1:{i:0;i:7;}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"rows": []any{int64(7)}}, got)

	got, err = Unmarshal(`a:0:{}`)
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}

func TestUnmarshal_Object(t *testing.T) {
	input := "O:8:\"stdClass\":2:{s:4:\"name\";s:3:\"Ann\";s:6:\"\x00*\x00age\";i:3;}"

	got, err := Unmarshal(input)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ann", "age": int64(3)}, got)

	_, err = Unmarshal(`O:99:"stdClass":0:{}`)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []string{
		``,
		`i:abc;`,
		`a:999999999999999999:{}`,
		`a:100000000000:{}`,
		`a:1:{i:0;a:99999999:{}}`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := Unmarshal(input)
				assert.ErrorIs(t, err, ErrMalformed)
			})
		})
	}

	_, err := Unmarshal(`r:1;`)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Unmarshal(`x:1;`)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestMaybeUnserialize(t *testing.T) {
	assert.Equal(t, "plain text", MaybeUnserialize("plain text"))
	assert.Equal(t, "42", MaybeUnserialize("42"))
	assert.Equal(t, []any{"a"}, MaybeUnserialize(`a:1:{i:0;s:1:"a";}`))
	assert.Equal(t, "hello", MaybeUnserialize(`  s:5:"hello"; `))

	huge := `a:999999999999999999:{}`
	assert.Equal(t, huge, MaybeUnserialize(huge), "decode failures keep the original string")
}

func TestLooksSerialized(t *testing.T) {
	assert.True(t, LooksSerialized("N;"))
	assert.True(t, LooksSerialized(`i:5;`))
	assert.True(t, LooksSerialized(`a:0:{}`))
	assert.False(t, LooksSerialized("a:"))
	assert.False(t, LooksSerialized("hello;"))
	assert.False(t, LooksSerialized("x:1;"))
}
