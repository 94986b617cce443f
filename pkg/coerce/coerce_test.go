package coerce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToStorable(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "string", in: "hello", want: "hello"},
		{name: "bool", in: true, want: true},
		{name: "integer number", in: json.Number("42"), want: int64(42)},
		{name: "float number", in: json.Number("1.5"), want: 1.5},
		{name: "list", in: []any{"Pool", "Gym"}, want: `["Pool","Gym"]`},
		{name: "object", in: map[string]any{"a": json.Number("1")}, want: `{"a":1}`},
		{name: "typed slice", in: []string{"x"}, want: `["x"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToStorable(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBoolFlag(t *testing.T) {
	for in, want := range map[any]int{true: 1, false: 0, "true": 1, "0": 0, int64(3): 1} {
		got, ok := BoolFlag(in)
		require.True(t, ok, "%v", in)
		assert.Equal(t, want, got, "%v", in)
	}
	got, ok := BoolFlag(json.Number("1"))
	require.True(t, ok)
	assert.Equal(t, 1, got)

	_, ok = BoolFlag("maybe")
	assert.False(t, ok)
	_, ok = BoolFlag([]any{})
	assert.False(t, ok)
}

func TestAreasRoundTrip(t *testing.T) {
	stored, err := ToStorable([]any{"Pool", "Gym"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pool", "Gym"}, ParseAreas(stored))
}

func TestParseAreasFallbacks(t *testing.T) {
	assert.Equal(t, []string{"Pool", "Gym"}, ParseAreas("Pool, Gym"))
	assert.Equal(t, []string{"Pool", "Gym"}, ParseAreas([]byte(" Pool ,, Gym ,")))
	assert.Equal(t, []string{}, ParseAreas(`["Pool",`))
	assert.Equal(t, []string{}, ParseAreas(`{"a":1}`))
	assert.Equal(t, []string{}, ParseAreas(""))
	assert.Equal(t, []string{}, ParseAreas(nil))
	assert.Equal(t, []string{}, ParseAreas(int64(7)))
}
