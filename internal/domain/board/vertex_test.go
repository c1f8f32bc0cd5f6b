package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "goban_rules/internal/errors"
)

func TestParseVertex(t *testing.T) {
	tests := []struct {
		in   string
		size int
		want Vertex
	}{
		{"A1", 9, Vertex{0, 0}},
		{"j9", 9, Vertex{8, 8}},
		{"H8", 9, Vertex{7, 7}},
		{" T19 ", 19, Vertex{18, 18}},
		{"Z25", 25, Vertex{24, 24}},
	}
	for _, tt := range tests {
		got, err := ParseVertex(tt.in, tt.size)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseVertexRejects(t *testing.T) {
	for _, in := range []string{"", "A", "I5", "A0", "K1", "A10", "11", "A-1"} {
		_, err := ParseVertex(in, 9)
		assert.ErrorIs(t, err, errs.ErrInvalidArgument, in)
	}
}

func TestVertexStringSkipsI(t *testing.T) {
	assert.Equal(t, "H1", Vertex{7, 0}.String())
	assert.Equal(t, "J1", Vertex{8, 0}.String())
	assert.Equal(t, "T19", Vertex{18, 18}.String())
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]Color{"b": Black, "Black": Black, "W": White, "white": White} {
		c, err := ParseColor(in)
		require.NoError(t, err)
		assert.Equal(t, want, c)
	}
	_, err := ParseColor("red")
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Equal(t, Empty, Empty.Opponent())
	assert.Equal(t, "w", White.Short())
}
