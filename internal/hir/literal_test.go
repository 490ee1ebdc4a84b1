package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlinshell/marlin/internal/span"
)

func TestMemberSpans(t *testing.T) {
	quoted := StringMember{Outer: span.New(0, 6), Inner: span.New(1, 5)}
	index := IntMember{Value: 3, At: span.New(7, 8)}
	bare := BareMember{Name: span.NewSpanned("size", span.New(9, 13))}

	assert.Equal(t, span.New(0, 6), quoted.Span())
	assert.Equal(t, span.New(7, 8), index.Span())
	assert.Equal(t, span.New(9, 13), bare.Span())
}

func TestMemberToPathMember(t *testing.T) {
	index := IntMember{Value: 3, At: span.New(7, 8)}
	pm, err := index.PathMember()
	require.NoError(t, err)
	assert.Equal(t, IntPathMember{Value: 3, At: span.New(7, 8)}, pm)

	bare := BareMember{Name: span.NewSpanned("size", span.New(9, 13))}
	pm, err = bare.PathMember()
	require.NoError(t, err)
	assert.Equal(t, StringPathMember{Value: "size", At: span.New(9, 13)}, pm)

	// Quoted members only carry spans; without the source buffer there is
	// no name to convert to.
	quoted := StringMember{Outer: span.New(0, 6), Inner: span.New(1, 5)}
	_, err = quoted.PathMember()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MALFORMED")
}

func TestPathMemberWithSource(t *testing.T) {
	source := `"name".3.size`
	quoted := StringMember{Outer: span.New(0, 6), Inner: span.New(1, 5)}

	pm := PathMemberWithSource(quoted, source)
	assert.Equal(t, StringPathMember{Value: "name", At: span.New(0, 6)}, pm)

	pm = PathMemberWithSource(IntMember{Value: 3, At: span.New(7, 8)}, source)
	assert.Equal(t, IntPathMember{Value: 3, At: span.New(7, 8)}, pm)

	pm = PathMemberWithSource(BareMember{Name: span.NewSpanned("size", span.New(9, 13))}, source)
	assert.Equal(t, StringPathMember{Value: "size", At: span.New(9, 13)}, pm)
}
