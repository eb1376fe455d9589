package subtext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursor_AdvancePastEnd(t *testing.T) {
	c := NewCursor("ab")

	r, ok := c.Advance()
	require.True(t, ok)
	require.Equal(t, 'a', r)

	r, ok = c.Advance()
	require.True(t, ok)
	require.Equal(t, 'b', r)

	for range 3 {
		_, ok = c.Advance()
		require.False(t, ok)
	}
	_, ok = c.Current()
	require.False(t, ok)
	require.Empty(t, c.RestFromCurrent())
}

func TestCursor_CodePoints(t *testing.T) {
	c := NewCursor("héllo")
	c.Advance()
	r, ok := c.Advance()
	require.True(t, ok)
	require.Equal(t, 'é', r)
	require.Equal(t, "éllo", c.RestFromCurrent())
}

func TestCursor_PeekAhead(t *testing.T) {
	c := NewCursor("abc")
	require.Equal(t, []rune("abc"), c.PeekAhead(5), "before the first advance the whole input lies ahead")

	c.Advance()
	require.Equal(t, []rune("bc"), c.PeekAhead(5))
	require.Equal(t, []rune("b"), c.PeekAhead(1))
	require.Empty(t, c.PeekAhead(0))

	c.Advance()
	c.Advance()
	require.Empty(t, c.PeekAhead(3))
}

func TestCursor_PeekBehind(t *testing.T) {
	c := NewCursor("abc")
	c.Advance()
	_, ok := c.PeekBehind(1)
	require.False(t, ok)

	c.Advance()
	c.Advance()
	r, ok := c.PeekBehind(1)
	require.True(t, ok)
	require.Equal(t, 'b', r)

	r, ok = c.PeekBehind(2)
	require.True(t, ok)
	require.Equal(t, 'a', r)

	_, ok = c.PeekBehind(3)
	require.False(t, ok)
}

func TestCursor_FindAhead(t *testing.T) {
	c := NewCursor("[[My Note]] after")
	c.Advance()

	inner, ok := c.FindAhead("]]", 2)
	require.True(t, ok)
	require.Equal(t, "My Note", inner)

	word, ok := c.FindAhead(" ", 0)
	require.True(t, ok)
	require.Equal(t, "[[My", word)

	_, ok = c.FindAhead("}}", 0)
	require.False(t, ok)

	_, ok = c.FindAhead("]]", 100)
	require.False(t, ok, "offsets past the end search an empty string")
}

func TestCursor_RawKeepsInvalidBytes(t *testing.T) {
	c := NewCursor("a\xffé")

	c.Advance()
	require.Equal(t, "a", c.Raw())

	r, ok := c.Advance()
	require.True(t, ok)
	require.Equal(t, '\uFFFD', r)
	require.Equal(t, "\xff", c.Raw())
	require.Equal(t, "\xffé", c.RestFromCurrent())

	c.Advance()
	require.Equal(t, "é", c.Raw())

	c.Advance()
	require.Empty(t, c.Raw())
}
