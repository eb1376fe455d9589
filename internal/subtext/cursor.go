package subtext

import "strings"

// Cursor walks a string one Unicode code point at a time.
//
// The position starts before the first code point; the first call to Advance
// moves onto it. A Cursor holds no parsing logic of its own.
type Cursor struct {
	runes []rune
	pos   int
}

// NewCursor returns a cursor positioned before the first code point of s.
func NewCursor(s string) *Cursor {
	return &Cursor{runes: []rune(s), pos: -1}
}

// Advance moves one code point forward and returns it. ok is false once the
// position has passed the last code point; further calls keep returning false.
func (c *Cursor) Advance() (r rune, ok bool) {
	if c.pos < len(c.runes) {
		c.pos++
	}
	if c.pos >= len(c.runes) {
		return 0, false
	}
	return c.runes[c.pos], true
}

// Current returns the code point at the cursor position.
func (c *Cursor) Current() (rune, bool) {
	if c.pos < 0 || c.pos >= len(c.runes) {
		return 0, false
	}
	return c.runes[c.pos], true
}

// Raw returns the source bytes of the current code point.
func (c *Cursor) Raw() string {
	if c.pos < 0 || c.pos >= len(c.runes) {
		return ""
	}
	return c.src[c.offs[c.pos]:c.offset(c.pos+1)]
}

// PeekAhead returns up to n code points following the current one.
// Fewer than n are returned near the end of input.
func (c *Cursor) PeekAhead(n int) []rune {
	start := c.pos + 1
	if n <= 0 || start >= len(c.runes) {
		return nil
	}
	end := min(start+n, len(c.runes))
	out := make([]rune, end-start)
	copy(out, c.runes[start:end])
	return out
}

// PeekBehind returns the code point n positions before the current one.
func (c *Cursor) PeekBehind(n int) (rune, bool) {
	i := c.pos - n
	if i < 0 || i >= len(c.runes) {
		return 0, false
	}
	return c.runes[i], true
}

// RestFromCurrent returns every code point from the current one to the end.
func (c *Cursor) RestFromCurrent() string {
	return c.src[c.offset(c.clamp(c.pos)):]
}

// FindAhead searches the text starting offset code points after the current
// position for delimiter and returns everything before the first match.
func (c *Cursor) FindAhead(delimiter string, offset int) (string, bool) {
	rest := c.src[c.offset(c.clamp(c.pos+offset)):]
	before, _, found := strings.Cut(rest, delimiter)
	if !found {
		return "", false
	}
	return before, true
}

func (c *Cursor) clamp(i int) int {
	return max(0, min(i, len(c.runes)))
}

// offset maps a code point index to its byte offset in the source.
func (c *Cursor) offset(i int) int {
	if i >= len(c.offs) {
		return len(c.src)
	}
	return c.offs[i]
}
