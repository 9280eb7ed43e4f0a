package metar

// cursor walks the report text. Field parsers advance pos on success and
// the combinators below restore it on failure, so a failed alternative
// never consumes input.
type cursor struct {
	s   string
	pos int

	// Deepest point any failed attempt reached, for diagnostics.
	failPos  int
	failElem string
}

func newCursor(s string) *cursor {
	return &cursor{s: s, failPos: -1}
}

func (c *cursor) eof() bool { return c.pos >= len(c.s) }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.s[c.pos]
}

func (c *cursor) rest() string { return c.s[c.pos:] }

// note records a failure of elem at the current position if it is the
// deepest seen so far.
func (c *cursor) note(elem string) {
	if c.pos > c.failPos {
		c.failPos = c.pos
		c.failElem = elem
	}
}

// attempt runs fn and rolls the cursor back when it fails.
func attempt[T any](c *cursor, elem string, fn func() (T, bool)) (T, bool) {
	save := c.pos
	v, ok := fn()
	if !ok {
		c.note(elem)
		c.pos = save
	}
	return v, ok
}

// many repeats fn until it fails. The failed attempt consumes nothing.
func many[T any](c *cursor, elem string, fn func() (T, bool)) []T {
	var out []T
	for {
		start := c.pos
		v, ok := attempt(c, elem, fn)
		if !ok || c.pos == start {
			c.pos = start
			return out
		}
		out = append(out, v)
	}
}

// token runs fn as a space-separated field: a single leading space, the
// field itself, then a token boundary.
func token[T any](c *cursor, elem string, fn func() (T, bool)) (T, bool) {
	return attempt(c, elem, func() (T, bool) {
		var zero T
		if !c.lit(" ") {
			return zero, false
		}
		v, ok := fn()
		if !ok || !c.boundary() {
			return zero, false
		}
		return v, true
	})
}

// tokens is many applied to token.
func tokens[T any](c *cursor, elem string, fn func() (T, bool)) []T {
	return many(c, elem, func() (T, bool) { return token(c, elem, fn) })
}

// boundary reports whether the cursor sits at the end of a token.
func (c *cursor) boundary() bool {
	b := c.peek()
	return b == 0 || b == '=' || isSpace(b)
}

// lit consumes s if the input continues with it.
func (c *cursor) lit(s string) bool {
	if len(c.s)-c.pos < len(s) || c.s[c.pos:c.pos+len(s)] != s {
		return false
	}
	c.pos += len(s)
	return true
}

// oneOf consumes the first literal that matches. Longer literals sharing a
// prefix must be listed first.
func (c *cursor) oneOf(lits ...string) (string, bool) {
	for _, l := range lits {
		if c.lit(l) {
			return l, true
		}
	}
	return "", false
}

// slashes consumes exactly n slash characters, the missing-data spelling.
func (c *cursor) slashes(n int) bool {
	if len(c.s)-c.pos < n {
		return false
	}
	for i := 0; i < n; i++ {
		if c.s[c.pos+i] != '/' {
			return false
		}
	}
	c.pos += n
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// digits consumes exactly n digits and returns their value.
func (c *cursor) digits(n int) (int, bool) {
	if len(c.s)-c.pos < n {
		return 0, false
	}
	v := 0
	for i := 0; i < n; i++ {
		b := c.s[c.pos+i]
		if !isDigit(b) {
			return 0, false
		}
		v = v*10 + int(b-'0')
	}
	c.pos += n
	return v, true
}

// digitRun counts the digits at the cursor without consuming them.
func (c *cursor) digitRun() int {
	n := 0
	for c.pos+n < len(c.s) && isDigit(c.s[c.pos+n]) {
		n++
	}
	return n
}

// letters consumes exactly n uppercase letters.
func (c *cursor) letters(n int) (string, bool) {
	if len(c.s)-c.pos < n {
		return "", false
	}
	for i := 0; i < n; i++ {
		if !isUpper(c.s[c.pos+i]) {
			return "", false
		}
	}
	v := c.s[c.pos : c.pos+n]
	c.pos += n
	return v, true
}

// bounded consumes two digits whose leading digit is at most lead, except
// that a leading digit equal to edge restricts the second digit to at most
// maxLow. It encodes the ranges used by day, hour and runway numbers:
// day is bounded(2, 3, 1), hour bounded(1, 2, 3), runway bounded(2, 3, 6).
func (c *cursor) bounded(lead, edge, maxLow byte) (int, bool) {
	if len(c.s)-c.pos < 2 {
		return 0, false
	}
	hi, lo := c.s[c.pos], c.s[c.pos+1]
	if !isDigit(hi) || !isDigit(lo) {
		return 0, false
	}
	switch {
	case hi <= '0'+lead:
	case hi == '0'+edge && lo <= '0'+maxLow:
	default:
		return 0, false
	}
	c.pos += 2
	return int(hi-'0')*10 + int(lo-'0'), true
}

// compass consumes a sector, preferring the two-letter intercardinals so
// that NE is never read as N followed by E.
func (c *cursor) compass() (Compass, bool) {
	s, ok := c.oneOf("NE", "NW", "SE", "SW", "N", "E", "S", "W")
	return Compass(s), ok
}
