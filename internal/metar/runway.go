package metar

// runway reads a runway designator 01-36 with an optional L/C/R suffix.
// The 88 all-runways sentinel is not accepted here; see runwayStateID.
func (c *cursor) runway() (Runway, bool) {
	n, ok := c.bounded(2, 3, 6)
	if !ok || n == 0 {
		return Runway{}, false
	}
	r := Runway{Number: n}
	if s, ok := c.oneOf("L", "C", "R"); ok {
		r.Side = RunwaySide(s)
	}
	return r, true
}

func (c *cursor) runwayStateID() (Runway, bool) {
	if c.lit("88") {
		return Runway{All: true}, true
	}
	return c.runway()
}

// runwayStateAhead reports whether the cursor sits on the "/" plus
// alphanumeric tail of a runway-state group.
func (c *cursor) runwayStateAhead() bool {
	if c.peek() != '/' || c.pos+1 >= len(c.s) {
		return false
	}
	b := c.s[c.pos+1]
	return isDigit(b) || isUpper(b)
}

func (c *cursor) windshearRunway() (WindshearEntry, bool) {
	var e WindshearEntry
	bare := false
	switch {
	case c.lit("TKOF RWY"):
		e.Phase = WindshearTakeoff
	case c.lit("LDG RWY"):
		e.Phase = WindshearLanding
	case c.lit("R"):
		bare = true
	default:
		return e, false
	}
	rwy, ok := c.runway()
	if !ok {
		return e, false
	}
	// R27/CLRD// belongs to the runway-state group that follows.
	if bare && c.runwayStateAhead() {
		return e, false
	}
	e.Runway = &rwy
	return e, true
}

// windshear reads one WS group: WS ALL RWY, or WS followed by one or more
// runway entries.
func (c *cursor) windshear() ([]WindshearEntry, bool) {
	if _, ok := token(c, "windshear", func() (bool, bool) {
		return true, c.lit("WS ALL RWY")
	}); ok {
		return []WindshearEntry{{AllRunways: true}}, true
	}
	if !c.lit(" WS") {
		return nil, false
	}
	entries := tokens(c, "windshear runway", c.windshearRunway)
	return entries, len(entries) > 0
}

// digitOrSlash reads one code digit, or / for unknown.
func (c *cursor) digitOrSlash() (Reading, bool) {
	if c.lit("/") {
		return unknownReading, true
	}
	v, ok := c.digits(1)
	return known(v), ok
}

// braking accepts 10-89 (friction coefficient), 91-95 and 99 (estimated
// action and unreliable) or //.
func (c *cursor) braking() (Reading, bool) {
	if c.slashes(2) {
		return unknownReading, true
	}
	v, ok := c.digits(2)
	if !ok {
		return Reading{}, false
	}
	switch {
	case v >= 10 && v <= 89, v >= 91 && v <= 95, v == 99:
		return known(v), true
	}
	return Reading{}, false
}

func (c *cursor) runwayState() (RunwayState, bool) {
	var rs RunwayState
	if !c.lit("R") {
		return rs, false
	}
	rwy, ok := c.runwayStateID()
	if !ok || !c.lit("/") {
		return rs, false
	}
	rs.Runway = rwy
	if c.lit("CLRD") {
		rs.Cleared = true
	} else {
		if rs.Deposit, ok = c.digitOrSlash(); !ok {
			return rs, false
		}
		if rs.Extent, ok = c.digitOrSlash(); !ok {
			return rs, false
		}
		if c.slashes(2) {
			rs.Depth = unknownReading
		} else {
			d, ok := c.digits(2)
			if !ok {
				return rs, false
			}
			rs.Depth = known(d)
		}
	}
	if rs.Braking, ok = c.braking(); !ok {
		return rs, false
	}
	return rs, true
}

// seaState reads WTT/Sn or WTT/Hhhh.
func (c *cursor) seaState() (SeaState, bool) {
	var ss SeaState
	if !c.lit("W") {
		return ss, false
	}
	t, ok := c.temperature()
	if !ok || !c.lit("/") {
		return ss, false
	}
	ss.Temperature = t
	switch {
	case c.lit("S"):
		ss.Kind = "S"
		if ss.Value, ok = c.digitOrSlash(); !ok {
			return ss, false
		}
	case c.lit("H"):
		ss.Kind = "H"
		if c.slashes(3) {
			ss.Value = unknownReading
			break
		}
		n := c.digitRun()
		if n < 1 || n > 3 {
			return ss, false
		}
		v, _ := c.digits(n)
		ss.Value = known(v)
	default:
		return ss, false
	}
	return ss, true
}
