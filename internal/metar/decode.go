package metar

import "strings"

// Decode parses a single-line METAR or SPECI report.
//
// Fields are matched in their fixed order and every field after the
// observation time is optional. A field that does not match is left absent
// and the next one is tried at the same position. Decode returns either a
// complete Report or a *ParseError, never both.
func Decode(raw string) (*Report, error) {
	c := newCursor(raw)
	r := &Report{Raw: raw}

	if kw, ok := c.oneOf("METAR ", "SPECI "); ok {
		r.Type = strings.TrimSpace(kw)
	}

	start := c.pos
	station, ok := attempt(c, "station", c.station)
	if !ok {
		return nil, &ParseError{Kind: StructuralError, Offset: start, Element: "station", Input: raw}
	}
	r.Station = station

	start = c.pos
	if c.peek() == ' ' {
		start++
	}
	if r.Time, ok = token(c, "observation time", c.observationTime); !ok {
		return nil, &ParseError{Kind: StructuralError, Offset: start, Element: "observation time", Input: raw}
	}

	r.Corrected = c.flag("COR")
	r.Auto = c.flag("AUTO")
	r.Wind, r.WindVariation = c.windGroup()
	r.Conditions, _ = attempt(c, "conditions", c.conditions)
	if t, ok := token(c, "temperature", c.temperatureDewpoint); ok {
		r.Temperature = &t
	}
	if p, ok := token(c, "pressure", c.pressure); ok {
		r.Pressure = &p
	}
	r.RecentWeather = tokens(c, "recent weather", c.recentWeather)
	if cc, ok := token(c, "colour code", c.colourCode); ok {
		r.ColourCode = &cc
	}
	for _, group := range many(c, "windshear", c.windshear) {
		r.Windshear = append(r.Windshear, group...)
	}
	r.RunwayStates = tokens(c, "runway state", c.runwayState)
	if ss, ok := token(c, "sea state", c.seaState); ok {
		r.SeaState = &ss
	}
	r.Trends = many(c, "trend", c.trend)
	r.CloudDirections = tokens(c, "cloud direction", c.cloudDirection)
	if rmk, ok := attempt(c, "remarks", c.remarks); ok {
		r.Remarks = &rmk
	}

	if !c.end() {
		return nil, c.trailingError()
	}
	return r, nil
}

// flag consumes an optional fixed-literal token.
func (c *cursor) flag(lit string) bool {
	_, ok := token(c, lit, func() (bool, bool) { return true, c.lit(lit) })
	return ok
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

func (c *cursor) skipSpace() {
	for !c.eof() && isSpace(c.peek()) {
		c.pos++
	}
}

// end accepts trailing whitespace and the optional = terminator.
func (c *cursor) end() bool {
	c.skipSpace()
	if c.peek() == '=' {
		c.pos++
		c.skipSpace()
	}
	return c.eof()
}

// trailingError reports leftover input. If some field got further into the
// leftover than its first byte, that field's failure is the better
// diagnostic.
func (c *cursor) trailingError() *ParseError {
	if c.failPos > c.pos {
		return &ParseError{Kind: FieldShapeError, Offset: c.failPos, Element: c.failElem, Input: c.s}
	}
	return &ParseError{Kind: UnexpectedTrailingInput, Offset: c.pos, Element: "end of report", Input: c.s}
}
