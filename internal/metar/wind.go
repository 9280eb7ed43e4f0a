package metar

// heading reads three direction digits. The shape check allows anything
// from 000 to 369; values above 360 are kept as sent.
func (c *cursor) heading() (int, bool) {
	hi, ok := c.bounded(2, 3, 6)
	if !ok {
		return 0, false
	}
	lo, ok := c.digits(1)
	if !ok {
		return 0, false
	}
	return hi*10 + lo, true
}

func (c *cursor) windDirection() (WindDirection, bool) {
	switch {
	case c.slashes(3):
		return WindDirection{Kind: DirectionUnknown}, true
	case c.lit("VRB"):
		return WindDirection{Kind: DirectionVariable}, true
	}
	deg, ok := c.heading()
	if !ok {
		return WindDirection{}, false
	}
	return WindDirection{Kind: DirectionDegrees, Degrees: deg}, true
}

func (c *cursor) windSpeed() (WindSpeed, bool) {
	if c.slashes(2) {
		return WindSpeed{Unknown: true}, true
	}
	atLeast := c.lit("P")
	n := c.digitRun()
	if n != 2 && n != 3 {
		return WindSpeed{}, false
	}
	v, _ := c.digits(n)
	return WindSpeed{Value: v, AtLeast: atLeast}, true
}

// wind reads dddff(f)(Gff)unit with no separators.
func (c *cursor) wind() (Wind, bool) {
	var w Wind
	var ok bool
	if w.Direction, ok = c.windDirection(); !ok {
		return Wind{}, false
	}
	if w.Speed, ok = c.windSpeed(); !ok {
		return Wind{}, false
	}
	if c.lit("G") {
		g, ok := c.digits(2)
		if !ok {
			return Wind{}, false
		}
		w.Gust = &g
	}
	unit, ok := c.oneOf("KT", "MPS", "KPH")
	if !ok {
		return Wind{}, false
	}
	w.Unit = SpeedUnit(unit)
	return w, true
}

func (c *cursor) windVariation() (WindVariation, bool) {
	from, ok := c.heading()
	if !ok || !c.lit("V") {
		return WindVariation{}, false
	}
	to, ok := c.heading()
	if !ok {
		return WindVariation{}, false
	}
	return WindVariation{From: from, To: to}, true
}

// windGroup reads the wind token and, only when it matched, the optional
// variation token after it.
func (c *cursor) windGroup() (*Wind, *WindVariation) {
	w, ok := token(c, "wind", c.wind)
	if !ok {
		return nil, nil
	}
	if v, ok := token(c, "wind variation", c.windVariation); ok {
		return &w, &v
	}
	return &w, nil
}
