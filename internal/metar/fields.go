package metar

import "strings"

func (c *cursor) station() (string, bool) {
	s, ok := c.letters(4)
	return s, ok && c.boundary()
}

// observationTime reads DDHHMMZ with day 01-31, hour 00-23, minute 00-59.
func (c *cursor) observationTime() (ObservationTime, bool) {
	var t ObservationTime
	var ok bool
	if t.Day, ok = c.bounded(2, 3, 1); !ok || t.Day == 0 {
		return t, false
	}
	if t.Hour, ok = c.bounded(1, 2, 3); !ok {
		return t, false
	}
	if t.Minute, ok = c.bounded(5, 5, 9); !ok {
		return t, false
	}
	return t, c.lit("Z")
}

func (c *cursor) temperature() (Temperature, bool) {
	if c.slashes(2) {
		return Temperature{Unknown: true}, true
	}
	below := c.lit("M")
	v, ok := c.digits(2)
	if !ok {
		return Temperature{}, false
	}
	if below {
		v = -v
	}
	return Temperature{Celsius: v, BelowZero: below}, true
}

func (c *cursor) temperatureDewpoint() (TemperatureDewpoint, bool) {
	t, ok := c.temperature()
	if !ok || !c.lit("/") {
		return TemperatureDewpoint{}, false
	}
	d, ok := c.temperature()
	if !ok {
		return TemperatureDewpoint{}, false
	}
	return TemperatureDewpoint{Temperature: t, Dewpoint: d}, true
}

func (c *cursor) pressure() (Pressure, bool) {
	kind, ok := c.oneOf("Q", "A")
	if !ok {
		return Pressure{}, false
	}
	p := Pressure{Kind: PressureKind(kind)}
	if c.slashes(4) {
		p.Value = unknownReading
		return p, true
	}
	v, ok := c.digits(4)
	if !ok {
		return Pressure{}, false
	}
	p.Value = known(v)
	return p, true
}

func (c *cursor) recentWeather() (RecentWeather, bool) {
	if !c.lit("RE") {
		return RecentWeather{}, false
	}
	p := c.phenomena()
	return RecentWeather{Phenomena: p}, len(p) > 0
}

func (c *cursor) colourCode() (ColourCode, bool) {
	s, ok := c.oneOf("BLU+", "BLU", "WHT", "GRN", "YLO", "AMB", "RED", "///")
	return ColourCode(s), ok
}

func (c *cursor) changeTime() (ChangeTime, bool) {
	ind, ok := c.oneOf("FM", "TL", "AT")
	if !ok {
		return ChangeTime{}, false
	}
	hour, ok := c.digits(2)
	if !ok {
		return ChangeTime{}, false
	}
	minute, ok := c.digits(2)
	if !ok {
		return ChangeTime{}, false
	}
	return ChangeTime{Indicator: ChangeIndicator(ind), Hour: hour, Minute: minute}, true
}

// trend reads NOSIG, or BECMG/TEMPO followed by change times and the
// forecast wind and conditions.
func (c *cursor) trend() (Trend, bool) {
	kind, ok := token(c, "trend", func() (TrendKind, bool) {
		s, ok := c.oneOf("NOSIG", "BECMG", "TEMPO")
		return TrendKind(s), ok
	})
	if !ok {
		return Trend{}, false
	}
	t := Trend{Kind: kind}
	if kind == TrendNoSignificantChange {
		return t, true
	}
	t.Times = tokens(c, "trend time", c.changeTime)
	_, t.NoSignificantWeather = token(c, "no significant weather", func() (bool, bool) {
		return true, c.lit("NSW")
	})
	t.Wind, t.WindVariation = c.windGroup()
	t.Conditions, _ = c.conditions()
	return t, true
}

func (c *cursor) cloudDirection() (CloudDirection, bool) {
	var d CloudDirection
	if t, ok := c.oneOf("TCU", "CB"); ok {
		d.Type = CloudType(t)
	} else if c.slashes(3) {
		d.Type = CloudTypeUnknown
	} else {
		return d, false
	}
	for {
		save := c.pos
		if !c.lit("/") {
			break
		}
		s, ok := c.compass()
		if !ok {
			c.pos = save
			break
		}
		d.Sectors = append(d.Sectors, s)
	}
	return d, len(d.Sectors) > 0
}

func isRemarkChar(b byte) bool {
	switch {
	case isUpper(b), isDigit(b), isSpace(b):
		return true
	}
	return strings.IndexByte("$/-", b) >= 0
}

// remarks reads RMK and the free text after it. The text after the
// separating space is kept as written, less trailing whitespace, and may
// be empty.
func (c *cursor) remarks() (string, bool) {
	if !c.lit(" RMK") || !c.boundary() {
		return "", false
	}
	if isSpace(c.peek()) {
		c.pos++
	}
	start := c.pos
	for !c.eof() && isRemarkChar(c.peek()) {
		c.pos++
	}
	end := c.pos
	for end > start && isSpace(c.s[end-1]) {
		end--
	}
	return c.s[start:end], true
}
