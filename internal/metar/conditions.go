package metar

// conditions reads the atmospheric condition block. It consumes its own
// leading spaces and fails when none of its parts are present.
func (c *cursor) conditions() (*Conditions, bool) {
	kind, ok := token(c, "conditions", func() (ConditionsKind, bool) {
		s, ok := c.oneOf("CAVOK", "SKC")
		return ConditionsKind(s), ok
	})
	if ok {
		return &Conditions{Kind: kind}, true
	}

	cond := c.composite()
	if cond.empty() {
		return nil, false
	}
	return cond, true
}

func (c *cursor) composite() *Conditions {
	cond := &Conditions{Kind: ConditionsComposite}
	if v, ok := token(c, "visibility", c.visibility); ok {
		cond.Visibility = &v
	}
	cond.DirectionalVisibility = tokens(c, "directional visibility", c.directionalVisibility)
	cond.RVR = tokens(c, "runway visual range", c.rvr)

	if sky, ok := token(c, "sky clear", c.skyLiteral("SKC", "CLR")); ok {
		cond.Sky = sky
		return cond
	}

	cond.Weather = tokens(c, "weather", c.weather)

	// Vertical visibility closes the block: no cloud is reported with it.
	if vv, ok := token(c, "vertical visibility", c.verticalVisibility); ok {
		cond.VerticalVisibility = &vv
		return cond
	}
	if sky, ok := token(c, "cloud cover", c.skyLiteral("NCD", "NSC", "CLR")); ok {
		cond.Sky = sky
		return cond
	}
	cond.Clouds = tokens(c, "cloud layer", c.cloudLayer)
	return cond
}

func (c *cursor) skyLiteral(lits ...string) func() (Sky, bool) {
	return func() (Sky, bool) {
		s, ok := c.oneOf(lits...)
		return Sky(s), ok
	}
}

// visibility picks the first matching lexical shape. Order matters: the
// shorter shapes are prefixes of the longer ones.
func (c *cursor) visibility() (Visibility, bool) {
	shapes := []func() (Visibility, bool){
		c.visibilityUnknown,
		c.visibilityMetres,
		c.visibilityWholeMiles,
		c.visibilityMixedMiles,
		c.visibilityFractionMiles,
	}
	for _, shape := range shapes {
		if v, ok := attempt(c, "visibility", shape); ok {
			return v, true
		}
	}
	return Visibility{}, false
}

func (c *cursor) visibilityUnknown() (Visibility, bool) {
	return Visibility{Kind: VisibilityUnknown}, c.slashes(4)
}

func (c *cursor) visibilityMetres() (Visibility, bool) {
	if c.digitRun() != 4 {
		return Visibility{}, false
	}
	m, _ := c.digits(4)
	return Visibility{Kind: VisibilityMetres, Metres: m}, true
}

func (c *cursor) visibilityWholeMiles() (Visibility, bool) {
	n := c.digitRun()
	if n != 1 && n != 2 {
		return Visibility{}, false
	}
	whole, _ := c.digits(n)
	if !c.lit("SM") {
		return Visibility{}, false
	}
	return Visibility{Kind: VisibilityStatuteMiles, Whole: whole}, true
}

func (c *cursor) visibilityMixedMiles() (Visibility, bool) {
	whole, ok := c.digits(1)
	if !ok || !c.lit(" ") {
		return Visibility{}, false
	}
	v, ok := c.visibilityFractionMiles()
	if !ok {
		return Visibility{}, false
	}
	v.Kind = VisibilityMixed
	v.Whole = whole
	return v, true
}

func (c *cursor) visibilityFractionMiles() (Visibility, bool) {
	num, ok := c.digits(1)
	if !ok || !c.lit("/") {
		return Visibility{}, false
	}
	n := c.digitRun()
	if n != 1 && n != 2 {
		return Visibility{}, false
	}
	den, _ := c.digits(n)
	if !c.lit("SM") {
		return Visibility{}, false
	}
	return Visibility{Kind: VisibilityFraction, Numerator: num, Denominator: den}, true
}

// directionalVisibility reads a four character visibility glued to a
// sector, e.g. 2000SW or ////NE.
func (c *cursor) directionalVisibility() (DirectionalVisibility, bool) {
	var v Visibility
	if c.slashes(4) {
		v.Kind = VisibilityUnknown
	} else {
		m, ok := c.digits(4)
		if !ok {
			return DirectionalVisibility{}, false
		}
		v = Visibility{Kind: VisibilityMetres, Metres: m}
	}
	sector, ok := c.compass()
	if !ok {
		return DirectionalVisibility{}, false
	}
	return DirectionalVisibility{Visibility: v, Sector: sector}, true
}

func (c *cursor) rvrDistance() (RVRDistance, bool) {
	var d RVRDistance
	switch {
	case c.lit("P"):
		d.Modifier = RVRAtLeast
	case c.lit("M"):
		d.Modifier = RVRAtMost
	}
	v, ok := c.digits(4)
	if !ok {
		return RVRDistance{}, false
	}
	d.Value = v
	return d, true
}

var rvrTrends = map[string]RVRTrend{
	"U": RVRIncreasing,
	"D": RVRDecreasing,
	"N": RVRNoChange,
}

// rvr reads Rdd[LCR]/[PM]nnnn[V[PM]nnnn][FT][[/]U|D|N].
func (c *cursor) rvr() (RunwayVisualRange, bool) {
	var r RunwayVisualRange
	if !c.lit("R") {
		return r, false
	}
	rwy, ok := c.runway()
	if !ok || !c.lit("/") {
		return r, false
	}
	r.Runway = rwy
	if r.Value, ok = c.rvrDistance(); !ok {
		return r, false
	}
	if c.lit("V") {
		max, ok := c.rvrDistance()
		if !ok {
			return r, false
		}
		r.Max = &max
	}
	r.Feet = c.lit("FT")

	save := c.pos
	c.lit("/")
	if t, ok := c.oneOf("U", "D", "N"); ok {
		r.Trend = rvrTrends[t]
	} else {
		c.pos = save
	}
	return r, true
}

// phenomena reads a run of known two-letter codes and stops before the
// first pair that is not one.
func (c *cursor) phenomena() []Phenomenon {
	var out []Phenomenon
	for {
		save := c.pos
		code, ok := c.letters(2)
		if !ok || !isPhenomenon(code) {
			c.pos = save
			return out
		}
		out = append(out, Phenomenon(code))
	}
}

func (c *cursor) weather() (Weather, bool) {
	if c.lit("//") {
		return Weather{Unknown: true}, true
	}
	var w Weather
	switch {
	case c.lit("-"):
		w.Intensity = IntensityLight
	case c.lit("+"):
		w.Intensity = IntensityHeavy
	case c.lit("VC"):
		w.Intensity = IntensityVicinity
	}
	w.Phenomena = c.phenomena()
	if len(w.Phenomena) == 0 {
		return Weather{}, false
	}
	return w, true
}

// hundreds reads a three digit height or its /// spelling.
func (c *cursor) hundreds() (Reading, bool) {
	if c.slashes(3) {
		return unknownReading, true
	}
	v, ok := c.digits(3)
	return known(v), ok
}

func (c *cursor) verticalVisibility() (VerticalVisibility, bool) {
	if !c.lit("VV") {
		return Reading{}, false
	}
	return c.hundreds()
}

func (c *cursor) cloudType() CloudType {
	if t, ok := c.oneOf("TCU", "CB"); ok {
		return CloudType(t)
	}
	if c.slashes(3) {
		return CloudTypeUnknown
	}
	return CloudTypeNone
}

func (c *cursor) cloudLayer() (CloudLayer, bool) {
	var l CloudLayer
	if d, ok := c.oneOf("FEW", "SCT", "BKN", "OVC"); ok {
		l.Density = CloudDensity(d)
	} else if c.slashes(3) {
		l.Density = CloudDensityUnknown
	} else {
		return l, false
	}
	var ok bool
	if l.Floor, ok = c.hundreds(); !ok {
		return CloudLayer{}, false
	}
	l.Type = c.cloudType()
	return l, true
}
