package metar

import (
	"fmt"
	"strings"
)

// String renders the report back to its canonical text form. Decoding the
// result yields a Report equal to r apart from Raw.
func (r *Report) String() string {
	var parts []string
	add := func(s ...string) { parts = append(parts, s...) }

	if r.Type != "" {
		add(r.Type)
	}
	add(r.Station, fmt.Sprintf("%02d%02d%02dZ", r.Time.Day, r.Time.Hour, r.Time.Minute))
	if r.Corrected {
		add("COR")
	}
	if r.Auto {
		add("AUTO")
	}
	if r.Wind != nil {
		add(r.Wind.String())
	}
	if r.WindVariation != nil {
		add(r.WindVariation.String())
	}
	if r.Conditions != nil {
		add(r.Conditions.String())
	}
	if r.Temperature != nil {
		add(r.Temperature.String())
	}
	if r.Pressure != nil {
		add(r.Pressure.String())
	}
	for _, re := range r.RecentWeather {
		add(re.String())
	}
	if r.ColourCode != nil {
		add(string(*r.ColourCode))
	}
	add(renderWindshear(r.Windshear)...)
	for _, rs := range r.RunwayStates {
		add(rs.String())
	}
	if r.SeaState != nil {
		add(r.SeaState.String())
	}
	for _, t := range r.Trends {
		add(t.String())
	}
	for _, cd := range r.CloudDirections {
		add(cd.String())
	}
	if r.Remarks != nil {
		add("RMK")
		if *r.Remarks != "" {
			add(*r.Remarks)
		}
	}
	return strings.Join(parts, " ")
}

func renderHeading(deg int) string { return fmt.Sprintf("%03d", deg) }

func (w WindDirection) String() string {
	switch w.Kind {
	case DirectionUnknown:
		return "///"
	case DirectionVariable:
		return "VRB"
	}
	return renderHeading(w.Degrees)
}

func (s WindSpeed) String() string {
	if s.Unknown {
		return "//"
	}
	p := ""
	if s.AtLeast {
		p = "P"
	}
	return fmt.Sprintf("%s%02d", p, s.Value)
}

func (w *Wind) String() string {
	var b strings.Builder
	b.WriteString(w.Direction.String())
	b.WriteString(w.Speed.String())
	if w.Gust != nil {
		fmt.Fprintf(&b, "G%02d", *w.Gust)
	}
	b.WriteString(string(w.Unit))
	return b.String()
}

func (v *WindVariation) String() string {
	return renderHeading(v.From) + "V" + renderHeading(v.To)
}

func (v Visibility) String() string {
	switch v.Kind {
	case VisibilityMetres:
		return fmt.Sprintf("%04d", v.Metres)
	case VisibilityStatuteMiles:
		return fmt.Sprintf("%dSM", v.Whole)
	case VisibilityFraction:
		return fmt.Sprintf("%d/%dSM", v.Numerator, v.Denominator)
	case VisibilityMixed:
		return fmt.Sprintf("%d %d/%dSM", v.Whole, v.Numerator, v.Denominator)
	}
	return "////"
}

func (r Runway) String() string {
	if r.All {
		return "88"
	}
	return fmt.Sprintf("%02d%s", r.Number, r.Side)
}

func (d RVRDistance) String() string {
	p := ""
	switch d.Modifier {
	case RVRAtLeast:
		p = "P"
	case RVRAtMost:
		p = "M"
	}
	return fmt.Sprintf("%s%04d", p, d.Value)
}

func (r RunwayVisualRange) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "R%s/%s", r.Runway, r.Value)
	if r.Max != nil {
		fmt.Fprintf(&b, "V%s", r.Max)
	}
	if r.Feet {
		b.WriteString("FT")
	}
	switch r.Trend {
	case RVRIncreasing:
		b.WriteString("U")
	case RVRDecreasing:
		b.WriteString("D")
	case RVRNoChange:
		b.WriteString("N")
	}
	return b.String()
}

func renderPhenomena(ps []Phenomenon) string {
	var b strings.Builder
	for _, p := range ps {
		b.WriteString(string(p))
	}
	return b.String()
}

func (w Weather) String() string {
	if w.Unknown {
		return "//"
	}
	p := ""
	switch w.Intensity {
	case IntensityLight:
		p = "-"
	case IntensityHeavy:
		p = "+"
	case IntensityVicinity:
		p = "VC"
	}
	return p + renderPhenomena(w.Phenomena)
}

func (r Reading) render(width int) string {
	if r.Unknown {
		return strings.Repeat("/", width)
	}
	return fmt.Sprintf("%0*d", width, r.Value)
}

func (l CloudLayer) String() string {
	return string(l.Density) + l.Floor.render(3) + string(l.Type)
}

func (c *Conditions) String() string {
	switch c.Kind {
	case ConditionsCAVOK:
		return "CAVOK"
	case ConditionsSkyClear:
		return "SKC"
	}
	var parts []string
	if c.Visibility != nil {
		parts = append(parts, c.Visibility.String())
	}
	for _, d := range c.DirectionalVisibility {
		parts = append(parts, d.Visibility.String()+string(d.Sector))
	}
	for _, r := range c.RVR {
		parts = append(parts, r.String())
	}
	for _, w := range c.Weather {
		parts = append(parts, w.String())
	}
	if c.VerticalVisibility != nil {
		parts = append(parts, "VV"+c.VerticalVisibility.render(3))
	}
	if c.Sky != SkyLayers {
		parts = append(parts, string(c.Sky))
	}
	for _, l := range c.Clouds {
		parts = append(parts, l.String())
	}
	return strings.Join(parts, " ")
}

func (t Temperature) String() string {
	switch {
	case t.Unknown:
		return "//"
	case t.BelowZero:
		return fmt.Sprintf("M%02d", -t.Celsius)
	}
	return fmt.Sprintf("%02d", t.Celsius)
}

func (t *TemperatureDewpoint) String() string {
	return t.Temperature.String() + "/" + t.Dewpoint.String()
}

func (p *Pressure) String() string {
	return string(p.Kind) + p.Value.render(4)
}

func (r RecentWeather) String() string {
	return "RE" + renderPhenomena(r.Phenomena)
}

// renderWindshear groups consecutive runway entries under one WS keyword.
func renderWindshear(entries []WindshearEntry) []string {
	var out []string
	open := false
	for _, e := range entries {
		if e.AllRunways || e.Runway == nil {
			out = append(out, "WS ALL RWY")
			open = false
			continue
		}
		var s string
		switch e.Phase {
		case WindshearTakeoff:
			s = "TKOF RWY" + e.Runway.String()
		case WindshearLanding:
			s = "LDG RWY" + e.Runway.String()
		default:
			s = "R" + e.Runway.String()
		}
		if !open {
			s = "WS " + s
			open = true
		}
		out = append(out, s)
	}
	return out
}

func (rs RunwayState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "R%s/", rs.Runway)
	if rs.Cleared {
		b.WriteString("CLRD")
	} else {
		b.WriteString(rs.Deposit.render(1))
		b.WriteString(rs.Extent.render(1))
		b.WriteString(rs.Depth.render(2))
	}
	b.WriteString(rs.Braking.render(2))
	return b.String()
}

func (s *SeaState) String() string {
	width := 1
	if s.Kind == "H" {
		width = 3
	}
	return "W" + s.Temperature.String() + "/" + s.Kind + s.Value.render(width)
}

func (t Trend) String() string {
	parts := []string{string(t.Kind)}
	for _, ct := range t.Times {
		parts = append(parts, fmt.Sprintf("%s%02d%02d", ct.Indicator, ct.Hour, ct.Minute))
	}
	if t.NoSignificantWeather {
		parts = append(parts, "NSW")
	}
	if t.Wind != nil {
		parts = append(parts, t.Wind.String())
	}
	if t.WindVariation != nil {
		parts = append(parts, t.WindVariation.String())
	}
	if t.Conditions != nil {
		parts = append(parts, t.Conditions.String())
	}
	return strings.Join(parts, " ")
}

func (d CloudDirection) String() string {
	var b strings.Builder
	b.WriteString(string(d.Type))
	for _, s := range d.Sectors {
		b.WriteString("/" + string(s))
	}
	return b.String()
}
