// Package metar decodes single-line METAR/SPECI surface weather reports
// into a typed Report.
//
// Fields that were sent with their missing-data spelling (runs of slashes)
// decode to an explicit unknown value. A field that never appeared is nil
// or empty.
package metar

// Reading is a numeric value that may have been reported as unknown.
type Reading struct {
	Value   int  `json:"value"`
	Unknown bool `json:"unknown,omitempty"`
}

func known(v int) Reading { return Reading{Value: v} }

var unknownReading = Reading{Unknown: true}

// Report is a decoded METAR.
type Report struct {
	Type            string               `json:"type,omitempty"` // METAR or SPECI when the keyword was sent.
	Station         string               `json:"station"`
	Time            ObservationTime      `json:"time"`
	Corrected       bool                 `json:"corrected,omitempty"`
	Auto            bool                 `json:"auto,omitempty"`
	Wind            *Wind                `json:"wind,omitempty"`
	WindVariation   *WindVariation       `json:"wind_variation,omitempty"`
	Conditions      *Conditions          `json:"conditions,omitempty"`
	Temperature     *TemperatureDewpoint `json:"temperature,omitempty"`
	Pressure        *Pressure            `json:"pressure,omitempty"`
	RecentWeather   []RecentWeather      `json:"recent_weather,omitempty"`
	ColourCode      *ColourCode          `json:"colour_code,omitempty"`
	Windshear       []WindshearEntry     `json:"windshear,omitempty"`
	RunwayStates    []RunwayState        `json:"runway_states,omitempty"`
	SeaState        *SeaState            `json:"sea_state,omitempty"`
	Trends          []Trend              `json:"trends,omitempty"`
	CloudDirections []CloudDirection     `json:"cloud_directions,omitempty"`
	Remarks         *string              `json:"remarks,omitempty"`
	Raw             string               `json:"raw"`
}

// ObservationTime is the DDHHMMZ group.
type ObservationTime struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// DirectionKind tags a wind direction.
type DirectionKind string

const (
	DirectionDegrees  DirectionKind = "degrees"
	DirectionVariable DirectionKind = "variable"
	DirectionUnknown  DirectionKind = "unknown"
)

// WindDirection is a heading in degrees, VRB or ///.
type WindDirection struct {
	Kind    DirectionKind `json:"kind"`
	Degrees int           `json:"degrees,omitempty"`
}

// WindSpeed is the mean speed. AtLeast is set by the P prefix.
type WindSpeed struct {
	Value   int  `json:"value"`
	AtLeast bool `json:"at_least,omitempty"`
	Unknown bool `json:"unknown,omitempty"`
}

// SpeedUnit is the literal unit suffix of the wind group.
type SpeedUnit string

const (
	Knots             SpeedUnit = "KT"
	MetresPerSecond   SpeedUnit = "MPS"
	KilometresPerHour SpeedUnit = "KPH"
)

// Wind is the surface wind group, e.g. 18012G25KT.
type Wind struct {
	Direction WindDirection `json:"direction"`
	Speed     WindSpeed     `json:"speed"`
	Gust      *int          `json:"gust,omitempty"`
	Unit      SpeedUnit     `json:"unit"`
}

// WindVariation is the dddVddd group following the wind.
type WindVariation struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// VisibilityKind is chosen by the lexical shape of the visibility token.
type VisibilityKind string

const (
	VisibilityUnknown      VisibilityKind = "unknown"
	VisibilityMetres       VisibilityKind = "metres"
	VisibilityStatuteMiles VisibilityKind = "statute_miles"
	VisibilityFraction     VisibilityKind = "statute_mile_fraction"
	VisibilityMixed        VisibilityKind = "statute_mile_mixed"
)

// Visibility is a horizontal visibility value. Whole is used by the
// statute-mile and mixed shapes, Numerator/Denominator by the fraction and
// mixed shapes.
type Visibility struct {
	Kind        VisibilityKind `json:"kind"`
	Metres      int            `json:"metres,omitempty"`
	Whole       int            `json:"whole,omitempty"`
	Numerator   int            `json:"numerator,omitempty"`
	Denominator int            `json:"denominator,omitempty"`
}

// Compass is one of the eight principal and intercardinal sectors.
type Compass string

const (
	North     Compass = "N"
	NorthEast Compass = "NE"
	East      Compass = "E"
	SouthEast Compass = "SE"
	South     Compass = "S"
	SouthWest Compass = "SW"
	West      Compass = "W"
	NorthWest Compass = "NW"
)

// DirectionalVisibility is a visibility reported for one sector, e.g. 2000SW.
type DirectionalVisibility struct {
	Visibility Visibility `json:"visibility"`
	Sector     Compass    `json:"sector"`
}

// RunwaySide is the parallel-runway suffix.
type RunwaySide string

const (
	SideNone   RunwaySide = ""
	SideLeft   RunwaySide = "L"
	SideCentre RunwaySide = "C"
	SideRight  RunwaySide = "R"
)

// Runway identifies a runway. All is the runway-state 88 sentinel.
type Runway struct {
	Number int        `json:"number,omitempty"`
	Side   RunwaySide `json:"side,omitempty"`
	All    bool       `json:"all,omitempty"`
}

// RVRModifier is the P/M prefix of an RVR distance.
type RVRModifier string

const (
	RVRExact   RVRModifier = ""
	RVRAtLeast RVRModifier = "at_least"
	RVRAtMost  RVRModifier = "at_most"
)

// RVRDistance is a four digit RVR value.
type RVRDistance struct {
	Value    int         `json:"value"`
	Modifier RVRModifier `json:"modifier,omitempty"`
}

// RVRTrend is the trailing U/D/N tendency letter.
type RVRTrend string

const (
	RVRNoTrend    RVRTrend = ""
	RVRIncreasing RVRTrend = "increasing"
	RVRDecreasing RVRTrend = "decreasing"
	RVRNoChange   RVRTrend = "no_change"
)

// RunwayVisualRange is an R../.... group. Max is set for a min/max range.
type RunwayVisualRange struct {
	Runway Runway       `json:"runway"`
	Value  RVRDistance  `json:"value"`
	Max    *RVRDistance `json:"max,omitempty"`
	Feet   bool         `json:"feet,omitempty"`
	Trend  RVRTrend     `json:"trend,omitempty"`
}

// Intensity qualifies a weather group.
type Intensity string

const (
	IntensityModerate Intensity = ""
	IntensityLight    Intensity = "light"
	IntensityHeavy    Intensity = "heavy"
	IntensityVicinity Intensity = "vicinity"
)

// Weather is a present-weather group such as -TSRA, or // when unknown.
type Weather struct {
	Intensity Intensity    `json:"intensity,omitempty"`
	Phenomena []Phenomenon `json:"phenomena,omitempty"`
	Unknown   bool         `json:"unknown,omitempty"`
}

// VerticalVisibility is VVhhh in hundreds of feet, or VV///.
type VerticalVisibility = Reading

// CloudDensity is the coverage of a cloud layer.
type CloudDensity string

const (
	CloudFew            CloudDensity = "FEW"
	CloudScattered      CloudDensity = "SCT"
	CloudBroken         CloudDensity = "BKN"
	CloudOvercast       CloudDensity = "OVC"
	CloudDensityUnknown CloudDensity = "///"
)

// CloudType is the convective cloud suffix.
type CloudType string

const (
	CloudTypeNone        CloudType = ""
	CloudCumulonimbus    CloudType = "CB"
	CloudToweringCumulus CloudType = "TCU"
	CloudTypeUnknown     CloudType = "///"
)

// CloudLayer is one FEW030CB style group. Floor is in hundreds of feet.
type CloudLayer struct {
	Density CloudDensity `json:"density"`
	Floor   Reading      `json:"floor"`
	Type    CloudType    `json:"type,omitempty"`
}

// Sky is the literal that closes the cloud part of a condition block.
type Sky string

const (
	SkyLayers             Sky = ""
	SkyNoCloudDetected    Sky = "NCD"
	SkyNoSignificantCloud Sky = "NSC"
	SkyClear              Sky = "CLR"
	SkySkyClear           Sky = "SKC"
)

// ConditionsKind tags the three alternatives of the condition block.
type ConditionsKind string

const (
	ConditionsCAVOK     ConditionsKind = "CAVOK"
	ConditionsSkyClear  ConditionsKind = "SKC"
	ConditionsComposite ConditionsKind = "composite"
)

// Conditions is the atmospheric condition block: visibility, RVR, weather
// and cloud. Only the composite kind populates the nested fields.
type Conditions struct {
	Kind                  ConditionsKind          `json:"kind"`
	Visibility            *Visibility             `json:"visibility,omitempty"`
	DirectionalVisibility []DirectionalVisibility `json:"directional_visibility,omitempty"`
	RVR                   []RunwayVisualRange     `json:"rvr,omitempty"`
	Weather               []Weather               `json:"weather,omitempty"`
	VerticalVisibility    *VerticalVisibility     `json:"vertical_visibility,omitempty"`
	Sky                   Sky                     `json:"sky,omitempty"`
	Clouds                []CloudLayer            `json:"clouds,omitempty"`
}

func (c *Conditions) empty() bool {
	return c.Kind == ConditionsComposite && c.Visibility == nil &&
		len(c.DirectionalVisibility) == 0 && len(c.RVR) == 0 && len(c.Weather) == 0 &&
		c.VerticalVisibility == nil && c.Sky == SkyLayers && len(c.Clouds) == 0
}

// Temperature is a signed whole-degree value. BelowZero records the M
// prefix so that M00 survives a round trip.
type Temperature struct {
	Celsius   int  `json:"celsius"`
	BelowZero bool `json:"below_zero,omitempty"`
	Unknown   bool `json:"unknown,omitempty"`
}

// TemperatureDewpoint is the TT/DD group.
type TemperatureDewpoint struct {
	Temperature Temperature `json:"temperature"`
	Dewpoint    Temperature `json:"dewpoint"`
}

// PressureKind is selected by the Q or A prefix.
type PressureKind string

const (
	PressureHectopascals PressureKind = "Q"
	PressureInches       PressureKind = "A"
)

// Pressure holds the four reported digits as sent: hPa for Q, hundredths
// of inHg for A.
type Pressure struct {
	Kind  PressureKind `json:"kind"`
	Value Reading      `json:"value"`
}

// RecentWeather is an RE group.
type RecentWeather struct {
	Phenomena []Phenomenon `json:"phenomena"`
}

// ColourCode is the military aerodrome colour state.
type ColourCode string

const (
	ColourBluePlus ColourCode = "BLU+"
	ColourBlue     ColourCode = "BLU"
	ColourWhite    ColourCode = "WHT"
	ColourGreen    ColourCode = "GRN"
	ColourYellow   ColourCode = "YLO"
	ColourAmber    ColourCode = "AMB"
	ColourRed      ColourCode = "RED"
	ColourUnknown  ColourCode = "///"
)

// WindshearPhase distinguishes the TKOF/LDG entry forms.
type WindshearPhase string

const (
	WindshearAnyPhase WindshearPhase = ""
	WindshearTakeoff  WindshearPhase = "takeoff"
	WindshearLanding  WindshearPhase = "landing"
)

// WindshearEntry is WS ALL RWY or a single runway from a WS group.
type WindshearEntry struct {
	AllRunways bool           `json:"all_runways,omitempty"`
	Phase      WindshearPhase `json:"phase,omitempty"`
	Runway     *Runway        `json:"runway,omitempty"`
}

// RunwayState is an Rdd/ERCeeBB group. When Cleared is set the deposit,
// extent and depth fields are zero.
type RunwayState struct {
	Runway  Runway  `json:"runway"`
	Cleared bool    `json:"cleared,omitempty"`
	Deposit Reading `json:"deposit"`
	Extent  Reading `json:"extent"`
	Depth   Reading `json:"depth"`
	Braking Reading `json:"braking"`
}

// SeaState is the W group: sea surface temperature plus either a state of
// sea code (S) or a significant wave height in decimetres (H).
type SeaState struct {
	Temperature Temperature `json:"temperature"`
	Kind        string      `json:"kind"` // "S" or "H"
	Value       Reading     `json:"value"`
}

// TrendKind is the trend keyword.
type TrendKind string

const (
	TrendNoSignificantChange TrendKind = "NOSIG"
	TrendBecoming            TrendKind = "BECMG"
	TrendTemporary           TrendKind = "TEMPO"
)

// ChangeIndicator is the FM/TL/AT prefix of a trend time.
type ChangeIndicator string

const (
	ChangeFrom  ChangeIndicator = "FM"
	ChangeUntil ChangeIndicator = "TL"
	ChangeAt    ChangeIndicator = "AT"
)

// ChangeTime is one change-time qualifier of a trend.
type ChangeTime struct {
	Indicator ChangeIndicator `json:"indicator"`
	Hour      int             `json:"hour"`
	Minute    int             `json:"minute"`
}

// Trend is one forecast group. NOSIG carries nothing else.
type Trend struct {
	Kind                 TrendKind      `json:"kind"`
	Times                []ChangeTime   `json:"times,omitempty"`
	NoSignificantWeather bool           `json:"no_significant_weather,omitempty"`
	Wind                 *Wind          `json:"wind,omitempty"`
	WindVariation        *WindVariation `json:"wind_variation,omitempty"`
	Conditions           *Conditions    `json:"conditions,omitempty"`
}

// CloudDirection reports a convective cloud type in one or more sectors,
// e.g. CB/NE/E.
type CloudDirection struct {
	Type    CloudType `json:"type"`
	Sectors []Compass `json:"sectors"`
}
