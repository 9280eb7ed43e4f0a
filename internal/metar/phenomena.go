package metar

// Phenomenon is a two-letter present or recent weather code.
type Phenomenon string

var phenomenonNames = map[Phenomenon]string{
	// Descriptors.
	"MI": "shallow", "PR": "partial", "BC": "patches", "DR": "low drifting",
	"BL": "blowing", "SH": "showers", "TS": "thunderstorm", "FZ": "freezing",
	// Precipitation.
	"RA": "rain", "DZ": "drizzle", "SN": "snow", "SG": "snow grains",
	"IC": "ice crystals", "PL": "ice pellets", "GR": "hail",
	"GS": "small hail or snow pellets", "UP": "unknown precipitation",
	// Obscuration.
	"FG": "fog", "VA": "volcanic ash", "BR": "mist", "HZ": "haze",
	"DU": "widespread dust", "FU": "smoke", "SA": "sand", "PY": "spray",
	// Other.
	"SQ": "squall", "PO": "dust or sand whirls", "DS": "duststorm",
	"SS": "sandstorm", "FC": "funnel cloud",
}

// Description returns the plain-language name of the code, or "" for an
// unrecognised code.
func (p Phenomenon) Description() string {
	return phenomenonNames[p]
}

func isPhenomenon(s string) bool {
	_, ok := phenomenonNames[Phenomenon(s)]
	return ok
}
