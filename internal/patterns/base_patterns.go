package patterns

// BasePatterns are the reusable regex fragments referenced as {NAME} from
// format patterns.
var BasePatterns = map[string]string{
	// Report header.
	"REPORT_TYPE": `METAR|SPECI`,
	"ICAO":        `[A-Z]{4}`,
	"OBS_TIME":    `(?:[0-2]\d|3[01])(?:[01]\d|2[0-3])[0-5]\dZ`, // DDHHMMZ

	// Body groups, loose enough to spot a report without decoding it.
	"WIND":     `(?:\d{3}|VRB|///)(?:P?\d{2,3}|//)(?:G\d{2})?(?:KT|MPS|KPH)`,
	"PRESSURE": `[QA](?:\d{4}|////)`,
}
