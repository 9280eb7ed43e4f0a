// Package weather finds METAR and SPECI reports in ACARS message text and
// decodes them.
package weather

import (
	"errors"
	"strings"

	"metar_parser/internal/acars"
	"metar_parser/internal/metar"
	"metar_parser/internal/patterns"
	"metar_parser/internal/registry"
)

// Failure is a candidate report that did not decode.
type Failure struct {
	Raw     string          `json:"raw"`
	Error   string          `json:"error"`
	Kind    metar.ErrorKind `json:"kind,omitempty"`
	Offset  int             `json:"offset"`
	Element string          `json:"element,omitempty"`
}

// NewFailure describes a decode error for a candidate.
func NewFailure(raw string, err error) Failure {
	f := Failure{Raw: raw, Error: err.Error()}
	var pe *metar.ParseError
	if errors.As(err, &pe) {
		f.Kind = pe.Kind
		f.Offset = pe.Offset
		f.Element = pe.Element
	}
	return f
}

// Result holds the reports found in one message.
type Result struct {
	MsgID     int64           `json:"message_id"`
	Timestamp string          `json:"timestamp"`
	Tail      string          `json:"tail,omitempty"`
	Label     string          `json:"label,omitempty"`
	Reports   []*metar.Report `json:"reports,omitempty"`
	Failures  []Failure       `json:"failures,omitempty"`
}

func (r *Result) Type() string     { return "weather" }
func (r *Result) MessageID() int64 { return r.MsgID }

// Parser extracts weather reports from uplinked ACARS text.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string { return "weather" }
func (p *Parser) Labels() []string {
	return []string{"RA", "C1", "21", "H1", "3W", "27", "31", "34", "3T", "23"}
}
func (p *Parser) Priority() int { return 50 }

// QuickCheck looks for a report keyword, or for a time group next to a wind
// unit.
func (p *Parser) QuickCheck(text string) bool {
	if strings.Contains(text, "METAR") || strings.Contains(text, "SPECI") {
		return true
	}
	return strings.Contains(text, "Z ") &&
		(strings.Contains(text, "KT") || strings.Contains(text, "MPS"))
}

var locator = patterns.NewCompiler([]patterns.Format{
	{
		Name:    "report_header",
		Pattern: `(?:^|[\s=])(?:(?P<type>{REPORT_TYPE}) )?(?:(?P<cor>COR) )?(?P<station>{ICAO}) (?P<time>{OBS_TIME})(?:[ =]|$)`,
	},
	{
		Name:    "wind",
		Pattern: `\b{WIND}\b`,
	},
	{
		Name:    "pressure",
		Pattern: `(?:^|\s){PRESSURE}(?:[\s=]|$)`,
	},
}, nil).MustCompile()

// Normalise collapses every run of whitespace, including line breaks, to a
// single space.
func Normalise(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Extract returns the candidate reports in text, each normalised to a
// single line starting at its header. A candidate runs to the next "=" or
// the next header, whichever comes first.
func Extract(text string) []string {
	flat := Normalise(strings.ToUpper(text))
	headers := locator.FindAll(flat, "report_header")

	out := make([]string, 0, len(headers))
	for i, h := range headers {
		start := h.Start
		if start < len(flat) && (flat[start] == ' ' || flat[start] == '=') {
			start++
		}
		end := len(flat)
		if i+1 < len(headers) {
			end = headers[i+1].Start
		}
		body := flat[start:end]
		if j := strings.IndexByte(body, '='); j >= 0 {
			body = body[:j]
		}
		body = strings.TrimSpace(body)

		// Decoders expect COR after the time group.
		if h.Get("cor") != "" {
			body = strings.Replace(body, "COR ", "", 1)
			head := h.Get("station") + " " + h.Get("time")
			body = strings.Replace(body, head, head+" COR", 1)
		}
		out = append(out, body)
	}
	return out
}

func (p *Parser) Parse(msg *acars.Message) registry.Result {
	candidates := Extract(msg.Text)
	if len(candidates) == 0 {
		return nil
	}

	result := &Result{
		MsgID:     int64(msg.ID),
		Timestamp: msg.Timestamp,
		Tail:      msg.Tail,
		Label:     msg.Label,
	}
	for _, c := range candidates {
		r, err := metar.Decode(c)
		if err != nil {
			result.Failures = append(result.Failures, NewFailure(c, err))
			continue
		}
		result.Reports = append(result.Reports, r)
	}
	return result
}

// ParseWithTrace implements registry.Traceable.
func (p *Parser) ParseWithTrace(msg *acars.Message) *registry.TraceResult {
	trace := &registry.TraceResult{ParserName: p.Name()}

	passed := p.QuickCheck(msg.Text)
	trace.QuickCheck = &registry.QuickCheck{Passed: passed}
	if !passed {
		trace.QuickCheck.Reason = "no METAR/SPECI keyword and no time group with a wind unit"
		return trace
	}

	for _, ft := range locator.Trace(Normalise(strings.ToUpper(msg.Text))) {
		trace.Formats = append(trace.Formats, registry.FormatTrace{
			Name:    ft.Name,
			Pattern: ft.Pattern,
			Matches: ft.Matches,
		})
	}

	for _, c := range Extract(msg.Text) {
		ex := registry.Extractor{Name: "metar", Input: c}
		if r, err := metar.Decode(c); err != nil {
			ex.Value = err.Error()
		} else {
			ex.Matched = true
			ex.Value = r.String()
			trace.Matched = true
		}
		trace.Extractors = append(trace.Extractors, ex)
	}
	return trace
}
