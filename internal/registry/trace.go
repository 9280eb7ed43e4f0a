package registry

import "metar_parser/internal/acars"

// TraceResult explains what a parser did with a message.
type TraceResult struct {
	ParserName string
	QuickCheck *QuickCheck
	Formats    []FormatTrace
	Extractors []Extractor
	Matched    bool
}

type QuickCheck struct {
	Passed bool
	Reason string
}

// FormatTrace is one locator pattern and how many times it matched.
type FormatTrace struct {
	Name    string
	Pattern string
	Matches int
}

// Extractor is one candidate the parser tried to decode.
type Extractor struct {
	Name    string
	Input   string
	Matched bool
	Value   string // decoded summary, or the error when not matched
}

// Traceable parsers can explain a parse for the extract -trace command.
type Traceable interface {
	ParseWithTrace(msg *acars.Message) *TraceResult
}
