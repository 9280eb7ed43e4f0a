// Package patterns compiles grok-style regex formats used to locate weather
// reports inside free text.
package patterns

import (
	"fmt"
	"regexp"
	"strings"
)

// Format is a named regex written with {PLACEHOLDER} references to base
// patterns.
type Format struct {
	Name     string
	Pattern  string
	Compiled *regexp.Regexp
}

// Compiler expands and compiles a set of formats.
type Compiler struct {
	basePatterns map[string]string
	formats      []Format
}

// NewCompiler copies formats and merges localPatterns over BasePatterns.
func NewCompiler(formats []Format, localPatterns map[string]string) *Compiler {
	c := &Compiler{
		basePatterns: make(map[string]string, len(BasePatterns)+len(localPatterns)),
		formats:      make([]Format, len(formats)),
	}
	for k, v := range BasePatterns {
		c.basePatterns[k] = v
	}
	for k, v := range localPatterns {
		c.basePatterns[k] = v
	}
	copy(c.formats, formats)
	return c
}

// Compile expands placeholders and compiles every format.
func (c *Compiler) Compile() error {
	for i := range c.formats {
		re, err := regexp.Compile(c.expand(c.formats[i].Pattern))
		if err != nil {
			return fmt.Errorf("compile format %s: %w", c.formats[i].Name, err)
		}
		c.formats[i].Compiled = re
	}
	return nil
}

// MustCompile is Compile for package-level compilers.
func (c *Compiler) MustCompile() *Compiler {
	if err := c.Compile(); err != nil {
		panic(err)
	}
	return c
}

func (c *Compiler) expand(pattern string) string {
	result := pattern
	for name, regex := range c.basePatterns {
		result = strings.ReplaceAll(result, "{"+name+"}", regex)
	}
	return result
}

// Match is one occurrence of a format in the text. Start and End are byte
// offsets of the whole match.
type Match struct {
	FormatName string
	Start, End int
	Captures   map[string]string
}

// Get returns a capture or "" when the group did not participate.
func (m *Match) Get(name string) string {
	if m == nil {
		return ""
	}
	return m.Captures[name]
}

func (c *Compiler) format(name string) *Format {
	for i := range c.formats {
		if c.formats[i].Name == name {
			return &c.formats[i]
		}
	}
	return nil
}

// FindAll returns every non-overlapping match of the named format, in text
// order.
func (c *Compiler) FindAll(text, formatName string) []*Match {
	f := c.format(formatName)
	if f == nil || f.Compiled == nil {
		return nil
	}

	var out []*Match
	names := f.Compiled.SubexpNames()
	for _, idx := range f.Compiled.FindAllStringSubmatchIndex(text, -1) {
		m := &Match{
			FormatName: f.Name,
			Start:      idx[0],
			End:        idx[1],
			Captures:   make(map[string]string),
		}
		for i, name := range names {
			if i == 0 || name == "" || idx[2*i] < 0 {
				continue
			}
			m.Captures[name] = text[idx[2*i]:idx[2*i+1]]
		}
		out = append(out, m)
	}
	return out
}

// FormatTrace records one format match attempt for debugging.
type FormatTrace struct {
	Name    string
	Pattern string // expanded regex
	Matches int
}

// Trace runs every format over text and reports how often each matched.
func (c *Compiler) Trace(text string) []FormatTrace {
	traces := make([]FormatTrace, 0, len(c.formats))
	for _, f := range c.formats {
		ft := FormatTrace{Name: f.Name, Pattern: c.expand(f.Pattern)}
		if f.Compiled != nil {
			ft.Matches = len(f.Compiled.FindAllStringIndex(text, -1))
		}
		traces = append(traces, ft)
	}
	return traces
}
