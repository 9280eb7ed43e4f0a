// Package registry dispatches ACARS messages to the parsers that can pull
// weather reports out of them.
package registry

import (
	"sort"
	"sync"

	"metar_parser/internal/acars"
)

// Result is the common interface for parse results.
type Result interface {
	Type() string
	MessageID() int64
}

// Parser is implemented by each message parser.
type Parser interface {
	Name() string

	// Labels lists the ACARS labels the parser handles. An empty slice
	// means the parser looks at every message.
	Labels() []string

	// QuickCheck is a cheap substring test run before Parse. False means
	// the message can be skipped.
	QuickCheck(text string) bool

	// Priority orders parsers sharing a label; lower runs first.
	Priority() int

	// Parse returns nil when the message holds nothing for this parser.
	Parse(msg *acars.Message) Result
}

// Registry holds parsers indexed by label.
type Registry struct {
	mu      sync.RWMutex
	byLabel map[string][]Parser
	global  []Parser
	sorted  bool
}

func New() *Registry {
	return &Registry{byLabel: make(map[string][]Parser)}
}

var defaultRegistry = New()

// Default returns the registry parser packages add themselves to.
func Default() *Registry { return defaultRegistry }

// Register adds p to the default registry. Parser packages call it from
// init.
func Register(p Parser) { defaultRegistry.Register(p) }

func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	labels := p.Labels()
	if len(labels) == 0 {
		r.global = append(r.global, p)
	}
	for _, label := range labels {
		r.byLabel[label] = append(r.byLabel[label], p)
	}
	r.sorted = false
}

// Sort orders every parser list by priority.
func (r *Registry) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sorted {
		return
	}

	byPriority := func(ps []Parser) {
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Priority() < ps[j].Priority() })
	}
	for _, ps := range r.byLabel {
		byPriority(ps)
	}
	byPriority(r.global)
	r.sorted = true
}

// Dispatch runs every parser registered for the message label, then the
// label-independent ones, and collects their results.
func (r *Registry) Dispatch(msg *acars.Message) []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []Result
	run := func(ps []Parser) {
		for _, p := range ps {
			if !p.QuickCheck(msg.Text) {
				continue
			}
			if res := p.Parse(msg); res != nil {
				results = append(results, res)
			}
		}
	}
	run(r.byLabel[msg.Label])
	run(r.global)
	return results
}

// Parsers returns each registered parser once, sorted by name.
func (r *Registry) Parsers() []Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]Parser)
	for _, p := range r.global {
		seen[p.Name()] = p
	}
	for _, ps := range r.byLabel {
		for _, p := range ps {
			seen[p.Name()] = p
		}
	}

	out := make([]Parser, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
