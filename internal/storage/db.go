// Package storage persists decoded weather reports.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"metar_parser/internal/metar"
)

var (
	// ErrNotFound is returned when a station has no stored report.
	ErrNotFound = errors.New("storage: report not found")
	// ErrUnavailable is returned by Multi when none of its stores can
	// serve a read.
	ErrUnavailable = errors.New("storage: no store supports this read")
)

// Record is one candidate report as received, decoded or not.
type Record struct {
	Station    string        `json:"station"`
	Day        int           `json:"day"`
	Hour       int           `json:"hour"`
	Minute     int           `json:"minute"`
	ReceivedAt time.Time     `json:"received_at"`
	Source     string        `json:"source"`
	Raw        string        `json:"raw"`
	Report     *metar.Report `json:"report,omitempty"`
	Error      string        `json:"error,omitempty"`
	ErrorKind  string        `json:"error_kind,omitempty"`
}

// NewRecord builds a record from the outcome of metar.Decode.
func NewRecord(source, raw string, report *metar.Report, err error, receivedAt time.Time) Record {
	r := Record{ReceivedAt: receivedAt.UTC(), Source: source, Raw: raw, Report: report}
	if report != nil {
		r.Station = report.Station
		r.Day = report.Time.Day
		r.Hour = report.Time.Hour
		r.Minute = report.Time.Minute
	}
	if err != nil {
		r.Error = err.Error()
		var pe *metar.ParseError
		if errors.As(err, &pe) {
			r.ErrorKind = string(pe.Kind)
		}
	}
	return r
}

// Decoded reports whether the record holds a report.
func (r Record) Decoded() bool { return r.Report != nil }

func (r Record) reportJSON() (string, error) {
	if r.Report == nil {
		return "", nil
	}
	b, err := json.Marshal(r.Report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(b), nil
}

func decodeReportJSON(s string) (*metar.Report, error) {
	if s == "" {
		return nil, nil
	}
	var rep metar.Report
	if err := json.Unmarshal([]byte(s), &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rep, nil
}

// Store accepts records.
type Store interface {
	SaveReport(ctx context.Context, rec Record) error
	Close() error
}

// LatestReader returns the most recent decoded report for a station.
type LatestReader interface {
	LatestReport(ctx context.Context, station string) (*Record, error)
}

// Searcher filters and summarises the archive.
type Searcher interface {
	Query(ctx context.Context, p QueryParams) ([]Record, error)
	Stats(ctx context.Context) (*Stats, error)
}

// StationCounter aggregates per-station volumes over a window.
type StationCounter interface {
	CountByStation(ctx context.Context, since time.Time) ([]StationCount, error)
}

// Multi writes every record to each store in turn. Reads go to the first
// store that supports them.
type Multi []Store

// SaveReport saves to all stores and joins their errors.
func (m Multi) SaveReport(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.SaveReport(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

// LatestReport asks the first store that can answer.
func (m Multi) LatestReport(ctx context.Context, station string) (*Record, error) {
	for _, s := range m {
		if lr, ok := s.(LatestReader); ok {
			return lr.LatestReport(ctx, station)
		}
	}
	return nil, ErrUnavailable
}

func (m Multi) Query(ctx context.Context, p QueryParams) ([]Record, error) {
	for _, s := range m {
		if sr, ok := s.(Searcher); ok {
			return sr.Query(ctx, p)
		}
	}
	return nil, ErrUnavailable
}

func (m Multi) Stats(ctx context.Context) (*Stats, error) {
	for _, s := range m {
		if sr, ok := s.(Searcher); ok {
			return sr.Stats(ctx)
		}
	}
	return nil, ErrUnavailable
}

func (m Multi) CountByStation(ctx context.Context, since time.Time) ([]StationCount, error) {
	for _, s := range m {
		if sc, ok := s.(StationCounter); ok {
			return sc.CountByStation(ctx, since)
		}
	}
	return nil, ErrUnavailable
}

// Close closes every store.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
