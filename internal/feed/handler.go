// Package feed turns raw payloads from a message bus into stored weather
// report records.
package feed

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"metar_parser/internal/acars"
	"metar_parser/internal/metar"
	"metar_parser/internal/observability"
	"metar_parser/internal/parsers/weather"
	"metar_parser/internal/registry"
	"metar_parser/internal/storage"
)

// Publisher forwards decoded records downstream.
type Publisher interface {
	Publish(ctx context.Context, recs []storage.Record) error
}

// Handler decodes payloads and persists the outcome. It never stops on a
// bad payload: failures are counted and logged.
type Handler struct {
	registry *registry.Registry
	store    storage.Store
	sink     Publisher
	clock    clockwork.Clock
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the clock used for received-at timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(h *Handler) { h.clock = c }
}

// WithSink publishes decoded records after they are stored.
func WithSink(p Publisher) Option {
	return func(h *Handler) { h.sink = p }
}

// NewHandler builds a Handler. A nil store discards records.
func NewHandler(reg *registry.Registry, store storage.Store, logger *zap.Logger, metrics *observability.Metrics, opts ...Option) *Handler {
	h := &Handler{
		registry: reg,
		store:    store,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle decodes one payload from source and stores every record found in
// it. The records are returned for the caller's inspection.
func (h *Handler) Handle(ctx context.Context, source string, payload []byte) []storage.Record {
	start := h.clock.Now()
	h.metrics.MessagesReceived.WithLabelValues(source).Inc()
	defer func() {
		h.metrics.DecodeDuration.Observe(h.clock.Since(start).Seconds())
	}()

	recs := h.records(source, payload, start)

	var decoded []storage.Record
	for _, rec := range recs {
		if rec.Decoded() {
			h.metrics.ReportsDecoded.Inc()
			decoded = append(decoded, rec)
		} else {
			kind := rec.ErrorKind
			if kind == "" {
				kind = "unknown"
			}
			h.metrics.DecodeFailures.WithLabelValues(kind).Inc()
			h.logger.Debug("report rejected",
				zap.String("source", source),
				zap.String("raw", rec.Raw),
				zap.String("error", rec.Error))
		}

		if h.store == nil {
			continue
		}
		if err := h.store.SaveReport(ctx, rec); err != nil {
			h.metrics.StoreErrors.Inc()
			h.logger.Warn("store report failed",
				zap.String("station", rec.Station),
				zap.Error(err))
		}
	}

	if h.sink != nil && len(decoded) > 0 {
		if err := h.sink.Publish(ctx, decoded); err != nil {
			h.logger.Warn("publish reports failed", zap.Int("count", len(decoded)), zap.Error(err))
		} else {
			h.metrics.ReportsPublished.Add(float64(len(decoded)))
		}
	}
	return recs
}

func (h *Handler) records(source string, payload []byte, received time.Time) []storage.Record {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' {
		msg, format := acars.Decode(trimmed)
		if msg == nil {
			h.logger.Debug("unrecognised json payload", zap.String("source", source))
			return nil
		}
		return h.fromMessage(source, msg, format, received)
	}

	var recs []storage.Record
	for _, line := range strings.Split(string(trimmed), "\n") {
		line = weather.Normalise(line)
		if line == "" {
			continue
		}
		rep, err := metar.Decode(line)
		recs = append(recs, storage.NewRecord(source, line, rep, err, received))
	}
	return recs
}

func (h *Handler) fromMessage(source string, msg *acars.Message, format acars.Format, received time.Time) []storage.Record {
	var recs []storage.Record
	for _, res := range h.registry.Dispatch(msg) {
		wr, ok := res.(*weather.Result)
		if !ok {
			continue
		}
		for _, rep := range wr.Reports {
			recs = append(recs, storage.NewRecord(source, rep.Raw, rep, nil, received))
		}
		for _, f := range wr.Failures {
			recs = append(recs, storage.Record{
				ReceivedAt: received.UTC(),
				Source:     source,
				Raw:        f.Raw,
				Error:      f.Error,
				ErrorKind:  string(f.Kind),
			})
		}
	}
	if len(recs) == 0 {
		h.logger.Debug("no weather reports in message",
			zap.String("source", source),
			zap.String("format", string(format)),
			zap.String("label", msg.Label))
	}
	return recs
}
