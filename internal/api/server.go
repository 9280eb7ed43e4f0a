// Package api provides REST endpoints for decoding reports and reading the
// stored archive.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"metar_parser/internal/metar"
	"metar_parser/internal/storage"
)

const (
	maxBatch       = 100
	maxBodyBytes   = 1 << 20
	maxQueryLimit  = 500
	defaultWindow  = 24 * time.Hour
	storageTimeout = 5 * time.Second
)

// Stores are the read paths the server uses. A nil field makes the matching
// endpoints answer 503.
type Stores struct {
	Latest storage.LatestReader
	Search storage.Searcher
	Counts storage.StationCounter
}

// Server serves the decode and archive endpoints.
type Server struct {
	stores  Stores
	apiKeys map[string]bool
	logger  *zap.Logger
}

// Config holds API settings. Auth is enabled when APIKeys is non-empty.
type Config struct {
	APIKeys []string
}

// NewServer creates a server.
func NewServer(stores Stores, cfg Config, logger *zap.Logger) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}
	return &Server{stores: stores, apiKeys: keys, logger: logger}
}

// Router returns the configured chi router. Callers may mount more
// handlers on it, such as /metrics.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if len(s.apiKeys) > 0 {
				r.Use(s.authMiddleware)
			}
			r.Post("/decode", s.handleDecode)
			r.Post("/decode/batch", s.handleBatchDecode)
			r.Get("/stations/{icao}/latest", s.handleLatest)
			r.Get("/reports", s.handleReports)
			r.Get("/stats", s.handleStats)
			r.Get("/stats/stations", s.handleStationCounts)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware accepts the key from X-API-Key, a bearer token, or the
// api_key query parameter, in that order.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}
		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// DecodeRequest is the body of POST /decode.
type DecodeRequest struct {
	Report string `json:"report"`
}

// DecodeError describes a rejected report.
type DecodeError struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Offset  int    `json:"offset"`
	Element string `json:"element,omitempty"`
}

func newDecodeError(err error) *DecodeError {
	de := &DecodeError{Error: err.Error()}
	var pe *metar.ParseError
	if errors.As(err, &pe) {
		de.Kind = string(pe.Kind)
		de.Offset = pe.Offset
		de.Element = pe.Element
	}
	return de
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Report) == "" {
		writeError(w, http.StatusBadRequest, "report is required")
		return
	}

	report, err := metar.Decode(req.Report)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, newDecodeError(err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// BatchRequest is the body of POST /decode/batch.
type BatchRequest struct {
	Reports []string `json:"reports"`
}

// BatchItem is the outcome for one report, in request order.
type BatchItem struct {
	Report *metar.Report `json:"report,omitempty"`
	Error  *DecodeError  `json:"error,omitempty"`
}

// BatchResponse is the response for batch decoding.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
	Decoded int         `json:"decoded"`
	Failed  int         `json:"failed"`
}

func (s *Server) handleBatchDecode(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if len(req.Reports) == 0 {
		writeError(w, http.StatusBadRequest, "No reports specified")
		return
	}
	if len(req.Reports) > maxBatch {
		writeError(w, http.StatusBadRequest, "Maximum 100 reports per batch request")
		return
	}

	resp := BatchResponse{Results: make([]BatchItem, len(req.Reports))}
	for i, raw := range req.Reports {
		report, err := metar.Decode(raw)
		if err != nil {
			resp.Results[i].Error = newDecodeError(err)
			resp.Failed++
			continue
		}
		resp.Results[i].Report = report
		resp.Decoded++
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	if s.stores.Latest == nil {
		writeUnavailable(w)
		return
	}

	icao := strings.ToUpper(chi.URLParam(r, "icao"))
	if !validICAO(icao) {
		writeError(w, http.StatusBadRequest, "icao must be four letters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	rec, err := s.stores.Latest.LatestReport(ctx, icao)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No report found for station")
		return
	}
	if err != nil {
		s.storageError(w, "latest report lookup failed", err, zap.String("station", icao))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ReportsResponse is the response for GET /reports.
type ReportsResponse struct {
	Reports []storage.Record `json:"reports"`
	Count   int              `json:"count"`
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.stores.Search == nil {
		writeUnavailable(w)
		return
	}

	q := r.URL.Query()
	params := storage.QueryParams{
		Station:   strings.ToUpper(q.Get("station")),
		ErrorKind: q.Get("error_kind"),
		FullText:  strings.TrimSpace(q.Get("q")),
	}
	if params.Station != "" && !validICAO(params.Station) {
		writeError(w, http.StatusBadRequest, "station must be four letters")
		return
	}
	if v := q.Get("failures"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failures must be a boolean")
			return
		}
		params.FailuresOnly = b
	}
	var ok bool
	if params.Limit, ok = intParam(q.Get("limit"), 100, 1, maxQueryLimit); !ok {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
		return
	}
	if params.Offset, ok = intParam(q.Get("offset"), 0, 0, -1); !ok {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	recs, err := s.stores.Search.Query(ctx, params)
	if err != nil {
		s.storageError(w, "report query failed", err)
		return
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	writeJSON(w, http.StatusOK, ReportsResponse{Reports: recs, Count: len(recs)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stores.Search == nil {
		writeUnavailable(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	stats, err := s.stores.Search.Stats(ctx)
	if err != nil {
		s.storageError(w, "stats failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// StationCountsResponse is the response for GET /stats/stations.
type StationCountsResponse struct {
	Since    time.Time              `json:"since"`
	Stations []storage.StationCount `json:"stations"`
}

func (s *Server) handleStationCounts(w http.ResponseWriter, r *http.Request) {
	if s.stores.Counts == nil {
		writeUnavailable(w)
		return
	}

	window := defaultWindow
	if v := r.URL.Query().Get("since"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "since must be a positive duration such as 24h")
			return
		}
		window = d
	}
	since := time.Now().UTC().Add(-window)

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	counts, err := s.stores.Counts.CountByStation(ctx, since)
	if err != nil {
		s.storageError(w, "station counts failed", err)
		return
	}
	if counts == nil {
		counts = []storage.StationCount{}
	}
	writeJSON(w, http.StatusOK, StationCountsResponse{Since: since, Stations: counts})
}

// storageError maps a read failure to a response. ErrUnavailable means no
// configured store supports the read.
func (s *Server) storageError(w http.ResponseWriter, msg string, err error, fields ...zap.Field) {
	if errors.Is(err, storage.ErrUnavailable) {
		writeUnavailable(w)
		return
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	writeError(w, http.StatusInternalServerError, "lookup failed")
}

// intParam parses v, returning def when empty. hi < 0 means unbounded.
func intParam(v string, def, lo, hi int) (int, bool) {
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || (hi >= 0 && n > hi) {
		return 0, false
	}
	return n, true
}

func validICAO(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeUnavailable(w http.ResponseWriter) {
	writeError(w, http.StatusServiceUnavailable, "No report store configured")
}
