package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteDB is a local report archive with full-text search over raw text.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens or creates a SQLite database at the given path.
func OpenSQLite(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (d *SQLiteDB) Close() error {
	return d.db.Close()
}

func createSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station TEXT NOT NULL DEFAULT '',
		day INTEGER NOT NULL DEFAULT 0,
		hour INTEGER NOT NULL DEFAULT 0,
		minute INTEGER NOT NULL DEFAULT 0,
		received_at TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		raw TEXT NOT NULL,
		report_json TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		error_kind TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_reports_station ON reports(station, id);
	CREATE INDEX IF NOT EXISTS idx_reports_error_kind ON reports(error_kind);

	CREATE VIRTUAL TABLE IF NOT EXISTS reports_fts USING fts5(
		raw,
		content='reports',
		content_rowid='id'
	);

	CREATE TRIGGER IF NOT EXISTS reports_ai AFTER INSERT ON reports BEGIN
		INSERT INTO reports_fts(rowid, raw) VALUES (new.id, new.raw);
	END;

	CREATE TRIGGER IF NOT EXISTS reports_ad AFTER DELETE ON reports BEGIN
		INSERT INTO reports_fts(reports_fts, rowid, raw) VALUES ('delete', old.id, old.raw);
	END;
	`
	_, err := db.Exec(schema)
	return err
}

// SaveReport inserts a record.
func (d *SQLiteDB) SaveReport(ctx context.Context, rec Record) error {
	reportJSON, err := rec.reportJSON()
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO reports (station, day, hour, minute, received_at, source, raw, report_json, error, error_kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Station, rec.Day, rec.Hour, rec.Minute, rec.ReceivedAt.UTC().Format(time.RFC3339Nano),
		rec.Source, rec.Raw, reportJSON, rec.Error, rec.ErrorKind)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

const sqliteColumns = `r.station, r.day, r.hour, r.minute, r.received_at, r.source, r.raw, r.report_json, r.error, r.error_kind`

// LatestReport returns the last decoded report stored for station.
func (d *SQLiteDB) LatestReport(ctx context.Context, station string) (*Record, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM reports r
		WHERE r.station = ? AND r.report_json != ''
		ORDER BY r.id DESC LIMIT 1`, station)
	rec, err := scanSQLiteRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest report: %w", err)
	}
	return rec, nil
}

// QueryParams filters stored records.
type QueryParams struct {
	Station      string // exact match
	ErrorKind    string // exact match
	FailuresOnly bool
	FullText     string // phrase match on raw text
	Limit        int    // default 100
	Offset       int
}

// Query returns records matching p, newest first.
func (d *SQLiteDB) Query(ctx context.Context, p QueryParams) ([]Record, error) {
	var conditions []string
	var args []any

	query := `SELECT ` + sqliteColumns + ` FROM reports r`
	if p.FullText != "" {
		query += ` JOIN reports_fts fts ON r.id = fts.rowid`
		conditions = append(conditions, "reports_fts MATCH ?")
		args = append(args, ftsPhrase(p.FullText))
	}
	if p.Station != "" {
		conditions = append(conditions, "r.station = ?")
		args = append(args, p.Station)
	}
	if p.ErrorKind != "" {
		conditions = append(conditions, "r.error_kind = ?")
		args = append(args, p.ErrorKind)
	}
	if p.FailuresOnly {
		conditions = append(conditions, "r.error != ''")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" ORDER BY r.id DESC LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// ftsPhrase quotes s as a single FTS5 phrase so report punctuation such as
// "-RA" or "R27/0800" is not read as query syntax.
func ftsPhrase(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Stats summarises the archive.
type Stats struct {
	Total       int            `json:"total"`
	Decoded     int            `json:"decoded"`
	ByErrorKind map[string]int `json:"by_error_kind"`
	ByStation   map[string]int `json:"by_station"`
}

// Stats counts stored records.
func (d *SQLiteDB) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByErrorKind: make(map[string]int),
		ByStation:   make(map[string]int),
	}

	row := d.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(report_json != ''), 0) FROM reports")
	if err := row.Scan(&stats.Total, &stats.Decoded); err != nil {
		return nil, err
	}

	if err := d.countInto(ctx, stats.ByErrorKind,
		"SELECT error_kind, COUNT(*) FROM reports WHERE error != '' GROUP BY error_kind"); err != nil {
		return nil, err
	}
	if err := d.countInto(ctx, stats.ByStation,
		"SELECT station, COUNT(*) FROM reports WHERE station != '' GROUP BY station ORDER BY COUNT(*) DESC LIMIT 50"); err != nil {
		return nil, err
	}
	return stats, nil
}

func (d *SQLiteDB) countInto(ctx context.Context, dst map[string]int, query string) error {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dst[key] = count
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecord(row rowScanner) (*Record, error) {
	var rec Record
	var receivedAt, reportJSON string
	err := row.Scan(&rec.Station, &rec.Day, &rec.Hour, &rec.Minute, &receivedAt,
		&rec.Source, &rec.Raw, &reportJSON, &rec.Error, &rec.ErrorKind)
	if err != nil {
		return nil, err
	}
	rec.ReceivedAt, _ = time.Parse(time.RFC3339Nano, receivedAt)
	if rec.Report, err = decodeReportJSON(reportJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}
