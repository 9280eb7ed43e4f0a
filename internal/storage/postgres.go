package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB keeps every report plus the latest decoded report per station.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the connection pool.
func (d *PostgresDB) Close() error {
	d.pool.Close()
	return nil
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id              BIGSERIAL PRIMARY KEY,
		station         TEXT NOT NULL DEFAULT '',
		obs_day         SMALLINT NOT NULL DEFAULT 0,
		obs_hour        SMALLINT NOT NULL DEFAULT 0,
		obs_minute      SMALLINT NOT NULL DEFAULT 0,
		received_at     TIMESTAMPTZ NOT NULL,
		source          TEXT NOT NULL DEFAULT '',
		raw             TEXT NOT NULL,
		report          JSONB,
		error           TEXT NOT NULL DEFAULT '',
		error_kind      TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_reports_station ON reports(station, received_at DESC);

	CREATE TABLE IF NOT EXISTS station_latest (
		station         TEXT PRIMARY KEY,
		report_id       BIGINT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		received_at     TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveReport inserts a record and, when it decoded, advances the station's
// latest pointer unless a newer report is already there.
func (d *PostgresDB) SaveReport(ctx context.Context, rec Record) error {
	reportJSON, err := rec.reportJSON()
	if err != nil {
		return err
	}
	var report any
	if reportJSON != "" {
		report = reportJSON
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO reports (station, obs_day, obs_hour, obs_minute, received_at, source, raw, report, error, error_kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10)
		RETURNING id
	`, rec.Station, rec.Day, rec.Hour, rec.Minute, rec.ReceivedAt, rec.Source, rec.Raw, report, rec.Error, rec.ErrorKind).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	if rec.Decoded() {
		_, err = tx.Exec(ctx, `
			INSERT INTO station_latest (station, report_id, received_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (station) DO UPDATE SET
				report_id = EXCLUDED.report_id,
				received_at = EXCLUDED.received_at,
				updated_at = NOW()
			WHERE station_latest.received_at <= EXCLUDED.received_at
		`, rec.Station, id, rec.ReceivedAt)
		if err != nil {
			return fmt.Errorf("upsert station latest: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// LatestReport returns the newest decoded report for station.
func (d *PostgresDB) LatestReport(ctx context.Context, station string) (*Record, error) {
	var rec Record
	var report *string
	err := d.pool.QueryRow(ctx, `
		SELECT r.station, r.obs_day, r.obs_hour, r.obs_minute, r.received_at, r.source, r.raw, r.report::text, r.error, r.error_kind
		FROM station_latest l
		JOIN reports r ON r.id = l.report_id
		WHERE l.station = $1
	`, station).Scan(&rec.Station, &rec.Day, &rec.Hour, &rec.Minute, &rec.ReceivedAt,
		&rec.Source, &rec.Raw, &report, &rec.Error, &rec.ErrorKind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest report: %w", err)
	}
	if report != nil {
		if rec.Report, err = decodeReportJSON(*report); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}
