package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB keeps the report history for analytics.
type ClickHouseDB struct {
	conn driver.Conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the report history table.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	err := d.conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS report_history (
			received_at     DateTime64(3),
			station         LowCardinality(String),
			obs_day         UInt8,
			obs_hour        UInt8,
			obs_minute      UInt8,
			source          LowCardinality(String),
			raw             String,
			report_json     String,
			error           String,
			error_kind      LowCardinality(String)
		)
		ENGINE = MergeTree()
		PARTITION BY toYYYYMM(received_at)
		ORDER BY (station, received_at)
		SETTINGS index_granularity = 8192`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	_ = d.conn.Exec(ctx, `ALTER TABLE report_history ADD INDEX IF NOT EXISTS idx_raw_bloom raw TYPE tokenbf_v1(32768, 3, 0) GRANULARITY 1`)
	return nil
}

// SaveReport appends a record to the history.
func (d *ClickHouseDB) SaveReport(ctx context.Context, rec Record) error {
	return d.SaveBatch(ctx, []Record{rec})
}

// SaveBatch appends records in one insert.
func (d *ClickHouseDB) SaveBatch(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}

	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO report_history (received_at, station, obs_day, obs_hour, obs_minute, source, raw, report_json, error, error_kind)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, rec := range recs {
		reportJSON, err := rec.reportJSON()
		if err != nil {
			return err
		}
		err = batch.Append(rec.ReceivedAt, rec.Station, uint8(rec.Day), uint8(rec.Hour), uint8(rec.Minute),
			rec.Source, rec.Raw, reportJSON, rec.Error, rec.ErrorKind)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// StationCount is the number of reports a station sent since a cutoff.
type StationCount struct {
	Station  string `json:"station"`
	Reports  uint64 `json:"reports"`
	Failures uint64 `json:"failures"`
}

// CountByStation aggregates the history received at or after since.
func (d *ClickHouseDB) CountByStation(ctx context.Context, since time.Time) ([]StationCount, error) {
	rows, err := d.conn.Query(ctx, `
		SELECT station, count(), countIf(error != '')
		FROM report_history
		WHERE received_at >= ? AND station != ''
		GROUP BY station
		ORDER BY station
	`, since)
	if err != nil {
		return nil, fmt.Errorf("count by station: %w", err)
	}
	defer rows.Close()

	var out []StationCount
	for rows.Next() {
		var c StationCount
		if err := rows.Scan(&c.Station, &c.Reports, &c.Failures); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
