package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metar_parser/internal/metar"
)

var received = time.Date(2024, 3, 15, 18, 56, 0, 0, time.UTC)

func decodedRecord(t *testing.T, raw string) Record {
	t.Helper()
	rep, err := metar.Decode(raw)
	require.NoError(t, err)
	return NewRecord("test", raw, rep, nil, received)
}

func failedRecord(t *testing.T, raw string) Record {
	t.Helper()
	rep, err := metar.Decode(raw)
	require.Error(t, err)
	return NewRecord("test", raw, rep, err, received)
}

func openTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "metar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewRecord(t *testing.T) {
	rec := decodedRecord(t, "KJFK 151851Z 18012KT 10SM FEW030 22/14 A2992")
	assert.Equal(t, "KJFK", rec.Station)
	assert.Equal(t, 15, rec.Day)
	assert.Equal(t, 18, rec.Hour)
	assert.Equal(t, 51, rec.Minute)
	assert.True(t, rec.Decoded())
	assert.Empty(t, rec.Error)

	bad := failedRecord(t, "KJFK 321851Z 18012KT")
	assert.False(t, bad.Decoded())
	assert.Empty(t, bad.Station)
	assert.Equal(t, "structural", bad.ErrorKind)
	assert.Contains(t, bad.Error, "offset 5")
}

func TestSQLiteSaveAndLatest(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	_, err := db.LatestReport(ctx, "EGLL")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveReport(ctx, decodedRecord(t, "EGLL 151820Z 24008KT 9999 SCT025 12/08 Q1015")))
	require.NoError(t, db.SaveReport(ctx, decodedRecord(t, "EGLL 151850Z 25010KT CAVOK 11/07 Q1016")))
	require.NoError(t, db.SaveReport(ctx, failedRecord(t, "EGLL 151920Z 25010KT 9999 FEW0X5")))

	got, err := db.LatestReport(ctx, "EGLL")
	require.NoError(t, err)
	require.NotNil(t, got.Report)
	assert.Equal(t, 50, got.Minute)
	assert.Equal(t, "EGLL 151850Z 25010KT CAVOK 11/07 Q1016", got.Raw)
	assert.Equal(t, metar.ConditionsCAVOK, got.Report.Conditions.Kind)
	assert.True(t, got.ReceivedAt.Equal(received))
}

func TestSQLiteQuery(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	require.NoError(t, db.SaveReport(ctx, decodedRecord(t, "LFPG 151830Z 05006KT 9999 -RA BKN012 09/08 Q1009")))
	require.NoError(t, db.SaveReport(ctx, decodedRecord(t, "EDDF 151820Z 27012KT 9999 FEW040 10/04 Q1012")))
	require.NoError(t, db.SaveReport(ctx, failedRecord(t, "EDDF 151850Z 27012KT XYZ")))

	tests := []struct {
		name   string
		params QueryParams
		want   []string
	}{
		{"all newest first", QueryParams{}, []string{"EDDF", "EDDF", "LFPG"}},
		{"by station", QueryParams{Station: "LFPG"}, []string{"LFPG"}},
		{"failures", QueryParams{FailuresOnly: true}, []string{""}},
		{"by kind", QueryParams{ErrorKind: "unexpected_trailing_input"}, []string{""}},
		{"full text", QueryParams{FullText: "BKN012"}, []string{"LFPG"}},
		{"full text with punctuation", QueryParams{FullText: "-RA BKN012"}, []string{"LFPG"}},
		{"full text with quote", QueryParams{FullText: `FEW040"`}, []string{"EDDF"}},
		{"limit", QueryParams{Limit: 1}, []string{"EDDF"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := db.Query(ctx, tt.params)
			require.NoError(t, err)
			var stations []string
			for _, r := range recs {
				stations = append(stations, r.Station)
			}
			assert.Equal(t, tt.want, stations)
		})
	}

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Decoded)
	assert.Equal(t, map[string]int{"unexpected_trailing_input": 1}, stats.ByErrorKind)
	assert.Equal(t, map[string]int{"LFPG": 1, "EDDF": 1}, stats.ByStation)
}

type memStore struct {
	recs   []Record
	err    error
	closed bool
}

func (m *memStore) SaveReport(_ context.Context, rec Record) error {
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStore) Close() error { m.closed = true; return m.err }

func TestMulti(t *testing.T) {
	ctx := context.Background()
	a := &memStore{}
	b := &memStore{err: errors.New("disk full")}
	m := Multi{a, b}

	err := m.SaveReport(ctx, decodedRecord(t, "ETSB 151800Z 00000KT CAVOK 05/M01 Q1021"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, a.recs, 1)

	_, err = m.LatestReport(ctx, "ETSB")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = m.Query(ctx, QueryParams{})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = m.Stats(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = m.CountByStation(ctx, received)
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.Error(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)

	db := openTestSQLite(t)
	m = Multi{a, db}
	require.NoError(t, m.SaveReport(ctx, decodedRecord(t, "ETSB 151800Z 00000KT CAVOK 05/M01 Q1021")))
	got, err := m.LatestReport(ctx, "ETSB")
	require.NoError(t, err)
	assert.Equal(t, "ETSB", got.Station)

	recs, err := m.Query(ctx, QueryParams{Station: "ETSB"})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Decoded)
}
