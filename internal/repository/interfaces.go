package repository

import (
	"context"
	"time"

	"github.com/gridpulse/substation-pipeline/internal/domain"
)

// TableCount reports recent row volume for one logical table.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// Store is the persistence contract the pipeline depends on. The primary
// and secondary (cloud) stores implement the identical interface, which
// is what lets the replication synchronizer re-apply the same upsert
// semantics against either side, and lets tests substitute an in-memory
// double for a live database.
type Store interface {
	// UpsertReadings applies one conflict-resolving upsert per row, keyed
	// by (instrument_id, ts_utc, phase), inside a single transaction. On
	// conflict only value and unit are overwritten. Returns the number of
	// rows processed; insert and update are not distinguished.
	UpsertReadings(ctx context.Context, table string, rows []domain.CanonicalReading) (int, error)

	// UpsertInstruments upserts instruments keyed by id, overwriting
	// name, commissioned and meta.
	UpsertInstruments(ctx context.Context, instruments []domain.Instrument) (int, error)

	// AppendRawMeasurements appends verbatim vendor payloads to the
	// bronze table. Rows are never updated afterwards.
	AppendRawMeasurements(ctx context.Context, raws []domain.RawMeasurement) (int, error)

	// ReadingsSince selects all rows of a reading table with
	// ts_utc >= since (inclusive lower bound).
	ReadingsSince(ctx context.Context, table string, since time.Time) ([]domain.CanonicalReading, error)

	// AllInstruments selects the full instrument table.
	AllInstruments(ctx context.Context) ([]domain.Instrument, error)

	// IngestSummary counts reading rows ingested over the trailing window.
	IngestSummary(ctx context.Context, hours int) ([]TableCount, error)

	// InitSchema creates tables and the unique indexes the upserts rely on.
	InitSchema(ctx context.Context) error

	// Ping checks if the store connection is alive.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close()
}

// ReadingTables lists the windowed silver tables in replication order.
func ReadingTables() []string {
	return []string{
		domain.EndpointVoltageMean30m.Table(),
		domain.EndpointCurrentMean30m.Table(),
	}
}

// IsReadingTable reports whether name is one of the silver tables.
func IsReadingTable(name string) bool {
	for _, t := range ReadingTables() {
		if t == name {
			return true
		}
	}
	return false
}
