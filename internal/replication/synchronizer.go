package replication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gridpulse/substation-pipeline/internal/domain"
	"github.com/gridpulse/substation-pipeline/internal/metrics"
	"github.com/gridpulse/substation-pipeline/internal/repository"
)

// ErrSecondaryNotConfigured is returned before any row is touched when a
// replication operation is invoked without a secondary store.
var ErrSecondaryNotConfigured = errors.New("secondary store not configured")

// TableResult is one table's outcome within a replication run.
type TableResult struct {
	Table  string
	Copied int
	Err    error
}

// Replicator defines the interface for replication operations
type Replicator interface {
	Enabled() bool
	Health(ctx context.Context) (bool, string)
	Init(ctx context.Context) error
	Sync(ctx context.Context, tables []string, sinceHours int) ([]TableResult, error)
}

// Synchronizer copies a trailing window of rows from the primary store to
// the secondary through the same upsert contract ingestion uses. No
// cursor is persisted between runs: correctness depends on the window
// covering the replication interval, and rows that fell outside the
// window after a failed run are not retried.
type Synchronizer struct {
	primary   repository.Store
	secondary repository.Store
	log       *zap.Logger
	now       func() time.Time
}

// NewSynchronizer creates a synchronizer. secondary may be nil when the
// cloud sink is disabled; every operation then fails pre-flight.
func NewSynchronizer(primary, secondary repository.Store, log *zap.Logger) *Synchronizer {
	return &Synchronizer{
		primary:   primary,
		secondary: secondary,
		log:       log,
		now:       time.Now,
	}
}

// Enabled reports whether a secondary store is configured.
func (s *Synchronizer) Enabled() bool {
	return s.secondary != nil
}

// Health checks secondary store connectivity.
func (s *Synchronizer) Health(ctx context.Context) (bool, string) {
	if s.secondary == nil {
		return false, "disabled"
	}
	if err := s.secondary.Ping(ctx); err != nil {
		return false, err.Error()
	}
	return true, "ok"
}

// Init creates tables and unique indexes on the secondary store.
func (s *Synchronizer) Init(ctx context.Context) error {
	if s.secondary == nil {
		return ErrSecondaryNotConfigured
	}
	return s.secondary.InitSchema(ctx)
}

// Sync replicates each named table. Reading tables are copied over the
// trailing window (inclusive lower bound); the instrument table has no
// time dimension and is copied whole. One table's failure is recorded in
// its result and does not block the remaining tables.
func (s *Synchronizer) Sync(ctx context.Context, tables []string, sinceHours int) ([]TableResult, error) {
	if s.secondary == nil {
		return nil, ErrSecondaryNotConfigured
	}

	results := make([]TableResult, 0, len(tables))
	for _, table := range tables {
		copied, err := s.syncTable(ctx, table, sinceHours)
		if err != nil {
			metrics.ReplicationErrors.WithLabelValues(table).Inc()
			s.log.Error("Table replication failed",
				zap.String("table", table),
				zap.Error(err))
		} else {
			metrics.RowsReplicated.WithLabelValues(table).Add(float64(copied))
			s.log.Info("Table replicated",
				zap.String("table", table),
				zap.Int("copied", copied))
		}
		results = append(results, TableResult{Table: table, Copied: copied, Err: err})
	}

	return results, nil
}

func (s *Synchronizer) syncTable(ctx context.Context, table string, sinceHours int) (int, error) {
	switch {
	case table == domain.TableInstrument:
		instruments, err := s.primary.AllInstruments(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to read instruments: %w", err)
		}
		return s.secondary.UpsertInstruments(ctx, instruments)

	case repository.IsReadingTable(table):
		since := s.now().UTC().Add(-time.Duration(sinceHours) * time.Hour)
		rows, err := s.primary.ReadingsSince(ctx, table, since)
		if err != nil {
			return 0, fmt.Errorf("failed to read window from %s: %w", table, err)
		}
		return s.secondary.UpsertReadings(ctx, table, rows)

	default:
		return 0, fmt.Errorf("unsupported table: %s", table)
	}
}
