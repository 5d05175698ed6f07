package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gridpulse/substation-pipeline/internal/domain"
	"github.com/gridpulse/substation-pipeline/internal/repository"
)

// Repository implements repository.Store for PostgreSQL.
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a PostgreSQL repository.
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the bronze, silver and instrument tables along with
// the unique indexes the upsert contract depends on.
func (r *Repository) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS instrument (
			id BIGINT PRIMARY KEY,
			name TEXT,
			commissioned BOOLEAN,
			meta JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS raw_measurement (
			id BIGSERIAL PRIMARY KEY,
			endpoint TEXT NOT NULL,
			instrument_id BIGINT NOT NULL,
			payload JSONB NOT NULL,
			ingested_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS ix_raw_instr_endpoint
			ON raw_measurement (instrument_id, endpoint)`,
	}
	for _, table := range repository.ReadingTables() {
		statements = append(statements,
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				instrument_id BIGINT NOT NULL,
				ts_utc TIMESTAMPTZ NOT NULL,
				phase TEXT NOT NULL,
				value DOUBLE PRECISION NOT NULL,
				unit TEXT NOT NULL
			)`, table),
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS uq_%s
				ON %s (instrument_id, ts_utc, phase)`, table, table),
		)
	}

	for _, stmt := range statements {
		if _, err := r.client.Pool().Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	r.log.Info("PostgreSQL schema initialized")
	return nil
}

// UpsertReadings inserts or overwrites canonical rows keyed by
// (instrument_id, ts_utc, phase). The whole batch runs in one transaction
// so a mid-batch failure leaves the table untouched. ts_utc arrives as an
// opaque string and is parsed by the database cast.
func (r *Repository) UpsertReadings(ctx context.Context, table string, rows []domain.CanonicalReading) (int, error) {
	if !repository.IsReadingTable(table) {
		return 0, fmt.Errorf("unsupported reading table: %s", table)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (instrument_id, ts_utc, phase, value, unit)
		VALUES ($1, $2::timestamptz, $3, $4, $5)
		ON CONFLICT (instrument_id, ts_utc, phase)
		DO UPDATE SET value = EXCLUDED.value, unit = EXCLUDED.unit`, table)

	tx, err := r.client.Pool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx, query,
			row.InstrumentID, row.TsUTC, string(row.Phase), row.Value, row.Unit,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert reading into %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit reading batch: %w", err)
	}

	return len(rows), nil
}

// UpsertInstruments inserts or overwrites instruments keyed by id.
func (r *Repository) UpsertInstruments(ctx context.Context, instruments []domain.Instrument) (int, error) {
	if len(instruments) == 0 {
		return 0, nil
	}

	const query = `
		INSERT INTO instrument (id, name, commissioned, meta)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			commissioned = EXCLUDED.commissioned,
			meta = EXCLUDED.meta`

	tx, err := r.client.Pool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, inst := range instruments {
		meta, err := json.Marshal(inst.Meta)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal instrument meta: %w", err)
		}
		if _, err := tx.Exec(ctx, query, inst.ID, inst.Name, inst.Commissioned, meta); err != nil {
			return 0, fmt.Errorf("failed to upsert instrument %d: %w", inst.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit instrument batch: %w", err)
	}

	return len(instruments), nil
}

// AppendRawMeasurements writes verbatim vendor payloads to the bronze
// table inside one transaction.
func (r *Repository) AppendRawMeasurements(ctx context.Context, raws []domain.RawMeasurement) (int, error) {
	if len(raws) == 0 {
		return 0, nil
	}

	const query = `
		INSERT INTO raw_measurement (endpoint, instrument_id, payload)
		VALUES ($1, $2, $3)`

	tx, err := r.client.Pool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, raw := range raws {
		payload, err := json.Marshal(raw.Payload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal raw payload: %w", err)
		}
		if _, err := tx.Exec(ctx, query, raw.Endpoint, raw.InstrumentID, payload); err != nil {
			return 0, fmt.Errorf("failed to append raw measurement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit raw batch: %w", err)
	}

	return len(raws), nil
}

// ReadingsSince selects all rows of a reading table with ts_utc at or
// after since. Timestamps are rendered back to RFC3339 strings so the
// rows can travel through the same upsert path the normalizer uses.
func (r *Repository) ReadingsSince(ctx context.Context, table string, since time.Time) ([]domain.CanonicalReading, error) {
	if !repository.IsReadingTable(table) {
		return nil, fmt.Errorf("unsupported reading table: %s", table)
	}

	query := fmt.Sprintf(`
		SELECT instrument_id, ts_utc, phase, value, unit
		FROM %s
		WHERE ts_utc >= $1`, table)

	rows, err := r.client.Pool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select readings from %s: %w", table, err)
	}
	defer rows.Close()

	var out []domain.CanonicalReading
	for rows.Next() {
		var (
			reading domain.CanonicalReading
			ts      time.Time
			phase   string
		)
		if err := rows.Scan(&reading.InstrumentID, &ts, &phase, &reading.Value, &reading.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan reading row: %w", err)
		}
		reading.TsUTC = ts.UTC().Format(time.RFC3339Nano)
		reading.Phase = domain.Phase(phase)
		out = append(out, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reading rows: %w", err)
	}

	return out, nil
}

// AllInstruments returns the full instrument table. Low cardinality, so
// no windowing is applied.
func (r *Repository) AllInstruments(ctx context.Context) ([]domain.Instrument, error) {
	rows, err := r.client.Pool().Query(ctx,
		`SELECT id, name, commissioned, meta FROM instrument`)
	if err != nil {
		return nil, fmt.Errorf("failed to select instruments: %w", err)
	}
	defer rows.Close()

	var out []domain.Instrument
	for rows.Next() {
		var (
			inst domain.Instrument
			meta []byte
		)
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Commissioned, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan instrument row: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &inst.Meta); err != nil {
				return nil, fmt.Errorf("failed to decode instrument meta: %w", err)
			}
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument rows: %w", err)
	}

	return out, nil
}

// IngestSummary counts reading rows with ts_utc inside the trailing
// window, per silver table.
func (r *Repository) IngestSummary(ctx context.Context, hours int) ([]repository.TableCount, error) {
	out := make([]repository.TableCount, 0, len(repository.ReadingTables()))

	for _, table := range repository.ReadingTables() {
		query := fmt.Sprintf(`
			SELECT count(*) FROM %s
			WHERE ts_utc >= now() - make_interval(hours => $1)`, table)

		var count int64
		if err := r.client.Pool().QueryRow(ctx, query, hours).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		out = append(out, repository.TableCount{Table: table, Rows: count})
	}

	return out, nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Pool().Ping(ctx)
}

// Close closes the underlying pool.
func (r *Repository) Close() {
	r.client.Close()
}
