package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gridpulse/substation-pipeline/internal/domain"
	"github.com/gridpulse/substation-pipeline/internal/dto"
	"github.com/gridpulse/substation-pipeline/internal/metrics"
	"github.com/gridpulse/substation-pipeline/internal/normalize"
	"github.com/gridpulse/substation-pipeline/internal/repository"
	"github.com/gridpulse/substation-pipeline/internal/upstream"
)

// IngestService orchestrates one ingestion cycle: authenticate, fetch,
// store bronze, normalize, upsert silver. Each call runs synchronously to
// completion; overlapping calls race benignly at the store because the
// upserts are idempotent and values converge.
type IngestService struct {
	vendor upstream.Client
	store  repository.Store
	log    *zap.Logger
	now    func() time.Time
}

// NewIngestService creates a new ingestion service.
func NewIngestService(vendor upstream.Client, store repository.Store, log *zap.Logger) *IngestService {
	return &IngestService{
		vendor: vendor,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

// IngestInstruments fetches the vendor instrument list and upserts every
// record with a usable id. Records without one are skipped and counted.
func (s *IngestService) IngestInstruments(ctx context.Context) (*dto.IngestInstrumentsResponse, error) {
	token, err := s.vendor.Authenticate(ctx)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(domain.TableInstrument).Inc()
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	records, err := s.vendor.ListInstruments(ctx, token)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(domain.TableInstrument).Inc()
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	var (
		instruments []domain.Instrument
		skipped     int
	)
	for _, raw := range records {
		rec, ok := raw.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		inst, ok := normalize.InstrumentFromRecord(rec)
		if !ok {
			skipped++
			s.log.Warn("Skipping instrument without usable id",
				zap.Int("field_count", len(rec)))
			continue
		}
		instruments = append(instruments, inst)
	}

	upserted, err := s.store.UpsertInstruments(ctx, instruments)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert instruments: %w", err)
	}

	s.log.Info("Instruments ingested",
		zap.Int("received", len(records)),
		zap.Int("upserted", upserted),
		zap.Int("skipped", skipped))

	return &dto.IngestInstrumentsResponse{
		Received: len(records),
		Upserted: upserted,
		Skipped:  skipped,
	}, nil
}

// IngestSeries runs one bronze-then-silver cycle for an endpoint: fetch
// readings for up to limit instruments over the trailing window, append
// the raw payloads, then normalize and upsert canonical rows. A fetch
// failure aborts the cycle with nothing persisted; malformed points are
// skipped and counted, never fatal.
func (s *IngestService) IngestSeries(ctx context.Context, endpoint domain.Endpoint, hours, limit int) (*dto.IngestSeriesResponse, error) {
	token, err := s.vendor.Authenticate(ctx)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(string(endpoint)).Inc()
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	records, err := s.vendor.ListInstruments(ctx, token)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(string(endpoint)).Inc()
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	ids := selectInstrumentIDs(records, limit)
	if len(ids) == 0 {
		s.log.Warn("No instrument ids could be extracted; skipping fetch",
			zap.String("endpoint", string(endpoint)))
		return &dto.IngestSeriesResponse{InstrumentIDs: []int64{}}, nil
	}

	to := s.now().UTC()
	from := to.Add(-time.Duration(hours) * time.Hour)

	payloads, err := s.vendor.FetchSeries(ctx, token, endpoint, ids, from, to)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(string(endpoint)).Inc()
		return nil, fmt.Errorf("failed to fetch %s series: %w", endpoint, err)
	}

	raws := make([]domain.RawMeasurement, 0, len(payloads))
	for _, payload := range payloads {
		iid := ids[0]
		if rec, ok := payload.(map[string]any); ok {
			if id, ok := normalize.InstrumentIDOf(rec); ok {
				iid = id
			}
		}
		raws = append(raws, domain.RawMeasurement{
			Endpoint:     endpoint.VendorPath(),
			InstrumentID: iid,
			Payload:      payload,
		})
	}
	if _, err := s.store.AppendRawMeasurements(ctx, raws); err != nil {
		return nil, fmt.Errorf("failed to store raw measurements: %w", err)
	}

	mapper := normalize.NewMapper(endpoint, s.log)
	result := mapper.MapPayload(payloads)

	upserted, err := s.store.UpsertReadings(ctx, endpoint.Table(), result.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert readings: %w", err)
	}

	metrics.RowsUpserted.WithLabelValues(endpoint.Table()).Add(float64(upserted))
	metrics.PointsSkipped.WithLabelValues(string(endpoint)).Add(float64(result.Skipped))

	s.log.Info("Series ingested",
		zap.String("endpoint", string(endpoint)),
		zap.Int("fetched", len(payloads)),
		zap.Int("points", result.Total),
		zap.Int("mapped", result.Mapped),
		zap.Int("skipped", result.Skipped),
		zap.Int("upserted", upserted))

	return &dto.IngestSeriesResponse{
		InstrumentIDs: ids,
		Fetched:       len(payloads),
		Points:        result.Total,
		Mapped:        result.Mapped,
		Skipped:       result.Skipped,
		Upserted:      upserted,
	}, nil
}

// IngestSummary reports recent row volume per silver table.
func (s *IngestService) IngestSummary(ctx context.Context, hours int) (*dto.IngestSummaryResponse, error) {
	counts, err := s.store.IngestSummary(ctx, hours)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ingestion: %w", err)
	}

	return &dto.IngestSummaryResponse{
		SinceHours: hours,
		Tables:     counts,
	}, nil
}

// Ping checks the primary store connection.
func (s *IngestService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// selectInstrumentIDs picks the first limit ids that coerce to integers,
// in vendor list order.
func selectInstrumentIDs(records []any, limit int) []int64 {
	if limit < 1 {
		limit = 1
	}

	var ids []int64
	for _, raw := range records {
		rec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := normalize.InstrumentIDOf(rec); ok {
			ids = append(ids, id)
		}
		if len(ids) >= limit {
			break
		}
	}
	return ids
}
