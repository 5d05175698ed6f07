package service

import (
	"context"

	"github.com/gridpulse/substation-pipeline/internal/domain"
	"github.com/gridpulse/substation-pipeline/internal/dto"
)

// IngestServicer defines the interface for ingestion operations
type IngestServicer interface {
	IngestInstruments(ctx context.Context) (*dto.IngestInstrumentsResponse, error)
	IngestSeries(ctx context.Context, endpoint domain.Endpoint, hours, limit int) (*dto.IngestSeriesResponse, error)
	IngestSummary(ctx context.Context, hours int) (*dto.IngestSummaryResponse, error)
	Ping(ctx context.Context) error
}
