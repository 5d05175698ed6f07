package upstream

import (
	"context"
	"time"

	"github.com/gridpulse/substation-pipeline/internal/domain"
)

// Client is the vendor API contract the core depends on. The pipeline
// only requires raw JSON values back and tolerates any payload shape;
// decoding into canonical rows is the normalizer's job.
type Client interface {
	// Authenticate obtains a bearer token via the password grant.
	Authenticate(ctx context.Context) (string, error)

	// ListInstruments fetches the tenant's instrument records.
	ListInstruments(ctx context.Context, token string) ([]any, error)

	// FetchSeries fetches mean readings for the endpoint over [from, to]
	// for the given instrument ids.
	FetchSeries(ctx context.Context, token string, endpoint domain.Endpoint, instrumentIDs []int64, from, to time.Time) ([]any, error)
}
