package dto

import "github.com/gridpulse/substation-pipeline/internal/repository"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"fetch_error"`
	Message string `json:"message,omitempty" example:"vendor request returned status 502"`
}

// IngestInstrumentsResponse reports an instrument ingestion run.
type IngestInstrumentsResponse struct {
	Received int `json:"received" example:"14"`
	Upserted int `json:"upserted" example:"12"`
	Skipped  int `json:"skipped" example:"2"`
}

// IngestSeriesResponse reports one series ingestion run. Mapped plus
// Skipped always equals Points, so partial success stays observable.
type IngestSeriesResponse struct {
	InstrumentIDs []int64 `json:"instrument_ids" example:"101,102,103"`
	Fetched       int     `json:"fetched" example:"3"`
	Points        int     `json:"points" example:"12"`
	Mapped        int     `json:"mapped" example:"11"`
	Skipped       int     `json:"skipped" example:"1"`
	Upserted      int     `json:"upserted" example:"33"`
}

// IngestSummaryResponse reports recent row volume per silver table.
type IngestSummaryResponse struct {
	SinceHours int                     `json:"since_hours" example:"24"`
	Tables     []repository.TableCount `json:"tables"`
}

// CloudHealthResponse reports secondary store connectivity.
type CloudHealthResponse struct {
	Enabled bool   `json:"enabled" example:"true"`
	OK      bool   `json:"ok" example:"true"`
	Status  string `json:"status" example:"ok"`
}

// TableSyncResult reports one table's replication outcome.
type TableSyncResult struct {
	Table  string `json:"table" example:"voltage_mean_30m"`
	Copied int    `json:"copied" example:"96"`
	Error  string `json:"error,omitempty"`
}

// CloudSyncResponse reports a replication run across tables.
type CloudSyncResponse struct {
	SinceHours int               `json:"since_hours" example:"24"`
	Tables     []TableSyncResult `json:"tables"`
}
