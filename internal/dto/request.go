package dto

// IngestSeriesRequest bounds a series ingestion run: a lookback window in
// hours and a cap on how many instruments to fetch for.
type IngestSeriesRequest struct {
	Hours int `form:"hours,default=2" binding:"min=1" example:"2"`
	Limit int `form:"limit,default=3" binding:"min=1" example:"3"`
}

// IngestSummaryRequest selects the trailing window for the summary.
type IngestSummaryRequest struct {
	Hours int `form:"hours,default=24" binding:"min=1" example:"24"`
}

// CloudSyncRequest selects tables and window for a replication run. An
// empty Tables means the full default set; the split happens in the
// handler because gin's default tag option cannot hold commas.
type CloudSyncRequest struct {
	Tables     string `form:"tables" example:"instrument,voltage_mean_30m"`
	SinceHours int    `form:"since_hours,default=24" binding:"min=1" example:"24"`
}
