package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchErrors counts failed vendor API calls, labelled by endpoint.
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_fetch_errors_total",
		Help: "Total number of failed vendor API calls",
	}, []string{"endpoint"})

	// RowsUpserted counts canonical rows written per silver table.
	RowsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_rows_upserted_total",
		Help: "Total number of canonical rows upserted per table",
	}, []string{"table"})

	// PointsSkipped counts points dropped during normalization.
	PointsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_points_skipped_total",
		Help: "Total number of points skipped during normalization",
	}, []string{"endpoint"})

	// RowsReplicated counts rows copied to the secondary store per table.
	RowsReplicated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_rows_replicated_total",
		Help: "Total number of rows replicated to the secondary store",
	}, []string{"table"})

	// ReplicationErrors counts per-table replication failures.
	ReplicationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_replication_errors_total",
		Help: "Total number of per-table replication failures",
	}, []string{"table"})
)
