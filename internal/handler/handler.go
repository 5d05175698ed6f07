package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/gridpulse/substation-pipeline/docs"
	"github.com/gridpulse/substation-pipeline/internal/domain"
	"github.com/gridpulse/substation-pipeline/internal/dto"
	"github.com/gridpulse/substation-pipeline/internal/replication"
	"github.com/gridpulse/substation-pipeline/internal/repository"
	"github.com/gridpulse/substation-pipeline/internal/service"
)

type Handler struct {
	ingestService service.IngestServicer
	replicator    replication.Replicator
	router        *gin.Engine
	log           *zap.Logger
}

func NewHandler(ingestService service.IngestServicer, replicator replication.Replicator, log *zap.Logger) *Handler {
	h := &Handler{
		ingestService: ingestService,
		replicator:    replicator,
		router:        gin.Default(),
		log:           log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/ingest/instruments", h.ingestInstruments)
	h.router.POST("/ingest/voltage-mean-30m", h.ingestSeries(domain.EndpointVoltageMean30m))
	h.router.POST("/ingest/current-mean-30m", h.ingestSeries(domain.EndpointCurrentMean30m))
	h.router.GET("/metrics/ingest-summary", h.ingestSummary)
	h.router.GET("/metrics/prometheus", gin.WrapH(promhttp.Handler()))
	h.router.GET("/cloud/health", h.cloudHealth)
	h.router.POST("/cloud/init", h.cloudInit)
	h.router.POST("/cloud/sync", h.cloudSync)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check service and primary store health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} dto.ErrorResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.ingestService.Ping(c.Request.Context()); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "store_unavailable",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ingestInstruments handles POST /ingest/instruments
// @Summary Fetch and upsert instruments
// @Description Fetch the vendor instrument list and upsert every record with a usable id
// @Tags ingest
// @Produce json
// @Success 200 {object} dto.IngestInstrumentsResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /ingest/instruments [post]
func (h *Handler) ingestInstruments(c *gin.Context) {
	resp, err := h.ingestService.IngestInstruments(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to ingest instruments", zap.Error(err))
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error:   "ingest_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("Instruments ingestion completed",
		zap.Int("received", resp.Received),
		zap.Int("upserted", resp.Upserted))

	c.JSON(http.StatusOK, resp)
}

// ingestSeries handles POST /ingest/voltage-mean-30m and
// POST /ingest/current-mean-30m
// @Summary Ingest a mean-readings series (bronze then silver)
// @Description Fetch readings for up to limit instruments over the trailing window, store raw payloads, normalize and upsert canonical rows
// @Tags ingest
// @Produce json
// @Param hours query int false "Lookback window in hours" default(2)
// @Param limit query int false "Maximum instruments to fetch" default(3)
// @Success 200 {object} dto.IngestSeriesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /ingest/voltage-mean-30m [post]
func (h *Handler) ingestSeries(endpoint domain.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.IngestSeriesRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			h.log.Warn("Invalid series ingest request",
				zap.String("endpoint", string(endpoint)),
				zap.Error(err))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
			return
		}

		resp, err := h.ingestService.IngestSeries(c.Request.Context(), endpoint, req.Hours, req.Limit)
		if err != nil {
			h.log.Error("Failed to ingest series",
				zap.String("endpoint", string(endpoint)),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{
				Error:   "ingest_error",
				Message: err.Error(),
			})
			return
		}

		h.log.Info("Series ingestion completed",
			zap.String("endpoint", string(endpoint)),
			zap.Int("fetched", resp.Fetched),
			zap.Int("mapped", resp.Mapped),
			zap.Int("skipped", resp.Skipped))

		c.JSON(http.StatusOK, resp)
	}
}

// ingestSummary handles GET /metrics/ingest-summary
// @Summary Rows ingested over the trailing window
// @Tags metrics
// @Produce json
// @Param hours query int false "Trailing window in hours" default(24)
// @Success 200 {object} dto.IngestSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /metrics/ingest-summary [get]
func (h *Handler) ingestSummary(c *gin.Context) {
	var req dto.IngestSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.ingestService.IngestSummary(c.Request.Context(), req.Hours)
	if err != nil {
		h.log.Error("Failed to summarize ingestion", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// cloudHealth handles GET /cloud/health
// @Summary Secondary store connectivity
// @Tags cloud
// @Produce json
// @Success 200 {object} dto.CloudHealthResponse
// @Router /cloud/health [get]
func (h *Handler) cloudHealth(c *gin.Context) {
	ok, status := h.replicator.Health(c.Request.Context())
	c.JSON(http.StatusOK, dto.CloudHealthResponse{
		Enabled: h.replicator.Enabled(),
		OK:      ok,
		Status:  status,
	})
}

// cloudInit handles POST /cloud/init
// @Summary Create tables and indexes on the secondary store
// @Tags cloud
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /cloud/init [post]
func (h *Handler) cloudInit(c *gin.Context) {
	if err := h.replicator.Init(c.Request.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, replication.ErrSecondaryNotConfigured) {
			status = http.StatusConflict
		}
		h.log.Error("Failed to init secondary store", zap.Error(err))
		c.JSON(status, dto.ErrorResponse{
			Error:   "replication_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// cloudSync handles POST /cloud/sync
// @Summary Replicate recent rows to the secondary store
// @Description Copy the trailing window of each named table to the secondary store; one table's failure does not block the rest
// @Tags cloud
// @Produce json
// @Param tables query string false "Comma-separated table names" default(instrument,voltage_mean_30m,current_mean_30m)
// @Param since_hours query int false "Trailing window in hours" default(24)
// @Success 200 {object} dto.CloudSyncResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /cloud/sync [post]
func (h *Handler) cloudSync(c *gin.Context) {
	var req dto.CloudSyncRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	var tables []string
	for _, t := range strings.Split(req.Tables, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		tables = append([]string{domain.TableInstrument}, repository.ReadingTables()...)
	}

	results, err := h.replicator.Sync(c.Request.Context(), tables, req.SinceHours)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, replication.ErrSecondaryNotConfigured) {
			status = http.StatusConflict
		}
		h.log.Error("Replication run failed", zap.Error(err))
		c.JSON(status, dto.ErrorResponse{
			Error:   "replication_error",
			Message: err.Error(),
		})
		return
	}

	resp := dto.CloudSyncResponse{SinceHours: req.SinceHours}
	for _, r := range results {
		out := dto.TableSyncResult{Table: r.Table, Copied: r.Copied}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		resp.Tables = append(resp.Tables, out)
	}

	c.JSON(http.StatusOK, resp)
}
