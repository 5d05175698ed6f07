package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridpulse/substation-pipeline/internal/domain"
	"github.com/gridpulse/substation-pipeline/internal/dto"
	"github.com/gridpulse/substation-pipeline/internal/replication"
)

// MockIngestService is a mock implementation of service.IngestServicer
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestInstruments(ctx context.Context) (*dto.IngestInstrumentsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IngestInstrumentsResponse), args.Error(1)
}

func (m *MockIngestService) IngestSeries(ctx context.Context, endpoint domain.Endpoint, hours, limit int) (*dto.IngestSeriesResponse, error) {
	args := m.Called(ctx, endpoint, hours, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IngestSeriesResponse), args.Error(1)
}

func (m *MockIngestService) IngestSummary(ctx context.Context, hours int) (*dto.IngestSummaryResponse, error) {
	args := m.Called(ctx, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IngestSummaryResponse), args.Error(1)
}

func (m *MockIngestService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockReplicator is a mock implementation of replication.Replicator
type MockReplicator struct {
	mock.Mock
}

func (m *MockReplicator) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockReplicator) Health(ctx context.Context) (bool, string) {
	args := m.Called(ctx)
	return args.Bool(0), args.String(1)
}

func (m *MockReplicator) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReplicator) Sync(ctx context.Context, tables []string, sinceHours int) ([]replication.TableResult, error) {
	args := m.Called(ctx, tables, sinceHours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]replication.TableResult), args.Error(1)
}

func newTestHandler(svc *MockIngestService, repl *MockReplicator) *Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(svc, repl, zap.NewNop())
}

func TestHealthCheck(t *testing.T) {
	mockService := new(MockIngestService)
	mockService.On("Ping", mock.Anything).Return(nil)
	h := newTestHandler(mockService, new(MockReplicator))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthCheck_StoreDown(t *testing.T) {
	mockService := new(MockIngestService)
	mockService.On("Ping", mock.Anything).Return(errors.New("dial timeout"))
	h := newTestHandler(mockService, new(MockReplicator))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestIngestSeries_DefaultsApplied(t *testing.T) {
	mockService := new(MockIngestService)
	mockService.On("IngestSeries", mock.Anything, domain.EndpointVoltageMean30m, 2, 3).
		Return(&dto.IngestSeriesResponse{
			InstrumentIDs: []int64{101},
			Fetched:       1,
			Points:        4,
			Mapped:        3,
			Skipped:       1,
			Upserted:      3,
		}, nil)
	h := newTestHandler(mockService, new(MockReplicator))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest/voltage-mean-30m", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.IngestSeriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Mapped)
	assert.Equal(t, 1, resp.Skipped)
	mockService.AssertExpectations(t)
}

func TestIngestSeries_QueryParamsForwarded(t *testing.T) {
	mockService := new(MockIngestService)
	mockService.On("IngestSeries", mock.Anything, domain.EndpointCurrentMean30m, 6, 10).
		Return(&dto.IngestSeriesResponse{InstrumentIDs: []int64{}}, nil)
	h := newTestHandler(mockService, new(MockReplicator))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest/current-mean-30m?hours=6&limit=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestIngestSeries_InvalidQuery(t *testing.T) {
	mockService := new(MockIngestService)
	h := newTestHandler(mockService, new(MockReplicator))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest/voltage-mean-30m?hours=0", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "IngestSeries")
}

func TestIngestSeries_UpstreamError(t *testing.T) {
	mockService := new(MockIngestService)
	mockService.On("IngestSeries", mock.Anything, domain.EndpointVoltageMean30m, 2, 3).
		Return(nil, errors.New("failed to fetch series: status 502"))
	h := newTestHandler(mockService, new(MockReplicator))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest/voltage-mean-30m", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ingest_error", resp.Error)
}

func TestIngestInstruments(t *testing.T) {
	mockService := new(MockIngestService)
	mockService.On("IngestInstruments", mock.Anything).
		Return(&dto.IngestInstrumentsResponse{Received: 14, Upserted: 12, Skipped: 2}, nil)
	h := newTestHandler(mockService, new(MockReplicator))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest/instruments", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.IngestInstrumentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Upserted)
}

func TestIngestSummary(t *testing.T) {
	mockService := new(MockIngestService)
	mockService.On("IngestSummary", mock.Anything, 48).
		Return(&dto.IngestSummaryResponse{SinceHours: 48}, nil)
	h := newTestHandler(mockService, new(MockReplicator))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics/ingest-summary?hours=48", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCloudSync_TablesParsed(t *testing.T) {
	mockReplicator := new(MockReplicator)
	mockReplicator.On("Sync", mock.Anything, []string{"instrument", "voltage_mean_30m"}, 12).
		Return([]replication.TableResult{
			{Table: "instrument", Copied: 5},
			{Table: "voltage_mean_30m", Copied: 96},
		}, nil)
	h := newTestHandler(new(MockIngestService), mockReplicator)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost,
		"/cloud/sync?tables=instrument,%20voltage_mean_30m&since_hours=12", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.CloudSyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.SinceHours)
	require.Len(t, resp.Tables, 2)
	assert.Equal(t, 96, resp.Tables[1].Copied)
	mockReplicator.AssertExpectations(t)
}

func TestCloudSync_DefaultTables(t *testing.T) {
	mockReplicator := new(MockReplicator)
	mockReplicator.On("Sync", mock.Anything,
		[]string{"instrument", "voltage_mean_30m", "current_mean_30m"}, 24).
		Return([]replication.TableResult{}, nil)
	h := newTestHandler(new(MockIngestService), mockReplicator)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cloud/sync", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockReplicator.AssertExpectations(t)
}

func TestCloudSync_PartialFailureStaysOK(t *testing.T) {
	mockReplicator := new(MockReplicator)
	mockReplicator.On("Sync", mock.Anything, mock.Anything, 24).
		Return([]replication.TableResult{
			{Table: "voltage_mean_30m", Err: errors.New("connection reset")},
			{Table: "current_mean_30m", Copied: 48},
		}, nil)
	h := newTestHandler(new(MockIngestService), mockReplicator)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cloud/sync", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.CloudSyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tables, 2)
	assert.Equal(t, "connection reset", resp.Tables[0].Error)
	assert.Empty(t, resp.Tables[1].Error)
}

func TestCloudSync_NotConfigured(t *testing.T) {
	mockReplicator := new(MockReplicator)
	mockReplicator.On("Sync", mock.Anything, mock.Anything, 24).
		Return(nil, replication.ErrSecondaryNotConfigured)
	h := newTestHandler(new(MockIngestService), mockReplicator)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cloud/sync", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCloudInit_NotConfigured(t *testing.T) {
	mockReplicator := new(MockReplicator)
	mockReplicator.On("Init", mock.Anything).Return(replication.ErrSecondaryNotConfigured)
	h := newTestHandler(new(MockIngestService), mockReplicator)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cloud/init", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCloudHealth(t *testing.T) {
	mockReplicator := new(MockReplicator)
	mockReplicator.On("Enabled").Return(true)
	mockReplicator.On("Health", mock.Anything).Return(true, "ok")
	h := newTestHandler(new(MockIngestService), mockReplicator)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cloud/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.CloudHealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Enabled)
	assert.Equal(t, "ok", resp.Status)
}
