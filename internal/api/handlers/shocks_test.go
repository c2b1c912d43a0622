package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/cache"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/config"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/services"
)

type fakeStore struct {
	observations []models.Observation
	spatial      *models.SpatialCorrelation
	commodities  []string
	err          error
}

func (f *fakeStore) FetchObservations(_ context.Context, _ string, _, _ time.Time) ([]models.Observation, error) {
	return f.observations, f.err
}

func (f *fakeStore) FetchSpatialCorrelation(_ context.Context, _ string) (*models.SpatialCorrelation, error) {
	return f.spatial, f.err
}

func (f *fakeStore) ListCommodities(_ context.Context) ([]string, error) {
	return f.commodities, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			ShockThreshold:    0.1,
			BaselineWindow:    3,
			ClusterWindowDays: 30,
			TrendPeriod:       6,
		},
	}
}

func testHandler(store *fakeStore) *ShockHandler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cfg := testConfig()
	analyzer := services.NewMarketAnalyzer(cfg, logger)
	return NewShockHandler(store, analyzer, nil, cache.NewStyleCache(), cfg, logger)
}

func surgeObservations() []models.Observation {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []float64{10, 10, 10, 15}
	observations := make([]models.Observation, 0, len(prices))
	for i, p := range prices {
		observations = append(observations, models.Observation{
			Region:    "aden",
			Timestamp: base.AddDate(0, i, 0),
			Price:     p,
		})
	}
	return observations
}

func performRequest(t *testing.T, handler gin.HandlerFunc, url string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/endpoint", handler)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetShocks(t *testing.T) {
	store := &fakeStore{observations: surgeObservations()}
	h := testHandler(store)

	w := performRequest(t, h.GetShocks, "/endpoint?commodity=wheat&from=2023-01-01&to=2023-06-01")

	require.Equal(t, http.StatusOK, w.Code)

	var resp ShocksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "aden", resp.Shocks[0].Region)
	assert.Equal(t, models.ShockTypePriceSurge, resp.Shocks[0].ShockType)
	assert.InDelta(t, 50.0, resp.Shocks[0].Magnitude, 1e-9)
	assert.Equal(t, "#e74c3c", resp.Shocks[0].Style.Color)
	assert.False(t, resp.Cached)
}

func TestGetShocksRequiresCommodity(t *testing.T) {
	h := testHandler(&fakeStore{})

	w := performRequest(t, h.GetShocks, "/endpoint")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "commodity")
}

func TestGetShocksRejectsBadThreshold(t *testing.T) {
	h := testHandler(&fakeStore{})

	w := performRequest(t, h.GetShocks, "/endpoint?commodity=wheat&threshold=2")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "threshold")
}

func TestGetShocksRejectsInvertedRange(t *testing.T) {
	h := testHandler(&fakeStore{})

	w := performRequest(t, h.GetShocks, "/endpoint?commodity=wheat&from=2023-06-01&to=2023-01-01")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "from")
}

func TestGetShocksStoreFailure(t *testing.T) {
	h := testHandler(&fakeStore{err: errors.New("db down")})

	w := performRequest(t, h.GetShocks, "/endpoint?commodity=wheat")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetStatistics(t *testing.T) {
	store := &fakeStore{observations: surgeObservations()}
	h := testHandler(store)

	w := performRequest(t, h.GetStatistics, "/endpoint?commodity=wheat&from=2023-01-01&to=2023-06-01")

	require.Equal(t, http.StatusOK, w.Code)

	var stats models.ShockStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ShockTypeCounts[models.ShockTypePriceSurge])
	assert.Equal(t, 1, stats.RegionsAffected)
	assert.InDelta(t, 50.0, stats.MaxMagnitude, 1e-9)
}

func TestGetReportEnvelope(t *testing.T) {
	store := &fakeStore{
		observations: surgeObservations(),
		spatial: &models.SpatialCorrelation{
			GlobalI: 0.4,
			Local:   map[string]models.LocalIndicator{"aden": {LocalI: 0.6}},
		},
	}
	h := testHandler(store)

	w := performRequest(t, h.GetReport, "/endpoint?commodity=wheat&from=2023-01-01&to=2023-06-01")

	require.Equal(t, http.StatusOK, w.Code)

	var report models.AnalysisReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "wheat", report.Commodity)
	assert.NotEmpty(t, report.ID)
	assert.InDelta(t, 0.1, report.Threshold, 1e-9)
	assert.Len(t, report.Shocks, 1)
}

func TestGetCommodities(t *testing.T) {
	h := testHandler(&fakeStore{commodities: []string{"rice", "wheat"}})

	w := performRequest(t, h.GetCommodities, "/endpoint")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rice")
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestGetCommoditiesEmpty(t *testing.T) {
	h := testHandler(&fakeStore{})

	w := performRequest(t, h.GetCommodities, "/endpoint")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"commodities":[]`)
}

func TestClearCachesWithoutReportCache(t *testing.T) {
	h := testHandler(&fakeStore{})
	h.styles.Resolve(42, "#e74c3c")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/endpoint", h.ClearCaches)
	req := httptest.NewRequest(http.MethodPost, "/endpoint", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, h.styles.Len())
}

func TestGetTrends(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var observations []models.Observation
	for i, p := range []float64{10, 11, 12, 13, 14, 15, 16, 17} {
		observations = append(observations, models.Observation{
			Region:    "aden",
			Timestamp: base.AddDate(0, i, 0),
			Price:     p,
		})
	}
	h := testHandler(&fakeStore{observations: observations})

	w := performRequest(t, h.GetTrends, "/endpoint?commodity=wheat&from=2023-01-01&to=2023-12-01")

	require.Equal(t, http.StatusOK, w.Code)

	var resp TrendsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "aden", resp.Trends[0].Region)
	assert.Equal(t, models.TrendRising, resp.Trends[0].Direction)
}
