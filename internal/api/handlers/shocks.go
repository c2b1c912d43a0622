package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/cache"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/config"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/services"
)

const dateLayout = "2006-01-02"

// Marker colors by shock direction.
const (
	surgeColor = "#e74c3c"
	dropColor  = "#3498db"
)

// MarketDataStore is the storage surface the shock handlers need.
type MarketDataStore interface {
	FetchObservations(ctx context.Context, commodity string, from, to time.Time) ([]models.Observation, error)
	FetchSpatialCorrelation(ctx context.Context, commodity string) (*models.SpatialCorrelation, error)
	ListCommodities(ctx context.Context) ([]string, error)
}

// ShockHandler serves the shock analysis endpoints.
type ShockHandler struct {
	store    MarketDataStore
	analyzer *services.MarketAnalyzer
	reports  *cache.AnalysisCache
	styles   *cache.StyleCache
	cfg      *config.Config
	logger   *logrus.Logger
}

// NewShockHandler creates the handler. The report cache may be nil, in which
// case every request recomputes the analysis.
func NewShockHandler(store MarketDataStore, analyzer *services.MarketAnalyzer, reports *cache.AnalysisCache, styles *cache.StyleCache, cfg *config.Config, logger *logrus.Logger) *ShockHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ShockHandler{
		store:    store,
		analyzer: analyzer,
		reports:  reports,
		styles:   styles,
		cfg:      cfg,
		logger:   logger,
	}
}

// StyledShock pairs a shock with its resolved map-marker style.
type StyledShock struct {
	models.Shock
	Style cache.ShockStyle `json:"style"`
}

type ShocksResponse struct {
	Shocks    []StyledShock `json:"shocks"`
	Count     int           `json:"count"`
	Cached    bool          `json:"cached"`
	Timestamp time.Time     `json:"timestamp"`
}

// GetShocks returns detected shocks with marker styles for map rendering.
func (h *ShockHandler) GetShocks(c *gin.Context) {
	report, cached, ok := h.report(c)
	if !ok {
		return
	}

	styled := make([]StyledShock, 0, len(report.Shocks))
	for _, s := range report.Shocks {
		color := dropColor
		if s.ShockType == models.ShockTypePriceSurge {
			color = surgeColor
		}
		styled = append(styled, StyledShock{
			Shock: s,
			Style: h.styles.Resolve(s.Magnitude, color),
		})
	}

	c.JSON(http.StatusOK, ShocksResponse{
		Shocks:    styled,
		Count:     len(styled),
		Cached:    cached,
		Timestamp: time.Now(),
	})
}

// GetStatistics returns summary statistics for the detected shock set.
func (h *ShockHandler) GetStatistics(c *gin.Context) {
	report, _, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.Stats)
}

// GetPropagation returns propagation paths and derived metrics.
func (h *ShockHandler) GetPropagation(c *gin.Context) {
	report, _, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.Propagation)
}

// GetClusters returns shock clusters and aggregate metrics.
func (h *ShockHandler) GetClusters(c *gin.Context) {
	report, _, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.Clusters)
}

// GetReport returns the full analysis report envelope.
func (h *ShockHandler) GetReport(c *gin.Context) {
	report, _, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

type TrendsResponse struct {
	Trends    []models.RegionTrend `json:"trends"`
	Count     int                  `json:"count"`
	Timestamp time.Time            `json:"timestamp"`
}

// GetTrends returns per-region price trend summaries.
func (h *ShockHandler) GetTrends(c *gin.Context) {
	commodity, from, to, _, ok := h.params(c)
	if !ok {
		return
	}

	observations, err := h.store.FetchObservations(c.Request.Context(), commodity, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch observations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch market data"})
		return
	}

	trends := h.analyzer.Trends().AnalyzeTrends(observations)
	c.JSON(http.StatusOK, TrendsResponse{
		Trends:    trends,
		Count:     len(trends),
		Timestamp: time.Now(),
	})
}

// GetCommodities lists the commodities available for analysis.
func (h *ShockHandler) GetCommodities(c *gin.Context) {
	commodities, err := h.store.ListCommodities(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list commodities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list commodities"})
		return
	}
	if commodities == nil {
		commodities = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"commodities": commodities, "count": len(commodities)})
}

// ClearCaches invalidates the report cache and the style memoization. Called
// after upstream data loads so no stale analysis is served.
func (h *ShockHandler) ClearCaches(c *gin.Context) {
	h.styles.Clear()
	if h.reports != nil {
		if err := h.reports.Clear(c.Request.Context()); err != nil {
			h.logger.WithError(err).Error("Failed to clear analysis cache")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear analysis cache"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// report resolves the analysis report for the request, consulting the cache
// first. The bool result reports whether a response can still be written.
func (h *ShockHandler) report(c *gin.Context) (models.AnalysisReport, bool, bool) {
	commodity, from, to, threshold, ok := h.params(c)
	if !ok {
		return models.AnalysisReport{}, false, false
	}

	ctx := c.Request.Context()
	key := cache.ReportKey(commodity, threshold, from, to)
	if h.reports != nil {
		if cached, hit := h.reports.Get(ctx, key); hit {
			return *cached, true, true
		}
	}

	observations, err := h.store.FetchObservations(ctx, commodity, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch observations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch market data"})
		return models.AnalysisReport{}, false, false
	}

	spatial, err := h.store.FetchSpatialCorrelation(ctx, commodity)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch spatial correlation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch spatial data"})
		return models.AnalysisReport{}, false, false
	}

	report := h.analyzer.Analyze(commodity, observations, spatial, threshold)
	if h.reports != nil {
		h.reports.Set(ctx, key, report)
	}

	return report, false, true
}

// params parses and validates the shared query parameters.
func (h *ShockHandler) params(c *gin.Context) (commodity string, from, to time.Time, threshold float64, ok bool) {
	commodity = c.Query("commodity")
	if commodity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commodity parameter is required"})
		return "", time.Time{}, time.Time{}, 0, false
	}

	threshold = h.cfg.Analysis.ShockThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a 0-1 ratio"})
			return "", time.Time{}, time.Time{}, 0, false
		}
		threshold = parsed
	}

	to = time.Now().UTC()
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be formatted YYYY-MM-DD"})
			return "", time.Time{}, time.Time{}, 0, false
		}
		to = parsed
	}

	from = to.AddDate(-2, 0, 0)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be formatted YYYY-MM-DD"})
			return "", time.Time{}, time.Time{}, 0, false
		}
		from = parsed
	}

	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must not be after to"})
		return "", time.Time{}, time.Time{}, 0, false
	}

	return commodity, from, to, threshold, true
}
