package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/config"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
)

func testAnalyzer() *MarketAnalyzer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{
		Analysis: config.AnalysisConfig{
			ShockThreshold:    0.15,
			BaselineWindow:    3,
			ClusterWindowDays: 30,
			TrendPeriod:       6,
		},
	}
	return NewMarketAnalyzer(cfg, logger)
}

func TestAnalyzeProducesFullReport(t *testing.T) {
	analyzer := testAnalyzer()
	observations := append(
		monthly("aden", 2022, time.January, 10, 10, 10, 15, 10, 10),
		monthly("taiz", 2022, time.January, 50, 50, 50, 70, 50, 50)...,
	)
	spatial := spatialFor(map[string]float64{"aden": 0.7, "taiz": 0.5})

	report := analyzer.Analyze("wheat", observations, spatial, 0.1)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "wheat", report.Commodity)
	assert.InDelta(t, 0.1, report.Threshold, 1e-9)
	require.NotEmpty(t, report.Shocks)
	assert.Equal(t, len(report.Shocks), report.Stats.Total)
	assert.False(t, report.GeneratedAt.IsZero())

	// Both regions shocked in April 2022 and both are spatially correlated,
	// so the report carries a propagation path and a cluster.
	assert.NotEmpty(t, report.Propagation.Paths)
	assert.NotEmpty(t, report.Clusters.Clusters)
}

func TestAnalyzeDeterministicApartFromEnvelope(t *testing.T) {
	analyzer := testAnalyzer()
	observations := monthly("aden", 2022, time.January, 10, 10, 10, 15, 10, 10)
	spatial := spatialFor(map[string]float64{"aden": 0.7})

	first := analyzer.Analyze("wheat", observations, spatial, 0.1)
	second := analyzer.Analyze("wheat", observations, spatial, 0.1)

	// The envelope carries a fresh ID and timestamp; the analytic payload
	// must be identical.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Shocks, second.Shocks)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.Propagation, second.Propagation)
	assert.Equal(t, first.Clusters, second.Clusters)
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	analyzer := testAnalyzer()

	report := analyzer.Analyze("wheat", nil, nil, 0.1)

	assert.NotNil(t, report.Shocks)
	assert.Empty(t, report.Shocks)
	assert.Equal(t, 0, report.Stats.Total)
	assert.Empty(t, report.Propagation.Paths)
	assert.Empty(t, report.Clusters.Clusters)
}

func TestAnalyzeNoSpatialDataStillDetects(t *testing.T) {
	analyzer := testAnalyzer()
	observations := monthly("aden", 2022, time.January, 10, 10, 10, 15)

	report := analyzer.Analyze("wheat", observations, nil, 0.1)

	assert.Len(t, report.Shocks, 1)
	assert.Empty(t, report.Propagation.Paths)
	assert.Empty(t, report.Clusters.Clusters)
	assert.Equal(t, models.ClusterMetrics{}, report.Clusters.Metrics)
}
