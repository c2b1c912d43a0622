package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
)

func testTrendAnalyzer(period int) *TrendAnalyzer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewTrendAnalyzer(period, logger)
}

func TestAnalyzeTrendsRising(t *testing.T) {
	analyzer := testTrendAnalyzer(4)
	observations := monthly("aden", 2022, time.January, 10, 11, 12, 13, 14, 15, 18)

	trends := analyzer.AnalyzeTrends(observations)

	require.Len(t, trends, 1)
	trend := trends[0]
	assert.Equal(t, "aden", trend.Region)
	assert.Equal(t, models.TrendRising, trend.Direction)
	assert.Greater(t, trend.SMA, 0.0)
	assert.InDelta(t, 18.0, trend.LatestPrice, 1e-9)
	assert.Equal(t, 7, trend.Observations)
}

func TestAnalyzeTrendsFalling(t *testing.T) {
	analyzer := testTrendAnalyzer(4)
	observations := monthly("taiz", 2022, time.January, 20, 18, 16, 14, 12, 10, 8)

	trends := analyzer.AnalyzeTrends(observations)

	require.Len(t, trends, 1)
	assert.Equal(t, models.TrendFalling, trends[0].Direction)
}

func TestAnalyzeTrendsStable(t *testing.T) {
	analyzer := testTrendAnalyzer(4)
	observations := monthly("ibb", 2022, time.January, 10, 10, 10, 10, 10, 10)

	trends := analyzer.AnalyzeTrends(observations)

	require.Len(t, trends, 1)
	assert.Equal(t, models.TrendStable, trends[0].Direction)
	assert.InDelta(t, 0.0, trends[0].ChangePct, 1e-9)
}

func TestAnalyzeTrendsSkipsShortSeries(t *testing.T) {
	analyzer := testTrendAnalyzer(6)
	observations := monthly("aden", 2022, time.January, 10, 11)

	trends := analyzer.AnalyzeTrends(observations)

	assert.NotNil(t, trends)
	assert.Empty(t, trends)
}

func TestAnalyzeTrendsMultipleRegionsSorted(t *testing.T) {
	analyzer := testTrendAnalyzer(3)
	observations := append(
		monthly("taiz", 2022, time.January, 20, 21, 22, 23),
		monthly("aden", 2022, time.January, 10, 11, 12, 13)...,
	)

	trends := analyzer.AnalyzeTrends(observations)

	require.Len(t, trends, 2)
	assert.Equal(t, "aden", trends[0].Region)
	assert.Equal(t, "taiz", trends[1].Region)
}

func TestAnalyzeTrendsDropsInvalidObservations(t *testing.T) {
	analyzer := testTrendAnalyzer(3)
	observations := monthly("aden", 2022, time.January, 10, 11, 12, 13)
	observations = append(observations,
		models.Observation{Region: "aden", Timestamp: time.Now(), Price: -5},
		models.Observation{Region: "", Timestamp: time.Now(), Price: 10},
	)

	trends := analyzer.AnalyzeTrends(observations)

	require.Len(t, trends, 1)
	assert.Equal(t, 4, trends[0].Observations)
}
