package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/config"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
)

// MarketAnalyzer runs the full shock analysis pipeline for one commodity:
// detection, summary statistics, propagation paths and clusters. Each public
// method is a deterministic function of its inputs; the analyzer itself
// holds no state between calls.
type MarketAnalyzer struct {
	detector    *ShockDetector
	propagation *PropagationAnalyzer
	clusters    *ClusterBuilder
	trends      *TrendAnalyzer
	logger      *logrus.Logger
}

// NewMarketAnalyzer wires the pipeline from configuration.
func NewMarketAnalyzer(cfg *config.Config, logger *logrus.Logger) *MarketAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &MarketAnalyzer{
		detector:    NewShockDetector(cfg.Analysis.BaselineWindow, logger),
		propagation: NewPropagationAnalyzer(logger),
		clusters:    NewClusterBuilder(cfg.Analysis.ClusterWindowDays, logger),
		trends:      NewTrendAnalyzer(cfg.Analysis.TrendPeriod, logger),
		logger:      logger,
	}
}

// Detector exposes the shock detector for callers that only need detection.
func (m *MarketAnalyzer) Detector() *ShockDetector { return m.detector }

// Propagation exposes the propagation analyzer.
func (m *MarketAnalyzer) Propagation() *PropagationAnalyzer { return m.propagation }

// Clusters exposes the cluster builder.
func (m *MarketAnalyzer) Clusters() *ClusterBuilder { return m.clusters }

// Trends exposes the trend analyzer.
func (m *MarketAnalyzer) Trends() *TrendAnalyzer { return m.trends }

// Analyze runs the whole pipeline and wraps the results in a report envelope.
func (m *MarketAnalyzer) Analyze(commodity string, observations []models.Observation, spatial *models.SpatialCorrelation, threshold float64) models.AnalysisReport {
	start := time.Now()

	shocks := m.detector.DetectShocks(observations, threshold)
	report := models.AnalysisReport{
		ID:          uuid.New().String(),
		Commodity:   commodity,
		Threshold:   threshold,
		Shocks:      shocks,
		Stats:       SummarizeShocks(shocks),
		Propagation: m.propagation.AnalyzePropagation(shocks, spatial),
		Clusters:    m.clusters.BuildClusters(shocks, spatial),
		GeneratedAt: time.Now().UTC(),
	}

	m.logger.WithFields(logrus.Fields{
		"commodity":   commodity,
		"shocks":      len(report.Shocks),
		"paths":       report.Propagation.Metrics.PathCount,
		"clusters":    report.Clusters.Metrics.TotalClusters,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Market shock analysis completed")

	return report
}
