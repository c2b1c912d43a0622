package services

import (
	"sort"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/sirupsen/logrus"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/numeric"
)

// DefaultTrendPeriod is the lookback used for the moving-average and RSI
// indicators in the regional trend summary.
const DefaultTrendPeriod = 6

// TrendAnalyzer summarizes the recent direction of each region's price
// series for the trend panels.
type TrendAnalyzer struct {
	period int
	logger *logrus.Logger
}

// NewTrendAnalyzer creates a trend analyzer with the given indicator period.
func NewTrendAnalyzer(period int, logger *logrus.Logger) *TrendAnalyzer {
	if period < 2 {
		period = DefaultTrendPeriod
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &TrendAnalyzer{
		period: period,
		logger: logger,
	}
}

// AnalyzeTrends computes SMA, EMA and RSI per region and classifies the
// direction of the latest price relative to its moving average. Regions with
// fewer observations than the indicator period are skipped. The result is
// sorted by region.
func (t *TrendAnalyzer) AnalyzeTrends(observations []models.Observation) []models.RegionTrend {
	trends := []models.RegionTrend{}
	if len(observations) == 0 {
		return trends
	}

	byRegion := make(map[string][]models.Observation)
	for _, obs := range observations {
		if obs.Region == "" || obs.Timestamp.IsZero() || !numeric.Finite(obs.Price) || obs.Price <= 0 {
			continue
		}
		byRegion[obs.Region] = append(byRegion[obs.Region], obs)
	}

	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	for _, region := range regions {
		series := byRegion[region]
		if len(series) < t.period {
			t.logger.WithFields(logrus.Fields{
				"region":       region,
				"observations": len(series),
			}).Debug("Skipping trend: insufficient observations")
			continue
		}

		sort.Slice(series, func(i, j int) bool {
			return series[i].Timestamp.Before(series[j].Timestamp)
		})

		prices := make([]float64, len(series))
		for i, obs := range series {
			prices[i] = obs.Price
		}

		trends = append(trends, t.regionTrend(region, prices))
	}

	return trends
}

func (t *TrendAnalyzer) regionTrend(region string, prices []float64) models.RegionTrend {
	smaIndicator := trend.NewSmaWithPeriod[float64](t.period)
	emaIndicator := trend.NewEmaWithPeriod[float64](t.period)
	rsiIndicator := momentum.NewRsiWithPeriod[float64](t.period)

	sma := helper.ChanToSlice(smaIndicator.Compute(helper.SliceToChan(prices)))
	ema := helper.ChanToSlice(emaIndicator.Compute(helper.SliceToChan(prices)))
	rsi := helper.ChanToSlice(rsiIndicator.Compute(helper.SliceToChan(prices)))

	latest := prices[len(prices)-1]
	latestSMA := last(sma)
	latestEMA := last(ema)
	latestRSI := last(rsi)

	changePct := numeric.SafeDivide(latest-latestSMA, latestSMA, 0) * MagnitudeScale

	direction := models.TrendStable
	switch {
	case changePct > 1:
		direction = models.TrendRising
	case changePct < -1:
		direction = models.TrendFalling
	}

	return models.RegionTrend{
		Region:       region,
		Direction:    direction,
		SMA:          latestSMA,
		EMA:          latestEMA,
		RSI:          latestRSI,
		LatestPrice:  latest,
		ChangePct:    changePct,
		Observations: len(prices),
	}
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
