package services

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/numeric"
)

// Strength-index component weights. The ratio of the smaller to the larger
// magnitude dominates, with the correlation product and the capped magnitude
// product sharing the rest.
const (
	strengthRatioWeight       = 0.4
	strengthCorrelationWeight = 0.3
	strengthMagnitudeWeight   = 0.3
)

// PropagationAnalyzer links each temporal bucket's dominant shock to
// co-occurring shocks in spatially correlated regions, producing directional
// propagation paths with derived strength metrics.
type PropagationAnalyzer struct {
	logger *logrus.Logger
}

// NewPropagationAnalyzer creates a propagation analyzer.
func NewPropagationAnalyzer(logger *logrus.Logger) *PropagationAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &PropagationAnalyzer{logger: logger}
}

// AnalyzePropagation groups shocks by calendar month, picks a primary shock
// per group by spatially-weighted magnitude, and emits a path from the
// primary to every co-occurring shock whose region, like the primary's, has
// strictly positive local autocorrelation. Positive local autocorrelation is
// the gate that keeps distant, uncorrelated shocks in the same month from
// being linked. Missing spatial input is an insufficient-data condition and
// yields an empty result, not an error.
func (a *PropagationAnalyzer) AnalyzePropagation(shocks []models.Shock, spatial *models.SpatialCorrelation) models.PropagationResult {
	result := models.PropagationResult{Paths: []models.PropagationPath{}}

	if len(shocks) == 0 || !spatial.Valid() {
		a.logger.Debug("Propagation analysis skipped: no shocks or spatial data")
		return result
	}

	buckets := make(map[string][]models.Shock)
	for _, s := range shocks {
		key := s.Date.Format("2006-01")
		buckets[key] = append(buckets[key], s)
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	totalDays := 0.0
	totalStrength := 0.0

	for _, month := range months {
		group := buckets[month]
		if len(group) < 2 {
			continue
		}

		sorted := orderShocks(group)
		primaryIdx := a.primaryIndex(sorted, spatial)
		primary := sorted[primaryIdx]
		primaryCorr := spatial.LocalIFor(primary.Region)
		if primaryCorr <= 0 {
			continue
		}

		for i, other := range sorted {
			// Only the primary itself is excluded; a distinct shock sharing
			// its region and day is still a valid target.
			if i == primaryIdx {
				continue
			}
			otherCorr := spatial.LocalIFor(other.Region)
			if otherCorr <= 0 {
				continue
			}

			days := math.Abs(other.Date.Sub(primary.Date).Hours() / 24)
			strength := strengthIndex(primary.Magnitude, other.Magnitude, primaryCorr, otherCorr)

			result.Paths = append(result.Paths, models.PropagationPath{
				Source: models.PathEndpoint{
					Region:      primary.Region,
					Date:        primary.Date,
					Magnitude:   primary.Magnitude,
					Correlation: primaryCorr,
				},
				Target: models.PathEndpoint{
					Region:      other.Region,
					Date:        other.Date,
					Magnitude:   other.Magnitude,
					Correlation: otherCorr,
				},
				PropagationTimeDays: days,
				StrengthIndex:       strength,
			})
			totalDays += days
			totalStrength += strength
		}
	}

	n := float64(len(shocks))
	pathCount := len(result.Paths)
	result.Metrics = models.PropagationMetrics{
		PathCount:          pathCount,
		AvgPropagationDays: numeric.SafeDivide(totalDays, float64(pathCount), 0),
		PathDensity:        numeric.SafeDivide(float64(pathCount), n*(n-1)/2, 0),
		AvgStrength:        numeric.SafeDivide(totalStrength, float64(pathCount), 0),
	}

	return result
}

// orderShocks returns a copy of the group under a total order, so bucket
// processing is independent of input ordering even when shocks share a region
// and day.
func orderShocks(group []models.Shock) []models.Shock {
	sorted := make([]models.Shock, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Region != sorted[j].Region {
			return sorted[i].Region < sorted[j].Region
		}
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].PriceChange < sorted[j].PriceChange
	})
	return sorted
}

// primaryIndex returns the index of the shock with the highest spatially-
// weighted magnitude. Regions without a local indicator carry weight 1. Ties
// resolve to the earliest index in the ordered group.
func (a *PropagationAnalyzer) primaryIndex(sorted []models.Shock, spatial *models.SpatialCorrelation) int {
	best := 0
	bestWeighted := weightedMagnitude(sorted[0], spatial)
	for i, s := range sorted[1:] {
		if w := weightedMagnitude(s, spatial); w > bestWeighted {
			best = i + 1
			bestWeighted = w
		}
	}
	return best
}

func weightedMagnitude(s models.Shock, spatial *models.SpatialCorrelation) float64 {
	weight := 1.0
	if spatial.HasLocal(s.Region) {
		weight = spatial.LocalIFor(s.Region)
	}
	return s.Magnitude * weight
}

// strengthIndex scores a path on [0,1] from the magnitude ratio, the product
// of the two local correlations, and a capped magnitude product. Magnitudes
// enter the product term on the ratio scale so the cap stays meaningful.
func strengthIndex(magSource, magTarget, corrSource, corrTarget float64) float64 {
	lo, hi := magSource, magTarget
	if lo > hi {
		lo, hi = hi, lo
	}
	ratio := numeric.SafeDivide(lo, hi, 0)

	correlation := math.Abs(corrSource * corrTarget)

	product := (magSource / MagnitudeScale) * (magTarget / MagnitudeScale) / 2
	if product > 1 {
		product = 1
	}

	score := strengthRatioWeight*ratio +
		strengthCorrelationWeight*correlation +
		strengthMagnitudeWeight*product

	return numeric.Clamp(score, 0, 1)
}
