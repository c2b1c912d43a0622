package services

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/numeric"
)

// MagnitudeScale converts relative price deviations to the unit shocks are
// reported in. Magnitudes are percentages throughout the pipeline; the
// detection threshold stays a 0-1 ratio.
const MagnitudeScale = 100.0

// ShockDetector walks time-ordered price series per region and emits a shock
// whenever the relative deviation from the rolling robust baseline exceeds
// the caller's threshold.
type ShockDetector struct {
	window int
	logger *logrus.Logger
}

// NewShockDetector creates a detector with the given baseline window size.
// Window sizes below 1 fall back to DefaultBaselineWindow.
func NewShockDetector(window int, logger *logrus.Logger) *ShockDetector {
	if window < 1 {
		window = DefaultBaselineWindow
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &ShockDetector{
		window: window,
		logger: logger,
	}
}

// DetectShocks scans observations for anomalous price movements relative to
// each region's rolling baseline. Malformed observations are dropped;
// empty or entirely invalid input yields an empty, non-nil slice. The result
// is sorted by (region, date) and is identical across runs for identical
// input, regardless of input ordering.
func (d *ShockDetector) DetectShocks(observations []models.Observation, threshold float64) []models.Shock {
	shocks := []models.Shock{}
	if len(observations) == 0 {
		return shocks
	}

	threshold = numeric.ValidateNumber(threshold, 0, numeric.DefaultOptions())

	byRegion := make(map[string][]models.Observation)
	dropped := 0
	for _, obs := range observations {
		if !d.validObservation(obs) {
			dropped++
			continue
		}
		byRegion[obs.Region] = append(byRegion[obs.Region], obs)
	}
	if dropped > 0 {
		d.logger.WithField("dropped", dropped).Debug("Skipped malformed observations")
	}

	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	for _, region := range regions {
		series := byRegion[region]
		// Total order over the record values: same-day observations from
		// multiple feeds must not leave the series order input-dependent.
		sort.Slice(series, func(i, j int) bool {
			if !series[i].Timestamp.Equal(series[j].Timestamp) {
				return series[i].Timestamp.Before(series[j].Timestamp)
			}
			if series[i].Price != series[j].Price {
				return series[i].Price < series[j].Price
			}
			return series[i].ConflictIntensity < series[j].ConflictIntensity
		})
		shocks = append(shocks, d.detectRegionShocks(region, series, threshold)...)
	}

	sort.Slice(shocks, func(i, j int) bool {
		if shocks[i].Region != shocks[j].Region {
			return shocks[i].Region < shocks[j].Region
		}
		if !shocks[i].Date.Equal(shocks[j].Date) {
			return shocks[i].Date.Before(shocks[j].Date)
		}
		return shocks[i].PriceChange < shocks[j].PriceChange
	})

	return shocks
}

// detectRegionShocks slides the baseline window over one region's sorted
// series.
func (d *ShockDetector) detectRegionShocks(region string, series []models.Observation, threshold float64) []models.Shock {
	var shocks []models.Shock

	for i := d.window; i < len(series); i++ {
		window := series[i-d.window : i]
		prices := make([]float64, len(window))
		for k, obs := range window {
			prices[k] = obs.Price
		}

		baseline := RobustBaseline(prices)
		if baseline == 0 {
			// Relative change against a zero baseline is undefined.
			continue
		}

		change := (series[i].Price - baseline) / baseline
		if math.Abs(change) < threshold {
			continue
		}

		shockType := models.ShockTypePriceDrop
		if change > 0 {
			shockType = models.ShockTypePriceSurge
		}

		shocks = append(shocks, models.Shock{
			Region:      region,
			Date:        canonicalDay(series[i].Timestamp),
			Magnitude:   math.Abs(change) * MagnitudeScale,
			ShockType:   shockType,
			PriceChange: change * MagnitudeScale,
			BaselinePrice: numeric.ValidateNumber(baseline, 0,
				numeric.DefaultOptions()),
			CurrentPrice: series[i].Price,
			BaselinePeriod: models.Period{
				Start: canonicalDay(window[0].Timestamp),
				End:   canonicalDay(window[len(window)-1].Timestamp),
			},
			ConflictIntensity: numeric.ValidateNumber(series[i].ConflictIntensity, 0,
				numeric.DefaultOptions()),
		})
	}

	return shocks
}

// validObservation filters records missing region, price, or timestamp.
func (d *ShockDetector) validObservation(obs models.Observation) bool {
	if obs.Region == "" || obs.Timestamp.IsZero() {
		return false
	}
	return numeric.Finite(obs.Price) && obs.Price > 0
}

// canonicalDay normalizes a timestamp to UTC midnight so shocks from
// differently-sourced feeds land on the same calendar day.
func canonicalDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
