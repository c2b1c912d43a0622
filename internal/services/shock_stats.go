package services

import (
	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/numeric"
)

// SummarizeShocks condenses a shock set into the counts and distributions the
// legend and summary panels render. Empty input yields the canonical zero
// result with non-nil maps, never nil fields. Type counts are built from the
// data itself, so previously unseen shock types are counted like any other.
func SummarizeShocks(shocks []models.Shock) models.ShockStats {
	stats := models.ShockStats{
		ShockTypeCounts:      make(map[models.ShockType]int),
		TemporalDistribution: make(map[string]int),
	}
	if len(shocks) == 0 {
		return stats
	}

	regions := make(map[string]struct{})
	totalMagnitude := 0.0

	for _, s := range shocks {
		stats.Total++
		magnitude := numeric.ValidateNumber(s.Magnitude, 0, numeric.DefaultOptions())
		totalMagnitude += magnitude
		if magnitude > stats.MaxMagnitude {
			stats.MaxMagnitude = magnitude
		}
		stats.ShockTypeCounts[s.ShockType]++
		regions[s.Region] = struct{}{}
		stats.TemporalDistribution[s.Date.Format("2006-01")]++
	}

	stats.AvgMagnitude = numeric.SafeDivide(totalMagnitude, float64(stats.Total), 0)
	stats.RegionsAffected = len(regions)

	return stats
}
