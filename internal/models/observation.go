package models

import (
	"time"
)

// Observation represents a single commodity price reading for one market
// region. Observations are produced by the data-fetch layer and are read-only
// to the analysis engine.
type Observation struct {
	Region            string    `json:"region" db:"region"`
	Timestamp         time.Time `json:"timestamp" db:"timestamp"`
	Price             float64   `json:"price" db:"price"`
	ConflictIntensity float64   `json:"conflict_intensity,omitempty" db:"conflict_intensity"`
}

// LocalIndicator holds the local spatial autocorrelation statistic for one
// region (local Moran's I, computed upstream).
type LocalIndicator struct {
	LocalI float64 `json:"local_i"`
}

// SpatialCorrelation is the spatial-autocorrelation structure supplied by the
// spatial-statistics collaborator. A region absent from Local is treated as
// correlation 0 (non-significant, non-propagating).
type SpatialCorrelation struct {
	GlobalI float64                   `json:"global_i"`
	Local   map[string]LocalIndicator `json:"local"`
}

// LocalIFor returns the local autocorrelation for a region, or 0 when the
// region has no entry.
func (s *SpatialCorrelation) LocalIFor(region string) float64 {
	if s == nil || s.Local == nil {
		return 0
	}
	return s.Local[region].LocalI
}

// HasLocal reports whether a local indicator exists for the region.
func (s *SpatialCorrelation) HasLocal(region string) bool {
	if s == nil || s.Local == nil {
		return false
	}
	_, ok := s.Local[region]
	return ok
}

// Valid reports whether the structure carries any usable local indicators.
func (s *SpatialCorrelation) Valid() bool {
	return s != nil && len(s.Local) > 0
}
