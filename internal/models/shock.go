package models

import (
	"time"
)

// ShockType classifies the direction of a detected price shock
type ShockType string

const (
	ShockTypePriceSurge ShockType = "price_surge"
	ShockTypePriceDrop  ShockType = "price_drop"
)

// Period is a closed date interval.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Shock is a detected, statistically large relative price deviation for one
// region at one point in time. Shocks are immutable once created by the
// detector; Magnitude and PriceChange are expressed in percent and satisfy
// Magnitude == |PriceChange|.
type Shock struct {
	Region            string    `json:"region"`
	Date              time.Time `json:"date"`
	Magnitude         float64   `json:"magnitude"`
	ShockType         ShockType `json:"shock_type"`
	PriceChange       float64   `json:"price_change"`
	BaselinePrice     float64   `json:"baseline_price"`
	CurrentPrice      float64   `json:"current_price"`
	BaselinePeriod    Period    `json:"baseline_period"`
	ConflictIntensity float64   `json:"conflict_intensity,omitempty"`
}

// ShockStats summarizes a shock set for legend and summary panels.
type ShockStats struct {
	Total                int               `json:"total"`
	MaxMagnitude         float64           `json:"max_magnitude"`
	AvgMagnitude         float64           `json:"avg_magnitude"`
	ShockTypeCounts      map[ShockType]int `json:"shock_type_counts"`
	RegionsAffected      int               `json:"regions_affected"`
	TemporalDistribution map[string]int    `json:"temporal_distribution"`
}

// PathEndpoint describes one end of a propagation path.
type PathEndpoint struct {
	Region      string    `json:"region"`
	Date        time.Time `json:"date"`
	Magnitude   float64   `json:"magnitude"`
	Correlation float64   `json:"correlation"`
}

// PropagationPath is an inferred directional link between two regions' shocks
// occurring close in time, both with positive local autocorrelation.
type PropagationPath struct {
	Source              PathEndpoint `json:"source"`
	Target              PathEndpoint `json:"target"`
	PropagationTimeDays float64      `json:"propagation_time_days"`
	StrengthIndex       float64      `json:"strength_index"`
}

// PropagationMetrics summarizes a propagation analysis.
type PropagationMetrics struct {
	PathCount          int     `json:"path_count"`
	AvgPropagationDays float64 `json:"avg_propagation_days"`
	PathDensity        float64 `json:"path_density"`
	AvgStrength        float64 `json:"avg_strength"`
}

// PropagationResult bundles paths and derived metrics.
type PropagationResult struct {
	Paths   []PropagationPath  `json:"paths"`
	Metrics PropagationMetrics `json:"metrics"`
}

// Cluster is a connected group of shocks linked transitively by temporal
// proximity and positive spatial correlation. Lifecycle is a single analysis
// pass: built, consumed, discarded.
type Cluster struct {
	Shocks           []Shock   `json:"shocks"`
	Regions          []string  `json:"regions"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Intensity        float64   `json:"intensity"`
	AverageIntensity float64   `json:"average_intensity"`
	DurationDays     float64   `json:"duration_days"`
}

// ClusterMetrics aggregates a cluster set.
type ClusterMetrics struct {
	TotalClusters      int     `json:"total_clusters"`
	AverageClusterSize float64 `json:"average_cluster_size"`
	MaxClusterSize     int     `json:"max_cluster_size"`
	ClusterCoverage    float64 `json:"cluster_coverage"`
	AverageIntensity   float64 `json:"average_intensity"`
}

// ClusterResult bundles clusters and aggregate metrics.
type ClusterResult struct {
	Clusters []Cluster      `json:"clusters"`
	Metrics  ClusterMetrics `json:"metrics"`
}
