package models

import (
	"time"
)

// TrendDirection classifies the recent movement of a region's price series.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

// RegionTrend summarizes the price trend for one region.
type RegionTrend struct {
	Region       string         `json:"region"`
	Direction    TrendDirection `json:"direction"`
	SMA          float64        `json:"sma"`
	EMA          float64        `json:"ema"`
	RSI          float64        `json:"rsi"`
	LatestPrice  float64        `json:"latest_price"`
	ChangePct    float64        `json:"change_pct"`
	Observations int            `json:"observations"`
}

// AnalysisReport is the envelope returned for one full analysis pass over a
// commodity. It carries everything the presentation layer renders.
type AnalysisReport struct {
	ID          string            `json:"id"`
	Commodity   string            `json:"commodity"`
	Threshold   float64           `json:"threshold"`
	Shocks      []Shock           `json:"shocks"`
	Stats       ShockStats        `json:"stats"`
	Propagation PropagationResult `json:"propagation"`
	Clusters    ClusterResult     `json:"clusters"`
	GeneratedAt time.Time         `json:"generated_at"`
}
