package domain

import "time"

type MetricKind string

const (
	MetricProfit        MetricKind = "profit"
	MetricTravelPercent MetricKind = "travel"
	MetricSwing         MetricKind = "swing"
	MetricBlast         MetricKind = "blast"
	MetricPrice         MetricKind = "price"
)

// RangeThresholds holds ordered low/medium/high boundaries for a banded metric.
type RangeThresholds struct {
	Enabled bool    `json:"enabled"`
	Low     float64 `json:"low"`
	Medium  float64 `json:"medium"`
	High    float64 `json:"high"`
}

// ExceedThresholds holds a single boundary per asset for a binary metric.
type ExceedThresholds struct {
	Enabled bool               `json:"enabled"`
	Default float64            `json:"default"`
	Assets  map[string]float64 `json:"assets,omitempty"`
}

// Boundary returns the asset-specific boundary, falling back to Default.
func (t ExceedThresholds) Boundary(asset string) float64 {
	if v, ok := t.Assets[NormalizeAsset(asset)]; ok {
		return v
	}
	return t.Default
}

// ThresholdConfig is an immutable snapshot read once per cycle.
type ThresholdConfig struct {
	MonitorEnabled bool
	Cooldown       time.Duration
	Profit         RangeThresholds
	TravelPercent  RangeThresholds
	Swing          ExceedThresholds
	Blast          ExceedThresholds
}
