package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"github.com/vitos/crypto_alert_monitor/internal/usecase"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		ranges domain.RangeThresholds
		dir    usecase.Direction
		want   usecase.Level
	}{
		{"profit below low", 24.99, profitRanges, usecase.IncreasingBad, usecase.LevelNone},
		{"profit at low", 25, profitRanges, usecase.IncreasingBad, usecase.LevelLow},
		{"profit between medium and high", 74.9, profitRanges, usecase.IncreasingBad, usecase.LevelMedium},
		{"profit at high", 75, profitRanges, usecase.IncreasingBad, usecase.LevelHigh},
		{"travel above low", -24, travelRanges, usecase.DecreasingBad, usecase.LevelNone},
		{"travel at low", -25, travelRanges, usecase.DecreasingBad, usecase.LevelLow},
		{"travel at medium", -50, travelRanges, usecase.DecreasingBad, usecase.LevelMedium},
		{"travel past high", -80, travelRanges, usecase.DecreasingBad, usecase.LevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.Classify(tt.value, tt.ranges, tt.dir))
		})
	}
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, usecase.IncreasingBad, usecase.DirectionOf(domain.MetricProfit))
	assert.Equal(t, usecase.DecreasingBad, usecase.DirectionOf(domain.MetricTravelPercent))
	assert.Equal(t, usecase.IncreasingBad, usecase.DirectionOf(domain.MetricKind("size")))
}

func TestLevelLabels(t *testing.T) {
	assert.Equal(t, "none", usecase.LevelNone.String())
	assert.Equal(t, "MEDIUM", usecase.LevelMedium.Label())
	assert.True(t, usecase.LevelLow < usecase.LevelMedium && usecase.LevelMedium < usecase.LevelHigh)
}
