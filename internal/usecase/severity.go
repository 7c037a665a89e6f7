package usecase

import (
	"strings"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// Level is an alert severity, ordered none < low < medium < high.
type Level int

const (
	LevelNone Level = iota
	LevelLow
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return "none"
	}
}

// Label is the upper-case form used in messages and keys.
func (l Level) Label() string {
	return strings.ToUpper(l.String())
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Direction tells which way a metric gets worse.
type Direction int

const (
	IncreasingBad Direction = iota
	DecreasingBad
)

var metricDirections = map[domain.MetricKind]Direction{
	domain.MetricProfit:        IncreasingBad,
	domain.MetricTravelPercent: DecreasingBad,
}

func DirectionOf(kind domain.MetricKind) Direction {
	if d, ok := metricDirections[kind]; ok {
		return d
	}
	return IncreasingBad
}

// Classify maps a value onto the deepest band it reaches. Boundaries are
// inclusive: for IncreasingBad a value equal to Low is already LevelLow, for
// DecreasingBad a value equal to High is already LevelHigh.
func Classify(value float64, t domain.RangeThresholds, dir Direction) Level {
	reached := func(boundary float64) bool {
		if dir == DecreasingBad {
			return value <= boundary
		}
		return value >= boundary
	}

	switch {
	case reached(t.High):
		return LevelHigh
	case reached(t.Medium):
		return LevelMedium
	case reached(t.Low):
		return LevelLow
	default:
		return LevelNone
	}
}
