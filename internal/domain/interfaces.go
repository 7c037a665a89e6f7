package domain

import "context"

// MetricSource supplies the records evaluated each cycle.
type MetricSource interface {
	ListPositions(ctx context.Context) ([]*Position, error)
	ListActivePriceAlerts(ctx context.Context) ([]*PriceAlert, error)
	// LatestPrice returns nil without error when no price is known.
	LatestPrice(ctx context.Context, asset string) (*PriceSnapshot, error)
}

// ThresholdLoader returns a fresh threshold snapshot on every call.
type ThresholdLoader interface {
	LoadThresholds() (*ThresholdConfig, error)
}

// CycleRecorder keeps a history of non-empty cycles.
type CycleRecorder interface {
	SaveCycle(ctx context.Context, summary *CycleSummary) error
	ListCycles(ctx context.Context, limit int) ([]*CycleSummary, error)
}

// Notifier delivers one message over an external transport and returns the
// transport's reference for it.
type Notifier interface {
	Send(ctx context.Context, body string) (string, error)
}
