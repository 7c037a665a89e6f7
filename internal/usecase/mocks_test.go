package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// MockSource
type MockSource struct {
	Positions    []*domain.Position
	Alerts       []*domain.PriceAlert
	Prices       map[string]float64
	PositionsErr error
	AlertsErr    error
	PriceErr     map[string]error
}

func (m *MockSource) ListPositions(ctx context.Context) ([]*domain.Position, error) {
	return m.Positions, m.PositionsErr
}

func (m *MockSource) ListActivePriceAlerts(ctx context.Context) ([]*domain.PriceAlert, error) {
	return m.Alerts, m.AlertsErr
}

func (m *MockSource) LatestPrice(ctx context.Context, asset string) (*domain.PriceSnapshot, error) {
	if err := m.PriceErr[asset]; err != nil {
		return nil, err
	}
	p, ok := m.Prices[asset]
	if !ok {
		return nil, nil
	}
	return &domain.PriceSnapshot{AssetType: asset, CurrentPrice: p}, nil
}

// MockThresholds
type MockThresholds struct {
	Config *domain.ThresholdConfig
	Err    error
	Calls  int
}

func (m *MockThresholds) LoadThresholds() (*domain.ThresholdConfig, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	cp := *m.Config
	return &cp, nil
}

// MockNotifier
type MockNotifier struct {
	mu     sync.Mutex
	Bodies []string
	Err    error
	Delay  time.Duration
}

func (m *MockNotifier) Send(ctx context.Context, body string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.Bodies = append(m.Bodies, body)
	return "SID", nil
}

func (m *MockNotifier) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Bodies...)
}

// MockRecorder
type MockRecorder struct {
	Saved []*domain.CycleSummary
	Err   error
}

func (m *MockRecorder) SaveCycle(ctx context.Context, s *domain.CycleSummary) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *s
	m.Saved = append(m.Saved, &cp)
	return nil
}

func (m *MockRecorder) ListCycles(ctx context.Context, limit int) ([]*domain.CycleSummary, error) {
	return m.Saved, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	profitRanges = domain.RangeThresholds{Enabled: true, Low: 25, Medium: 50, High: 75}
	travelRanges = domain.RangeThresholds{Enabled: true, Low: -25, Medium: -50, High: -75}
)

func btcLong(id string) *domain.Position {
	return &domain.Position{ID: id, AssetType: "BTC", PositionType: domain.PositionLong, WalletName: "R2Vault"}
}
