package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"github.com/vitos/crypto_alert_monitor/internal/usecase"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type countingObserver struct {
	mu         sync.Mutex
	cycles     map[string]int
	fired      map[domain.MetricKind]int
	suppressed map[domain.MetricKind]int
	fieldErrs  map[domain.MetricKind]int
	dispatch   map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		cycles:     map[string]int{},
		fired:      map[domain.MetricKind]int{},
		suppressed: map[domain.MetricKind]int{},
		fieldErrs:  map[domain.MetricKind]int{},
		dispatch:   map[string]int{},
	}
}

func (o *countingObserver) CycleCompleted(source string, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cycles[source]++
}

func (o *countingObserver) AlertFired(m domain.MetricKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fired[m]++
}

func (o *countingObserver) AlertSuppressed(m domain.MetricKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.suppressed[m]++
}

func (o *countingObserver) FieldError(m domain.MetricKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fieldErrs[m]++
}

func (o *countingObserver) DispatchResult(r string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dispatch[r]++
}

type engineFixture struct {
	engine     *usecase.AlertEngine
	source     *MockSource
	thresholds *MockThresholds
	notifier   *MockNotifier
	recorder   *MockRecorder
	clock      *fakeClock
	observer   *countingObserver
}

func newEngineFixture(t *testing.T, refractory time.Duration) *engineFixture {
	t.Helper()

	pos := btcLong("42")
	pos.Profit = domain.Number(80)

	f := &engineFixture{
		source: &MockSource{
			Positions: []*domain.Position{pos},
			Alerts:    []*domain.PriceAlert{ethAlert(domain.ConditionAbove, 3000)},
			Prices:    map[string]float64{"ETH": 3100},
		},
		thresholds: &MockThresholds{Config: &domain.ThresholdConfig{
			MonitorEnabled: true,
			Cooldown:       15 * time.Minute,
			Profit:         profitRanges,
			TravelPercent:  travelRanges,
		}},
		notifier: &MockNotifier{},
		recorder: &MockRecorder{},
		clock:    newFakeClock(),
		observer: newCountingObserver(),
	}

	logger := zaptest.NewLogger(t)
	dispatcher := usecase.NewCallDispatcher(f.notifier, refractory, time.Second, logger)
	dispatcher.SetClock(f.clock.Now)
	dispatcher.SetObserver(f.observer)

	f.engine = usecase.NewAlertEngine(f.source, f.thresholds, dispatcher, nil, logger)
	f.engine.SetClock(f.clock.Now)
	f.engine.SetRecorder(f.recorder)
	f.engine.SetObserver(f.observer)
	return f
}

func TestAlertEngine_AggregatesOneNotification(t *testing.T) {
	f := newEngineFixture(t, time.Hour)

	summary := f.engine.RunCycle(context.Background(), "timer")

	assert.Equal(t, 2, summary.Count)
	assert.True(t, summary.Dispatched)
	assert.Empty(t, summary.DispatchErr)
	assert.Equal(t, "timer", summary.Source)
	assert.NotEmpty(t, summary.ID)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0], "2 alerts triggered:\n"))
	assert.Equal(t, usecase.AggregateMessage(summary.Messages), sent[0])
	assert.Equal(t, []string{
		"Profit ALERT: Bitcoin Long profit of 80.00 (Level: HIGH)",
		"Price ALERT: Ethereum - Condition: ABOVE, Trigger: 3000, Current: 3100",
	}, summary.Messages)

	require.Len(t, f.recorder.Saved, 1)
	assert.Equal(t, summary.ID, f.recorder.Saved[0].ID)
	assert.Equal(t, 1, f.observer.dispatch[usecase.DispatchSent])
	assert.Equal(t, 1, f.observer.fired[domain.MetricProfit])
	assert.Equal(t, 1, f.observer.fired[domain.MetricPrice])
}

func TestAlertEngine_ImmediateSecondCycleIsQuiet(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	ctx := context.Background()

	f.engine.RunCycle(ctx, "timer")
	f.clock.Advance(time.Second)
	second := f.engine.RunCycle(ctx, "timer")

	assert.Equal(t, 0, second.Count)
	assert.False(t, second.Dispatched)
	assert.Len(t, f.notifier.Sent(), 1)
	assert.Len(t, f.recorder.Saved, 1, "empty cycles are not recorded")
	assert.Equal(t, 1, f.observer.suppressed[domain.MetricPrice])
	assert.Equal(t, 2, f.observer.cycles["timer"])
}

func TestAlertEngine_RefractorySuppressesLaterCycle(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	ctx := context.Background()

	f.engine.RunCycle(ctx, "timer")
	f.clock.Advance(16 * time.Minute) // price cooldown over, refractory not

	summary := f.engine.RunCycle(ctx, "timer")
	assert.Equal(t, 1, summary.Count)
	assert.False(t, summary.Dispatched)
	assert.Empty(t, summary.DispatchErr)
	assert.Len(t, f.notifier.Sent(), 1)
	assert.Equal(t, 1, f.observer.dispatch[usecase.DispatchSuppressed])
}

func TestAlertEngine_MalformedFieldDoesNotBlockOthers(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	f.source.Positions[0].Profit = domain.RawNumber("abc")
	f.source.Positions[0].CurrentTravelPercent = domain.Number(-60)

	summary := f.engine.RunCycle(context.Background(), "")

	assert.Equal(t, "manual", summary.Source)
	assert.Equal(t, 2, summary.Count)
	assert.Contains(t, summary.Messages[0], "Travel Percent Liquid ALERT")
	assert.Contains(t, summary.Messages[1], "Price ALERT")
	assert.Equal(t, 1, f.observer.fieldErrs[domain.MetricProfit])
}

func TestAlertEngine_MonitorDisabled(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	f.thresholds.Config.MonitorEnabled = false

	summary := f.engine.RunCycle(context.Background(), "timer")

	assert.Equal(t, 0, summary.Count)
	assert.Empty(t, f.notifier.Sent())
	assert.Empty(t, f.engine.State().Snapshot())
}

func TestAlertEngine_ThresholdLoadFailureKeepsPriceAlerts(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	f.thresholds.Err = errors.New("config unreadable")

	summary := f.engine.RunCycle(context.Background(), "timer")

	require.Equal(t, 1, summary.Count)
	assert.Contains(t, summary.Messages[0], "Price ALERT")
	assert.Equal(t, 1, f.thresholds.Calls)
}

func TestAlertEngine_ThresholdsReloadedEachCycle(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	ctx := context.Background()

	f.engine.RunCycle(ctx, "timer")
	f.engine.RunCycle(ctx, "api")
	assert.Equal(t, 2, f.thresholds.Calls)
}

func TestAlertEngine_DispatchErrorReported(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	f.notifier.Err = errors.New("twilio 500")

	summary := f.engine.RunCycle(context.Background(), "timer")

	assert.Equal(t, 2, summary.Count)
	assert.False(t, summary.Dispatched)
	assert.Contains(t, summary.DispatchErr, "twilio 500")
	assert.Equal(t, 1, f.observer.dispatch[usecase.DispatchFailed])

	_, ok := f.engine.State().LastTriggered(usecase.PriceKey(f.source.Alerts[0]))
	assert.True(t, ok, "alert state advances regardless of delivery")
}

func TestAlertEngine_SourceErrorsAreContained(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	f.source.PositionsErr = errors.New("db locked")
	f.source.Positions = nil
	f.source.PriceErr = map[string]error{"ETH": errors.New("no row")}

	summary := f.engine.RunCycle(context.Background(), "timer")
	assert.Equal(t, 0, summary.Count)
	assert.Empty(t, f.notifier.Sent())
}

func TestAlertEngine_SkipsInactiveAndForeignAlerts(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	f.source.Positions = nil
	inactive := ethAlert(domain.ConditionAbove, 1)
	inactive.ID = "a2"
	inactive.Status = domain.AlertStatusInactive
	foreign := ethAlert(domain.ConditionAbove, 1)
	foreign.ID = "a3"
	foreign.AlertType = "TRAVEL_PERCENT"
	f.source.Alerts = append(f.source.Alerts, inactive, foreign)

	summary := f.engine.RunCycle(context.Background(), "timer")
	assert.Equal(t, 1, summary.Count)
}

func TestAlertEngine_ConcurrentCyclesDispatchOnce(t *testing.T) {
	f := newEngineFixture(t, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.engine.RunCycle(context.Background(), "api")
		}()
	}
	wg.Wait()

	assert.Len(t, f.notifier.Sent(), 1)
	assert.Len(t, f.recorder.Saved, 1)
}

func TestAlertEngine_ListenersAndOperationsLog(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	core, logs := observer.New(zap.InfoLevel)
	f.engine.SetOperationsLogger(zap.New(core))

	var got []domain.CycleSummary
	f.engine.OnCycle(func(s domain.CycleSummary) { got = append(got, s) })

	summary := f.engine.RunCycle(context.Background(), "timer")

	require.Len(t, got, 1)
	assert.Equal(t, summary.ID, got[0].ID)

	entries := logs.FilterMessage("Alert cycle completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "timer", fields["source"])
	assert.Equal(t, "Alert Cycle", fields["operation_type"])
	assert.EqualValues(t, 2, fields["count"])
}

func TestAlertEngine_ZeroCooldownEndToEnd(t *testing.T) {
	f := newEngineFixture(t, 0)
	f.thresholds.Config.Cooldown = 0

	summary := f.engine.RunCycle(context.Background(), "timer")

	assert.Equal(t, 2, summary.Count)
	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0], "2 alerts triggered"))
}

func TestAlertEngine_MissingLiquidationDistanceRaisesNoExceedAlert(t *testing.T) {
	f := newEngineFixture(t, time.Hour)
	f.source.Alerts = nil
	f.thresholds.Config.Swing = domain.ExceedThresholds{Enabled: true}
	f.thresholds.Config.Blast = domain.ExceedThresholds{Enabled: true}

	summary := f.engine.RunCycle(context.Background(), "timer")

	require.Equal(t, 1, summary.Count)
	assert.Contains(t, summary.Messages[0], "Profit ALERT")
	assert.Equal(t, 1, f.observer.fieldErrs[domain.MetricSwing])
	assert.Equal(t, 1, f.observer.fieldErrs[domain.MetricBlast])
}
