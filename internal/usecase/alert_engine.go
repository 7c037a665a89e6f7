package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"go.uber.org/zap"
)

// AggregateKey is the single dispatch key shared by every cycle.
const AggregateKey = "aggregated-alert"

const DefaultCooldown = 900 * time.Second

// Dispatcher hands the combined cycle message to the notification side.
type Dispatcher interface {
	Dispatch(ctx context.Context, body, key string) (bool, error)
}

// AlertEngine runs evaluation cycles over a metric source. Cycles never
// overlap: timer and on-demand invocations are serialised on mu.
type AlertEngine struct {
	source     domain.MetricSource
	thresholds domain.ThresholdLoader
	dispatcher Dispatcher
	state      *AlertStateStore
	logger     *zap.Logger

	opsLog    *zap.Logger
	recorder  domain.CycleRecorder
	observer  Observer
	listeners []func(domain.CycleSummary)
	now       func() time.Time

	mu sync.Mutex
}

func NewAlertEngine(
	source domain.MetricSource,
	thresholds domain.ThresholdLoader,
	dispatcher Dispatcher,
	state *AlertStateStore,
	logger *zap.Logger,
) *AlertEngine {
	if state == nil {
		state = NewAlertStateStore()
	}
	return &AlertEngine{
		source:     source,
		thresholds: thresholds,
		dispatcher: dispatcher,
		state:      state,
		logger:     logger,
		opsLog:     zap.NewNop(),
		observer:   nopObserver{},
		now:        time.Now,
	}
}

// SetOperationsLogger sets the logger that receives one entry per completed cycle.
func (e *AlertEngine) SetOperationsLogger(l *zap.Logger) {
	if l != nil {
		e.opsLog = l
	}
}

func (e *AlertEngine) SetRecorder(r domain.CycleRecorder) {
	e.recorder = r
}

func (e *AlertEngine) SetObserver(o Observer) {
	if o != nil {
		e.observer = o
	}
}

func (e *AlertEngine) SetClock(now func() time.Time) {
	e.now = now
}

// OnCycle registers fn to be called with every completed summary. Register
// before the first cycle runs.
func (e *AlertEngine) OnCycle(fn func(domain.CycleSummary)) {
	e.listeners = append(e.listeners, fn)
}

func (e *AlertEngine) State() *AlertStateStore {
	return e.state
}

// RunCycle evaluates every position and active price alert once, and hands
// any fired messages to the dispatcher as one combined notification.
func (e *AlertEngine) RunCycle(ctx context.Context, source string) domain.CycleSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	if source == "" {
		source = "manual"
	}
	started := time.Now()
	now := e.now()
	summary := domain.CycleSummary{
		ID:        uuid.NewString(),
		Source:    source,
		Messages:  []string{},
		StartedAt: now,
	}
	log := e.logger.With(zap.String("cycle_id", summary.ID), zap.String("source", source))

	cfg := e.loadThresholds(log)
	if !cfg.MonitorEnabled {
		log.Info("Alert monitoring disabled")
		summary.Duration = time.Since(started).String()
		return summary
	}

	ec := EvalContext{Now: now, Cooldown: cfg.Cooldown, State: e.state}

	positions, err := e.source.ListPositions(ctx)
	if err != nil {
		log.Error("Failed to list positions", zap.Error(err))
	}
	log.Info("Checking positions for alerts", zap.Int("positions", len(positions)))
	for _, pos := range positions {
		if pos == nil {
			continue
		}
		e.collect(log, &summary, now, func() (Outcome, error) { return EvaluateProfit(pos, cfg.Profit, ec) })
		e.collect(log, &summary, now, func() (Outcome, error) { return EvaluateTravelPercent(pos, cfg.TravelPercent, ec) })
		e.collect(log, &summary, now, func() (Outcome, error) { return SwingEvaluator.Evaluate(pos, cfg, ec) })
		e.collect(log, &summary, now, func() (Outcome, error) { return BlastEvaluator.Evaluate(pos, cfg, ec) })
	}

	e.checkPriceAlerts(ctx, log, &summary, now, ec)

	summary.Count = len(summary.Messages)
	if summary.Count == 0 {
		log.Info("No alerts triggered")
	} else {
		body := AggregateMessage(summary.Messages)
		sent, err := e.dispatcher.Dispatch(ctx, body, AggregateKey)
		if err != nil {
			log.Error("Failed to dispatch alert call", zap.Error(err))
			summary.DispatchErr = err.Error()
		}
		summary.Dispatched = sent
	}
	summary.Duration = time.Since(started).String()

	e.finish(ctx, log, summary)
	return summary
}

// AggregateMessage builds the combined notification body for a cycle.
func AggregateMessage(messages []string) string {
	return fmt.Sprintf("%d alerts triggered:\n%s", len(messages), strings.Join(messages, "\n"))
}

func (e *AlertEngine) loadThresholds(log *zap.Logger) *domain.ThresholdConfig {
	cfg, err := e.thresholds.LoadThresholds()
	if err != nil || cfg == nil {
		// Without a snapshot every banded metric is off; price alerts still run.
		log.Error("Failed to load thresholds, metric alerts disabled for this cycle", zap.Error(err))
		return &domain.ThresholdConfig{MonitorEnabled: true, Cooldown: DefaultCooldown}
	}
	return cfg
}

func (e *AlertEngine) checkPriceAlerts(ctx context.Context, log *zap.Logger, summary *domain.CycleSummary, now time.Time, ec EvalContext) {
	alerts, err := e.source.ListActivePriceAlerts(ctx)
	if err != nil {
		log.Error("Failed to list price alerts", zap.Error(err))
		return
	}

	active := 0
	for _, a := range alerts {
		if a == nil || a.AlertType != domain.AlertTypePriceThreshold || !a.Status.IsActive() {
			continue
		}
		active++

		price, err := e.source.LatestPrice(ctx, domain.NormalizeAsset(a.AssetType))
		if err != nil {
			log.Warn("Failed to read latest price", zap.String("asset", a.AssetType), zap.Error(err))
			continue
		}
		e.collect(log, summary, now, func() (Outcome, error) { return EvaluatePrice(a, price, ec) })
	}
	log.Info("Checked active price alerts", zap.Int("alerts", active))
}

func (e *AlertEngine) collect(log *zap.Logger, summary *domain.CycleSummary, now time.Time, eval func() (Outcome, error)) {
	out, err := eval()
	if err != nil {
		metric := domain.MetricKind("unknown")
		var fe *FieldError
		if errors.As(err, &fe) {
			metric = fe.Metric
		}
		e.observer.FieldError(metric)
		log.Warn("Skipping metric for record", zap.Error(err))
		return
	}
	if out.Key == "" {
		return
	}

	out.Apply(e.state, now)
	switch {
	case out.Suppressed:
		e.observer.AlertSuppressed(out.Metric)
		log.Debug("Alert suppressed by cooldown", zap.String("key", string(out.Key)))
	case out.Fired():
		e.observer.AlertFired(out.Metric)
		summary.Messages = append(summary.Messages, out.Message)
	}
}

func (e *AlertEngine) finish(ctx context.Context, log *zap.Logger, summary domain.CycleSummary) {
	e.observer.CycleCompleted(summary.Source, summary.Count)

	if e.recorder != nil && summary.Count > 0 {
		if err := e.recorder.SaveCycle(ctx, &summary); err != nil {
			log.Error("Failed to record cycle", zap.Error(err))
		}
	}

	e.opsLog.Info("Alert cycle completed",
		zap.String("source", summary.Source),
		zap.String("operation_type", "Alert Cycle"),
		zap.Int("count", summary.Count),
		zap.Bool("dispatched", summary.Dispatched),
	)

	for _, fn := range e.listeners {
		fn(summary)
	}
}
