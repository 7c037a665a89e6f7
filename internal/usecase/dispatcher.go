package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"go.uber.org/zap"
)

const DefaultDispatchTimeout = 10 * time.Second

// CallDispatcher rate-limits outbound notifications per key. The refractory
// timers are separate from the per-condition cooldowns of the state store.
type CallDispatcher struct {
	notifier   domain.Notifier
	refractory time.Duration
	timeout    time.Duration
	logger     *zap.Logger
	opsLog     *zap.Logger
	observer   Observer
	now        func() time.Time

	mu       sync.Mutex
	lastCall map[string]time.Time
}

func NewCallDispatcher(notifier domain.Notifier, refractory, timeout time.Duration, logger *zap.Logger) *CallDispatcher {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &CallDispatcher{
		notifier:   notifier,
		refractory: refractory,
		timeout:    timeout,
		logger:     logger,
		opsLog:     zap.NewNop(),
		observer:   nopObserver{},
		now:        time.Now,
		lastCall:   make(map[string]time.Time),
	}
}

func (d *CallDispatcher) SetObserver(o Observer) {
	if o != nil {
		d.observer = o
	}
}

// SetOperationsLogger sets the logger that records every delivered notification.
func (d *CallDispatcher) SetOperationsLogger(l *zap.Logger) {
	if l != nil {
		d.opsLog = l
	}
}

func (d *CallDispatcher) SetClock(now func() time.Time) {
	d.now = now
}

// LastCall returns when key was last delivered successfully.
func (d *CallDispatcher) LastCall(key string) (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.lastCall[key]
	return t, ok
}

// Dispatch sends body unless key is inside its refractory window. It reports
// whether a message went out. The window only restarts on a successful send,
// so a failed call is retried on the next attempt.
func (d *CallDispatcher) Dispatch(ctx context.Context, body, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.lastCall[key]; ok && d.now().Sub(last) < d.refractory {
		d.logger.Info("Call alert suppressed", zap.String("key", key), zap.Time("last_call", last))
		d.observer.DispatchResult(DispatchSuppressed)
		return false, nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	ref, err := d.notifier.Send(sendCtx, body)
	if err != nil {
		d.observer.DispatchResult(DispatchFailed)
		return false, fmt.Errorf("dispatch %q: %w", key, err)
	}

	d.lastCall[key] = d.now()
	d.observer.DispatchResult(DispatchSent)
	d.logger.Info("Alert call dispatched", zap.String("key", key), zap.String("ref", ref))
	d.opsLog.Info("Alert call dispatched",
		zap.String("source", key),
		zap.String("operation_type", "Notification Sent"),
		zap.String("ref", ref),
	)
	return true, nil
}
