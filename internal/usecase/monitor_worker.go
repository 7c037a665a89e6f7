package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MonitorWorker drives timer cycles on the engine until its context ends.
type MonitorWorker struct {
	engine   *AlertEngine
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

func NewMonitorWorker(engine *AlertEngine, interval time.Duration, logger *zap.Logger) *MonitorWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &MonitorWorker{
		engine:   engine,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the first cycle immediately, then one per interval. It returns
// at once; Done is closed when the loop exits.
func (w *MonitorWorker) Start(ctx context.Context) {
	w.logger.Info("Starting alert monitoring loop", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)

	go func() {
		defer close(w.done)
		defer ticker.Stop()
		for {
			// Cycles run detached so shutdown waits for the current one to finish.
			w.engine.RunCycle(context.WithoutCancel(ctx), "timer")

			select {
			case <-ctx.Done():
				w.logger.Info("Alert monitoring loop stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

func (w *MonitorWorker) Done() <-chan struct{} {
	return w.done
}
