package usecase

import "github.com/vitos/crypto_alert_monitor/internal/domain"

// Observer receives counters from the engine and dispatcher.
type Observer interface {
	CycleCompleted(source string, fired int)
	AlertFired(metric domain.MetricKind)
	AlertSuppressed(metric domain.MetricKind)
	FieldError(metric domain.MetricKind)
	DispatchResult(result string)
}

const (
	DispatchSent       = "sent"
	DispatchSuppressed = "suppressed"
	DispatchFailed     = "failed"
)

type nopObserver struct{}

func (nopObserver) CycleCompleted(string, int) {}
func (nopObserver) AlertFired(domain.MetricKind) {}
func (nopObserver) AlertSuppressed(domain.MetricKind) {}
func (nopObserver) FieldError(domain.MetricKind) {}
func (nopObserver) DispatchResult(string) {}
