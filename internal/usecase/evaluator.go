package usecase

import (
	"time"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// StateReader is the part of the state store evaluators may consult.
type StateReader interface {
	CooldownElapsed(key AlertKey, now time.Time, cooldown time.Duration) bool
	LastLevel(key AlertKey) Level
}

// EvalContext carries per-cycle inputs shared by every evaluator.
type EvalContext struct {
	Now      time.Time
	Cooldown time.Duration
	State    StateReader
}

// Outcome is what one evaluator decided for one record: an optional message
// and the state mutation to apply. A zero Outcome means nothing happened.
type Outcome struct {
	Metric     domain.MetricKind
	Key        AlertKey
	Message    string
	Suppressed bool // blocked by cooldown

	Touch    bool // refresh last_triggered
	SetLevel bool
	Level    Level
}

func (o Outcome) Fired() bool {
	return o.Message != ""
}

// Apply writes the outcome's mutation into the store.
func (o Outcome) Apply(s *AlertStateStore, now time.Time) {
	if o.Key == "" {
		return
	}
	if o.SetLevel {
		s.SetLevel(o.Key, o.Level)
	}
	if o.Touch {
		s.MarkTriggered(o.Key, now)
	}
}

func walletLabel(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
