package usecase

import (
	"strconv"
	"strings"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// EvaluatePrice checks one active price alert against the latest price. A
// missing price is not an error.
func EvaluatePrice(a *domain.PriceAlert, price *domain.PriceSnapshot, ec EvalContext) (Outcome, error) {
	if price == nil {
		return Outcome{}, nil
	}
	trigger, err := a.TriggerValue.Float(0)
	if err != nil {
		return Outcome{}, fieldError(domain.MetricPrice, a.ID, "trigger_value", a.TriggerValue, err)
	}

	cond := a.Condition.Normalize()
	current := price.CurrentPrice
	var hit bool
	if cond == domain.ConditionAbove {
		hit = current >= trigger
	} else {
		hit = current <= trigger
	}
	if !hit {
		return Outcome{}, nil
	}

	key := PriceKey(a)
	out := Outcome{Metric: domain.MetricPrice, Key: key}
	if !ec.State.CooldownElapsed(key, ec.Now, ec.Cooldown) {
		out.Suppressed = true
		return out, nil
	}

	var b strings.Builder
	b.WriteString("Price ALERT: ")
	b.WriteString(domain.AssetDisplayName(a.AssetType))
	if label := a.PositionType.Label(); label != "" {
		b.WriteString(" " + label)
	}
	if a.WalletName != "" && a.WalletName != "Unknown" {
		b.WriteString(", Wallet: " + a.WalletName)
	}
	b.WriteString(" - Condition: " + string(cond))
	b.WriteString(", Trigger: " + formatPrice(trigger))
	b.WriteString(", Current: " + formatPrice(current))

	out.Touch = true
	out.Message = b.String()
	return out, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
