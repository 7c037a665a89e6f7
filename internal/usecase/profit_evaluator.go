package usecase

import (
	"fmt"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// EvaluateProfit fires when a position's profit reaches a level it has not
// reached before. The stored level only moves up, and it moves up even when
// cooldown swallows the message.
func EvaluateProfit(pos *domain.Position, t domain.RangeThresholds, ec EvalContext) (Outcome, error) {
	if !t.Enabled {
		return Outcome{}, nil
	}
	profit, err := pos.Profit.Float(0)
	if err != nil {
		return Outcome{}, fieldError(domain.MetricProfit, pos.ID, "profit", pos.Profit, err)
	}
	if profit <= 0 {
		return Outcome{}, nil
	}

	level := Classify(profit, t, DirectionOf(domain.MetricProfit))
	if level == LevelNone {
		return Outcome{}, nil
	}

	key := ProfitKey(pos)
	if level <= ec.State.LastLevel(key) {
		return Outcome{}, nil
	}

	out := Outcome{Metric: domain.MetricProfit, Key: key, SetLevel: true, Level: level}
	if !ec.State.CooldownElapsed(key, ec.Now, ec.Cooldown) {
		out.Suppressed = true
		return out, nil
	}

	out.Touch = true
	out.Message = fmt.Sprintf("Profit ALERT: %s %s profit of %.2f (Level: %s)",
		domain.AssetDisplayName(pos.AssetType), pos.PositionType.Label(), profit, level.Label())
	return out, nil
}
