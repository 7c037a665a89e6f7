package usecase

import (
	"fmt"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// EvaluateTravelPercent reports the deepest band a negative travel percent has
// reached. Each band has its own key and cooldown; there is no ordering
// constraint across bands.
func EvaluateTravelPercent(pos *domain.Position, t domain.RangeThresholds, ec EvalContext) (Outcome, error) {
	if !t.Enabled {
		return Outcome{}, nil
	}
	value, err := pos.CurrentTravelPercent.Float(0)
	if err != nil {
		return Outcome{}, fieldError(domain.MetricTravelPercent, pos.ID, "current_travel_percent", pos.CurrentTravelPercent, err)
	}
	if value >= 0 {
		return Outcome{}, nil
	}

	band := Classify(value, t, DirectionOf(domain.MetricTravelPercent))
	if band == LevelNone {
		return Outcome{}, nil
	}

	key := TravelKey(pos, band)
	out := Outcome{Metric: domain.MetricTravelPercent, Key: key}
	if !ec.State.CooldownElapsed(key, ec.Now, ec.Cooldown) {
		out.Suppressed = true
		return out, nil
	}

	out.Touch = true
	out.Message = fmt.Sprintf("Travel Percent Liquid ALERT: %s %s (Wallet: %s) - Travel%% = %.2f%%, Level = %s",
		domain.AssetDisplayName(pos.AssetType), pos.PositionType.Label(), walletLabel(pos.WalletName), value, band.Label())
	return out, nil
}
