package usecase

import (
	"fmt"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// ExceedEvaluator is a binary test of a position's liquidation distance
// against a single per-asset boundary. Swing and blast are both instances.
type ExceedEvaluator struct {
	Metric     domain.MetricKind // also the key prefix
	Name       string            // message label
	Boundaries func(cfg *domain.ThresholdConfig) domain.ExceedThresholds
}

var (
	SwingEvaluator = ExceedEvaluator{
		Metric:     domain.MetricSwing,
		Name:       "Swing",
		Boundaries: func(cfg *domain.ThresholdConfig) domain.ExceedThresholds { return cfg.Swing },
	}
	BlastEvaluator = ExceedEvaluator{
		Metric:     domain.MetricBlast,
		Name:       "Blast",
		Boundaries: func(cfg *domain.ThresholdConfig) domain.ExceedThresholds { return cfg.Blast },
	}
)

func (e ExceedEvaluator) Evaluate(pos *domain.Position, cfg *domain.ThresholdConfig, ec EvalContext) (Outcome, error) {
	t := e.Boundaries(cfg)
	if !t.Enabled {
		return Outcome{}, nil
	}
	// No reading is not a distance of zero.
	if !pos.LiquidationDistance.Valid {
		return Outcome{}, fieldError(e.Metric, pos.ID, "liquidation_distance", pos.LiquidationDistance, errMissingValue)
	}
	value, err := pos.LiquidationDistance.Float(0)
	if err != nil {
		return Outcome{}, fieldError(e.Metric, pos.ID, "liquidation_distance", pos.LiquidationDistance, err)
	}

	boundary := t.Boundary(pos.AssetType)
	if value < boundary {
		return Outcome{}, nil
	}

	key := ExceedKey(e.Metric, pos)
	out := Outcome{Metric: e.Metric, Key: key}
	if !ec.State.CooldownElapsed(key, ec.Now, ec.Cooldown) {
		out.Suppressed = true
		return out, nil
	}

	out.Touch = true
	out.Message = fmt.Sprintf("%s ALERT: %s %s (Wallet: %s) - Liquidation Distance = %.2f, Limit = %.2f",
		e.Name, domain.AssetDisplayName(pos.AssetType), pos.PositionType.Label(), walletLabel(pos.WalletName), value, boundary)
	return out, nil
}
