package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"github.com/vitos/crypto_alert_monitor/internal/usecase"
)

func TestAlertKeys_Format(t *testing.T) {
	pos := &domain.Position{ID: "42", AssetType: "btc", PositionType: "long"}

	assert.Equal(t, usecase.AlertKey("profit:BTC:LONG:42"), usecase.ProfitKey(pos))
	assert.Equal(t, usecase.AlertKey("travel:BTC:LONG:42:HIGH"), usecase.TravelKey(pos, usecase.LevelHigh))
	assert.Equal(t, usecase.AlertKey("swing:BTC:LONG:42"), usecase.ExceedKey(domain.MetricSwing, pos))

	alert := &domain.PriceAlert{ID: "a1", AssetType: "eth"}
	assert.Equal(t, usecase.AlertKey("price:ETH:a1"), usecase.PriceKey(alert))
	alert.PositionID = "42"
	assert.Equal(t, usecase.AlertKey("price:ETH:42"), usecase.PriceKey(alert))
}

func TestAlertKeys_DistinctPerBandAndMetric(t *testing.T) {
	pos := btcLong("p1")
	keys := []usecase.AlertKey{
		usecase.ProfitKey(pos),
		usecase.TravelKey(pos, usecase.LevelLow),
		usecase.TravelKey(pos, usecase.LevelMedium),
		usecase.TravelKey(pos, usecase.LevelHigh),
		usecase.ExceedKey(domain.MetricSwing, pos),
		usecase.ExceedKey(domain.MetricBlast, pos),
	}
	seen := make(map[usecase.AlertKey]bool)
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

func TestAlertKeys_SeparatorInIdentifierCannotCollide(t *testing.T) {
	a := &domain.Position{ID: "1:HIGH", AssetType: "BTC", PositionType: domain.PositionLong}
	b := &domain.Position{ID: "1", AssetType: "BTC", PositionType: domain.PositionLong}

	c := &domain.Position{ID: "1:2", AssetType: "BTC", PositionType: domain.PositionLong}
	d := &domain.Position{ID: "2", AssetType: "BTC:LONG", PositionType: "1"}
	assert.NotEqual(t, usecase.ProfitKey(c), usecase.ProfitKey(d))
	assert.NotEqual(t, usecase.TravelKey(a, usecase.LevelLow), usecase.TravelKey(b, usecase.LevelHigh))
	assert.Equal(t, usecase.AlertKey("profit:BTC:LONG:1%3AHIGH"), usecase.ProfitKey(a))
}
