package usecase

import (
	"strings"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// AlertKey identifies one (entity, metric, band) tuple in the state store.
type AlertKey string

// Components are escaped so a ':' inside an identifier can never make two
// different tuples produce the same key.
var keyEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

func newKey(kind domain.MetricKind, parts ...string) AlertKey {
	out := make([]string, 0, len(parts)+1)
	out = append(out, string(kind))
	for _, p := range parts {
		out = append(out, keyEscaper.Replace(p))
	}
	return AlertKey(strings.Join(out, ":"))
}

func positionParts(p *domain.Position) []string {
	id := p.ID
	if id == "" {
		id = "unknown"
	}
	return []string{p.Asset(), strings.ToUpper(strings.TrimSpace(string(p.PositionType))), id}
}

// ProfitKey is one key per position.
func ProfitKey(p *domain.Position) AlertKey {
	return newKey(domain.MetricProfit, positionParts(p)...)
}

// TravelKey is one key per (position, band) so bands cool down independently.
func TravelKey(p *domain.Position, band Level) AlertKey {
	return newKey(domain.MetricTravelPercent, append(positionParts(p), band.Label())...)
}

// ExceedKey is one key per (metric, position) for binary metrics.
func ExceedKey(kind domain.MetricKind, p *domain.Position) AlertKey {
	return newKey(kind, positionParts(p)...)
}

// PriceKey is keyed by asset and the alert's subject identifier.
func PriceKey(a *domain.PriceAlert) AlertKey {
	return newKey(domain.MetricPrice, domain.NormalizeAsset(a.AssetType), a.SubjectID())
}
