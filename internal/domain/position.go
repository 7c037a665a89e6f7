package domain

import (
	"strconv"
	"strings"
)

type PositionType string

const (
	PositionLong  PositionType = "LONG"
	PositionShort PositionType = "SHORT"
)

// Label returns the capitalised form used in alert messages ("Long").
func (t PositionType) Label() string {
	s := strings.ToLower(strings.TrimSpace(string(t)))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NumericField is a raw reading as stored by the metric source. Values are
// kept unparsed so a malformed column shows up as a conversion error for that
// metric only.
type NumericField struct {
	Raw   string
	Valid bool
}

func Number(v float64) NumericField {
	return NumericField{Raw: strconv.FormatFloat(v, 'f', -1, 64), Valid: true}
}

func RawNumber(s string) NumericField {
	return NumericField{Raw: s, Valid: true}
}

// Float parses the field. An absent field yields def.
func (f NumericField) Float(def float64) (float64, error) {
	if !f.Valid {
		return def, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(f.Raw), 64)
}

// Position is one open position as supplied by the metric source per cycle.
type Position struct {
	ID                   string
	AssetType            string
	PositionType         PositionType
	WalletName           string
	Profit               NumericField
	CurrentTravelPercent NumericField
	LiquidationDistance  NumericField
}

// Asset returns the normalised asset code.
func (p *Position) Asset() string {
	return NormalizeAsset(p.AssetType)
}

func NormalizeAsset(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "???"
	}
	return code
}

var assetNames = map[string]string{
	"BTC": "Bitcoin",
	"ETH": "Ethereum",
	"SOL": "Solana",
}

// AssetDisplayName maps an asset code to the name used in notifications.
func AssetDisplayName(code string) string {
	code = NormalizeAsset(code)
	if name, ok := assetNames[code]; ok {
		return name
	}
	return code
}
