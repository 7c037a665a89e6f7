package domain

import (
	"strings"
	"time"
)

type AlertType string

const AlertTypePriceThreshold AlertType = "PRICE_THRESHOLD"

type Condition string

const (
	ConditionAbove Condition = "ABOVE"
	ConditionBelow Condition = "BELOW"
)

// Normalize upper-cases the condition; an empty condition means ABOVE.
func (c Condition) Normalize() Condition {
	s := strings.ToUpper(strings.TrimSpace(string(c)))
	if s == "" {
		return ConditionAbove
	}
	return Condition(s)
}

type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "Active"
	AlertStatusInactive AlertStatus = "Inactive"
)

func (s AlertStatus) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(AlertStatusActive))
}

// PriceAlert is a standing price-threshold definition.
type PriceAlert struct {
	ID           string
	AssetType    string
	AlertType    AlertType
	Condition    Condition
	TriggerValue NumericField
	Status       AlertStatus
	PositionID   string // optional linkage
	PositionType PositionType
	WalletName   string
}

// SubjectID is the identifier the alert is tracked under: the linked position
// when present, the alert itself otherwise.
func (a *PriceAlert) SubjectID() string {
	if a.PositionID != "" {
		return a.PositionID
	}
	if a.ID != "" {
		return a.ID
	}
	return "unknown"
}

// PriceSnapshot is the latest known price for an asset.
type PriceSnapshot struct {
	AssetType    string
	CurrentPrice float64
	Source       string
	UpdatedAt    time.Time
}
