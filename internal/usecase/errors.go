package usecase

import (
	"errors"
	"fmt"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

var (
	ErrInvalidField = errors.New("invalid numeric field")
	errMissingValue = errors.New("value missing")
)

// FieldError reports a metric field that could not be converted for one record.
type FieldError struct {
	Metric domain.MetricKind
	Record string
	Field  string
	Raw    string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: record %s: field %s=%q: %v", e.Metric, e.Record, e.Field, e.Raw, e.Err)
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrInvalidField, e.Err}
}

func fieldError(metric domain.MetricKind, record, field string, f domain.NumericField, err error) error {
	return &FieldError{Metric: metric, Record: record, Field: field, Raw: f.Raw, Err: err}
}
