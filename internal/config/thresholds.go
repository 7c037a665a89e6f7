package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"go.uber.org/zap"
)

var ErrInvalidRange = errors.New("invalid alert range")

const (
	sectionProfit = "profit_ranges"
	sectionTravel = "travel_percent_liquid_ranges"
	sectionSwing  = "swing_ranges"
	sectionBlast  = "blast_ranges"
)

type rangeSection struct {
	Enabled bool     `yaml:"enabled"`
	Low     *float64 `yaml:"low"`
	Medium  *float64 `yaml:"medium"`
	High    *float64 `yaml:"high"`
}

type exceedSection struct {
	Enabled bool               `yaml:"enabled"`
	Default float64            `yaml:"default"`
	Assets  map[string]float64 `yaml:"assets"`
}

// Thresholds builds the per-cycle snapshot. Sections that are missing come
// back disabled; sections that fail to decode or validate come back disabled
// and are reported in the returned errors.
func (c *Config) Thresholds() (*domain.ThresholdConfig, []error) {
	var errs []error
	snap := &domain.ThresholdConfig{
		MonitorEnabled: c.MonitorEnabled(),
		Cooldown:       c.Cooldown(),
	}

	var err error
	if snap.Profit, err = c.rangeThresholds(sectionProfit, [3]float64{25, 50, 75}, ascending); err != nil {
		errs = append(errs, err)
	}
	if snap.TravelPercent, err = c.rangeThresholds(sectionTravel, [3]float64{-25, -50, -75}, descendingNegative); err != nil {
		errs = append(errs, err)
	}
	if snap.Swing, err = c.exceedThresholds(sectionSwing); err != nil {
		errs = append(errs, err)
	}
	if snap.Blast, err = c.exceedThresholds(sectionBlast); err != nil {
		errs = append(errs, err)
	}
	return snap, errs
}

func ascending(low, medium, high float64) bool {
	return low < medium && medium < high
}

func descendingNegative(low, medium, high float64) bool {
	return low < 0 && low > medium && medium > high
}

func (c *Config) rangeThresholds(name string, defaults [3]float64, valid func(l, m, h float64) bool) (domain.RangeThresholds, error) {
	node, ok := c.AlertRanges[name]
	if !ok {
		return domain.RangeThresholds{}, nil
	}

	var sec rangeSection
	if err := node.Decode(&sec); err != nil {
		return domain.RangeThresholds{}, fmt.Errorf("%w: %s: %v", ErrInvalidRange, name, err)
	}

	t := domain.RangeThresholds{
		Enabled: sec.Enabled,
		Low:     orDefault(sec.Low, defaults[0]),
		Medium:  orDefault(sec.Medium, defaults[1]),
		High:    orDefault(sec.High, defaults[2]),
	}
	if t.Enabled && !valid(t.Low, t.Medium, t.High) {
		return domain.RangeThresholds{}, fmt.Errorf("%w: %s: boundaries out of order (low=%v medium=%v high=%v)",
			ErrInvalidRange, name, t.Low, t.Medium, t.High)
	}
	return t, nil
}

func (c *Config) exceedThresholds(name string) (domain.ExceedThresholds, error) {
	node, ok := c.AlertRanges[name]
	if !ok {
		return domain.ExceedThresholds{}, nil
	}

	var sec exceedSection
	if err := node.Decode(&sec); err != nil {
		return domain.ExceedThresholds{}, fmt.Errorf("%w: %s: %v", ErrInvalidRange, name, err)
	}

	t := domain.ExceedThresholds{Enabled: sec.Enabled, Default: sec.Default}
	if len(sec.Assets) > 0 {
		t.Assets = make(map[string]float64, len(sec.Assets))
		for asset, v := range sec.Assets {
			t.Assets[strings.ToUpper(strings.TrimSpace(asset))] = v
		}
	}
	return t, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// FileThresholdLoader re-reads the config file on every call so edits are
// picked up on the next cycle.
type FileThresholdLoader struct {
	path   string
	logger *zap.Logger
}

func NewFileThresholdLoader(path string, logger *zap.Logger) *FileThresholdLoader {
	return &FileThresholdLoader{path: path, logger: logger}
}

func (l *FileThresholdLoader) LoadThresholds() (*domain.ThresholdConfig, error) {
	cfg, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	snap, errs := cfg.Thresholds()
	for _, err := range errs {
		l.logger.Warn("Alert range disabled", zap.Error(err))
	}
	return snap, nil
}
