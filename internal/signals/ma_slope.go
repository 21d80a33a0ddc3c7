// Package signals contains descriptive market indicators. Unlike
// strategies, signals never emit position decisions; they describe
// market conditions (trend strength, direction) that strategies can
// consume as inputs.
package signals

import (
	"fmt"
	"math"

	"github.com/quantfold/walkforward/internal/domain"
	"github.com/quantfold/walkforward/pkg/formulas"
)

// MASlopeConfig configures the moving-average slope signal.
type MASlopeConfig struct {
	MAPeriod      int     // lookback for the moving average
	SlopeWindow   int     // bars over which the slope is measured
	FlatThreshold float64 // |slope %/bar| below this is classified flat
}

// DefaultMASlopeConfig returns the standard 20/5/0.05 configuration.
func DefaultMASlopeConfig() MASlopeConfig {
	return MASlopeConfig{MAPeriod: 20, SlopeWindow: 5, FlatThreshold: 0.05}
}

// Validate checks configuration invariants.
func (c MASlopeConfig) Validate() error {
	if c.MAPeriod < 1 || c.SlopeWindow < 1 {
		return fmt.Errorf("ma_period and slope_window must be >= 1, got %d/%d", c.MAPeriod, c.SlopeWindow)
	}
	if c.FlatThreshold < 0 {
		return fmt.Errorf("flat_threshold must be >= 0, got %v", c.FlatThreshold)
	}
	return nil
}

// MASlopeTrend measures continuous trend direction and strength as the
// slope of a rolling MA, normalized by the MA level into a
// dimensionless percent-per-bar score. Positive = uptrend, negative =
// downtrend, near zero = flat.
type MASlopeTrend struct {
	cfg MASlopeConfig
}

// NewMASlopeTrend builds the signal, validating the configuration.
func NewMASlopeTrend(cfg MASlopeConfig) (*MASlopeTrend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ma_slope config: %w", err)
	}
	return &MASlopeTrend{cfg: cfg}, nil
}

// Name implements domain.Signal.
func (s *MASlopeTrend) Name() string { return "ma_slope_trend" }

// OutputColumn implements domain.Signal.
func (s *MASlopeTrend) OutputColumn() string { return "ma_slope_pct" }

// Compute implements domain.Signal. Columns:
//
//	ma           - rolling simple moving average
//	ma_slope     - raw slope (price units per bar)
//	ma_slope_pct - normalized slope (% of MA per bar), the primary output
//	trend_dir    - +1 / −1 / 0 classification against FlatThreshold
func (s *MASlopeTrend) Compute(bars []domain.Bar) (map[string][]float64, error) {
	n := len(bars)
	ma := formulas.SMA(domain.Series(bars).Closes(), s.cfg.MAPeriod)
	if ma == nil {
		ma = nanSlice(n)
	}

	slope := nanSlice(n)
	slopePct := nanSlice(n)
	trendDir := make([]float64, n)

	for i := s.cfg.SlopeWindow; i < n; i++ {
		if math.IsNaN(ma[i]) || math.IsNaN(ma[i-s.cfg.SlopeWindow]) {
			continue
		}
		slope[i] = (ma[i] - ma[i-s.cfg.SlopeWindow]) / float64(s.cfg.SlopeWindow)
		if ma[i] != 0 {
			slopePct[i] = slope[i] / ma[i] * 100
		}

		switch {
		case slopePct[i] > s.cfg.FlatThreshold:
			trendDir[i] = 1
		case slopePct[i] < -s.cfg.FlatThreshold:
			trendDir[i] = -1
		}
	}

	return map[string][]float64{
		"ma":           ma,
		"ma_slope":     slope,
		"ma_slope_pct": slopePct,
		"trend_dir":    trendDir,
	}, nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
