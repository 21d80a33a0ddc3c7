package signals

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/quantfold/walkforward/internal/domain"
	"github.com/quantfold/walkforward/pkg/formulas"
)

// ADXTrendConfig configures the ADX trend-strength signal.
type ADXTrendConfig struct {
	Period         int     // Wilder smoothing window
	TrendThreshold float64 // ADX level above which a trend is confirmed
}

// DefaultADXTrendConfig returns the standard 14/25 configuration.
func DefaultADXTrendConfig() ADXTrendConfig {
	return ADXTrendConfig{Period: 14, TrendThreshold: 25}
}

// Validate checks configuration invariants.
func (c ADXTrendConfig) Validate() error {
	if c.Period < 1 {
		return fmt.Errorf("period must be >= 1, got %d", c.Period)
	}
	if c.TrendThreshold < 0 || c.TrendThreshold > 100 {
		return fmt.Errorf("trend_threshold must be in [0, 100], got %v", c.TrendThreshold)
	}
	return nil
}

// ADXTrend measures how strongly the market is trending (ADX, 0-100)
// and in which direction (+DI vs −DI). Direction is only reported when
// ADX confirms a trend above the threshold.
type ADXTrend struct {
	cfg ADXTrendConfig
}

// NewADXTrend builds the signal, validating the configuration.
func NewADXTrend(cfg ADXTrendConfig) (*ADXTrend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("adx config: %w", err)
	}
	return &ADXTrend{cfg: cfg}, nil
}

// Name implements domain.Signal.
func (s *ADXTrend) Name() string { return "adx_trend" }

// OutputColumn implements domain.Signal.
func (s *ADXTrend) OutputColumn() string { return "adx" }

// Compute implements domain.Signal. Columns:
//
//	adx       - trend strength (0-100); >25 trending, <20 ranging
//	plus_di   - positive directional indicator (upward pressure)
//	minus_di  - negative directional indicator (downward pressure)
//	trend_dir - +1 / −1 when ADX confirms a trend, else 0
func (s *ADXTrend) Compute(bars []domain.Bar) (map[string][]float64, error) {
	n := len(bars)
	series := domain.Series(bars)

	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, bar := range bars {
		highs[i] = bar.High
		lows[i] = bar.Low
	}
	closes := series.Closes()

	adx := formulas.ADX(highs, lows, closes, s.cfg.Period)
	if adx == nil {
		adx = nanSlice(n)
	}

	plusDI := nanSlice(n)
	minusDI := nanSlice(n)
	if n > s.cfg.Period {
		plusDI = talib.PlusDI(highs, lows, closes, s.cfg.Period)
		minusDI = talib.MinusDI(highs, lows, closes, s.cfg.Period)
		for i := 0; i < s.cfg.Period && i < n; i++ {
			plusDI[i] = math.NaN()
			minusDI[i] = math.NaN()
		}
	}

	trendDir := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(adx[i]) || adx[i] < s.cfg.TrendThreshold {
			continue
		}
		switch {
		case plusDI[i] > minusDI[i]:
			trendDir[i] = 1
		case plusDI[i] < minusDI[i]:
			trendDir[i] = -1
		}
	}

	return map[string][]float64{
		"adx":       adx,
		"plus_di":   plusDI,
		"minus_di":  minusDI,
		"trend_dir": trendDir,
	}, nil
}
