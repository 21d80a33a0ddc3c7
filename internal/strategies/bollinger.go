package strategies

import (
	"fmt"
	"math"

	"github.com/quantfold/walkforward/internal/domain"
	"github.com/quantfold/walkforward/pkg/formulas"
)

// BollingerConfig configures both Bollinger Bands strategies.
type BollingerConfig struct {
	Period int     // lookback for the middle-band SMA
	NumStd float64 // band width in standard deviations
}

// DefaultBollingerConfig returns the standard 20-bar, 2-sigma
// configuration.
func DefaultBollingerConfig() BollingerConfig {
	return BollingerConfig{Period: 20, NumStd: 2.0}
}

// Validate checks configuration invariants.
func (c BollingerConfig) Validate() error {
	if c.Period < 2 {
		return fmt.Errorf("period must be >= 2, got %d", c.Period)
	}
	if c.NumStd <= 0 {
		return fmt.Errorf("num_std must be positive, got %v", c.NumStd)
	}
	return nil
}

// BollingerMeanReversion goes long when price closes below the lower
// band (oversold) and short above the upper band (overbought), flat
// inside the bands.
type BollingerMeanReversion struct {
	cfg BollingerConfig
}

// NewBollingerMeanReversion builds the strategy, validating the
// configuration.
func NewBollingerMeanReversion(cfg BollingerConfig) (*BollingerMeanReversion, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bollinger_mean_reversion config: %w", err)
	}
	return &BollingerMeanReversion{cfg: cfg}, nil
}

// Name implements domain.Strategy.
func (s *BollingerMeanReversion) Name() string { return "bollinger_mean_reversion" }

// GenerateSignals implements domain.Strategy.
func (s *BollingerMeanReversion) GenerateSignals(bars []domain.Bar) ([]domain.Position, error) {
	return bollingerSignals(bars, s.cfg, false), nil
}

// BollingerBreakout is the momentum mirror image: long on a close above
// the upper band, short on a close below the lower band.
type BollingerBreakout struct {
	cfg BollingerConfig
}

// NewBollingerBreakout builds the strategy, validating the
// configuration.
func NewBollingerBreakout(cfg BollingerConfig) (*BollingerBreakout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bollinger_breakout config: %w", err)
	}
	return &BollingerBreakout{cfg: cfg}, nil
}

// Name implements domain.Strategy.
func (s *BollingerBreakout) Name() string { return "bollinger_breakout" }

// GenerateSignals implements domain.Strategy.
func (s *BollingerBreakout) GenerateSignals(bars []domain.Bar) ([]domain.Position, error) {
	return bollingerSignals(bars, s.cfg, true), nil
}

func bollingerSignals(bars []domain.Bar, cfg BollingerConfig, breakout bool) []domain.Position {
	signal := make([]domain.Position, len(bars))

	closes := domain.Series(bars).Closes()
	bands := formulas.Bollinger(closes, cfg.Period, cfg.NumStd)
	if bands == nil {
		return signal
	}

	for i, c := range closes {
		if math.IsNaN(bands.Upper[i]) || math.IsNaN(bands.Lower[i]) {
			continue
		}
		below := c < bands.Lower[i]
		above := c > bands.Upper[i]

		switch {
		case below && !breakout, above && breakout:
			signal[i] = domain.Long
		case above && !breakout, below && breakout:
			signal[i] = domain.Short
		}
	}
	return signal
}
