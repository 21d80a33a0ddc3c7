package strategies

import (
	"fmt"
	"math"

	"github.com/quantfold/walkforward/internal/domain"
	"github.com/quantfold/walkforward/pkg/formulas"
)

// RSIMeanReversionConfig configures the RSI mean-reversion strategy.
type RSIMeanReversionConfig struct {
	Period     int     // RSI lookback
	Oversold   float64 // go long below this RSI level
	Overbought float64 // go short above this RSI level
}

// DefaultRSIMeanReversionConfig returns the standard 14/30/70
// configuration.
func DefaultRSIMeanReversionConfig() RSIMeanReversionConfig {
	return RSIMeanReversionConfig{Period: 14, Oversold: 30, Overbought: 70}
}

// Validate checks configuration invariants.
func (c RSIMeanReversionConfig) Validate() error {
	if c.Period < 1 {
		return fmt.Errorf("period must be >= 1, got %d", c.Period)
	}
	if c.Oversold < 0 || c.Overbought > 100 || c.Oversold >= c.Overbought {
		return fmt.Errorf("thresholds must satisfy 0 <= oversold < overbought <= 100, got %v/%v",
			c.Oversold, c.Overbought)
	}
	return nil
}

// RSIMeanReversion goes long when Wilder's RSI reads oversold, short
// when overbought, and flat in between or during warm-up.
type RSIMeanReversion struct {
	cfg RSIMeanReversionConfig
}

// NewRSIMeanReversion builds the strategy, validating the
// configuration.
func NewRSIMeanReversion(cfg RSIMeanReversionConfig) (*RSIMeanReversion, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rsi_mean_reversion config: %w", err)
	}
	return &RSIMeanReversion{cfg: cfg}, nil
}

// Name implements domain.Strategy.
func (s *RSIMeanReversion) Name() string { return "rsi_mean_reversion" }

// GenerateSignals implements domain.Strategy.
func (s *RSIMeanReversion) GenerateSignals(bars []domain.Bar) ([]domain.Position, error) {
	signal := make([]domain.Position, len(bars))

	rsi := formulas.RSI(domain.Series(bars).Closes(), s.cfg.Period)
	if rsi == nil {
		return signal, nil
	}

	for i := range bars {
		if math.IsNaN(rsi[i]) {
			continue
		}
		switch {
		case rsi[i] < s.cfg.Oversold:
			signal[i] = domain.Long
		case rsi[i] > s.cfg.Overbought:
			signal[i] = domain.Short
		}
	}
	return signal, nil
}
