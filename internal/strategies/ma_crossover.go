// Package strategies contains the built-in position-signal strategies
// and a name-keyed registry for constructing them from parameter
// mappings. Each strategy carries an explicit, defaulted, validated
// configuration record; unknown parameter names are rejected at
// construction instead of being silently ignored.
package strategies

import (
	"fmt"
	"math"

	"github.com/quantfold/walkforward/internal/domain"
	"github.com/quantfold/walkforward/pkg/formulas"
)

// MACrossoverConfig configures the dual moving average crossover.
type MACrossoverConfig struct {
	FastPeriod int // lookback of the fast MA
	SlowPeriod int // lookback of the slow MA
}

// DefaultMACrossoverConfig returns the standard 20/50 configuration.
func DefaultMACrossoverConfig() MACrossoverConfig {
	return MACrossoverConfig{FastPeriod: 20, SlowPeriod: 50}
}

// Validate checks configuration invariants.
func (c MACrossoverConfig) Validate() error {
	if c.FastPeriod < 1 {
		return fmt.Errorf("fast_period must be >= 1, got %d", c.FastPeriod)
	}
	if c.SlowPeriod <= c.FastPeriod {
		return fmt.Errorf("slow_period (%d) must be greater than fast_period (%d)", c.SlowPeriod, c.FastPeriod)
	}
	return nil
}

// MACrossover goes long while the fast MA is above the slow MA and
// short while it is below. Bars inside either MA's warm-up are flat.
type MACrossover struct {
	cfg MACrossoverConfig
}

// NewMACrossover builds the strategy, validating the configuration.
func NewMACrossover(cfg MACrossoverConfig) (*MACrossover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ma_crossover config: %w", err)
	}
	return &MACrossover{cfg: cfg}, nil
}

// Name implements domain.Strategy.
func (s *MACrossover) Name() string { return "ma_crossover" }

// GenerateSignals implements domain.Strategy.
func (s *MACrossover) GenerateSignals(bars []domain.Bar) ([]domain.Position, error) {
	signal := make([]domain.Position, len(bars))

	closes := domain.Series(bars).Closes()
	fast := formulas.SMA(closes, s.cfg.FastPeriod)
	slow := formulas.SMA(closes, s.cfg.SlowPeriod)
	if fast == nil || slow == nil {
		// Not enough bars for a single slow MA value: stay flat.
		return signal, nil
	}

	for i := range bars {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) {
			continue
		}
		switch {
		case fast[i] > slow[i]:
			signal[i] = domain.Long
		case fast[i] < slow[i]:
			signal[i] = domain.Short
		}
	}
	return signal, nil
}
