package strategies

import (
	"fmt"
	"sort"

	"github.com/quantfold/walkforward/internal/domain"
)

// builders maps strategy names to parameter-mapping constructors. Each
// builder rejects unknown parameter keys so a typo fails loudly instead
// of silently running with defaults.
var builders = map[string]domain.StrategyFactory{
	"ma_crossover":             buildMACrossover,
	"rsi_mean_reversion":       buildRSIMeanReversion,
	"bollinger_mean_reversion": buildBollingerMeanReversion,
	"bollinger_breakout":       buildBollingerBreakout,
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory returns the constructor for a registered strategy name.
func Factory(name string) (domain.StrategyFactory, error) {
	factory, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, Names())
	}
	return factory, nil
}

// paramReader tracks which keys of a parameter mapping were consumed so
// leftovers can be reported as errors.
type paramReader struct {
	params domain.Params
	seen   map[string]bool
}

func newParamReader(params domain.Params) *paramReader {
	return &paramReader{params: params, seen: make(map[string]bool, len(params))}
}

func (r *paramReader) float(key string, fallback float64) float64 {
	r.seen[key] = true
	if v, ok := r.params[key]; ok {
		return v
	}
	return fallback
}

func (r *paramReader) integer(key string, fallback int) int {
	return int(r.float(key, float64(fallback)))
}

func (r *paramReader) unknown() error {
	for key := range r.params {
		if !r.seen[key] {
			return fmt.Errorf("unknown parameter %q", key)
		}
	}
	return nil
}

func buildMACrossover(params domain.Params) (domain.Strategy, error) {
	reader := newParamReader(params)
	cfg := DefaultMACrossoverConfig()
	cfg.FastPeriod = reader.integer("fast_period", cfg.FastPeriod)
	cfg.SlowPeriod = reader.integer("slow_period", cfg.SlowPeriod)
	if err := reader.unknown(); err != nil {
		return nil, fmt.Errorf("ma_crossover: %w", err)
	}
	return NewMACrossover(cfg)
}

func buildRSIMeanReversion(params domain.Params) (domain.Strategy, error) {
	reader := newParamReader(params)
	cfg := DefaultRSIMeanReversionConfig()
	cfg.Period = reader.integer("period", cfg.Period)
	cfg.Oversold = reader.float("oversold", cfg.Oversold)
	cfg.Overbought = reader.float("overbought", cfg.Overbought)
	if err := reader.unknown(); err != nil {
		return nil, fmt.Errorf("rsi_mean_reversion: %w", err)
	}
	return NewRSIMeanReversion(cfg)
}

func buildBollingerMeanReversion(params domain.Params) (domain.Strategy, error) {
	cfg, err := bollingerConfig(params)
	if err != nil {
		return nil, fmt.Errorf("bollinger_mean_reversion: %w", err)
	}
	return NewBollingerMeanReversion(cfg)
}

func buildBollingerBreakout(params domain.Params) (domain.Strategy, error) {
	cfg, err := bollingerConfig(params)
	if err != nil {
		return nil, fmt.Errorf("bollinger_breakout: %w", err)
	}
	return NewBollingerBreakout(cfg)
}

func bollingerConfig(params domain.Params) (BollingerConfig, error) {
	reader := newParamReader(params)
	cfg := DefaultBollingerConfig()
	cfg.Period = reader.integer("period", cfg.Period)
	cfg.NumStd = reader.float("num_std", cfg.NumStd)
	return cfg, reader.unknown()
}
