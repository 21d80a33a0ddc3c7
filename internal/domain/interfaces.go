package domain

// Strategy converts a slice of bars into one position per bar. The
// signal at index i may only use information from bars [0, i]; the
// engine applies its own one-bar lag before the signal touches any
// return, so a strategy does not lag its own output.
type Strategy interface {
	// Name identifies the strategy in results and logs.
	Name() string

	// GenerateSignals returns exactly one position per input bar.
	GenerateSignals(bars []Bar) ([]Position, error)
}

// StrategyFactory builds a strategy from a parameter mapping. The
// orchestrator calls it once per window with that window's resolved
// parameters.
type StrategyFactory func(params Params) (Strategy, error)

// OptimizeFunc resolves per-window parameters from the training slice
// only. It must never see the test slice; that boundary is what keeps
// the out-of-sample evaluation honest.
type OptimizeFunc func(factory StrategyFactory, train []Bar, defaults Params) (Params, error)

// MetricsFunc computes named scalar performance metrics from an equity
// curve. periodsPerYear <= 0 requests auto-detection from the curve's
// timestamps.
type MetricsFunc func(curve EquityCurve, periodsPerYear int) (Metrics, error)

// Signal computes descriptive indicator columns from bars without
// emitting position decisions. Strategies may consume signal outputs
// as inputs.
type Signal interface {
	// Name identifies the signal.
	Name() string

	// OutputColumn is the primary column produced by Compute.
	OutputColumn() string

	// Compute returns named indicator columns, each aligned 1:1 with
	// the input bars. Warm-up elements are NaN.
	Compute(bars []Bar) (map[string][]float64, error)
}
