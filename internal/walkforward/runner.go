package walkforward

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quantfold/walkforward/internal/domain"
)

// RunOptions configures one validation run. Zero values fall back to
// the standard 5-fold rolling configuration.
type RunOptions struct {
	NSplits    int
	TrainFrac  float64
	WindowType WindowType

	// OptimizeFn, when set, resolves per-window parameters from the
	// training slice. It is never handed the test slice; that is the
	// leakage boundary the whole design protects.
	OptimizeFn domain.OptimizeFunc

	// PeriodsPerYear overrides metric annualization; <= 0 lets the
	// metrics function detect it from bar timestamps.
	PeriodsPerYear int
}

func (o RunOptions) withDefaults() RunOptions {
	if o.NSplits == 0 {
		o.NSplits = 5
	}
	if o.TrainFrac == 0 {
		o.TrainFrac = 0.6
	}
	if o.WindowType == "" {
		o.WindowType = WindowRolling
	}
	return o
}

// Runner drives a walk-forward validation: plan windows, resolve
// per-window parameters, generate test-slice signals, build and stitch
// equity, and compute window plus aggregate metrics.
//
// Folds are processed strictly in chronological order because the
// stitching anchor of each piece depends on the previous piece's final
// value. The engine holds no shared mutable state across runs.
type Runner struct {
	metricsFn domain.MetricsFunc
	log       zerolog.Logger
}

// NewRunner creates a runner using the given metrics function for both
// per-window and aggregate metrics.
func NewRunner(metricsFn domain.MetricsFunc, log zerolog.Logger) *Runner {
	return &Runner{
		metricsFn: metricsFn,
		log:       log.With().Str("component", "walkforward").Logger(),
	}
}

// Run executes one validation of the strategy produced by factory over
// the full series. defaults are used for every window unless
// OptimizeFn resolves window-specific parameters from the training
// slice.
//
// Test slices with fewer than 2 bars are skipped, not errored: the run
// may legitimately produce fewer windows than requested. If every fold
// is skipped the run fails with ErrNoValidWindows.
func (r *Runner) Run(
	factory domain.StrategyFactory,
	series domain.Series,
	defaults domain.Params,
	opts RunOptions,
) (*Result, error) {
	opts = opts.withDefaults()

	n := len(series)
	specs, err := PlanWindows(n, opts.NSplits, opts.TrainFrac, opts.WindowType)
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Int("n_bars", n).
		Int("n_splits", opts.NSplits).
		Float64("train_frac", opts.TrainFrac).
		Str("window_type", string(opts.WindowType)).
		Bool("optimized", opts.OptimizeFn != nil).
		Msg("Starting walk-forward run")

	barReturns := series.Returns()
	times := series.Times()

	var (
		strategyName string
		windows      []WindowResult
		pieces       []domain.EquityCurve
	)

	for k, spec := range specs {
		if spec.TestLen() < 2 {
			r.log.Debug().
				Int("window_idx", k).
				Int("test_bars", spec.TestLen()).
				Msg("Skipping window: test slice too short for metrics")
			continue
		}

		params := defaults.Clone()
		if opts.OptimizeFn != nil {
			params, err = opts.OptimizeFn(factory, series[spec.TrainStart:spec.TrainEnd], defaults.Clone())
			if err != nil {
				return nil, fmt.Errorf("optimizing window %d: %w", k, err)
			}
		}

		strategy, err := factory(params)
		if err != nil {
			return nil, fmt.Errorf("building strategy for window %d: %w", k, err)
		}
		strategyName = strategy.Name()

		testBars := series[spec.TestStart:spec.TestEnd]
		signal, err := strategy.GenerateSignals(testBars)
		if err != nil {
			return nil, fmt.Errorf("generating signals for window %d: %w", k, err)
		}
		if len(signal) != len(testBars) {
			return nil, fmt.Errorf("%w: strategy %s returned %d signals for %d bars in window %d",
				ErrValidation, strategy.Name(), len(signal), len(testBars), k)
		}

		equity, err := BuildEquity(signal, barReturns[spec.TestStart:spec.TestEnd], times[spec.TestStart:spec.TestEnd])
		if err != nil {
			return nil, fmt.Errorf("building equity for window %d: %w", k, err)
		}

		metrics, err := r.metricsFn(equity, opts.PeriodsPerYear)
		if err != nil {
			return nil, fmt.Errorf("computing metrics for window %d: %w", k, err)
		}

		windows = append(windows, WindowResult{
			WindowIdx:  k,
			TrainStart: series[spec.TrainStart].Time,
			TrainEnd:   series[spec.TrainEnd-1].Time,
			TestStart:  series[spec.TestStart].Time,
			TestEnd:    series[spec.TestEnd-1].Time,
			Params:     params,
			Equity:     equity,
			Metrics:    metrics,
		})
		pieces = append(pieces, equity)

		r.log.Debug().
			Int("window_idx", k).
			Int("test_bars", spec.TestLen()).
			Float64("window_return", equity.Last()-1).
			Msg("Window complete")
	}

	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: all %d folds skipped for %d bars; increase data length or reduce n_splits",
			ErrNoValidWindows, opts.NSplits, n)
	}

	oosEquity, err := StitchEquity(pieces)
	if err != nil {
		return nil, fmt.Errorf("stitching OOS equity: %w", err)
	}

	oosMetrics, err := r.metricsFn(oosEquity, opts.PeriodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("computing OOS metrics: %w", err)
	}

	summary := make([]SummaryRow, 0, len(windows))
	for _, w := range windows {
		summary = append(summary, SummaryRow{
			WindowIdx:    w.WindowIdx,
			TestStart:    w.TestStart,
			TestEnd:      w.TestEnd,
			Bars:         w.Equity.Len(),
			TotalReturn:  domain.NullableFloat(w.Metrics["total_return"]),
			SharpeRatio:  domain.NullableFloat(w.Metrics["sharpe_ratio"]),
			SortinoRatio: domain.NullableFloat(w.Metrics["sortino_ratio"]),
			MaxDrawdown:  domain.NullableFloat(w.Metrics["max_drawdown"]),
			WinRate:      domain.NullableFloat(w.Metrics["win_rate"]),
		})
	}

	r.log.Info().
		Int("windows", len(windows)).
		Int("oos_bars", oosEquity.Len()).
		Float64("oos_return", oosEquity.Last()-1).
		Msg("Walk-forward run complete")

	return &Result{
		Strategy:   strategyName,
		Windows:    windows,
		OOSEquity:  oosEquity,
		OOSMetrics: oosMetrics,
		Summary:    summary,
	}, nil
}
