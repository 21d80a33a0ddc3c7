package walkforward

import (
	"time"

	"github.com/quantfold/walkforward/internal/domain"
)

// WindowResult holds the outcome of one surviving fold. Immutable after
// creation; owned by the run's result collection.
type WindowResult struct {
	WindowIdx  int                `json:"window_idx"`
	TrainStart time.Time          `json:"train_start"`
	TrainEnd   time.Time          `json:"train_end"`
	TestStart  time.Time          `json:"test_start"`
	TestEnd    time.Time          `json:"test_end"`
	Params     domain.Params      `json:"params"`
	Equity     domain.EquityCurve `json:"equity"`
	Metrics    domain.Metrics     `json:"metrics"`
}

// SummaryRow is one line of the per-window tabular summary: test
// boundaries, bar count, and the headline metrics for human inspection.
type SummaryRow struct {
	WindowIdx    int                  `json:"window_idx"`
	TestStart    time.Time            `json:"test_start"`
	TestEnd      time.Time            `json:"test_end"`
	Bars         int                  `json:"n_bars"`
	TotalReturn  domain.NullableFloat `json:"total_return"`
	SharpeRatio  domain.NullableFloat `json:"sharpe_ratio"`
	SortinoRatio domain.NullableFloat `json:"sortino_ratio"`
	MaxDrawdown  domain.NullableFloat `json:"max_drawdown"`
	WinRate      domain.NullableFloat `json:"win_rate"`
}

// Result is the terminal output of one walk-forward validation run.
type Result struct {
	Strategy   string             `json:"strategy"`
	Windows    []WindowResult     `json:"windows"`
	OOSEquity  domain.EquityCurve `json:"oos_equity"`
	OOSMetrics domain.Metrics     `json:"oos_metrics"`
	Summary    []SummaryRow       `json:"summary"`
}
