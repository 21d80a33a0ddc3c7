package walkforward

import (
	"fmt"
	"time"

	"github.com/quantfold/walkforward/internal/domain"
)

// BuildEquity converts a per-bar position signal and per-bar returns
// into a normalized equity curve for one window.
//
// The position applied at bar t is the signal computed through bar t−1:
// a signal at bar t must never be applied to the return realized during
// bar t. The leading bar, which has no prior signal, is held flat.
// Equity compounds multiplicatively from an implicit 1.0 before the
// first bar and the returned curve is renormalized so its first element
// is exactly 1.0.
func BuildEquity(signal []domain.Position, barReturns []float64, times []time.Time) (domain.EquityCurve, error) {
	n := len(signal)
	if len(barReturns) != n || len(times) != n {
		return domain.EquityCurve{}, fmt.Errorf(
			"%w: signal (%d), returns (%d) and times (%d) must be index-aligned",
			ErrValidation, n, len(barReturns), len(times))
	}
	if n < 2 {
		return domain.EquityCurve{}, fmt.Errorf("%w: need at least 2 bars to build equity, got %d", ErrValidation, n)
	}

	values := make([]float64, n)
	equity := 1.0
	for t := 0; t < n; t++ {
		position := domain.Flat
		if t > 0 {
			position = signal[t-1]
		}
		equity *= 1 + float64(position)*barReturns[t]
		values[t] = equity
	}

	// The lag leaves the first bar flat, so values[0] is already 1.0;
	// the renormalization guards against edge effects all the same.
	first := values[0]
	for i := range values {
		values[i] /= first
	}
	values[0] = 1.0

	curve := domain.EquityCurve{
		Times:  append([]time.Time(nil), times...),
		Values: values,
	}
	return curve, nil
}
