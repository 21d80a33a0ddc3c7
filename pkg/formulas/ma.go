// Package formulas wraps go-talib indicator math behind slice-returning
// helpers. Warm-up positions, which talib zero-fills, are masked to NaN
// so that consumers cannot mistake them for real values.
package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMA calculates a simple moving average over the closes.
//
// Returns a slice aligned 1:1 with the input; the first period-1
// entries are NaN. Returns nil if there is not enough data for a single
// average.
func SMA(closes []float64, period int) []float64 {
	if period < 1 || len(closes) < period {
		return nil
	}

	out := talib.Sma(closes, period)
	maskWarmup(out, period-1)
	return out
}

// EMA calculates an exponential moving average over the closes, NaN
// masked like SMA.
func EMA(closes []float64, period int) []float64 {
	if period < 1 || len(closes) < period {
		return nil
	}

	out := talib.Ema(closes, period)
	maskWarmup(out, period-1)
	return out
}

func maskWarmup(values []float64, bars int) {
	if bars > len(values) {
		bars = len(values)
	}
	for i := 0; i < bars; i++ {
		values[i] = math.NaN()
	}
}
