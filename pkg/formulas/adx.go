package formulas

import (
	"github.com/markcheno/go-talib"
)

// ADX calculates the Average Directional Index, a 0-100 trend-strength
// reading (above ~25 is usually treated as trending).
//
// The warm-up of Wilder's double smoothing is 2×period−1 bars; those
// entries are NaN. Returns nil if there is not enough data for a single
// reading.
func ADX(highs, lows, closes []float64, period int) []float64 {
	if period < 1 || len(closes) < 2*period {
		return nil
	}
	if len(highs) != len(closes) || len(lows) != len(closes) {
		return nil
	}

	out := talib.Adx(highs, lows, closes, period)
	maskWarmup(out, 2*period-1)
	return out
}
