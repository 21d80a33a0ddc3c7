package formulas

import (
	"github.com/markcheno/go-talib"
)

// RSI calculates the Relative Strength Index using Wilder's smoothing.
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
//
// Returns a slice aligned 1:1 with the input; the first period entries
// are NaN. Returns nil if there are fewer than period+1 closes.
func RSI(closes []float64, period int) []float64 {
	if period < 1 || len(closes) < period+1 {
		return nil
	}

	out := talib.Rsi(closes, period)
	maskWarmup(out, period)
	return out
}
