package formulas

import (
	"github.com/markcheno/go-talib"
)

// BollingerBands holds the three band series for a close series.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger calculates Bollinger Bands over the closes.
//
// Bollinger Bands Formula:
//
//	Middle Band = period SMA
//	Upper Band  = Middle + (numStd × std deviation)
//	Lower Band  = Middle - (numStd × std deviation)
//
// Band series are aligned 1:1 with the input with NaN warm-ups. Returns
// nil if there is not enough data for a single band value.
func Bollinger(closes []float64, period int, numStd float64) *BollingerBands {
	if period < 2 || len(closes) < period {
		return nil
	}

	// MAType 0 = SMA.
	upper, middle, lower := talib.BBands(closes, period, numStd, numStd, 0)

	maskWarmup(upper, period-1)
	maskWarmup(middle, period-1)
	maskWarmup(lower, period-1)

	return &BollingerBands{Upper: upper, Middle: middle, Lower: lower}
}
