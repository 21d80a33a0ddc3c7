// Package testing provides shared fixtures and helpers for the
// walkforward test suites.
package testing

import (
	"time"

	"github.com/quantfold/walkforward/internal/data"
	"github.com/quantfold/walkforward/internal/domain"
)

// SeriesStart is the first bar timestamp used by all fixtures.
var SeriesStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DailySeries builds a daily bar series from close prices. Open, high
// and low are set to the close; volume is constant. Good enough for
// engine tests, which only read closes and timestamps.
func DailySeries(closes ...float64) domain.Series {
	series := make(domain.Series, len(closes))
	for i, c := range closes {
		series[i] = domain.Bar{
			Time:   SeriesStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return series
}

// SyntheticDailySeries generates n daily bars following a seeded
// geometric random walk, so tests are deterministic for a given seed.
func SyntheticDailySeries(n int, seed int64) domain.Series {
	return data.GenerateSeries(data.SyntheticConfig{
		Bars:  n,
		Start: SeriesStart,
		Seed:  seed,
	})
}
