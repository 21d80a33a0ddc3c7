// Package data provides the in-memory bar sources used by the demo
// entry points and tests: a seeded synthetic generator and a CSV
// loader. Live market-data acquisition and caching are deliberately out
// of scope; the engine only ever sees an ordered Series.
package data

import (
	"math"
	"math/rand"
	"time"

	"github.com/quantfold/walkforward/internal/domain"
)

// SyntheticConfig configures the geometric-random-walk generator.
// Zero values fall back to 500 daily bars of a mildly drifting, 1%
// volatility walk starting 2024-01-01 at 100.0.
type SyntheticConfig struct {
	Bars       int
	StartPrice float64
	Drift      float64 // per-bar log drift
	Volatility float64 // per-bar log volatility
	Start      time.Time
	Interval   time.Duration
	Seed       int64
}

func (c SyntheticConfig) withDefaults() SyntheticConfig {
	if c.Bars == 0 {
		c.Bars = 500
	}
	if c.StartPrice == 0 {
		c.StartPrice = 100.0
	}
	if c.Drift == 0 {
		c.Drift = 0.0002
	}
	if c.Volatility == 0 {
		c.Volatility = 0.01
	}
	if c.Start.IsZero() {
		c.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if c.Interval == 0 {
		c.Interval = 24 * time.Hour
	}
	return c
}

// GenerateSeries produces a deterministic synthetic OHLCV series for a
// given seed, suitable for demos and engine tests.
func GenerateSeries(cfg SyntheticConfig) domain.Series {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))

	series := make(domain.Series, cfg.Bars)
	price := cfg.StartPrice
	for i := 0; i < cfg.Bars; i++ {
		ret := cfg.Drift + cfg.Volatility*rng.NormFloat64()
		open := price
		price *= math.Exp(ret)

		high := math.Max(open, price) * (1 + 0.002*rng.Float64())
		low := math.Min(open, price) * (1 - 0.002*rng.Float64())

		series[i] = domain.Bar{
			Time:   cfg.Start.Add(time.Duration(i) * cfg.Interval),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 1000 + 500*rng.Float64(),
		}
	}
	return series
}
