// Package metrics computes risk/return statistics from equity curves.
// It is a pure, stateless collaborator of the validation engine.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/quantfold/walkforward/internal/domain"
)

// FallbackPeriodsPerYear is used when the inter-bar delta cannot be
// measured (fewer than 2 timestamps).
const FallbackPeriodsPerYear = 365

const secondsPerYear = 365 * 24 * 3600

// DetectPeriodsPerYear infers the annualization factor from the median
// inter-bar time delta: 365 for daily bars, 8760 for hourly bars.
func DetectPeriodsPerYear(times []time.Time) int {
	if len(times) < 2 {
		return FallbackPeriodsPerYear
	}

	deltas := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		deltas = append(deltas, times[i].Sub(times[i-1]).Seconds())
	}
	sort.Float64s(deltas)

	median := deltas[len(deltas)/2]
	if len(deltas)%2 == 0 {
		median = (deltas[len(deltas)/2-1] + deltas[len(deltas)/2]) / 2
	}
	if median <= 0 {
		return FallbackPeriodsPerYear
	}

	periods := int(secondsPerYear / median)
	if periods < 1 {
		return 1
	}
	return periods
}

// Compute derives named scalar performance metrics from an equity
// curve. periodsPerYear <= 0 requests auto-detection from the curve's
// timestamps. Ratios that are undefined for the input (zero volatility,
// no losing bars) come back as NaN rather than an error.
func Compute(curve domain.EquityCurve, periodsPerYear int) (domain.Metrics, error) {
	n := curve.Len()
	if n < 2 {
		return nil, fmt.Errorf("equity curve must have at least 2 points, got %d", n)
	}

	if periodsPerYear <= 0 {
		periodsPerYear = DetectPeriodsPerYear(curve.Times)
	}

	returns := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		returns = append(returns, curve.Values[i]/curve.Values[i-1]-1)
	}

	totalReturn := curve.Values[n-1]/curve.Values[0] - 1
	meanRet := stat.Mean(returns, nil)
	stdRet := stat.StdDev(returns, nil)

	annFactor := math.Sqrt(float64(periodsPerYear))
	sharpe := math.NaN()
	if stdRet > 0 {
		sharpe = meanRet / stdRet * annFactor
	}

	var negative []float64
	wins := 0
	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
		if r > 0 {
			wins++
		}
	}

	meanNeg := math.NaN()
	if len(negative) > 0 {
		meanNeg = stat.Mean(negative, nil)
	}
	stdNeg := math.NaN()
	if len(negative) > 1 {
		stdNeg = stat.StdDev(negative, nil)
	}

	sortino := math.NaN()
	if !math.IsNaN(stdNeg) && stdNeg > 0 {
		sortino = meanRet / stdNeg * annFactor
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	p05 := stat.Quantile(0.05, stat.LinInterp, sorted, nil)
	p25 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	p75 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	p95 := stat.Quantile(0.95, stat.LinInterp, sorted, nil)

	maxDrawdown := 0.0
	runningMax := curve.Values[0]
	for _, v := range curve.Values {
		if v > runningMax {
			runningMax = v
		}
		drawdown := (v - runningMax) / runningMax
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	annualizedReturn := math.Pow(1+totalReturn, float64(periodsPerYear)/float64(len(returns))) - 1
	calmar := math.NaN()
	if maxDrawdown < 0 {
		calmar = annualizedReturn / math.Abs(maxDrawdown)
	}

	winRate := float64(wins) / float64(len(returns))

	return domain.Metrics{
		"total_return":    totalReturn,
		"mean_return":     meanRet,
		"std_return":      stdRet,
		"sharpe_ratio":    sharpe,
		"sortino_ratio":   sortino,
		"mean_neg_return": meanNeg,
		"std_neg_return":  stdNeg,
		"return_p05":      p05,
		"return_p25":      p25,
		"return_p75":      p75,
		"return_p95":      p95,
		"max_drawdown":    maxDrawdown,
		"calmar_ratio":    calmar,
		"win_rate":        winRate,
	}, nil
}
