package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/walkforward/internal/domain"
	wftesting "github.com/quantfold/walkforward/internal/testing"
)

func TestMACrossover_TrendFollowing(t *testing.T) {
	// 40 falling bars then 80 rising bars: the fast MA must cross above
	// the slow MA somewhere in the rally.
	closes := make([]float64, 120)
	price := 200.0
	for i := 0; i < 40; i++ {
		price -= 1
		closes[i] = price
	}
	for i := 40; i < 120; i++ {
		price += 2
		closes[i] = price
	}

	strategy, err := NewMACrossover(MACrossoverConfig{FastPeriod: 5, SlowPeriod: 20})
	require.NoError(t, err)

	signal, err := strategy.GenerateSignals(wftesting.DailySeries(closes...))
	require.NoError(t, err)
	require.Len(t, signal, 120)

	assert.Equal(t, domain.Flat, signal[0], "warm-up bars stay flat")
	assert.Equal(t, domain.Short, signal[30], "fast MA below slow MA in the decline")
	assert.Equal(t, domain.Long, signal[110], "fast MA above slow MA in the rally")
}

func TestMACrossover_TooFewBars(t *testing.T) {
	strategy, err := NewMACrossover(DefaultMACrossoverConfig())
	require.NoError(t, err)

	signal, err := strategy.GenerateSignals(wftesting.DailySeries(100, 101, 102))
	require.NoError(t, err)

	for _, p := range signal {
		assert.Equal(t, domain.Flat, p)
	}
}

func TestMACrossoverConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultMACrossoverConfig().Validate())
	assert.Error(t, MACrossoverConfig{FastPeriod: 0, SlowPeriod: 50}.Validate())
	assert.Error(t, MACrossoverConfig{FastPeriod: 50, SlowPeriod: 20}.Validate())
	assert.Error(t, MACrossoverConfig{FastPeriod: 20, SlowPeriod: 20}.Validate())
}

func TestRSIMeanReversion_Thresholds(t *testing.T) {
	// Steady rally pushes RSI toward 100: the strategy should be short
	// (overbought) once warm-up is over.
	closes := make([]float64, 40)
	price := 100.0
	for i := range closes {
		price += 1.5
		closes[i] = price
	}

	strategy, err := NewRSIMeanReversion(DefaultRSIMeanReversionConfig())
	require.NoError(t, err)

	signal, err := strategy.GenerateSignals(wftesting.DailySeries(closes...))
	require.NoError(t, err)

	assert.Equal(t, domain.Flat, signal[5], "warm-up bars stay flat")
	assert.Equal(t, domain.Short, signal[39], "monotonic rally is overbought")
}

func TestRSIMeanReversionConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultRSIMeanReversionConfig().Validate())
	assert.Error(t, RSIMeanReversionConfig{Period: 0, Oversold: 30, Overbought: 70}.Validate())
	assert.Error(t, RSIMeanReversionConfig{Period: 14, Oversold: 70, Overbought: 30}.Validate())
	assert.Error(t, RSIMeanReversionConfig{Period: 14, Oversold: -5, Overbought: 70}.Validate())
	assert.Error(t, RSIMeanReversionConfig{Period: 14, Oversold: 30, Overbought: 105}.Validate())
}

func TestBollingerMeanReversion_Bands(t *testing.T) {
	// Quiet range then a violent spike: mean reversion shorts the
	// spike, breakout buys it.
	closes := make([]float64, 30)
	for i := 0; i < 29; i++ {
		closes[i] = 100 + 0.5*float64(i%4)
	}
	closes[29] = 130

	meanRev, err := NewBollingerMeanReversion(DefaultBollingerConfig())
	require.NoError(t, err)
	breakout, err := NewBollingerBreakout(DefaultBollingerConfig())
	require.NoError(t, err)

	bars := wftesting.DailySeries(closes...)

	mrSignal, err := meanRev.GenerateSignals(bars)
	require.NoError(t, err)
	boSignal, err := breakout.GenerateSignals(bars)
	require.NoError(t, err)

	assert.Equal(t, domain.Short, mrSignal[29], "mean reversion fades the upside spike")
	assert.Equal(t, domain.Long, boSignal[29], "breakout follows the upside spike")
	assert.Equal(t, domain.Flat, mrSignal[10], "inside warm-up or bands stays flat")
}

func TestBollingerConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultBollingerConfig().Validate())
	assert.Error(t, BollingerConfig{Period: 1, NumStd: 2}.Validate())
	assert.Error(t, BollingerConfig{Period: 20, NumStd: 0}.Validate())
}

func TestRegistry_Names(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{
		"bollinger_breakout",
		"bollinger_mean_reversion",
		"ma_crossover",
		"rsi_mean_reversion",
	}, names)
}

func TestRegistry_FactoryUnknownStrategy(t *testing.T) {
	_, err := Factory("macd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestRegistry_BuildsWithDefaults(t *testing.T) {
	for _, name := range Names() {
		factory, err := Factory(name)
		require.NoError(t, err)

		strategy, err := factory(domain.Params{})
		require.NoError(t, err, "strategy %s must build from empty params", name)
		assert.Equal(t, name, strategy.Name())
	}
}

func TestRegistry_OverridesDefaults(t *testing.T) {
	factory, err := Factory("ma_crossover")
	require.NoError(t, err)

	strategy, err := factory(domain.Params{"fast_period": 5, "slow_period": 15})
	require.NoError(t, err)

	crossover, ok := strategy.(*MACrossover)
	require.True(t, ok)
	assert.Equal(t, 5, crossover.cfg.FastPeriod)
	assert.Equal(t, 15, crossover.cfg.SlowPeriod)
}

func TestRegistry_RejectsUnknownParameter(t *testing.T) {
	factory, err := Factory("rsi_mean_reversion")
	require.NoError(t, err)

	_, err = factory(domain.Params{"perod": 10})
	require.Error(t, err, "a typo must fail loudly, not run with defaults")
	assert.Contains(t, err.Error(), "perod")
}

func TestRegistry_RejectsInvalidConfig(t *testing.T) {
	factory, err := Factory("ma_crossover")
	require.NoError(t, err)

	_, err = factory(domain.Params{"fast_period": 50, "slow_period": 10})
	assert.Error(t, err)
}
