package results

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/walkforward/internal/domain"
	wftesting "github.com/quantfold/walkforward/internal/testing"
	"github.com/quantfold/walkforward/internal/walkforward"
)

func newTestRepository(t *testing.T) (*Repository, func()) {
	t.Helper()
	db, cleanup := wftesting.NewTestDB(t, "results")
	return NewRepository(db.Conn(), zerolog.Nop()), cleanup
}

func sampleResult() *walkforward.Result {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	equity := func(offset int, values ...float64) domain.EquityCurve {
		curve := domain.EquityCurve{Values: values}
		for i := range values {
			curve.Times = append(curve.Times, start.Add(time.Duration(offset+i)*day))
		}
		return curve
	}

	return &walkforward.Result{
		Strategy: "ma_crossover",
		Windows: []walkforward.WindowResult{
			{
				WindowIdx:  0,
				TrainStart: start,
				TrainEnd:   start.Add(59 * day),
				TestStart:  start.Add(60 * day),
				TestEnd:    start.Add(79 * day),
				Params:     domain.Params{"fast_period": 10, "slow_period": 40},
				Equity:     equity(60, 1.0, 1.02, 1.05),
				Metrics:    domain.Metrics{"total_return": 0.05, "sharpe_ratio": 1.2},
			},
			{
				WindowIdx:  1,
				TrainStart: start.Add(20 * day),
				TrainEnd:   start.Add(79 * day),
				TestStart:  start.Add(80 * day),
				TestEnd:    start.Add(99 * day),
				Params:     domain.Params{"fast_period": 15, "slow_period": 45},
				Equity:     equity(80, 1.0, 0.99, 1.01),
				Metrics:    domain.Metrics{"total_return": 0.01, "sharpe_ratio": 0.4},
			},
		},
		OOSEquity:  equity(60, 1.0, 1.02, 1.05, 1.039, 1.06),
		OOSMetrics: domain.Metrics{"total_return": 0.06, "sharpe_ratio": 0.9},
	}
}

func sampleMeta() RunMeta {
	return RunMeta{WindowType: "rolling", NSplits: 5, TrainFrac: 0.6, NBars: 100}
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	result := sampleResult()
	defaults := domain.Params{"fast_period": 20, "slow_period": 50}

	id, err := repo.SaveRun(result, defaults, sampleMeta())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored, err := repo.GetRun(id)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "ma_crossover", stored.Strategy)
	assert.Equal(t, "rolling", stored.WindowType)
	assert.Equal(t, 5, stored.NSplits)
	assert.Equal(t, 0.6, stored.TrainFrac)
	assert.Equal(t, 100, stored.NBars)
	assert.Equal(t, defaults, stored.Params)
	assert.Equal(t, result.OOSMetrics, stored.OOSMetrics)
	assert.Equal(t, result.OOSEquity.Values, stored.OOSEquity.Values)
	assert.Equal(t, result.OOSEquity.Times, stored.OOSEquity.Times)

	require.Len(t, stored.Windows, 2)
	for i, w := range stored.Windows {
		want := result.Windows[i]
		assert.Equal(t, want.WindowIdx, w.WindowIdx)
		assert.Equal(t, want.TrainStart, w.TrainStart)
		assert.Equal(t, want.TestEnd, w.TestEnd)
		assert.Equal(t, want.Params, w.Params)
		assert.Equal(t, want.Metrics, w.Metrics)
		assert.Equal(t, want.Equity.Values, w.Equity.Values)
		assert.Equal(t, want.Equity.Len(), w.Bars)
	}
}

func TestRepository_GetUnknownRun(t *testing.T) {
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	stored, err := repo.GetRun("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRepository_ListRuns(t *testing.T) {
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	summaries, err := repo.ListRuns()
	require.NoError(t, err)
	assert.Empty(t, summaries)

	first, err := repo.SaveRun(sampleResult(), domain.Params{}, sampleMeta())
	require.NoError(t, err)
	second, err := repo.SaveRun(sampleResult(), domain.Params{}, sampleMeta())
	require.NoError(t, err)

	summaries, err = repo.ListRuns()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	ids := []string{summaries[0].ID, summaries[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
	for _, s := range summaries {
		assert.Equal(t, "ma_crossover", s.Strategy)
		assert.Equal(t, 5, s.NSplits)
		assert.False(t, s.CreatedAt.IsZero())
	}
}

func TestRepository_DeleteRun(t *testing.T) {
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	id, err := repo.SaveRun(sampleResult(), domain.Params{}, sampleMeta())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteRun(id))

	stored, err := repo.GetRun(id)
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Windows cascade with the run.
	var count int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM run_windows WHERE run_id = ?", id).Scan(&count))
	assert.Zero(t, count)

	// Unknown IDs delete without error.
	assert.NoError(t, repo.DeleteRun("not-a-run"))
}
