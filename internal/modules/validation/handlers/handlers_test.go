package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/walkforward/internal/metrics"
	"github.com/quantfold/walkforward/internal/results"
	wftesting "github.com/quantfold/walkforward/internal/testing"
	"github.com/quantfold/walkforward/internal/walkforward"
)

func newTestRouter(t *testing.T) (chi.Router, func()) {
	t.Helper()

	db, cleanup := wftesting.NewTestDB(t, "results")
	repo := results.NewRepository(db.Conn(), zerolog.Nop())
	runner := walkforward.NewRunner(metrics.Compute, zerolog.Nop())

	router := chi.NewRouter()
	NewHandler(runner, repo, zerolog.Nop()).RegisterRoutes(router)
	return router, cleanup
}

func doRequest(t *testing.T, router chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func syntheticRunRequest() RunRequest {
	return RunRequest{
		Strategy:  "ma_crossover",
		NSplits:   4,
		TrainFrac: 0.6,
		Data:      DataRequest{Source: "synthetic", Bars: 400, Seed: 42},
	}
}

func TestHandleRun(t *testing.T) {
	router, cleanup := newTestRouter(t)
	defer cleanup()

	rec := doRequest(t, router, "POST", "/validation/run", syntheticRunRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		RunID  string             `json:"run_id"`
		Result walkforward.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "ma_crossover", resp.Result.Strategy)
	assert.Len(t, resp.Result.Windows, 4)
	assert.Equal(t, 1.0, resp.Result.OOSEquity.Values[0])
	assert.Contains(t, resp.Result.OOSMetrics, "sharpe_ratio")
}

func TestHandleRun_UnknownStrategy(t *testing.T) {
	router, cleanup := newTestRouter(t)
	defer cleanup()

	req := syntheticRunRequest()
	req.Strategy = "nope"

	rec := doRequest(t, router, "POST", "/validation/run", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nope")
}

func TestHandleRun_BadWindowType(t *testing.T) {
	router, cleanup := newTestRouter(t)
	defer cleanup()

	req := syntheticRunRequest()
	req.WindowType = "sideways"

	rec := doRequest(t, router, "POST", "/validation/run", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRun_TooFewBars(t *testing.T) {
	router, cleanup := newTestRouter(t)
	defer cleanup()

	req := syntheticRunRequest()
	req.Data.Bars = 3
	req.NSplits = 10

	rec := doRequest(t, router, "POST", "/validation/run", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRun_InvalidBody(t *testing.T) {
	router, cleanup := newTestRouter(t)
	defer cleanup()

	req := httptest.NewRequest("POST", "/validation/run", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunLifecycle(t *testing.T) {
	router, cleanup := newTestRouter(t)
	defer cleanup()

	// No runs stored yet.
	rec := doRequest(t, router, "GET", "/validation/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// Execute and persist one run.
	rec = doRequest(t, router, "POST", "/validation/run", syntheticRunRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.RunID)

	// It shows up in the listing.
	rec = doRequest(t, router, "GET", "/validation/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []results.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, created.RunID, summaries[0].ID)
	assert.Equal(t, 400, summaries[0].NBars)

	// Full detail round-trips.
	rec = doRequest(t, router, "GET", "/validation/runs/"+created.RunID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stored results.StoredRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "ma_crossover", stored.Strategy)
	assert.Len(t, stored.Windows, 4)

	// Delete removes it.
	rec = doRequest(t, router, "DELETE", "/validation/runs/"+created.RunID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, "GET", "/validation/runs/"+created.RunID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetRun_NotFound(t *testing.T) {
	router, cleanup := newTestRouter(t)
	defer cleanup()

	rec := doRequest(t, router, "GET", "/validation/runs/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListStrategies(t *testing.T) {
	router, cleanup := newTestRouter(t)
	defer cleanup()

	rec := doRequest(t, router, "GET", "/validation/strategies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Strategies []string `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Strategies, "ma_crossover")
	assert.Contains(t, resp.Strategies, "rsi_mean_reversion")
}
