// Package results persists completed walk-forward runs so they can be
// inspected after the fact, compared across strategies, and served by
// the report API.
package results

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/quantfold/walkforward/internal/domain"
	"github.com/quantfold/walkforward/internal/walkforward"
)

// RunMeta describes the configuration of a stored run.
type RunMeta struct {
	WindowType string  `json:"window_type"`
	NSplits    int     `json:"n_splits"`
	TrainFrac  float64 `json:"train_frac"`
	NBars      int     `json:"n_bars"`
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Strategy  string    `json:"strategy"`
	RunMeta
}

// StoredWindow is one persisted fold of a run.
type StoredWindow struct {
	WindowIdx  int                `json:"window_idx"`
	TrainStart time.Time          `json:"train_start"`
	TrainEnd   time.Time          `json:"train_end"`
	TestStart  time.Time          `json:"test_start"`
	TestEnd    time.Time          `json:"test_end"`
	Bars       int                `json:"n_bars"`
	Params     domain.Params      `json:"params"`
	Metrics    domain.Metrics     `json:"metrics"`
	Equity     domain.EquityCurve `json:"equity"`
}

// StoredRun is the full detail view of a stored run.
type StoredRun struct {
	RunSummary
	Params     domain.Params      `json:"params"`
	OOSMetrics domain.Metrics     `json:"oos_metrics"`
	OOSEquity  domain.EquityCurve `json:"oos_equity"`
	Windows    []StoredWindow     `json:"windows"`
}

// Repository handles run persistence in the results database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new results repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "results").Logger(),
	}
}

// equityBlob is the msgpack wire form of an equity curve.
type equityBlob struct {
	Times  []int64   `msgpack:"times"`
	Values []float64 `msgpack:"values"`
}

func encodeEquity(curve domain.EquityCurve) ([]byte, error) {
	blob := equityBlob{
		Times:  make([]int64, len(curve.Times)),
		Values: curve.Values,
	}
	for i, ts := range curve.Times {
		blob.Times[i] = ts.Unix()
	}
	return msgpack.Marshal(blob)
}

func decodeEquity(raw []byte) (domain.EquityCurve, error) {
	var blob equityBlob
	if err := msgpack.Unmarshal(raw, &blob); err != nil {
		return domain.EquityCurve{}, fmt.Errorf("decoding equity blob: %w", err)
	}

	curve := domain.EquityCurve{
		Times:  make([]time.Time, len(blob.Times)),
		Values: blob.Values,
	}
	for i, unix := range blob.Times {
		curve.Times[i] = time.Unix(unix, 0).UTC()
	}
	return curve, nil
}

// SaveRun persists a completed run and its windows in one transaction,
// returning the generated run ID.
func (r *Repository) SaveRun(result *walkforward.Result, defaults domain.Params, meta RunMeta) (string, error) {
	runID := uuid.New().String()
	now := time.Now().UTC()

	paramsJSON, err := json.Marshal(defaults)
	if err != nil {
		return "", fmt.Errorf("encoding run params: %w", err)
	}
	metricsJSON, err := json.Marshal(result.OOSMetrics)
	if err != nil {
		return "", fmt.Errorf("encoding OOS metrics: %w", err)
	}
	oosEquity, err := encodeEquity(result.OOSEquity)
	if err != nil {
		return "", fmt.Errorf("encoding OOS equity: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, strategy, window_type, n_splits, train_frac, n_bars,
		                  params_json, oos_metrics_json, oos_equity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, now.Unix(), result.Strategy, meta.WindowType, meta.NSplits, meta.TrainFrac,
		meta.NBars, string(paramsJSON), string(metricsJSON), oosEquity,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, w := range result.Windows {
		windowParams, err := json.Marshal(w.Params)
		if err != nil {
			return "", fmt.Errorf("encoding window %d params: %w", w.WindowIdx, err)
		}
		windowMetrics, err := json.Marshal(w.Metrics)
		if err != nil {
			return "", fmt.Errorf("encoding window %d metrics: %w", w.WindowIdx, err)
		}
		windowEquity, err := encodeEquity(w.Equity)
		if err != nil {
			return "", fmt.Errorf("encoding window %d equity: %w", w.WindowIdx, err)
		}

		_, err = tx.Exec(`
			INSERT INTO run_windows (run_id, window_idx, train_start, train_end, test_start, test_end,
			                         n_bars, params_json, metrics_json, equity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, w.WindowIdx, w.TrainStart.Unix(), w.TrainEnd.Unix(), w.TestStart.Unix(),
			w.TestEnd.Unix(), w.Equity.Len(), string(windowParams), string(windowMetrics), windowEquity,
		)
		if err != nil {
			return "", fmt.Errorf("inserting window %d: %w", w.WindowIdx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}

	r.log.Info().
		Str("run_id", runID).
		Str("strategy", result.Strategy).
		Int("windows", len(result.Windows)).
		Msg("Run persisted")

	return runID, nil
}

// ListRuns returns run summaries, newest first.
func (r *Repository) ListRuns() ([]RunSummary, error) {
	rows, err := r.db.Query(`
		SELECT id, created_at, strategy, window_type, n_splits, train_frac, n_bars
		FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var s RunSummary
		var createdAt int64
		if err := rows.Scan(&s.ID, &createdAt, &s.Strategy, &s.WindowType, &s.NSplits, &s.TrainFrac, &s.NBars); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return summaries, nil
}

// GetRun loads the full detail of one run, or (nil, nil) when the ID
// is unknown.
func (r *Repository) GetRun(id string) (*StoredRun, error) {
	var (
		run         StoredRun
		createdAt   int64
		paramsJSON  string
		metricsJSON string
		equityRaw   []byte
	)
	err := r.db.QueryRow(`
		SELECT id, created_at, strategy, window_type, n_splits, train_frac, n_bars,
		       params_json, oos_metrics_json, oos_equity
		FROM runs WHERE id = ?`, id).Scan(
		&run.ID, &createdAt, &run.Strategy, &run.WindowType, &run.NSplits, &run.TrainFrac,
		&run.NBars, &paramsJSON, &metricsJSON, &equityRaw,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}

	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(paramsJSON), &run.Params); err != nil {
		return nil, fmt.Errorf("decoding run params: %w", err)
	}
	if err := json.Unmarshal([]byte(metricsJSON), &run.OOSMetrics); err != nil {
		return nil, fmt.Errorf("decoding OOS metrics: %w", err)
	}
	if run.OOSEquity, err = decodeEquity(equityRaw); err != nil {
		return nil, err
	}

	if run.Windows, err = r.loadWindows(id); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *Repository) loadWindows(runID string) ([]StoredWindow, error) {
	rows, err := r.db.Query(`
		SELECT window_idx, train_start, train_end, test_start, test_end, n_bars,
		       params_json, metrics_json, equity
		FROM run_windows WHERE run_id = ? ORDER BY window_idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying windows for run %s: %w", runID, err)
	}
	defer rows.Close()

	var windows []StoredWindow
	for rows.Next() {
		var (
			w           StoredWindow
			trainStart  int64
			trainEnd    int64
			testStart   int64
			testEnd     int64
			paramsJSON  string
			metricsJSON string
			equityRaw   []byte
		)
		if err := rows.Scan(&w.WindowIdx, &trainStart, &trainEnd, &testStart, &testEnd, &w.Bars,
			&paramsJSON, &metricsJSON, &equityRaw); err != nil {
			return nil, fmt.Errorf("scanning window: %w", err)
		}

		w.TrainStart = time.Unix(trainStart, 0).UTC()
		w.TrainEnd = time.Unix(trainEnd, 0).UTC()
		w.TestStart = time.Unix(testStart, 0).UTC()
		w.TestEnd = time.Unix(testEnd, 0).UTC()
		if err := json.Unmarshal([]byte(paramsJSON), &w.Params); err != nil {
			return nil, fmt.Errorf("decoding window params: %w", err)
		}
		if err := json.Unmarshal([]byte(metricsJSON), &w.Metrics); err != nil {
			return nil, fmt.Errorf("decoding window metrics: %w", err)
		}
		if w.Equity, err = decodeEquity(equityRaw); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating windows: %w", err)
	}
	return windows, nil
}

// DeleteRun removes a run and its windows. Deleting an unknown ID is
// not an error.
func (r *Repository) DeleteRun(id string) error {
	if _, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting run %s: %w", id, err)
	}
	return nil
}
