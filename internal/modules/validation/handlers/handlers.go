// Package handlers provides HTTP handlers for walk-forward validation
// runs and their stored results.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/quantfold/walkforward/internal/data"
	"github.com/quantfold/walkforward/internal/domain"
	"github.com/quantfold/walkforward/internal/results"
	"github.com/quantfold/walkforward/internal/strategies"
	"github.com/quantfold/walkforward/internal/walkforward"
)

// Handler handles validation HTTP requests
type Handler struct {
	runner *walkforward.Runner
	repo   *results.Repository
	log    zerolog.Logger
}

// NewHandler creates a new validation handler
func NewHandler(runner *walkforward.Runner, repo *results.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		runner: runner,
		repo:   repo,
		log:    log.With().Str("handler", "validation").Logger(),
	}
}

// DataRequest selects the bar series for a run: a seeded synthetic
// series, or a CSV file on the server.
type DataRequest struct {
	Source  string  `json:"source"` // "synthetic" (default) or "csv"
	Bars    int     `json:"bars,omitempty"`
	Seed    int64   `json:"seed,omitempty"`
	Drift   float64 `json:"drift,omitempty"`
	Vol     float64 `json:"volatility,omitempty"`
	CSVPath string  `json:"csv_path,omitempty"`
}

// RunRequest is the body of POST /api/validation/run.
type RunRequest struct {
	Strategy   string        `json:"strategy"`
	Params     domain.Params `json:"params,omitempty"`
	NSplits    int           `json:"n_splits,omitempty"`
	TrainFrac  float64       `json:"train_frac,omitempty"`
	WindowType string        `json:"window_type,omitempty"`
	Data       DataRequest   `json:"data"`
}

// HandleRun executes a validation run and persists the result.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	factory, err := strategies.Factory(req.Strategy)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	series, err := h.loadSeries(req.Data)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := walkforward.RunOptions{
		NSplits:    req.NSplits,
		TrainFrac:  req.TrainFrac,
		WindowType: walkforward.WindowType(req.WindowType),
	}

	result, err := h.runner.Run(factory, series, req.Params, opts)
	if err != nil {
		h.writeError(w, runStatusCode(err), err.Error())
		return
	}

	meta := results.RunMeta{
		WindowType: req.WindowType,
		NSplits:    req.NSplits,
		TrainFrac:  req.TrainFrac,
		NBars:      len(series),
	}
	if meta.WindowType == "" {
		meta.WindowType = string(walkforward.WindowRolling)
	}
	if meta.NSplits == 0 {
		meta.NSplits = 5
	}
	if meta.TrainFrac == 0 {
		meta.TrainFrac = 0.6
	}

	runID, err := h.repo.SaveRun(result, req.Params, meta)
	if err != nil {
		// The run itself succeeded; report it with a warning instead
		// of failing the request.
		h.log.Error().Err(err).Msg("Failed to persist run")
		runID = ""
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"result": result,
	})
}

// HandleListRuns returns stored run summaries, newest first.
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.repo.ListRuns()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summaries == nil {
		summaries = []results.RunSummary{}
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

// HandleGetRun returns the full detail of one stored run.
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stored, err := h.repo.GetRun(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stored == nil {
		h.writeError(w, http.StatusNotFound, "run not found: "+id)
		return
	}
	h.writeJSON(w, http.StatusOK, stored)
}

// HandleDeleteRun removes a stored run.
func (h *Handler) HandleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteRun(id); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// HandleListStrategies returns the registered strategy names.
func (h *Handler) HandleListStrategies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": strategies.Names(),
	})
}

func (h *Handler) loadSeries(req DataRequest) (domain.Series, error) {
	switch req.Source {
	case "csv":
		return data.LoadCSV(req.CSVPath)
	case "", "synthetic":
		return data.GenerateSeries(data.SyntheticConfig{
			Bars:       req.Bars,
			Drift:      req.Drift,
			Volatility: req.Vol,
			Seed:       req.Seed,
		}), nil
	default:
		return nil, errors.New("unknown data source: " + req.Source)
	}
}

// runStatusCode maps engine failures to HTTP status codes: caller
// mistakes are 400s, everything else is a 500.
func runStatusCode(err error) int {
	switch {
	case errors.Is(err, walkforward.ErrValidation),
		errors.Is(err, walkforward.ErrInsufficientData),
		errors.Is(err, walkforward.ErrNoValidWindows),
		errors.Is(err, walkforward.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Helper methods

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
