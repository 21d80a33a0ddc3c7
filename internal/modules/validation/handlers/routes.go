package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all validation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/validation", func(r chi.Router) {
		r.Post("/run", h.HandleRun)                  // Execute a validation run
		r.Get("/runs", h.HandleListRuns)             // List stored runs
		r.Get("/runs/{id}", h.HandleGetRun)          // Full run detail
		r.Delete("/runs/{id}", h.HandleDeleteRun)    // Remove a stored run
		r.Get("/strategies", h.HandleListStrategies) // Registered strategy names
	})
}
