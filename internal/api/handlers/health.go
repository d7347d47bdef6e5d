package handlers

import (
	"net/http"

	"github.com/eshaffer321/ynab-reconcile/internal/api/dto"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	*Base
	compareEnabled bool
}

// NewHealthHandler creates a new health handler. It reports which optional
// features are wired.
func NewHealthHandler(base *Base, compareEnabled bool) *HealthHandler {
	return &HealthHandler{Base: base, compareEnabled: compareEnabled}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := dto.NewHealthResponse()
	response.Journal = h.repo != nil
	response.Compare = h.compareEnabled
	h.WriteJSON(w, http.StatusOK, response)
}
