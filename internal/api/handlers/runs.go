package handlers

import (
	"net/http"

	"github.com/eshaffer321/ynab-reconcile/internal/api/dto"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/storage"
)

// RunsHandler serves the reconcile run journal.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/runs - returns recent runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, dto.NewRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id}.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewRunResponse(*run))
}

// Calls handles GET /api/runs/{id}/calls - the creates and deletes a run made.
func (h *RunsHandler) Calls(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}

	calls, err := h.repo.GetAPICallsByRunID(run.ID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.APICallListResponse{
		RunID: run.ID,
		Calls: make([]dto.APICallResponse, 0, len(calls)),
		Count: len(calls),
	}
	for _, c := range calls {
		response.Calls = append(response.Calls, dto.NewAPICallResponse(c))
	}
	h.WriteJSON(w, http.StatusOK, response)
}

func (h *RunsHandler) lookup(w http.ResponseWriter, r *http.Request) (*storage.Run, bool) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid run ID"))
		return nil, false
	}

	run, err := h.repo.GetRun(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return nil, false
	}
	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("run"))
		return nil, false
	}
	return run, true
}
