package handler

import (
	"encoding/json"
	"net/http"

	"doodlechain/internal/model"
	"doodlechain/internal/service"
	"doodlechain/internal/transport/rest/middleware"
)

// GameHandler handles in-game endpoints: assignments, submissions,
// votes and results.
type GameHandler struct {
	submissionSvc *service.SubmissionService
	voteSvc       *service.VoteService
	resultsSvc    *service.ResultsService
}

// NewGameHandler creates a new game handler
func NewGameHandler(submissionSvc *service.SubmissionService, voteSvc *service.VoteService, resultsSvc *service.ResultsService) *GameHandler {
	return &GameHandler{
		submissionSvc: submissionSvc,
		voteSvc:       voteSvc,
		resultsSvc:    resultsSvc,
	}
}

// Assignment handles GET /v1/rooms/{code}/assignment
func (h *GameHandler) Assignment(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	assignment, err := h.submissionSvc.Assignment(r.Context(), code, middleware.GetPlayerID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

// Submit handles POST /v1/rooms/{code}/submissions
func (h *GameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Content) == 0 {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	sub, err := h.submissionSvc.Submit(r.Context(), code, middleware.GetPlayerID(r.Context()), req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// Vote handles POST /v1/rooms/{code}/votes
func (h *GameHandler) Vote(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	var req model.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "targetId is required")
		return
	}

	vote, err := h.voteSvc.Cast(r.Context(), code, middleware.GetPlayerID(r.Context()), req.TargetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, vote)
}

// Results handles GET /v1/rooms/{code}/results
func (h *GameHandler) Results(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	results, err := h.resultsSvc.Results(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}
