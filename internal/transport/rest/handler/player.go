package handler

import (
	"encoding/json"
	"net/http"

	"doodlechain/internal/model"
	"doodlechain/internal/service"
	"doodlechain/internal/transport/rest/middleware"
)

// PlayerHandler handles player endpoints
type PlayerHandler struct {
	playerSvc *service.PlayerService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerSvc *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerSvc: playerSvc}
}

// Join handles POST /v1/rooms/{code}/join
func (h *PlayerHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req model.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	resp, err := h.playerSvc.Join(r.Context(), roomCode(r), req.Name, req.Avatar)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetReady handles POST /v1/rooms/{code}/ready
func (h *PlayerHandler) SetReady(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	var req model.ReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := h.playerSvc.SetReady(r.Context(), code, middleware.GetPlayerID(r.Context()), req.Ready)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, player)
}

// Leave handles POST /v1/rooms/{code}/leave
func (h *PlayerHandler) Leave(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	if err := h.playerSvc.Leave(r.Context(), code, middleware.GetPlayerID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}
