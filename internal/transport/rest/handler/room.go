package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"doodlechain/internal/model"
	"doodlechain/internal/service"
	"doodlechain/internal/transport/rest/middleware"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	roomSvc   *service.RoomService
	playerSvc *service.PlayerService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomSvc *service.RoomService, playerSvc *service.PlayerService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc, playerSvc: playerSvc}
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HostName == "" {
		writeError(w, http.StatusBadRequest, "hostName is required")
		return
	}

	resp, err := h.roomSvc.CreateRoom(r.Context(), req.HostName, req.Mode, req.Settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := roomCode(r)

	room, err := h.roomSvc.GetRoom(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	players, err := h.playerSvc.List(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"room":    room,
		"players": players,
	})
}

// UpdateSettings handles PATCH /v1/rooms/{code}/settings
func (h *RoomHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	var req model.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.roomSvc.UpdateSettings(r.Context(), code, middleware.GetPlayerID(r.Context()), req.Mode, req.Settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// Start handles POST /v1/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	room, err := h.roomSvc.Start(r.Context(), code, middleware.GetPlayerID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// PlayAgain handles POST /v1/rooms/{code}/again
func (h *RoomHandler) PlayAgain(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	room, err := h.roomSvc.PlayAgain(r.Context(), code, middleware.GetPlayerID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// Finish handles POST /v1/rooms/{code}/finish
func (h *RoomHandler) Finish(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	room, err := h.roomSvc.Finish(r.Context(), code, middleware.GetPlayerID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

func roomCode(r *http.Request) string {
	return service.NormalizeCode(mux.Vars(r)["code"])
}

// authorizedRoom returns the room code from the URL after checking it
// matches the room the caller's token was issued for.
func authorizedRoom(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := roomCode(r)
	if middleware.GetRoomCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this room")
		return "", false
	}
	return code, true
}
