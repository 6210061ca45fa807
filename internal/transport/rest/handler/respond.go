package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"doodlechain/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service sentinel errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotHost):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrRoomNotInLobby),
		errors.Is(err, service.ErrWrongPhase),
		errors.Is(err, service.ErrPlayersNotReady),
		errors.Is(err, service.ErrPlayerCount),
		errors.Is(err, service.ErrDuplicateVote),
		errors.Is(err, service.ErrEliminated):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrSelfVote),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
