package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"doodlechain/internal/model"
	"doodlechain/internal/service"
	"doodlechain/internal/transport/rest/middleware"
)

// ChatHandler handles room chat endpoints
type ChatHandler struct {
	chatSvc *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Post handles POST /v1/rooms/{code}/chat
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	msg, err := h.chatSvc.Post(r.Context(), code, middleware.GetPlayerID(r.Context()), req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// History handles GET /v1/rooms/{code}/chat
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	code, ok := authorizedRoom(w, r)
	if !ok {
		return
	}

	msgs, err := h.chatSvc.History(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}
