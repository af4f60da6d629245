package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"tresraya/internal/game"
)

// Local sessions are single-device games held server-side; both symbols play
// from the same client, so there is no room, code, or propagation involved.

func (h *Handler) handleCreateLocal(w http.ResponseWriter, r *http.Request) {
	session := h.local.CreateSession()
	h.respondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleGetLocal(w http.ResponseWriter, r *http.Request) {
	session, err := h.local.GetSession(r.PathValue("sessionID"))
	if err != nil {
		h.respondLocalError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleLocalMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position *int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position == nil {
		h.respondError(w, http.StatusBadRequest, "Position is required")
		return
	}

	session, err := h.local.MakeMove(r.PathValue("sessionID"), *req.Position)
	if err != nil {
		h.respondLocalError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleResetLocal(w http.ResponseWriter, r *http.Request) {
	session, err := h.local.ResetSession(r.PathValue("sessionID"))
	if err != nil {
		h.respondLocalError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, session)
}

func (h *Handler) respondLocalError(w http.ResponseWriter, err error) {
	if errors.Is(err, game.ErrSessionNotFound) {
		h.respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	h.respondError(w, http.StatusInternalServerError, "Failed to handle session")
}
