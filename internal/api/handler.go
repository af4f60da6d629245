package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tresraya/internal/broadcast"
	"tresraya/internal/game"
	"tresraya/internal/models"
	"tresraya/internal/store"

	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

// Handler handles HTTP requests
type Handler struct {
	rooms   store.RoomStore
	local   *game.Service
	hub     *broadcast.Hub
	baseURL string
}

// NewHandler creates a new handler. baseURL is the externally visible origin
// used in shareable join links.
func NewHandler(rooms store.RoomStore, local *game.Service, hub *broadcast.Hub, baseURL string) *Handler {
	return &Handler{
		rooms:   rooms,
		local:   local,
		hub:     hub,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// RegisterRoutes sets up the routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/rooms", h.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{roomID}", h.handleGetRoom)
	mux.HandleFunc("POST /api/rooms/{roomID}/validate", h.handleValidateCode)
	mux.HandleFunc("POST /api/rooms/{roomID}/join", h.handleJoinRoom)
	mux.HandleFunc("POST /api/rooms/{roomID}/move", h.handleMove)
	mux.HandleFunc("GET /api/rooms/{roomID}/qr", h.handleJoinQR)
	mux.HandleFunc("GET /api/rooms/{roomID}/events", h.handleSSE)

	mux.HandleFunc("POST /api/local", h.handleCreateLocal)
	mux.HandleFunc("GET /api/local/{sessionID}", h.handleGetLocal)
	mux.HandleFunc("POST /api/local/{sessionID}/move", h.handleLocalMove)
	mux.HandleFunc("PUT /api/local/{sessionID}", h.handleResetLocal)
}

// roomSnapshot is the fetch/join response shape.
type roomSnapshot struct {
	ID            string              `json:"id"`
	Code          string              `json:"code"`
	Board         models.Board        `json:"board"`
	CurrentPlayer models.Symbol       `json:"currentPlayer"`
	Players       []models.PlayerInfo `json:"players"`
}

func snapshot(room *models.Room) roomSnapshot {
	return roomSnapshot{
		ID:            room.ID,
		Code:          room.Code,
		Board:         room.Board,
		CurrentPlayer: room.CurrentPlayer,
		Players:       room.Players,
	}
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.CreateRoom(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to create room")
		h.respondError(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"id":   room.ID,
		"code": room.Code,
	})
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.GetRoom(r.Context(), r.PathValue("roomID"))
	if err != nil {
		h.respondStoreError(w, err, "Failed to fetch room")
		return
	}
	h.respondJSON(w, http.StatusOK, snapshot(room))
}

func (h *Handler) handleValidateCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Code is required")
		return
	}

	// Join codes are entered by hand; normalize before the exact comparison.
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	valid, err := h.rooms.ValidateCode(r.Context(), r.PathValue("roomID"), code)
	if err != nil {
		h.respondStoreError(w, err, "Failed to validate code")
		return
	}
	if !valid {
		h.respondError(w, http.StatusUnauthorized, "Invalid code")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *Handler) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"playerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		h.respondError(w, http.StatusBadRequest, "Player ID is required")
		return
	}

	roomID := r.PathValue("roomID")
	room, err := h.rooms.AddPlayer(r.Context(), roomID, req.PlayerID, req.Name)
	if err != nil {
		h.respondStoreError(w, err, "Failed to join room")
		return
	}

	if joined, ok := room.Player(req.PlayerID); ok {
		h.hub.Broadcast(roomID, models.Event{
			Type:     models.EventPlayerJoined,
			PlayerID: joined.ID,
			Symbol:   joined.Symbol,
		})
	}

	h.respondJSON(w, http.StatusOK, snapshot(room))
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Board         *models.Board `json:"board"`
		CurrentPlayer models.Symbol `json:"currentPlayer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Board == nil || !req.CurrentPlayer.Valid() {
		h.respondError(w, http.StatusBadRequest, "Board and currentPlayer are required")
		return
	}
	for _, cell := range req.Board {
		if cell != models.Empty && !cell.Valid() {
			h.respondError(w, http.StatusBadRequest, "Board contains invalid symbols")
			return
		}
	}

	roomID := r.PathValue("roomID")
	room, err := h.rooms.UpdateBoard(r.Context(), roomID, *req.Board, req.CurrentPlayer)
	if err != nil {
		h.respondStoreError(w, err, "Failed to update room")
		return
	}

	h.hub.Broadcast(roomID, models.Event{
		Type:          models.EventMove,
		Board:         &room.Board,
		CurrentPlayer: room.CurrentPlayer,
	})

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"board":         room.Board,
		"currentPlayer": room.CurrentPlayer,
	})
}

// handleJoinQR renders the room's join link as a PNG QR code, for handing a
// second player the room on another device.
func (h *Handler) handleJoinQR(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.GetRoom(r.Context(), r.PathValue("roomID"))
	if err != nil {
		h.respondStoreError(w, err, "Failed to fetch room")
		return
	}

	joinURL := fmt.Sprintf("%s/game/%s?code=%s", h.baseURL, room.ID, room.Code)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		logrus.WithError(err).WithField("room_id", room.ID).Error("Failed to encode join QR")
		h.respondError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleSSE streams room events to clients without a WebSocket.
func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.respondError(w, http.StatusInternalServerError, "SSE not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := h.hub.Connect(roomID, r.URL.Query().Get("player"))
	defer sub.Close()

	events := make(chan models.Event, 16)
	sub.On(broadcast.EventAny, func(ev models.Event) {
		select {
		case events <- ev:
		default:
		}
	})

	for {
		select {
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// respondStoreError maps store error kinds onto the HTTP surface.
func (h *Handler) respondStoreError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrRoomNotFound):
		h.respondError(w, http.StatusNotFound, "Room not found")
	case errors.Is(err, store.ErrRoomFull):
		h.respondError(w, http.StatusForbidden, "Room is full")
	case errors.Is(err, store.ErrMoveConflict):
		h.respondError(w, http.StatusConflict, "Move conflicts with current room state")
	default:
		logrus.WithError(err).Error(fallback)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
