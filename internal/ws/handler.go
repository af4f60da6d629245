package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"tresraya/internal/broadcast"
	"tresraya/internal/models"
	"tresraya/internal/store"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler bridges WebSocket connections onto the propagation channel.
type Handler struct {
	rooms store.RoomStore
	hub   *broadcast.Hub
}

// NewHandler creates a new WebSocket handler.
func NewHandler(rooms store.RoomStore, hub *broadcast.Hub) *Handler {
	return &Handler{
		rooms: rooms,
		hub:   hub,
	}
}

// RegisterRoutes sets up the WebSocket routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/rooms/{roomID}", h.handleWebSocket)
}

// conn serializes writes to a websocket connection.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomID")
	playerID := r.URL.Query().Get("player")

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer wsConn.Close()
	c := &conn{ws: wsConn}

	sub := h.hub.Connect(roomID, playerID)
	defer sub.Close()

	log := logrus.WithFields(logrus.Fields{"room_id": roomID, "player_id": playerID})

	// Fan incoming room events out to this client. Payloads are advisory;
	// the client re-fetches the room whenever it wants certainty.
	sub.On(broadcast.EventAny, func(event models.Event) {
		if err := c.writeJSON(event); err != nil {
			log.WithError(err).Debug("Dropping event for closed connection")
		}
	})

	// Send the authoritative room snapshot so the client starts reconciled.
	if room, err := h.rooms.GetRoom(r.Context(), roomID); err == nil {
		c.writeJSON(room)
	}

	// Tell the other side we left once the read loop exits.
	defer h.hub.Publish(sub, models.Event{
		Type:     models.EventPlayerLeft,
		PlayerID: playerID,
	})

	for {
		var event models.Event
		if err := wsConn.ReadJSON(&event); err != nil {
			break
		}
		h.handleEvent(r.Context(), c, sub, event, log)
	}
}

// handleEvent persists move events and relays everything to the rest of the
// room. A rejected move is answered with the authoritative room state
// instead of being forwarded.
func (h *Handler) handleEvent(ctx context.Context, c *conn, sub *broadcast.Subscription, event models.Event, log *logrus.Entry) {
	if event.Type == models.EventMove {
		if event.Board == nil || !event.CurrentPlayer.Valid() {
			c.writeJSON(map[string]string{"error": "move requires board and currentPlayer"})
			return
		}

		room, err := h.rooms.UpdateBoard(ctx, sub.RoomID(), *event.Board, event.CurrentPlayer)
		if err != nil {
			log.WithError(err).Warn("Move rejected")
			c.writeJSON(map[string]string{"error": err.Error()})
			if errors.Is(err, store.ErrMoveConflict) {
				if current, getErr := h.rooms.GetRoom(ctx, sub.RoomID()); getErr == nil {
					c.writeJSON(current)
				}
			}
			return
		}

		confirmed := models.Event{
			Type:          models.EventMove,
			PlayerID:      sub.PlayerID(),
			Board:         &room.Board,
			CurrentPlayer: room.CurrentPlayer,
		}
		h.hub.Publish(sub, confirmed)
		return
	}

	// Non-move events carry no durable state, relay them as-is.
	event.PlayerID = sub.PlayerID()
	h.hub.Publish(sub, event)
}
