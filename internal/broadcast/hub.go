// Package broadcast is the best-effort move propagation channel: per-room
// fan-out of advisory events between connected clients. Delivery is
// at-most-once with no ordering guarantee; the room store stays the durable
// record and receivers reconcile against it.
package broadcast

import (
	"sync"

	"tresraya/internal/models"

	"github.com/sirupsen/logrus"
)

// EventAny subscribes a handler to every event type.
const EventAny models.EventType = "*"

// subscriptionBuffer bounds per-subscriber queues; events beyond it are
// dropped rather than blocking the publisher.
const subscriptionBuffer = 16

// Handler is invoked for each delivered event.
type Handler func(models.Event)

// Hub manages room-scoped subscriptions and fan-out.
type Hub struct {
	rooms map[string]map[*Subscription]bool
	mu    sync.RWMutex
}

// NewHub creates a new broadcast hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Subscription]bool),
	}
}

// Connect establishes a logical channel scoped to the room. Connection
// success does not imply room membership; registering with the room store is
// the caller's separate, sequenced step.
func (h *Hub) Connect(roomID, playerID string) *Subscription {
	sub := &Subscription{
		roomID:   roomID,
		playerID: playerID,
		hub:      h,
		events:   make(chan models.Event, subscriptionBuffer),
		handlers: make(map[models.EventType][]Handler),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Subscription]bool)
	}
	h.rooms[roomID][sub] = true
	h.mu.Unlock()

	go sub.dispatch()

	logrus.WithFields(logrus.Fields{"room_id": roomID, "player_id": playerID}).Debug("Channel connected")
	return sub
}

// Publish fans an event out to every other subscriber of the sender's room.
// Fire-and-forget: no acknowledgment, slow subscribers are skipped.
func (h *Hub) Publish(from *Subscription, event models.Event) {
	h.deliver(from.roomID, from, event)
}

// Broadcast fans a server-originated event out to every subscriber of the
// room, sender included.
func (h *Hub) Broadcast(roomID string, event models.Event) {
	h.deliver(roomID, nil, event)
}

func (h *Hub) deliver(roomID string, exclude *Subscription, event models.Event) {
	event.RoomID = roomID

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[roomID] {
		if sub == exclude {
			continue
		}
		select {
		case sub.events <- event:
		default:
		}
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[sub.roomID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.rooms, sub.roomID)
		}
	}
}

// Subscription is one client's handle on the channel.
type Subscription struct {
	roomID   string
	playerID string
	hub      *Hub
	events   chan models.Event
	handlers map[models.EventType][]Handler
	mu       sync.RWMutex
	done     chan struct{}
	once     sync.Once
}

// RoomID returns the room this subscription is scoped to.
func (s *Subscription) RoomID() string { return s.roomID }

// PlayerID returns the player this subscription was opened for.
func (s *Subscription) PlayerID() string { return s.playerID }

// On registers a handler for an event type. Use EventAny to receive all
// events.
func (s *Subscription) On(t models.EventType, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[t] = append(s.handlers[t], h)
}

// Off deregisters every handler for an event type.
func (s *Subscription) Off(t models.EventType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, t)
}

// Close releases the subscription. Idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
	})
}

func (s *Subscription) dispatch() {
	for {
		select {
		case event := <-s.events:
			s.mu.RLock()
			handlers := append(append([]Handler(nil), s.handlers[event.Type]...), s.handlers[EventAny]...)
			s.mu.RUnlock()
			for _, h := range handlers {
				h(event)
			}
		case <-s.done:
			return
		}
	}
}
