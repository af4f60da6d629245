package models

// EventType identifies a propagation channel event
type EventType string

const (
	EventMove         EventType = "move"
	EventPlayerJoined EventType = "player-joined"
	EventPlayerLeft   EventType = "player-left"
	EventGameReset    EventType = "game-reset"
)

// Event is the payload fanned out over the propagation channel. Delivery is
// best-effort; receivers treat it as a hint to refresh, the Room record stays
// authoritative.
type Event struct {
	Type          EventType `json:"type"`
	RoomID        string    `json:"roomId,omitempty"`
	PlayerID      string    `json:"playerId,omitempty"`
	Symbol        Symbol    `json:"symbol,omitempty"`
	Board         *Board    `json:"board,omitempty"`
	CurrentPlayer Symbol    `json:"currentPlayer,omitempty"`
}
