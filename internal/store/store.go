package store

import (
	"context"
	"errors"
	"time"

	"tresraya/internal/models"
)

// DefaultRoomTTL is the inactivity window after which a room expires.
const DefaultRoomTTL = 30 * time.Minute

var (
	// ErrRoomNotFound means the room id has no live record (never created,
	// or TTL-expired).
	ErrRoomNotFound = errors.New("store: room not found")
	// ErrRoomFull means the room already has two registered players.
	ErrRoomFull = errors.New("store: room is full")
	// ErrMoveConflict means the submitted board is not a legal successor of
	// the stored board, typically because a concurrent move landed first.
	ErrMoveConflict = errors.New("store: board update conflicts with current room state")
)

// RoomStore is the durable persistence contract for Room records. Records
// are replaced atomically as whole values, never field-by-field, and every
// successful mutation refreshes the room's TTL window. Backend
// unavailability surfaces as an error, never as a silent drop.
type RoomStore interface {
	// CreateRoom persists a fresh room: new id and join code, empty board,
	// X to move, no players.
	CreateRoom(ctx context.Context) (*models.Room, error)

	// GetRoom reads the current record, or ErrRoomNotFound.
	GetRoom(ctx context.Context, id string) (*models.Room, error)

	// ValidateCode reports whether the stored join code equals code,
	// case- and value-exact. Callers normalize case beforehand.
	// Returns ErrRoomNotFound when the room has no live record.
	ValidateCode(ctx context.Context, id, code string) (bool, error)

	// AddPlayer registers a player. Re-joining with a known player id
	// returns the room unchanged. The first joiner is assigned X, the
	// second O. A third distinct player gets ErrRoomFull.
	AddPlayer(ctx context.Context, id, playerID, name string) (*models.Room, error)

	// UpdateBoard replaces the room's board and turn pointer. The write is
	// a compare-and-swap: the submitted board must be a legal successor of
	// the stored board or the update is rejected with ErrMoveConflict.
	UpdateBoard(ctx context.Context, id string, b models.Board, currentPlayer models.Symbol) (*models.Room, error)
}
