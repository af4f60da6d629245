// Package memory holds Room records in process memory. Expiry is enforced by
// checking lastActivity on every read, backed by a periodic janitor sweep.
package memory

import (
	"context"
	"sync"
	"time"

	"tresraya/internal/board"
	"tresraya/internal/game"
	"tresraya/internal/models"
	"tresraya/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store is an in-memory RoomStore.
type Store struct {
	rooms map[string]models.Room
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
}

// NewStore creates a memory store with the given inactivity TTL.
func NewStore(ttl time.Duration) *Store {
	return NewStoreWithClock(ttl, time.Now)
}

// NewStoreWithClock creates a memory store with an injected clock.
func NewStoreWithClock(ttl time.Duration, now func() time.Time) *Store {
	return &Store{
		rooms: make(map[string]models.Room),
		ttl:   ttl,
		now:   now,
	}
}

// CreateRoom persists a fresh room and returns it.
func (s *Store) CreateRoom(ctx context.Context) (*models.Room, error) {
	code, err := store.GenerateCode()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	room := models.Room{
		ID:            uuid.NewString(),
		Code:          code,
		Board:         board.Reset(),
		CurrentPlayer: models.SymbolX,
		Players:       []models.PlayerInfo{},
		CreatedAt:     now,
		LastActivity:  now,
	}
	s.rooms[room.ID] = room

	logrus.WithFields(logrus.Fields{"room_id": room.ID, "code": room.Code}).Debug("Room created")
	return cloneRoom(room), nil
}

// GetRoom reads the current record, or store.ErrRoomNotFound if the room is
// absent or its TTL has elapsed.
func (s *Store) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(id)
	if err != nil {
		return nil, err
	}
	return cloneRoom(room), nil
}

// ValidateCode compares the stored join code, case- and value-exact.
func (s *Store) ValidateCode(ctx context.Context, id, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(id)
	if err != nil {
		return false, err
	}
	return room.Code == code, nil
}

// AddPlayer registers a player, assigning X to the first joiner and O to the
// second. Re-joining with a known id returns the room unchanged.
func (s *Store) AddPlayer(ctx context.Context, id, playerID, name string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(id)
	if err != nil {
		return nil, err
	}

	if _, ok := room.Player(playerID); ok {
		return cloneRoom(room), nil
	}
	if len(room.Players) >= 2 {
		return nil, store.ErrRoomFull
	}

	symbol := models.SymbolX
	if len(room.Players) == 1 {
		symbol = models.SymbolO
	}
	room.Players = append(append([]models.PlayerInfo(nil), room.Players...), models.PlayerInfo{
		ID:     playerID,
		Symbol: symbol,
		Name:   name,
	})
	room.LastActivity = s.now()
	s.rooms[id] = room

	return cloneRoom(room), nil
}

// UpdateBoard replaces the board and turn pointer. The submitted board must
// be a legal successor of the stored one or the write is rejected with
// store.ErrMoveConflict.
func (s *Store) UpdateBoard(ctx context.Context, id string, b models.Board, currentPlayer models.Symbol) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(id)
	if err != nil {
		return nil, err
	}

	if !game.IsLegalSuccessor(room.Board, b, room.CurrentPlayer, currentPlayer) {
		return nil, store.ErrMoveConflict
	}

	room.Board = b
	room.CurrentPlayer = currentPlayer
	room.LastActivity = s.now()
	s.rooms[id] = room

	return cloneRoom(room), nil
}

// Sweep removes every expired room and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, room := range s.rooms {
		if s.expired(room) {
			delete(s.rooms, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired rooms every interval until ctx is cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				logrus.WithField("removed", removed).Debug("Swept expired rooms")
			}
		case <-ctx.Done():
			return
		}
	}
}

// liveRoom returns the room if present and unexpired. Expired rooms are
// deleted on sight. Caller holds the lock.
func (s *Store) liveRoom(id string) (models.Room, error) {
	room, exists := s.rooms[id]
	if !exists {
		return models.Room{}, store.ErrRoomNotFound
	}
	if s.expired(room) {
		delete(s.rooms, id)
		return models.Room{}, store.ErrRoomNotFound
	}
	return room, nil
}

func (s *Store) expired(room models.Room) bool {
	return s.now().Sub(room.LastActivity) > s.ttl
}

// cloneRoom returns a copy detached from the stored record.
func cloneRoom(room models.Room) *models.Room {
	room.Players = append([]models.PlayerInfo(nil), room.Players...)
	return &room
}
