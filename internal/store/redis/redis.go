// Package redisstore persists Room records in Redis as whole JSON values
// under TTL'd keys, so abandoned rooms are reclaimed by native key expiry
// without any sweeping.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"tresraya/internal/board"
	"tresraya/internal/game"
	"tresraya/internal/models"
	"tresraya/internal/store"

	"github.com/google/uuid"
)

// txRetries bounds optimistic WATCH retries before giving up.
const txRetries = 3

// Store is a Redis-backed RoomStore.
type Store struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewStore creates a Redis room store. An empty keyPrefix defaults to "ttt:".
func NewStore(client *redis.Client, ttl time.Duration, keyPrefix string) *Store {
	if client == nil {
		panic("redis client cannot be nil for Store")
	}
	if keyPrefix == "" {
		keyPrefix = "ttt:"
	}
	if ttl <= 0 {
		ttl = store.DefaultRoomTTL
	}
	return &Store{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

func (s *Store) roomKey(id string) string {
	return fmt.Sprintf("%sroom:%s", s.keyPrefix, id)
}

// CreateRoom persists a fresh room under a TTL'd key.
func (s *Store) CreateRoom(ctx context.Context) (*models.Room, error) {
	code, err := store.GenerateCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	room := &models.Room{
		ID:            uuid.NewString(),
		Code:          code,
		Board:         board.Reset(),
		CurrentPlayer: models.SymbolX,
		Players:       []models.PlayerInfo{},
		CreatedAt:     now,
		LastActivity:  now,
	}

	if err := s.writeRoom(ctx, s.client, room); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"room_id": room.ID, "code": room.Code}).Debug("Room created")
	return room, nil
}

// GetRoom reads the current record, or store.ErrRoomNotFound once the key
// has expired or never existed.
func (s *Store) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	return s.readRoom(ctx, s.client, id)
}

// ValidateCode compares the stored join code, case- and value-exact.
func (s *Store) ValidateCode(ctx context.Context, id, code string) (bool, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return false, err
	}
	return room.Code == code, nil
}

// AddPlayer registers a player inside a WATCH transaction so two joiners
// racing for the same seat cannot both take it.
func (s *Store) AddPlayer(ctx context.Context, id, playerID, name string) (*models.Room, error) {
	var result *models.Room

	err := s.transact(ctx, id, func(tx *redis.Tx) error {
		room, err := s.readRoom(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, ok := room.Player(playerID); ok {
			result = room
			return nil
		}
		if len(room.Players) >= 2 {
			return store.ErrRoomFull
		}

		symbol := models.SymbolX
		if len(room.Players) == 1 {
			symbol = models.SymbolO
		}
		room.Players = append(room.Players, models.PlayerInfo{
			ID:     playerID,
			Symbol: symbol,
			Name:   name,
		})
		room.LastActivity = time.Now()

		result = room
		return s.writeRoomTx(ctx, tx, room)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateBoard replaces the board and turn pointer with a compare-and-swap:
// the WATCH guards against a concurrent write landing between read and set,
// and the legal-successor check rejects stale submissions outright.
func (s *Store) UpdateBoard(ctx context.Context, id string, b models.Board, currentPlayer models.Symbol) (*models.Room, error) {
	var result *models.Room

	err := s.transact(ctx, id, func(tx *redis.Tx) error {
		room, err := s.readRoom(ctx, tx, id)
		if err != nil {
			return err
		}

		if !game.IsLegalSuccessor(room.Board, b, room.CurrentPlayer, currentPlayer) {
			return store.ErrMoveConflict
		}

		room.Board = b
		room.CurrentPlayer = currentPlayer
		room.LastActivity = time.Now()

		result = room
		return s.writeRoomTx(ctx, tx, room)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// transact runs fn under WATCH on the room key, retrying a bounded number of
// times when a concurrent write aborts the transaction.
func (s *Store) transact(ctx context.Context, id string, fn func(tx *redis.Tx) error) error {
	key := s.roomKey(id)
	for i := 0; i < txRetries; i++ {
		err := s.client.Watch(ctx, fn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			logrus.WithFields(logrus.Fields{"room_id": id, "attempt": i + 1}).Debug("Room transaction aborted, retrying")
			continue
		}
		return err
	}
	return fmt.Errorf("redis: transaction on room %s aborted after %d attempts", id, txRetries)
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store) readRoom(ctx context.Context, c redisGetter, id string) (*models.Room, error) {
	key := s.roomKey(id)
	data, err := c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrRoomNotFound
		}
		return nil, fmt.Errorf("redis: get room %s: %w", id, err)
	}

	var room models.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, fmt.Errorf("redis: unmarshal room %s: %w", id, err)
	}
	return &room, nil
}

func (s *Store) writeRoom(ctx context.Context, c *redis.Client, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("redis: marshal room %s: %w", room.ID, err)
	}
	if err := c.Set(ctx, s.roomKey(room.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set room %s: %w", room.ID, err)
	}
	return nil
}

func (s *Store) writeRoomTx(ctx context.Context, tx *redis.Tx, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("redis: marshal room %s: %w", room.ID, err)
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.roomKey(room.ID), data, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: update room %s: %w", room.ID, err)
	}
	return nil
}
