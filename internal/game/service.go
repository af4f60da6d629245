package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is a server-held single-device game.
type Session struct {
	ID    string `json:"id"`
	State
}

// Service manages local game sessions.
type Service struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewService creates a new local session service.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]*Session),
	}
}

// CreateSession starts a new local game. Local games begin playing
// immediately, there is no join step.
func (s *Service) CreateSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()[:8]
	session := &Session{
		ID:    id,
		State: NewState().Start(),
	}
	s.sessions[id] = session

	logrus.WithField("session_id", id).Debug("Local session created")
	return session
}

// GetSession retrieves a session by ID.
func (s *Service) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// MakeMove plays the current player's symbol at position. Illegal moves are
// no-ops and return the session unchanged.
func (s *Service) MakeMove(id string, position int) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}

	session.State = session.State.Apply(position)
	return session, nil
}

// ResetSession clears an existing session back to a fresh playing state.
func (s *Service) ResetSession(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}

	session.State = session.State.Reset().Start()
	return session, nil
}
