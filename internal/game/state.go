package game

import (
	"tresraya/internal/board"
	"tresraya/internal/models"
)

// State is the client-local mirror of a game session. It is replaced
// wholesale on every confirmed update; it is never merged.
type State struct {
	Board         models.Board      `json:"board"`
	CurrentPlayer models.Symbol     `json:"currentPlayer"`
	Winner        models.Winner     `json:"winner"`
	WinningLine   []int             `json:"winningLine,omitempty"`
	Status        models.GameStatus `json:"gameStatus"`
	LocalPlayerID string            `json:"localPlayerId,omitempty"`
}

// NewState returns a fresh waiting session.
func NewState() State {
	return State{
		Board:         board.Reset(),
		CurrentPlayer: models.SymbolX,
		Status:        models.StatusWaiting,
	}
}

// Start transitions a waiting session to playing. Any other status is left
// unchanged.
func (s State) Start() State {
	if s.Status == models.StatusWaiting {
		s.Status = models.StatusPlaying
	}
	return s
}

// Apply plays the current player's symbol at position. Moves onto an occupied
// cell, outside the board, while not playing, or after a recorded winner are
// no-ops that return the state unchanged.
func (s State) Apply(position int) State {
	if position < 0 || position > 8 {
		return s
	}
	if s.Status != models.StatusPlaying || s.Winner != models.WinnerNone {
		return s
	}
	if s.Board[position] != models.Empty {
		return s
	}

	s.Board[position] = s.CurrentPlayer

	if winner := board.Winner(s.Board); winner != models.WinnerNone {
		s.Winner = winner
		if winner != models.WinnerTie {
			s.WinningLine = board.WinningLine(s.Board)
		}
		s.Status = models.StatusFinished
		return s
	}

	s.CurrentPlayer = s.CurrentPlayer.Opponent()
	return s
}

// Sync overwrites the mirror from an authoritative board and turn pointer,
// recomputing winner and winning line. Used for Room fetches and propagated
// move events.
func (s State) Sync(b models.Board, currentPlayer models.Symbol) State {
	s.Board = b
	s.CurrentPlayer = currentPlayer
	s.Winner = board.Winner(b)
	s.WinningLine = nil
	if s.Winner != models.WinnerNone && s.Winner != models.WinnerTie {
		s.WinningLine = board.WinningLine(b)
	}
	if s.Winner != models.WinnerNone {
		s.Status = models.StatusFinished
	} else {
		s.Status = models.StatusPlaying
	}
	return s
}

// Reset clears the board, turn pointer, winner and winning line and returns
// the session to waiting.
func (s State) Reset() State {
	local := s.LocalPlayerID
	next := NewState()
	next.LocalPlayerID = local
	return next
}
