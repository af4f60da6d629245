package models

import "time"

// Symbol represents a player's mark on the board
type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"
	Empty   Symbol = ""
)

// Opponent returns the other symbol.
func (s Symbol) Opponent() Symbol {
	if s == SymbolX {
		return SymbolO
	}
	return SymbolX
}

// Valid reports whether s is one of the two playable symbols.
func (s Symbol) Valid() bool {
	return s == SymbolX || s == SymbolO
}

// Board represents the 3x3 game board as a flat 9-cell array
type Board [9]Symbol

// Winner is the outcome of evaluating a board
type Winner string

const (
	WinnerX    Winner = "X"
	WinnerO    Winner = "O"
	WinnerTie  Winner = "tie"
	WinnerNone Winner = ""
)

// GameStatus is the lifecycle state of a game session
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// PlayerInfo identifies a player registered in a room
type PlayerInfo struct {
	ID     string `json:"id"`
	Symbol Symbol `json:"symbol"`
	Name   string `json:"name,omitempty"`
}

// Room is the authoritative, durable record of an online game session.
// It is always persisted and replaced as a whole value.
type Room struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	Board         Board        `json:"board"`
	CurrentPlayer Symbol       `json:"currentPlayer"`
	Players       []PlayerInfo `json:"players"`
	CreatedAt     time.Time    `json:"createdAt"`
	LastActivity  time.Time    `json:"lastActivity"`
}

// Player returns the registered player with the given id, if any.
func (r *Room) Player(playerID string) (PlayerInfo, bool) {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// Move represents a player's move in a session
type Move struct {
	Position int    `json:"position"`
	Player   Symbol `json:"player"`
}
