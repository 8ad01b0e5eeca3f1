package web

import (
	"github.com/vovakirdan/mini2048/internal/engine"
	"github.com/vovakirdan/mini2048/internal/session"
)

// ---- Client -> Server ----

// ClientMsg is any message sent by the mini-app.
type ClientMsg struct {
	Type string `json:"type"` // "move" | "swipe" | "reset" | "ping"

	// move
	Dir string `json:"dir,omitempty"`

	// swipe
	StartX float64 `json:"startX,omitempty"`
	StartY float64 `json:"startY,omitempty"`
	EndX   float64 `json:"endX,omitempty"`
	EndY   float64 `json:"endY,omitempty"`
	ID     uint64  `json:"id,omitempty"` // gesture id, increasing per connection
}

// ---- Server -> Client ----

// Ready tells the app the host has finished its readiness handshake.
type Ready struct {
	Type    string `json:"type"` // "ready"
	Session string `json:"session"`
}

// State is the full game state after every accepted input.
type State struct {
	Type    string       `json:"type"` // "state"
	Board   engine.Board `json:"board"`
	Score   int          `json:"score"`
	Best    int          `json:"best"`
	Won     bool         `json:"won"`
	Over    bool         `json:"over"`
	Moves   int          `json:"moves"`
	Changed bool         `json:"changed"`
}

// Error reports a rejected message. The connection stays open.
type Error struct {
	Type   string `json:"type"` // "error"
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Pong answers a ping.
type Pong struct {
	Type string `json:"type"` // "pong"
}

// Error codes.
const (
	CodeBadMessage   = "bad_message"
	CodeBadDirection = "bad_direction"
	CodeNoSwipe      = "no_swipe"
	CodeGameOver     = "game_over"
	CodeUnknownType  = "unknown_type"
)

func stateMsg(s session.Session, changed bool) State {
	return State{
		Type:    "state",
		Board:   s.Board,
		Score:   s.Score,
		Best:    s.Best,
		Won:     s.Won,
		Over:    s.Over,
		Moves:   s.Moves,
		Changed: changed,
	}
}

func errorMsg(code, detail string) Error {
	return Error{Type: "error", Code: code, Detail: detail}
}
