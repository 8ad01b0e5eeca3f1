// Package session holds the player-facing state around the board engine:
// current score, best score and the win/over flags. A Session is a plain
// value; each step takes one and returns the next.
package session

import (
	"errors"

	"github.com/vovakirdan/mini2048/internal/engine"
)

// ErrGameOver is reported when a move is attempted after the game has ended.
var ErrGameOver = errors.New("session: game is over")

// Session is the caller-held game state.
type Session struct {
	Board engine.Board
	Score int
	Best  int
	Won   bool
	Over  bool
	Moves int
}

// Outcome describes what a single step did.
type Outcome struct {
	Direction engine.Direction
	Changed   bool // Board changed, so a tile was spawned
	JustWon   bool // The win tile appeared for the first time this game
	NewBest   bool // Best score was raised
	Err       error
}

// New starts a game with two seed tiles. Best is carried in by the caller and
// is only raised by moves, never by the seed tiles.
func New(rng engine.Rand, best int) Session {
	board := engine.New(rng)
	return Session{
		Board: board,
		Score: engine.Score(board),
		Best:  best,
	}
}

// Step applies one directional input. A move that leaves the board unchanged
// returns the session as-is: no spawn, no move counted.
func (s Session) Step(dir engine.Direction, rng engine.Rand) (Session, Outcome) {
	out := Outcome{Direction: dir}

	if s.Over {
		out.Err = ErrGameOver
		return s, out
	}

	moved := engine.Move(s.Board, dir)
	if engine.Equal(moved, s.Board) {
		return s, out
	}

	next := s
	next.Board = engine.SpawnTile(moved, rng)
	next.Moves++
	next.Score = engine.Score(next.Board)
	out.Changed = true

	if next.Score > next.Best {
		next.Best = next.Score
		out.NewBest = true
	}

	if !next.Won && engine.HasWon(next.Board) {
		next.Won = true
		out.JustWon = true
	}

	next.Over = engine.IsGameOver(next.Board)
	return next, out
}

// Reset starts a fresh game keeping the best score.
func (s Session) Reset(rng engine.Rand) Session {
	return New(rng, s.Best)
}

// MaxTile returns the highest tile on the board.
func (s Session) MaxTile() int {
	return engine.MaxTile(s.Board)
}
