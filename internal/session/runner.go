package session

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mini2048/internal/engine"
)

// BestKey is the fixed identifier the best score is stored under.
const BestKey = "2048-best-score"

// GameResult summarizes a finished or abandoned game.
type GameResult struct {
	Score   int
	MaxTile int
	Moves   int
	Won     bool
	Over    bool
}

// Store persists the best score and finished games.
// Implementations live outside this package so sessions stay storage-agnostic.
type Store interface {
	BestScore() (int, error)
	SetBestScore(score int) error
	SaveResult(result GameResult) error
}

// LoadBest reads the persisted best score. Any failure yields zero so the game
// can start regardless.
func LoadBest(store Store, logger *log.Logger) int {
	if store == nil {
		return 0
	}
	best, err := store.BestScore()
	if err != nil {
		if logger != nil {
			logger.Warn("could not read best score, starting from zero", "error", err)
		}
		return 0
	}
	return best
}

// Runner serializes input for one player. Each call to Move runs the whole
// move-then-spawn step under a lock, so concurrent callers cannot interleave.
type Runner struct {
	mu       sync.Mutex
	state    Session
	rng      engine.Rand
	store    Store
	logger   *log.Logger
	recorded bool
}

// NewRunner creates a runner with a fresh game. store and logger may be nil.
func NewRunner(rng engine.Rand, store Store, logger *log.Logger) *Runner {
	return &Runner{
		state:  New(rng, LoadBest(store, logger)),
		rng:    rng,
		store:  store,
		logger: logger,
	}
}

// State returns a copy of the current session.
func (r *Runner) State() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Move applies one direction and persists side effects.
func (r *Runner) Move(dir engine.Direction) (Session, Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, out := r.state.Step(dir, r.rng)
	r.state = next

	if out.NewBest {
		r.saveBest(next.Best)
	}
	if next.Over {
		r.record()
	}
	return next, out
}

// Reset records the current game if it was played, then starts a new one.
func (r *Runner) Reset() Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Moves > 0 {
		r.record()
	}
	r.state = r.state.Reset(r.rng)
	r.recorded = false
	return r.state
}

func (r *Runner) saveBest(best int) {
	if r.store == nil {
		return
	}
	if err := r.store.SetBestScore(best); err != nil && r.logger != nil {
		r.logger.Warn("could not save best score", "best", best, "error", err)
	}
}

// record saves the current game once.
func (r *Runner) record() {
	if r.recorded || r.store == nil {
		return
	}
	r.recorded = true

	result := GameResult{
		Score:   r.state.Score,
		MaxTile: r.state.MaxTile(),
		Moves:   r.state.Moves,
		Won:     r.state.Won,
		Over:    r.state.Over,
	}
	if err := r.store.SaveResult(result); err != nil && r.logger != nil {
		r.logger.Warn("could not record game", "score", result.Score, "error", err)
	}
}

// Finish records the current game if it was played. Call it when the player
// leaves so abandoned games still reach the scores table.
func (r *Runner) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Moves > 0 {
		r.record()
	}
}
