package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/mini2048/internal/engine"
)

// firstCellRand always picks the first empty cell and spawns a 2.
type firstCellRand struct{}

func (firstCellRand) Intn(int) int     { return 0 }
func (firstCellRand) SpawnValue() int { return 2 }

type memStore struct {
	mu      sync.Mutex
	best    int
	readErr error
	results []GameResult
	saves   int
}

func (m *memStore) BestScore() (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	return m.best, nil
}

func (m *memStore) SetBestScore(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.best = score
	m.saves++
	return nil
}

func (m *memStore) SaveResult(result GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
	return nil
}

func TestNewSession(t *testing.T) {
	s := New(firstCellRand{}, 100)

	if engine.TileCount(s.Board) != 2 {
		t.Errorf("new session should have 2 tiles, got %d", engine.TileCount(s.Board))
	}
	if s.Score != 4 {
		t.Errorf("Score = %d, want 4", s.Score)
	}
	if s.Best != 100 {
		t.Errorf("Best = %d, want 100", s.Best)
	}
	if s.Won || s.Over || s.Moves != 0 {
		t.Errorf("new session has unexpected flags: %+v", s)
	}
}

func TestStepNoOpDoesNotSpawn(t *testing.T) {
	s := Session{Board: engine.Board{{4, 2, 0, 0}}, Score: 6}

	next, out := s.Step(engine.Left, firstCellRand{})

	if out.Changed {
		t.Error("left on a left-aligned row should not change the board")
	}
	if next != s {
		t.Errorf("no-op step altered session: %+v", next)
	}
}

func TestStepSpawnsAndScores(t *testing.T) {
	s := Session{Board: engine.Board{{0, 0, 2, 2}}, Score: 4}

	next, out := s.Step(engine.Left, firstCellRand{})

	if !out.Changed {
		t.Fatal("expected board change")
	}
	// [4,0,0,0] then spawn at first empty cell (0,1).
	want := engine.Board{{4, 2, 0, 0}}
	if next.Board != want {
		t.Errorf("board = \n%v\nwant\n%v", next.Board, want)
	}
	if next.Score != 6 {
		t.Errorf("Score = %d, want 6", next.Score)
	}
	if next.Moves != 1 {
		t.Errorf("Moves = %d, want 1", next.Moves)
	}
	if !out.NewBest || next.Best != 6 {
		t.Errorf("expected best raised to 6, got %d (NewBest=%v)", next.Best, out.NewBest)
	}
	if s.Board != (engine.Board{{0, 0, 2, 2}}) {
		t.Error("Step mutated the previous session")
	}
}

func TestStepWinReportedOnce(t *testing.T) {
	s := Session{Board: engine.Board{{1024, 1024, 0, 0}}}

	next, out := s.Step(engine.Left, firstCellRand{})
	if !out.JustWon || !next.Won {
		t.Fatalf("expected win, got %+v", out)
	}

	// Play continues after a win.
	after, out := next.Step(engine.Right, firstCellRand{})
	if !out.Changed {
		t.Error("moves should still be accepted after a win")
	}
	if out.JustWon {
		t.Error("win should only be reported once")
	}
	if !after.Won {
		t.Error("Won flag should stay set")
	}
}

func TestStepGameOver(t *testing.T) {
	// Sliding right and spawning a 2 in the gap leaves no merges.
	s := Session{Board: engine.Board{
		{4, 8, 16, 0},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}}

	next, out := s.Step(engine.Right, firstCellRand{})
	if !out.Changed {
		t.Fatal("expected board change")
	}
	if !next.Over {
		t.Fatalf("expected game over:\n%v", next.Board)
	}

	final, out := next.Step(engine.Left, firstCellRand{})
	if !errors.Is(out.Err, ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", out.Err)
	}
	if final != next {
		t.Error("moves after game over must not change the session")
	}
}

func TestResetKeepsBest(t *testing.T) {
	s := Session{Board: engine.Board{{2048, 0, 0, 0}}, Score: 2048, Best: 5000, Won: true, Moves: 40}

	fresh := s.Reset(firstCellRand{})

	if fresh.Best != 5000 {
		t.Errorf("Best = %d, want 5000", fresh.Best)
	}
	if fresh.Won || fresh.Over || fresh.Moves != 0 {
		t.Errorf("reset should clear flags: %+v", fresh)
	}
}

func TestLoadBestDefaultsToZero(t *testing.T) {
	if got := LoadBest(nil, nil); got != 0 {
		t.Errorf("LoadBest(nil) = %d, want 0", got)
	}

	store := &memStore{readErr: errors.New("disk gone")}
	if got := LoadBest(store, nil); got != 0 {
		t.Errorf("LoadBest with failing store = %d, want 0", got)
	}

	store = &memStore{best: 320}
	if got := LoadBest(store, nil); got != 320 {
		t.Errorf("LoadBest = %d, want 320", got)
	}
}

func TestRunnerPersistsBestAndResults(t *testing.T) {
	store := &memStore{}
	r := NewRunner(firstCellRand{}, store, nil)

	// Seed tiles are 2,2 at (0,0),(0,1); left merges them.
	_, out := r.Move(engine.Left)
	if !out.Changed {
		t.Fatal("expected first move to change board")
	}
	if store.best != r.State().Best || store.saves == 0 {
		t.Errorf("best not persisted: store=%d state=%d", store.best, r.State().Best)
	}

	r.Reset()
	if len(store.results) != 1 {
		t.Fatalf("expected one recorded game after reset, got %d", len(store.results))
	}
	if store.results[0].Moves != 1 {
		t.Errorf("recorded Moves = %d, want 1", store.results[0].Moves)
	}

	// Resetting an unplayed game records nothing.
	r.Reset()
	if len(store.results) != 1 {
		t.Errorf("unplayed game should not be recorded, got %d results", len(store.results))
	}
}

func TestRunnerSerializesMoves(t *testing.T) {
	r := NewRunner(engine.NewRand(99), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Move(engine.Directions[(i+j)%len(engine.Directions)])
			}
		}(i)
	}
	wg.Wait()

	s := r.State()
	if s.Score != engine.Score(s.Board) {
		t.Errorf("score %d out of sync with board sum %d", s.Score, engine.Score(s.Board))
	}
	if s.Moves > 8*50 {
		t.Errorf("Moves = %d, more than the number of inputs", s.Moves)
	}
}

func TestRunnerFinishRecordsOnce(t *testing.T) {
	store := &memStore{}
	r := NewRunner(firstCellRand{}, store, nil)

	r.Finish()
	if len(store.results) != 0 {
		t.Fatalf("unplayed game should not be recorded, got %d", len(store.results))
	}

	r.Move(engine.Left)
	r.Finish()
	r.Finish()
	if len(store.results) != 1 {
		t.Errorf("Finish should record exactly once, got %d", len(store.results))
	}
	if store.results[0].Over {
		t.Error("abandoned game should not be marked over")
	}
}
