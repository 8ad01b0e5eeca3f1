// Package input turns raw key names and touch gestures into board directions.
package input

import (
	"errors"
	"strings"
	"sync"

	"github.com/vovakirdan/mini2048/internal/engine"
)

// DefaultSwipeThreshold is the minimum travel distance for a swipe.
const DefaultSwipeThreshold = 50

// ErrNoDirection is returned when an input does not map to a direction.
var ErrNoDirection = errors.New("input: no direction")

// ParseDirection maps a key or direction name to a Direction.
// Accepts direction names, arrow keys, WASD and vim hjkl, case-insensitively.
func ParseDirection(name string) (engine.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left", "arrowleft", "a", "h":
		return engine.Left, nil
	case "right", "arrowright", "d", "l":
		return engine.Right, nil
	case "up", "arrowup", "w", "k":
		return engine.Up, nil
	case "down", "arrowdown", "s", "j":
		return engine.Down, nil
	}
	return 0, ErrNoDirection
}

// Swipe is a touch gesture from start to end, in screen units where Y grows
// downward.
type Swipe struct {
	StartX, StartY float64
	EndX, EndY     float64
}

// Classify returns the swipe's direction. The axis with the larger travel wins
// and the travel along it must exceed threshold. threshold <= 0 uses the default.
func (s Swipe) Classify(threshold float64) (engine.Direction, error) {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}

	dx := s.StartX - s.EndX
	dy := s.StartY - s.EndY

	if abs(dx) > abs(dy) {
		switch {
		case dx > threshold:
			return engine.Left, nil
		case dx < -threshold:
			return engine.Right, nil
		}
		return 0, ErrNoDirection
	}

	switch {
	case dy > threshold:
		return engine.Up, nil
	case dy < -threshold:
		return engine.Down, nil
	}
	return 0, ErrNoDirection
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Debouncer lets at most one direction through per gesture or key event.
// Events are identified by monotonically increasing IDs; a repeated or older
// ID is dropped. ID 0 means the event is unidentified and always passes.
type Debouncer struct {
	mu     sync.Mutex
	last   uint64
	primed bool
}

// Accept reports whether the event with the given ID should be dispatched.
func (d *Debouncer) Accept(id uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == 0 {
		return true
	}
	if d.primed && id <= d.last {
		return false
	}
	d.last = id
	d.primed = true
	return true
}
