package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mini2048/internal/engine"
	"github.com/vovakirdan/mini2048/internal/input"
)

// GameKeyMap defines the key bindings for the board screen.
type GameKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Reset  key.Binding
	Scores key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Reset, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Reset, k.Scores, k.Help, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings: arrows, WASD and vim keys.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d/l", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s/j", "down"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("r", "new game"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Direction translates a key message to a board direction.
func (k GameKeyMap) Direction(msg tea.KeyMsg) (engine.Direction, bool) {
	if !key.Matches(msg, k.Left, k.Right, k.Up, k.Down) {
		return 0, false
	}
	dir, err := input.ParseDirection(msg.String())
	if err != nil {
		return 0, false
	}
	return dir, true
}

// ScoresKeyMap binds the scores table. Back also accepts tab so the same key
// toggles between the board and the table.
type ScoresKeyMap struct {
	Scroll  key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoresKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoresKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoresKeyMap returns default key bindings for the scores table.
func DefaultScoresKeyMap() ScoresKeyMap {
	return ScoresKeyMap{
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "k", "j", "pgup", "pgdown"),
			key.WithHelp("↑/↓", "scroll"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "tab"),
			key.WithHelp("tab/esc", "board"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
