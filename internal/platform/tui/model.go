package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mini2048/internal/engine"
	"github.com/vovakirdan/mini2048/internal/handshake"
	"github.com/vovakirdan/mini2048/internal/session"
	"github.com/vovakirdan/mini2048/internal/storage"
	"github.com/vovakirdan/mini2048/internal/theme"
)

// Options configures a terminal game.
type Options struct {
	Store     *storage.Store // May be nil: no persistence
	Seed      int64          // 0 means time-based
	Notifier  handshake.Notifier
	Handshake handshake.Options
	Logger    *log.Logger
	Width     int
	Height    int
}

// GameModel is the Bubble Tea model for the board screen.
type GameModel struct {
	runner   *session.Runner
	state    session.Session
	keys     GameKeyMap
	help     help.Model
	opts     Options
	ready    bool
	width    int
	height   int
	quitting bool
	scores   bool // Set when the player asked for the scores table
}

// NewGameModel creates a board screen driven by runner.
func NewGameModel(runner *session.Runner, opts Options) GameModel {
	return GameModel{
		runner: runner,
		state:  runner.State(),
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
		opts:   opts,
		width:  opts.Width,
		height: opts.Height,
	}
}

// Init starts the host readiness handshake.
func (m GameModel) Init() tea.Cmd {
	return readyCmd(m.opts.Notifier, m.opts.Handshake, m.opts.Logger)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReadyMsg:
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit keys
	if key.Matches(msg, m.keys.Quit) {
		m.runner.Finish()
		m.quitting = true
		return m, tea.Quit
	}

	// Nothing else until the loading screen is gone
	if !m.ready {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Reset):
		m.state = m.runner.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Scores):
		m.scores = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if dir, ok := m.keys.Direction(msg); ok {
		// Moves after game over are rejected by the session; the
		// banner already tells the player to press r.
		m.state, _ = m.runner.Move(dir)
	}

	return m, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return m.place(theme.TitleStyle.Render("Loading 2048..."))
	}

	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		return renderTooSmall(m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(RenderHeader(m.state))
	b.WriteString("\n\n")
	b.WriteString(RenderBoard(m.state.Board))
	b.WriteString("\n\n")
	if banner := RenderBanner(m.state); banner != "" {
		b.WriteString(banner)
	}
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(m.help.View(m.keys)))

	return m.place(b.String())
}

// place centers content when the terminal size is known.
func (m GameModel) place(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// State returns the session as last seen by the model.
func (m GameModel) State() session.Session {
	return m.state
}

// Ready reports whether the loading screen has been dismissed.
func (m GameModel) Ready() bool {
	return m.ready
}

// IsQuitting returns true if user requested to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// SessionModel switches between the board and the scores table.
// This is the top-level model for local play and SSH sessions.
type SessionModel struct {
	store      *storage.Store
	opts       Options
	game       GameModel
	scoreboard *ScoreboardModel
	quitting   bool
}

// NewSessionModel creates a new game with its own runner.
func NewSessionModel(opts Options) SessionModel {
	var store session.Store
	if opts.Store != nil {
		store = opts.Store
	}
	runner := session.NewRunner(engine.NewRand(opts.Seed), store, opts.Logger)

	return SessionModel{
		store: opts.Store,
		opts:  opts,
		game:  NewGameModel(runner, opts),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	if m.scoreboard != nil {
		return m.updateScoreboard(msg)
	}
	return m.updateGame(msg)
}

// updateGame handles updates when the board is shown.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.scores {
		m.game.scores = false
		sb := NewScoreboardModel(m.store, m.opts.Width, m.opts.Height)
		sb.embedded = true
		m.scoreboard = &sb
		return m, m.scoreboard.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scores table is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Keep the board's size current for when it comes back
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		newGame, _ := m.game.Update(wsm)
		if gameModel, ok := newGame.(GameModel); ok {
			m.game = gameModel
		}
	}

	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsQuitting() {
		m.game.runner.Finish()
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.scoreboard = nil
		return m, nil
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.scoreboard != nil {
		return m.scoreboard.View()
	}

	return m.game.View()
}

// Run starts a terminal game and blocks until the player quits.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewSessionModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
