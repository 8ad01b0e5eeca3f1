package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mini2048/internal/storage"
	"github.com/vovakirdan/mini2048/internal/theme"
)

// scoresLimit caps how many finished games the table loads.
const scoresLimit = 100

// scoreColumns are the table columns; the date column absorbs spare width.
func scoreColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Tile", Width: 6},
		{Title: "Moves", Width: 6},
		{Title: "Result", Width: 7},
		{Title: "Date", Width: 13},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2 // cell padding
	}
	if spare := width - used - 4; spare > 0 {
		cols[len(cols)-1].Width += min(spare, 6)
	}
	return cols
}

func scoreRow(rank int, r storage.GameRecord) table.Row {
	result := "quit"
	switch {
	case r.Won:
		result = "won"
	case r.Over:
		result = "over"
	}
	return table.Row{
		strconv.Itoa(rank),
		strconv.Itoa(r.Score),
		strconv.Itoa(r.MaxTile),
		strconv.Itoa(r.Moves),
		result,
		r.CreatedAt.Local().Format("Jan 02 15:04"),
	}
}

// ScoreboardModel lists finished games from the store.
type ScoreboardModel struct {
	store    *storage.Store
	records  []storage.GameRecord
	stats    storage.Stats
	err      error
	table    table.Model
	help     help.Model
	keys     ScoresKeyMap
	width    int
	height   int
	quitting bool
	back     bool
	embedded bool // Back returns to the board instead of exiting
}

// NewScoreboardModel loads the table. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(theme.BoardHex))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color(theme.LightTextHex)).
		Background(lipgloss.Color(theme.TileHex(8)))

	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoresKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
		table: table.New(
			table.WithFocused(true),
			table.WithStyles(styles),
		),
	}
	m.resize(width, height)
	m.reload()
	return m
}

func (m *ScoreboardModel) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.table.SetColumns(scoreColumns(width))
	// Title, stats, panel border and help take about 9 lines.
	m.table.SetHeight(max(3, height-9))
}

func (m *ScoreboardModel) reload() {
	m.records, m.stats, m.err = nil, storage.Stats{}, nil
	if m.store != nil {
		m.records, m.err = m.store.TopScores(scoresLimit)
		if stats, err := m.store.GetStats(); err == nil {
			m.stats = *stats
		}
	}

	rows := make([]table.Row, 0, len(m.records))
	for i, r := range m.records {
		rows = append(rows, scoreRow(i+1, r))
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.reload()
			return m, nil
		case !key.Matches(msg, m.keys.Scroll):
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || (m.back && !m.embedded) {
		return ""
	}

	var body string
	switch {
	case m.err != nil:
		body = theme.MutedStyle.Italic(true).Padding(1, 2).
			Render("Could not load scores.\n" + m.err.Error())
	case len(m.records) == 0:
		body = theme.MutedStyle.Italic(true).Padding(1, 2).
			Render("No finished games yet.\nPlay one to set a high score!")
	default:
		body = m.table.View()
	}

	view := lipgloss.JoinVertical(lipgloss.Center,
		theme.TitleStyle.Render("HIGH SCORES"),
		"",
		theme.MutedStyle.Render(m.summary()),
		"",
		theme.PanelStyle.Render(body),
	)
	if m.width > 0 {
		view = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, view)
	}
	return view + "\n" + theme.HelpStyle.Render(m.help.View(m.keys))
}

func (m ScoreboardModel) summary() string {
	st := m.stats
	if st.GamesCount == 0 {
		return "No games yet"
	}
	return fmt.Sprintf("Games %d  Wins %d  High %d  Avg %.0f  Best tile %d",
		st.GamesCount, st.Wins, st.HighScore, st.AvgScore, st.BestTile)
}

// Rows returns the number of games listed.
func (m ScoreboardModel) Rows() int {
	return len(m.records)
}

// IsGoingBack reports whether the user asked to return to the board.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scores table on its own.
func RunScoreboard(store *storage.Store, width, height int) error {
	_, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	return err
}
