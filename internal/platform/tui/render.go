package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mini2048/internal/engine"
	"github.com/vovakirdan/mini2048/internal/session"
	"github.com/vovakirdan/mini2048/internal/theme"
)

const (
	cellWidth  = 7 // Columns per tile
	cellHeight = 3 // Lines per tile
	cellGap    = 1

	// Board plus header, banner and help line.
	minWidth  = engine.Size*cellWidth + (engine.Size-1)*cellGap + 2
	minHeight = engine.Size*cellHeight + (engine.Size - 1) + 7
)

var gapStyle = lipgloss.NewStyle().Background(lipgloss.Color(theme.BoardHex))

// RenderBoard draws the grid with coloured tiles. Empty cells have no label.
func RenderBoard(b engine.Board) string {
	hgap := gapStyle.Width(cellGap).Height(cellHeight).Render("")
	vgap := gapStyle.Width(engine.Size*cellWidth + (engine.Size-1)*cellGap).Render("")

	rows := make([]string, 0, engine.Size*2-1)
	for r := range engine.Size {
		tiles := make([]string, 0, engine.Size*2-1)
		for c := range engine.Size {
			if c > 0 {
				tiles = append(tiles, hgap)
			}
			tiles = append(tiles, renderTile(b[r][c]))
		}
		if r > 0 {
			rows = append(rows, vgap)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}

	return theme.BoardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderTile(value int) string {
	label := ""
	if value != 0 {
		label = strconv.Itoa(value)
	}
	return theme.TileStyle(value, cellWidth).
		Height(cellHeight).
		AlignVertical(lipgloss.Center).
		Render(label)
}

// RenderHeader draws the title and the two score boxes.
func RenderHeader(s session.Session) string {
	title := theme.TitleStyle.Render("2048")
	score := theme.ScoreStyle.Render(fmt.Sprintf("Score %d", s.Score))
	best := theme.ScoreStyle.Render(fmt.Sprintf("Best %d", s.Best))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", score, " ", best)
}

// RenderBanner returns the win or game-over message, or "" while playing.
// Game over takes precedence over a win.
func RenderBanner(s session.Session) string {
	switch {
	case s.Over:
		return theme.OverStyle.Render("Game Over!") + "  press r to try again"
	case s.Won:
		return theme.BannerStyle.Render("You Win!") + "  keep going or press r for a new game"
	}
	return ""
}

// renderTooSmall shows a "window too small" message.
func renderTooSmall(width, height int) string {
	msg := lipgloss.JoinVertical(lipgloss.Center,
		"Window too small",
		fmt.Sprintf("Please resize terminal to at least %dx%d", minWidth, minHeight),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}
