// Package theme holds the tile palette shared by the terminal renderer and the
// promotional image generator.
package theme

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Hex colours for the board chrome.
const (
	BoardHex       = "#bbada0"
	EmptyHex       = "#cdc1b4"
	FallbackHex    = "#3c3a32"
	DarkTextHex    = "#776e65"
	LightTextHex   = "#f9f6f2"
	GradientTopHex = "#667eea"
	GradientEndHex = "#764ba2"
)

var tileHex = map[int]string{
	0:    EmptyHex,
	2:    "#eee4da",
	4:    "#ede0c8",
	8:    "#f2b179",
	16:   "#f59563",
	32:   "#f67c5f",
	64:   "#f65e3b",
	128:  "#edcf72",
	256:  "#edcc61",
	512:  "#edc850",
	1024: "#edc53f",
	2048: "#edc22e",
}

// TileHex returns the background colour for a tile value.
// Values beyond 2048 share the fallback colour.
func TileHex(value int) string {
	if h, ok := tileHex[value]; ok {
		return h
	}
	return FallbackHex
}

// TextHex returns the label colour for a tile value.
func TextHex(value int) string {
	if value <= 4 {
		return DarkTextHex
	}
	return LightTextHex
}

// RGBA parses a "#rrggbb" string.
func RGBA(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("theme: invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("theme: invalid colour %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustRGBA is RGBA for compile-time constants.
func MustRGBA(hex string) color.RGBA {
	c, err := RGBA(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// TileRGBA returns the background colour for a tile value as color.RGBA.
func TileRGBA(value int) color.RGBA {
	return MustRGBA(TileHex(value))
}

// TextRGBA returns the label colour for a tile value as color.RGBA.
func TextRGBA(value int) color.RGBA {
	return MustRGBA(TextHex(value))
}

// TileStyle returns the terminal style for a tile of the given width.
func TileStyle(value, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(value >= 8).
		Foreground(lipgloss.Color(TextHex(value))).
		Background(lipgloss.Color(TileHex(value)))
}

// Terminal chrome styles.
var (
	BoardStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(BoardHex)).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(LightTextHex)).
			Background(lipgloss.Color(GradientTopHex)).
			Padding(0, 2)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(LightTextHex)).
			Background(lipgloss.Color(GradientEndHex)).
			Padding(0, 1)

	BannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(LightTextHex)).
			Background(lipgloss.Color(TileHex(2048))).
			Padding(0, 2)

	OverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(LightTextHex)).
			Background(lipgloss.Color(FallbackHex)).
			Padding(0, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(BoardHex)).
			Padding(0, 1)
)
