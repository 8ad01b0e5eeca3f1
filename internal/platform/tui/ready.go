// Package tui provides the Bubble Tea front end for mini2048: the board
// screen, the scores table and the SSH host that serves them.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mini2048/internal/handshake"
)

// ReadyMsg is sent once the host readiness handshake has returned.
// Acknowledged reports whether the host accepted the signal.
type ReadyMsg struct {
	Acknowledged bool
}

// readyCmd runs the handshake off the update loop. It always produces a
// ReadyMsg so the loading screen never sticks.
func readyCmd(n handshake.Notifier, opts handshake.Options, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		ok := handshake.Signal(context.Background(), n, opts, logger)
		return ReadyMsg{Acknowledged: ok}
	}
}
