package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mini2048/internal/handshake"
	"github.com/vovakirdan/mini2048/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  R                - New game
  Tab              - High scores
  ?                - More keys
  Q/Ctrl+C         - Quit

The best score and finished games are saved to the scores database.
Logs go to play.log next to the database so they do not disturb the board.

Examples:
  mini2048 play
  mini2048 play --seed 42
  mini2048 play --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Log to a file: the board owns the terminal.
	var logOut io.Writer = io.Discard
	logPath := filepath.Join(filepath.Dir(expandHome(cfg.Storage.Path)), "play.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
			defer f.Close()
			logOut = f
		}
	}
	logger := newLogger(logOut, "mini2048", cfg.LogLevel)

	store := openStore(cfg.Storage.Path, logger)
	if store == nil {
		fmt.Fprintln(os.Stderr, "Warning: scores database unavailable, scores will not be saved")
	} else {
		defer store.Close()
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// The terminal is its own host: readiness just waits out the splash.
	terminal := handshake.Func(func(context.Context) error { return nil })

	return tui.Run(tui.Options{
		Store:     store,
		Seed:      flagSeed,
		Notifier:  terminal,
		Handshake: handshakeOptions(cfg),
		Logger:    logger,
		Width:     width,
		Height:    height,
	})
}
