// mini2048 is the 2048 sliding-tile game for terminals, SSH and web mini-apps.
//
// Usage:
//
//	mini2048 play            - Play in this terminal
//	mini2048 serve           - Start SSH server for remote play
//	mini2048 web             - Start the HTTP/websocket host for the mini-app
//	mini2048 scores          - Show the top finished games
//	mini2048 best            - Print the best score
//	mini2048 assets          - Generate icon, preview and splash images
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.mini2048/config.yaml, ./configs/mini2048.yaml)
//	--db <path>         - Set database path (default: ~/.mini2048/scores.db)
//	--seed <value>      - Set RNG seed for reproducible games
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mini2048/internal/config"
	"github.com/vovakirdan/mini2048/internal/handshake"
	"github.com/vovakirdan/mini2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mini2048",
	Short: "2048 - Join the tiles, get to 2048!",
	Long: `mini2048 is the 2048 sliding-tile puzzle. Slide the board in any
direction; equal neighbours merge and a new tile appears after every move.
Reach 2048 to win, keep going for a higher score.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Host the game for web mini-apps over websocket
  scores   - View finished games
  best     - Print the best score
  assets   - Generate promotional images

Examples:
  mini2048 play
  mini2048 serve --ssh :2222
  mini2048 web --addr :8080
  mini2048 scores --limit 20
  mini2048 assets --out public`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(bestCmd)
	rootCmd.AddCommand(assetsCmd)
}

// loadConfig reads the config file and environment, then applies global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// newLogger creates a prefixed logger at the configured level.
func newLogger(w io.Writer, prefix, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	} else if level != "" {
		logger.Warn("unknown log level, using info", "level", level)
	}
	return logger
}

// openStore opens the scores database. Failure degrades to no persistence.
func openStore(path string, logger *log.Logger) *storage.Store {
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be saved", "path", path, "error", err)
		return nil
	}
	return store
}

func handshakeOptions(cfg config.Config) handshake.Options {
	return handshake.Options{
		Delay:   cfg.Handshake.Delay,
		Timeout: cfg.Handshake.Timeout,
	}
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
