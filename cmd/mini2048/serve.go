package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mini2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the 2048 SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own independent game.
Scores are stored per-server (all users share the same best score and table).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.mini2048/host_key

Examples:
  mini2048 serve                           # Listen on :23234 with auto-generated key
  mini2048 serve --ssh :2222               # Listen on port 2222
  mini2048 serve --host-key ./my_host_key  # Use specific host key
  mini2048 serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "mini2048-ssh", cfg.LogLevel)

	sshCfg := tui.SSHServerConfig{
		Address:     cfg.SSH.Address,
		HostKeyPath: cfg.SSH.HostKeyPath,
		IdleTimeout: cfg.SSH.IdleTimeout,
		Handshake:   handshakeOptions(cfg),
	}
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		sshCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		sshCfg.IdleTimeout = flagIdleTimeout
	}

	store := openStore(cfg.Storage.Path, logger)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(sshCfg, store, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting 2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.ListenAndServe(ctx)
}
