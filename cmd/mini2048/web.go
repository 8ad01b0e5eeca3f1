package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mini2048/internal/transport/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Host the game for web mini-apps",
	Long: `Start the HTTP host the mini-app front end talks to.

Endpoints:
  GET /healthz     - Liveness and open session count
  GET /api/best    - Best score
  GET /api/scores  - Top finished games (?limit=1..100)
  GET /ws          - Websocket, one game per connection

Websocket messages are JSON objects with a "type" field:
  client: move {dir}, swipe {startX,startY,endX,endY,id}, reset, ping
  server: state, ready, error {code,detail}, pong

Examples:
  mini2048 web
  mini2048 web --addr :9000
  MINI2048_CORS_ORIGINS=https://app.example mini2048 web`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (overrides config)")
}

func runWeb(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "mini2048-web", cfg.LogLevel)

	webCfg := web.Config{
		Address:        cfg.Web.Address,
		GinMode:        cfg.Web.GinMode,
		CORSOrigins:    cfg.Web.CORSOrigins,
		Handshake:      handshakeOptions(cfg),
		SwipeThreshold: cfg.Input.SwipeThreshold,
		Seed:           flagSeed,
	}
	if flagWebAddr != "" {
		webCfg.Address = flagWebAddr
	}

	store := openStore(cfg.Storage.Path, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(webCfg, store, logger).ListenAndServe(ctx)
}
