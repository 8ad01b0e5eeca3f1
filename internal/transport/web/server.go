// Package web hosts the mini-app over HTTP: a small JSON API for scores and a
// websocket that plays one game per connection.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/mini2048/internal/handshake"
	"github.com/vovakirdan/mini2048/internal/storage"
)

// Config holds configuration for the web host.
type Config struct {
	Address        string
	GinMode        string   // "release", "debug" or "test"; empty leaves gin's default
	CORSOrigins    []string // "*" allows any origin
	Handshake      handshake.Options
	SwipeThreshold float64
	Seed           int64 // Non-zero gives every connection the same deterministic game
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:     ":8080",
		GinMode:     gin.ReleaseMode,
		CORSOrigins: []string{"*"},
	}
}

// Server serves the HTTP API and the websocket game endpoint.
type Server struct {
	cfg    Config
	store  *storage.Store
	logger *log.Logger
	router *gin.Engine
	active atomic.Int64 // Open websocket sessions
}

// NewServer builds the router. store may be nil, in which case nothing is
// persisted and the API reports empty results. The server does not own the store.
func NewServer(cfg Config, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	if allowAll(s.cfg.CORSOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.cfg.CORSOrigins
		corsConfig.AllowWildcard = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/best", s.handleBest)
		api.GET("/scores", s.handleScores)
	}

	router.GET("/ws", s.handleWebSocket)

	return router
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ActiveSessions returns the number of open websocket games.
func (s *Server) ActiveSessions() int64 {
	return s.active.Load()
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("web: cannot listen on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

// requestLogger logs each request through the server's logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "mini2048",
		"sessions": s.ActiveSessions(),
	})
}

func (s *Server) handleBest(c *gin.Context) {
	best := 0
	if s.store != nil {
		b, err := s.store.BestScore()
		if err != nil {
			s.logger.Warn("could not read best score", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get best score",
			})
			return
		}
		best = b
	}
	c.JSON(http.StatusOK, gin.H{"best": best})
}

func (s *Server) handleScores(c *gin.Context) {
	// Get limit from query parameter (default 10, max 100)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid limit. Must be between 1 and 100",
		})
		return
	}

	scores := []storage.GameRecord{}
	stats := &storage.Stats{}
	if s.store != nil {
		if scores, err = s.store.TopScores(limit); err != nil {
			s.logger.Warn("could not read scores", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get scores",
			})
			return
		}
		if stats, err = s.store.GetStats(); err != nil {
			s.logger.Warn("could not read stats", "error", err)
			stats = &storage.Stats{}
		}
		if scores == nil {
			scores = []storage.GameRecord{}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"scores": scores,
		"stats":  stats,
	})
}

func allowAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// originPatterns converts CORS origins to the host patterns the websocket
// handshake checks.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if strings.Contains(o, "://") {
			if u, err := url.Parse(o); err == nil && u.Host != "" {
				patterns = append(patterns, u.Host)
				continue
			}
		}
		patterns = append(patterns, o)
	}
	return patterns
}
