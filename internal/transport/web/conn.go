package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/vovakirdan/mini2048/internal/engine"
	"github.com/vovakirdan/mini2048/internal/handshake"
	"github.com/vovakirdan/mini2048/internal/input"
	"github.com/vovakirdan/mini2048/internal/session"
)

// maxMessageSize bounds a single client message.
const maxMessageSize = 4096

// conn is one websocket game.
type conn struct {
	id       string
	ws       *websocket.Conn
	runner   *session.Runner
	swipes   input.Debouncer
	swipeMin float64
	logger   *log.Logger
}

func (s *Server) handleWebSocket(c *gin.Context) {
	opts := &websocket.AcceptOptions{}
	if allowAll(s.cfg.CORSOrigins) {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = originPatterns(s.cfg.CORSOrigins)
	}

	ws, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		// Accept has already written the HTTP error.
		s.logger.Warn("websocket upgrade failed", "remote", c.ClientIP(), "error", err)
		return
	}
	ws.SetReadLimit(maxMessageSize)

	id := uuid.NewString()
	logger := s.logger.With("session", id)

	var store session.Store
	if s.store != nil {
		store = s.store
	}

	cn := &conn{
		id:       id,
		ws:       ws,
		runner:   session.NewRunner(engine.NewRand(s.cfg.Seed), store, logger),
		swipeMin: s.cfg.SwipeThreshold,
		logger:   logger,
	}

	s.active.Add(1)
	defer s.active.Add(-1)

	logger.Info("session started", "remote", c.ClientIP())
	err = cn.serve(c.Request.Context(), s.cfg.Handshake)
	cn.runner.Finish()

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		logger.Info("session ended")
	case err != nil && !errors.Is(err, context.Canceled):
		logger.Warn("session ended", "error", err)
	default:
		logger.Info("session ended")
	}
	ws.Close(websocket.StatusNormalClosure, "")
}

// serve sends the opening state, starts the readiness handshake and then
// processes client messages one at a time until the connection closes.
func (cn *conn) serve(ctx context.Context, hs handshake.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := cn.write(ctx, stateMsg(cn.runner.State(), false)); err != nil {
		return err
	}

	go handshake.Signal(ctx, handshake.Func(func(ctx context.Context) error {
		return cn.write(ctx, Ready{Type: "ready", Session: cn.id})
	}), hs, cn.logger)

	for {
		typ, data, err := cn.ws.Read(ctx)
		if err != nil {
			return err
		}

		var msg ClientMsg
		if typ != websocket.MessageText {
			err = errors.New("expected a text message")
		} else {
			err = json.Unmarshal(data, &msg)
		}
		if err != nil {
			if err := cn.write(ctx, errorMsg(CodeBadMessage, err.Error())); err != nil {
				return err
			}
			continue
		}

		if err := cn.handle(ctx, msg); err != nil {
			return err
		}
	}
}

// handle processes one client message. Only transport failures are returned.
func (cn *conn) handle(ctx context.Context, msg ClientMsg) error {
	switch msg.Type {
	case "ping":
		return cn.write(ctx, Pong{Type: "pong"})

	case "reset":
		return cn.write(ctx, stateMsg(cn.runner.Reset(), true))

	case "move":
		dir, err := input.ParseDirection(msg.Dir)
		if err != nil {
			return cn.write(ctx, errorMsg(CodeBadDirection, fmt.Sprintf("unknown direction %q", msg.Dir)))
		}
		return cn.move(ctx, dir)

	case "swipe":
		if !cn.swipes.Accept(msg.ID) {
			return nil // Repeated gesture
		}
		sw := input.Swipe{StartX: msg.StartX, StartY: msg.StartY, EndX: msg.EndX, EndY: msg.EndY}
		dir, err := sw.Classify(cn.swipeMin)
		if err != nil {
			return cn.write(ctx, errorMsg(CodeNoSwipe, "swipe too short"))
		}
		return cn.move(ctx, dir)
	}

	return cn.write(ctx, errorMsg(CodeUnknownType, fmt.Sprintf("unknown message type %q", msg.Type)))
}

func (cn *conn) move(ctx context.Context, dir engine.Direction) error {
	state, out := cn.runner.Move(dir)
	if errors.Is(out.Err, session.ErrGameOver) {
		return cn.write(ctx, errorMsg(CodeGameOver, "game is over, send reset"))
	}
	if out.JustWon {
		cn.logger.Info("reached 2048", "score", state.Score, "moves", state.Moves)
	}
	if state.Over && out.Changed {
		cn.logger.Info("game over", "score", state.Score, "max_tile", state.MaxTile())
	}
	return cn.write(ctx, stateMsg(state, out.Changed))
}

func (cn *conn) write(ctx context.Context, v any) error {
	return wsjson.Write(ctx, cn.ws, v)
}
