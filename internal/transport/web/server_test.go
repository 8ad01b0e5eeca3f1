package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/vovakirdan/mini2048/internal/engine"
	"github.com/vovakirdan/mini2048/internal/handshake"
	"github.com/vovakirdan/mini2048/internal/storage"
)

func testConfig() Config {
	return Config{
		GinMode:     gin.TestMode,
		CORSOrigins: []string{"*"},
		Handshake:   handshake.Options{Delay: -1, Timeout: time.Second},
		Seed:        42,
	}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// helper to make ws:// URL from httptest server
func wsURLFromHTTP(u string) string {
	return "ws" + strings.TrimPrefix(u, "http") + "/ws"
}

type envelope struct {
	Type string
	Raw  []byte
}

func readMsg(ctx context.Context, t *testing.T, c *websocket.Conn) envelope {
	t.Helper()
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return envelope{Type: head.Type, Raw: data}
}

// expect reads until a message of type typ arrives, skipping the
// asynchronous "ready" message unless it is the one wanted.
func expect(ctx context.Context, t *testing.T, c *websocket.Conn, typ string, v any) {
	t.Helper()
	for {
		msg := readMsg(ctx, t, c)
		if msg.Type == "ready" && typ != "ready" {
			continue
		}
		if msg.Type != typ {
			t.Fatalf("got %q message %s, want %q", msg.Type, msg.Raw, typ)
		}
		if v != nil {
			if err := json.Unmarshal(msg.Raw, v); err != nil {
				t.Fatalf("decode %s: %v", msg.Raw, err)
			}
		}
		return
	}
}

func dial(ctx context.Context, t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.Dial(ctx, wsURLFromHTTP(ts.URL), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return c
}

func TestHealth(t *testing.T) {
	s := NewServer(testConfig(), nil, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"healthy"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestBestEndpoint(t *testing.T) {
	tests := []struct {
		name string
		seed int
		want int
	}{
		{"empty store", 0, 0},
		{"stored best", 640, 640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openTestStore(t)
			if tt.seed > 0 {
				store.SetBestScore(tt.seed)
			}
			s := NewServer(testConfig(), store, nil)

			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/best", nil))

			var body struct {
				Best int `json:"best"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Best != tt.want {
				t.Errorf("best = %d, want %d", body.Best, tt.want)
			}
		})
	}
}

func TestBestEndpointWithoutStore(t *testing.T) {
	s := NewServer(testConfig(), nil, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/best", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"best":0`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestScoresEndpoint(t *testing.T) {
	store := openTestStore(t)
	for _, score := range []int{120, 900, 400} {
		store.SaveGame(storage.GameRecord{Score: score, Over: true})
	}
	s := NewServer(testConfig(), store, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Scores []storage.GameRecord `json:"scores"`
		Stats  storage.Stats        `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Scores) != 2 || body.Scores[0].Score != 900 || body.Scores[1].Score != 400 {
		t.Errorf("unexpected scores %+v", body.Scores)
	}
	if body.Stats.GamesCount != 3 {
		t.Errorf("GamesCount = %d, want 3", body.Stats.GamesCount)
	}

	for _, bad := range []string{"0", "101", "x"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores?limit="+bad, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestCORSHeaders(t *testing.T) {
	s := NewServer(testConfig(), nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/best", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS header")
	}
}

func TestWS_OpeningStateAndReady(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	ts := httptest.NewServer(NewServer(testConfig(), nil, nil).Handler())
	defer ts.Close()

	c := dial(ctx, t, ts)
	defer c.Close(websocket.StatusNormalClosure, "bye")

	var st State
	expect(ctx, t, c, "state", &st)
	if engine.TileCount(st.Board) != 2 || st.Changed || st.Moves != 0 {
		t.Errorf("unexpected opening state %+v", st)
	}
	if st.Score != engine.Score(st.Board) {
		t.Errorf("score %d does not match board", st.Score)
	}

	var ready Ready
	expect(ctx, t, c, "ready", &ready)
	if ready.Session == "" {
		t.Error("ready should carry a session id")
	}
}

func TestWS_MovesAndErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	ts := httptest.NewServer(NewServer(testConfig(), nil, nil).Handler())
	defer ts.Close()

	c := dial(ctx, t, ts)
	defer c.Close(websocket.StatusNormalClosure, "bye")

	expect(ctx, t, c, "state", nil)

	// Some direction always moves a two-tile board.
	changed := false
	for _, dir := range []string{"left", "up", "right", "down"} {
		if err := wsjson.Write(ctx, c, ClientMsg{Type: "move", Dir: dir}); err != nil {
			t.Fatalf("write: %v", err)
		}
		var st State
		expect(ctx, t, c, "state", &st)
		if st.Changed {
			changed = true
			if engine.TileCount(st.Board) < 2 {
				t.Errorf("changed move should spawn a tile: %+v", st.Board)
			}
		}
		if st.Score != engine.Score(st.Board) {
			t.Errorf("score %d out of sync with board", st.Score)
		}
	}
	if !changed {
		t.Error("no direction changed the board")
	}

	wsjson.Write(ctx, c, ClientMsg{Type: "move", Dir: "sideways"})
	var e Error
	expect(ctx, t, c, "error", &e)
	if e.Code != CodeBadDirection {
		t.Errorf("code = %s, want %s", e.Code, CodeBadDirection)
	}

	c.Write(ctx, websocket.MessageText, []byte("{not json"))
	expect(ctx, t, c, "error", &e)
	if e.Code != CodeBadMessage {
		t.Errorf("code = %s, want %s", e.Code, CodeBadMessage)
	}

	wsjson.Write(ctx, c, ClientMsg{Type: "dance"})
	expect(ctx, t, c, "error", &e)
	if e.Code != CodeUnknownType {
		t.Errorf("code = %s, want %s", e.Code, CodeUnknownType)
	}

	// Connection survives bad input.
	wsjson.Write(ctx, c, ClientMsg{Type: "ping"})
	expect(ctx, t, c, "pong", nil)

	wsjson.Write(ctx, c, ClientMsg{Type: "reset"})
	var st State
	expect(ctx, t, c, "state", &st)
	if st.Moves != 0 || engine.TileCount(st.Board) != 2 {
		t.Errorf("reset state unexpected: %+v", st)
	}
}

func TestWS_SwipeDebounce(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	ts := httptest.NewServer(NewServer(testConfig(), nil, nil).Handler())
	defer ts.Close()

	c := dial(ctx, t, ts)
	defer c.Close(websocket.StatusNormalClosure, "bye")

	expect(ctx, t, c, "state", nil)

	swipe := ClientMsg{Type: "swipe", StartX: 300, StartY: 100, EndX: 100, EndY: 110, ID: 1}
	wsjson.Write(ctx, c, swipe)
	expect(ctx, t, c, "state", nil)

	// Same gesture again is dropped: the next reply is the pong.
	wsjson.Write(ctx, c, swipe)
	wsjson.Write(ctx, c, ClientMsg{Type: "ping"})
	expect(ctx, t, c, "pong", nil)

	wsjson.Write(ctx, c, ClientMsg{Type: "swipe", StartX: 100, StartY: 100, EndX: 120, EndY: 100, ID: 2})
	var e Error
	expect(ctx, t, c, "error", &e)
	if e.Code != CodeNoSwipe {
		t.Errorf("code = %s, want %s", e.Code, CodeNoSwipe)
	}
}

func TestWS_SwipeWithoutID(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	ts := httptest.NewServer(NewServer(testConfig(), nil, nil).Handler())
	defer ts.Close()

	c := dial(ctx, t, ts)
	defer c.Close(websocket.StatusNormalClosure, "bye")

	expect(ctx, t, c, "state", nil)

	// Gestures without an id are never treated as repeats.
	swipes := []ClientMsg{
		{Type: "swipe", StartX: 300, StartY: 100, EndX: 100, EndY: 110},
		{Type: "swipe", StartX: 100, StartY: 100, EndX: 300, EndY: 110},
		{Type: "swipe", StartX: 300, StartY: 100, EndX: 100, EndY: 110},
	}
	for i, sw := range swipes {
		if err := wsjson.Write(ctx, c, sw); err != nil {
			t.Fatalf("write swipe %d: %v", i, err)
		}
		expect(ctx, t, c, "state", nil)
	}

	wsjson.Write(ctx, c, ClientMsg{Type: "ping"})
	expect(ctx, t, c, "pong", nil)
}

func TestWS_DisconnectRecordsGame(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := openTestStore(t)
	ts := httptest.NewServer(NewServer(testConfig(), store, nil).Handler())
	defer ts.Close()

	c := dial(ctx, t, ts)
	expect(ctx, t, c, "state", nil)

	moved := false
	for _, dir := range []string{"left", "up", "right", "down"} {
		wsjson.Write(ctx, c, ClientMsg{Type: "move", Dir: dir})
		var st State
		expect(ctx, t, c, "state", &st)
		moved = moved || st.Changed
	}
	if !moved {
		t.Fatal("no move changed the board")
	}
	c.Close(websocket.StatusNormalClosure, "bye")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if scores, _ := store.TopScores(10); len(scores) == 1 {
			if best, _ := store.BestScore(); best != scores[0].Score {
				t.Errorf("best %d should equal the only game's score %d", best, scores[0].Score)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("game was not recorded after disconnect")
}

func TestOriginPatterns(t *testing.T) {
	got := originPatterns([]string{"https://app.example", "*.example.org"})
	if len(got) != 2 || got[0] != "app.example" || got[1] != "*.example.org" {
		t.Errorf("originPatterns = %v", got)
	}
}
