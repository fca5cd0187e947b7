package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"minesweeper/config"
	"minesweeper/game"
	"minesweeper/session"
)

func testConfig() config.Config {
	return config.Config{
		StaticDir:     "static",
		Rows:          10,
		Columns:       10,
		Mines:         10,
		MaxRows:       20,
		MaxColumns:    20,
		UndoDepth:     4,
		SessionTTL:    time.Minute,
		SweepInterval: time.Minute,
	}
}

// newTestServer returns a handler and a session on a 3x3 grid with a single
// mine in the top-left corner.
func newTestServer(t *testing.T) (http.Handler, *session.Store, *session.Session) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cells := make([]game.Cell, 9)
	for i := range cells {
		cells[i] = game.WithoutBomb()
	}
	cells[0] = game.WithBomb()
	g, err := game.New(3, game.UpdateAdjacentMinesCount(cells, 3, 3))
	if err != nil {
		t.Fatal(err)
	}

	store := session.NewStore(4)
	sess := session.NewWithGrid(g, 4)
	store.Add(sess)
	return New(testConfig(), store, log, nil).Routes(), store, sess
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var resp Response
	if rec.Code < 300 && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec, resp
}

func gamePath(sess *session.Session, rest string) string {
	return "/api/games/" + sess.ID.String() + rest
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandleNew(t *testing.T) {
	h, store, _ := newTestServer(t)

	rec, resp := do(t, h, http.MethodPost, "/api/games?rows=5&columns=6&mines=4")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	if resp.Game.Rows != 5 || resp.Game.Columns != 6 || resp.Game.MinesRemaining != 4 {
		t.Fatalf("game = %+v", resp.Game)
	}
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Fatalf("id %q: %v", resp.ID, err)
	}
	if store.Len() != 2 {
		t.Fatalf("store has %d sessions", store.Len())
	}

	_, resp = do(t, h, http.MethodPost, "/api/games?rows=500&columns=x")
	if resp.Game.Rows != 20 || resp.Game.Columns != 10 {
		t.Fatalf("clamped game = %dx%d", resp.Game.Rows, resp.Game.Columns)
	}

	rec, _ = do(t, h, http.MethodPost, "/api/games?rows=2&columns=2&mines=9")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("too many mines: status = %d", rec.Code)
	}
}

func TestHandleGetAndDelete(t *testing.T) {
	h, _, sess := newTestServer(t)

	rec, resp := do(t, h, http.MethodGet, gamePath(sess, ""))
	if rec.Code != http.StatusOK || resp.ID != sess.ID.String() {
		t.Fatalf("get = %d %+v", rec.Code, resp)
	}
	if rec, _ := do(t, h, http.MethodGet, "/api/games/nope"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status = %d", rec.Code)
	}
	if rec, _ := do(t, h, http.MethodGet, "/api/games/"+uuid.NewString()); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status = %d", rec.Code)
	}

	if rec, _ := do(t, h, http.MethodDelete, gamePath(sess, "")); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	if rec, _ := do(t, h, http.MethodGet, gamePath(sess, "")); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d", rec.Code)
	}
}

func TestHandleActions(t *testing.T) {
	h, _, sess := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		check  func(t *testing.T, resp Response)
	}{
		{"undo fresh game", http.MethodPost, "/undo", http.StatusConflict, nil},
		{"flag", http.MethodPost, "/flag?x=1&y=0", http.StatusOK, func(t *testing.T, resp Response) {
			if resp.Game.Cells[0][1].State != "flagged" {
				t.Fatalf("cell = %+v", resp.Game.Cells[0][1])
			}
		}},
		{"dig flagged", http.MethodPost, "/dig?x=1&y=0", http.StatusConflict, nil},
		{"dig outside", http.MethodPost, "/dig?x=3&y=0", http.StatusBadRequest, nil},
		{"dig garbage", http.MethodPost, "/dig?x=a&y=0", http.StatusBadRequest, nil},
		{"undo flag", http.MethodPost, "/undo", http.StatusOK, func(t *testing.T, resp Response) {
			if resp.Game.Cells[0][1].State != "hidden" {
				t.Fatalf("cell = %+v", resp.Game.Cells[0][1])
			}
		}},
		{"dig corner", http.MethodPost, "/dig?x=2&y=2", http.StatusOK, func(t *testing.T, resp Response) {
			if !resp.Game.IsGameClear {
				t.Fatalf("game = %+v", resp.Game)
			}
		}},
		{"dig after win", http.MethodPost, "/dig?x=0&y=0", http.StatusConflict, nil},
		{"bot after win", http.MethodPost, "/bot", http.StatusConflict, nil},
		{"restart", http.MethodPost, "/restart", http.StatusOK, func(t *testing.T, resp Response) {
			if resp.Game.IsGameClear || resp.Game.MinesRemaining != 1 {
				t.Fatalf("game = %+v", resp.Game)
			}
		}},
		{"bot", http.MethodPost, "/bot", http.StatusOK, func(t *testing.T, resp Response) {
			if resp.Move == nil || !resp.Move.IsGuess || resp.Move.Type != "open" {
				t.Fatalf("move = %+v", resp.Move)
			}
		}},
	}
	for _, tt := range tests {
		rec, resp := do(t, h, tt.method, gamePath(sess, tt.path))
		if rec.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d (%s)", tt.name, rec.Code, tt.status, rec.Body.String())
		}
		if tt.check != nil {
			tt.check(t, resp)
		}
	}
}

func TestHandleStream(t *testing.T) {
	h, _, sess := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + gamePath(sess, "/ws")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var first Response
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if first.ID != sess.ID.String() || first.Game.Rows != 3 {
		t.Fatalf("first frame = %+v", first)
	}

	if err := conn.WriteJSON(command{Action: "flag", X: 9, Y: 9}); err != nil {
		t.Fatal(err)
	}
	var failure map[string]string
	if err := conn.ReadJSON(&failure); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(failure["error"], "out of range") {
		t.Fatalf("error frame = %v", failure)
	}

	if err := conn.WriteJSON(command{Action: "dig", X: 2, Y: 2}); err != nil {
		t.Fatal(err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Game.IsGameClear {
		t.Fatalf("game = %+v", resp.Game)
	}

	if err := conn.WriteJSON(command{Action: "jump"}); err != nil {
		t.Fatal(err)
	}
	failure = nil
	if err := conn.ReadJSON(&failure); err != nil {
		t.Fatal(err)
	}
	if failure["error"] == "" {
		t.Fatal("unknown action accepted")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{session.ErrNotFound, http.StatusNotFound},
		{game.ErrTooManyMines, http.StatusBadRequest},
		{game.ErrCellDug, http.StatusConflict},
		{session.ErrNothingToUndo, http.StatusConflict},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
