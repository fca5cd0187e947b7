package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"minesweeper/ai"
	"minesweeper/config"
	"minesweeper/game"
	"minesweeper/session"
	"minesweeper/solver"
	"minesweeper/viewmodel"
)

var errNoMove = errors.New("no move left")

// Server はゲームのセッションを HTTP と WebSocket で公開します
type Server struct {
	cfg      config.Config
	store    *session.Store
	log      *logrus.Logger
	net      *ai.Network // 重みが設定されていなければ nil
	upgrader websocket.Upgrader
}

func New(cfg config.Config, store *session.Store, log *logrus.Logger, net *ai.Network) *Server {
	return &Server{
		cfg:   cfg,
		store: store,
		log:   log,
		net:   net,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// クライアントへのレスポンス用構造体
type Response struct {
	ID   string             `json:"id"`
	Game viewmodel.GameView `json:"game"`
	Move *MoveView          `json:"move,omitempty"`
}

// MoveView は bot が打った手
type MoveView struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Type       string  `json:"type"`
	Strategy   string  `json:"strategy"`
	Confidence float64 `json:"confidence"`
	IsGuess    bool    `json:"is_guess"`
}

// Routes はルーティングを設定したハンドラを返します
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/games", s.HandleNew)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", s.HandleGet)
			r.Delete("/", s.HandleDelete)
			r.Post("/dig", s.HandleAction(game.Dig))
			r.Post("/flag", s.HandleAction(game.Flag))
			r.Post("/undo", s.HandleUndo)
			r.Post("/restart", s.HandleRestart)
			r.Post("/bot", s.HandleBot)
			r.Get("/ws", s.HandleStream)
		})
	})

	r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	return r
}

// HandleNew は新しいゲームを開始するAPI。
// rows, columns, mines の省略時は設定値を使い、rows と columns は上限に丸めます
func (s *Server) HandleNew(w http.ResponseWriter, r *http.Request) {
	rows := clamp(parseIntParam(r, "rows", s.cfg.Rows), 1, s.cfg.MaxRows)
	columns := clamp(parseIntParam(r, "columns", s.cfg.Columns), 1, s.cfg.MaxColumns)
	mines := parseIntParam(r, "mines", s.cfg.Mines)

	sess, err := s.store.Create(session.Params{Rows: rows, Columns: columns, Mines: mines})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"rows":    rows,
		"columns": columns,
		"mines":   mines,
	}).Info("game started")
	respondJSON(w, http.StatusCreated, response(sess.ID, sess.Grid(), nil))
}

func (s *Server) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, response(sess.ID, sess.Grid(), nil))
}

func (s *Server) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(sess.ID); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAction はクエリの x, y のマスに action を適用するAPI
func (s *Server) HandleAction(action game.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		x, errX := strconv.Atoi(r.URL.Query().Get("x"))
		y, errY := strconv.Atoi(r.URL.Query().Get("y"))
		if errX != nil || errY != nil {
			respondMessage(w, http.StatusBadRequest, "x and y must be integers")
			return
		}
		s.reply(w, sess, command{Action: action.String(), X: x, Y: y})
	}
}

func (s *Server) HandleUndo(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		s.reply(w, sess, command{Action: "undo"})
	}
}

func (s *Server) HandleRestart(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		s.reply(w, sess, command{Action: "restart"})
	}
}

func (s *Server) HandleBot(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		s.reply(w, sess, command{Action: "bot"})
	}
}

func (s *Server) reply(w http.ResponseWriter, sess *session.Session, cmd command) {
	resp, err := s.execute(sess, cmd)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// command はセッションへの1回の操作（HTTP でも WebSocket でも同じ）
type command struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func (s *Server) execute(sess *session.Session, cmd command) (Response, error) {
	var (
		g    game.Grid
		move *MoveView
		err  error
	)
	switch cmd.Action {
	case "undo":
		g, err = sess.Undo()
	case "restart":
		g, err = sess.Restart()
	case "bot":
		g, move, err = s.botStep(sess)
	default:
		var action game.Action
		if action, err = game.ParseAction(cmd.Action); err != nil {
			return Response{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		g = sess.Grid()
		if !g.Contains(cmd.X, cmd.Y) {
			return Response{}, fmt.Errorf("%w: (%d,%d)", game.ErrOutOfRange, cmd.X, cmd.Y)
		}
		g, err = sess.Act(g.Index(cmd.X, cmd.Y), action)
	}
	if err != nil {
		return Response{}, err
	}

	entry := s.log.WithFields(logrus.Fields{"session": sess.ID, "action": cmd.Action})
	if cmd.Action == "dig" || cmd.Action == "flag" {
		entry = entry.WithFields(logrus.Fields{"x": cmd.X, "y": cmd.Y})
	}
	switch game.State(g) {
	case game.Won:
		entry.Info("game won")
	case game.Lost:
		entry.Info("game lost")
	default:
		entry.Debug("move played")
	}
	return response(sess.ID, g, move), nil
}

func (s *Server) botStep(sess *session.Session) (game.Grid, *MoveView, error) {
	var opts []solver.Option
	if s.net != nil {
		opts = append(opts, solver.WithNetwork(s.net))
	}
	// 手の選択と適用は同じロックの中で行う
	var m *solver.Move
	g, err := sess.Step(func(g game.Grid) (int, game.Action, error) {
		if m = solver.New(g, opts...).NextMove(); m == nil {
			return 0, 0, errNoMove
		}
		return m.Index(g.Columns()), m.Action(), nil
	})
	if err != nil {
		return g, nil, err
	}
	return g, &MoveView{
		X:          m.X,
		Y:          m.Y,
		Type:       m.Type.String(),
		Strategy:   m.Strategy,
		Confidence: m.Confidence,
		IsGuess:    m.IsGuess,
	}, nil
}

// session は URL の {id} からセッションを取得します。
// 見つからなければエラーレスポンスを書いて false を返します
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid game id")
		return nil, false
	}
	sess, err := s.store.Get(id)
	if err != nil {
		s.respondError(w, err)
		return nil, false
	}
	return sess, true
}

func response(id uuid.UUID, g game.Grid, move *MoveView) Response {
	return Response{ID: id.String(), Game: viewmodel.New(g), Move: move}
}

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrConstruction),
		errors.Is(err, game.ErrOutOfRange),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, session.ErrGameOver),
		errors.Is(err, session.ErrNothingToUndo),
		errors.Is(err, errNoMove):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	respondMessage(w, status, err.Error())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// parseIntParam はクエリパラメータを整数で返します。ない・不正なら defaultVal
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
