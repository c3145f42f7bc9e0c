package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Jake-Purton/wasm-tt/ai"
	"github.com/Jake-Purton/wasm-tt/config"
	"github.com/Jake-Purton/wasm-tt/game"
	"github.com/Jake-Purton/wasm-tt/session"
	"github.com/Jake-Purton/wasm-tt/solver"
	"github.com/Jake-Purton/wasm-tt/viewmodel"
)

// Server はゲームの状態とHTTPハンドラを管理します
type Server struct {
	Store    *session.Store
	Log      logrus.FieldLogger
	Defaults config.BoardConfig
	Net      *ai.Network // nil ならBotはAIを使わない
}

// NewServer はサーバーインスタンスを初期化します
func NewServer(store *session.Store, log logrus.FieldLogger, defaults config.BoardConfig, net *ai.Network) *Server {
	return &Server{Store: store, Log: log, Defaults: defaults, Net: net}
}

// Routes はAPIと静的ファイルのルーティングを返します
func (s *Server) Routes(staticDir string) http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", s.HandleNew).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", s.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.HandleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/open", s.HandleOpen).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/flag", s.HandleFlag).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/bot", s.HandleBot).Methods(http.MethodPost)

	if staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}
	return r
}

// クライアントへのレスポンス用構造体
type Response struct {
	viewmodel.GameView
	Outcome  string       `json:"outcome,omitempty"`
	Revealed []game.Point `json:"revealed,omitempty"`
	Move     *solver.Move `json:"move,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleNew は新しいゲームを作るAPI
// ボディを省略すると既定の設定を使います
func (s *Server) HandleNew(w http.ResponseWriter, r *http.Request) {
	params := session.Params{
		Width:  s.Defaults.Width,
		Height: s.Defaults.Height,
		Mines:  s.Defaults.Mines,
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		s.sendError(w, fmt.Errorf("decode params: %w", errBadRequest))
		return
	}
	if err := s.Defaults.CheckSize(params.Width, params.Height); err != nil {
		s.sendError(w, err)
		return
	}

	g, err := s.Store.Create(params)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.Log.WithFields(logrus.Fields{
		"game":  g.ID,
		"size":  fmt.Sprintf("%dx%d", params.Width, params.Height),
		"mines": params.Mines,
	}).Info("game created")

	s.sendJSON(w, http.StatusCreated, Response{GameView: viewmodel.Build(g)})
}

// HandleGet は現在の盤面を返すAPI
func (s *Server) HandleGet(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *session.Game) (Response, error) {
		return Response{GameView: viewmodel.Build(g)}, nil
	})
}

// HandleDelete はゲームを削除するAPI
func (s *Server) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := s.Store.Delete(id); err != nil {
		s.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleOpen はマスを開けるAPI
func (s *Server) HandleOpen(w http.ResponseWriter, r *http.Request) {
	x, y, err := coords(r)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.withGame(w, r, func(g *session.Game) (Response, error) {
		out, err := g.Open(x, y)
		if err != nil {
			return Response{}, err
		}
		s.Log.WithFields(logrus.Fields{
			"game": g.ID, "x": x, "y": y,
			"outcome":  out.Kind,
			"revealed": len(out.Cells),
		}).Debug("cell opened")

		return Response{
			GameView: viewmodel.Build(g),
			Outcome:  out.Kind.String(),
			Revealed: out.Cells,
		}, nil
	})
}

// HandleFlag はフラッグを切り替えるAPI
func (s *Server) HandleFlag(w http.ResponseWriter, r *http.Request) {
	x, y, err := coords(r)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.withGame(w, r, func(g *session.Game) (Response, error) {
		if err := g.ToggleFlag(x, y); err != nil {
			return Response{}, err
		}
		return Response{GameView: viewmodel.Build(g)}, nil
	})
}

// HandleBot はBotに1手進めさせるAPI
func (s *Server) HandleBot(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *session.Game) (Response, error) {
		if g.Status() != session.StatusPlaying {
			return Response{}, session.ErrGameOver
		}

		bot := solver.New(g, s.Net, nil)
		move := bot.NextMove()
		if move == nil {
			return Response{GameView: viewmodel.Build(g)}, nil // 打つ手なし
		}
		if err := bot.Apply(move); err != nil {
			return Response{}, err
		}
		s.Log.WithFields(logrus.Fields{
			"game": g.ID, "x": move.X, "y": move.Y,
			"type":     move.Type,
			"strategy": move.Strategy,
		}).Debug("bot move")

		return Response{GameView: viewmodel.Build(g), Move: move}, nil
	})
}

// withGame はゲームをロックした状態で fn を実行し、結果を返します
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(g *session.Game) (Response, error)) {
	id, err := gameID(r)
	if err != nil {
		s.sendError(w, err)
		return
	}

	var resp Response
	err = s.Store.With(id, func(g *session.Game) error {
		var err error
		resp, err = fn(g)
		return err
	})
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, resp)
}

var errBadRequest = errors.New("bad request")

func gameID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("game id: %w", errBadRequest)
	}
	return id, nil
}

// coords はクエリの x, y を読みます（範囲チェックはエンジン側）
func coords(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	x, err := strconv.Atoi(q.Get("x"))
	if err != nil {
		return 0, 0, fmt.Errorf("x: %w", errBadRequest)
	}
	y, err := strconv.Atoi(q.Get("y"))
	if err != nil {
		return 0, 0, fmt.Errorf("y: %w", errBadRequest)
	}
	return x, y, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) sendError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.Log.WithError(err).Error("request failed")
	}
	s.sendJSON(w, code, errorResponse{Error: err.Error()})
}

// sendJSON はJSONでレスポンスを返します
func (s *Server) sendJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.WithError(err).Warn("encode response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.Log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}
