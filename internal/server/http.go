package server

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof" // Profiling
	"time"

	"gridboard-server/internal/engine"
	"gridboard-server/internal/version"
	"gridboard-server/pkg/api"
	"gridboard-server/pkg/board"
	"gridboard-server/pkg/logger"

	"github.com/matryer/way"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Engine *engine.GameService
	Port   string

	router *way.Router
}

func New(engine *engine.GameService, port string) *Server {
	s := &Server{
		Engine: engine,
		Port:   port,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()

	s.router.HandleFunc("GET", "/health", enableCORS(s.handleHealth))
	s.router.HandleFunc("GET", "/version", enableCORS(s.handleVersion))
	s.router.HandleFunc("GET", "/levels/:level", enableCORS(s.handleLevel))
	s.router.HandleFunc("GET", "/levels/:level/ascii", enableCORS(s.handleLevelASCII))
	s.router.HandleFunc("GET", "/ws/:level", enableCORS(s.handleWS))
	s.router.HandleFunc("OPTIONS", "/...", enableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	debugHandler := NewDebugHandler(s.Engine)
	debugHandler.RegisterRoutes(s.router)
}

// Handler - роутер целиком (нужен тестам)
func (s *Server) Handler() http.Handler { return s.router }

// Run запускает HTTP сервер и гасит его по отмене ctx
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.Port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("GridBoard server running on :%s", s.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		// WebSocket-соединения Shutdown не закрывает, зрители узнают из уведомления
		s.Engine.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Log.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

// resolveLevel достает уровень по параметрам запроса.
// ?seed= строит уровень от другого мастер-сида, не трогая кэш.
func (s *Server) resolveLevel(w http.ResponseWriter, r *http.Request) (*engine.Level, bool) {
	req, err := api.ParseLevelRequest(way.Param(r.Context(), "level"), r.URL.Query().Get("seed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	var lvl *engine.Level
	if req.HasSeed {
		lvl, err = s.Engine.BuildOneOff(req.Level, req.Seed)
	} else {
		lvl, err = s.Engine.Level(req.Level)
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}
	return lvl, true
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.resolveLevel(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, api.LevelResponse{
		Summary: lvl.Summary(),
		Board:   api.NewBoardView(lvl.Board),
	})
}

func (s *Server) handleLevelASCII(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.resolveLevel(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(lvl.Board.String()))
}

// handleWS обрабатывает подключение зрителя по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	req, err := api.ParseLevelRequest(way.Param(r.Context(), "level"), "")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(s.Engine, conn, req.Level)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
	go client.watch()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidLevel), errors.Is(err, board.ErrInvalidDimension), errors.Is(err, board.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrUnknownLevel), errors.Is(err, engine.ErrNoWatch):
		return http.StatusNotFound
	case errors.Is(err, board.ErrPoolExhausted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
