package server

import (
	"encoding/json"
	"net/http"

	"gridboard-server/internal/engine"
	"gridboard-server/pkg/api"

	"github.com/matryer/way"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(router *way.Router) {
	router.HandleFunc("GET", "/debug/levels", enableCORS(h.handleListLevels))
	router.HandleFunc("GET", "/debug/hub", enableCORS(h.handleHub))
	router.HandleFunc("GET", "/debug/queue/:level", enableCORS(h.handleTurnQueue))
	// pprof регистрируется в DefaultServeMux при импорте
	router.Handle("GET", "/debug/pprof/...", http.DefaultServeMux)
}

// /debug/levels - все сгенерированные уровни процесса
func (h *DebugHandler) handleListLevels(w http.ResponseWriter, r *http.Request) {
	// Пустой слайс, а не nil: в JSON это "[]", а не "null"
	summary := make([]api.LevelSummary, 0)
	for _, lvl := range h.Service.Levels() {
		summary = append(summary, lvl.Summary())
	}
	writeJSON(w, http.StatusOK, summary)
}

// /debug/hub - сколько зрителей подключено
func (h *DebugHandler) handleHub(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"subscribers": h.Service.Hub.SubscriberCount()})
}

// /debug/queue/:level - очереди ходов идущих прогонов уровня
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	req, err := api.ParseLevelRequest(way.Param(r.Context(), "level"), "")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dump, err := h.Service.QueueDump(req.Level)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, dump)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}
