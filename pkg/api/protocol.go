package api

import (
	"gridboard-server/pkg/board"
)

// Типы сообщений потока TurnUpdate
const (
	MessageBoard    = "BOARD" // первое сообщение: поле целиком
	MessageTurn     = "TURN"  // один ход робота
	MessageDone     = "DONE"  // прогон завершен
	MessageError    = "ERROR"
	MessageShutdown = "SHUTDOWN" // рассылается всем зрителям при остановке сервера
)

// --- СЕРВЕР -> КЛИЕНТ ---

// BoardView это DTO поля для рендера.
// Cells идут в порядке X, затем Y, включая внешнее кольцо.
type BoardView struct {
	Columns int        `json:"columns"`
	Rows    int        `json:"rows"`
	Cells   []CellView `json:"cells"`
}

// CellView - одна клетка
type CellView struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Kind   string `json:"kind"`
	Symbol string `json:"symbol"`
}

// NewBoardView собирает BoardView из поля
func NewBoardView(b *board.Board) *BoardView {
	cells := b.Cells()
	view := &BoardView{
		Columns: b.Columns(),
		Rows:    b.Rows(),
		Cells:   make([]CellView, len(cells)),
	}
	for i, c := range cells {
		view.Cells[i] = CellView{
			X:      c.Point.X,
			Y:      c.Point.Y,
			Kind:   c.Kind.String(),
			Symbol: string(c.Kind.Symbol()),
		}
	}
	return view
}

// LevelSummary - краткое описание сгенерированного уровня
type LevelSummary struct {
	Level    int            `json:"level"`
	Seed     uint64         `json:"seed"`
	Columns  int            `json:"columns"`
	Rows     int            `json:"rows"`
	Layout   string         `json:"layout"`
	Attempts int            `json:"attempts"`
	Counts   map[string]int `json:"counts"`

	ExitReachable bool `json:"exitReachable"`
}

// CountsView переводит Stats в map с именами типов
func CountsView(s board.Stats) map[string]int {
	out := make(map[string]int, len(s))
	for k, n := range s {
		out[k.String()] = n
	}
	return out
}

// RobotView - состояние одного робота
type RobotView struct {
	ID     int  `json:"id"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
	HasKey bool `json:"hasKey"`
	Energy int  `json:"energy"`
	Alive  bool `json:"alive"`
}

// EventView - событие хода (move, fork, food, key, death, exit)
type EventView struct {
	Tick    int    `json:"tick"`
	Kind    string `json:"kind"`
	RobotID int    `json:"robotId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// TurnUpdate - сообщение потока наблюдения за прогоном.
type TurnUpdate struct {
	// Type одно из MessageBoard, MessageTurn, MessageDone, MessageError, MessageShutdown
	Type   string `json:"type"`
	Level  int    `json:"level"`
	Tick   int    `json:"tick"`
	Status string `json:"status"`

	// Board приходит только в первом сообщении
	Board  *BoardView  `json:"board,omitempty"`
	Robots []RobotView `json:"robots,omitempty"`
	Events []EventView `json:"events,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// LevelResponse - ответ GET /levels/:level
type LevelResponse struct {
	Summary LevelSummary `json:"summary"`
	Board   *BoardView   `json:"board"`
}

// ErrorResponse - тело ответа об ошибке
type ErrorResponse struct {
	Error string `json:"error"`
}
