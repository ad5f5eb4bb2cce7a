package engine

import (
	"context"

	"gridboard-server/pkg/api"
	"gridboard-server/pkg/board"
	"gridboard-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// Status прогона
type Status int

const (
	StatusRunning Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

type EventKind string

const (
	EventSpawn EventKind = "spawn"
	EventMove  EventKind = "move"
	EventFork  EventKind = "fork"
	EventFood  EventKind = "food"
	EventKey   EventKind = "key"
	EventDeath EventKind = "death"
	EventExit  EventKind = "exit"
)

// TurnEvent - что произошло за ход
type TurnEvent struct {
	Tick    int
	Kind    EventKind
	RobotID int
	Pos     board.GridPoint
}

func (e TurnEvent) View() api.EventView {
	return api.EventView{
		Tick:    e.Tick,
		Kind:    string(e.Kind),
		RobotID: e.RobotID,
		X:       e.Pos.X,
		Y:       e.Pos.Y,
	}
}

// SessionConfig - параметры прогона
type SessionConfig struct {
	MoveCost   int
	FoodEnergy int
	// MaxTicks <= 0 - без ограничения
	MaxTicks int
}

// StartPoint - клетка появления первого робота
var StartPoint = board.Pt(0, 0)

// Session - один прогон роботов по копии поля.
// Не потокобезопасна: владеет ей одна горутина.
type Session struct {
	cfg     SessionConfig
	board   *board.Board
	turns   *TurnManager
	robots  []*Robot
	visited mapset.Set[visit]

	keyOnBoard  bool
	status      Status
	tick        int
	nextID      int
	spawnEvents []TurnEvent

	log *logrus.Entry
}

// NewSession готовит прогон. Исходное поле не меняется.
// Первый робот появляется в StartPoint, события появления приходят с первым Step.
func NewSession(b *board.Board, cfg SessionConfig) *Session {
	if cfg.MoveCost < 1 {
		cfg.MoveCost = 1
	}

	s := &Session{
		cfg:     cfg,
		board:   b.Clone(),
		turns:   NewTurnManager(),
		visited: mapset.New[visit](),
		status:  StatusRunning,
		log:     logger.Component("session"),
	}

	if kind, _ := s.board.Kind(StartPoint); !kind.Passable() || kind == board.Enemy {
		_ = s.board.Set(StartPoint, board.Floor)
	}
	s.keyOnBoard = s.board.Count(board.Key) > 0

	first := s.spawn(StartPoint, 0, false, 0, 0)
	s.spawnEvents = append(s.spawnEvents, TurnEvent{Tick: 0, Kind: EventSpawn, RobotID: first.ID, Pos: StartPoint})
	s.spawnEvents = append(s.spawnEvents, s.enter(first)...)
	s.settle()
	return s
}

// spawn создает робота и ставит его в очередь
func (s *Session) spawn(pos board.GridPoint, parent int, hasKey bool, energy, tick int) *Robot {
	s.nextID++
	r := &Robot{
		ID:       s.nextID,
		Pos:      pos,
		HasKey:   hasKey,
		Energy:   energy,
		Alive:    true,
		NextTick: tick,
		ParentID: parent,
	}
	s.robots = append(s.robots, r)
	s.turns.Add(r)
	return r
}

// enter применяет клетку, на которую встал робот
func (s *Session) enter(r *Robot) []TurnEvent {
	s.visited.Put(visit{Point: r.Pos, HasKey: r.HasKey})

	var events []TurnEvent
	kind, _ := s.board.Kind(r.Pos)
	switch kind {
	case board.Food:
		r.Energy += s.cfg.FoodEnergy
		_ = s.board.Set(r.Pos, board.Floor)
		events = append(events, TurnEvent{Tick: s.tick, Kind: EventFood, RobotID: r.ID, Pos: r.Pos})
	case board.Key:
		r.HasKey = true
		_ = s.board.Set(r.Pos, board.Floor)
		s.visited.Put(visit{Point: r.Pos, HasKey: true})
		events = append(events, TurnEvent{Tick: s.tick, Kind: EventKey, RobotID: r.ID, Pos: r.Pos})
	case board.Exit:
		if r.HasKey || !s.keyOnBoard {
			s.status = StatusWon
			events = append(events, TurnEvent{Tick: s.tick, Kind: EventExit, RobotID: r.ID, Pos: r.Pos})
		}
	}
	return events
}

// openDirections - соседи в порядке board.Directions, куда робот еще может пойти
func (s *Session) openDirections(r *Robot) []board.GridPoint {
	var open []board.GridPoint
	for _, p := range r.Pos.Neighbors() {
		kind, ok := s.board.Kind(p)
		if !ok || !kind.Passable() || kind == board.Enemy {
			continue
		}
		if s.visited.Has(visit{Point: p, HasKey: r.HasKey}) {
			continue
		}
		open = append(open, p)
	}
	return open
}

// settle завершает прогон, если ходить больше некому
func (s *Session) settle() {
	if s.status == StatusRunning && s.turns.Len() == 0 {
		s.status = StatusLost
	}
	if s.status != StatusRunning {
		s.log.WithFields(logrus.Fields{
			"status": s.status,
			"tick":   s.tick,
			"robots": len(s.robots),
		}).Info("Session finished")
	}
}

// Step делает ход следующего по очереди робота и возвращает его события.
// Первый робот ходит прямо в первую свободную сторону, в каждую из остальных
// уходит клон с тем же ключом и энергией.
func (s *Session) Step() []TurnEvent {
	events := s.spawnEvents
	s.spawnEvents = nil
	if s.Done() {
		return events
	}

	item := s.turns.PeekNext()
	r := item.Value
	s.tick = item.Priority
	if s.cfg.MaxTicks > 0 && s.tick > s.cfg.MaxTicks {
		s.turns.Remove(r.ID)
		s.status = StatusLost
		s.settle()
		return events
	}

	open := s.openDirections(r)
	if len(open) == 0 {
		r.Alive = false
		s.turns.Remove(r.ID)
		events = append(events, TurnEvent{Tick: s.tick, Kind: EventDeath, RobotID: r.ID, Pos: r.Pos})
		s.settle()
		return events
	}

	next := s.tick + s.cfg.MoveCost
	r.Pos = open[0]
	r.NextTick = next
	events = append(events, TurnEvent{Tick: s.tick, Kind: EventMove, RobotID: r.ID, Pos: r.Pos})
	events = append(events, s.enter(r)...)

	for _, p := range open[1:] {
		if s.status != StatusRunning {
			break
		}
		clone := s.spawn(p, r.ID, r.HasKey, r.Energy, next)
		events = append(events, TurnEvent{Tick: s.tick, Kind: EventFork, RobotID: clone.ID, Pos: p})
		events = append(events, s.enter(clone)...)
	}

	s.turns.Reschedule(r)
	s.settle()
	return events
}

// Run крутит Step до конца прогона или отмены ctx.
// onStep, если задан, получает события каждого хода.
func (s *Session) Run(ctx context.Context, onStep func([]TurnEvent)) (Status, error) {
	for !s.Done() || s.pending() {
		if err := ctx.Err(); err != nil {
			return s.status, err
		}
		events := s.Step()
		if onStep != nil {
			onStep(events)
		}
	}
	return s.status, nil
}

func (s *Session) Done() bool { return s.status != StatusRunning }

// pending - есть события появления, еще не отданные через Step
func (s *Session) pending() bool { return len(s.spawnEvents) > 0 }

func (s *Session) Status() Status { return s.status }

func (s *Session) Tick() int { return s.tick }

// Board - текущее состояние копии поля (еда и ключ съедаются)
func (s *Session) Board() *board.Board { return s.board }

// Robots - снимок всех роботов, включая погибших, в порядке появления
func (s *Session) Robots() []Robot {
	out := make([]Robot, len(s.robots))
	for i, r := range s.robots {
		out[i] = *r
	}
	return out
}

// Queue - снимок очереди ходов (для /debug/queue)
func (s *Session) Queue() []map[string]any { return s.turns.DebugDump() }

// RobotViews - то же в виде DTO
func (s *Session) RobotViews() []api.RobotView {
	out := make([]api.RobotView, len(s.robots))
	for i, r := range s.robots {
		out[i] = r.View()
	}
	return out
}
