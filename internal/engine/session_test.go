package engine

import (
	"context"
	"errors"
	"slices"
	"testing"

	"gridboard-server/pkg/board"
)

// Helper: поле без случайных предметов, клетки задаются вручную
func handBoard(t *testing.T, columns, rows int, cells map[board.GridPoint]board.CellKind) *board.Board {
	t.Helper()
	b, err := board.BuildBorderedGrid(columns, rows)
	if err != nil {
		t.Fatalf("BuildBorderedGrid: %v", err)
	}
	for p, k := range cells {
		if err := b.Set(p, k); err != nil {
			t.Fatalf("Set %s: %v", p, err)
		}
	}
	return b
}

func testSessionConfig() SessionConfig {
	return SessionConfig{MoveCost: 1, FoodEnergy: 10, MaxTicks: 100}
}

func kinds(events []TurnEvent) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestSession_CorridorToExit(t *testing.T) {
	b := handBoard(t, 3, 1, map[board.GridPoint]board.CellKind{board.Pt(2, 0): board.Exit})
	s := NewSession(b, testSessionConfig())

	first := s.Step()
	if want := []EventKind{EventSpawn, EventMove}; !slices.Equal(kinds(first), want) {
		t.Fatalf("first step events %v, want %v", kinds(first), want)
	}
	if s.Done() {
		t.Fatal("session finished too early")
	}

	second := s.Step()
	if want := []EventKind{EventMove, EventExit}; !slices.Equal(kinds(second), want) {
		t.Fatalf("second step events %v, want %v", kinds(second), want)
	}
	if s.Status() != StatusWon {
		t.Errorf("expected won, got %s", s.Status())
	}
	if s.Tick() != 1 {
		t.Errorf("expected tick 1, got %d", s.Tick())
	}
}

func TestSession_ExitNeedsKey(t *testing.T) {
	// Выход посередине, ключ в тупике справа: робот проходит выход, берет ключ и возвращается
	b := handBoard(t, 3, 1, map[board.GridPoint]board.CellKind{
		board.Pt(1, 0): board.Exit,
		board.Pt(2, 0): board.Key,
	})
	s := NewSession(b, testSessionConfig())

	s.Step()
	if s.Done() {
		t.Fatal("exit without key must not win")
	}

	keyStep := s.Step()
	if !slices.Contains(kinds(keyStep), EventKey) {
		t.Fatalf("expected key event, got %v", kinds(keyStep))
	}
	if kind, _ := s.Board().Kind(board.Pt(2, 0)); kind != board.Floor {
		t.Errorf("key cell should become floor, got %s", kind)
	}

	last := s.Step()
	if !slices.Contains(kinds(last), EventExit) || s.Status() != StatusWon {
		t.Fatalf("expected win after returning with key, got %v (%s)", kinds(last), s.Status())
	}
	if !s.Robots()[0].HasKey {
		t.Error("robot should carry the key")
	}
}

func TestSession_EnemyBlocksPath(t *testing.T) {
	b := handBoard(t, 3, 1, map[board.GridPoint]board.CellKind{
		board.Pt(1, 0): board.Enemy,
		board.Pt(2, 0): board.Exit,
	})
	s := NewSession(b, testSessionConfig())

	events := s.Step()
	if want := []EventKind{EventSpawn, EventDeath}; !slices.Equal(kinds(events), want) {
		t.Fatalf("events %v, want %v", kinds(events), want)
	}
	if s.Status() != StatusLost {
		t.Errorf("expected lost, got %s", s.Status())
	}
	if s.Robots()[0].Alive {
		t.Error("robot should be dead")
	}
}

func TestSession_ForkSpawnsClones(t *testing.T) {
	b := handBoard(t, 3, 3, nil)
	s := NewSession(b, testSessionConfig())

	events := s.Step()
	if want := []EventKind{EventSpawn, EventMove, EventFork}; !slices.Equal(kinds(events), want) {
		t.Fatalf("events %v, want %v", kinds(events), want)
	}

	robots := s.Robots()
	if len(robots) != 2 {
		t.Fatalf("expected 2 robots, got %d", len(robots))
	}
	// Первая свободная сторона - вверх, клон уходит вправо
	if robots[0].Pos != board.Pt(0, 1) {
		t.Errorf("robot 1 at %s, want (0,1)", robots[0].Pos)
	}
	if robots[1].Pos != board.Pt(1, 0) || robots[1].ParentID != robots[0].ID {
		t.Errorf("unexpected clone %+v", robots[1])
	}
	if robots[1].NextTick != 1 {
		t.Errorf("clone should act at tick 1, got %d", robots[1].NextTick)
	}
}

func TestSession_QueueSnapshot(t *testing.T) {
	b := handBoard(t, 3, 3, nil)
	s := NewSession(b, testSessionConfig())

	if q := s.Queue(); len(q) != 1 || q[0]["id"] != 1 || q[0]["priority"] != 0 {
		t.Fatalf("unexpected initial queue %v", q)
	}

	s.Step()
	q := s.Queue()
	if len(q) != 2 {
		t.Fatalf("expected robot and clone in queue, got %v", q)
	}
	// на равном тике клон ходит раньше родителя
	if q[0]["id"] != 2 || q[0]["priority"] != 1 {
		t.Errorf("unexpected queue head %v", q[0])
	}

	if events := s.Step(); len(events) == 0 || events[0].RobotID != 2 {
		t.Errorf("expected clone to move next, got %+v", events)
	}
}

func TestSession_CloneInheritsKey(t *testing.T) {
	b := handBoard(t, 2, 2, map[board.GridPoint]board.CellKind{board.Pt(0, 0): board.Key})
	s := NewSession(b, testSessionConfig())

	events := s.Step()
	if want := []EventKind{EventSpawn, EventKey, EventMove, EventFork}; !slices.Equal(kinds(events), want) {
		t.Fatalf("events %v, want %v", kinds(events), want)
	}
	for _, r := range s.Robots() {
		if !r.HasKey {
			t.Errorf("robot %d has no key", r.ID)
		}
	}
}

func TestSession_StartAndFood(t *testing.T) {
	b := handBoard(t, 2, 1, map[board.GridPoint]board.CellKind{
		board.Pt(0, 0): board.Wall,
		board.Pt(1, 0): board.Food,
	})
	s := NewSession(b, testSessionConfig())

	if kind, _ := s.Board().Kind(StartPoint); kind != board.Floor {
		t.Errorf("start should be forced to floor, got %s", kind)
	}
	if kind, _ := b.Kind(StartPoint); kind != board.Wall {
		t.Errorf("source board must not change, got %s", kind)
	}

	events := s.Step()
	if !slices.Contains(kinds(events), EventFood) {
		t.Fatalf("expected food event, got %v", kinds(events))
	}
	if got := s.Robots()[0].Energy; got != 10 {
		t.Errorf("expected energy 10, got %d", got)
	}
	if kind, _ := b.Kind(board.Pt(1, 0)); kind != board.Food {
		t.Errorf("source food eaten, got %s", kind)
	}
}

func TestSession_SingleCellExit(t *testing.T) {
	b := handBoard(t, 1, 1, map[board.GridPoint]board.CellKind{board.Pt(0, 0): board.Exit})
	s := NewSession(b, testSessionConfig())
	if !s.Done() || s.Status() != StatusWon {
		t.Fatalf("expected immediate win, got %s", s.Status())
	}

	var got []EventKind
	status, err := s.Run(context.Background(), func(events []TurnEvent) {
		got = append(got, kinds(events)...)
	})
	if err != nil || status != StatusWon {
		t.Fatalf("Run: %s %v", status, err)
	}
	if want := []EventKind{EventSpawn, EventExit}; !slices.Equal(got, want) {
		t.Errorf("events %v, want %v", got, want)
	}
}

func TestSession_MaxTicks(t *testing.T) {
	b := handBoard(t, 8, 8, nil)
	s := NewSession(b, SessionConfig{MoveCost: 1, MaxTicks: 2})

	status, err := s.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != StatusLost {
		t.Errorf("expected lost, got %s", status)
	}
	if s.Tick() > 3 {
		t.Errorf("ran past the limit: tick %d", s.Tick())
	}
}

func TestSession_Cancelled(t *testing.T) {
	b := handBoard(t, 8, 8, nil)
	s := NewSession(b, testSessionConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSession_GeneratedLevelFinishes(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 7

	for level := 1; level <= 10; level++ {
		lvl, err := BuildLevel(cfg, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}

		var a, b []TurnEvent
		sa := NewSession(lvl.Board, cfg.SessionConfig())
		sb := NewSession(lvl.Board, cfg.SessionConfig())
		statusA, _ := sa.Run(context.Background(), func(e []TurnEvent) { a = append(a, e...) })
		statusB, _ := sb.Run(context.Background(), func(e []TurnEvent) { b = append(b, e...) })

		if statusA == StatusRunning {
			t.Fatalf("level %d: session did not finish", level)
		}
		if statusA != statusB || !slices.Equal(a, b) {
			t.Errorf("level %d: runs differ", level)
		}
	}
}
