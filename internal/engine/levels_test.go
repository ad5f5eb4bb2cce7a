package engine

import (
	"errors"
	"testing"

	"gridboard-server/internal/storage"
	"gridboard-server/pkg/board"
	"gridboard-server/pkg/maze"
	"gridboard-server/pkg/utils"
)

func TestEnemyCount(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 2}, {7, 2}, {8, 3}, {1000, 9},
	}
	for _, tt := range tests {
		if got := EnemyCount(tt.level); got != tt.want {
			t.Errorf("EnemyCount(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLevelConfigFor(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 99

	lc, err := LevelConfigFor(cfg, 4)
	if err != nil {
		t.Fatalf("LevelConfigFor: %v", err)
	}
	if lc.Seed != utils.LevelSeed(99, 4) {
		t.Errorf("unexpected seed %d", lc.Seed)
	}
	if lc.EnemyRange != board.Exactly(2) {
		t.Errorf("unexpected enemy range %v", lc.EnemyRange)
	}
	if len(lc.Fixed) != 1 || lc.Fixed[0].Kind != board.Key || lc.Fixed[0].Count != 1 {
		t.Errorf("unexpected fixed placements %+v", lc.Fixed)
	}
	if lc.Layout != nil {
		t.Errorf("expected no layout, got %s", lc.LayoutName())
	}

	if _, err := LevelConfigFor(cfg, 0); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel, got %v", err)
	}

	cfg.Layout = "spiral"
	if _, err := LevelConfigFor(cfg, 1); !errors.Is(err, maze.ErrUnknownLayout) {
		t.Errorf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestBuildLevel_KeyAndExit(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 2024

	for level := 1; level <= 20; level++ {
		lvl, err := BuildLevel(cfg, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if lvl.Stats[board.Key] != 1 {
			t.Errorf("level %d: expected 1 key, got %d", level, lvl.Stats[board.Key])
		}
		if kind, _ := lvl.Board.Kind(board.Pt(7, 7)); kind != board.Exit {
			t.Errorf("level %d: exit missing, got %s", level, kind)
		}
		if lvl.Attempts != 1 {
			t.Errorf("level %d: unexpected retries %d", level, lvl.Attempts)
		}
	}
}

func TestBuildLevel_Deterministic(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 5
	cfg.Layout = maze.NameBacktracker
	cfg.LoopChance = 0.2

	a, err := BuildLevel(cfg, 3)
	if err != nil {
		t.Fatalf("BuildLevel: %v", err)
	}
	b, _ := BuildLevel(cfg, 3)
	if !a.Board.Equal(b.Board) {
		t.Error("same master seed and level must give the same board")
	}

	c, _ := BuildLevel(cfg, 4)
	if a.Board.Equal(c.Board) {
		t.Error("different levels produced identical boards")
	}
}

func TestBuildLevel_RelaxesOnExhaustion(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 1
	cfg.Columns, cfg.Rows = 2, 2
	cfg.WallRange = board.Exactly(8)
	cfg.ItemRange = board.Exactly(0)

	cfg.MaxAttempts = 1
	if _, err := BuildLevel(cfg, 1); !errors.Is(err, board.ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}

	cfg.MaxAttempts = 3
	lvl, err := BuildLevel(cfg, 1)
	if err != nil {
		t.Fatalf("BuildLevel: %v", err)
	}
	if lvl.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", lvl.Attempts)
	}
	if lvl.Config.WallRange != board.Exactly(4) {
		t.Errorf("expected relaxed wall range [4..4], got %v", lvl.Config.WallRange)
	}
}

func TestBuildLevel_OtherErrorsNotRetried(t *testing.T) {
	cfg := NewConfig()
	cfg.Columns = 0

	if _, err := BuildLevel(cfg, 1); !errors.Is(err, board.ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestLevelFromRecord(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 77
	cfg.Layout = maze.NamePrim

	lvl, err := BuildLevel(cfg, 6)
	if err != nil {
		t.Fatalf("BuildLevel: %v", err)
	}

	svc := storage.NewRecordService(t.TempDir())
	path, err := svc.Save(lvl.Record())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec, err := svc.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	again, err := LevelFromRecord(rec)
	if err != nil {
		t.Fatalf("LevelFromRecord: %v", err)
	}
	if !again.Board.Equal(lvl.Board) {
		t.Error("rebuilt board differs")
	}

	rec.Counts.Food++
	if _, err := LevelFromRecord(rec); !errors.Is(err, ErrRecordMismatch) {
		t.Errorf("expected ErrRecordMismatch, got %v", err)
	}
}

func TestBuildLevel_MazeExitReachable(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 11
	cfg.Layout = maze.NamePrim
	cfg.WallRange = board.Exactly(0)

	for level := 1; level <= 5; level++ {
		lvl, err := BuildLevel(cfg, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if !lvl.ExitReachable || !lvl.Summary().ExitReachable {
			t.Errorf("level %d: exit should be reachable through the maze", level)
		}
	}
}
