package api

import (
	"errors"
	"testing"

	"gridboard-server/pkg/board"
)

func TestParseLevelRequest(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		seed    string
		want    LevelRequest
		wantErr bool
	}{
		{name: "level only", level: "3", want: LevelRequest{Level: 3}},
		{name: "with seed", level: "1", seed: "42", want: LevelRequest{Level: 1, Seed: 42, HasSeed: true}},
		{name: "zero level", level: "0", wantErr: true},
		{name: "not a number", level: "abc", wantErr: true},
		{name: "negative seed", level: "2", seed: "-1", wantErr: true},
		{name: "too deep", level: "70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevelRequest(tt.level, tt.seed)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Fatalf("expected ErrInvalidRequest, got %v (%+v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// rangeRequest - сторонний DTO, проверяемый через Validate
type rangeRequest struct{ From, To int }

func (r rangeRequest) Validate() error {
	if r.From > r.To {
		return errors.New("from must be <= to")
	}
	return nil
}

func TestValidate(t *testing.T) {
	if err := Validate(rangeRequest{From: 1, To: 2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := Validate(rangeRequest{From: 3, To: 2})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}

	var v Validator = LevelRequest{Level: 0}
	if err := Validate(v); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("level 0 must be rejected, got %v", err)
	}
}

func TestNewBoardView(t *testing.T) {
	b, _ := board.BuildBorderedGrid(2, 2)
	_ = b.Set(board.Pt(1, 1), board.Exit)

	view := NewBoardView(b)
	if view.Columns != 2 || view.Rows != 2 {
		t.Fatalf("unexpected size %dx%d", view.Columns, view.Rows)
	}
	if len(view.Cells) != 16 {
		t.Fatalf("expected 16 cells, got %d", len(view.Cells))
	}

	first := view.Cells[0]
	if first.X != -1 || first.Y != -1 || first.Kind != "outer_wall" || first.Symbol != "#" {
		t.Errorf("unexpected first cell %+v", first)
	}

	found := false
	for _, c := range view.Cells {
		if c.X == 1 && c.Y == 1 {
			found = c.Kind == "exit" && c.Symbol == "E"
		}
	}
	if !found {
		t.Error("exit cell not rendered")
	}
}
