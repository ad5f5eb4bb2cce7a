package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridboard-server/pkg/board"
)

func sampleRecord() *LevelRecord {
	return &LevelRecord{
		Level:      4,
		Seed:       0xDEADBEEFCAFEF00D,
		Timestamp:  1760000000,
		Columns:    11,
		Rows:       9,
		WallRange:  board.Range{Min: 5, Max: 9},
		ItemRange:  board.Range{Min: 1, Max: 5},
		EnemyRange: board.Exactly(2),
		Layout:     "prim",
		LoopChance: 0.125,
		Attempts:   2,
		Counts:     Counts{Walls: 47, Food: 3, Enemies: 2, Keys: 1, Exits: 1},
	}
}

func TestRecordService_SaveLoad(t *testing.T) {
	svc := NewRecordService(filepath.Join(t.TempDir(), "records"))
	rec := sampleRecord()

	path, err := svc.Save(rec)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(path, ".gblr") {
		t.Errorf("unexpected file name %s", path)
	}

	loaded, err := svc.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *rec {
		t.Errorf("loaded record differs:\n got %+v\nwant %+v", *loaded, *rec)
	}
}

func TestReadBinary_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := writeBinary(&buf, sampleRecord()); err != nil {
		t.Fatal(err)
	}
	valid := buf.Bytes()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }, ErrInvalidMagic},
		{"bad version", func(b []byte) []byte { b[4] = 9; return b }, ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(bytes.Clone(valid))
			if _, err := readBinary(bytes.NewReader(data)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("truncated", func(t *testing.T) {
		if _, err := readBinary(bytes.NewReader(valid[:len(valid)-2])); err == nil {
			t.Error("truncated record must fail")
		}
	})
}

func TestWriteBinary_LayoutTooLong(t *testing.T) {
	rec := sampleRecord()
	rec.Layout = strings.Repeat("a", 256)

	var buf bytes.Buffer
	if err := writeBinary(&buf, rec); err == nil {
		t.Error("expected error for a 256-byte layout name")
	}
}

func TestCountsOf(t *testing.T) {
	b, _ := board.BuildBorderedGrid(3, 3)
	_ = b.Set(board.Pt(0, 0), board.Wall)
	_ = b.Set(board.Pt(1, 0), board.Food)
	_ = b.Set(board.Pt(2, 2), board.Exit)

	got := CountsOf(b)
	want := Counts{Walls: 1, Food: 1, Exits: 1}
	if got != want {
		t.Errorf("CountsOf = %+v, want %+v", got, want)
	}
}

// closeRecorder - приемник записи с заданной ошибкой Close
type closeRecorder struct {
	bytes.Buffer
	err    error
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return c.err
}

func TestWriteAndClose_CloseError(t *testing.T) {
	errFlush := errors.New("flush failed")
	w := &closeRecorder{err: errFlush}

	if err := writeAndClose(w, sampleRecord()); !errors.Is(err, errFlush) {
		t.Fatalf("expected close error, got %v", err)
	}
	if w.closed != 1 {
		t.Errorf("expected one Close, got %d", w.closed)
	}
}

func TestWriteAndClose_WriteErrorStillCloses(t *testing.T) {
	rec := sampleRecord()
	rec.Layout = strings.Repeat("a", 256)
	w := &closeRecorder{}

	if err := writeAndClose(w, rec); err == nil {
		t.Fatal("expected write error")
	}
	if w.closed != 1 {
		t.Errorf("writer must be closed on failure, got %d closes", w.closed)
	}
}

func TestRecordService_SaveFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewRecordService(dir)
	rec := sampleRecord()
	rec.Layout = strings.Repeat("a", 256)

	if _, err := svc.Save(rec); err == nil {
		t.Fatal("expected error for a 256-byte layout name")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("partial record left behind: %v", entries)
	}
}
