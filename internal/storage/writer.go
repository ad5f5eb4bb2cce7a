package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

const (
	MagicHeader string = `GBLR` // 4 байта
	Version1    uint32 = 1

	maxLayoutLen = 255
)

// RecordFileHeader - точное представление заголовка файла.
// binary.Write пишет его целиком: тут нет слайсов и строк, только массивы и числа.
type RecordFileHeader struct {
	Magic      [4]byte // 4
	Version    uint32  // 4
	Seed       uint64  // 8
	Timestamp  int64   // 8
	Level      int32   // 4
	Columns    int32   // 4
	Rows       int32   // 4
	WallMin    int32   // 4
	WallMax    int32   // 4
	ItemMin    int32   // 4
	ItemMax    int32   // 4
	EnemyMin   int32   // 4
	EnemyMax   int32   // 4
	LoopChance uint64  // 8, math.Float64bits
	Attempts   uint8   // 1
	LayoutLen  uint8   // 1
}

// CountsBlock идет сразу после заголовка, затем байты имени раскладки
type CountsBlock struct {
	Walls   int32
	Food    int32
	Enemies int32
	Keys    int32
	Exits   int32
}

type RecordService struct {
	SaveDir string
}

func NewRecordService(dir string) *RecordService {
	return &RecordService{SaveDir: dir}
}

// Save пишет запись в SaveDir и возвращает путь к файлу
func (s *RecordService) Save(rec *LevelRecord) (string, error) {
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return "", fmt.Errorf("create record dir: %w", err)
	}

	filename := fmt.Sprintf("level_%d_lvl%d_%d.gblr", rec.Seed, rec.Level, rec.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := writeAndClose(f, rec); err != nil {
		// недописанный файл не должен попасть в реплеи
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// writeAndClose пишет запись и закрывает w. Ошибка Close возвращается:
// на буферизованной ФС это может быть первая ошибка записи.
func writeAndClose(w io.WriteCloser, rec *LevelRecord) error {
	if err := writeBinary(w, rec); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close record: %w", err)
	}
	return nil
}

func writeBinary(w io.Writer, rec *LevelRecord) error {
	layout := []byte(rec.Layout)
	if len(layout) > maxLayoutLen {
		return fmt.Errorf("layout name too long: %d", len(layout))
	}
	if rec.Attempts < 0 || rec.Attempts > math.MaxUint8 {
		return fmt.Errorf("attempts out of range: %d", rec.Attempts)
	}

	// 1. Заголовок
	header := RecordFileHeader{
		Version:    Version1,
		Seed:       rec.Seed,
		Timestamp:  rec.Timestamp,
		Level:      int32(rec.Level),
		Columns:    int32(rec.Columns),
		Rows:       int32(rec.Rows),
		WallMin:    int32(rec.WallRange.Min),
		WallMax:    int32(rec.WallRange.Max),
		ItemMin:    int32(rec.ItemRange.Min),
		ItemMax:    int32(rec.ItemRange.Max),
		EnemyMin:   int32(rec.EnemyRange.Min),
		EnemyMax:   int32(rec.EnemyRange.Max),
		LoopChance: math.Float64bits(rec.LoopChance),
		Attempts:   uint8(rec.Attempts),
		LayoutLen:  uint8(len(layout)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Итоговые количества
	counts := CountsBlock{
		Walls:   int32(rec.Counts.Walls),
		Food:    int32(rec.Counts.Food),
		Enemies: int32(rec.Counts.Enemies),
		Keys:    int32(rec.Counts.Keys),
		Exits:   int32(rec.Counts.Exits),
	}
	if err := binary.Write(w, binary.LittleEndian, &counts); err != nil {
		return fmt.Errorf("failed to write counts: %w", err)
	}

	// 3. Имя раскладки
	if len(layout) > 0 {
		if _, err := w.Write(layout); err != nil {
			return err
		}
	}
	return nil
}
