package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gridboard-server/pkg/board"
)

var (
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
)

func (s *RecordService) Load(path string) (*LevelRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (*LevelRecord, error) {
	// 1. Читаем заголовок целиком
	var header RecordFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}

	// 2. Количества
	var counts CountsBlock
	if err := binary.Read(r, binary.LittleEndian, &counts); err != nil {
		return nil, fmt.Errorf("failed to read counts: %w", err)
	}

	// 3. Имя раскладки
	layout := make([]byte, header.LayoutLen)
	if _, err := io.ReadFull(r, layout); err != nil {
		return nil, fmt.Errorf("failed to read layout name: %w", err)
	}

	return &LevelRecord{
		Level:      int(header.Level),
		Seed:       header.Seed,
		Timestamp:  header.Timestamp,
		Columns:    int(header.Columns),
		Rows:       int(header.Rows),
		WallRange:  board.Range{Min: int(header.WallMin), Max: int(header.WallMax)},
		ItemRange:  board.Range{Min: int(header.ItemMin), Max: int(header.ItemMax)},
		EnemyRange: board.Range{Min: int(header.EnemyMin), Max: int(header.EnemyMax)},
		Layout:     string(layout),
		LoopChance: math.Float64frombits(header.LoopChance),
		Attempts:   int(header.Attempts),
		Counts: Counts{
			Walls:   int(counts.Walls),
			Food:    int(counts.Food),
			Enemies: int(counts.Enemies),
			Keys:    int(counts.Keys),
			Exits:   int(counts.Exits),
		},
	}, nil
}
