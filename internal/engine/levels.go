package engine

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"gridboard-server/internal/storage"
	"gridboard-server/pkg/api"
	"gridboard-server/pkg/board"
	"gridboard-server/pkg/logger"
	"gridboard-server/pkg/maze"
	"gridboard-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidLevel   = errors.New("invalid level number")
	ErrUnknownLevel   = errors.New("level not generated")
	ErrRecordMismatch = errors.New("record does not match regenerated level")
)

// Level - сгенерированный уровень
type Level struct {
	Number     int
	Config     board.LevelConfig // итоговый конфиг (после ослабления диапазонов)
	LayoutName string
	LoopChance float64
	Board      *board.Board
	Stats      board.Stats
	Attempts   int

	// ExitReachable - есть ли проход от StartPoint до выхода по проходимым клеткам
	// (враги не учитываются)
	ExitReachable bool
	CreatedAt     time.Time
}

func exitReachable(b *board.Board, lc board.LevelConfig) bool {
	return board.Reachable(b, StartPoint).Has(lc.ExitPoint())
}

// EnemyCount - floor(log2(level)), как в исходной прогрессии уровней
func EnemyCount(level int) int {
	if level <= 1 {
		return 0
	}
	return bits.Len(uint(level)) - 1
}

// KeyCandidates - точки, из которых выбирается позиция ключа:
// левый верхний и правый нижний внутренние углы (выход - в правом верхнем)
func KeyCandidates(columns, rows int) []board.GridPoint {
	return []board.GridPoint{
		board.Pt(0, rows-1),
		board.Pt(columns-1, 0),
	}
}

// LevelConfigFor собирает конфиг генерации для уровня
func LevelConfigFor(cfg Config, level int) (board.LevelConfig, error) {
	if level < 1 {
		return board.LevelConfig{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return levelConfig(utils.LevelSeed(cfg.Seed, level), cfg.Columns, cfg.Rows,
		cfg.WallRange, cfg.ItemRange, board.Exactly(EnemyCount(level)), cfg.Layout, cfg.LoopChance)
}

func levelConfig(seed uint64, columns, rows int, walls, items, enemies board.Range, layoutName string, loop float64) (board.LevelConfig, error) {
	layout, err := maze.Parse(layoutName, loop)
	if err != nil {
		return board.LevelConfig{}, err
	}
	return board.LevelConfig{
		Columns:    columns,
		Rows:       rows,
		WallRange:  walls,
		ItemRange:  items,
		EnemyRange: enemies,
		Layout:     layout,
		Fixed: []board.FixedPlacement{
			{Kind: board.Key, Points: KeyCandidates(columns, rows), Count: 1},
		},
		Seed: seed,
	}, nil
}

// BuildLevel генерирует уровень. При нехватке клеток диапазоны ослабляются вдвое
// и генерация повторяется, до cfg.MaxAttempts раз. Прочие ошибки возвращаются сразу.
func BuildLevel(cfg Config, level int) (*Level, error) {
	lc, err := LevelConfigFor(cfg, level)
	if err != nil {
		return nil, err
	}
	return buildWithRetry(lc, level, cfg.LoopChance, cfg.MaxAttempts)
}

func buildWithRetry(lc board.LevelConfig, level int, loop float64, maxAttempts int) (*Level, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	log := logger.Log.WithFields(logrus.Fields{"level": level, "seed": lc.Seed})

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		b, err := board.SetupLevel(lc)
		if err == nil {
			lvl := &Level{
				Number:     level,
				Config:     lc,
				LayoutName: lc.LayoutName(),
				LoopChance: loop,
				Board:      b,
				Stats:      b.Summary(),
				Attempts:   attempt,
				CreatedAt:  time.Now(),
			}
			lvl.ExitReachable = exitReachable(b, lc)
			log.WithFields(logrus.Fields{
				"attempt": attempt,
				"walls":   lvl.Stats[board.Wall],
				"food":    lvl.Stats[board.Food],
				"enemies": lvl.Stats[board.Enemy],
				"exit":    lvl.ExitReachable,
			}).Info("Level built")
			return lvl, nil
		}
		if !errors.Is(err, board.ErrPoolExhausted) {
			return nil, fmt.Errorf("level %d: %w", level, err)
		}

		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("Pool exhausted, relaxing ranges")
		lc.WallRange = lc.WallRange.Halve()
		lc.ItemRange = lc.ItemRange.Halve()
		lc.EnemyRange = lc.EnemyRange.Halve()
	}
	return nil, fmt.Errorf("level %d after %d attempts: %w", level, maxAttempts, lastErr)
}

// Summary - краткое описание для HTTP
func (l *Level) Summary() api.LevelSummary {
	return api.LevelSummary{
		Level:    l.Number,
		Seed:     l.Config.Seed,
		Columns:  l.Config.Columns,
		Rows:     l.Config.Rows,
		Layout:   l.LayoutName,
		Attempts: l.Attempts,
		Counts:   api.CountsView(l.Stats),

		ExitReachable: l.ExitReachable,
	}
}

// Record снимает запись уровня для сохранения
func (l *Level) Record() *storage.LevelRecord {
	return &storage.LevelRecord{
		Level:      l.Number,
		Seed:       l.Config.Seed,
		Timestamp:  l.CreatedAt.Unix(),
		Columns:    l.Config.Columns,
		Rows:       l.Config.Rows,
		WallRange:  l.Config.WallRange,
		ItemRange:  l.Config.ItemRange,
		EnemyRange: l.Config.EnemyRange,
		Layout:     l.LayoutName,
		LoopChance: l.LoopChance,
		Attempts:   l.Attempts,
		Counts:     storage.CountsOf(l.Board),
	}
}

// LevelFromRecord пересобирает уровень по записи и сверяет итоговые количества
func LevelFromRecord(rec *storage.LevelRecord) (*Level, error) {
	lc, err := levelConfig(rec.Seed, rec.Columns, rec.Rows,
		rec.WallRange, rec.ItemRange, rec.EnemyRange, rec.Layout, rec.LoopChance)
	if err != nil {
		return nil, err
	}

	b, err := board.SetupLevel(lc)
	if err != nil {
		return nil, fmt.Errorf("rebuild level %d: %w", rec.Level, err)
	}

	if got := storage.CountsOf(b); got != rec.Counts {
		return nil, fmt.Errorf("%w: level %d counts %+v, recorded %+v", ErrRecordMismatch, rec.Level, got, rec.Counts)
	}

	return &Level{
		Number:        rec.Level,
		Config:        lc,
		LayoutName:    lc.LayoutName(),
		LoopChance:    rec.LoopChance,
		Board:         b,
		Stats:         b.Summary(),
		Attempts:      rec.Attempts,
		ExitReachable: exitReachable(b, lc),
		CreatedAt:     time.Unix(rec.Timestamp, 0),
	}, nil
}
