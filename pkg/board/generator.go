package board

import (
	"fmt"

	"gridboard-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// State - стадия генерации. Переходы только вперед.
type State uint8

const (
	StateUninitialized State = iota
	StateGenerating
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateGenerating:
		return "generating"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Generator - одноразовый генератор уровня. Один экземпляр на уровень/сессию,
// глобального состояния нет. Не потокобезопасен.
type Generator struct {
	rng   Rand
	state State
}

// NewGenerator создает генератор с внедренным ГПСЧ
func NewGenerator(rng Rand) *Generator {
	return &Generator{rng: rng}
}

func (g *Generator) State() State { return g.state }

// DrawRandomCell выбирает равновероятный индекс пула, удаляет и возвращает точку.
// Удаление (а не пометка) гарантирует, что точка не выпадет дважды.
func (g *Generator) DrawRandomCell(pool *Pool) (GridPoint, error) {
	if pool.Len() == 0 {
		return GridPoint{}, ErrPoolExhausted
	}
	return pool.removeAt(g.rng.IntN(pool.Len())), nil
}

// PlaceRandomCount разыгрывает количество одним броском в [Min, Max],
// затем ровно столько раз тянет клетку из пула и ставит kind.
// При ErrPoolExhausted уже поставленные клетки остаются, возвращается их число.
func (g *Generator) PlaceRandomCount(b *Board, pool *Pool, kind CellKind, r Range) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}

	count := intRange(g.rng, r)
	for placed := 0; placed < count; placed++ {
		p, err := g.DrawRandomCell(pool)
		if err != nil {
			return placed, fmt.Errorf("place %s %d/%d: %w", kind, placed+1, count, err)
		}
		b.cells[p] = kind
	}
	return count, nil
}

// PlaceAtFixedPoints ставит kind во все точки без участия пула.
// Точки вне поля отклоняются до любых изменений.
func (g *Generator) PlaceAtFixedPoints(b *Board, points []GridPoint, kind CellKind) error {
	for _, p := range points {
		if !b.Contains(p) {
			return fmt.Errorf("place %s at %s: %w", kind, p, ErrOutOfBounds)
		}
	}
	for _, p := range points {
		b.cells[p] = kind
	}
	return nil
}

// ChooseFixedPoints выбирает n разных точек из списка кандидатов.
// Работает на копии: ни кандидаты, ни общий пул не меняются.
func (g *Generator) ChooseFixedPoints(candidates []GridPoint, n int) ([]GridPoint, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: choose %d", ErrInvalidRange, n)
	}
	local := &Pool{points: dedupe(candidates)}
	chosen := make([]GridPoint, 0, n)
	for i := 0; i < n; i++ {
		p, err := g.DrawRandomCell(local)
		if err != nil {
			return nil, fmt.Errorf("choose %d of %d candidates: %w", n, len(candidates), err)
		}
		chosen = append(chosen, p)
	}
	return chosen, nil
}

// SetupLevel строит полностью размеченное поле.
// Порядок: кольцо, пул, раскладка, стены, еда, враги, фиксированные точки, выход.
// При ошибке поле не возвращается.
func (g *Generator) SetupLevel(cfg LevelConfig) (*Board, error) {
	if g.state != StateUninitialized {
		return nil, fmt.Errorf("%w: state %s", ErrGeneratorUsed, g.state)
	}
	g.state = StateGenerating

	b, err := g.generate(cfg)
	if err != nil {
		g.state = StateFailed
		return nil, err
	}
	g.state = StateComplete
	return b, nil
}

func (g *Generator) generate(cfg LevelConfig) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"columns": cfg.Columns,
		"rows":    cfg.Rows,
		"seed":    cfg.Seed,
		"layout":  cfg.LayoutName(),
	})

	// 1. Поле и пул
	b, err := BuildBorderedGrid(cfg.Columns, cfg.Rows)
	if err != nil {
		return nil, err
	}
	pool, err := InitializeAvailablePool(cfg.Columns, cfg.Rows)
	if err != nil {
		return nil, err
	}

	// 2. Раскладка (лабиринт) забирает свои клетки из пула
	if cfg.Layout != nil {
		walls := cfg.Layout.Walls(cfg.Columns, cfg.Rows, g.rng)
		for _, p := range walls {
			if !b.IsInterior(p) {
				return nil, fmt.Errorf("layout %s wall %s: %w", cfg.Layout.Name(), p, ErrOutOfBounds)
			}
			b.cells[p] = Wall
		}
		pool.Exclude(walls...)
		log.WithField("walls", len(walls)).Debug("Layout applied")
	}

	// 3. Случайные предметы из общего пула
	steps := []struct {
		kind CellKind
		rng  Range
	}{
		{Wall, cfg.WallRange},
		{Food, cfg.ItemRange},
		{Enemy, cfg.EnemyRange},
	}
	for _, step := range steps {
		n, err := g.PlaceRandomCount(b, pool, step.kind, step.rng)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"kind": step.kind, "count": n, "pool": pool.Len()}).Debug("Random placement")
	}

	// 4. Фиксированные точки (ключ, спавны) мимо пула
	for _, fp := range cfg.Fixed {
		points := fp.Points
		if fp.Count > 0 && fp.Count < len(dedupe(fp.Points)) {
			points, err = g.ChooseFixedPoints(fp.Points, fp.Count)
			if err != nil {
				return nil, err
			}
		}
		if err := g.PlaceAtFixedPoints(b, points, fp.Kind); err != nil {
			return nil, err
		}
	}

	// 5. Выход всегда в верхнем правом углу и перекрывает все остальное
	b.cells[cfg.ExitPoint()] = Exit

	log.Debug("Level generated")
	return b, nil
}

// SetupLevel - генерация с ГПСЧ от cfg.Seed
func SetupLevel(cfg LevelConfig) (*Board, error) {
	return NewGenerator(NewRand(cfg.Seed)).SetupLevel(cfg)
}

func dedupe(points []GridPoint) []GridPoint {
	seen := make(map[GridPoint]struct{}, len(points))
	out := make([]GridPoint, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
