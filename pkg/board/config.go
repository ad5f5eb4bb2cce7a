package board

import "fmt"

// Параметры уровня по умолчанию (как в исходном прототипе)
const (
	DefaultColumns = 8
	DefaultRows    = 8
)

var (
	DefaultWallRange = Range{Min: 5, Max: 9}
	DefaultItemRange = Range{Min: 1, Max: 5}
)

// Layout строит стены до случайной расстановки (лабиринт и т.п.)
type Layout interface {
	Name() string
	// Walls возвращает внутренние точки, которые станут стенами
	Walls(columns, rows int, rng Rand) []GridPoint
}

// FixedPlacement - размещение по заранее выбранному списку точек (ключ, спавны врагов).
// Count == 0 или Count >= len(Points) - ставятся все точки;
// иначе выбираются Count случайных точек из списка.
type FixedPlacement struct {
	Kind   CellKind    `json:"kind"`
	Points []GridPoint `json:"points"`
	Count  int         `json:"count,omitempty"`
}

// LevelConfig - вход генерации одного уровня
type LevelConfig struct {
	Columns    int              `json:"columns"`
	Rows       int              `json:"rows"`
	WallRange  Range            `json:"wallRange"`
	ItemRange  Range            `json:"itemRange"`
	EnemyRange Range            `json:"enemyRange"`
	Layout     Layout           `json:"-"`
	Fixed      []FixedPlacement `json:"fixed,omitempty"`
	Seed       uint64           `json:"seed"`
}

// DefaultLevelConfig - поле 8x8, стены 5-9, еда 1-5
func DefaultLevelConfig(seed uint64) LevelConfig {
	return LevelConfig{
		Columns:   DefaultColumns,
		Rows:      DefaultRows,
		WallRange: DefaultWallRange,
		ItemRange: DefaultItemRange,
		Seed:      seed,
	}
}

// ExitPoint - верхний правый внутренний угол
func (c LevelConfig) ExitPoint() GridPoint {
	return GridPoint{X: c.Columns - 1, Y: c.Rows - 1}
}

// Validate проверяет размеры и диапазоны. Нехватку клеток ловит сама генерация.
func (c LevelConfig) Validate() error {
	if c.Columns <= 0 || c.Rows <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, c.Columns, c.Rows)
	}
	ranges := map[string]Range{"wallRange": c.WallRange, "itemRange": c.ItemRange, "enemyRange": c.EnemyRange}
	for _, name := range []string{"wallRange", "itemRange", "enemyRange"} {
		if err := ranges[name].Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for i, fp := range c.Fixed {
		if fp.Count < 0 {
			return fmt.Errorf("fixed[%d]: %w: negative count %d", i, ErrInvalidRange, fp.Count)
		}
	}
	return nil
}

// LayoutName - имя раскладки или "none"
func (c LevelConfig) LayoutName() string {
	if c.Layout == nil {
		return "none"
	}
	return c.Layout.Name()
}
