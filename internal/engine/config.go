package engine

import (
	"time"

	"gridboard-server/pkg/board"
	"gridboard-server/pkg/utils"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят все уровни:
	// Level N Seed = utils.LevelSeed(Seed, N)
	Seed uint64

	Columns   int
	Rows      int
	WallRange board.Range
	ItemRange board.Range

	// Layout - "none", "prim" или "backtracker"
	Layout     string
	LoopChance float64

	// Параметры прогона роботов
	RobotMoveCost int
	FoodEnergy    int
	MaxTicks      int
	TurnDelay     time.Duration

	// MaxAttempts - сколько раз пересобирать уровень при нехватке клеток
	MaxAttempts int

	ReplayDir string
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:          utils.RandomSeed(),
		Columns:       board.DefaultColumns,
		Rows:          board.DefaultRows,
		WallRange:     board.DefaultWallRange,
		ItemRange:     board.DefaultItemRange,
		Layout:        "none",
		RobotMoveCost: 1,
		FoodEnergy:    10,
		MaxTicks:      500,
		TurnDelay:     200 * time.Millisecond,
		MaxAttempts:   3,
		ReplayDir:     "records",
	}
}

// SessionConfig - часть Config, нужная прогону
func (c Config) SessionConfig() SessionConfig {
	return SessionConfig{
		MoveCost:   c.RobotMoveCost,
		FoodEnergy: c.FoodEnergy,
		MaxTicks:   c.MaxTicks,
	}
}
