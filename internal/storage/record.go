package storage

import (
	"gridboard-server/pkg/board"
)

// Counts - реально размещенные количества по типам
type Counts struct {
	Walls   int `json:"walls"`
	Food    int `json:"food"`
	Enemies int `json:"enemies"`
	Keys    int `json:"keys"`
	Exits   int `json:"exits"`
}

// CountsOf снимает Counts с готового поля
func CountsOf(b *board.Board) Counts {
	s := b.Summary()
	return Counts{
		Walls:   s[board.Wall],
		Food:    s[board.Food],
		Enemies: s[board.Enemy],
		Keys:    s[board.Key],
		Exits:   s[board.Exit],
	}
}

// LevelRecord - запись сгенерированного уровня: параметры генерации + итоговые количества.
// Состояние игры сюда не входит, только то, что нужно для повторной генерации и проверки.
type LevelRecord struct {
	Level      int         `json:"level"`
	Seed       uint64      `json:"seed"`
	Timestamp  int64       `json:"timestamp"`
	Columns    int         `json:"columns"`
	Rows       int         `json:"rows"`
	WallRange  board.Range `json:"wallRange"`
	ItemRange  board.Range `json:"itemRange"`
	EnemyRange board.Range `json:"enemyRange"`
	Layout     string      `json:"layout"`
	LoopChance float64     `json:"loopChance"`
	Attempts   int         `json:"attempts"`
	Counts     Counts      `json:"counts"`
}
