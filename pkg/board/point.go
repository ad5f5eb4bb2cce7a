package board

import "fmt"

// GridPoint - координата клетки (колонка, строка).
// Тип сравнимый, поэтому используется как ключ map без отдельного хеша.
type GridPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt короткий конструктор, удобен в тестах и списках точек
func Pt(x, y int) GridPoint {
	return GridPoint{X: x, Y: y}
}

// Shift возвращает новую точку со смещением
func (p GridPoint) Shift(dx, dy int) GridPoint {
	return GridPoint{X: p.X + dx, Y: p.Y + dy}
}

// Direction - единичный шаг по сетке
type Direction struct {
	DX, DY int
}

// Directions в порядке опроса робота: вверх, вправо, влево, вниз.
// Порядок важен для воспроизводимости прогонов.
var Directions = [4]Direction{{0, 1}, {1, 0}, {-1, 0}, {0, -1}}

// Neighbors возвращает 4 соседние точки в порядке Directions
func (p GridPoint) Neighbors() [4]GridPoint {
	var out [4]GridPoint
	for i, d := range Directions {
		out[i] = p.Shift(d.DX, d.DY)
	}
	return out
}

// Less задает порядок обхода: сначала X, затем Y (как в InitializeAvailablePool)
func (p GridPoint) Less(other GridPoint) bool {
	if p.X != other.X {
		return p.X < other.X
	}
	return p.Y < other.Y
}

func (p GridPoint) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func comparePoints(a, b GridPoint) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}
