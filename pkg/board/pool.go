package board

import (
	"fmt"
	"slices"
)

// Pool - упорядоченный список свободных внутренних клеток.
// Живет только во время генерации и только уменьшается.
type Pool struct {
	points []GridPoint
}

// InitializeAvailablePool перечисляет все внутренние клетки:
// внешний цикл по x, внутренний по y, оба по возрастанию.
// От этого порядка зависит воспроизводимость уровня по сиду.
func InitializeAvailablePool(columns, rows int) (*Pool, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, columns, rows)
	}

	points := make([]GridPoint, 0, columns*rows)
	for x := 0; x < columns; x++ {
		for y := 0; y < rows; y++ {
			points = append(points, GridPoint{X: x, Y: y})
		}
	}
	return &Pool{points: points}, nil
}

func (p *Pool) Len() int { return len(p.points) }

// Points возвращает копию текущего содержимого
func (p *Pool) Points() []GridPoint {
	return slices.Clone(p.points)
}

// Exclude убирает точки из пула (например, стены лабиринта).
// Отсутствующие точки игнорируются. Порядок остальных сохраняется.
func (p *Pool) Exclude(points ...GridPoint) {
	if len(points) == 0 {
		return
	}
	drop := make(map[GridPoint]struct{}, len(points))
	for _, pt := range points {
		drop[pt] = struct{}{}
	}
	p.points = slices.DeleteFunc(p.points, func(pt GridPoint) bool {
		_, ok := drop[pt]
		return ok
	})
}

// removeAt удаляет и возвращает элемент, сдвигая хвост
func (p *Pool) removeAt(i int) GridPoint {
	pt := p.points[i]
	p.points = slices.Delete(p.points, i, i+1)
	return pt
}
