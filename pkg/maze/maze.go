// Package maze строит раскладки стен для board.SetupLevel.
//
// Внутренние клетки с четными x и y - "комнаты", клетки между ними - стены,
// клетки с нечетными x и y - столбы. Если columns (rows) четное, последняя
// колонка (строка) остается открытым коридором, поэтому угол с выходом всегда достижим.
package maze

import (
	"errors"
	"fmt"
	"slices"

	"gridboard-server/pkg/board"

	"github.com/zyedidia/generic/mapset"
)

var ErrUnknownLayout = errors.New("unknown layout")

// Имена раскладок
const (
	NameNone        = "none"
	NamePrim        = "prim"
	NameBacktracker = "backtracker"
)

// chanceScale - дискретизация вероятности петли для board.Rand
const chanceScale = 1000

// Prim - рандомизированный алгоритм Прима
type Prim struct {
	// LoopChance - вероятность снести каждую оставшуюся стену между комнатами.
	// 0 - идеальный лабиринт без петель.
	LoopChance float64
}

func (p Prim) Name() string { return NamePrim }

func (p Prim) Walls(columns, rows int, rng board.Rand) []board.GridPoint {
	l := newLattice(columns, rows)
	l.carvePrim(rng)
	l.addLoops(p.LoopChance, rng)
	return l.walls()
}

// Backtracker - поиск в глубину с возвратом (длинные извилистые коридоры)
type Backtracker struct {
	LoopChance float64
}

func (b Backtracker) Name() string { return NameBacktracker }

func (b Backtracker) Walls(columns, rows int, rng board.Rand) []board.GridPoint {
	l := newLattice(columns, rows)
	l.carveBacktracker(rng)
	l.addLoops(b.LoopChance, rng)
	return l.walls()
}

// Parse возвращает раскладку по имени. Для "none" и "" - nil.
func Parse(name string, loopChance float64) (board.Layout, error) {
	if loopChance < 0 || loopChance > 1 {
		return nil, fmt.Errorf("loop chance %.3f outside [0, 1]", loopChance)
	}
	switch name {
	case "", NameNone:
		return nil, nil
	case NamePrim:
		return Prim{LoopChance: loopChance}, nil
	case NameBacktracker:
		return Backtracker{LoopChance: loopChance}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}

// lattice - сетка комнат внутри области width x height (всегда нечетные)
type lattice struct {
	width, height int
	visited       mapset.Set[board.GridPoint]
	open          mapset.Set[board.GridPoint]
}

type edge struct {
	from, to board.GridPoint
}

func newLattice(columns, rows int) *lattice {
	l := &lattice{
		width:   columns,
		height:  rows,
		visited: mapset.New[board.GridPoint](),
		open:    mapset.New[board.GridPoint](),
	}
	if l.width%2 == 0 {
		l.width--
	}
	if l.height%2 == 0 {
		l.height--
	}
	for x := 0; x < l.width; x += 2 {
		for y := 0; y < l.height; y += 2 {
			l.open.Put(board.Pt(x, y))
		}
	}
	return l
}

func (l *lattice) isRoom(p board.GridPoint) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.width && p.Y < l.height && p.X%2 == 0 && p.Y%2 == 0
}

// unvisitedEdges - ребра к непосещенным соседним комнатам в порядке board.Directions
func (l *lattice) unvisitedEdges(room board.GridPoint) []edge {
	var out []edge
	for _, d := range board.Directions {
		next := room.Shift(2*d.DX, 2*d.DY)
		if l.isRoom(next) && !l.visited.Has(next) {
			out = append(out, edge{from: room, to: next})
		}
	}
	return out
}

func (l *lattice) connect(e edge) {
	l.open.Put(board.Pt((e.from.X+e.to.X)/2, (e.from.Y+e.to.Y)/2))
	l.visited.Put(e.to)
}

func (l *lattice) carvePrim(rng board.Rand) {
	start := board.Pt(0, 0)
	l.visited.Put(start)
	frontier := l.unvisitedEdges(start)

	for len(frontier) > 0 {
		i := rng.IntN(len(frontier))
		e := frontier[i]
		frontier = slices.Delete(frontier, i, i+1)
		if l.visited.Has(e.to) {
			continue
		}
		l.connect(e)
		frontier = append(frontier, l.unvisitedEdges(e.to)...)
	}
}

func (l *lattice) carveBacktracker(rng board.Rand) {
	start := board.Pt(0, 0)
	l.visited.Put(start)
	stack := []board.GridPoint{start}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		edges := l.unvisitedEdges(top)
		if len(edges) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		e := edges[rng.IntN(len(edges))]
		l.connect(e)
		stack = append(stack, e.to)
	}
}

// addLoops сносит оставшиеся стены между комнатами с вероятностью chance
func (l *lattice) addLoops(chance float64, rng board.Rand) {
	threshold := int(chance * chanceScale)
	if threshold <= 0 {
		return
	}
	for _, p := range l.cells() {
		if l.open.Has(p) || !l.isConnector(p) {
			continue
		}
		if rng.IntN(chanceScale) < threshold {
			l.open.Put(p)
		}
	}
}

// isConnector - стена ровно между двумя комнатами (одна координата нечетная)
func (l *lattice) isConnector(p board.GridPoint) bool {
	return (p.X%2 == 1) != (p.Y%2 == 1)
}

// cells - все клетки области в порядке X, затем Y
func (l *lattice) cells() []board.GridPoint {
	out := make([]board.GridPoint, 0, l.width*l.height)
	for x := 0; x < l.width; x++ {
		for y := 0; y < l.height; y++ {
			out = append(out, board.Pt(x, y))
		}
	}
	return out
}

func (l *lattice) walls() []board.GridPoint {
	var out []board.GridPoint
	for _, p := range l.cells() {
		if !l.open.Has(p) {
			out = append(out, p)
		}
	}
	return out
}
