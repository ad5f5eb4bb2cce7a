package board

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Cell - точка и ее тип
type Cell struct {
	Point GridPoint `json:"point"`
	Kind  CellKind  `json:"kind"`
}

// Board хранит тип каждой клетки окаймленного прямоугольника
// от (-1,-1) до (columns, rows) включительно.
// Внутренние клетки: 0 <= x < columns, 0 <= y < rows. Остальное - внешнее кольцо.
type Board struct {
	columns int
	rows    int
	cells   map[GridPoint]CellKind
}

// BuildBorderedGrid создает новое поле: кольцо OuterWall, внутри Floor.
func BuildBorderedGrid(columns, rows int) (*Board, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, columns, rows)
	}

	b := &Board{
		columns: columns,
		rows:    rows,
		cells:   make(map[GridPoint]CellKind, (columns+2)*(rows+2)),
	}

	for x := -1; x <= columns; x++ {
		for y := -1; y <= rows; y++ {
			p := GridPoint{X: x, Y: y}
			if b.IsBoundary(p) {
				b.cells[p] = OuterWall
			} else {
				b.cells[p] = Floor
			}
		}
	}
	return b, nil
}

func (b *Board) Columns() int { return b.columns }
func (b *Board) Rows() int    { return b.rows }

// Len - количество клеток вместе с кольцом
func (b *Board) Len() int { return len(b.cells) }

// Contains - точка внутри окаймленного прямоугольника
func (b *Board) Contains(p GridPoint) bool {
	return p.X >= -1 && p.X <= b.columns && p.Y >= -1 && p.Y <= b.rows
}

// IsBoundary - точка лежит на внешнем кольце
func (b *Board) IsBoundary(p GridPoint) bool {
	if !b.Contains(p) {
		return false
	}
	return p.X == -1 || p.X == b.columns || p.Y == -1 || p.Y == b.rows
}

// IsInterior - точка внутри игровой области
func (b *Board) IsInterior(p GridPoint) bool {
	return p.X >= 0 && p.X < b.columns && p.Y >= 0 && p.Y < b.rows
}

// Kind возвращает тип клетки. ok=false за пределами поля.
func (b *Board) Kind(p GridPoint) (CellKind, bool) {
	k, ok := b.cells[p]
	return k, ok
}

// Set меняет тип клетки. Этим пользуется и генератор, и игровая логика
// (например, разрушенная стена становится Floor).
func (b *Board) Set(p GridPoint, kind CellKind) error {
	if !b.Contains(p) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	b.cells[p] = kind
	return nil
}

// Count - количество клеток заданного типа
func (b *Board) Count(kind CellKind) int {
	n := 0
	for _, k := range b.cells {
		if k == kind {
			n++
		}
	}
	return n
}

// Points возвращает все точки типа kind, отсортированные по X, затем по Y
func (b *Board) Points(kind CellKind) []GridPoint {
	var out []GridPoint
	for p, k := range b.cells {
		if k == kind {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, comparePoints)
	return out
}

// Cells - все клетки в стабильном порядке (X, затем Y). Для рендера и сериализации.
func (b *Board) Cells() []Cell {
	points := slices.SortedFunc(maps.Keys(b.cells), comparePoints)
	out := make([]Cell, len(points))
	for i, p := range points {
		out[i] = Cell{Point: p, Kind: b.cells[p]}
	}
	return out
}

// Clone - глубокая копия. Сессии робота работают на копии, исходный Board не меняется.
func (b *Board) Clone() *Board {
	return &Board{
		columns: b.columns,
		rows:    b.rows,
		cells:   maps.Clone(b.cells),
	}
}

// Equal - структурное равенство
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.columns == other.columns && b.rows == other.rows && maps.Equal(b.cells, other.cells)
}

// Stats - количество клеток каждого типа
type Stats map[CellKind]int

// Summary считает Stats по всему полю
func (b *Board) Summary() Stats {
	s := make(Stats, len(AllKinds))
	for _, k := range b.cells {
		s[k]++
	}
	return s
}

// String рисует поле ASCII-символами. Верхняя строка - y = rows.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.columns + 3) * (b.rows + 2))
	for y := b.rows; y >= -1; y-- {
		for x := -1; x <= b.columns; x++ {
			sb.WriteRune(b.cells[GridPoint{X: x, Y: y}].Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type boardJSON struct {
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
	Cells   []Cell `json:"cells"`
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Columns: b.columns, Rows: b.rows, Cells: b.Cells()})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored, err := BuildBorderedGrid(raw.Columns, raw.Rows)
	if err != nil {
		return err
	}
	for _, c := range raw.Cells {
		if err := restored.Set(c.Point, c.Kind); err != nil {
			return err
		}
	}
	*b = *restored
	return nil
}
