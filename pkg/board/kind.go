package board

import "fmt"

// CellKind - тип клетки поля. У клетки ровно один тип в каждый момент.
type CellKind uint8

const (
	OuterWall CellKind = iota
	Floor
	Wall
	Food
	Enemy
	Key
	Exit
)

// AllKinds в порядке объявления, для статистики и сериализации
var AllKinds = []CellKind{OuterWall, Floor, Wall, Food, Enemy, Key, Exit}

var kindNames = map[CellKind]string{
	OuterWall: "outer_wall",
	Floor:     "floor",
	Wall:      "wall",
	Food:      "food",
	Enemy:     "enemy",
	Key:       "key",
	Exit:      "exit",
}

var kindSymbols = map[CellKind]rune{
	OuterWall: '#',
	Floor:     '.',
	Wall:      'x',
	Food:      'f',
	Enemy:     'e',
	Key:       'k',
	Exit:      'E',
}

func (k CellKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CellKind(%d)", uint8(k))
}

// Symbol - ASCII-глиф для текстового рендера
func (k CellKind) Symbol() rune {
	if s, ok := kindSymbols[k]; ok {
		return s
	}
	return '?'
}

// Passable - можно ли зайти на клетку. Враг проходим: наступивший на него погибает.
func (k CellKind) Passable() bool {
	switch k {
	case OuterWall, Wall:
		return false
	}
	return true
}

func (k CellKind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown cell kind %d", uint8(k))
	}
	return []byte(name), nil
}

func (k *CellKind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind разбирает имя типа клетки ("wall", "food", ...)
func ParseKind(name string) (CellKind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown cell kind %q", name)
}
