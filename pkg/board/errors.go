package board

import "errors"

var (
	// ErrInvalidDimension - колонки или строки не положительные
	ErrInvalidDimension = errors.New("invalid board dimension")
	// ErrPoolExhausted - запрошено больше клеток, чем осталось в пуле
	ErrPoolExhausted = errors.New("available pool exhausted")
	// ErrInvalidRange - min > max или отрицательные границы
	ErrInvalidRange = errors.New("invalid range")
	// ErrOutOfBounds - точка вне окаймленного прямоугольника
	ErrOutOfBounds = errors.New("point out of board bounds")
	// ErrGeneratorUsed - генератор одноразовый, для нового уровня нужен новый
	ErrGeneratorUsed = errors.New("generator already used")
)
