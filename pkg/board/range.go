package board

import (
	"fmt"
	"math"
)

// Range - включительный диапазон [Min, Max] для случайных количеств
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Exactly возвращает вырожденный диапазон {n, n}
func Exactly(n int) Range {
	return Range{Min: n, Max: n}
}

func (r Range) Validate() error {
	if r.Min < 0 || r.Max < 0 || r.Min > r.Max {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, r.Min, r.Max)
	}
	// ширина Max-Min+1 должна помещаться в int
	if r.Max-r.Min == math.MaxInt {
		return fmt.Errorf("%w: [%d, %d] span too large", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Contains проверяет n ∈ [Min, Max]
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Halve сужает диапазон вдвое (используется при повторной генерации)
func (r Range) Halve() Range {
	return Range{Min: r.Min / 2, Max: r.Max / 2}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d..%d]", r.Min, r.Max)
}
