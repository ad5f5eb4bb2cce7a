package board

import "math/rand/v2"

// pcgStream разводит два слова состояния PCG для одного сида
const pcgStream = 0x9E3779B97F4A7C15

// Rand - источник случайности генератора. *rand.Rand из math/rand/v2 ему соответствует.
type Rand interface {
	// IntN возвращает число в [0, n). n > 0.
	IntN(n int) int
}

// NewRand создает детерминированный ГПСЧ от сида.
// Одинаковый сид дает одинаковую последовательность на любой платформе.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// intRange - случайное число в [min, max] одним вызовом
func intRange(rng Rand, r Range) int {
	return r.Min + rng.IntN(r.Max-r.Min+1)
}
