package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"hash/fnv"
)

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// RandomSeed - случайный мастер-сид из crypto/rand
func RandomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("failed to generate random seed: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// StringToSeed - стабильный сид из строки (FNV-1a)
func StringToSeed(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// LevelSeed выводит сид уровня из мастер-сида (splitmix64).
// Соседние уровни получают несвязанные сиды, а один и тот же уровень - всегда один сид.
func LevelSeed(master uint64, level int) uint64 {
	z := master + uint64(level)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
