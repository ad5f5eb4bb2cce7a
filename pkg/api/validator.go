package api

import (
	"errors"
	"fmt"
	"strconv"
)

// MaxLevel - верхняя граница номера уровня для HTTP-запросов
const MaxLevel = 1 << 16

// ErrInvalidRequest оборачивает все ошибки разбора и проверки запросов
var ErrInvalidRequest = errors.New("invalid request")

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// Validate проверяет DTO и оборачивает ошибку в ErrInvalidRequest
func Validate(v Validator) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// LevelRequest - параметры запроса уровня (/levels/:level?seed=)
type LevelRequest struct {
	Level   int
	Seed    uint64
	HasSeed bool
}

// ParseLevelRequest разбирает строковые параметры маршрута и query
func ParseLevelRequest(level, seed string) (LevelRequest, error) {
	var req LevelRequest
	n, err := strconv.Atoi(level)
	if err != nil {
		return req, fmt.Errorf("%w: level must be an integer: %q", ErrInvalidRequest, level)
	}
	req.Level = n

	if seed != "" {
		s, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return req, fmt.Errorf("%w: seed must be an unsigned integer: %q", ErrInvalidRequest, seed)
		}
		req.Seed = s
		req.HasSeed = true
	}
	return req, Validate(req)
}

func (r LevelRequest) Validate() error {
	if r.Level < 1 {
		return errors.New("level must be >= 1")
	}
	if r.Level > MaxLevel {
		return fmt.Errorf("level must be <= %d", MaxLevel)
	}
	return nil
}
