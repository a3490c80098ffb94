package entity

import "errors"

var (
	// ErrInvalidGeometry форма не задаёт полигон (меньше трёх вершин, самопересечение).
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrDegenerateGeometry ремонт нулевой площади не дал положительной площади.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrConfiguration недопустимые параметры оценки.
	ErrConfiguration = errors.New("invalid configuration")
)
