package physics

import "errors"

var (
	ErrInvalidConfig   = errors.New("physics: invalid config")
	ErrUnknownMaterial = errors.New("physics: unknown material")
)
