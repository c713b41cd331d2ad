package sim

import "errors"

var (
	ErrInvalidConfig  = errors.New("sim: invalid config")
	ErrAlreadyRunning = errors.New("sim: runner is already running")
)
