package sim

import (
	"fmt"
	"time"
)

const maxTickRate = 1000

type Config struct {
	// TickRate is the number of fixed steps per second.
	TickRate int `yaml:"tick_rate" json:"tick_rate"`
	// MaxSteps stops Run after that many steps. Zero runs until cancelled.
	MaxSteps uint64 `yaml:"max_steps" json:"max_steps"`
	// SummaryEvery logs a step summary at Info every that many generations. Zero disables it.
	SummaryEvery uint64 `yaml:"summary_every" json:"summary_every"`
}

func DefaultConfig() Config {
	return Config{
		TickRate:     60,
		SummaryEvery: 600,
	}
}

func (c Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > maxTickRate {
		return fmt.Errorf("%w: tick_rate must be in (0, %d], got %d", ErrInvalidConfig, maxTickRate, c.TickRate)
	}
	return nil
}

// DeltaT is the simulated time of one step in seconds.
func (c Config) DeltaT() float64 {
	return 1 / float64(c.TickRate)
}

func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
