package physics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/zeusync/sectorsim/internal/core/geometry"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a simulation. Absent YAML keys keep their DefaultConfig
// values.
type Config struct {
	Gravity          geometry.Vector2    `yaml:"gravity" json:"gravity"`
	BroadPhase       string              `yaml:"broad_phase" json:"broad_phase"`
	SkipRestingPairs bool                `yaml:"skip_resting_pairs" json:"skip_resting_pairs"`
	Workers          int                 `yaml:"workers" json:"workers"`
	Materials        map[string]Material `yaml:"materials,omitempty" json:"materials,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:          DefaultGravity,
		BroadPhase:       BroadPhaseSector.String(),
		SkipRestingPairs: true,
		Workers:          1,
	}
}

// LoadConfig decodes YAML from r over DefaultConfig and validates the result.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open physics config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

func (c Config) Validate() error {
	var errs []error
	if !finite(c.Gravity) {
		errs = append(errs, fmt.Errorf("gravity must be finite, got %v", c.Gravity))
	}
	if _, err := ParseBroadPhase(c.BroadPhase); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	for name, m := range c.Materials {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("material with empty name"))
		}
		for field, v := range map[string]float64{
			"static_friction":  m.StaticFriction,
			"kinetic_friction": m.KineticFriction,
			"restitution":      m.Restitution,
		} {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				errs = append(errs, fmt.Errorf("material %q: %s must be a non-negative number, got %v", name, field, v))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Options turns the config into State options. The config must be valid.
func (c Config) Options() []Option {
	bp, _ := ParseBroadPhase(c.BroadPhase)
	return []Option{
		WithBroadPhase(bp),
		WithSkipRestingPairs(c.SkipRestingPairs),
		WithWorkers(c.Workers),
	}
}

// Library returns the builtin materials extended, or overridden, by the configured ones.
func (c Config) Library() MaterialLibrary {
	lib := BuiltinMaterials()
	for name, m := range c.Materials {
		lib[strings.ToLower(strings.TrimSpace(name))] = NewMaterial(m.StaticFriction, m.KineticFriction, m.Restitution)
	}
	return lib
}
