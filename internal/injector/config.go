package injector

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeusync/sectorsim/internal/core/systems/physics"
	"github.com/zeusync/sectorsim/internal/server"
	"github.com/zeusync/sectorsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Config is the top level file read by the binary. Absent sections keep their defaults.
type Config struct {
	LogLevel string          `yaml:"log_level"`
	Physics  physics.Config  `yaml:"physics"`
	Sim      sim.Config      `yaml:"sim"`
	Scene    sim.SceneConfig `yaml:"scene"`
	Debug    server.Config   `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Physics:  physics.DefaultConfig(),
		Sim:      sim.DefaultConfig(),
		Scene:    sim.DefaultSceneConfig(),
		Debug:    server.DefaultServerConfig(),
	}
}

func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", physics.ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfigFile reads path, or returns DefaultConfig when path is empty.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

func (c Config) Validate() error {
	errs := []error{c.Physics.Validate(), c.Sim.Validate()}
	if c.Debug.Enabled() {
		errs = append(errs, c.Debug.Validate())
	}
	return errors.Join(errs...)
}
