package physics

import (
	"fmt"
	"strings"
)

// Material describes how a body's surface behaves on contact. Values are shared between
// bodies and must not be mutated after use.
type Material struct {
	StaticFriction  float64 `yaml:"static_friction" json:"static_friction"`
	KineticFriction float64 `yaml:"kinetic_friction" json:"kinetic_friction"`
	Restitution     float64 `yaml:"restitution" json:"restitution"`
}

func NewMaterial(static, kinetic, restitution float64) *Material {
	return &Material{StaticFriction: static, KineticFriction: kinetic, Restitution: restitution}
}

var (
	Rubber   = NewMaterial(1, 0.75, 1)
	Concrete = NewMaterial(0.75, 0.5, 0.35)
	Wood     = NewMaterial(0.35, 0.2, 0.25)
	Iron     = NewMaterial(0.8, 0.25, 0.45)
	Steel    = NewMaterial(0.75, 0.5, 0.75)
	Ice      = NewMaterial(0.05, 0.01, 0.15)

	LowFrictionLowRestitution   = NewMaterial(0.05, 0.01, 0)
	HighFrictionLowRestitution  = NewMaterial(0.8, 0.65, 0)
	LowFrictionHighRestitution  = NewMaterial(0.05, 0.01, 1)
	HighFrictionHighRestitution = NewMaterial(0.8, 0.65, 1)

	// DefaultMaterial is used for bodies constructed without one.
	DefaultMaterial = Concrete
)

// MaterialLibrary maps lower-case names to materials.
type MaterialLibrary map[string]*Material

// BuiltinMaterials returns a fresh library holding the predefined materials.
func BuiltinMaterials() MaterialLibrary {
	return MaterialLibrary{
		"rubber":                         Rubber,
		"concrete":                       Concrete,
		"wood":                           Wood,
		"iron":                           Iron,
		"steel":                          Steel,
		"ice":                            Ice,
		"low_friction_low_restitution":   LowFrictionLowRestitution,
		"high_friction_low_restitution":  HighFrictionLowRestitution,
		"low_friction_high_restitution":  LowFrictionHighRestitution,
		"high_friction_high_restitution": HighFrictionHighRestitution,
	}
}

func (l MaterialLibrary) Lookup(name string) (*Material, error) {
	if m, ok := l[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
}

// LookupMaterial finds a predefined material by name, case-insensitively.
func LookupMaterial(name string) (*Material, error) {
	return BuiltinMaterials().Lookup(name)
}

func materialOrDefault(m *Material) *Material {
	if m == nil {
		return DefaultMaterial
	}
	return m
}
