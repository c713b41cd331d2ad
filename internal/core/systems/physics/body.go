package physics

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/systems/physics/collision"
	"github.com/zeusync/sectorsim/internal/core/world"
)

// Handle identifies a body across generations. Every pass returns a body with the same
// handle as its input.
type Handle uuid.UUID

var NilHandle = Handle(uuid.Nil)

func NewHandle() Handle {
	return Handle(uuid.New())
}

func (h Handle) String() string {
	return uuid.UUID(h).String()
}

func (h Handle) MarshalText() ([]byte, error) {
	return uuid.UUID(h).MarshalText()
}

func (h *Handle) UnmarshalText(text []byte) error {
	var id uuid.UUID
	if err := id.UnmarshalText(text); err != nil {
		return err
	}
	*h = Handle(id)
	return nil
}

type BodyKind uint8

const (
	KindRigid BodyKind = iota
	KindStatic
	// KindCustom is reported by bodies implemented outside this package.
	KindCustom
)

func (k BodyKind) String() string {
	switch k {
	case KindRigid:
		return "rigid"
	case KindStatic:
		return "static"
	default:
		return "custom"
	}
}

// Body is anything the physics state can step. Implementations are immutable: both passes
// return a new value (or the receiver when nothing changed) and keep the handle.
type Body interface {
	Handle() Handle
	Kind() BodyKind

	Position() world.Point
	// Collider may be nil, in which case the body never collides.
	Collider() collision.Collider
	// Mass is math.Inf(1) for immovable bodies.
	Mass() float64
	Material() *Material
	Velocity() geometry.Vector2

	ImpulsePass(gravity geometry.Vector2, dt float64) Body
	CollisionPass(collisions []CollisionData) Body
}

// CollisionData is one contact as seen from the body it is reported to.
type CollisionData struct {
	// Other is the post-impulse snapshot of the body collided with.
	Other Body
	// MTV moves the receiving body out of Other.
	MTV geometry.Vector2
	// Normal is MTV normalized.
	Normal geometry.Vector2
}

func newCollisionData(other Body, mtv geometry.Vector2) CollisionData {
	return CollisionData{Other: other, MTV: mtv, Normal: mtv.Normalize()}
}

// colliderOrNil turns a typed nil pointer collider into a nil interface, so "no collider"
// has one representation.
func colliderOrNil(c collision.Collider) collision.Collider {
	if c == nil {
		return nil
	}
	if v := reflect.ValueOf(c); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return c
}
