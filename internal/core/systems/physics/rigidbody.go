package physics

import (
	"math"

	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/core/systems/physics/collision"
	"github.com/zeusync/sectorsim/internal/core/world"
)

// MinMass replaces non-positive or NaN masses.
const MinMass = 1e-6

var _ Body = (*RigidBody)(nil)

// RigidBody is a movable body with finite mass. It never rotates.
type RigidBody struct {
	handle   Handle
	position world.Point
	collider collision.Collider
	mass     float64
	material *Material
	velocity geometry.Vector2
	force    geometry.Vector2
}

func NewRigidBody(position world.Point, collider collision.Collider, mass float64, material *Material) *RigidBody {
	if !(mass > 0) {
		log.Provide().Warn("rigid body mass must be positive, clamping",
			log.Float64("mass", mass),
			log.Float64("clamped", MinMass),
		)
		mass = MinMass
	}
	return &RigidBody{
		handle:   NewHandle(),
		position: position,
		collider: colliderOrNil(collider),
		mass:     mass,
		material: materialOrDefault(material),
	}
}

func (b *RigidBody) Handle() Handle               { return b.handle }
func (b *RigidBody) Kind() BodyKind               { return KindRigid }
func (b *RigidBody) Position() world.Point        { return b.position }
func (b *RigidBody) Collider() collision.Collider { return b.collider }
func (b *RigidBody) Mass() float64                { return b.mass }
func (b *RigidBody) Material() *Material          { return b.material }
func (b *RigidBody) Velocity() geometry.Vector2   { return b.velocity }
func (b *RigidBody) Force() geometry.Vector2      { return b.force }

// AddImpulse accumulates force, applied on the next impulse pass.
func (b *RigidBody) AddImpulse(force geometry.Vector2) *RigidBody {
	next := *b
	next.force = b.force.Add(force)
	return &next
}

func (b *RigidBody) WithVelocity(v geometry.Vector2) *RigidBody {
	next := *b
	next.velocity = v
	return &next
}

// Translate moves the body directly, skipping integration. Prefer forces.
func (b *RigidBody) Translate(dist geometry.Vector2) *RigidBody {
	next := *b
	next.position = b.position.PixelTranslate(dist)
	return &next
}

// ImpulsePass integrates one step. Gravity is an acceleration and is not scaled by mass;
// accumulated force is. The pending force is consumed.
func (b *RigidBody) ImpulsePass(gravity geometry.Vector2, dt float64) Body {
	accel := b.force.Scale(1 / b.mass).Add(gravity)

	next := *b
	next.position = b.position.PixelTranslate(b.velocity.Scale(dt).Add(accel.Scale(0.5 * dt * dt)))
	next.velocity = b.velocity.Add(accel.Scale(dt))
	next.force = geometry.Zero
	return &next
}

// CollisionPass moves the body out of every contact in order. Each contact computes the
// velocity from the pre-collision velocity, so the last contact's response wins.
func (b *RigidBody) CollisionPass(collisions []CollisionData) Body {
	if len(collisions) == 0 {
		return b
	}

	self := contact{velocity: b.velocity, mass: b.mass, material: b.material}
	next := *b
	for _, c := range collisions {
		next.position = next.position.PixelTranslate(c.MTV)
		if c.Other == nil {
			continue
		}
		next.velocity = resolveVelocity(self, contactOf(c.Other), c.Normal)
	}

	if !finite(next.velocity) {
		log.Provide().Warn("non-finite velocity after collision pass, keeping previous",
			log.Stringer("body", b.handle),
		)
		next.velocity = b.velocity
	}
	return &next
}

func finite(v geometry.Vector2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
