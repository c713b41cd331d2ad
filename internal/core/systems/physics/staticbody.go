package physics

import (
	"math"

	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/core/systems/physics/collision"
	"github.com/zeusync/sectorsim/internal/core/world"
)

var _ Body = (*StaticBody)(nil)

// StaticBody has infinite mass and never moves. Both passes return the receiver.
type StaticBody struct {
	handle   Handle
	position world.Point
	collider collision.Collider
	material *Material
}

func NewStaticBody(position world.Point, collider collision.Collider, material *Material) *StaticBody {
	h := NewHandle()
	collider = colliderOrNil(collider)
	if collider == nil {
		log.Provide().Warn("static body has no collider and will never interact",
			log.Stringer("body", h),
			log.Stringer("position", position),
		)
	}
	return &StaticBody{
		handle:   h,
		position: position,
		collider: collider,
		material: materialOrDefault(material),
	}
}

func (b *StaticBody) Handle() Handle               { return b.handle }
func (b *StaticBody) Kind() BodyKind               { return KindStatic }
func (b *StaticBody) Position() world.Point        { return b.position }
func (b *StaticBody) Collider() collision.Collider { return b.collider }
func (b *StaticBody) Mass() float64                { return math.Inf(1) }
func (b *StaticBody) Material() *Material          { return b.material }
func (b *StaticBody) Velocity() geometry.Vector2   { return geometry.Zero }

func (b *StaticBody) ImpulsePass(geometry.Vector2, float64) Body { return b }
func (b *StaticBody) CollisionPass([]CollisionData) Body         { return b }
