package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/core/systems/physics/collision"
	"github.com/zeusync/sectorsim/internal/core/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const eps = 1e-9

func px(x, y float64) world.Point {
	return world.PointFromPixels(geometry.Vec(x, y))
}

func frictionless(restitution float64) *Material {
	return NewMaterial(0, 0, restitution)
}

func TestRigidBodyMassClamp(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prev := log.Provide()
	log.SetDefault(log.NewWithCore(core, log.LevelDebug))
	t.Cleanup(func() { log.SetDefault(prev) })

	for _, mass := range []float64{0, -3, math.NaN()} {
		b := NewRigidBody(world.Origin, nil, mass, nil)
		assert.Equal(t, MinMass, b.Mass())
	}
	assert.Equal(t, 3, logs.Len())

	ok := NewRigidBody(world.Origin, nil, 4, nil)
	assert.Equal(t, 4.0, ok.Mass())
	assert.Same(t, DefaultMaterial, ok.Material())
	assert.Equal(t, 3, logs.Len())
}

func TestRigidBodyTransitionsArePure(t *testing.T) {
	b := NewRigidBody(px(10, 10), nil, 2, Wood)

	pushed := b.AddImpulse(geometry.Vec(1, 0)).AddImpulse(geometry.Vec(0, 2))
	assert.Equal(t, geometry.Vec(1, 2), pushed.Force())
	assert.True(t, b.Force().IsZero())

	moving := b.WithVelocity(geometry.Vec(3, 0))
	assert.Equal(t, geometry.Vec(3, 0), moving.Velocity())
	assert.True(t, b.Velocity().IsZero())

	moved := b.Translate(geometry.Vec(5, 0))
	assert.InDelta(t, 5, moved.Position().PixelDistance(b.Position()).X, eps)

	for _, next := range []Body{pushed, moving, moved} {
		assert.Equal(t, b.Handle(), next.Handle())
		assert.Equal(t, KindRigid, next.Kind())
	}
}

func TestImpulsePassAppliesForce(t *testing.T) {
	b := NewRigidBody(px(0, 0), nil, 2, nil).AddImpulse(geometry.Vec(100, 0))

	next := b.ImpulsePass(geometry.Zero, 0.1).(*RigidBody)
	assert.InDelta(t, 5, next.Velocity().X, eps)
	assert.InDelta(t, 0.25, next.Position().PixelDistance(b.Position()).X, eps)
	assert.True(t, next.Force().IsZero())

	// the force is consumed, so the next pass only coasts
	again := next.ImpulsePass(geometry.Zero, 0.1)
	assert.InDelta(t, 5, again.Velocity().X, eps)
	assert.InDelta(t, 0.5, again.Position().PixelDistance(next.Position()).X, eps)
}

func TestProjectileMotion(t *testing.T) {
	gravity := geometry.Vec(0, -550)
	const dt = 1.0 / 60
	const steps = 120

	for _, mass := range []float64{0.5, 1, 10, 1000} {
		start := px(123, 456)
		var b Body = NewRigidBody(start, nil, mass, nil).WithVelocity(geometry.Zero)
		for i := 0; i < steps; i++ {
			b = b.ImpulsePass(gravity, dt)
		}

		elapsed := steps * dt
		assert.InDelta(t, gravity.Y*elapsed, b.Velocity().Y, 1e-9, "mass %v", mass)
		assert.InDelta(t, 0, b.Velocity().X, eps)

		moved := b.Position().PixelDistance(start)
		assert.InDelta(t, gravity.Y*elapsed*elapsed/2, moved.Y, dt, "mass %v", mass)
		assert.InDelta(t, 0, moved.X, 1e-9)
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	ground := NewStaticBody(px(0, 0), collision.NewBoxCollider(100, 10), Concrete)
	rock := NewRigidBody(px(10, 5), collision.NewBoxCollider(5, 5), 3, Concrete).WithVelocity(geometry.Vec(50, -50))

	var b Body = ground
	for i := 0; i < 50; i++ {
		b = b.ImpulsePass(geometry.Vec(0, -1000), 0.5)
		b = b.CollisionPass([]CollisionData{newCollisionData(rock, geometry.Vec(0, -3))})
	}

	assert.Same(t, ground, b)
	assert.True(t, b.Position().Equal(ground.Position()))
	assert.True(t, b.Velocity().IsZero())
	assert.True(t, math.IsInf(b.Mass(), 1))
	assert.Equal(t, KindStatic, b.Kind())
}

func TestStaticBodyWithoutColliderWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prev := log.Provide()
	log.SetDefault(log.NewWithCore(core, log.LevelDebug))
	t.Cleanup(func() { log.SetDefault(prev) })

	b := NewStaticBody(world.Origin, nil, nil)
	assert.Nil(t, b.Collider())
	assert.Same(t, DefaultMaterial, b.Material())
	assert.Equal(t, 1, logs.FilterMessageSnippet("never interact").Len())
}

func TestTypedNilColliderIsNoCollider(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prev := log.Provide()
	log.SetDefault(log.NewWithCore(core, log.LevelDebug))
	t.Cleanup(func() { log.SetDefault(prev) })

	var missing *collision.ConvexCollider

	s := NewStaticBody(world.Origin, missing, nil)
	assert.Nil(t, s.Collider())
	assert.Equal(t, 1, logs.FilterMessageSnippet("never interact").Len())

	r := NewRigidBody(world.Origin, missing, 1, nil)
	assert.Nil(t, r.Collider())
}

func TestElasticBounceOffStaticBody(t *testing.T) {
	ground := NewStaticBody(px(0, 0), collision.NewBoxCollider(100, 10), frictionless(1))
	ball := NewRigidBody(px(10, 10), collision.NewBoxCollider(2, 2), 10, frictionless(1)).
		WithVelocity(geometry.Vec(3, -5))

	next := ball.CollisionPass([]CollisionData{newCollisionData(ground, geometry.Vec(0, 0.5))})

	assert.InDelta(t, 5, next.Velocity().Y, eps, "normal component reversed")
	assert.InDelta(t, 3, next.Velocity().X, eps, "tangent component kept")
	assert.InDelta(t, 0.5, next.Position().PixelDistance(ball.Position()).Y, eps)
}

func TestPartialRestitutionOffStaticBody(t *testing.T) {
	ground := NewStaticBody(px(0, 0), nil, frictionless(0))
	ball := NewRigidBody(px(0, 10), nil, 1, frictionless(1)).WithVelocity(geometry.Vec(0, -8))

	next := ball.CollisionPass([]CollisionData{newCollisionData(ground, geometry.Vec(0, 1))})
	assert.InDelta(t, 4, next.Velocity().Y, eps)
}

func TestMomentumTransferBetweenRigidBodies(t *testing.T) {
	tests := []struct {
		name        string
		restitution float64
		want        float64
	}{
		{name: "elastic swaps velocities", restitution: 1, want: 1},
		{name: "inelastic stops both", restitution: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upper := NewRigidBody(px(0, 10), nil, 4, frictionless(tt.restitution)).WithVelocity(geometry.Vec(0, -1))
			lower := NewRigidBody(px(0, 0), nil, 4, frictionless(tt.restitution)).WithVelocity(geometry.Vec(0, 1))

			nu := upper.CollisionPass([]CollisionData{newCollisionData(lower, geometry.Vec(0, 0.1))})
			nl := lower.CollisionPass([]CollisionData{newCollisionData(upper, geometry.Vec(0, -0.1))})

			assert.InDelta(t, tt.want, nu.Velocity().Y, eps)
			assert.InDelta(t, -tt.want, nl.Velocity().Y, eps)
		})
	}
}

func TestSeparatingContactKeepsNormalVelocity(t *testing.T) {
	ground := NewStaticBody(px(0, 0), nil, frictionless(1))
	ball := NewRigidBody(px(0, 10), nil, 1, frictionless(1)).WithVelocity(geometry.Vec(0, 2))

	next := ball.CollisionPass([]CollisionData{newCollisionData(ground, geometry.Vec(0, 0.1))})
	assert.InDelta(t, 2, next.Velocity().Y, eps)
}

func TestFrictionNeverReversesMotion(t *testing.T) {
	tests := []struct {
		name     string
		material *Material
		velocity geometry.Vector2
		wantX    float64
	}{
		{name: "huge kinetic friction stops the slide", material: NewMaterial(100, 100, 0), velocity: geometry.Vec(10, -1), wantX: 0},
		{name: "small kinetic friction slows the slide", material: NewMaterial(0.5, 0.1, 0), velocity: geometry.Vec(10, -1), wantX: 9.9},
		{name: "static friction holds a creeping body", material: NewMaterial(1, 0, 0), velocity: geometry.Vec(0.0005, -1), wantX: 0},
		{name: "no static friction lets it creep", material: NewMaterial(0, 1, 0), velocity: geometry.Vec(0.0005, -1), wantX: 0.0005},
		{name: "negative direction", material: NewMaterial(100, 100, 0), velocity: geometry.Vec(-10, -1), wantX: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ground := NewStaticBody(px(0, 0), nil, tt.material)
			box := NewRigidBody(px(0, 10), nil, 2, tt.material).WithVelocity(tt.velocity)

			next := box.CollisionPass([]CollisionData{newCollisionData(ground, geometry.Vec(0, 0.1))})
			assert.InDelta(t, tt.wantX, next.Velocity().X, 1e-9)
			assert.GreaterOrEqual(t, next.Velocity().X*tt.velocity.X, 0.0)
			assert.InDelta(t, 0, next.Velocity().Y, eps)
		})
	}
}

func TestFrictionForceClamp(t *testing.T) {
	self := contact{velocity: geometry.Vec(7, -3), mass: 5, material: NewMaterial(50, 50, 0)}
	other := contact{velocity: geometry.Vec(1, 0), mass: math.Inf(1), material: NewMaterial(50, 50, 0)}

	f := frictionForce(self, other, geometry.Up)
	tangent := (7.0 - 1.0) * 5
	assert.LessOrEqual(t, f.Magnitude(), tangent+eps)
	assert.Less(t, f.X, 0.0)
}

func TestCollisionPassLastContactWins(t *testing.T) {
	wall := NewStaticBody(px(0, 0), nil, frictionless(1))
	ball := NewRigidBody(px(5, 5), nil, 1, frictionless(1)).WithVelocity(geometry.Vec(-2, -3))

	next := ball.CollisionPass([]CollisionData{
		newCollisionData(wall, geometry.Vec(0.2, 0)),
		newCollisionData(wall, geometry.Vec(0, 0.3)),
	})

	// both translations apply, only the floor response survives
	moved := next.Position().PixelDistance(ball.Position())
	assert.InDelta(t, 0.2, moved.X, eps)
	assert.InDelta(t, 0.3, moved.Y, eps)
	assert.InDelta(t, -2, next.Velocity().X, eps)
	assert.InDelta(t, 3, next.Velocity().Y, eps)
}

func TestCollisionPassWithoutContactsIsIdentity(t *testing.T) {
	b := NewRigidBody(px(1, 1), nil, 1, nil)
	require.Same(t, b, b.CollisionPass(nil))
}

func TestHandleText(t *testing.T) {
	h := NewHandle()
	text, err := h.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, h.String(), string(text))
	assert.NotEqual(t, NilHandle, h)

	var back Handle
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, h, back)
	assert.Error(t, back.UnmarshalText([]byte("not-a-uuid")))
}
