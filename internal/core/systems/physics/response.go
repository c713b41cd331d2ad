package physics

import (
	"math"

	"github.com/zeusync/sectorsim/internal/core/geometry"
)

// restingTangentEpsilon is the tangential momentum below which a contact counts as
// resting and static friction applies instead of kinetic.
const restingTangentEpsilon = 0.002

// contact is the part of a body the response math needs.
type contact struct {
	velocity geometry.Vector2
	mass     float64
	material *Material
}

func contactOf(b Body) contact {
	return contact{velocity: b.Velocity(), mass: b.Mass(), material: materialOrDefault(b.Material())}
}

// resolveVelocity returns self's velocity after a contact with other. normal points from
// other toward self.
func resolveVelocity(self, other contact, normal geometry.Vector2) geometry.Vector2 {
	if math.IsInf(self.mass, 1) || normal.IsZero() {
		return self.velocity
	}

	normalVA := self.velocity.Project(normal)
	tangentVA := self.velocity.Sub(normalVA)

	newNormal := normalVA
	// bodies already moving apart keep their normal velocity
	if self.velocity.Sub(other.velocity).Dot(normal) <= 0 {
		restitution := (self.material.Restitution + other.material.Restitution) / 2
		normalVB := other.velocity.Project(normal)
		newNormal = transferMomentum(normalVA, normalVB, self.mass, other.mass, restitution)
	}

	friction := frictionForce(self, other, normal)

	return newNormal.Add(tangentVA).Add(friction.Scale(1 / self.mass))
}

// transferMomentum resolves the normal velocity of a against b with restitution c.
func transferMomentum(va, vb geometry.Vector2, ma, mb, c float64) geometry.Vector2 {
	if math.IsInf(mb, 1) {
		return va.Scale(-c)
	}
	return va.Scale(ma).
		Add(vb.Scale(mb)).
		Add(vb.Sub(va).Scale(mb * c)).
		Scale(1 / (ma + mb))
}

// frictionForce opposes the tangential part of the relative momentum. Its magnitude never
// exceeds that tangential momentum, so friction alone can't reverse motion.
func frictionForce(self, other contact, normal geometry.Vector2) geometry.Vector2 {
	momentum := self.velocity.Sub(other.velocity).Scale(self.mass)
	normalForce := momentum.Project(normal)
	tangent := momentum.Sub(normalForce)
	tangentMag := tangent.Magnitude()

	coefficient := (self.material.KineticFriction + other.material.KineticFriction) / 2
	if tangentMag < restingTangentEpsilon {
		coefficient = (self.material.StaticFriction + other.material.StaticFriction) / 2
	}

	force := tangent.Normalize().Neg().Scale(normalForce.Magnitude() * coefficient)
	return force.ClampMagnitude(0, tangentMag)
}
