// Package geometry holds the float-space primitives shared by the physics core:
// vectors, polygons and rectangles. All types are immutable values.
package geometry

import (
	"fmt"
	"math"
)

// Vector2 represents a 2D vector in pixel space.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Common directions.
var (
	Zero  = Vector2{}
	Right = Vector2{X: 1}
	Up    = Vector2{Y: 1}
	Left  = Vector2{X: -1}
	Down  = Vector2{Y: -1}
)

// Vec creates a new Vector2.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// FromAngle returns the unit vector pointing at the given angle in degrees.
func FromAngle(degrees float64) Vector2 {
	rad := degrees * math.Pi / 180
	return Vector2{X: math.Cos(rad), Y: math.Sin(rad)}
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}
func (v Vector2) Neg() Vector2 { return Vector2{X: -v.X, Y: -v.Y} }

// Dot returns the dot product of v and o.
func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// SqrMagnitude returns the squared length. Use it for comparisons to avoid the sqrt.
func (v Vector2) SqrMagnitude() float64 {
	return v.Dot(v)
}

// Magnitude returns the length of v.
func (v Vector2) Magnitude() float64 {
	return math.Sqrt(v.SqrMagnitude())
}

// IsZero reports whether both components are exactly zero.
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// LeftNormal returns v rotated 90 degrees clockwise: (y, -x).
func (v Vector2) LeftNormal() Vector2 {
	return Vector2{X: v.Y, Y: -v.X}
}

// RightNormal returns v rotated 90 degrees counter-clockwise: (-y, x).
func (v Vector2) RightNormal() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

// Normalize returns the unit vector of v. The zero vector normalizes to itself.
func (v Vector2) Normalize() Vector2 {
	mag := v.Magnitude()
	if mag > 0 {
		return v.Scale(1 / mag)
	}
	return v
}

// ClampMagnitude rescales v so its length lies within [min, max].
// The zero vector has no direction and is returned unchanged.
func (v Vector2) ClampMagnitude(min, max float64) Vector2 {
	mag := v.Magnitude()
	if mag == 0 {
		return v
	}
	switch {
	case mag < min:
		return v.Scale(min / mag)
	case mag > max:
		return v.Scale(max / mag)
	default:
		return v
	}
}

// Project returns the vector projection of v onto onto.
// Projecting onto the zero vector yields the zero vector.
func (v Vector2) Project(onto Vector2) Vector2 {
	sqr := onto.SqrMagnitude()
	if sqr == 0 {
		return Zero
	}
	return onto.Scale(v.Dot(onto) / sqr)
}

// Angle returns the direction of v in degrees.
func (v Vector2) Angle() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b Vector2, t float64) Vector2 {
	return a.Add(b.Sub(a).Scale(t))
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
