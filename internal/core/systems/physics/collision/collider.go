// Package collision implements narrow-phase collision detection using the
// separating axis theorem (SAT).
package collision

import (
	"iter"

	"github.com/zeusync/sectorsim/internal/core/geometry"
)

// Collider is the collidable representation of a body.
// It provides the per-shape data SAT needs: candidate separating axes and 1D projections.
type Collider interface {
	// SeparatingAxes yields one unit axis per shape edge. Consumers stop pulling as soon
	// as an axis separates the shapes, so implementations should produce axes lazily.
	SeparatingAxes() iter.Seq[geometry.Vector2]

	// Project translates the shape by position (a local-space offset chosen by the caller)
	// and projects it onto axis.
	Project(position, axis geometry.Vector2) Projection
}

var _ Collider = (*ConvexCollider)(nil)

// ConvexCollider is a collider shaped as a convex polygon.
//
// The polygon must be convex; concave input produces incorrect SAT results and is not
// checked. Polygons with fewer than two vertices yield no axes and never collide. A nil
// *ConvexCollider behaves like an empty polygon.
type ConvexCollider struct {
	shape geometry.Polygon
}

// NewConvexCollider creates a collider from a convex polygon.
func NewConvexCollider(shape geometry.Polygon) *ConvexCollider {
	return &ConvexCollider{shape: shape}
}

// NewBoxCollider creates a collider for an axis-aligned box of the given size whose
// bottom-left corner sits at the body's position.
func NewBoxCollider(width, height float64) *ConvexCollider {
	return NewConvexCollider(geometry.NewPolygon(
		geometry.Vec(0, 0),
		geometry.Vec(width, 0),
		geometry.Vec(width, height),
		geometry.Vec(0, height),
	))
}

// Shape returns the collider polygon.
func (c *ConvexCollider) Shape() geometry.Polygon {
	if c == nil {
		return geometry.Polygon{}
	}
	return c.shape
}

// SeparatingAxes yields the normalized left normal of each edge, in vertex order.
func (c *ConvexCollider) SeparatingAxes() iter.Seq[geometry.Vector2] {
	return func(yield func(geometry.Vector2) bool) {
		if c == nil {
			return
		}
		c.shape.Edges(func(from, to geometry.Vector2) bool {
			return yield(to.Sub(from).Normalize().LeftNormal())
		})
	}
}

// Project returns the [min, max] interval of the dot product of every translated vertex
// against axis.
func (c *ConvexCollider) Project(position, axis geometry.Vector2) Projection {
	if c == nil {
		return Projection{}
	}
	n := c.shape.Len()
	if n == 0 {
		return Projection{}
	}

	first := c.shape.Point(0).Add(position).Dot(axis)
	proj := Projection{Min: first, Max: first}
	for i := 1; i < n; i++ {
		dot := c.shape.Point(i).Add(position).Dot(axis)
		proj.Min = min(proj.Min, dot)
		proj.Max = max(proj.Max, dot)
	}

	return proj
}
