package collision

import (
	"math"

	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/world"
)

// TestPair tests two colliders placed at world positions for intersection.
//
// Both positions are first expressed relative to their least common sector, so the SAT
// math runs on small local offsets even when the bodies are far from the origin. Axes from
// a are tested before axes from b; the first axis with no overlap ends the test.
//
// On collision the minimum translation vector is returned. It lies along the axis of least
// overlap, is scaled by that overlap, and points from b toward a.
func TestPair(posA world.Point, a Collider, posB world.Point, b Collider) (geometry.Vector2, bool) {
	if a == nil || b == nil {
		return geometry.Zero, false
	}

	origin := world.LeastCommonSector(posA, posB)
	localA := posA.PixelDistance(origin)
	localB := posB.PixelDistance(origin)

	minOverlap := math.MaxFloat64
	var mtv geometry.Vector2
	tested := 0

	test := func(axis geometry.Vector2) bool {
		projA := a.Project(localA, axis)
		projB := b.Project(localB, axis)

		if !Overlaps(projA, projB) {
			return false
		}
		overlap := Overlap(projA, projB)
		if overlap <= 0 {
			return false
		}

		tested++
		if overlap < minOverlap {
			minOverlap = overlap
			mtv = axis
		}
		return true
	}

	for axis := range a.SeparatingAxes() {
		if !test(axis) {
			return geometry.Zero, false
		}
	}
	for axis := range b.SeparatingAxes() {
		if !test(axis) {
			return geometry.Zero, false
		}
	}

	// degenerate colliders offer no axes and can't collide
	if tested == 0 {
		return geometry.Zero, false
	}

	if localA.Sub(localB).Dot(mtv) < 0 {
		mtv = mtv.Neg()
	}

	return mtv.Scale(minOverlap), true
}
