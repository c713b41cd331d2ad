package world

import (
	"fmt"

	"github.com/zeusync/sectorsim/internal/core/geometry"
)

// SectorKey identifies a sector cell in 2D. It is comparable and used as the broad-phase
// grouping key.
type SectorKey struct {
	X, Y int
}

// Offset returns the key dx, dy cells away.
func (k SectorKey) Offset(dx, dy int) SectorKey {
	return SectorKey{X: k.X + dx, Y: k.Y + dy}
}

// Point is a 2D world position.
type Point struct {
	X, Y Coordinate
}

// Origin is sector (0, 0) with zero subposition.
var Origin = Point{}

// NewPoint creates a point from two coordinates.
func NewPoint(x, y Coordinate) Point {
	return Point{X: x, Y: y}
}

// PointInSector creates a point inside the given sector. The subposition is clamped.
func PointInSector(sectorX, sectorY int, subposition geometry.Vector2) Point {
	return Point{
		X: NewCoordinate(sectorX, subposition.X),
		Y: NewCoordinate(sectorY, subposition.Y),
	}
}

// PointFromPixels converts an absolute pixel position into a world point.
func PointFromPixels(pos geometry.Vector2) Point {
	return Origin.PixelTranslate(pos)
}

// Sector returns the sector cell containing p.
func (p Point) Sector() SectorKey {
	return SectorKey{X: p.X.Sector, Y: p.Y.Sector}
}

// Subposition returns the fractional position of p inside its sector.
func (p Point) Subposition() geometry.Vector2 {
	return geometry.Vec(p.X.Subposition, p.Y.Subposition)
}

func (p Point) Add(o Point) Point { return Point{X: p.X.Add(o.X), Y: p.Y.Add(o.Y)} }
func (p Point) Sub(o Point) Point { return Point{X: p.X.Sub(o.X), Y: p.Y.Sub(o.Y)} }

func (p Point) Equal(o Point) bool {
	return p.X.Equal(o.X) && p.Y.Equal(o.Y)
}

// Clamp limits each axis of p to the box spanned by lower and upper.
func (p Point) Clamp(lower, upper Point) Point {
	return Point{X: p.X.Clamp(lower.X, upper.X), Y: p.Y.Clamp(lower.Y, upper.Y)}
}

// PixelTranslate moves p by dist world units.
func (p Point) PixelTranslate(dist geometry.Vector2) Point {
	return Point{X: p.X.PixelTranslate(dist.X), Y: p.Y.PixelTranslate(dist.Y)}
}

// PixelDistance returns the vector from o to p in world units.
func (p Point) PixelDistance(o Point) geometry.Vector2 {
	return geometry.Vec(p.X.PixelDistance(o.X), p.Y.PixelDistance(o.Y))
}

// LerpPoint interpolates between a and b on both axes.
func LerpPoint(a, b Point, t float64) Point {
	return Point{X: LerpCoordinate(a.X, b.X, t), Y: LerpCoordinate(a.Y, b.Y, t)}
}

// LeastCommonSector returns the origin of the lowest sector on each axis across points.
// It gives a shared local origin from which every point is a small, non-negative pixel
// offset. No points yields Origin.
func LeastCommonSector(points ...Point) Point {
	if len(points) == 0 {
		return Origin
	}

	x, y := points[0].X.Sector, points[0].Y.Sector
	for _, p := range points[1:] {
		x = min(x, p.X.Sector)
		y = min(y, p.Y.Sector)
	}

	return Point{X: Coordinate{Sector: x}, Y: Coordinate{Sector: y}}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d), (%.6f, %.6f)", p.X.Sector, p.Y.Sector, p.X.Subposition, p.Y.Subposition)
}
