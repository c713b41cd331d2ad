// Package world implements the virtualized, sector-based world coordinate system.
//
// A position on each axis is an integer sector plus a fractional subposition in [0, 1).
// Float math is only ever done on subpositions and sector differences, so precision does
// not degrade far away from the origin.
package world

import (
	"fmt"
	"math"
)

// PixelsPerSector is the span of one sector in world units (pixels).
const PixelsPerSector = 200

// maxSubposition is the largest float below 1, the upper bound used in clamping mode.
var maxSubposition = math.Nextafter(1, 0)

// Coordinate is a single-axis world position.
type Coordinate struct {
	Sector      int
	Subposition float64
}

// NewCoordinate creates a coordinate, clamping subposition into [0, 1).
func NewCoordinate(sector int, subposition float64) Coordinate {
	if math.IsNaN(subposition) {
		subposition = 0
	}
	return Coordinate{
		Sector:      sector,
		Subposition: math.Min(math.Max(subposition, 0), maxSubposition),
	}
}

// WrapCoordinate creates a coordinate, carrying subposition overflow and underflow into
// the sector so that the result's subposition lies in [0, 1).
// Non-finite subpositions are treated as zero.
func WrapCoordinate(sector int, subposition float64) Coordinate {
	if math.IsNaN(subposition) || math.IsInf(subposition, 0) {
		return Coordinate{Sector: sector}
	}

	carry := math.Floor(subposition)
	sector += int(carry)
	subposition -= carry

	// a tiny negative input can round up to exactly 1 after the carry
	if subposition >= 1 {
		sector++
		subposition = 0
	}

	return Coordinate{Sector: sector, Subposition: subposition}
}

func (c Coordinate) Add(o Coordinate) Coordinate {
	return WrapCoordinate(c.Sector+o.Sector, c.Subposition+o.Subposition)
}

func (c Coordinate) Sub(o Coordinate) Coordinate {
	return WrapCoordinate(c.Sector-o.Sector, c.Subposition-o.Subposition)
}

func (c Coordinate) Equal(o Coordinate) bool {
	return c.Sector == o.Sector && c.Subposition == o.Subposition
}

func (c Coordinate) Less(o Coordinate) bool {
	if c.Sector == o.Sector {
		return c.Subposition < o.Subposition
	}
	return c.Sector < o.Sector
}

func (c Coordinate) Greater(o Coordinate) bool {
	if c.Sector == o.Sector {
		return c.Subposition > o.Subposition
	}
	return c.Sector > o.Sector
}

// Clamp limits c to the range [lower, upper].
func (c Coordinate) Clamp(lower, upper Coordinate) Coordinate {
	switch {
	case c.Less(lower):
		return lower
	case c.Greater(upper):
		return upper
	default:
		return c
	}
}

// PixelTranslate moves the coordinate by dist world units.
func (c Coordinate) PixelTranslate(dist float64) Coordinate {
	return WrapCoordinate(c.Sector, c.Subposition+dist/PixelsPerSector)
}

// PixelDistance returns the signed distance from o to c in world units.
func (c Coordinate) PixelDistance(o Coordinate) float64 {
	secDiff := float64(c.Sector - o.Sector)
	subDiff := c.Subposition - o.Subposition
	return (secDiff + subDiff) * PixelsPerSector
}

// LerpCoordinate interpolates between a and b. The whole-sector part of the
// interpolated sector delta is applied as an integer; only the remainder goes through
// the subposition.
func LerpCoordinate(a, b Coordinate, t float64) Coordinate {
	diff := b.Sub(a)
	secAdd := float64(diff.Sector) * t
	secWhole := math.Floor(secAdd)

	sub := a.Subposition + diff.Subposition*t + (secAdd - secWhole)
	return WrapCoordinate(a.Sector+int(secWhole), sub)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d:%.6f", c.Sector, c.Subposition)
}
