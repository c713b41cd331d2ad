package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestVectorArithmetic(t *testing.T) {
	a := Vec(3, 4)
	b := Vec(-1, 2)

	assert.Equal(t, Vec(2, 6), a.Add(b))
	assert.Equal(t, Vec(4, 2), a.Sub(b))
	assert.Equal(t, Vec(6, 8), a.Scale(2))
	assert.Equal(t, Vec(-3, -4), a.Neg())
	assert.Equal(t, 5.0, a.Dot(b))
	assert.Equal(t, 25.0, a.SqrMagnitude())
	assert.Equal(t, 5.0, a.Magnitude())
}

func TestVectorNormalize(t *testing.T) {
	n := Vec(3, 4).Normalize()
	assert.InDelta(t, 1, n.Magnitude(), eps)
	assert.InDelta(t, 0.6, n.X, eps)
	assert.InDelta(t, 0.8, n.Y, eps)

	assert.Equal(t, Zero, Zero.Normalize(), "zero vector normalizes to itself")
}

func TestVectorNormals(t *testing.T) {
	v := Vec(1, 0)
	assert.Equal(t, Vec(0, -1), v.LeftNormal())
	assert.Equal(t, Vec(0, 1), v.RightNormal())
	assert.Zero(t, v.Dot(v.LeftNormal()))
}

func TestVectorClampMagnitude(t *testing.T) {
	tests := []struct {
		name     string
		in       Vector2
		min, max float64
		wantMag  float64
	}{
		{name: "below min", in: Vec(0.5, 0), min: 1, max: 2, wantMag: 1},
		{name: "above max", in: Vec(0, 10), min: 1, max: 2, wantMag: 2},
		{name: "within", in: Vec(1.5, 0), min: 1, max: 2, wantMag: 1.5},
		{name: "zero", in: Zero, min: 1, max: 2, wantMag: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ClampMagnitude(tt.min, tt.max)
			assert.InDelta(t, tt.wantMag, got.Magnitude(), eps)
			if !tt.in.IsZero() {
				assert.InDelta(t, tt.in.Angle(), got.Angle(), eps, "direction preserved")
			}
		})
	}
}

func TestVectorProject(t *testing.T) {
	p := Vec(2, 3).Project(Vec(10, 0))
	assert.Equal(t, Vec(2, 0), p)

	p = Vec(1, 1).Project(Vec(1, -1))
	assert.InDelta(t, 0, p.Magnitude(), eps)

	assert.Equal(t, Zero, Vec(1, 1).Project(Zero))
}

func TestVectorAngle(t *testing.T) {
	v := FromAngle(90)
	assert.InDelta(t, 0, v.X, eps)
	assert.InDelta(t, 1, v.Y, eps)
	assert.InDelta(t, 45, Vec(1, 1).Angle(), eps)
	assert.InDelta(t, 180, math.Abs(Left.Angle()), eps)
}

func TestLerp(t *testing.T) {
	assert.Equal(t, Vec(5, 10), Lerp(Zero, Vec(10, 20), 0.5))
}

func TestPolygonTranslate(t *testing.T) {
	p := NewPolygon(Vec(0, 0), Vec(1, 0), Vec(1, 1))
	moved := p.Translate(Vec(10, -2))

	assert.Equal(t, 3, moved.Len())
	assert.Equal(t, Vec(10, -2), moved.Point(0))
	assert.Equal(t, Vec(11, -1), moved.Point(2))
	assert.Equal(t, Vec(0, 0), p.Point(0), "original untouched")
}

func TestPolygonIsolatedFromInput(t *testing.T) {
	pts := []Vector2{Vec(0, 0), Vec(1, 0)}
	p := NewPolygon(pts...)
	pts[0] = Vec(99, 99)

	assert.Equal(t, Vec(0, 0), p.Point(0))

	out := p.Points()
	out[1] = Vec(42, 42)
	assert.Equal(t, Vec(1, 0), p.Point(1))
}

func TestPolygonEdges(t *testing.T) {
	p := NewPolygon(Vec(0, 0), Vec(1, 0), Vec(1, 1))

	var edges [][2]Vector2
	p.Edges(func(from, to Vector2) bool {
		edges = append(edges, [2]Vector2{from, to})
		return true
	})

	assert.Equal(t, [][2]Vector2{
		{Vec(1, 1), Vec(0, 0)},
		{Vec(0, 0), Vec(1, 0)},
		{Vec(1, 0), Vec(1, 1)},
	}, edges)

	count := 0
	p.Edges(func(_, _ Vector2) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count, "early stop")

	NewPolygon(Vec(1, 1)).Edges(func(_, _ Vector2) bool {
		t.Fatal("single-point polygon has no edges")
		return true
	})
}

func TestRectPolygon(t *testing.T) {
	r := NewRect(Vec(10, 10), Vec(2, 1))

	assert.Equal(t, Vec(4, 2), r.Size())
	assert.Equal(t, Vec(8, 10), r.Left())
	assert.Equal(t, Vec(10, 11), r.Top())

	poly := r.Polygon()
	assert.Equal(t, []Vector2{Vec(8, 9), Vec(12, 9), Vec(12, 11), Vec(8, 11)}, poly.Points())
}
