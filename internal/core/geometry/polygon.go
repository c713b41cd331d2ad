package geometry

// Polygon is an ordered, immutable sequence of vertices in local space.
// The last vertex connects back to the first.
type Polygon struct {
	points []Vector2
}

// NewPolygon creates a polygon from the given vertices. The slice is copied.
func NewPolygon(points ...Vector2) Polygon {
	cp := make([]Vector2, len(points))
	copy(cp, points)
	return Polygon{points: cp}
}

// Len returns the vertex count.
func (p Polygon) Len() int {
	return len(p.points)
}

// Point returns the i-th vertex.
func (p Polygon) Point(i int) Vector2 {
	return p.points[i]
}

// Points returns a copy of the vertices.
func (p Polygon) Points() []Vector2 {
	cp := make([]Vector2, len(p.points))
	copy(cp, p.points)
	return cp
}

// Translate returns a new polygon with every vertex offset by t.
func (p Polygon) Translate(t Vector2) Polygon {
	out := make([]Vector2, len(p.points))
	for i, pt := range p.points {
		out[i] = pt.Add(t)
	}
	return Polygon{points: out}
}

// Edges calls fn for each edge (prev -> current) in vertex order, starting with the
// wrap-around edge from the last vertex to the first. Iteration stops when fn returns false.
func (p Polygon) Edges(fn func(from, to Vector2) bool) {
	if len(p.points) < 2 {
		return
	}
	prev := p.points[len(p.points)-1]
	for _, cur := range p.points {
		if !fn(prev, cur) {
			return
		}
		prev = cur
	}
}
