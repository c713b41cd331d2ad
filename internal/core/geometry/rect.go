package geometry

// Rect is an axis-aligned rectangle described by its center and half-size.
type Rect struct {
	Center  Vector2
	Extents Vector2
}

// NewRect creates a rect from its center and extents (half-size).
func NewRect(center, extents Vector2) Rect {
	return Rect{Center: center, Extents: extents}
}

func (r Rect) Size() Vector2        { return r.Extents.Scale(2) }
func (r Rect) Left() Vector2        { return r.Center.Sub(Vec(r.Extents.X, 0)) }
func (r Rect) Right() Vector2       { return r.Center.Add(Vec(r.Extents.X, 0)) }
func (r Rect) Bottom() Vector2      { return r.Center.Sub(Vec(0, r.Extents.Y)) }
func (r Rect) Top() Vector2         { return r.Center.Add(Vec(0, r.Extents.Y)) }
func (r Rect) BottomLeft() Vector2  { return r.Center.Sub(r.Extents) }
func (r Rect) TopLeft() Vector2     { return r.Center.Add(Vec(-r.Extents.X, r.Extents.Y)) }
func (r Rect) TopRight() Vector2    { return r.Center.Add(r.Extents) }
func (r Rect) BottomRight() Vector2 { return r.Center.Add(Vec(r.Extents.X, -r.Extents.Y)) }

// Polygon returns the rect as a counter-clockwise box polygon.
func (r Rect) Polygon() Polygon {
	return NewPolygon(r.BottomLeft(), r.BottomRight(), r.TopRight(), r.TopLeft())
}
