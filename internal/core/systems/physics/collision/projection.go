package collision

// Projection is the 1D interval a collider covers on an axis.
type Projection struct {
	Min, Max float64
}

// Overlaps reports whether the two intervals intersect (touching counts).
func Overlaps(a, b Projection) bool {
	return a.Min <= b.Max && b.Min <= a.Max
}

// Overlap returns the length of the intersection of a and b, or 0 when they don't
// intersect. A zero return is ambiguous between "disjoint" and "touching"; use Overlaps
// when the distinction matters.
func Overlap(a, b Projection) float64 {
	if !Overlaps(a, b) {
		return 0
	}
	return min(a.Max, b.Max) - max(a.Min, b.Min)
}
