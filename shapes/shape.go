package shapes

// Shape is a collision shape. The set of implementations is closed:
// AABB and Circle.
type Shape interface {
	Bounds() AABB
	OverlapsShape(other Shape) bool
	TranslateShape(offset Vec2) Shape
}

// Overlap performs the exact overlap test between two shapes.
// A nil shape never overlaps anything.
func Overlap(a, b Shape) bool {
	switch sa := a.(type) {
	case AABB:
		switch sb := b.(type) {
		case AABB:
			return sa.Overlaps(sb)
		case Circle:
			return sb.OverlapsAABB(sa)
		}
	case Circle:
		switch sb := b.(type) {
		case AABB:
			return sa.OverlapsAABB(sb)
		case Circle:
			return sa.OverlapsCircle(sb)
		}
	}
	return false
}
