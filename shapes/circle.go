package shapes

import "math"

// Circle is a disc centered on Pos.
type Circle struct {
	Pos    Vec2
	Radius float32
}

func (c Circle) Area() float32 {
	return math.Pi * c.Radius * c.Radius
}

func (c Circle) Diameter() float32 {
	return c.Radius * 2
}

func (c Circle) Bounds() AABB {
	r := Vec2{X: c.Radius, Y: c.Radius}
	return AABB{Min: c.Pos.Sub(r), Max: c.Pos.Add(r)}
}

func (c Circle) ContainsPoint(p Vec2) bool {
	return c.Pos.DistanceSquared(p) < c.Radius*c.Radius
}

// OverlapsCircle is strict: circles that only touch do not overlap.
func (c Circle) OverlapsCircle(o Circle) bool {
	r := c.Radius + o.Radius
	return c.Pos.DistanceSquared(o.Pos) < r*r
}

// OverlapsAABB clamps the center onto the box and compares the distance to
// that closest point with the radius.
func (c Circle) OverlapsAABB(a AABB) bool {
	closest := Vec2{
		X: min(max(c.Pos.X, a.Min.X), a.Max.X),
		Y: min(max(c.Pos.Y, a.Min.Y), a.Max.Y),
	}
	return c.Pos.DistanceSquared(closest) <= c.Radius*c.Radius
}

func (c Circle) OverlapsShape(s Shape) bool {
	return Overlap(c, s)
}

func (c Circle) TranslateShape(offset Vec2) Shape {
	return Circle{Pos: c.Pos.Add(offset), Radius: c.Radius}
}
