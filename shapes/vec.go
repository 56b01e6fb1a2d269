// Package shapes provides the 2D primitives used for broad and narrow phase
// collision checks: vectors, axis-aligned bounding boxes and circles.
package shapes

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float32
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

func (v Vec2) DistanceSquared(o Vec2) float32 {
	d := v.Sub(o)
	return d.Dot(d)
}

func (v Vec2) Distance(o Vec2) float32 {
	return float32(math.Sqrt(float64(v.DistanceSquared(o))))
}

// Min returns the component-wise minimum of v and o.
func (v Vec2) Min(o Vec2) Vec2 {
	return Vec2{X: min(v.X, o.X), Y: min(v.Y, o.Y)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec2) Max(o Vec2) Vec2 {
	return Vec2{X: max(v.X, o.X), Y: max(v.Y, o.Y)}
}
