package shapes

// AABB is an axis-aligned bounding box. Min holds the smallest coordinates
// and Max the largest; both edges are inclusive.
type AABB struct {
	Min Vec2
	Max Vec2
}

// NewAABB creates a box from two corners, normalizing their order.
func NewAABB(a, b Vec2) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// FromPosSize creates a box whose lower corner is pos.
func FromPosSize(pos, size Vec2) AABB {
	return AABB{Min: pos, Max: pos.Add(size)}
}

// Overlaps reports whether the boxes share at least one point.
// Boxes that only touch along an edge overlap.
func (a AABB) Overlaps(o AABB) bool {
	return a.Min.X <= o.Max.X &&
		a.Max.X >= o.Min.X &&
		a.Min.Y <= o.Max.Y &&
		a.Max.Y >= o.Min.Y
}

// Contains reports whether o lies entirely inside a.
func (a AABB) Contains(o AABB) bool {
	return a.ContainsPoint(o.Min) && a.ContainsPoint(o.Max)
}

func (a AABB) ContainsPoint(p Vec2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

// Union returns the smallest box enclosing both a and o.
func (a AABB) Union(o AABB) AABB {
	return AABB{Min: a.Min.Min(o.Min), Max: a.Max.Max(o.Max)}
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float32) AABB {
	m := Vec2{X: margin, Y: margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

func (a AABB) Translate(offset Vec2) AABB {
	return AABB{Min: a.Min.Add(offset), Max: a.Max.Add(offset)}
}

func (a AABB) Size() Vec2 {
	return a.Max.Sub(a.Min)
}

func (a AABB) Width() float32 {
	return a.Max.X - a.Min.X
}

func (a AABB) Height() float32 {
	return a.Max.Y - a.Min.Y
}

func (a AABB) Area() float32 {
	return a.Width() * a.Height()
}

// Perimeter is the cost metric used when choosing where to insert into a
// dynamic tree.
func (a AABB) Perimeter() float32 {
	return 2 * (a.Width() + a.Height())
}

func (a AABB) Center() Vec2 {
	return Vec2{X: (a.Min.X + a.Max.X) / 2, Y: (a.Min.Y + a.Max.Y) / 2}
}

// Bounds makes AABB a Shape.
func (a AABB) Bounds() AABB {
	return a
}

// OverlapsShape reports exact overlap with any other shape.
func (a AABB) OverlapsShape(s Shape) bool {
	return Overlap(a, s)
}

func (a AABB) TranslateShape(offset Vec2) Shape {
	return a.Translate(offset)
}
