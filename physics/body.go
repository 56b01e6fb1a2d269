// Package physics keeps the bodies of a world in a spatial index and answers
// region queries over them. Moves are recorded as insert-new plus
// mark-old; marked bodies are dropped once per frame by Cleanup.
package physics

import (
	"fmt"

	"github.com/plus3/vaabbit/shapes"
)

// Kind classifies a body. Nodes are positional only and never collide.
type Kind uint8

const (
	KindNode Kind = iota
	KindActor
	KindSolid
	KindZone
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindActor:
		return "actor"
	case KindSolid:
		return "solid"
	case KindZone:
		return "zone"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Body is the spatial presence of an owner. Shape is in local coordinates
// and is translated by Pos; a nil Shape means the body has no extent.
type Body[ID any] struct {
	Kind  Kind
	Pos   shapes.Vec2
	Shape shapes.Shape
	Owner ID
}

// Bounds returns the world-space bounds of the body. A shapeless body is a
// point box at Pos.
func (b *Body[ID]) Bounds() shapes.AABB {
	if b.Shape == nil {
		return shapes.AABB{Min: b.Pos, Max: b.Pos}
	}
	return b.Shape.Bounds().Translate(b.Pos)
}

// WorldShape returns the shape translated to Pos, or nil.
func (b *Body[ID]) WorldShape() shapes.Shape {
	if b.Shape == nil {
		return nil
	}
	return b.Shape.TranslateShape(b.Pos)
}

// Overlaps reports exact overlap of the two world shapes. Nodes and
// shapeless bodies never overlap anything.
func (b *Body[ID]) Overlaps(o *Body[ID]) bool {
	if b.Kind == KindNode || o.Kind == KindNode {
		return false
	}
	if b.Shape == nil || o.Shape == nil {
		return false
	}
	return shapes.Overlap(b.WorldShape(), o.WorldShape())
}
