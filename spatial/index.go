// Package spatial contains broad-phase indexes answering "what overlaps this
// region" over axis-aligned bounds: a rebalancing quadtree and a dynamic
// bounding-volume tree.
package spatial

import "github.com/plus3/vaabbit/shapes"

// Entry is a payload stored in an index together with the bounds it was
// inserted or last updated with.
type Entry[K any] struct {
	Payload K
	Bounds  shapes.AABB
}

// DebugNode describes one node of an index for visualization tooling.
// Size is the bucket length for quadtree nodes and 1/0 (leaf/internal) for
// dynamic tree nodes.
type DebugNode struct {
	Size   int
	Bounds shapes.AABB
}

// Index is the common capability of both broad-phase structures.
type Index[K any] interface {
	// Insert stores payload under bounds.
	Insert(payload K, bounds shapes.AABB)
	// Query appends every entry whose stored bounds overlap bounds to out.
	Query(bounds shapes.AABB, out []Entry[K]) []Entry[K]
	// Clear removes every entry.
	Clear()
	// Len returns the number of stored entries.
	Len() int
	// DebugInfo returns every node with its bucket size and region.
	DebugInfo() []DebugNode
}
