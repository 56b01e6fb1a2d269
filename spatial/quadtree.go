package spatial

import "github.com/plus3/vaabbit/shapes"

// QuadSplitThreshold is the bucket length above which a leaf node splits.
const QuadSplitThreshold = 8

type quadNode[K comparable] struct {
	bounds   shapes.AABB
	elements []Entry[K]
	children *[4]*quadNode[K]
}

// QuadTree stores each element at the shallowest node whose region fully
// contains the element's bounds. Elements that fit no child stay where they
// are, so ancestors may hold elements spanning several quadrants.
type QuadTree[K comparable] struct {
	root     *quadNode[K]
	maxDepth int
	count    int
}

// NewQuadTree creates a tree covering [-halfWidth,-halfHeight]..[halfWidth,halfHeight].
func NewQuadTree[K comparable](halfWidth, halfHeight float32, maxDepth int) *QuadTree[K] {
	return &QuadTree[K]{
		root: &quadNode[K]{
			bounds: shapes.NewAABB(shapes.V(-halfWidth, -halfHeight), shapes.V(halfWidth, halfHeight)),
		},
		maxDepth: maxDepth,
	}
}

// Bounds returns the region covered by the root node.
func (q *QuadTree[K]) Bounds() shapes.AABB {
	return q.root.bounds
}

func (q *QuadTree[K]) Insert(payload K, bounds shapes.AABB) {
	q.root.insert(Entry[K]{Payload: payload, Bounds: bounds}, 0, q.maxDepth)
	q.count++
}

func (n *quadNode[K]) insert(e Entry[K], depth, maxDepth int) {
	if n.children != nil {
		for _, child := range n.children {
			if child.bounds.Contains(e.Bounds) {
				child.insert(e, depth+1, maxDepth)
				return
			}
		}
	}

	n.elements = append(n.elements, e)
	if n.children == nil && len(n.elements) > QuadSplitThreshold && depth < maxDepth {
		n.split(depth, maxDepth)
	}
}

// split creates the four quadrants and moves every element that fits one of
// them down as deep as it can go.
func (n *quadNode[K]) split(depth, maxDepth int) {
	c := n.bounds.Center()
	mn, mx := n.bounds.Min, n.bounds.Max

	n.children = &[4]*quadNode[K]{
		{bounds: shapes.AABB{Min: mn, Max: c}},
		{bounds: shapes.AABB{Min: shapes.V(c.X, mn.Y), Max: shapes.V(mx.X, c.Y)}},
		{bounds: shapes.AABB{Min: shapes.V(mn.X, c.Y), Max: shapes.V(c.X, mx.Y)}},
		{bounds: shapes.AABB{Min: c, Max: mx}},
	}

	elements := n.elements
	n.elements = nil

	for _, e := range elements {
		placed := false
		for _, child := range n.children {
			if child.bounds.Contains(e.Bounds) {
				child.insert(e, depth+1, maxDepth)
				placed = true
				break
			}
		}
		if !placed {
			n.elements = append(n.elements, e)
		}
	}
}

// Query visits the root unconditionally and any child whose region overlaps
// bounds. Every housed element is checked for true overlap, since "fits in a
// child" and "overlaps the query" are different questions.
func (q *QuadTree[K]) Query(bounds shapes.AABB, out []Entry[K]) []Entry[K] {
	return q.root.query(bounds, out)
}

func (n *quadNode[K]) query(bounds shapes.AABB, out []Entry[K]) []Entry[K] {
	for _, e := range n.elements {
		if bounds.Overlaps(e.Bounds) {
			out = append(out, e)
		}
	}

	if n.children != nil {
		for _, child := range n.children {
			if bounds.Overlaps(child.bounds) {
				out = child.query(bounds, out)
			}
		}
	}
	return out
}

// RemoveFunc drops every element whose payload matches remove. Nodes keep
// their structure; emptied quadrants are not merged back.
func (q *QuadTree[K]) RemoveFunc(remove func(K) bool) int {
	removed := q.root.removeFunc(remove)
	q.count -= removed
	return removed
}

func (n *quadNode[K]) removeFunc(remove func(K) bool) int {
	removed := 0
	if n.children != nil {
		for _, child := range n.children {
			removed += child.removeFunc(remove)
		}
	}

	kept := n.elements[:0]
	for _, e := range n.elements {
		if remove(e.Payload) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	clear(n.elements[len(kept):])
	n.elements = kept
	return removed
}

func (q *QuadTree[K]) Clear() {
	q.root = &quadNode[K]{bounds: q.root.bounds}
	q.count = 0
}

func (q *QuadTree[K]) Len() int {
	return q.count
}

// Walk calls fn for every node in depth-first pre-order.
func (q *QuadTree[K]) Walk(fn func(depth int, bounds shapes.AABB, elements []Entry[K])) {
	q.root.walk(0, fn)
}

func (n *quadNode[K]) walk(depth int, fn func(int, shapes.AABB, []Entry[K])) {
	fn(depth, n.bounds, n.elements)
	if n.children != nil {
		for _, child := range n.children {
			child.walk(depth+1, fn)
		}
	}
}

// DebugInfo lists nodes children-first, each with its bucket size.
func (q *QuadTree[K]) DebugInfo() []DebugNode {
	out := make([]DebugNode, 0, 64)
	return q.root.debugInfo(out)
}

func (n *quadNode[K]) debugInfo(out []DebugNode) []DebugNode {
	if n.children != nil {
		for _, child := range n.children {
			out = child.debugInfo(out)
		}
	}
	return append(out, DebugNode{Size: len(n.elements), Bounds: n.bounds})
}
