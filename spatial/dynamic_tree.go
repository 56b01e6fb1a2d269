package spatial

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/vaabbit/shapes"
)

// DefaultMargin is the amount leaf bounds are fattened by on insert.
const DefaultMargin float32 = 2

const nullNode int32 = -1

type treeNode[K any] struct {
	// fat bounds for leaves, union of children for internal nodes
	bounds shapes.AABB
	// tight bounds of the payload, leaves only
	tight  shapes.AABB
	parent int32
	left   int32
	right  int32
	// next free node while on the free list
	next    int32
	payload K
}

func (n *treeNode[K]) isLeaf() bool {
	return n.left == nullNode
}

// DynamicTree is a bounding-volume hierarchy whose leaves hold payloads under
// bounds fattened by a margin. Moves that stay inside the fattened bounds need
// no restructuring, see TryUpdate.
type DynamicTree[K intmap.IntKey] struct {
	nodes    []treeNode[K]
	freeList int32
	root     int32
	margin   float32
	leaves   *intmap.Map[K, int32]

	stack []int32
}

// NewDynamicTree creates an empty tree. A negative margin is treated as zero.
func NewDynamicTree[K intmap.IntKey](margin float32) *DynamicTree[K] {
	if margin < 0 {
		margin = 0
	}
	return &DynamicTree[K]{
		freeList: nullNode,
		root:     nullNode,
		margin:   margin,
		leaves:   intmap.New[K, int32](64),
		stack:    make([]int32, 0, 64),
	}
}

func (t *DynamicTree[K]) allocNode() int32 {
	if t.freeList != nullNode {
		i := t.freeList
		t.freeList = t.nodes[i].next
		t.nodes[i] = treeNode[K]{parent: nullNode, left: nullNode, right: nullNode, next: nullNode}
		return i
	}
	t.nodes = append(t.nodes, treeNode[K]{parent: nullNode, left: nullNode, right: nullNode, next: nullNode})
	return int32(len(t.nodes) - 1)
}

func (t *DynamicTree[K]) freeNode(i int32) {
	var zero K
	t.nodes[i].payload = zero
	t.nodes[i].left = nullNode
	t.nodes[i].right = nullNode
	t.nodes[i].parent = nullNode
	t.nodes[i].next = t.freeList
	t.freeList = i
}

// Insert adds a leaf for payload. Inserting a payload that is already present
// replaces its previous leaf.
func (t *DynamicTree[K]) Insert(payload K, bounds shapes.AABB) {
	if t.leaves.Has(payload) {
		t.Remove(payload)
	}

	fat := bounds.Expand(t.margin)
	leaf := t.allocNode()
	t.nodes[leaf].bounds = fat
	t.nodes[leaf].tight = bounds
	t.nodes[leaf].payload = payload
	t.leaves.Put(payload, leaf)

	if t.root == nullNode {
		t.root = leaf
		return
	}

	sibling := t.findBestSibling(fat)
	oldParent := t.nodes[sibling].parent

	parent := t.allocNode()
	t.nodes[parent].bounds = t.nodes[sibling].bounds.Union(fat)
	t.nodes[parent].parent = oldParent
	t.nodes[parent].left = sibling
	t.nodes[parent].right = leaf

	t.nodes[sibling].parent = parent
	t.nodes[leaf].parent = parent

	if oldParent == nullNode {
		t.root = parent
	} else if t.nodes[oldParent].left == sibling {
		t.nodes[oldParent].left = parent
	} else {
		t.nodes[oldParent].right = parent
	}

	t.fixUpwards(oldParent)
}

// findBestSibling descends greedily, picking at each internal node the child
// whose union with bounds has the smaller perimeter.
func (t *DynamicTree[K]) findBestSibling(bounds shapes.AABB) int32 {
	i := t.root
	for {
		n := &t.nodes[i]
		if n.isLeaf() {
			return i
		}

		costLeft := t.nodes[n.left].bounds.Union(bounds).Perimeter()
		costRight := t.nodes[n.right].bounds.Union(bounds).Perimeter()
		if costLeft < costRight {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// fixUpwards refits every internal node from i to the root.
func (t *DynamicTree[K]) fixUpwards(i int32) {
	for i != nullNode {
		n := &t.nodes[i]
		n.bounds = t.nodes[n.left].bounds.Union(t.nodes[n.right].bounds)
		i = n.parent
	}
}

// TryUpdate reports whether bounds still fit inside the fattened leaf of
// payload. When they do, the leaf's tight bounds are refreshed and the tree
// shape is left untouched. False means the caller must remove and reinsert;
// unknown payloads also return false.
func (t *DynamicTree[K]) TryUpdate(bounds shapes.AABB, payload K) bool {
	leaf, ok := t.leaves.Get(payload)
	if !ok {
		return false
	}
	n := &t.nodes[leaf]
	if !n.bounds.Contains(bounds) {
		return false
	}
	n.tight = bounds
	return true
}

// Remove deletes the leaf for payload, promoting its sibling into the
// parent's place.
func (t *DynamicTree[K]) Remove(payload K) bool {
	leaf, ok := t.leaves.Get(payload)
	if !ok {
		return false
	}
	t.leaves.Del(payload)

	if leaf == t.root {
		t.root = nullNode
		t.freeNode(leaf)
		return true
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	sibling := t.nodes[parent].left
	if sibling == leaf {
		sibling = t.nodes[parent].right
	}

	if grandParent == nullNode {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
	} else {
		if t.nodes[grandParent].left == parent {
			t.nodes[grandParent].left = sibling
		} else {
			t.nodes[grandParent].right = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.fixUpwards(grandParent)
	}

	t.freeNode(parent)
	t.freeNode(leaf)
	return true
}

// Query appends every leaf whose bounds overlap bounds. Subtrees are pruned
// by their fattened bounds; leaves are matched on their tight bounds.
func (t *DynamicTree[K]) Query(bounds shapes.AABB, out []Entry[K]) []Entry[K] {
	if t.root == nullNode {
		return out
	}

	stack := append(t.stack[:0], t.root)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[i]
		if !bounds.Overlaps(n.bounds) {
			continue
		}

		if n.isLeaf() {
			if bounds.Overlaps(n.tight) {
				out = append(out, Entry[K]{Payload: n.payload, Bounds: n.tight})
			}
			continue
		}

		stack = append(stack, n.left, n.right)
	}
	t.stack = stack[:0]
	return out
}

// Contains reports whether payload has a leaf in the tree.
func (t *DynamicTree[K]) Contains(payload K) bool {
	return t.leaves.Has(payload)
}

// LeafBounds returns the fattened bounds stored for payload.
func (t *DynamicTree[K]) LeafBounds(payload K) (shapes.AABB, bool) {
	leaf, ok := t.leaves.Get(payload)
	if !ok {
		return shapes.AABB{}, false
	}
	return t.nodes[leaf].bounds, true
}

func (t *DynamicTree[K]) Clear() {
	t.nodes = t.nodes[:0]
	t.freeList = nullNode
	t.root = nullNode
	t.leaves.Clear()
}

func (t *DynamicTree[K]) Len() int {
	return t.leaves.Len()
}

// Walk visits every node in depth-first pre-order. children is nil for
// leaves and holds the two child bounds for internal nodes.
func (t *DynamicTree[K]) Walk(fn func(depth int, bounds shapes.AABB, leaf bool, children []shapes.AABB)) {
	if t.root == nullNode {
		return
	}
	t.walk(t.root, 0, fn)
}

func (t *DynamicTree[K]) walk(i int32, depth int, fn func(int, shapes.AABB, bool, []shapes.AABB)) {
	n := &t.nodes[i]
	if n.isLeaf() {
		fn(depth, n.bounds, true, nil)
		return
	}
	fn(depth, n.bounds, false, []shapes.AABB{t.nodes[n.left].bounds, t.nodes[n.right].bounds})
	t.walk(n.left, depth+1, fn)
	t.walk(n.right, depth+1, fn)
}

// DebugInfo lists every node with size 1 for leaves and 0 for internal nodes.
func (t *DynamicTree[K]) DebugInfo() []DebugNode {
	if t.root == nullNode {
		return nil
	}

	out := make([]DebugNode, 0, len(t.nodes))
	stack := []int32{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[i]
		size := 0
		if n.isLeaf() {
			size = 1
		} else {
			stack = append(stack, n.left, n.right)
		}
		out = append(out, DebugNode{Size: size, Bounds: n.bounds})
	}
	return out
}
