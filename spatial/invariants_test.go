package spatial

import (
	"math/rand/v2"
	"testing"

	"github.com/kamstrup/intmap"
	"github.com/plus3/vaabbit/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Index[int]    = (*QuadTree[int])(nil)
	_ Index[uint64] = (*DynamicTree[uint64])(nil)
)

func randomBox(r *rand.Rand, extent, maxSize float32) shapes.AABB {
	x := (r.Float32()*2 - 1) * extent
	y := (r.Float32()*2 - 1) * extent
	w := 1 + r.Float32()*maxSize
	h := 1 + r.Float32()*maxSize
	return shapes.FromPosSize(shapes.V(x, y), shapes.V(w, h))
}

// checkUnions verifies that every internal node's bounds equal the union of
// its children, walking post-order from the root.
func checkUnions[K intmap.IntKey](t *testing.T, tree *DynamicTree[K], i int32) shapes.AABB {
	t.Helper()
	n := tree.nodes[i]
	if n.isLeaf() {
		return n.bounds
	}
	assert.Equal(t, i, tree.nodes[n.left].parent)
	assert.Equal(t, i, tree.nodes[n.right].parent)

	left := checkUnions(t, tree, n.left)
	right := checkUnions(t, tree, n.right)
	assert.Equal(t, left.Union(right), n.bounds, "node %d", i)
	return n.bounds
}

func TestDynamicTreeInternalNodesAreChildUnions(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	tree := NewDynamicTree[uint64](DefaultMargin)

	for i := uint64(1); i <= 500; i++ {
		tree.Insert(i, randomBox(r, 1000, 40))
	}
	require.Equal(t, 500, tree.Len())
	checkUnions(t, tree, tree.root)

	for i := uint64(1); i <= 500; i += 3 {
		require.True(t, tree.Remove(i))
	}
	checkUnions(t, tree, tree.root)

	leaves := 0
	for _, n := range tree.DebugInfo() {
		leaves += n.Size
	}
	assert.Equal(t, tree.Len(), leaves)
}

func TestDynamicTreeReusesFreedNodes(t *testing.T) {
	tree := NewDynamicTree[int](DefaultMargin)
	for i := 0; i < 10; i++ {
		tree.Insert(i, shapes.FromPosSize(shapes.V(float32(i*50), 0), shapes.V(10, 10)))
	}
	allocated := len(tree.nodes)

	for i := 0; i < 10; i++ {
		tree.Remove(i)
	}
	assert.Equal(t, nullNode, tree.root)

	for i := 0; i < 10; i++ {
		tree.Insert(i, shapes.FromPosSize(shapes.V(float32(i*50), 0), shapes.V(10, 10)))
	}
	assert.Equal(t, allocated, len(tree.nodes), "free list should satisfy every allocation")
}

func TestQuadTreeElementsFitTheirNode(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	tree := NewQuadTree[int](1024, 1024, 6)

	for i := 0; i < 2000; i++ {
		tree.Insert(i, randomBox(r, 1100, 80))
	}
	require.Equal(t, 2000, tree.Len())

	depths := map[int]int{}
	tree.Walk(func(depth int, bounds shapes.AABB, elements []Entry[int]) {
		depths[depth]++
		if depth == 0 {
			return
		}
		for _, e := range elements {
			assert.True(t, bounds.Contains(e.Bounds), "element %d escapes its node at depth %d", e.Payload, depth)
		}
	})
	assert.Greater(t, len(depths), 1, "tree should have split")
}

func TestQuadTreeSplitsOnlyPastThreshold(t *testing.T) {
	tree := NewQuadTree[int](100, 100, 4)
	for i := 0; i < QuadSplitThreshold; i++ {
		tree.Insert(i, shapes.FromPosSize(shapes.V(10, 10), shapes.V(5, 5)))
	}
	assert.Nil(t, tree.root.children)

	tree.Insert(QuadSplitThreshold, shapes.FromPosSize(shapes.V(10, 10), shapes.V(5, 5)))
	assert.NotNil(t, tree.root.children)
	assert.Empty(t, tree.root.elements, "all elements fit the (+,+) quadrant")
}

func TestQuadTreeRespectsMaxDepth(t *testing.T) {
	tree := NewQuadTree[int](100, 100, 0)
	for i := 0; i < 50; i++ {
		tree.Insert(i, shapes.FromPosSize(shapes.V(10, 10), shapes.V(1, 1)))
	}
	assert.Nil(t, tree.root.children)
	assert.Len(t, tree.root.elements, 50)
}
