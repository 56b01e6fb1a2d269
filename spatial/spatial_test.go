package spatial_test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/plus3/vaabbit/shapes"
	"github.com/plus3/vaabbit/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBoxes(seed uint64, n int) []shapes.AABB {
	r := rand.New(rand.NewPCG(seed, seed*31+7))
	out := make([]shapes.AABB, n)
	for i := range out {
		x := (r.Float32()*2 - 1) * 900
		y := (r.Float32()*2 - 1) * 900
		out[i] = shapes.FromPosSize(shapes.V(x, y), shapes.V(4+r.Float32()*60, 4+r.Float32()*60))
	}
	return out
}

func indexes() map[string]func() spatial.Index[uint64] {
	return map[string]func() spatial.Index[uint64]{
		"quadtree": func() spatial.Index[uint64] {
			return spatial.NewQuadTree[uint64](1024, 1024, 8)
		},
		"dynamic": func() spatial.Index[uint64] {
			return spatial.NewDynamicTree[uint64](spatial.DefaultMargin)
		},
	}
}

func payloads(entries []spatial.Entry[uint64]) []uint64 {
	out := make([]uint64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Payload)
	}
	slices.Sort(out)
	return out
}

func TestQueryMatchesBruteForce(t *testing.T) {
	boxes := randomBoxes(42, 800)

	for name, newIndex := range indexes() {
		t.Run(name, func(t *testing.T) {
			idx := newIndex()
			for i, b := range boxes {
				idx.Insert(uint64(i), b)
			}
			require.Equal(t, len(boxes), idx.Len())

			var buf []spatial.Entry[uint64]
			for i, q := range boxes {
				buf = idx.Query(q, buf[:0])
				got := payloads(buf)

				var want []uint64
				for j, b := range boxes {
					if q.Overlaps(b) {
						want = append(want, uint64(j))
					}
				}
				require.Equal(t, want, got, "query over box %d", i)
			}
		})
	}
}

func TestQueryNeverReturnsDisjointBoxes(t *testing.T) {
	a := shapes.FromPosSize(shapes.V(0, 0), shapes.V(10, 10))
	// Within the dynamic tree's margin but not touching.
	b := shapes.FromPosSize(shapes.V(11, 0), shapes.V(10, 10))

	for name, newIndex := range indexes() {
		t.Run(name, func(t *testing.T) {
			idx := newIndex()
			idx.Insert(1, a)
			idx.Insert(2, b)

			assert.Equal(t, []uint64{1}, payloads(idx.Query(a, nil)))
			assert.Equal(t, []uint64{2}, payloads(idx.Query(b, nil)))
		})
	}
}

func TestQueryOnEmptyIndex(t *testing.T) {
	for name, newIndex := range indexes() {
		t.Run(name, func(t *testing.T) {
			idx := newIndex()
			assert.Empty(t, idx.Query(shapes.FromPosSize(shapes.V(0, 0), shapes.V(100, 100)), nil))
			for _, n := range idx.DebugInfo() {
				assert.Zero(t, n.Size)
			}
		})
	}
}

func TestClear(t *testing.T) {
	for name, newIndex := range indexes() {
		t.Run(name, func(t *testing.T) {
			idx := newIndex()
			for i, b := range randomBoxes(7, 100) {
				idx.Insert(uint64(i), b)
			}
			idx.Clear()

			assert.Equal(t, 0, idx.Len())
			assert.Empty(t, idx.Query(shapes.FromPosSize(shapes.V(-1024, -1024), shapes.V(2048, 2048)), nil))
		})
	}
}

func TestTryUpdate(t *testing.T) {
	tree := spatial.NewDynamicTree[uint64](2)
	box := shapes.FromPosSize(shapes.V(0, 0), shapes.V(10, 10))
	tree.Insert(1, box)

	tests := []struct {
		name   string
		offset shapes.Vec2
		want   bool
	}{
		{"unchanged", shapes.V(0, 0), true},
		{"inside margin", shapes.V(1.5, -1.5), true},
		{"exactly at margin", shapes.V(2, 2), true},
		{"past margin", shapes.V(2.5, 0), false},
		{"far away", shapes.V(500, 500), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moved := box.Translate(tt.offset)
			fat, ok := tree.LeafBounds(1)
			require.True(t, ok)

			assert.Equal(t, tt.want, tree.TryUpdate(moved, 1))
			assert.Equal(t, fat.Contains(moved), tt.want)
			tree.TryUpdate(box, 1)
		})
	}

	assert.False(t, tree.TryUpdate(box, 99), "unknown payload")
}

// When TryUpdate accepts a move, reinserting from scratch must answer every
// query the same way.
func TestTryUpdateEquivalentToReinsert(t *testing.T) {
	boxes := randomBoxes(9, 300)
	r := rand.New(rand.NewPCG(5, 6))

	inPlace := spatial.NewDynamicTree[uint64](spatial.DefaultMargin)
	reinserted := spatial.NewDynamicTree[uint64](spatial.DefaultMargin)
	for i, b := range boxes {
		inPlace.Insert(uint64(i), b)
		reinserted.Insert(uint64(i), b)
	}

	accepted := 0
	for i, b := range boxes {
		moved := b.Translate(shapes.V(r.Float32()*3-1.5, r.Float32()*3-1.5))
		if inPlace.TryUpdate(moved, uint64(i)) {
			accepted++
		} else {
			inPlace.Remove(uint64(i))
			inPlace.Insert(uint64(i), moved)
		}
		require.True(t, reinserted.Remove(uint64(i)))
		reinserted.Insert(uint64(i), moved)
		boxes[i] = moved
	}
	require.Positive(t, accepted)

	for i, q := range boxes {
		assert.Equal(t,
			payloads(reinserted.Query(q, nil)),
			payloads(inPlace.Query(q, nil)),
			"query %d", i)
	}
}

func TestDynamicTreeRemove(t *testing.T) {
	tree := spatial.NewDynamicTree[uint64](spatial.DefaultMargin)
	boxes := randomBoxes(11, 50)
	for i, b := range boxes {
		tree.Insert(uint64(i), b)
	}

	assert.True(t, tree.Remove(3))
	assert.False(t, tree.Remove(3))
	assert.False(t, tree.Contains(3))
	assert.Equal(t, 49, tree.Len())
	assert.NotContains(t, payloads(tree.Query(boxes[3], nil)), uint64(3))

	// Reinserting an existing payload replaces it.
	tree.Insert(7, shapes.FromPosSize(shapes.V(5000, 5000), shapes.V(1, 1)))
	assert.Equal(t, 49, tree.Len())
	assert.NotContains(t, payloads(tree.Query(boxes[7], nil)), uint64(7))
}

func TestDebugInfo(t *testing.T) {
	t.Run("dynamic", func(t *testing.T) {
		tree := spatial.NewDynamicTree[uint64](spatial.DefaultMargin)
		for i, b := range randomBoxes(13, 20) {
			tree.Insert(uint64(i), b)
		}
		info := tree.DebugInfo()
		// A full binary tree with n leaves has 2n-1 nodes.
		assert.Len(t, info, 39)

		leaves := 0
		for _, n := range info {
			assert.Contains(t, []int{0, 1}, n.Size)
			leaves += n.Size
		}
		assert.Equal(t, 20, leaves)
	})

	t.Run("quadtree", func(t *testing.T) {
		tree := spatial.NewQuadTree[uint64](1024, 1024, 8)
		for i, b := range randomBoxes(13, 200) {
			tree.Insert(uint64(i), b)
		}
		total := 0
		info := tree.DebugInfo()
		for _, n := range info {
			total += n.Size
		}
		assert.Equal(t, 200, total)
		assert.Equal(t, tree.Bounds(), info[len(info)-1].Bounds, "root comes last")
	})
}

func TestQuadTreeRemoveFunc(t *testing.T) {
	tree := spatial.NewQuadTree[uint64](1024, 1024, 8)
	boxes := randomBoxes(17, 300)
	for i, b := range boxes {
		tree.Insert(uint64(i), b)
	}

	removed := tree.RemoveFunc(func(p uint64) bool { return p%2 == 0 })
	assert.Equal(t, 150, removed)
	assert.Equal(t, 150, tree.Len())

	for i, b := range boxes {
		got := payloads(tree.Query(b, nil))
		if i%2 == 0 {
			assert.NotContains(t, got, uint64(i))
		} else {
			assert.Contains(t, got, uint64(i))
		}
	}
}

func ExampleDynamicTree() {
	tree := spatial.NewDynamicTree[uint64](spatial.DefaultMargin)
	tree.Insert(1, shapes.FromPosSize(shapes.V(0, 0), shapes.V(10, 10)))
	tree.Insert(2, shapes.FromPosSize(shapes.V(100, 100), shapes.V(10, 10)))

	for _, e := range tree.Query(shapes.FromPosSize(shapes.V(5, 5), shapes.V(2, 2)), nil) {
		fmt.Println("hit", e.Payload)
	}

	fmt.Println("small move fits:", tree.TryUpdate(shapes.FromPosSize(shapes.V(1, 1), shapes.V(10, 10)), 1))
	// Output:
	// hit 1
	// small move fits: true
}
