package main

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/plus3/vaabbit/shapes"
	"github.com/plus3/vaabbit/spatial"
)

type item struct {
	id     uint32
	bounds shapes.AABB
}

// Workload is a fixed set of boxes to index and regions to query.
type Workload struct {
	Items   []item
	Queries []shapes.AABB
}

// NewWorkload places n square items of side size and n query regions of
// 5..30 units uniformly in [0,extent).
func NewWorkload(r *rand.Rand, n, queries int, extent, size float32) Workload {
	w := Workload{
		Items:   make([]item, n),
		Queries: make([]shapes.AABB, queries),
	}
	for i := range w.Items {
		pos := shapes.V(r.Float32()*extent, r.Float32()*extent)
		w.Items[i] = item{id: uint32(i), bounds: shapes.FromPosSize(pos, shapes.V(size, size))}
	}
	for i := range w.Queries {
		pos := shapes.V(r.Float32()*extent, r.Float32()*extent)
		qs := shapes.V(5+r.Float32()*25, 5+r.Float32()*25)
		w.Queries[i] = shapes.FromPosSize(pos, qs)
	}
	return w
}

// Timing is the outcome of building one index and running every query
// against it.
type Timing struct {
	Name    string
	Build   time.Duration
	Query   time.Duration
	Nodes   int
	Hits    int
	Results [][]uint32
}

func run(name string, index spatial.Index[uint32], w Workload) Timing {
	t := Timing{Name: name, Results: make([][]uint32, len(w.Queries))}

	start := time.Now()
	for _, it := range w.Items {
		index.Insert(it.id, it.bounds)
	}
	t.Build = time.Since(start)

	var scratch []spatial.Entry[uint32]
	start = time.Now()
	for i, q := range w.Queries {
		scratch = index.Query(q, scratch[:0])
		ids := make([]uint32, len(scratch))
		for j, e := range scratch {
			ids[j] = e.Payload
		}
		t.Results[i] = ids
		t.Hits += len(ids)
	}
	t.Query = time.Since(start)
	t.Nodes = len(index.DebugInfo())
	return t
}

// Mismatch is a query whose result sets differ between two indexes.
type Mismatch struct {
	Query int
	A, B  []uint32
}

// CrossCheck compares the result sets of a and b query by query, ignoring
// order.
func CrossCheck(a, b Timing) []Mismatch {
	var out []Mismatch
	for i := range a.Results {
		x := slices.Sorted(slices.Values(a.Results[i]))
		y := slices.Sorted(slices.Values(b.Results[i]))
		if !slices.Equal(x, y) {
			out = append(out, Mismatch{Query: i, A: x, B: y})
		}
	}
	return out
}

// BruteForce answers every query by scanning all items.
func BruteForce(w Workload) Timing {
	t := Timing{Name: "brute-force", Results: make([][]uint32, len(w.Queries))}
	start := time.Now()
	for i, q := range w.Queries {
		for _, it := range w.Items {
			if it.bounds.Overlaps(q) {
				t.Results[i] = append(t.Results[i], it.id)
			}
		}
		t.Hits += len(t.Results[i])
	}
	t.Query = time.Since(start)
	return t
}
