package physics

import (
	"fmt"

	"github.com/kamstrup/intmap"
	"github.com/plus3/vaabbit/arena"
	"github.com/plus3/vaabbit/shapes"
	"github.com/plus3/vaabbit/spatial"
)

// ExtentPadding is added on every side of the live body bounds by Cleanup.
const ExtentPadding float32 = 32

// IndexKind selects the broad-phase structure of a Space.
type IndexKind uint8

const (
	IndexDynamicTree IndexKind = iota
	IndexQuadTree
)

func (k IndexKind) String() string {
	switch k {
	case IndexDynamicTree:
		return "dynamic-tree"
	case IndexQuadTree:
		return "quadtree"
	default:
		return fmt.Sprintf("IndexKind(%d)", uint8(k))
	}
}

// Config describes the spatial index of a Space. HalfWidth, HalfHeight and
// MaxDepth apply to the quadtree, Margin to the dynamic tree.
type Config struct {
	Index      IndexKind
	HalfWidth  float32
	HalfHeight float32
	MaxDepth   int
	Margin     float32
}

// DefaultConfig returns a dynamic tree config; the quadtree fields describe
// a 2048x2048 region centred on the origin.
func DefaultConfig() Config {
	return Config{
		Index:      IndexDynamicTree,
		HalfWidth:  1024,
		HalfHeight: 1024,
		MaxDepth:   8,
		Margin:     spatial.DefaultMargin,
	}
}

// Space owns every body of a world and the spatial index over them.
type Space[ID comparable] struct {
	config Config
	bodies *arena.Arena[Body[ID]]
	owners map[ID]arena.Key
	marked *intmap.Set[arena.Key]

	index   spatial.Index[arena.Key]
	dynamic *spatial.DynamicTree[arena.Key]
	quad    *spatial.QuadTree[arena.Key]

	extent  shapes.AABB
	scratch []spatial.Entry[arena.Key]
}

// NewSpace creates an empty space using the index described by config.
func NewSpace[ID comparable](config Config) *Space[ID] {
	s := &Space[ID]{
		config: config,
		bodies: arena.New[Body[ID]](),
		owners: make(map[ID]arena.Key),
		marked: intmap.NewSet[arena.Key](64),
	}

	switch config.Index {
	case IndexQuadTree:
		s.quad = spatial.NewQuadTree[arena.Key](config.HalfWidth, config.HalfHeight, config.MaxDepth)
		s.index = s.quad
	default:
		s.dynamic = spatial.NewDynamicTree[arena.Key](config.Margin)
		s.index = s.dynamic
	}
	return s
}

func (s *Space[ID]) Config() Config {
	return s.config
}

func (s *Space[ID]) insert(body Body[ID]) arena.Key {
	key := s.bodies.Insert(body)
	s.index.Insert(key, body.Bounds())
	s.owners[body.Owner] = key
	return key
}

// Add stores body for owner. Adding to an owner that already has a body
// behaves like Update.
func (s *Space[ID]) Add(owner ID, body Body[ID]) {
	body.Owner = owner
	if old, ok := s.owners[owner]; ok {
		s.marked.Add(old)
	}
	s.insert(body)
}

// Get returns the current body of owner.
func (s *Space[ID]) Get(owner ID) (Body[ID], bool) {
	key, ok := s.owners[owner]
	if !ok {
		return Body[ID]{}, false
	}
	b := s.bodies.Get(key)
	if b == nil {
		return Body[ID]{}, false
	}
	return *b, true
}

// Update replaces the body of owner. The new body gets a fresh index entry
// and the old one is marked for removal at the next Cleanup. Returns false
// when owner has no body.
func (s *Space[ID]) Update(owner ID, body Body[ID]) bool {
	old, ok := s.owners[owner]
	if !ok {
		return false
	}
	body.Owner = owner
	s.marked.Add(old)
	s.insert(body)
	return true
}

// Remove unlinks the body of owner and marks it for removal.
func (s *Space[ID]) Remove(owner ID) bool {
	key, ok := s.owners[owner]
	if !ok {
		return false
	}
	delete(s.owners, owner)
	s.marked.Add(key)
	return true
}

// Query appends every live body whose bounds overlap bounds to out.
func (s *Space[ID]) Query(bounds shapes.AABB, out []Body[ID]) []Body[ID] {
	s.scratch = s.index.Query(bounds, s.scratch[:0])
	for _, e := range s.scratch {
		if s.marked.Has(e.Payload) {
			continue
		}
		b := s.bodies.Get(e.Payload)
		if b == nil || !bounds.Overlaps(b.Bounds()) {
			continue
		}
		out = append(out, *b)
	}
	return out
}

// Cleanup drops every marked body. The dynamic tree is rebuilt from the
// surviving bodies; the quadtree is pruned in place. Returns the number of
// bodies dropped.
func (s *Space[ID]) Cleanup() int {
	removed := s.marked.Len()

	if s.quad != nil && removed > 0 {
		s.quad.RemoveFunc(s.marked.Has)
	}
	for key := range s.marked.All() {
		s.bodies.Remove(key)
	}
	s.marked.Clear()

	if s.dynamic != nil {
		s.dynamic.Clear()
	}

	first := true
	for key, b := range s.bodies.All() {
		bounds := b.Bounds()
		if s.dynamic != nil {
			s.dynamic.Insert(key, bounds)
		}
		if first {
			s.extent = bounds
			first = false
		} else {
			s.extent = s.extent.Union(bounds)
		}
	}
	if first {
		s.extent = shapes.AABB{}
	}
	s.extent = s.extent.Expand(ExtentPadding)

	return removed
}

// Extent returns the union of every live body's bounds padded by
// ExtentPadding, as of the last Cleanup.
func (s *Space[ID]) Extent() shapes.AABB {
	return s.extent
}

// Len returns the number of owners with a body.
func (s *Space[ID]) Len() int {
	return len(s.owners)
}

// Pending returns the number of bodies waiting for Cleanup.
func (s *Space[ID]) Pending() int {
	return s.marked.Len()
}

func (s *Space[ID]) DebugInfo() []spatial.DebugNode {
	return s.index.DebugInfo()
}
