package debugui

import (
	"reflect"
	"testing"
	"time"

	"github.com/plus3/vaabbit/ecs"
	"github.com/plus3/vaabbit/physics"
	"github.com/plus3/vaabbit/shapes"
	"github.com/plus3/vaabbit/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	Name  string
	Hits  uint8
	Speed float32
	Alive bool
	Inner struct {
		Level int
	}
	Ptr    *int
	hidden int
}

func (p *probe) Update(self ecs.Id[probe], w *ecs.World, _ int) {}

func TestReflectionCacheFlattensNestedStructs(t *testing.T) {
	rc := NewReflectionCache()
	fields := rc.Fields(reflect.TypeFor[probe]())

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Name", "Hits", "Speed", "Alive", "Inner", "Level", "Ptr"}, names)

	inner := fields[4]
	assert.True(t, inner.Group)
	assert.Equal(t, 0, inner.Depth)

	level := fields[5]
	assert.Equal(t, []int{4, 0}, level.Path)
	assert.Equal(t, 1, level.Depth)

	assert.True(t, fields[6].Pointer)
	assert.Equal(t, reflect.Int, fields[6].Kind)

	// cached slices are reused
	again := rc.Fields(reflect.TypeFor[probe]())
	assert.Same(t, &fields[0], &again[0])
}

func TestFieldResolveAndSet(t *testing.T) {
	p := &probe{Name: "a"}
	root := reflect.ValueOf(p)
	fields := globalReflectionCache.Fields(reflect.TypeFor[probe]())

	require.True(t, setField(fields[5].Resolve(root), int64(7)))
	assert.Equal(t, 7, p.Inner.Level)

	require.True(t, setField(fields[1].Resolve(root), uint64(3)))
	assert.Equal(t, uint8(3), p.Hits)

	require.True(t, setField(fields[2].Resolve(root), float64(1.5)))
	assert.Equal(t, float32(1.5), p.Speed)

	assert.False(t, setField(fields[0].Resolve(root), true), "bool does not convert to string")
	assert.Equal(t, "a", p.Name)

	// read-only values are refused
	assert.False(t, setField(reflect.ValueOf(probe{}).Field(0), "b"))
}

func TestSkipNested(t *testing.T) {
	fields := globalReflectionCache.Fields(reflect.TypeFor[probe]())
	assert.Equal(t, 6, skipNested(fields, 5, 0))
	assert.Equal(t, 2, skipNested(fields, 2, 0))
}

func TestCollectAndFilterEntities(t *testing.T) {
	w := ecs.NewWorld()
	a := ecs.AddActor[probe, int](w, probe{}, ecs.At(shapes.V(10, 20)))
	ecs.AddActor[ImguiItem[int], int](w, ImguiItem[int]{}, ecs.AsKind(physics.KindNode), ecs.Shaped(nil))

	entities := collectEntities(w, nil)
	require.Len(t, entities, 2)
	assert.Equal(t, a.Erase(), entities[0].ID)
	assert.Equal(t, shapes.V(10, 20), entities[0].Pos)
	assert.Equal(t, physics.KindActor, entities[0].Kind)
	assert.Equal(t, physics.KindNode, entities[1].Kind)

	assert.Len(t, filterEntities(entities, ""), 2)
	assert.Len(t, filterEntities(entities, "PROBE"), 1)
	assert.Len(t, filterEntities(entities, "node"), 1)
	assert.Empty(t, filterEntities(entities, "nothing"))
}

func TestCountByType(t *testing.T) {
	w := ecs.NewWorld()
	var ids []ecs.EntityId
	for range 3 {
		ids = append(ids, ecs.AddActor[probe, int](w, probe{}).Erase())
	}
	ids = append(ids, ecs.AddActor[ImguiItem[int], int](w, ImguiItem[int]{}).Erase())
	ids = append(ids, ecs.EntityId{})

	counts := countByType(ids)
	require.Len(t, counts, 3)
	assert.Equal(t, TypeCount{Type: "debugui.probe", Count: 3}, counts[0])
	assert.Equal(t, 1, counts[1].Count)
	assert.Equal(t, 1, counts[2].Count)
}

func TestTreeViewerCache(t *testing.T) {
	c := &TreeViewerCache{}
	c.rebuild([]spatial.DebugNode{
		{Size: 0, Bounds: shapes.NewAABB(shapes.V(0, 0), shapes.V(100, 100))},
		{Size: 3, Bounds: shapes.NewAABB(shapes.V(0, 0), shapes.V(10, 10))},
		{Size: 5, Bounds: shapes.NewAABB(shapes.V(50, 0), shapes.V(60, 20))},
	})

	assert.Equal(t, 5, c.maxSize)
	assert.Equal(t, 2, c.populated)
	assert.Equal(t, float32(200), c.nodes[2].Area)

	sortTreeNodes(c.nodes, 1, false)
	assert.Equal(t, []int{2, 1, 0}, []int{c.nodes[0].Index, c.nodes[1].Index, c.nodes[2].Index})

	sortTreeNodes(c.nodes, 3, true)
	assert.Equal(t, []int{1, 2, 0}, []int{c.nodes[0].Index, c.nodes[1].Index, c.nodes[2].Index})
}

func TestPerformanceHistoryWraps(t *testing.T) {
	ps := NewPerformanceStatsComponent(2)
	ps.record(10*time.Millisecond, time.Millisecond)
	ps.record(20*time.Millisecond, 3*time.Millisecond)
	ps.record(30*time.Millisecond, 5*time.Millisecond)

	assert.Equal(t, []float32{30, 20}, ps.frameHistory)
	assert.InDelta(t, 25, average(ps.frameHistory), 1e-4)
	assert.InDelta(t, 4, average(ps.logicHistory), 1e-4)
	assert.Equal(t, float32(0), average(nil))
}

func TestImguiItemDefersRender(t *testing.T) {
	w := ecs.NewWorld()
	var rendered []int
	ecs.AddActor[ImguiItem[int], int](w, ImguiItem[int]{
		Render: func(w *ecs.World, ctx int) {
			rendered = append(rendered, ctx)
		},
	})
	ecs.AddActor[ImguiItem[int], int](w, ImguiItem[int]{})

	ecs.UpdateSystems(w, 4)
	ecs.UpdateSystems(w, 5)
	assert.Equal(t, []int{4, 5}, rendered)
}
