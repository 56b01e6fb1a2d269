package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/vaabbit/ecs"
	"github.com/plus3/vaabbit/shapes"
)

// TypeCount is the number of query hits of one entity type.
type TypeCount struct {
	Type  string
	Count int
}

func NewRegionQueryComponent() RegionQueryComponent {
	return RegionQueryComponent{
		min: [2]float32{0, 0},
		max: [2]float32{256, 256},
	}
}

// Region returns the region currently entered in the panel.
func (rq *RegionQueryComponent) Region() shapes.AABB {
	return shapes.NewAABB(shapes.V(rq.min[0], rq.min[1]), shapes.V(rq.max[0], rq.max[1]))
}

// Render draws the query panel. It returns the region when results are
// being shown.
func (rq *RegionQueryComponent) Render(w *ecs.World) (shapes.AABB, bool) {
	if !imgui.BeginV("Region Query", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return shapes.AABB{}, false
	}

	imgui.Text("Min")
	imgui.SetNextItemWidth(100)
	imgui.InputFloat("##minx", &rq.min[0])
	imgui.SameLine()
	imgui.SetNextItemWidth(100)
	imgui.InputFloat("##miny", &rq.min[1])

	imgui.Text("Max")
	imgui.SetNextItemWidth(100)
	imgui.InputFloat("##maxx", &rq.max[0])
	imgui.SameLine()
	imgui.SetNextItemWidth(100)
	imgui.InputFloat("##maxy", &rq.max[1])

	if imgui.Button("Query") {
		rq.results = w.QueryRegion(rq.Region())
	}
	imgui.SameLine()
	if imgui.Button("Use Extent") {
		ext := w.Extent()
		rq.min = [2]float32{ext.Min.X, ext.Min.Y}
		rq.max = [2]float32{ext.Max.X, ext.Max.Y}
	}
	imgui.SameLine()
	if imgui.Button("Clear") {
		rq.results = nil
	}

	imgui.Separator()

	if rq.results == nil {
		imgui.Text("No query run")
		imgui.End()
		return shapes.AABB{}, false
	}

	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(rq.results)))

	if imgui.TreeNodeStr("By Type") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("RegionTypeTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Type")
			imgui.TableSetupColumn("Count")
			imgui.TableHeadersRow()

			for _, tc := range countByType(rq.results) {
				imgui.TableNextRow()
				imgui.TableSetColumnIndex(0)
				imgui.Text(tc.Type)
				imgui.TableSetColumnIndex(1)
				imgui.Text(fmt.Sprintf("%d", tc.Count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Entities") {
		for _, id := range rq.results {
			live := ""
			if !w.Contains(id) {
				live = " (removed)"
			}
			imgui.BulletText(id.String() + live)
		}
		imgui.TreePop()
	}

	imgui.End()
	return rq.Region(), true
}

// countByType groups ids by entity type, most frequent first.
func countByType(ids []ecs.EntityId) []TypeCount {
	counts := make(map[string]int)
	for _, id := range ids {
		counts[typeName(id)]++
	}

	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func typeName(id ecs.EntityId) string {
	if id.Type == nil {
		return "<nil>"
	}
	return id.Type.String()
}
