package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/vaabbit/ecs"
	"github.com/plus3/vaabbit/shapes"
	"github.com/plus3/vaabbit/spatial"
)

type TreeNodeInfo struct {
	Index  int
	Size   int
	Bounds shapes.AABB
	Area   float32
}

type TreeViewerCache struct {
	nodes     []TreeNodeInfo
	lastFrame int64
	maxSize   int
	populated int
}

func NewTreeViewerComponent() TreeViewerComponent {
	return TreeViewerComponent{
		cache: &TreeViewerCache{
			lastFrame: -1,
		},
		selectedNode:  -1,
		sortColumn:    1,
		sortAscending: false,
	}
}

// Render draws the node table of the world's spatial index and returns the
// bounds of the selected node, if any.
func (tv *TreeViewerComponent) Render(w *ecs.World) (shapes.AABB, bool) {
	if !imgui.BeginV("Spatial Index", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return shapes.AABB{}, false
	}

	tv.rebuildCacheIfNeeded(w)

	extent := w.Extent()
	imgui.Text(fmt.Sprintf("Nodes: %d (%d non-empty)", len(tv.cache.nodes), tv.cache.populated))
	imgui.Text(fmt.Sprintf("Extent: (%.0f, %.0f) - (%.0f, %.0f)", extent.Min.X, extent.Min.Y, extent.Max.X, extent.Max.Y))
	imgui.Separator()

	var selected shapes.AABB
	found := false

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("NodeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Node")
		imgui.TableSetupColumn("Size")
		imgui.TableSetupColumn("Bounds")
		imgui.TableSetupColumn("Area")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			tv.sortColumn = int(spec.ColumnIndex())
			tv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			tv.sortNodes()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, node := range tv.cache.nodes {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := tv.selectedNode == node.Index
			if imgui.SelectableBoolV(fmt.Sprintf("#%d", node.Index), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				tv.selectedNode = node.Index
			}
			if isSelected {
				selected = node.Bounds
				found = true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", node.Size))
			if tv.cache.maxSize > 0 {
				barWidth := float32(node.Size) / float32(tv.cache.maxSize) * 60.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			b := node.Bounds
			imgui.Text(fmt.Sprintf("(%.0f, %.0f) - (%.0f, %.0f)", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.0f", node.Area))
		}

		imgui.EndTable()
	}

	imgui.End()
	return selected, found
}

func (tv *TreeViewerComponent) rebuildCacheIfNeeded(w *ecs.World) {
	if tv.cache.lastFrame == w.Frames() {
		return
	}
	tv.cache.lastFrame = w.Frames()
	tv.cache.rebuild(w.DebugTree())
	tv.sortNodes()
}

func (c *TreeViewerCache) rebuild(nodes []spatial.DebugNode) {
	c.nodes = c.nodes[:0]
	c.maxSize = 0
	c.populated = 0
	for i, n := range nodes {
		c.nodes = append(c.nodes, TreeNodeInfo{
			Index:  i,
			Size:   n.Size,
			Bounds: n.Bounds,
			Area:   n.Bounds.Area(),
		})
		c.maxSize = max(c.maxSize, n.Size)
		if n.Size > 0 {
			c.populated++
		}
	}
}

func (tv *TreeViewerComponent) sortNodes() {
	sortTreeNodes(tv.cache.nodes, tv.sortColumn, tv.sortAscending)
}

func sortTreeNodes(nodes []TreeNodeInfo, column int, ascending bool) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		var less bool

		switch column {
		case 0:
			less = a.Index < b.Index
		case 2:
			less = a.Bounds.Min.X < b.Bounds.Min.X
		case 3:
			less = a.Area < b.Area
		default:
			less = a.Size < b.Size
		}

		if !ascending {
			return !less
		}
		return less
	})
}
