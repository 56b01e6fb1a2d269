package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	debugui_ebiten "github.com/plus3/vaabbit/ecs/debugui/ebiten"
	"github.com/plus3/vaabbit/shapes"
	"github.com/plus3/vaabbit/spatial"
)

// treeView shows the quadtree on the left and the dynamic tree on the right.
// The cursor drives a query region run against both.
type treeView struct {
	quad   *spatial.QuadTree[uint32]
	dyn    *spatial.DynamicTree[uint32]
	items  []item
	extent float32

	cursor  shapes.AABB
	quadHit []spatial.Entry[uint32]
	dynHit  []spatial.Entry[uint32]
}

func runVisual(quad *spatial.QuadTree[uint32], dyn *spatial.DynamicTree[uint32], w Workload, extent float32) error {
	ebiten.SetWindowSize(1280, 640)
	ebiten.SetWindowTitle("tree-bench")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(&treeView{quad: quad, dyn: dyn, items: w.Items, extent: extent})
}

func (v *treeView) Update() error {
	mx, my := ebiten.CursorPosition()
	x := float32(mx)
	if x >= v.extent {
		x -= v.extent
	}
	v.cursor = shapes.FromPosSize(shapes.V(x-25, float32(my)-25), shapes.V(50, 50))
	v.quadHit = v.quad.Query(v.cursor, v.quadHit[:0])
	v.dynHit = v.dyn.Query(v.cursor, v.dynHit[:0])
	return nil
}

func (v *treeView) Draw(screen *ebiten.Image) {
	right := shapes.V(v.extent, 0)

	debugui_ebiten.DrawTree(screen, v.quad.DebugInfo(), shapes.Vec2{})
	debugui_ebiten.DrawTree(screen, v.dyn.DebugInfo(), right)

	for _, offset := range []shapes.Vec2{{}, right} {
		for _, it := range v.items {
			debugui_ebiten.StrokeAABB(screen, it.bounds, offset, debugui_ebiten.BodyColor)
		}
		debugui_ebiten.StrokeAABB(screen, v.cursor, offset, debugui_ebiten.HighlightColor)
	}
	for _, e := range v.quadHit {
		debugui_ebiten.StrokeAABB(screen, e.Bounds, shapes.Vec2{}, debugui_ebiten.HighlightColor)
	}
	for _, e := range v.dynHit {
		debugui_ebiten.StrokeAABB(screen, e.Bounds, right, debugui_ebiten.HighlightColor)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("quadtree: %d hits    dynamic tree: %d hits", len(v.quadHit), len(v.dynHit)))
}

func (v *treeView) Layout(outsideWidth, outsideHeight int) (int, int) {
	side := int(v.extent)
	return side * 2, side
}
