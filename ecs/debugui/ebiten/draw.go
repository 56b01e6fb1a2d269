package ebiten

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/vaabbit/ecs"
	"github.com/plus3/vaabbit/shapes"
	"github.com/plus3/vaabbit/spatial"
)

var (
	NodeColor      = color.RGBA{R: 0x40, G: 0x80, B: 0x40, A: 0xff}
	EmptyNodeColor = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	HighlightColor = color.RGBA{R: 0xff, G: 0xd0, B: 0x20, A: 0xff}
	BodyColor      = color.RGBA{R: 0x80, G: 0xa0, B: 0xff, A: 0xff}
)

// StrokeAABB outlines b on screen, shifted by offset.
func StrokeAABB(screen *ebiten.Image, b shapes.AABB, offset shapes.Vec2, clr color.Color) {
	vector.StrokeRect(screen, b.Min.X+offset.X, b.Min.Y+offset.Y, b.Width(), b.Height(), 1, clr, false)
}

// DrawTree outlines every node of a spatial index. Nodes holding entries
// are drawn brighter than empty ones.
func DrawTree(screen *ebiten.Image, nodes []spatial.DebugNode, offset shapes.Vec2) {
	for _, n := range nodes {
		clr := EmptyNodeColor
		if n.Size > 0 {
			clr = NodeColor
		}
		StrokeAABB(screen, n.Bounds, offset, clr)
	}
}

// DrawBodies outlines the bounds of every body overlapping the visible
// region.
func DrawBodies(screen *ebiten.Image, w *ecs.World, offset shapes.Vec2) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	view := shapes.FromPosSize(offset.Scale(-1), shapes.V(float32(sw), float32(sh)))
	for _, id := range w.QueryRegion(view) {
		if body, ok := w.BodyOf(id); ok {
			StrokeAABB(screen, body.Bounds(), offset, BodyColor)
		}
	}
}

// DrawOverlay draws the index, the bodies and the highlighted regions.
func DrawOverlay(screen *ebiten.Image, w *ecs.World, highlights []shapes.AABB, offset shapes.Vec2) {
	DrawTree(screen, w.DebugTree(), offset)
	DrawBodies(screen, w, offset)
	for _, h := range highlights {
		StrokeAABB(screen, h, offset, HighlightColor)
	}
}
