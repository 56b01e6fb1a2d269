package debugui

import (
	"github.com/plus3/vaabbit/ecs"
	"github.com/plus3/vaabbit/physics"
	"github.com/plus3/vaabbit/shapes"
)

// Panels is the state of the standard debug windows.
type Panels struct {
	Browser     EntityBrowserComponent
	Inspector   EntityInspectorComponent
	Tree        TreeViewerComponent
	Performance PerformanceStatsComponent
	Region      RegionQueryComponent

	// Hidden suppresses rendering without removing the item.
	Hidden bool

	timer      *FrameTimer
	highlights []shapes.AABB
}

func NewPanels() *Panels {
	return &Panels{
		Browser:     NewEntityBrowserComponent(100),
		Inspector:   NewEntityInspectorComponent(),
		Tree:        NewTreeViewerComponent(),
		Performance: NewPerformanceStatsComponent(120),
		Region:      NewRegionQueryComponent(),
		timer:       NewFrameTimer(),
	}
}

// Render draws every panel and records the regions they want highlighted.
func (p *Panels) Render(w *ecs.World) {
	p.highlights = p.highlights[:0]
	if p.Hidden {
		return
	}

	p.Browser.Render(w)
	p.Inspector.Render(w, p.Browser.SelectedEntity())
	if b, ok := p.Tree.Render(w); ok {
		p.highlights = append(p.highlights, b)
	}
	p.Performance.Render(w, p.timer.Delta())
	if b, ok := p.Region.Render(w); ok {
		p.highlights = append(p.highlights, b)
	}
	if body, ok := w.BodyOf(p.Browser.SelectedEntity()); ok {
		p.highlights = append(p.highlights, body.Bounds())
	}
}

// Highlights returns the regions selected in the last Render.
func (p *Panels) Highlights() []shapes.AABB {
	return p.highlights
}

// SpawnDebugUI adds an ImGui item rendering the standard panels every frame
// of context C. The item has a shapeless node body so it never collides.
func SpawnDebugUI[C any](w *ecs.World) (*Panels, ecs.Id[ImguiItem[C]]) {
	panels := NewPanels()
	id := ecs.AddActor[ImguiItem[C], C](w, ImguiItem[C]{
		Render: func(w *ecs.World, _ C) {
			panels.Render(w)
		},
	}, ecs.AsKind(physics.KindNode), ecs.Shaped(nil))
	return panels, id
}
