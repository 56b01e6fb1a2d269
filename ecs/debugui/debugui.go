// Package debugui provides immediate-mode GUI integration for worlds using Dear ImGui.
// Panels are entities like any other: they are updated with the frame context
// and defer their rendering to the world's command queue.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/vaabbit/ecs"
)

// ImguiItem is an entity that holds a Dear ImGui render function.
// Add one per window that should render ImGui widgets each frame.
type ImguiItem[C any] struct {
	Render func(w *ecs.World, ctx C)
}

// Update queues the render function so it runs once the item's own update
// has returned.
func (i *ImguiItem[C]) Update(self ecs.Id[ImguiItem[C]], w *ecs.World, ctx C) {
	render := i.Render
	if render == nil {
		return
	}
	w.Commands().Defer(func(w *ecs.World) {
		render(w, ctx)
	})
}

// ImguiInputState reports whether Dear ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// CurrentInputState reads the input capture state of the current ImGui context.
func CurrentInputState() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}
