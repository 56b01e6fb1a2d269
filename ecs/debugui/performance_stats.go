package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/vaabbit/ecs"
)

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		logicHistory:  make([]float32, historyFrames),
	}
}

// record stores one frame's wall time and logic time, both in milliseconds.
func (ps *PerformanceStatsComponent) record(frame, logic time.Duration) {
	ps.frameHistory[ps.frameIndex] = float32(frame.Seconds() * 1000)
	ps.logicHistory[ps.frameIndex] = float32(logic.Seconds() * 1000)
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

func average(values []float32) float32 {
	if len(values) == 0 {
		return 0
	}
	var sum float32
	for _, v := range values {
		sum += v
	}
	return sum / float32(len(values))
}

func (ps *PerformanceStatsComponent) Render(w *ecs.World, delta time.Duration) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.record(delta, w.LogicUpdate())

	stats := w.Stats()

	imgui.Text(fmt.Sprintf("Total Entities: %d", w.Len()))
	imgui.Text(fmt.Sprintf("Entity Types: %d", len(w.Registry().Types())))
	imgui.Text(fmt.Sprintf("Frames: %d", w.Frames()))

	avgFrameTime := average(ps.frameHistory)
	fps := float32(0)
	if avgFrameTime > 0 {
		fps = 1000.0 / avgFrameTime
	}
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, fps))
	imgui.Text(fmt.Sprintf("Avg Logic Update: %.3f ms", average(ps.logicHistory)))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))
	imgui.Text("Logic Update Graph (ms)")
	imgui.PlotLinesFloatPtr("##logictime", &ps.logicHistory[0], int32(len(ps.logicHistory)))

	if imgui.TreeNodeStr("Update Passes") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Type")
			imgui.TableSetupColumn("Context")
			imgui.TableSetupColumn("Entities")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableHeadersRow()

			for _, sys := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.Context)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.Entities))
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

// Delta returns the time since the previous call.
func (ft *FrameTimer) Delta() time.Duration {
	now := time.Now()
	delta := now.Sub(ft.lastFrameTime)
	ft.lastFrameTime = now
	return delta
}
