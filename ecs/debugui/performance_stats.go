package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/densecs/ecs"
)

func NewPerformanceStatsWindow(historyFrames int) *PerformanceStatsWindow {
	return &PerformanceStatsWindow{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func (ps *PerformanceStatsWindow) Render(manager *ecs.EntityManager, registry *ecs.SignatureRegistry, scheduler *ecs.Scheduler, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.record(deltaTime)
	stats := manager.CollectStats()

	imgui.Text(fmt.Sprintf("Live Entities: %d", stats.Live))
	imgui.Text(fmt.Sprintf("Capacity: %d", stats.Capacity))
	imgui.Text(fmt.Sprintf("Signature Width: %d bits", stats.Width))

	avgFrameTime := ps.averageFrameTime()
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, framesPerSecond(avgFrameTime)))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	if len(ps.frameHistory) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))
	}

	if imgui.TreeNodeStr("Bit Population") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("BitStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Bit")
			imgui.TableSetupColumn("Type")
			imgui.TableSetupColumn("Entities")
			imgui.TableHeadersRow()

			for bit, count := range stats.BitPopulation {
				name, ok := registry.BitName(ecs.Bit(bit))
				if !ok {
					continue
				}
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", bit))
				imgui.TableNextColumn()
				imgui.Text(name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if scheduler != nil && imgui.TreeNodeStr("Systems") {
		schedulerStats := scheduler.GetStats()
		imgui.Text(fmt.Sprintf("Flush Errors: %d", schedulerStats.FlushErrors))
		for _, sys := range schedulerStats.Systems {
			imgui.BulletText(fmt.Sprintf("%s: avg %v, max %v", sys.Name, sys.AvgDuration, sys.MaxDuration))
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (ps *PerformanceStatsWindow) record(deltaTime float32) {
	if ps.historyFrames == 0 {
		return
	}
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

// framesPerSecond converts a frame time in milliseconds. An empty history
// reports 0 rather than +Inf.
func framesPerSecond(frameTimeMs float32) float32 {
	if frameTimeMs <= 0 {
		return 0
	}
	return 1000 / frameTimeMs
}

func (ps *PerformanceStatsWindow) averageFrameTime() float32 {
	if ps.historyFrames == 0 {
		return 0
	}
	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	return avgFrameTime / float32(ps.historyFrames)
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
