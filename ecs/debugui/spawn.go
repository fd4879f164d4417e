package debugui

import "github.com/plus3/densecs/ecs"

// SpawnDebugUI adds the standard debug windows to system. scheduler may be
// nil, in which case system timings are not shown.
func SpawnDebugUI(system *ImguiSystem, manager *ecs.EntityManager, registry *ecs.SignatureRegistry, scheduler *ecs.Scheduler) {
	browser := NewEntityBrowserWindow(100)
	inspector := NewSignatureInspectorWindow()
	filters := NewFilterDebuggerWindow(64)
	stats := NewPerformanceStatsWindow(120)
	timer := NewFrameTimer()

	system.Add(func() {
		browser.Render(manager, registry)
		id, ok := browser.GetSelectedEntity()
		inspector.Render(manager, registry, id, ok)
	})
	system.Add(func() { filters.Render(manager, registry) })
	system.Add(func() { stats.Render(manager, registry, scheduler, timer.GetDeltaTime()) })
}
