package ecs

// UpdateFrame is what a System sees during one Scheduler.Once call.
// Commands is shared by every system in the frame and flushed after the
// last one runs.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Manager   *EntityManager
}
