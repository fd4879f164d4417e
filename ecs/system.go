package ecs

// System is per-frame behaviour run by a Scheduler. Systems read and mutate
// membership through frame.Manager and queue structural changes (create,
// destroy) on frame.Commands, which is flushed after every system has run.
type System interface {
	Execute(frame *UpdateFrame)
}
