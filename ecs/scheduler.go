package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats summarizes every frame the scheduler has run.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	FlushErrors     int64
	Systems         []SystemStats
}

// SystemStats holds execution timings for one registered system.
// Durations are zero until the system has run at least once.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

func (st *SystemStats) observe(d time.Duration) {
	if st.ExecutionCount == 0 || d < st.MinDuration {
		st.MinDuration = d
	}
	st.MaxDuration = max(st.MaxDuration, d)
	st.ExecutionCount++
	st.LastDuration = d
	st.TotalDuration += d
	st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
}

type scheduledSystem struct {
	system System
	stats  SystemStats
}

// Scheduler runs systems in registration order against one EntityManager.
// Structural changes queued on the frame's Commands are flushed after the
// last system; anything queued during that flush runs at the end of the
// next frame.
type Scheduler struct {
	manager     *EntityManager
	commands    *Commands
	systems     []*scheduledSystem
	flushErrors int64
}

// NewScheduler creates a scheduler for manager.
func NewScheduler(manager *EntityManager) *Scheduler {
	return &Scheduler{
		manager:  manager,
		commands: newCommands(),
	}
}

// Register appends a system to the run order. Stats report it under its
// type name.
func (s *Scheduler) Register(system System) {
	t := reflect.TypeOf(system)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s.systems = append(s.systems, &scheduledSystem{
		system: system,
		stats:  SystemStats{Name: t.Name()},
	})
}

// Once runs every system with delta time dt, then flushes the frame's
// commands and returns the flush error, if any.
func (s *Scheduler) Once(dt float64) error {
	frame := &UpdateFrame{DeltaTime: dt, Commands: s.commands, Manager: s.manager}

	for _, entry := range s.systems {
		start := time.Now()
		entry.system.Execute(frame)
		entry.stats.observe(time.Since(start))
	}

	err := s.commands.Flush(s.manager)
	if err != nil {
		s.flushErrors++
	}
	return err
}

// Run calls Once every interval until ctx is done, passing the measured
// time between ticks as the delta. Flush errors are logged through the
// manager's logger and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger := s.manager.Logger()
	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case tick := <-ticker.C:
			dt := tick.Sub(prev).Seconds()
			prev = tick
			if err := s.Once(dt); err != nil {
				logger.Error().Err(err).Float64("dt", dt).Msg("command flush failed")
			}
		}
	}
}

// GetStats returns a snapshot of the scheduler's counters.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		FlushErrors: s.flushErrors,
		Systems:     make([]SystemStats, 0, len(s.systems)),
	}
	for _, entry := range s.systems {
		stats.Systems = append(stats.Systems, entry.stats)
		stats.TotalExecutions += entry.stats.ExecutionCount
	}
	return stats
}
