package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/densecs/ecs"
)

type Report struct {
	// Configuration
	Duration      time.Duration
	Entities      int
	Components    int
	Tags          int
	Churn         float64
	FixedCapacity bool
	Systems       int

	// Results
	TotalUpdates  int64
	TotalTime     time.Duration
	UpdateTime    FrameTimes
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats

	Manager   ecs.ManagerStats
	Scheduler *ecs.SchedulerStats
	Created   int64
	Destroyed int64
	Toggles   int64
	Matched   int64
}

// Collect records end-of-run state from the manager, scheduler and the
// workload's own counters.
func (r *Report) Collect(manager *ecs.EntityManager, scheduler *ecs.Scheduler, systems []ecs.System) {
	r.Manager = manager.CollectStats()
	r.Scheduler = scheduler.GetStats()
	for _, system := range systems {
		switch s := system.(type) {
		case *ChurnSystem:
			r.Created += s.Created
			r.Destroyed += s.Destroyed
		case *MembershipSystem:
			r.Toggles += s.Toggles
		case *QuerySystem:
			r.Matched += s.Matched
		}
	}
}

// BitsInUse counts signature bits set on at least one live entity.
func (r *Report) BitsInUse() int {
	n := 0
	for _, count := range r.Manager.BitPopulation {
		if count > 0 {
			n++
		}
	}
	return n
}

// FrameTimes collects per-frame update durations.
type FrameTimes struct {
	Samples []time.Duration

	Min, Max, Avg, P50, P99 time.Duration
}

// Summarize fills the summary fields from Samples. It leaves them zero when
// no frame ran.
func (f *FrameTimes) Summarize() {
	if len(f.Samples) == 0 {
		return
	}
	sorted := slices.Sorted(slices.Values(f.Samples))
	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	f.Min, f.Max = sorted[0], sorted[len(sorted)-1]
	f.Avg = total / time.Duration(len(sorted))
	f.P50 = sorted[percentileIndex(len(sorted), 50)]
	f.P99 = sorted[percentileIndex(len(sorted), 99)]
}

func percentileIndex(n, p int) int {
	return min(n-1, (n*p)/100)
}

// MemoryRow is one line of the memory table, in MiB.
type MemoryRow struct {
	Name              string
	Start, End, Delta float64
}

const mib = 1 << 20

// MemoryRows compares the runtime snapshots taken around the run.
func (r *Report) MemoryRows() []MemoryRow {
	row := func(name string, start, end uint64) MemoryRow {
		return MemoryRow{
			Name:  name,
			Start: float64(start) / mib,
			End:   float64(end) / mib,
			Delta: (float64(end) - float64(start)) / mib,
		}
	}
	return []MemoryRow{
		row("Heap Alloc", r.MemStatsStart.HeapAlloc, r.MemStatsEnd.HeapAlloc),
		row("Total Alloc", r.MemStatsStart.TotalAlloc, r.MemStatsEnd.TotalAlloc),
		row("Sys", r.MemStatsStart.Sys, r.MemStatsEnd.Sys),
	}
}

// GCRuns is the number of collections during the run.
func (r *Report) GCRuns() uint32 {
	return r.MemStatsEnd.NumGC - r.MemStatsStart.NumGC
}

// GCPause is the stop-the-world time spent in collections during the run.
func (r *Report) GCPause() time.Duration {
	return time.Duration(r.MemStatsEnd.PauseTotalNs - r.MemStatsStart.PauseTotalNs)
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"mib": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`
# ECS Stress Test Report

## Test Configuration
| Setting | Value |
|---|---|
| Run Duration | {{.Duration}} |
| Initial Entities | {{.Entities}} |
| Generated Components | {{.Components}} |
| Generated Tags | {{.Tags}} |
| Churn | {{.Churn}} |
| Fixed Capacity | {{.FixedCapacity}} |
| Systems | {{.Systems}} |

## Frames
{{.TotalUpdates}} updates in {{.TotalTime}}.

| Avg | P50 | P99 | Min | Max |
|---|---|---|---|---|
| {{.UpdateTime.Avg}} | {{.UpdateTime.P50}} | {{.UpdateTime.P99}} | {{.UpdateTime.Min}} | {{.UpdateTime.Max}} |

## Entity Manager
- **Live Entities:** {{.Manager.Live}}
- **Capacity:** {{.Manager.Capacity}}
- **Signature Width:** {{.Manager.Width}} bits ({{.BitsInUse}} in use)
- **Queued Creates:** {{.Created}}
- **Queued Destroys:** {{.Destroyed}}
- **Membership Toggles:** {{.Toggles}}
- **Filter Matches:** {{.Matched}}
- **Flush Errors:** {{.Scheduler.FlushErrors}}

## Systems
| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{- range .Scheduler.Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory (MiB)
| Metric | Start | End | Delta |
|---|---|---|---|
{{- range .MemoryRows}}
| {{.Name}} | {{mib .Start}} | {{mib .End}} | {{mib .Delta}} |
{{- end}}

GC ran {{.GCRuns}} times, pausing {{.GCPause}} in total.
`))

// Generate renders the report as markdown.
func (r *Report) Generate(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
