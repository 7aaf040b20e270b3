package runner

import (
	"log/slog"
	"time"

	"github.com/greylang/greyc/internal/backend"
	"github.com/greylang/greyc/internal/engine"
)

// Telemetry is the measured outcome of one workload execution.
// ProcessStates is keyed by node id, not IR process index.
type Telemetry struct {
	EventsProcessed uint64
	CurrentTime     uint64
	ExecutionTimeNS uint64
	MemoryUsageKB   *uint64
	ProcessStates   map[int]int32
}

// Execute runs a generated workload on a kernel: spawn every resolved
// coordinate in resolver order, replay the seeded injection plan in
// draw order, run with the configured cap, then collect telemetry.
//
// A non-positive cap falls back to the program's event count; execution
// is never unbounded. Spawn or inject refusals surface as
// backend.Error with KindRuntime; nothing is retried. The kernel stays
// open; it belongs to the caller.
func Execute(kernel engine.Kernel, out *backend.Output, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "runner", "program", out.Metadata.SourceName)

	start := time.Now()

	coords := backend.ResolveCoords(out.Runtime.Placement, out.Metadata.RuntimeProcessCount)

	for _, c := range coords {
		if !kernel.SpawnProcess(c.X, c.Y, c.Z) {
			return nil, backend.NewRuntimeError("spawning process at "+c.String(), nil)
		}
	}
	log.Debug("spawned processes", "count", len(coords))

	plan := backend.InjectionPlan(out.Runtime.Seed, coords)
	for _, inj := range plan {
		if !kernel.InjectEvent(inj.Coord.X, inj.Coord.Y, inj.Coord.Z, inj.Value) {
			return nil, backend.NewRuntimeError("injecting event at "+inj.Coord.String(), nil)
		}
	}
	log.Debug("injected seed events", "count", len(plan), "seed", out.Runtime.Seed)

	maxEvents := out.Runtime.MaxEvents
	if maxEvents <= 0 {
		maxEvents = out.Metadata.EventCount
	}

	eventsInRun := kernel.Run(maxEvents)
	executionTime := uint64(time.Since(start).Nanoseconds())

	states := make(map[int]int32)
	if out.Runtime.Telemetry {
		for _, c := range coords {
			pid := engine.NodeID(c.X, c.Y, c.Z)
			states[pid] = kernel.ProcessState(pid)
		}
	}

	log.Info("execution completed",
		"events_in_run", eventsInRun,
		"events_processed", kernel.EventsProcessed(),
		"current_time", kernel.CurrentTime())

	return &Telemetry{
		EventsProcessed: kernel.EventsProcessed(),
		CurrentTime:     kernel.CurrentTime(),
		ExecutionTimeNS: executionTime,
		MemoryUsageKB:   nil,
		ProcessStates:   states,
	}, nil
}
