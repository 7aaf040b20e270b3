package testutil

import (
	"github.com/greylang/greyc/internal/engine"
)

// SpawnCall records one SpawnProcess invocation.
type SpawnCall struct {
	X, Y, Z int
}

// InjectCall records one InjectEvent invocation.
type InjectCall struct {
	X, Y, Z int
	Value   int32
}

// ScriptKernel is a scriptable engine.Kernel. It records every call in
// order and returns canned results, so adapter and harness tests can
// assert exact call sequences without the real kernel.
type ScriptKernel struct {
	// MaxSpawns caps successful spawns; further spawns return false.
	// Zero means unlimited.
	MaxSpawns int

	// RejectInjections makes every InjectEvent return false.
	RejectInjections bool

	// RunResult is returned from Run.
	RunResult int

	// States backs ProcessState lookups.
	States map[int]int32

	// Events and Time back the counter queries.
	Events uint64
	Time   uint64

	Spawns  []SpawnCall
	Injects []InjectCall
	RunCaps []int
	Closed  bool
}

var _ engine.Kernel = (*ScriptKernel)(nil)

func (k *ScriptKernel) SpawnProcess(x, y, z int) bool {
	if k.MaxSpawns > 0 && len(k.Spawns) >= k.MaxSpawns {
		return false
	}
	k.Spawns = append(k.Spawns, SpawnCall{X: x, Y: y, Z: z})
	return true
}

func (k *ScriptKernel) InjectEvent(x, y, z int, value int32) bool {
	if k.RejectInjections {
		return false
	}
	k.Injects = append(k.Injects, InjectCall{X: x, Y: y, Z: z, Value: value})
	return true
}

func (k *ScriptKernel) Run(maxEvents int) int {
	k.RunCaps = append(k.RunCaps, maxEvents)
	return k.RunResult
}

func (k *ScriptKernel) ProcessState(pid int) int32 {
	return k.States[pid]
}

func (k *ScriptKernel) EventsProcessed() uint64 { return k.Events }

func (k *ScriptKernel) CurrentTime() uint64 { return k.Time }

func (k *ScriptKernel) ProcessCount() int { return len(k.Spawns) }

func (k *ScriptKernel) Close() error {
	k.Closed = true
	return nil
}
