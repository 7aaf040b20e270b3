package engine

// Lattice geometry and fixed capacities. These are part of the execution
// contract, not tunables: changing any of them changes node identifiers or
// drop behavior and breaks cross-kernel parity.
const (
	// LatticeDim is the extent of each lattice axis.
	LatticeDim = 32

	// LatticeSize is the total number of addressable nodes.
	LatticeSize = LatticeDim * LatticeDim * LatticeDim

	// MaxQueuedEvents caps the scheduler queue. Pushes beyond the cap are
	// silently dropped.
	MaxQueuedEvents = 4096

	// MaxPoolProcesses caps lifetime successful spawns.
	MaxPoolProcesses = 2048

	// MaxPendingInjections caps injections buffered between runs.
	MaxPendingInjections = 16384
)

// Kernel is the capability surface a compiled program needs from an
// execution engine: process spawning, event injection, bounded execution,
// and state/counter inspection.
type Kernel interface {
	// SpawnProcess activates the node at (x, y, z), resetting its state to
	// zero. Returns false when the process pool is exhausted.
	SpawnProcess(x, y, z int) bool

	// InjectEvent buffers an event for the node at (x, y, z), stamped with
	// the current logical time. Returns false when the pending buffer is
	// full. Buffered events enter the queue at the start of the next Run.
	InjectEvent(x, y, z int, value int32) bool

	// Run processes at most maxEvents events and returns the number
	// actually processed in this call.
	Run(maxEvents int) int

	// ProcessState returns the accumulated state of the node with the given
	// identifier, or zero if the node is inactive or out of range.
	ProcessState(pid int) int32

	// EventsProcessed returns the lifetime event count across all runs.
	EventsProcessed() uint64

	// CurrentTime returns the logical clock, the timestamp of the most
	// recently processed event.
	CurrentTime() uint64

	// ProcessCount returns the number of distinct active nodes.
	ProcessCount() int

	// Close releases the engine handle. The kernel must not be used after
	// Close returns.
	Close() error
}

// NodeID maps lattice coordinates to a stable node identifier. Coordinates
// wrap toroidally, so any integer input is valid and NodeID(x, y, z) ==
// NodeID(x+32, y, z) on every axis.
func NodeID(x, y, z int) int {
	return wrap(x)*1024 + wrap(y)*32 + wrap(z)
}

// DecodeNode inverts NodeID for identifiers in [0, LatticeSize).
func DecodeNode(pid int) (x, y, z int) {
	return pid / 1024, (pid % 1024) / 32, pid % 32
}

func wrap(v int) int {
	return ((v % LatticeDim) + LatticeDim) % LatticeDim
}
