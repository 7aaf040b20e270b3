package engine

import (
	"container/heap"
	"log/slog"
	"sync"
)

// event is a scheduled state delta. The queue orders events by
// (timestamp, dst, src, value), which totally orders every pair of
// distinct events and makes pop order independent of insertion order.
type event struct {
	timestamp uint64
	dst       int
	src       int
	value     int32
}

func eventLess(a, b event) bool {
	if a.timestamp != b.timestamp {
		return a.timestamp < b.timestamp
	}
	if a.dst != b.dst {
		return a.dst < b.dst
	}
	if a.src != b.src {
		return a.src < b.src
	}
	return a.value < b.value
}

type eventHeap []event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return eventLess(h[i], h[j]) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)        { *h = append(*h, x.(event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	*h = old[:n-1]
	return evt
}

// Compute is the in-process deterministic kernel. It is single-writer:
// only InjectEvent may be called concurrently; everything else belongs to
// the scheduling goroutine.
type Compute struct {
	states [LatticeSize]int32
	active [LatticeSize]bool

	processCount int
	poolUsed     int

	queue eventHeap

	currentTime     uint64
	eventsProcessed uint64

	mu      sync.Mutex
	pending []event

	log *slog.Logger
}

// NewCompute returns an empty kernel. A nil logger falls back to
// slog.Default.
func NewCompute(logger *slog.Logger) *Compute {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compute{
		queue: make(eventHeap, 0, MaxQueuedEvents),
		log:   logger.With("component", "engine"),
	}
}

// SpawnProcess activates the node at (x, y, z) and resets its state to
// zero. Re-spawning an active node resets it but still consumes a pool
// slot, matching lifetime pool accounting.
func (c *Compute) SpawnProcess(x, y, z int) bool {
	pid := NodeID(x, y, z)

	if !c.active[pid] {
		c.active[pid] = true
		c.processCount++
	}
	c.states[pid] = 0

	if c.poolUsed >= MaxPoolProcesses {
		c.log.Warn("process pool exhausted", "pid", pid, "limit", MaxPoolProcesses)
		return false
	}
	c.poolUsed++
	return true
}

// InjectEvent buffers an event for (x, y, z) stamped with the current
// logical time, with source node zero. Safe for concurrent use.
func (c *Compute) InjectEvent(x, y, z int, value int32) bool {
	evt := event{
		timestamp: c.currentTime,
		dst:       NodeID(x, y, z),
		src:       0,
		value:     value,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) >= MaxPendingInjections {
		return false
	}
	c.pending = append(c.pending, evt)
	return true
}

// Run flushes buffered injections into the queue, then processes at most
// maxEvents events. Returns the count processed in this call; the
// lifetime total is EventsProcessed.
func (c *Compute) Run(maxEvents int) int {
	c.flushPending()

	processed := 0
	for processed < maxEvents && len(c.queue) > 0 {
		c.tick()
		processed++
	}
	return processed
}

func (c *Compute) flushPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, evt := range c.pending {
		c.push(evt)
	}
	c.pending = c.pending[:0]
}

// push enqueues an event, dropping it when the queue is at capacity.
func (c *Compute) push(evt event) bool {
	if len(c.queue) >= MaxQueuedEvents {
		return false
	}
	heap.Push(&c.queue, evt)
	return true
}

// tick pops the minimum event, advances the logical clock, applies the
// delta to the destination node, and propagates along +x while the
// wrapped next column is below 10.
func (c *Compute) tick() {
	evt := heap.Pop(&c.queue).(event)

	c.currentTime = evt.timestamp
	c.eventsProcessed++

	dx, dy, dz := DecodeNode(evt.dst)

	if c.active[evt.dst] {
		c.states[evt.dst] += evt.value
	}

	nextX := (dx + 1) % LatticeDim
	if nextX < 10 {
		c.push(event{
			timestamp: c.currentTime + 1,
			dst:       NodeID(nextX, dy, dz),
			src:       evt.dst,
			value:     evt.value + 1,
		})
	}
}

// ProcessState returns the accumulated state of pid, or zero for inactive
// or out-of-range identifiers.
func (c *Compute) ProcessState(pid int) int32 {
	if pid < 0 || pid >= LatticeSize {
		return 0
	}
	if !c.active[pid] {
		return 0
	}
	return c.states[pid]
}

// EventsProcessed returns the lifetime processed-event count.
func (c *Compute) EventsProcessed() uint64 { return c.eventsProcessed }

// CurrentTime returns the logical clock.
func (c *Compute) CurrentTime() uint64 { return c.currentTime }

// ProcessCount returns the number of distinct active nodes.
func (c *Compute) ProcessCount() int { return c.processCount }

// Close releases the kernel. The in-process kernel holds no external
// resources, so this only discards buffered injections.
func (c *Compute) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
	return nil
}

var _ Kernel = (*Compute)(nil)
