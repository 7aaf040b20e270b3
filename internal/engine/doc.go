// Package engine provides the deterministic event kernel programs execute
// on. The kernel is a 32x32x32 toroidal lattice of processes driven by a
// totally ordered event queue: given the same spawn and injection sequence,
// every run produces the same event trace, logical clock, and final states.
//
// The Kernel interface is the narrow capability surface the runner and
// harness depend on. Compute is the in-process implementation; external
// reference kernels are reached through the harness instead.
package engine
