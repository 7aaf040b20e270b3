// Package backend turns a validated IR program into a deterministic
// workload: a placement of processes in the lattice, a seeded injection
// plan, generated source artifacts, and the runtime configuration the
// execution adapter consumes.
//
// Everything here is integer arithmetic on purpose. Two runs with the
// same program, strategy, and seed produce byte-identical artifacts and
// injection sequences, which is what the parity harness certifies.
package backend
