// Package harness certifies cross-implementation parity. It runs a
// program through the local pipeline (compile, generate, execute on the
// in-process kernel) and through an independently built C++ reference
// binary with equivalent parameters, then compares the two runs field by
// field. Parity means identical events_processed, current_time, and
// per-node final states.
//
// The pipeline is linear with no backtracking, and every stage wraps its
// failure with the stage name so a broken run is attributable to exactly
// one step.
package harness
