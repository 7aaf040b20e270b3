package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// exists so a future algorithm change can coexist with old records.
const (
	DomainProgram = "greyc/program/v1"
	DomainRun     = "greyc/run/v1"
)

// hashWithDomain computes SHA-256 over domain || 0x00 || data.
// The null separator prevents domain/payload boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProgramHash computes the content-addressed identity of a program.
// Transitions are excluded: the backend carries them into artifacts
// verbatim but they do not influence placement, injection, or telemetry,
// so two programs that differ only in transition bodies are the same
// workload to the engine.
func ProgramHash(p *Program) (string, error) {
	processes := make([]any, len(p.Processes))
	for i, proc := range p.Processes {
		processes[i] = map[string]any{
			"name":  proc.Name,
			"coord": CoordValue(proc.Coord),
		}
	}

	events := make([]any, len(p.Events))
	for i, ev := range p.Events {
		events[i] = ev.Name
	}

	constants := make(map[string]any, len(p.Constants))
	for name, v := range p.Constants {
		constants[name] = v
	}

	obj := map[string]any{
		"name":      p.Name,
		"processes": processes,
		"events":    events,
		"constants": constants,
		"resources": map[string]any{
			"max_processes":        p.Resources.MaxProcesses,
			"max_events_per_tick":  p.Resources.MaxEventsPerTick,
			"max_coordinate_value": p.Resources.MaxCoordinateValue,
		},
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ProgramHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}

// RunHash computes the content-addressed identity of one execution's
// observable result. Execution wall time is excluded: it varies run to
// run and must not break identity of otherwise bit-equal results.
func RunHash(seed uint64, maxEvents int, runtimeProcesses int, spacing int, eventsProcessed, currentTime uint64, states map[string]any) (string, error) {
	obj := map[string]any{
		"seed_used":         seed,
		"max_events":        maxEvents,
		"runtime_processes": runtimeProcesses,
		"spacing":           spacing,
		"events_processed":  eventsProcessed,
		"current_time":      currentTime,
		"process_states":    states,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}
