package store

import (
	"context"
	"fmt"
)

// RunRecord is one ledger row. ID is a UUIDv7 assigned by the caller;
// CreatedAt is filled by the database on insert.
type RunRecord struct {
	ID        string
	CreatedAt string
	Program   string

	Seed             uint64
	MaxEvents        int
	Spacing          int
	RuntimeProcesses int

	EventsProcessed uint64
	LogicalTime     uint64
	ExecutionTimeNS uint64

	// ProcessStates is the canonical JSON rendering of the final node
	// states, exactly as hashed into ResultHash.
	ProcessStates string
	ResultHash    string

	// Parity is nil for local-only runs, otherwise the harness verdict.
	Parity *bool

	EngineVersion string
	IRVersion     string
}

// WriteRun inserts a run record. Uses ON CONFLICT(id) DO NOTHING for
// idempotency - re-writing the same run id is silently ignored.
func (s *Store) WriteRun(ctx context.Context, rec RunRecord) error {
	var parity any
	if rec.Parity != nil {
		parity = *rec.Parity
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, program, seed, max_events, spacing, runtime_processes,
		 events_processed, logical_time, execution_time_ns,
		 process_states, result_hash, parity, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Program,
		int64(rec.Seed),
		rec.MaxEvents,
		rec.Spacing,
		rec.RuntimeProcesses,
		int64(rec.EventsProcessed),
		int64(rec.LogicalTime),
		int64(rec.ExecutionTimeNS),
		rec.ProcessStates,
		rec.ResultHash,
		parity,
		rec.EngineVersion,
		rec.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}
