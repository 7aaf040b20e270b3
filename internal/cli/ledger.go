package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/greylang/greyc/internal/harness"
	"github.com/greylang/greyc/internal/ir"
	"github.com/greylang/greyc/internal/store"
)

// recordRun writes one execution to the run ledger and returns the
// assigned run id. parity is nil for local-only runs.
func recordRun(ctx context.Context, dbPath, program string, result harness.ExecutionResult, parity *bool) (string, error) {
	states := make(map[string]any, len(result.ProcessStates))
	for pid, state := range result.ProcessStates {
		states[strconv.Itoa(pid)] = int64(state)
	}

	canonical, err := ir.MarshalCanonical(states)
	if err != nil {
		return "", fmt.Errorf("marshaling states: %w", err)
	}

	hash, err := ir.RunHash(result.SeedUsed, result.MaxEvents, result.RuntimeProcesses,
		result.Spacing, result.EventsProcessed, result.CurrentTime, states)
	if err != nil {
		return "", fmt.Errorf("hashing run: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating run id: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("opening ledger: %w", err)
	}
	defer st.Close()

	rec := store.RunRecord{
		ID:               id.String(),
		Program:          program,
		Seed:             result.SeedUsed,
		MaxEvents:        result.MaxEvents,
		Spacing:          result.Spacing,
		RuntimeProcesses: result.RuntimeProcesses,
		EventsProcessed:  result.EventsProcessed,
		LogicalTime:      result.CurrentTime,
		ExecutionTimeNS:  result.ExecutionTimeNS,
		ProcessStates:    string(canonical),
		ResultHash:       hash,
		Parity:           parity,
		EngineVersion:    ir.EngineVersion,
		IRVersion:        ir.IRVersion,
	}
	if err := st.WriteRun(ctx, rec); err != nil {
		return "", fmt.Errorf("writing run record: %w", err)
	}
	return rec.ID, nil
}
