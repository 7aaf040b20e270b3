package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run id has no ledger row.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `
	id, created_at, program, seed, max_events, spacing, runtime_processes,
	events_processed, logical_time, execution_time_ns,
	process_states, result_hash, parity, engine_version, ir_version`

// ListRuns returns the most recent runs, newest first. Ordering is
// deterministic: created_at, then id with binary collation, so two
// ledgers with the same rows list identically.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT`+runColumns+`
		FROM runs
		ORDER BY created_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

// GetRun returns one run by id, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)

	rec, err := scanRunRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	rec, err := scanRunRow(rows)
	if err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	return rec, nil
}

func scanRunRow(row rowScanner) (RunRecord, error) {
	var (
		rec             RunRecord
		seed            int64
		eventsProcessed int64
		logicalTime     int64
		executionTime   int64
		parity          sql.NullBool
	)

	err := row.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.Program,
		&seed,
		&rec.MaxEvents,
		&rec.Spacing,
		&rec.RuntimeProcesses,
		&eventsProcessed,
		&logicalTime,
		&executionTime,
		&rec.ProcessStates,
		&rec.ResultHash,
		&parity,
		&rec.EngineVersion,
		&rec.IRVersion,
	)
	if err != nil {
		return RunRecord{}, err
	}

	rec.Seed = uint64(seed)
	rec.EventsProcessed = uint64(eventsProcessed)
	rec.LogicalTime = uint64(logicalTime)
	rec.ExecutionTimeNS = uint64(executionTime)
	if parity.Valid {
		v := parity.Bool
		rec.Parity = &v
	}

	return rec, nil
}
