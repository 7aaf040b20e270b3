package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greylang/greyc/internal/ir"
	"github.com/greylang/greyc/internal/store"
)

// tinyProtocolLine is the expected protocol output for tiny_demo at the
// default parameters: a single process at the origin, one injection of
// value 2, propagated along x until column 10.
const tinyProtocolLine = `{"seed_used":42,"max_events":1000,"runtime_processes":1,"spacing":1,"events_processed":10,"current_time":9,"process_states":{"0":2}}`

func TestRunProtocolLine(t *testing.T) {
	out, _, err := execute("run", "testdata/tiny_demo.cue")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, tinyProtocolLine, lines[len(lines)-1])
}

func TestRunJSONOutput(t *testing.T) {
	out, _, err := execute("--format", "json", "run", "testdata/tiny_demo.cue")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result RunResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "tiny_demo", result.Program)
	assert.Empty(t, result.RunID)
	assert.Equal(t, uint64(10), result.Result.EventsProcessed)
	assert.Equal(t, uint64(9), result.Result.CurrentTime)
}

func TestRunRecordsLedger(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "greyc.db")

	_, _, err := execute("run", "testdata/tiny_demo.cue", "--db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	records, err := st.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "tiny_demo", rec.Program)
	assert.Equal(t, uint64(42), rec.Seed)
	assert.Equal(t, 1000, rec.MaxEvents)
	assert.Equal(t, 1, rec.RuntimeProcesses)
	assert.Equal(t, uint64(10), rec.EventsProcessed)
	assert.Equal(t, uint64(9), rec.LogicalTime)
	assert.Equal(t, `{"0":2}`, rec.ProcessStates)
	assert.Nil(t, rec.Parity)
	assert.Equal(t, ir.EngineVersion, rec.EngineVersion)
	assert.Equal(t, ir.IRVersion, rec.IRVersion)

	// Recorded hash matches a recomputation from the stored fields.
	expected, err := ir.RunHash(42, 1000, 1, 1, 10, 9, map[string]any{"0": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, expected, rec.ResultHash)
}

func TestRunCustomParameters(t *testing.T) {
	out, _, err := execute("run", "testdata/tiny_demo.cue", "--seed", "7", "--max-events", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	last := lines[len(lines)-1]
	assert.Contains(t, last, `"seed_used":7`)
	assert.Contains(t, last, `"max_events":3`)
	assert.Contains(t, last, `"events_processed":3`)
}

func TestRunMissingDemo(t *testing.T) {
	_, _, err := execute("run", "testdata/absent.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
