package harness

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const protocolSample = `{"seed_used":42,"max_events":1000,"runtime_processes":64,"spacing":1,"events_processed":31,"current_time":7,"process_states":{"0":2,"1024":3}}`

func TestParseReferenceOutput(t *testing.T) {
	stdout := "grey_sir_reference starting\nspawned 64 processes\n" + protocolSample + "\ndone\n"

	result, err := ParseReferenceOutput(stdout)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), result.SeedUsed)
	assert.Equal(t, 1000, result.MaxEvents)
	assert.Equal(t, 64, result.RuntimeProcesses)
	assert.Equal(t, 1, result.Spacing)
	assert.Equal(t, uint64(31), result.EventsProcessed)
	assert.Equal(t, uint64(7), result.CurrentTime)
	assert.Equal(t, uint64(0), result.ExecutionTimeNS)
	assert.Equal(t, StateMap{0: 2, 1024: 3}, result.ProcessStates)
}

func TestParseReferenceOutputTakesLastJSONLine(t *testing.T) {
	stdout := `{"seed_used":1}` + "\n" + protocolSample + "\n"

	result, err := ParseReferenceOutput(stdout)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), result.SeedUsed)
}

func TestParseReferenceOutputIndentedLine(t *testing.T) {
	stdout := "noise\n  " + protocolSample + "\n"

	result, err := ParseReferenceOutput(stdout)
	require.NoError(t, err)
	assert.Equal(t, uint64(31), result.EventsProcessed)
}

func TestParseReferenceOutputMissingJSON(t *testing.T) {
	_, err := ParseReferenceOutput("no protocol here\nstill nothing\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not contain a JSON line")
}

func TestParseReferenceOutputBadPidKey(t *testing.T) {
	_, err := ParseReferenceOutput(`{"seed_used":42,"process_states":{"oops":1}}` + "\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pid key")
}

func TestParseReferenceOutputNilStates(t *testing.T) {
	result, err := ParseReferenceOutput(`{"seed_used":42,"events_processed":0,"current_time":0}` + "\n")
	require.NoError(t, err)
	require.NotNil(t, result.ProcessStates)
	assert.Empty(t, result.ProcessStates)
}

func TestFindReferenceExe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix file layout")
	}

	dir := t.TempDir()
	assert.Equal(t, "", findReferenceExe(dir))

	direct := filepath.Join(dir, "grey_sir_reference")
	require.NoError(t, os.WriteFile(direct, []byte("#!/bin/sh\n"), 0o755))
	assert.Equal(t, direct, findReferenceExe(dir))
}

func TestFindReferenceExeReleaseSubdir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix file layout")
	}

	dir := t.TempDir()
	release := filepath.Join(dir, "Release")
	require.NoError(t, os.MkdirAll(release, 0o755))

	exe := filepath.Join(release, "grey_sir_reference")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	assert.Equal(t, exe, findReferenceExe(dir))
}

// stubReference writes a shell script that ignores its arguments and
// prints the given protocol line after some log noise.
func stubReference(t *testing.T, line string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub")
	}

	script := "#!/bin/sh\necho 'reference starting'\necho 'spawning processes'\necho '" + line + "'\n"
	path := filepath.Join(t.TempDir(), "grey_sir_reference")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestInvokeReference(t *testing.T) {
	exe := stubReference(t, protocolSample)

	result, err := InvokeReference(exe, 42, 1000, 64, 1)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), result.SeedUsed)
	assert.Equal(t, uint64(31), result.EventsProcessed)
	assert.Equal(t, StateMap{0: 2, 1024: 3}, result.ProcessStates)
}

func TestInvokeReferenceNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub")
	}

	path := filepath.Join(t.TempDir(), "grey_sir_reference")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 3\n"), 0o755))

	_, err := InvokeReference(path, 42, 1000, 64, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running reference exe")
}
