package runner

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greylang/greyc/internal/backend"
	"github.com/greylang/greyc/internal/engine"
	"github.com/greylang/greyc/internal/ir"
	"github.com/greylang/greyc/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func singleProcessOutput() *backend.Output {
	p := &ir.Program{
		Name:      "solo",
		Processes: []ir.Process{{Name: "only", Coord: ir.NewCoord(0, 0, 0)}},
		Constants: map[string]ir.Value{},
		Resources: ir.DefaultResourceBounds(),
	}
	gen := backend.NewGenerator(backend.DefaultConfig(), backend.RustTarget{}, discardLogger())
	out, err := gen.Generate(p)
	if err != nil {
		panic(err)
	}
	return out
}

func TestExecuteSingleProcessOnCompute(t *testing.T) {
	out := singleProcessOutput()
	require.Equal(t, 1, out.Metadata.RuntimeProcessCount)

	kernel := engine.NewCompute(discardLogger())
	defer kernel.Close()

	tel, err := Execute(kernel, out, discardLogger())
	require.NoError(t, err)

	// Seed 42 injects value 2 at the origin; the event propagates along
	// +x through columns 1..9, so 10 events run with final time 9.
	assert.Equal(t, uint64(10), tel.EventsProcessed)
	assert.Equal(t, uint64(9), tel.CurrentTime)
	require.Len(t, tel.ProcessStates, 1)
	assert.Equal(t, int32(2), tel.ProcessStates[0])
}

func TestExecuteSelfComparisonParity(t *testing.T) {
	out := singleProcessOutput()

	run := func() *Telemetry {
		k := engine.NewCompute(discardLogger())
		defer k.Close()
		tel, err := Execute(k, out, discardLogger())
		require.NoError(t, err)
		return tel
	}

	a, b := run(), run()
	assert.Equal(t, a.EventsProcessed, b.EventsProcessed)
	assert.Equal(t, a.CurrentTime, b.CurrentTime)
	assert.Equal(t, a.ProcessStates, b.ProcessStates)
}

func TestExecuteCallOrderAndCap(t *testing.T) {
	out := singleProcessOutput()
	k := &testutil.ScriptKernel{RunResult: 1}

	_, err := Execute(k, out, discardLogger())
	require.NoError(t, err)

	require.Len(t, k.Spawns, 1)
	assert.Equal(t, testutil.SpawnCall{X: 0, Y: 0, Z: 0}, k.Spawns[0])
	require.Len(t, k.Injects, 1)
	assert.Equal(t, testutil.InjectCall{X: 0, Y: 0, Z: 0, Value: 2}, k.Injects[0])
	assert.Equal(t, []int{1000}, k.RunCaps)
}

func TestExecuteCapFallsBackToEventCount(t *testing.T) {
	out := singleProcessOutput()
	out.Runtime.MaxEvents = 0
	out.Metadata.EventCount = 7

	k := &testutil.ScriptKernel{}
	_, err := Execute(k, out, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []int{7}, k.RunCaps)
}

func TestExecuteSpawnFailure(t *testing.T) {
	// Two placed processes but the kernel admits only one spawn.
	out := singleProcessOutput()
	out.Metadata.RuntimeProcessCount = 2
	out.Runtime.Placement = backend.GridLayout{Spacing: 1}

	k := &testutil.ScriptKernel{MaxSpawns: 1}
	_, err := Execute(k, out, discardLogger())
	require.Error(t, err)
	assert.True(t, backend.IsRuntimeError(err))
}

func TestExecuteInjectFailure(t *testing.T) {
	out := singleProcessOutput()
	k := &testutil.ScriptKernel{RejectInjections: true}

	_, err := Execute(k, out, discardLogger())
	require.Error(t, err)
	assert.True(t, backend.IsRuntimeError(err))
}

func TestExecuteTelemetryDisabled(t *testing.T) {
	out := singleProcessOutput()
	out.Runtime.Telemetry = false

	k := &testutil.ScriptKernel{States: map[int]int32{0: 99}, Events: 5, Time: 3}
	tel, err := Execute(k, out, discardLogger())
	require.NoError(t, err)

	assert.Empty(t, tel.ProcessStates)
	assert.Equal(t, uint64(5), tel.EventsProcessed)
	assert.Equal(t, uint64(3), tel.CurrentTime)
}
