package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: smoke
cases:
  - demo: examples/sir_demo.cue
    seeds: [42, 7]
    max_events: [1000]
    spacing: [1, 2]
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "smoke", s.Name)
	require.Len(t, s.Cases, 1)
	assert.Equal(t, "examples/sir_demo.cue", s.Cases[0].Demo)
	assert.Equal(t, []uint64{42, 7}, s.Cases[0].Seeds)
	assert.Equal(t, []int{1000}, s.Cases[0].MaxEvents)
	assert.Equal(t, []int{1, 2}, s.Cases[0].Spacing)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading scenario")
}

func TestLoadScenarioNoCases(t *testing.T) {
	path := writeScenario(t, "name: empty\n")
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no cases")
}

func TestLoadScenarioBadYAML(t *testing.T) {
	path := writeScenario(t, "cases: [\n")
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scenario")
}

func TestScenarioExpand(t *testing.T) {
	s := &Scenario{
		Name: "matrix",
		Cases: []ScenarioCase{
			{Demo: "a.cue", Seeds: []uint64{1, 2}, Spacing: []int{3}},
			{MaxEvents: []int{10, 20}},
		},
	}

	base := DefaultConfig()
	base.DemoPath = "base.cue"

	configs := s.Expand(base)
	require.Len(t, configs, 4)

	// First case: explicit seeds and spacing, cap falls back to base.
	assert.Equal(t, "a.cue", configs[0].DemoPath)
	assert.Equal(t, uint64(1), configs[0].Seed)
	assert.Equal(t, 1000, configs[0].MaxEvents)
	assert.Equal(t, 3, configs[0].Spacing)
	assert.Equal(t, uint64(2), configs[1].Seed)

	// Second case: demo and seed fall back to base.
	assert.Equal(t, "base.cue", configs[2].DemoPath)
	assert.Equal(t, uint64(42), configs[2].Seed)
	assert.Equal(t, 10, configs[2].MaxEvents)
	assert.Equal(t, 20, configs[3].MaxEvents)
	assert.Equal(t, 1, configs[3].Spacing)
}

func TestRunScenarioAgainstStub(t *testing.T) {
	base := demoConfig()

	local, err := ExecuteLocal(base)
	require.NoError(t, err)
	line, err := ProtocolLine(local.Result)
	require.NoError(t, err)
	base.CppExeOverride = stubReference(t, line)

	s := &Scenario{
		Name: "smoke",
		Cases: []ScenarioCase{
			{Demo: base.DemoPath, Seeds: []uint64{42}},
		},
	}

	results, err := RunScenario(s, base)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, base.DemoPath, results[0].Demo)
	assert.Equal(t, uint64(42), results[0].Seed)
	assert.Equal(t, 1000, results[0].MaxEvents)
	assert.Equal(t, 1, results[0].Spacing)
	assert.True(t, results[0].ParityAchieved)
	assert.Zero(t, results[0].Differences)
	assert.True(t, AllPassed(results))
}

func TestRunScenarioPipelineFailureIsFatal(t *testing.T) {
	base := demoConfig()
	base.CppExeOverride = "testdata/no_such_binary"

	s := &Scenario{
		Name:  "broken",
		Cases: []ScenarioCase{{Demo: base.DemoPath}},
	}

	_, err := RunScenario(s, base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario broken")
}

func TestAllPassed(t *testing.T) {
	assert.True(t, AllPassed(nil))
	assert.True(t, AllPassed([]CaseResult{{ParityAchieved: true}}))
	assert.False(t, AllPassed([]CaseResult{
		{ParityAchieved: true},
		{ParityAchieved: false},
	}))
}
