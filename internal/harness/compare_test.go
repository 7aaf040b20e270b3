package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleResult() ExecutionResult {
	return ExecutionResult{
		SeedUsed:         42,
		MaxEvents:        1000,
		RuntimeProcesses: 3,
		Spacing:          1,
		EventsProcessed:  31,
		CurrentTime:      7,
		ProcessStates:    StateMap{0: 2, 1024: 3, 2048: 0},
	}
}

func TestCompareParity(t *testing.T) {
	result := Compare(sampleResult(), sampleResult())

	assert.True(t, result.EventsMatch)
	assert.True(t, result.CurrentTimeMatch)
	assert.Empty(t, result.StateDifferences)
	assert.True(t, result.ParityAchieved)
}

func TestCompareStateMismatch(t *testing.T) {
	grey := sampleResult()
	cpp := sampleResult()
	cpp.ProcessStates = StateMap{0: 2, 1024: 4, 2048: 0}

	result := Compare(grey, cpp)

	assert.True(t, result.EventsMatch)
	assert.True(t, result.CurrentTimeMatch)
	assert.Equal(t, []string{"pid 1024: grey=3 cpp=4"}, result.StateDifferences)
	assert.False(t, result.ParityAchieved)
}

func TestCompareAbsentPidRendersNone(t *testing.T) {
	grey := sampleResult()
	grey.ProcessStates = StateMap{0: 2, 5: 7}
	cpp := sampleResult()
	cpp.ProcessStates = StateMap{0: 2, 9: 1}

	result := Compare(grey, cpp)

	assert.Equal(t, []string{
		"pid 5: grey=7 cpp=none",
		"pid 9: grey=none cpp=1",
	}, result.StateDifferences)
	assert.False(t, result.ParityAchieved)
}

func TestCompareZeroAgainstAbsentDiffers(t *testing.T) {
	// A node that exists with state zero is not the same as a missing
	// node.
	grey := ExecutionResult{ProcessStates: StateMap{7: 0}}
	cpp := ExecutionResult{ProcessStates: StateMap{}}

	result := Compare(grey, cpp)
	assert.Equal(t, []string{"pid 7: grey=0 cpp=none"}, result.StateDifferences)
}

func TestCompareCounterMismatchStillDiffsStates(t *testing.T) {
	grey := sampleResult()
	cpp := sampleResult()
	cpp.EventsProcessed = 30
	cpp.CurrentTime = 6
	cpp.ProcessStates = StateMap{0: 1, 1024: 3, 2048: 0}

	result := Compare(grey, cpp)

	assert.False(t, result.EventsMatch)
	assert.False(t, result.CurrentTimeMatch)
	assert.Equal(t, []string{"pid 0: grey=2 cpp=1"}, result.StateDifferences)
	assert.False(t, result.ParityAchieved)
}

func TestCompareDifferencesSortedByPid(t *testing.T) {
	grey := ExecutionResult{ProcessStates: StateMap{2048: 1, 0: 1, 32: 1}}
	cpp := ExecutionResult{ProcessStates: StateMap{2048: 2, 0: 2, 32: 2}}

	result := Compare(grey, cpp)
	assert.Equal(t, []string{
		"pid 0: grey=1 cpp=2",
		"pid 32: grey=1 cpp=2",
		"pid 2048: grey=1 cpp=2",
	}, result.StateDifferences)
}
