package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func summaryGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"))
}

func TestPrintSummaryParity(t *testing.T) {
	result := Compare(sampleResult(), sampleResult())

	var buf bytes.Buffer
	PrintSummary(&buf, &result)

	summaryGoldie(t).Assert(t, "summary_ok", buf.Bytes())
}

func TestPrintSummaryFailure(t *testing.T) {
	grey := sampleResult()
	grey.ProcessStates = StateMap{0: 2, 5: 7}
	cpp := sampleResult()
	cpp.EventsProcessed = 30
	cpp.CurrentTime = 6
	cpp.ProcessStates = StateMap{0: 1, 9: 1}

	result := Compare(grey, cpp)

	var buf bytes.Buffer
	PrintSummary(&buf, &result)

	summaryGoldie(t).Assert(t, "summary_failed", buf.Bytes())
}

func TestPrintScenarioSummary(t *testing.T) {
	results := []CaseResult{
		{Demo: "examples/sir_demo.cue", Seed: 42, MaxEvents: 1000, Spacing: 1, ParityAchieved: true},
		{Demo: "examples/sir_demo.cue", Seed: 7, MaxEvents: 500, Spacing: 2, ParityAchieved: false, Differences: 3},
	}

	var buf bytes.Buffer
	PrintScenarioSummary(&buf, "smoke", results)

	summaryGoldie(t).Assert(t, "scenario_summary", buf.Bytes())
}
