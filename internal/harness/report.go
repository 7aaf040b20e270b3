package harness

import (
	"fmt"
	"io"
)

// PrintSummary writes both runs' headline numbers and the parity
// verdict. On failure every state difference is printed, even when the
// counters alone already decide the verdict.
func PrintSummary(w io.Writer, result *ComparisonResult) {
	fmt.Fprintf(w, "grey events_processed=%d current_time=%d runtime_processes=%d\n",
		result.Grey.EventsProcessed, result.Grey.CurrentTime, result.Grey.RuntimeProcesses)
	fmt.Fprintf(w, "cpp  events_processed=%d current_time=%d runtime_processes=%d\n",
		result.Cpp.EventsProcessed, result.Cpp.CurrentTime, result.Cpp.RuntimeProcesses)

	if result.ParityAchieved {
		fmt.Fprintln(w, "PARITY: OK")
		return
	}

	fmt.Fprintln(w, "PARITY: FAILED")
	for _, diff := range result.StateDifferences {
		fmt.Fprintf(w, "  %s\n", diff)
	}
}

// PrintScenarioSummary writes one verdict line per expanded case and a
// final tally.
func PrintScenarioSummary(w io.Writer, name string, results []CaseResult) {
	passed := 0
	for _, r := range results {
		verdict := "OK"
		if !r.ParityAchieved {
			verdict = fmt.Sprintf("FAILED (%d diffs)", r.Differences)
		} else {
			passed++
		}
		fmt.Fprintf(w, "%s seed=%d max_events=%d spacing=%d: %s\n",
			r.Demo, r.Seed, r.MaxEvents, r.Spacing, verdict)
	}
	fmt.Fprintf(w, "scenario %s: %d/%d cases passed\n", name, passed, len(results))
}
