package harness

import (
	"fmt"
	"sort"
	"strconv"
)

// Compare diffs two runs field by field. State differences cover the
// union of node ids on either side; an id present on one side only is a
// difference, rendered as "none". Every difference is collected even
// when the counters already mismatch, to aid debugging.
func Compare(grey, cpp ExecutionResult) ComparisonResult {
	union := make(map[int]bool, len(grey.ProcessStates)+len(cpp.ProcessStates))
	for pid := range grey.ProcessStates {
		union[pid] = true
	}
	for pid := range cpp.ProcessStates {
		union[pid] = true
	}

	pids := make([]int, 0, len(union))
	for pid := range union {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	var differences []string
	for _, pid := range pids {
		g, gok := grey.ProcessStates[pid]
		c, cok := cpp.ProcessStates[pid]
		if gok != cok || g != c {
			differences = append(differences, fmt.Sprintf(
				"pid %d: grey=%s cpp=%s", pid, renderState(g, gok), renderState(c, cok)))
		}
	}

	eventsMatch := grey.EventsProcessed == cpp.EventsProcessed
	currentTimeMatch := grey.CurrentTime == cpp.CurrentTime

	return ComparisonResult{
		Grey:             grey,
		Cpp:              cpp,
		EventsMatch:      eventsMatch,
		CurrentTimeMatch: currentTimeMatch,
		StateDifferences: differences,
		ParityAchieved:   eventsMatch && currentTimeMatch && len(differences) == 0,
	}
}

func renderState(state int32, present bool) string {
	if !present {
		return "none"
	}
	return strconv.FormatInt(int64(state), 10)
}
