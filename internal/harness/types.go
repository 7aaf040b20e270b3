package harness

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// StateMap holds final per-node states keyed by node id. Its JSON form
// uses string keys in ascending numeric order, matching the reference
// binary's std::map output byte for byte. encoding/json would sort the
// rendered keys lexicographically ("10" before "2"), so marshaling is
// implemented by hand.
type StateMap map[int]int32

// SortedIDs returns the node ids in ascending numeric order.
func (m StateMap) SortedIDs() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MarshalJSON implements json.Marshaler.
func (m StateMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, id := range m.SortedIDs() {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '"')
		buf = strconv.AppendInt(buf, int64(id), 10)
		buf = append(buf, '"', ':')
		buf = strconv.AppendInt(buf, int64(m[id]), 10)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON implements json.Unmarshaler. A key that does not parse
// as an unsigned integer is an error.
func (m *StateMap) UnmarshalJSON(data []byte) error {
	var raw map[string]int32
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(StateMap, len(raw))
	for key, state := range raw {
		pid, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid pid key %q: %w", key, err)
		}
		out[int(pid)] = state
	}
	*m = out
	return nil
}

// ExecutionResult is the flattened snapshot of one run, local or
// reference.
type ExecutionResult struct {
	SeedUsed         uint64   `json:"seed_used"`
	MaxEvents        int      `json:"max_events"`
	RuntimeProcesses int      `json:"runtime_processes"`
	Spacing          int      `json:"spacing"`
	EventsProcessed  uint64   `json:"events_processed"`
	CurrentTime      uint64   `json:"current_time"`
	ExecutionTimeNS  uint64   `json:"execution_time_ns"`
	ProcessStates    StateMap `json:"process_states"`
}

// protocolLine is the reference process protocol payload: the final
// stdout line of a reference peer. It omits execution_time_ns, which is
// wall time and never part of the parity contract.
type protocolLine struct {
	SeedUsed         uint64   `json:"seed_used"`
	MaxEvents        int      `json:"max_events"`
	RuntimeProcesses int      `json:"runtime_processes"`
	Spacing          int      `json:"spacing"`
	EventsProcessed  uint64   `json:"events_processed"`
	CurrentTime      uint64   `json:"current_time"`
	ProcessStates    StateMap `json:"process_states"`
}

// ProtocolLine renders a result as the reference process protocol JSON,
// byte-compatible with the C++ reference binary's final stdout line.
func ProtocolLine(r ExecutionResult) (string, error) {
	data, err := json.Marshal(protocolLine{
		SeedUsed:         r.SeedUsed,
		MaxEvents:        r.MaxEvents,
		RuntimeProcesses: r.RuntimeProcesses,
		Spacing:          r.Spacing,
		EventsProcessed:  r.EventsProcessed,
		CurrentTime:      r.CurrentTime,
		ProcessStates:    r.ProcessStates,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ComparisonResult is the terminal verdict of one harness run.
type ComparisonResult struct {
	Grey ExecutionResult `json:"grey"`
	Cpp  ExecutionResult `json:"cpp"`

	EventsMatch      bool     `json:"events_match"`
	CurrentTimeMatch bool     `json:"current_time_match"`
	StateDifferences []string `json:"state_differences"`

	ParityAchieved bool `json:"parity_achieved"`
}
