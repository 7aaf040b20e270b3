package backend

import (
	"sort"
	"strconv"

	"github.com/greylang/greyc/internal/ir"
)

// PlacementStrategy selects how processes are positioned in the lattice.
// It is a sealed union: SingleNode, GridLayout, or Custom.
type PlacementStrategy interface {
	placement()
}

// SingleNode places everything at the origin.
type SingleNode struct{}

// GridLayout arranges processes on a square grid at z=0, scaled by
// Spacing.
type GridLayout struct {
	Spacing int
}

// Custom is a caller-supplied name to coordinate mapping, used verbatim.
// Indexed consumers must sort the names first.
type Custom map[string]ir.Coord

func (SingleNode) placement() {}
func (GridLayout) placement() {}
func (Custom) placement()     {}

// EventOrdering selects the engine's tie-breaking discipline.
type EventOrdering string

const (
	// OrderingDeterministic breaks timestamp ties by coordinates. The
	// only ordering the deterministic pipeline supports.
	OrderingDeterministic EventOrdering = "deterministic"

	// OrderingFifo is declared for completeness but rejected by
	// validation: FIFO tie-breaking is not reproducible across engines.
	OrderingFifo EventOrdering = "fifo"
)

// Placement is one resolved (name, coordinate) entry.
type Placement struct {
	Name  string
	Coord ir.Coord
}

// RuntimeProcessCount resolves how many processes the engine will
// actually run. For GridLayout the count comes from the first of the IR
// constants RUNTIME_PROCESSES and MAX_PROCESSES that is present; a
// present but non-positive or non-integer value falls through to
// max(1, len(processes)) rather than the next constant.
func RuntimeProcessCount(p *ir.Program, strategy PlacementStrategy) int {
	switch s := strategy.(type) {
	case SingleNode:
		return 1
	case Custom:
		if len(s) > 1 {
			return len(s)
		}
		return 1
	case GridLayout:
		if n, ok := constantProcessCount(p); ok {
			return n
		}
	}
	if len(p.Processes) > 1 {
		return len(p.Processes)
	}
	return 1
}

func constantProcessCount(p *ir.Program) (int, bool) {
	for _, name := range []string{"RUNTIME_PROCESSES", "MAX_PROCESSES"} {
		v, present := p.Constants[name]
		if !present {
			continue
		}
		if n, isInt := v.(ir.IntValue); isInt && n > 0 {
			return int(n), true
		}
		return 0, false
	}
	return 0, false
}

// PlacementMap computes the name to coordinate table embedded in
// generated artifacts.
//
// SingleNode maps every declared process name to the origin, with a
// synthetic "p0" when the program declares none. GridLayout assigns
// synthetic names "p{i}" in row-major index order, since the runtime
// count may exceed the declared process list. Custom is returned as
// given.
func PlacementMap(p *ir.Program, strategy PlacementStrategy, runtimeCount int) map[string]ir.Coord {
	switch s := strategy.(type) {
	case SingleNode:
		coords := make(map[string]ir.Coord)
		for _, proc := range p.Processes {
			coords[proc.Name] = ir.NewCoord(0, 0, 0)
		}
		if len(coords) == 0 {
			coords["p0"] = ir.NewCoord(0, 0, 0)
		}
		return coords
	case GridLayout:
		coords := make(map[string]ir.Coord, runtimeCount)
		g := gridSize(runtimeCount)
		for i := 0; i < runtimeCount; i++ {
			coords[syntheticName(i)] = ir.NewCoord(
				(i%g)*s.Spacing,
				(i/g)*s.Spacing,
				0,
			)
		}
		return coords
	case Custom:
		out := make(map[string]ir.Coord, len(s))
		for name, c := range s {
			out[name] = c
		}
		return out
	}
	return nil
}

// ResolveCoords computes the ordered coordinate list the execution
// adapter spawns and injects against. The order is part of the
// determinism contract: grid entries in row-major index order, custom
// entries by lexicographically sorted name, single node as one origin.
func ResolveCoords(strategy PlacementStrategy, runtimeCount int) []ir.Coord {
	switch s := strategy.(type) {
	case SingleNode:
		return []ir.Coord{ir.NewCoord(0, 0, 0)}
	case GridLayout:
		coords := make([]ir.Coord, 0, runtimeCount)
		g := gridSize(runtimeCount)
		for i := 0; i < runtimeCount; i++ {
			coords = append(coords, ir.NewCoord(
				(i%g)*s.Spacing,
				(i/g)*s.Spacing,
				0,
			))
		}
		return coords
	case Custom:
		names := make([]string, 0, len(s))
		for name := range s {
			names = append(names, name)
		}
		sort.Strings(names)
		coords := make([]ir.Coord, 0, len(names))
		for _, name := range names {
			coords = append(coords, s[name])
		}
		return coords
	}
	return nil
}

// gridSize returns max(1, ceil(sqrt(n))) in integer arithmetic.
func gridSize(n int) int {
	g := 1
	for g*g < n {
		g++
	}
	return g
}

func syntheticName(i int) string {
	return "p" + strconv.Itoa(i)
}
