package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greylang/greyc/internal/ir"
)

func gridProgram(constants map[string]ir.Value, processes ...string) *ir.Program {
	procs := make([]ir.Process, 0, len(processes))
	for _, name := range processes {
		procs = append(procs, ir.Process{Name: name, Coord: ir.NewCoord(0, 0, 0)})
	}
	if constants == nil {
		constants = map[string]ir.Value{}
	}
	return &ir.Program{
		Name:      "grid_test",
		Processes: procs,
		Constants: constants,
		Resources: ir.DefaultResourceBounds(),
	}
}

func TestGridSizeIsCeilSqrt(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 2, 4: 2, 5: 3, 9: 3, 10: 4, 64: 8, 65: 9}
	for n, want := range cases {
		assert.Equal(t, want, gridSize(n), "n=%d", n)
	}
}

func TestResolveCoordsGridRowMajor(t *testing.T) {
	coords := ResolveCoords(GridLayout{Spacing: 2}, 4)
	require.Len(t, coords, 4)
	assert.Equal(t, ir.NewCoord(0, 0, 0), coords[0])
	assert.Equal(t, ir.NewCoord(2, 0, 0), coords[1])
	assert.Equal(t, ir.NewCoord(0, 2, 0), coords[2])
	assert.Equal(t, ir.NewCoord(2, 2, 0), coords[3])
}

func TestResolveCoordsGridDistinct(t *testing.T) {
	coords := ResolveCoords(GridLayout{Spacing: 1}, 10)
	seen := make(map[ir.Coord]bool)
	for _, c := range coords {
		assert.False(t, seen[c], "duplicate coordinate %s", c)
		seen[c] = true
		assert.Equal(t, 0, c.Z)
	}
	assert.Len(t, coords, 10)
}

func TestResolveCoordsSingleNode(t *testing.T) {
	coords := ResolveCoords(SingleNode{}, 1)
	require.Len(t, coords, 1)
	assert.Equal(t, ir.NewCoord(0, 0, 0), coords[0])
}

func TestResolveCoordsCustomSortsNames(t *testing.T) {
	coords := ResolveCoords(Custom{
		"beta":  ir.NewCoord(1, 0, 0),
		"alpha": ir.NewCoord(2, 0, 0),
		"gamma": ir.NewCoord(3, 0, 0),
	}, 3)
	require.Len(t, coords, 3)
	assert.Equal(t, ir.NewCoord(2, 0, 0), coords[0])
	assert.Equal(t, ir.NewCoord(1, 0, 0), coords[1])
	assert.Equal(t, ir.NewCoord(3, 0, 0), coords[2])
}

func TestRuntimeProcessCountPrecedence(t *testing.T) {
	grid := GridLayout{Spacing: 1}

	p := gridProgram(map[string]ir.Value{"RUNTIME_PROCESSES": ir.IntValue(64)}, "a")
	assert.Equal(t, 64, RuntimeProcessCount(p, grid))

	p = gridProgram(map[string]ir.Value{"MAX_PROCESSES": ir.IntValue(16)}, "a")
	assert.Equal(t, 16, RuntimeProcessCount(p, grid))

	p = gridProgram(map[string]ir.Value{
		"RUNTIME_PROCESSES": ir.IntValue(8),
		"MAX_PROCESSES":     ir.IntValue(16),
	}, "a")
	assert.Equal(t, 8, RuntimeProcessCount(p, grid))

	// A present but non-positive RUNTIME_PROCESSES masks MAX_PROCESSES
	// and falls through to the declared process list.
	p = gridProgram(map[string]ir.Value{
		"RUNTIME_PROCESSES": ir.IntValue(0),
		"MAX_PROCESSES":     ir.IntValue(16),
	}, "a", "b", "c")
	assert.Equal(t, 3, RuntimeProcessCount(p, grid))

	// Non-integer constant behaves the same.
	p = gridProgram(map[string]ir.Value{"RUNTIME_PROCESSES": ir.StringValue("many")}, "a", "b")
	assert.Equal(t, 2, RuntimeProcessCount(p, grid))
}

func TestRuntimeProcessCountFallback(t *testing.T) {
	grid := GridLayout{Spacing: 1}

	assert.Equal(t, 1, RuntimeProcessCount(gridProgram(nil), grid))
	assert.Equal(t, 1, RuntimeProcessCount(gridProgram(nil, "a"), grid))
	assert.Equal(t, 5, RuntimeProcessCount(gridProgram(nil, "a", "b", "c", "d", "e"), grid))

	// SingleNode and Custom ignore constants entirely.
	p := gridProgram(map[string]ir.Value{"RUNTIME_PROCESSES": ir.IntValue(64)}, "a", "b")
	assert.Equal(t, 1, RuntimeProcessCount(p, SingleNode{}))
	assert.Equal(t, 2, RuntimeProcessCount(p, Custom{
		"x": ir.NewCoord(0, 0, 0),
		"y": ir.NewCoord(1, 0, 0),
	}))
	assert.Equal(t, 1, RuntimeProcessCount(p, Custom{}))
}

func TestPlacementMapSingleNode(t *testing.T) {
	p := gridProgram(nil, "susceptible", "infected")
	coords := PlacementMap(p, SingleNode{}, 1)
	require.Len(t, coords, 2)
	assert.Equal(t, ir.NewCoord(0, 0, 0), coords["susceptible"])
	assert.Equal(t, ir.NewCoord(0, 0, 0), coords["infected"])

	// No declared processes: one synthetic entry at the origin.
	coords = PlacementMap(gridProgram(nil), SingleNode{}, 1)
	require.Len(t, coords, 1)
	assert.Equal(t, ir.NewCoord(0, 0, 0), coords["p0"])
}

func TestPlacementMapGridSyntheticNames(t *testing.T) {
	p := gridProgram(nil, "a")
	coords := PlacementMap(p, GridLayout{Spacing: 2}, 4)
	require.Len(t, coords, 4)
	assert.Equal(t, ir.NewCoord(0, 0, 0), coords["p0"])
	assert.Equal(t, ir.NewCoord(2, 0, 0), coords["p1"])
	assert.Equal(t, ir.NewCoord(0, 2, 0), coords["p2"])
	assert.Equal(t, ir.NewCoord(2, 2, 0), coords["p3"])
}
