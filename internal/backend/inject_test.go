package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greylang/greyc/internal/ir"
)

func TestXorShift64ZeroSeedCorrection(t *testing.T) {
	// Zero is a fixed point of the step, so seed 0 must behave as seed 1.
	zero := NewXorShift64(0)
	one := NewXorShift64(1)
	for i := 0; i < 4; i++ {
		assert.Equal(t, one.Next(), zero.Next())
	}
	assert.NotZero(t, NewXorShift64(0).Next())
}

func TestXorShift64KnownSequence(t *testing.T) {
	rng := NewXorShift64(42)
	assert.Equal(t, uint64(45454805674), rng.Next())
	assert.Equal(t, uint64(11532217803599905471), rng.Next())
	assert.Equal(t, uint64(10021416941527320954), rng.Next())
	assert.Equal(t, uint64(2899061411254629736), rng.Next())
}

func TestInjectionPlanSeed42(t *testing.T) {
	coords := ResolveCoords(GridLayout{Spacing: 1}, 4)
	plan := InjectionPlan(42, coords)
	require.Len(t, plan, 4)

	// Index draw precedes value draw on every injection; these pairs pin
	// the exact generator trajectory for seed 42.
	assert.Equal(t, Injection{Coord: coords[2], Value: 2}, plan[0])
	assert.Equal(t, Injection{Coord: coords[2], Value: 2}, plan[1])
	assert.Equal(t, Injection{Coord: coords[2], Value: 3}, plan[2])
	assert.Equal(t, Injection{Coord: coords[3], Value: 5}, plan[3])
}

func TestInjectionPlanSingleProcess(t *testing.T) {
	plan := InjectionPlan(42, []ir.Coord{ir.NewCoord(0, 0, 0)})
	require.Len(t, plan, 1)
	assert.Equal(t, ir.NewCoord(0, 0, 0), plan[0].Coord)
	assert.Equal(t, int32(2), plan[0].Value)
}

func TestInjectionPlanCapsAtFour(t *testing.T) {
	coords := ResolveCoords(GridLayout{Spacing: 1}, 100)
	assert.Len(t, InjectionPlan(7, coords), 4)
	assert.Len(t, InjectionPlan(7, coords[:3]), 3)
	assert.Nil(t, InjectionPlan(7, nil))
}

func TestInjectionPlanReproducible(t *testing.T) {
	coords := ResolveCoords(GridLayout{Spacing: 3}, 9)
	a := InjectionPlan(12345, coords)
	b := InjectionPlan(12345, coords)
	assert.Equal(t, a, b)

	c := InjectionPlan(12346, coords)
	assert.NotEqual(t, a, c)
}

func TestInjectionValuesInRange(t *testing.T) {
	coords := ResolveCoords(GridLayout{Spacing: 1}, 16)
	for seed := uint64(0); seed < 50; seed++ {
		for _, inj := range InjectionPlan(seed, coords) {
			assert.GreaterOrEqual(t, inj.Value, int32(1))
			assert.LessOrEqual(t, inj.Value, int32(5))
		}
	}
}
