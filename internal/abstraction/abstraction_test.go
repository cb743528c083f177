package abstraction

import (
	"testing"

	"github.com/lox/pokercfr/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spec §8 scenario 3
func TestAbstractActionsScenario3(t *testing.T) {
	legal := engine.LegalActions{
		Call:  engine.CallInfo{Present: true, Amount: 1},
		Raise: engine.RaiseInfo{Min: 2, Max: 100},
	}
	got := AbstractActions(legal, 10)

	want := []Action{
		{Kind: Fold}, {Kind: Call},
		{Kind: PotFraction, Fraction: 0.25},
		{Kind: PotFraction, Fraction: 0.5},
		{Kind: PotFraction, Fraction: 0.75},
		{Kind: PotFraction, Fraction: 1.0},
		{Kind: PotFraction, Fraction: 1.5},
		{Kind: PotFraction, Fraction: 2.0},
		{Kind: PotFraction, Fraction: 3.0},
		{Kind: AllIn},
	}
	assert.Equal(t, want, got)
}

// spec §8 scenario 4: free call (no fold), 2.0*50=100 collides with all-in,
// 3.0*50=150 exceeds max so both are omitted.
func TestAbstractActionsScenario4(t *testing.T) {
	legal := engine.LegalActions{
		Call:  engine.CallInfo{Present: false, Amount: 0},
		Raise: engine.RaiseInfo{Min: 2, Max: 100},
	}
	got := AbstractActions(legal, 50)

	want := []Action{
		{Kind: Call},
		{Kind: PotFraction, Fraction: 0.25},
		{Kind: PotFraction, Fraction: 0.5},
		{Kind: PotFraction, Fraction: 0.75},
		{Kind: PotFraction, Fraction: 1.0},
		{Kind: PotFraction, Fraction: 1.5},
		{Kind: AllIn},
	}
	assert.Equal(t, want, got)
}

// spec §8 scenario 5
func TestNearestFractionScenario5(t *testing.T) {
	got := NearestFraction(7, 10, 100)
	assert.Equal(t, Action{Kind: PotFraction, Fraction: 0.75}, got)
}

func TestNearestFractionAllInWhenAmountReachesStack(t *testing.T) {
	got := NearestFraction(100, 10, 100)
	assert.Equal(t, Action{Kind: AllIn}, got)
}

func TestAbstractActionsEmptyF(t *testing.T) {
	orig := F
	F = nil
	defer func() { F = orig }()

	legal := engine.LegalActions{
		Call:  engine.CallInfo{Present: true, Amount: 1},
		Raise: engine.RaiseInfo{Min: 2, Max: 100},
	}
	got := AbstractActions(legal, 10)
	assert.Equal(t, []Action{{Kind: Fold}, {Kind: Call}, {Kind: AllIn}}, got)
}

func TestAbstractActionsNoRaisePossible(t *testing.T) {
	legal := engine.LegalActions{
		Call:  engine.CallInfo{Present: true, Amount: 5},
		Raise: engine.RaiseInfo{Min: 0, Max: -1},
	}
	got := AbstractActions(legal, 10)
	assert.Equal(t, []Action{{Kind: Fold}, {Kind: Call}}, got)
}

func TestConcreteInversion(t *testing.T) {
	legal := engine.LegalActions{
		Call:  engine.CallInfo{Present: true, Amount: 3},
		Raise: engine.RaiseInfo{Min: 2, Max: 100},
	}

	act, amt, err := Concrete(Action{Kind: Fold}, legal, 10)
	require.NoError(t, err)
	assert.Equal(t, engine.ActFold, act)
	assert.Equal(t, 0, amt)

	act, amt, err = Concrete(Action{Kind: Call}, legal, 10)
	require.NoError(t, err)
	assert.Equal(t, engine.ActCall, act)
	assert.Equal(t, 3, amt)

	act, amt, err = Concrete(Action{Kind: AllIn}, legal, 10)
	require.NoError(t, err)
	assert.Equal(t, engine.ActRaise, act)
	assert.Equal(t, 100, amt)

	act, amt, err = Concrete(Action{Kind: PotFraction, Fraction: 0.75}, legal, 10)
	require.NoError(t, err)
	assert.Equal(t, engine.ActRaise, act)
	assert.Equal(t, 7, amt)
}

func TestTagRoundTrip(t *testing.T) {
	all := []Action{{Kind: Fold}, {Kind: Call}, {Kind: AllIn}}
	for _, f := range F {
		all = append(all, Action{Kind: PotFraction, Fraction: f})
	}
	for _, a := range all {
		tag := a.Tag()
		back, err := FromTag(tag)
		require.NoError(t, err)
		assert.Equal(t, a, back)
	}
}

func TestFromTagInvalid(t *testing.T) {
	_, err := FromTag(200)
	assert.Error(t, err)
}

// spec §8: "|actions| = 1: strategy is always [1.0]" boundary is a solver
// concern, but the abstraction boundary it depends on — all-in already
// matched leaves only Call — is tested here.
func TestAbstractActionsAllInAlreadyMatched(t *testing.T) {
	legal := engine.LegalActions{
		Call:  engine.CallInfo{Present: true, Amount: 0},
		Raise: engine.RaiseInfo{Min: 0, Max: -1},
	}
	got := AbstractActions(legal, 10)
	assert.Equal(t, []Action{{Kind: Call}}, got)
}
