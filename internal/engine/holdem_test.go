package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldemNewRoundPostsBlinds(t *testing.T) {
	h := NewHoldem(1, 2)
	st, err := h.NewRound([2]int{100, 100}, nil)
	require.NoError(t, err)

	pub := st.Public()
	assert.Equal(t, 3, pub.Pot)
	assert.Equal(t, [2]int{99, 98}, pub.Stacks)
	assert.Equal(t, SeatZero, st.Actor())
}

func TestHoldemFoldIsZeroSum(t *testing.T) {
	h := NewHoldem(1, 2)
	st, err := h.NewRound([2]int{100, 100}, nil)
	require.NoError(t, err)

	st, err = st.Apply(ActFold, 0)
	require.NoError(t, err)

	terminal, payoffs := st.IsTerminal()
	require.True(t, terminal)
	assert.InDelta(t, 0, payoffs[0]+payoffs[1], 1e-9)
}

func TestHoldemCallThenCheckAdvancesStreet(t *testing.T) {
	h := NewHoldem(1, 2)
	st, err := h.NewRound([2]int{100, 100}, nil)
	require.NoError(t, err)

	st, err = st.Apply(ActCall, 0) // SB calls to match BB
	require.NoError(t, err)
	st, err = st.Apply(ActCall, 0) // BB checks
	require.NoError(t, err)

	hs := st.(*holdemState)
	assert.Equal(t, Flop, hs.street)
	assert.Len(t, hs.Public().Board, 3)
}

func TestHoldemSnapshotIsIndependent(t *testing.T) {
	h := NewHoldem(1, 2)
	st, err := h.NewRound([2]int{100, 100}, nil)
	require.NoError(t, err)

	snap := st.Snapshot()
	_, err = snap.Apply(ActRaise, 10)
	require.NoError(t, err)

	pub := st.Public()
	assert.Equal(t, 3, pub.Pot, "original state pot must be unaffected by mutating the snapshot")
}

func TestHoldemLegalActionsAllInWhenStackShort(t *testing.T) {
	h := NewHoldem(1, 2)
	st, err := h.NewRound([2]int{100, 2}, nil)
	require.NoError(t, err)

	// SB (100 chips, owes 1 more to match BB's 2) raises all but a sliver so BB is left short.
	st, err = st.Apply(ActRaise, 97)
	require.NoError(t, err)

	legal := st.LegalActions()
	assert.True(t, legal.Call.Present)
	assert.False(t, legal.Raise.Possible())
}
