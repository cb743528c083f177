package engine

import (
	"testing"

	"github.com/lox/pokercfr/internal/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeducShowdownPairBeatsHighCard(t *testing.T) {
	jack := cards.Card{Rank: cards.Jack, Suit: cards.Spades}
	queen := cards.Card{Rank: cards.Queen, Suit: cards.Hearts}
	board := cards.Card{Rank: cards.Jack, Suit: cards.Hearts}

	assert.Equal(t, 1, leducShowdown(jack, queen, board), "pair of jacks beats a lone queen")
	assert.Equal(t, -1, leducShowdown(queen, jack, board), "symmetric")
}

func TestLeducShowdownHigherRankWinsWithoutPair(t *testing.T) {
	king := cards.Card{Rank: cards.King, Suit: cards.Spades}
	queen := cards.Card{Rank: cards.Queen, Suit: cards.Hearts}
	board := cards.Card{Rank: cards.Jack, Suit: cards.Hearts}

	assert.Equal(t, 1, leducShowdown(king, queen, board))
}

func TestLeducCheckCheckAdvancesToFlop(t *testing.T) {
	l := NewLeduc()
	st, err := l.NewRound([2]int{20, 20}, nil)
	require.NoError(t, err)

	st, err = st.Apply(ActCall, 0)
	require.NoError(t, err)
	st, err = st.Apply(ActCall, 0)
	require.NoError(t, err)

	ls := st.(*leducState)
	assert.Equal(t, Flop, ls.street)
	assert.True(t, ls.boardDealt)
	terminal, _ := st.IsTerminal()
	assert.False(t, terminal)
}

// TestLeducOpenBetFacesFullStackRaiseRange is spec.md §8 scenario 2:
// valid_bets([[3],[]], 0, 0) with acting player 1 at stack 19 returns
// [0, 3, 6, 7, …, 19] — fold, call the 3-chip bet, or raise (as a total pot
// contribution) anywhere from 6 up to the full 19-chip stack. In this
// engine's raise-as-increment-over-the-call convention that range is
// Min=3, Max=16 (owed=3, stack-owed=16).
func TestLeducOpenBetFacesFullStackRaiseRange(t *testing.T) {
	l := NewLeduc()
	st, err := l.NewRound([2]int{20, 20}, nil)
	require.NoError(t, err)

	afterOpen, err := st.Snapshot().Apply(ActRaise, 3) // seat 0 opens for 3
	require.NoError(t, err)
	require.Equal(t, SeatOne, afterOpen.Actor())

	legal := afterOpen.LegalActions()
	assert.True(t, legal.Call.Present)
	assert.Equal(t, 3, legal.Call.Amount)
	require.True(t, legal.Raise.Possible())
	assert.Equal(t, 3, legal.Raise.Min)
	assert.Equal(t, 16, legal.Raise.Max)
}

func TestLeducRaiseCapEnforced(t *testing.T) {
	l := NewLeduc()
	st, err := l.NewRound([2]int{20, 20}, nil)
	require.NoError(t, err)

	st, err = st.Apply(ActRaise, 5) // seat 0 opens for 5 (raise #1)
	require.NoError(t, err)
	st, err = st.Apply(ActRaise, 5) // seat 1 raises to 10 total (raise #2)
	require.NoError(t, err)
	st, err = st.Apply(ActRaise, 5) // seat 0 raises to 15 total (raise #3, cap hit)
	require.NoError(t, err)

	legal := st.LegalActions()
	assert.True(t, legal.Call.Present)
	assert.False(t, legal.Raise.Possible(), "raise cap of three aggressive actions per round must be enforced")
}

func TestLeducBetFoldIsZeroSum(t *testing.T) {
	l := NewLeduc()
	st, err := l.NewRound([2]int{20, 20}, nil)
	require.NoError(t, err)

	st, err = st.Apply(ActRaise, 5)
	require.NoError(t, err)
	st, err = st.Apply(ActFold, 0)
	require.NoError(t, err)

	terminal, payoffs := st.IsTerminal()
	require.True(t, terminal)
	assert.InDelta(t, 0, payoffs[0]+payoffs[1], 1e-9)
}

func TestLeducLegalActionsAllInWhenRaiseCantBeMatched(t *testing.T) {
	l := NewLeduc()
	st, err := l.NewRound([2]int{20, 6}, nil)
	require.NoError(t, err)

	// Seat 0 (19 left) shoves 15; seat 1 (5 left after ante) can't cover a
	// full min-raise, so only fold/call-for-less remain.
	st, err = st.Apply(ActRaise, 15)
	require.NoError(t, err)

	legal := st.LegalActions()
	assert.True(t, legal.Call.Present)
	assert.Equal(t, 5, legal.Call.Amount)
	assert.False(t, legal.Raise.Possible())
}
