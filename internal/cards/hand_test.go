package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCards(t *testing.T, s string) []Card {
	t.Helper()
	cs, err := ParseCards(s)
	require.NoError(t, err)
	return cs
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name string
		hand string
		cat  HandCategory
	}{
		{"straight flush", "AsKsQsJsTs9s8s", StraightFlush},
		{"four of a kind", "AsAhAdAc2s3h4d", FourOfAKind},
		{"full house", "AsAhAd2s2h3d4c", FullHouse},
		{"flush", "As Ks 9s 7s 2s 3h 4d", Flush},
		{"straight", "AsKhQdJsTc2h3d", Straight},
		{"wheel straight", "AsKh2d3s4c5h7d", Straight},
		{"three of a kind", "AsAhAd2s3h4d5c", ThreeOfAKind},
		{"two pair", "AsAhKdKs2h3d4c", TwoPair},
		{"one pair", "AsAhKdQs2h3d4c", OnePair},
		{"high card", "AsKh9d7s2h3d4c", HighCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(mustCards(t, tt.hand))
			assert.Equal(t, tt.cat, v.Category)
		})
	}
}

func TestEvaluateWheelIsLowestStraight(t *testing.T) {
	wheel := Evaluate(mustCards(t, "AsKh2d3s4c5h7d"))
	six := Evaluate(mustCards(t, "2s3h4d5c6hKdQc"))
	assert.Equal(t, Straight, wheel.Category)
	assert.Equal(t, Straight, six.Category)
	assert.Equal(t, -1, wheel.Compare(six))
}

func TestEvaluateCompareOrdering(t *testing.T) {
	pair := Evaluate(mustCards(t, "AsAhKdQs2h3d4c"))
	twoPair := Evaluate(mustCards(t, "AsAhKdKs2h3d4c"))
	assert.Equal(t, -1, pair.Compare(twoPair))
	assert.Equal(t, 1, twoPair.Compare(pair))
	assert.Equal(t, 0, pair.Compare(pair))
}

func TestEvaluatePanicsOnTooFewCards(t *testing.T) {
	assert.Panics(t, func() {
		Evaluate(mustCards(t, "AsKhQd"))
	})
}

func TestCompareHigh(t *testing.T) {
	assert.Equal(t, 1, CompareHigh(Card{Rank: King, Suit: Spades}, Card{Rank: Queen, Suit: Hearts}))
	assert.Equal(t, -1, CompareHigh(Card{Rank: Jack, Suit: Spades}, Card{Rank: Queen, Suit: Hearts}))
	assert.Equal(t, 0, CompareHigh(Card{Rank: Jack, Suit: Spades}, Card{Rank: Jack, Suit: Hearts}))
}
