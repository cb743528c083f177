package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCard(t *testing.T) {
	c, err := ParseCard("As")
	require.NoError(t, err)
	assert.Equal(t, Card{Rank: Ace, Suit: Spades}, c)

	c, err = ParseCard("Td")
	require.NoError(t, err)
	assert.Equal(t, Card{Rank: Ten, Suit: Diamonds}, c)

	_, err = ParseCard("Xs")
	assert.Error(t, err)

	_, err = ParseCard("A")
	assert.Error(t, err)
}

func TestParseCards(t *testing.T) {
	cs, err := ParseCards("AsKhQd")
	require.NoError(t, err)
	require.Len(t, cs, 3)
	assert.Equal(t, "AsKhQd", Format(cs))

	_, err = ParseCards("As K")
	assert.Error(t, err)
}

func TestCardIDRoundTrip(t *testing.T) {
	for id := 0; id < 52; id++ {
		c := CardFromID(id)
		assert.Equal(t, id, c.ID())
	}
}

func TestCardLess(t *testing.T) {
	assert.True(t, Card{Rank: Two, Suit: Spades}.Less(Card{Rank: Three, Suit: Spades}))
	assert.True(t, Card{Rank: Ace, Suit: Spades}.Less(Card{Rank: Ace, Suit: Hearts}))
	assert.False(t, Card{Rank: Ace, Suit: Hearts}.Less(Card{Rank: Ace, Suit: Spades}))
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "As", Card{Rank: Ace, Suit: Spades}.String())
	assert.Equal(t, "Td", Card{Rank: Ten, Suit: Diamonds}.String())
}
