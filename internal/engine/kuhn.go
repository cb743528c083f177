package engine

import (
	"fmt"
	"math/rand"

	"github.com/lox/pokercfr/internal/cards"
)

// Kuhn implements the 3-card Kuhn poker adapter: each player antes 1, is
// dealt one private card from {J,Q,K} (no board, no streets), and a single
// betting round of depth at most 2 actions per player decides the pot.
type Kuhn struct{}

// NewKuhn returns a Kuhn poker adapter.
func NewKuhn() *Kuhn { return &Kuhn{} }

func (Kuhn) Name() string { return "kuhn" }

// kuhnDeck is the canonical 3-card Kuhn deck: Jack, Queen, King of spades
// (suit is irrelevant in Kuhn, rank alone determines hand strength).
var kuhnDeck = []cards.Card{
	{Rank: cards.Jack, Suit: cards.Spades},
	{Rank: cards.Queen, Suit: cards.Spades},
	{Rank: cards.King, Suit: cards.Spades},
}

func (k *Kuhn) NewRound(stacks [2]int, deck []cards.Card) (State, error) {
	d := deck
	if d == nil {
		d = kuhnDeck
	}
	if len(d) < 2 {
		return nil, fmt.Errorf("kuhn: deck must contain at least 2 cards, got %d", len(d))
	}
	shuffled := append([]cards.Card(nil), d...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	return &kuhnState{
		privates: [2]cards.Card{shuffled[0], shuffled[1]},
		stacks:   stacks,
		pot:      2, // both players ante 1
		acting:   SeatZero,
	}, nil
}

// kuhnState records the bet/pass history needed to resolve showdown/fold.
type kuhnState struct {
	privates [2]cards.Card
	stacks   [2]int
	pot      int
	acting   Seat
	history  []bool // true = bet/call, false = pass/fold
	done     bool
	folded   Seat
	hasFold  bool
}

func (s *kuhnState) clone() *kuhnState {
	c := *s
	c.history = append([]bool(nil), s.history...)
	return &c
}

func (s *kuhnState) IsTerminal() (bool, [2]float64) {
	if !s.done {
		return false, [2]float64{}
	}
	if s.hasFold {
		winner := 1 - s.folded
		payoffs := [2]float64{}
		payoffs[winner] = float64(s.pot) / 2
		payoffs[s.folded] = -float64(s.pot) / 2
		return true, payoffs
	}
	// Showdown: higher rank wins the pot.
	var winner Seat
	if s.privates[0].Rank > s.privates[1].Rank {
		winner = SeatZero
	} else {
		winner = SeatOne
	}
	payoffs := [2]float64{}
	payoffs[winner] = float64(s.pot) / 2
	payoffs[1-winner] = -float64(s.pot) / 2
	return true, payoffs
}

func (s *kuhnState) Actor() Seat { return s.acting }

func (s *kuhnState) LegalActions() LegalActions {
	if len(s.history) == 0 {
		// First to act: check (call amount 0) or bet.
		return LegalActions{Call: CallInfo{Present: false, Amount: 0}, Raise: RaiseInfo{Min: 1, Max: 1}}
	}
	if !s.history[len(s.history)-1] {
		// Opponent passed: this player may also pass (free) or bet.
		return LegalActions{Call: CallInfo{Present: false, Amount: 0}, Raise: RaiseInfo{Min: 1, Max: 1}}
	}
	// Opponent bet: facing a bet, can fold or call 1, no further raise.
	return LegalActions{Call: CallInfo{Present: true, Amount: 1}, Raise: RaiseInfo{Min: 0, Max: -1}}
}

func (s *kuhnState) Public() PublicState {
	return PublicState{Board: nil, Street: Preflop, Pot: s.pot, Stacks: s.stacks}
}

func (s *kuhnState) Private(seat Seat) []cards.Card {
	return []cards.Card{s.privates[seat]}
}

func (s *kuhnState) Snapshot() State {
	return s.clone()
}

func (s *kuhnState) Apply(action ConcreteAction, amount int) (State, error) {
	n := s.clone()
	switch action {
	case ActFold:
		n.done = true
		n.hasFold = true
		n.folded = n.acting
		return n, nil
	case ActCall:
		facing := len(n.history) > 0 && n.history[len(n.history)-1]
		if facing {
			n.pot++
			n.stacks[n.acting]--
			n.history = append(n.history, true)
			n.done = true
			return n, nil
		}
		// A "check" is modeled as Call with amount 0 when nothing to call.
		n.history = append(n.history, false)
		if len(n.history) == 2 {
			n.done = true
		}
		n.acting = 1 - n.acting
		return n, nil
	case ActRaise:
		n.pot++
		n.stacks[n.acting]--
		n.history = append(n.history, true)
		n.acting = 1 - n.acting
		return n, nil
	default:
		return nil, fmt.Errorf("kuhn: unknown action %d", action)
	}
}
