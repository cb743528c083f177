package engine

import (
	"fmt"
	"math/rand"

	"github.com/lox/pokercfr/internal/cards"
)

// Leduc implements Leduc hold'em: a 6-card deck (three ranks, two suits
// each), one private card per player, two betting rounds (preflop with no
// board, then a single board card), a 1-chip forced ante, and stack-relative
// no-limit betting capped at three aggressive actions per round (an open bet
// plus at most two re-raises).
//
// Betting is grounded on _examples/original_source/abel/cfr/leduc_cfr.py's
// valid_bets: an opening bet may be any size up to the acting player's
// remaining stack; a raise must be at least double the amount it faces,
// clamped down to an all-in when the stack can't cover a full min-raise
// (spec §8 scenario 2's `valid_bets([[3],[]], 0, 0)` returning `[0, 3, 6, 7,
// …, 19]` at a 20-chip stack, 19 of it left after the ante).
type Leduc struct {
	ante          int
	startingStack int
	maxRaises     int
}

// NewLeduc returns the standard no-limit Leduc adapter: 1-chip ante, at most
// three aggressive actions per round. Starting stacks are the ones passed to
// NewRound; the startingStack field (20) is not read.
func NewLeduc() *Leduc {
	return &Leduc{ante: 1, startingStack: 20, maxRaises: 3}
}

func (Leduc) Name() string { return "leduc" }

var leducDeck = []cards.Card{
	{Rank: cards.Jack, Suit: cards.Spades}, {Rank: cards.Jack, Suit: cards.Hearts},
	{Rank: cards.Queen, Suit: cards.Spades}, {Rank: cards.Queen, Suit: cards.Hearts},
	{Rank: cards.King, Suit: cards.Spades}, {Rank: cards.King, Suit: cards.Hearts},
}

func (l *Leduc) NewRound(stacks [2]int, deck []cards.Card) (State, error) {
	d := deck
	if d == nil {
		d = leducDeck
	}
	if len(d) < 3 {
		return nil, fmt.Errorf("leduc: deck must contain at least 3 cards, got %d", len(d))
	}
	if stacks[0] < l.ante || stacks[1] < l.ante {
		return nil, fmt.Errorf("leduc: stacks %v too small for ante %d", stacks, l.ante)
	}
	shuffled := append([]cards.Card(nil), d...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	return &leducState{
		game:     l,
		privates: [2]cards.Card{shuffled[0], shuffled[1]},
		board:    shuffled[2],
		stacks:   [2]int{stacks[0] - l.ante, stacks[1] - l.ante},
		pot:      2 * l.ante,
		acting:   SeatZero,
	}, nil
}

type leducState struct {
	game         *Leduc
	privates     [2]cards.Card
	board        cards.Card
	boardDealt   bool
	stacks       [2]int
	committed    [2]int // chips committed by each seat so far this round
	pot          int
	acting       Seat
	street       Street
	raisesThisRd int
	actsThisRd   int
	done         bool
	hasFold      bool
	folded       Seat
}

func (s *leducState) clone() *leducState {
	c := *s
	return &c
}

func (s *leducState) IsTerminal() (bool, [2]float64) {
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
	var winner Seat
	switch leducShowdown(s.privates[0], s.privates[1], s.board) {
	case 1:
		winner = SeatZero
	case -1:
		winner = SeatOne
	default:
		return true, [2]float64{0, 0}
	}
	payoffs := [2]float64{}
	payoffs[winner] = float64(s.pot) / 2
	payoffs[1-winner] = -float64(s.pot) / 2
	return true, payoffs
}

// leducShowdown returns 1 if a beats b, -1 if b beats a, 0 on tie. A player
// pairing the board beats any non-paired hand; otherwise higher rank wins.
func leducShowdown(a, b, board cards.Card) int {
	aPair := a.Rank == board.Rank
	bPair := b.Rank == board.Rank
	if aPair != bPair {
		if aPair {
			return 1
		}
		return -1
	}
	if a.Rank == b.Rank {
		return 0
	}
	if a.Rank > b.Rank {
		return 1
	}
	return -1
}

func (s *leducState) Actor() Seat { return s.acting }

// facingAmount is the chip gap the acting seat must close to call, the same
// committed-delta shape as holdemState.facingAmount.
func (s *leducState) facingAmount() int {
	opp := 1 - s.acting
	owed := s.committed[opp] - s.committed[s.acting]
	if owed < 0 {
		return 0
	}
	return owed
}

// LegalActions mirrors the original's valid_bets: the raise range is
// [owed, stack-owed] (a min-raise of double what's owed, clamped down to an
// all-in when the stack can't cover it), opening for any size up to the full
// stack when nothing is owed yet, and no raising at all once the round's
// three-aggressive-action cap or a short stack forecloses it.
func (s *leducState) LegalActions() LegalActions {
	owed := s.facingAmount()
	stack := s.stacks[s.acting]
	call := CallInfo{Present: owed > 0, Amount: minInt(owed, stack)}

	if s.raisesThisRd >= s.game.maxRaises || stack <= owed {
		return LegalActions{Call: call, Raise: RaiseInfo{Min: 0, Max: -1}}
	}

	minRaise := owed
	if minRaise == 0 {
		minRaise = 1
	}
	maxRaise := stack - owed
	if maxRaise <= 0 {
		return LegalActions{Call: call, Raise: RaiseInfo{Min: 0, Max: -1}}
	}
	if minRaise > maxRaise {
		minRaise = maxRaise
	}
	return LegalActions{Call: call, Raise: RaiseInfo{Min: minRaise, Max: maxRaise}}
}

func (s *leducState) Public() PublicState {
	board := []cards.Card(nil)
	if s.boardDealt {
		board = []cards.Card{s.board}
	}
	return PublicState{Board: board, Street: s.street, Pot: s.pot, Stacks: s.stacks}
}

func (s *leducState) Private(seat Seat) []cards.Card {
	return []cards.Card{s.privates[seat]}
}

func (s *leducState) Snapshot() State { return s.clone() }

func (s *leducState) advanceStreet() {
	s.street = Flop
	s.boardDealt = true
	s.committed = [2]int{0, 0}
	s.raisesThisRd = 0
	s.actsThisRd = 0
	s.acting = SeatZero
}

func (s *leducState) Apply(action ConcreteAction, amount int) (State, error) {
	n := s.clone()
	actor := n.acting
	switch action {
	case ActFold:
		n.done = true
		n.hasFold = true
		n.folded = actor
		return n, nil
	case ActCall:
		owed := n.facingAmount()
		pay := owed
		if pay > n.stacks[actor] {
			pay = n.stacks[actor]
		}
		n.stacks[actor] -= pay
		n.committed[actor] += pay
		n.pot += pay
		n.actsThisRd++
		if n.actsThisRd >= 2 && n.committed[0] == n.committed[1] {
			if n.street == Preflop {
				n.advanceStreet()
			} else {
				n.done = true
			}
			return n, nil
		}
		n.acting = 1 - actor
		return n, nil
	case ActRaise:
		owed := n.facingAmount()
		total := owed + amount
		if total > n.stacks[actor] {
			total = n.stacks[actor]
		}
		n.stacks[actor] -= total
		n.committed[actor] += total
		n.pot += total
		n.raisesThisRd++
		n.actsThisRd++
		n.acting = 1 - actor
		return n, nil
	default:
		return nil, fmt.Errorf("leduc: unknown action %d", action)
	}
}
