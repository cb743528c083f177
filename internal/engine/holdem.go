package engine

import (
	"fmt"
	"math/rand"

	"github.com/lox/pokercfr/internal/cards"
)

// Holdem implements a heads-up no-limit Texas Hold'em abstraction: two
// private cards each, a 5-card board dealt across flop/turn/river, and
// unrestricted bet/raise sizing left entirely to the action abstraction
// layer (internal/abstraction) — this engine exposes real min/max raise
// bounds and lets abstraction.AbstractActions pick which pot-fractions of
// that range are offered. No card bucketing (see DESIGN.md): exact-card
// training stays tractable by keeping the deck small via --deck, not by
// abstracting hand strength.
type Holdem struct {
	smallBlind int
	bigBlind   int
}

// NewHoldem returns a heads-up no-limit Hold'em adapter with the given
// blinds.
func NewHoldem(smallBlind, bigBlind int) *Holdem {
	return &Holdem{smallBlind: smallBlind, bigBlind: bigBlind}
}

func (Holdem) Name() string { return "holdem" }

func (h *Holdem) NewRound(stacks [2]int, deck []cards.Card) (State, error) {
	d := deck
	if d == nil {
		d = make([]cards.Card, 52)
		for id := 0; id < 52; id++ {
			d[id] = cards.CardFromID(id)
		}
	}
	if len(d) < 9 {
		return nil, fmt.Errorf("holdem: deck must contain at least 9 cards, got %d", len(d))
	}
	shuffled := append([]cards.Card(nil), d...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	sbStack, bbStack := stacks[0], stacks[1]
	if sbStack < h.smallBlind || bbStack < h.bigBlind {
		return nil, fmt.Errorf("holdem: stacks %v too small for blinds %d/%d", stacks, h.smallBlind, h.bigBlind)
	}

	s := &holdemState{
		game:     h,
		privates: [2][]cards.Card{{shuffled[0], shuffled[1]}, {shuffled[2], shuffled[3]}},
		board:    shuffled[4:9],
		stacks:   [2]int{sbStack - h.smallBlind, bbStack - h.bigBlind},
		pot:      h.smallBlind + h.bigBlind,
		committed: [2]int{h.smallBlind, h.bigBlind},
		street:   Preflop,
		acting:   SeatZero, // small blind acts first preflop heads-up
	}
	return s, nil
}

type holdemState struct {
	game        *Holdem
	privates    [2][]cards.Card
	board       []cards.Card // always len 5, revealed progressively via boardVisible
	boardVisible int
	stacks      [2]int
	committed   [2]int // chips put in during the current street
	pot         int
	street      Street
	acting      Seat
	lastAggr    Seat
	actsThisRd  int
	hasAggr     bool
	done        bool
	hasFold     bool
	folded      Seat
}

func (s *holdemState) clone() *holdemState {
	c := *s
	c.privates = [2][]cards.Card{
		append([]cards.Card(nil), s.privates[0]...),
		append([]cards.Card(nil), s.privates[1]...),
	}
	c.board = append([]cards.Card(nil), s.board...)
	return &c
}

func (s *holdemState) streetCardCount() int {
	switch s.street {
	case Preflop:
		return 0
	case Flop:
		return 3
	case Turn:
		return 4
	case River:
		return 5
	default:
		return 5
	}
}

func (s *holdemState) IsTerminal() (bool, [2]float64) {
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
	full := append(append([]cards.Card(nil), s.board...), s.privates[0]...)
	handA := cards.Evaluate(full)
	full2 := append(append([]cards.Card(nil), s.board...), s.privates[1]...)
	handB := cards.Evaluate(full2)
	cmp := handA.Compare(handB)
	payoffs := [2]float64{}
	switch {
	case cmp > 0:
		payoffs[0] = float64(s.pot) / 2
		payoffs[1] = -float64(s.pot) / 2
	case cmp < 0:
		payoffs[0] = -float64(s.pot) / 2
		payoffs[1] = float64(s.pot) / 2
	}
	return true, payoffs
}

func (s *holdemState) Actor() Seat { return s.acting }

func (s *holdemState) facingAmount() int {
	opp := 1 - s.acting
	owed := s.committed[opp] - s.committed[s.acting]
	if owed < 0 {
		return 0
	}
	return owed
}

func (s *holdemState) LegalActions() LegalActions {
	owed := s.facingAmount()
	stack := s.stacks[s.acting]
	call := CallInfo{Present: owed > 0, Amount: minInt(owed, stack)}

	if stack <= owed {
		// Can only call all-in or fold, no further raise possible.
		return LegalActions{Call: call, Raise: RaiseInfo{Min: 0, Max: -1}}
	}

	minRaise := s.game.bigBlind
	if s.committed[s.acting] > 0 || s.committed[1-s.acting] > 0 {
		minRaise = s.committed[1-s.acting] - s.committed[s.acting]
		if minRaise < s.game.bigBlind {
			minRaise = s.game.bigBlind
		}
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

func (s *holdemState) Public() PublicState {
	return PublicState{
		Board:  append([]cards.Card(nil), s.board[:s.boardVisible]...),
		Street: s.street,
		Pot:    s.pot,
		Stacks: s.stacks,
	}
}

func (s *holdemState) Private(seat Seat) []cards.Card {
	return append([]cards.Card(nil), s.privates[seat]...)
}

func (s *holdemState) Snapshot() State { return s.clone() }

func (s *holdemState) advanceStreet() {
	switch s.street {
	case Preflop:
		s.street = Flop
	case Flop:
		s.street = Turn
	case Turn:
		s.street = River
	default:
		s.done = true
		return
	}
	s.boardVisible = s.streetCardCount()
	s.committed = [2]int{0, 0}
	s.actsThisRd = 0
	s.hasAggr = false
	s.acting = SeatOne // big blind (postflop: BB acts first heads-up), seat 1 by convention here
}

func (s *holdemState) Apply(action ConcreteAction, amount int) (State, error) {
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
			n.advanceStreet()
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
		n.hasAggr = true
		n.lastAggr = actor
		n.actsThisRd++
		n.acting = 1 - actor
		return n, nil
	default:
		return nil, fmt.Errorf("holdem: unknown action %d", action)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
