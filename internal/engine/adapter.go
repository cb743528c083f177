// Package engine defines the poker engine adapter contract the MCCFR core
// traverses against (spec §4.1), plus the small concrete engines — Kuhn,
// Leduc, and a heads-up no-limit Hold'em abstraction — that implement it.
// The abstraction and solver packages talk only to the Adapter interface;
// they never peek at a concrete engine's internal state layout.
package engine

import "github.com/lox/pokercfr/internal/cards"

// Seat identifies one of the two players at the table.
type Seat int

const (
	SeatZero Seat = 0
	SeatOne  Seat = 1
)

// Street is a betting round.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// CallInfo describes the call leg of the legal-action set at a decision node.
type CallInfo struct {
	// Present is false when there is nothing to call (first to act, or the
	// action is already matched and checking is the only option).
	Present bool
	Amount  int
}

// RaiseInfo describes the raise/bet leg of the legal-action set. Max == -1
// means raising is not possible at all (e.g. a player is already all-in).
type RaiseInfo struct {
	Min int
	Max int
}

// Possible reports whether a raise is legal at all.
func (r RaiseInfo) Possible() bool {
	return r.Max != -1
}

// LegalActions is the engine's answer to "what can the actor at this node
// do" (spec §4.1 legal_actions). Fold is present whenever call.Amount != 0
// per spec §4.2 — the adapter does not decide that, the abstraction layer
// does, but the adapter must always expose enough information to compute it.
type LegalActions struct {
	Call  CallInfo
	Raise RaiseInfo
}

// PublicState is everything about a game state visible to both players.
type PublicState struct {
	Board  []cards.Card
	Street Street
	Pot    int
	Stacks [2]int
}

// ConcreteAction is araw, engine-level action — what Adapter.Apply accepts,
// as produced by abstraction.Concrete.
type ConcreteAction int

const (
	ActFold ConcreteAction = iota
	ActCall
	ActRaise
)

// State is an opaque handle to a game state. Concrete engines define their
// own underlying representation; the solver only ever holds this interface.
type State interface {
	// IsTerminal reports whether the hand is over, and if so the per-seat
	// payoffs (zero-sum, spec §6).
	IsTerminal() (terminal bool, payoffs [2]float64)

	// Actor returns the seat to act. Only valid when !IsTerminal().
	Actor() Seat

	// LegalActions returns the legal-action summary for the actor at this
	// node. Only valid when !IsTerminal().
	LegalActions() LegalActions

	// Public returns the public state visible to both players.
	Public() PublicState

	// Private returns the given seat's hole cards.
	Private(seat Seat) []cards.Card

	// Snapshot returns an independent copy of this state: same public
	// state, same private assignments, same unrevealed-deck composition,
	// but structurally disjoint — mutating the snapshot (via Apply) must
	// never affect the original. The core calls Snapshot once per branch
	// before Apply, so it can return to this exact decision node for the
	// next sibling action without replaying the whole history. This is the
	// single discipline spec §9 open question (a) asks implementers to
	// pick and document: snapshot-then-apply, never re-simulate-from-root.
	Snapshot() State

	// Apply plays the given concrete action and amount, returning the
	// resulting state. Must not mutate the receiver — callers apply to a
	// Snapshot(), never to a state they still need.
	Apply(action ConcreteAction, amount int) (State, error)
}

// Adapter starts new hands. A concrete engine (Kuhn, Leduc, Holdem) is
// reached only through this interface and State.
type Adapter interface {
	// NewRound deals a fresh hand for two seats with the given starting
	// stacks. deck, if non-nil, restricts the cards in play (spec §6
	// "train --deck CARDS", used to fix the card abstraction for
	// reproducible runs); it must contain at least as many cards as the
	// hand requires or NewRound returns an error.
	NewRound(stacks [2]int, deck []cards.Card) (State, error)

	// Name identifies the game variant, used in log lines and checkpoint
	// metadata.
	Name() string
}
