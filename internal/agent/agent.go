// Package agent implements the runtime agent of spec.md §4.7: given a live
// engine.State, build the same canonical key training used, sample an
// action from the stored average strategy (uniform fallback when the key or
// its action set is unknown), and apply the two prescriptive safety
// overrides spec.md calls for.
//
// Net new — no teacher equivalent survived pruning; the teacher's own
// runtime consumer (sdk/solver/runtime/policy.go) is the closest analogue
// and is the direct model for Agent.Decide's lookup-then-sample shape.
package agent

import (
	"fmt"
	"math/rand"
	"reflect"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/engine"
	"github.com/lox/pokercfr/internal/infoset"
	"github.com/lox/pokercfr/internal/store"
)

// Decision carries everything cmd/pokercfr needs to log one decision: the
// key consulted, the abstract action sampled, its concrete form, and whether
// either fallback path fired.
type Decision struct {
	Key                infoset.Key
	Sampled            abstraction.Action
	Action             engine.ConcreteAction
	Amount             int
	UsedStoredStrategy bool
	AbstractionFallback bool
	SafetyOverride     string
}

// Agent samples actions from a stored average strategy at runtime.
type Agent struct {
	strategy *store.Strategy
	rng      *rand.Rand
	bigBlind int
}

// New constructs an agent over the given strategy. bigBlind is used only by
// the big-blind-facing-a-limp safety override (spec §4.7 step 4); pass 0 for
// games without blinds (Kuhn, Leduc), where that override can never fire.
func New(strategy *store.Strategy, seed int64, bigBlind int) *Agent {
	return &Agent{
		strategy: strategy,
		rng:      rand.New(rand.NewSource(seed)),
		bigBlind: bigBlind,
	}
}

// Decide picks an action for the actor at state, given the canonical action
// history accumulated so far (spec §4.7).
func (a *Agent) Decide(state engine.State, history infoset.History) (Decision, error) {
	if terminal, _ := state.IsTerminal(); terminal {
		return Decision{}, fmt.Errorf("agent: cannot decide at a terminal state")
	}

	actor := state.Actor()
	legal := state.LegalActions()
	pub := state.Public()
	pot := pub.Pot

	abstract := abstraction.AbstractActions(legal, pot)
	if len(abstract) == 0 {
		return Decision{}, fmt.Errorf("agent: abstract_actions returned an empty set")
	}

	private := state.Private(actor)
	key := infoset.Build(private, pub.Board, history)

	sigma, usedStored, abstractionFallback := a.lookupStrategy(key, abstract)

	idx := sampleIndex(sigma, a.rng)
	sampled := abstract[idx]

	act, amt, err := abstraction.Concrete(sampled, legal, pot)
	if err != nil {
		return Decision{}, fmt.Errorf("agent: invert sampled action: %w", err)
	}

	override := ""
	if act == engine.ActFold && legal.Call.Amount == 0 {
		act, amt = engine.ActCall, legal.Call.Amount
		override = "fold with nothing to call -> call"
	} else if act == engine.ActFold && a.facingLimpAsBigBlind(pub, history, legal) {
		act, amt = engine.ActCall, legal.Call.Amount
		override = "big blind facing a limp -> call"
	}

	return Decision{
		Key:                 key,
		Sampled:              sampled,
		Action:               act,
		Amount:               amt,
		UsedStoredStrategy:   usedStored,
		AbstractionFallback:  abstractionFallback,
		SafetyOverride:       override,
	}, nil
}

// lookupStrategy returns the probability vector to sample from, aligned
// index-for-index with abstract. When the key is absent, or present but its
// stored action set no longer matches the freshly computed abstract set
// (spec §7 AbstractionError: "a required action is missing from the
// abstracted set at runtime"), it falls back to uniform over abstract.
func (a *Agent) lookupStrategy(key infoset.Key, abstract []abstraction.Action) (sigma []float64, usedStored, abstractionFallback bool) {
	if a.strategy != nil {
		if rec, ok := a.strategy.Lookup(key); ok {
			if reflect.DeepEqual(rec.Actions, abstract) {
				return rec.Probabilities, true, false
			}
			return uniform(len(abstract)), false, true
		}
	}
	return uniform(len(abstract)), false, false
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	p := 1.0 / float64(n)
	for i := range out {
		out[i] = p
	}
	return out
}

// facingLimpAsBigBlind implements spec §4.7 step 4's second override:
// preflop, the acting player is the big blind, and the only action taken so
// far this street is a single call equal to the big blind (a limp) — the
// betting history reads [call], i.e. length 1 in our per-street encoding;
// the spec's own wording ("action-history length = 3") describes the
// source's flattened global history where the first two entries are the
// forced blind postings. Translated to this repository's per-street
// abstract-action history, that is: exactly one action recorded on the
// preflop street, it is a Call, and it matched the big blind, so the big
// blind now has nothing left to call.
func (a *Agent) facingLimpAsBigBlind(pub engine.PublicState, history infoset.History, legal engine.LegalActions) bool {
	if pub.Street != engine.Preflop || a.bigBlind <= 0 {
		return false
	}
	preflop := history[engine.Preflop]
	if len(preflop) != 1 || preflop[0].Kind != abstraction.Call {
		return false
	}
	return legal.Call.Amount == 0
}

// sampleIndex draws an index via inverse-CDF over sigma, the same sampling
// primitive internal/solver's traversal uses (spec §4.5 step 7 / §4.7 step 3).
func sampleIndex(sigma []float64, rng *rand.Rand) int {
	u := rng.Float64()
	cum := 0.0
	for i, p := range sigma {
		cum += p
		if u < cum {
			return i
		}
	}
	return len(sigma) - 1
}
