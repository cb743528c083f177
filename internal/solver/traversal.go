package solver

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/engine"
	"github.com/lox/pokercfr/internal/infoset"
)

// TraversalStats accumulates per-run counters surfaced through Progress
// (SPEC_FULL.md supplemented feature 3, grounded on the teacher's
// TraversalStats/Progress shape).
type TraversalStats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
}

// cfr implements external-sampling MCCFR for one traversal (spec §4.5).
// τ (tau) is the traversing player: at τ's nodes every abstract action is
// enumerated and regrets are updated; at the opponent's nodes one action is
// sampled and strategy-sum is accumulated.
//
// The traversal follows the single discipline spec §9 open question (a)
// asks implementers to pick: snapshot-then-apply. state.Snapshot() is
// called once per branch, immediately before Apply, so sibling branches
// never observe a mutation from one another — see engine.State.Snapshot's
// doc comment. This differs from the teacher's own traverse
// (sdk/solver/traversal.go), which re-simulates the whole path from a
// fresh deck at every node via simulatePath; that sidesteps snapshotting
// but is not what spec §4.5 describes.
func (t *Trainer) cfr(state engine.State, history infoset.History, tau engine.Seat, iteration int, depth int, stats *TraversalStats) (float64, error) {
	stats.NodesVisited++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if terminal, payoffs := state.IsTerminal(); terminal {
		stats.TerminalNodes++
		u := payoffs[tau]
		if math.IsNaN(u) || math.IsInf(u, 0) {
			return 0, fmt.Errorf("%w: terminal payoff is %v", ErrNumeric, u)
		}
		return u, nil
	}

	actor := state.Actor()
	legal := state.LegalActions()
	if err := validateLegalActions(legal); err != nil {
		return 0, err
	}
	pub := state.Public()
	pot := pub.Pot

	abstract := abstraction.AbstractActions(legal, pot)
	if len(abstract) == 0 {
		return 0, fmt.Errorf("%w: abstract_actions returned an empty set", ErrAbstraction)
	}

	private := state.Private(actor)
	key := infoset.Build(private, pub.Board, history)
	node := t.table.GetOrCreate(key, abstract)
	sigma := node.CurrentStrategy()

	if actor == tau {
		return t.cfrExhaustive(state, history, tau, iteration, depth, stats, legal, pot, pub.Street, abstract, node, sigma)
	}
	return t.cfrSampled(state, history, tau, iteration, depth, stats, legal, pot, pub.Street, abstract, node, sigma)
}

func (t *Trainer) cfrExhaustive(
	state engine.State, history infoset.History, tau engine.Seat, iteration, depth int, stats *TraversalStats,
	legal engine.LegalActions, pot int, street engine.Street, abstract []abstraction.Action, node *RegretNode, sigma []float64,
) (float64, error) {
	u := make([]float64, len(abstract))
	for i, a := range abstract {
		child, err := t.branch(state, legal, pot, a)
		if err != nil {
			return 0, err
		}
		childHistory := history.Append(street, a)
		val, err := t.cfr(child, childHistory, tau, iteration, depth+1, stats)
		if err != nil {
			return 0, err
		}
		u[i] = val
	}

	v := 0.0
	for i := range u {
		v += sigma[i] * u[i]
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: node value is %v", ErrNumeric, v)
	}

	for i := range u {
		node.AddRegret(i, u[i]-v, t.cfg.UseCFRPlus)
	}
	return v, nil
}

func (t *Trainer) cfrSampled(
	state engine.State, history infoset.History, tau engine.Seat, iteration, depth int, stats *TraversalStats,
	legal engine.LegalActions, pot int, street engine.Street, abstract []abstraction.Action, node *RegretNode, sigma []float64,
) (float64, error) {
	idx := sampleIndex(sigma, t.rng)
	t.rngCalls.Add(1)
	a := abstract[idx]

	child, err := t.branch(state, legal, pot, a)
	if err != nil {
		return 0, err
	}
	childHistory := history.Append(street, a)
	val, err := t.cfr(child, childHistory, tau, iteration, depth+1, stats)
	if err != nil {
		return 0, err
	}

	weight := 1.0
	if t.cfg.UseCFRPlus {
		weight = float64(iteration)
	}
	for i := range sigma {
		node.AddStrategy(i, sigma[i], weight)
	}
	return val, nil
}

// branch snapshots state and applies a's concrete form to the snapshot —
// the snapshot-then-apply discipline documented on engine.State.Snapshot.
func (t *Trainer) branch(state engine.State, legal engine.LegalActions, pot int, a abstraction.Action) (engine.State, error) {
	act, amt, err := abstraction.Concrete(a, legal, pot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAbstraction, err)
	}
	snap := state.Snapshot()
	child, err := snap.Apply(act, amt)
	if err != nil {
		return nil, fmt.Errorf("%w: apply %v: %v", ErrEngineProtocol, a, err)
	}
	return child, nil
}

// sampleIndex draws an index via inverse-CDF over sigma (spec §4.5 step 7:
// "Sample a* ∼ σ ... uniform random u ∈ [0,1)").
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

func validateLegalActions(legal engine.LegalActions) error {
	if legal.Raise.Possible() && legal.Raise.Min > legal.Raise.Max {
		return fmt.Errorf("%w: raise.min (%d) > raise.max (%d)", ErrEngineProtocol, legal.Raise.Min, legal.Raise.Max)
	}
	return nil
}
