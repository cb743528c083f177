// Package abstraction implements the action abstraction layer (spec §4.2):
// mapping an engine's legal-action set down to a small ordered set of
// symbolic actions, and inverting a chosen symbol back to a concrete
// (action, amount) pair the engine adapter accepts.
//
// Grounded on ehrlich-b-poker's pkg/tree/actions.go (pot-relative bet sizing,
// all-in dedup) generalized to the fixed fraction set F, and on the
// teacher's raiseAmounts/filterRaises (sdk/solver/traversal.go) for the
// min/max-raise clamping discipline.
package abstraction

import (
	"fmt"
	"math"

	"github.com/lox/pokercfr/internal/engine"
)

// Action is a symbolic, pot-relative action (spec §3 "Action (abstract)").
type Action struct {
	Kind     Kind
	Fraction float64 // meaningful only when Kind == PotFraction
}

// Kind enumerates the tag of an abstract action.
type Kind uint8

const (
	Fold Kind = iota
	Call
	PotFraction
	AllIn
)

// F is the fixed, ordered pot-fraction set shared by training and runtime
// (spec §4.2). Changing F invalidates prior strategy tables, so it is not
// configurable at runtime — it is a compile-time constant of the abstraction.
var F = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0}

// String renders the action the way the text strategy schema (spec §6)
// expects: 'f', 'c', 'a', or the bare fraction.
func (a Action) String() string {
	switch a.Kind {
	case Fold:
		return "f"
	case Call:
		return "c"
	case AllIn:
		return "a"
	case PotFraction:
		return fmt.Sprintf("%g", a.Fraction)
	default:
		return "?"
	}
}

// Tag returns the binary-schema action-tag byte (spec §4.6): Fold=0, Call=1,
// PotFraction index in 2..8, AllIn=9.
func (a Action) Tag() byte {
	switch a.Kind {
	case Fold:
		return 0
	case Call:
		return 1
	case AllIn:
		return 9
	case PotFraction:
		for i, f := range F {
			if f == a.Fraction {
				return byte(2 + i)
			}
		}
		panic(fmt.Sprintf("abstraction: fraction %v is not a member of F", a.Fraction))
	default:
		panic("abstraction: unknown action kind")
	}
}

// FromTag is the inverse of Tag, used when decoding the binary strategy
// store.
func FromTag(tag byte) (Action, error) {
	switch {
	case tag == 0:
		return Action{Kind: Fold}, nil
	case tag == 1:
		return Action{Kind: Call}, nil
	case tag == 9:
		return Action{Kind: AllIn}, nil
	case tag >= 2 && tag <= 8:
		idx := int(tag) - 2
		if idx >= len(F) {
			return Action{}, fmt.Errorf("abstraction: tag %d out of range for F (len %d)", tag, len(F))
		}
		return Action{Kind: PotFraction, Fraction: F[idx]}, nil
	default:
		return Action{}, fmt.Errorf("abstraction: invalid action tag %d", tag)
	}
}

// AbstractActions reduces the engine's legal-action set at a node to the
// fixed ordered symbolic set (spec §4.2 abstract_actions):
//   - Fold is included iff legal.Call.Amount != 0 (there's something to fold
//     to — a free check never has a fold option).
//   - Call is always included (when nothing is owed, Call means check).
//   - For each f in F, include PotFraction(f) iff a raise is possible and
//     raise.min <= f*pot < raise.max, and f*pot does not equal the all-in
//     amount (that case is covered by AllIn instead).
//   - AllIn is appended iff raising is possible at all.
//
// F may be empty; the function must not special-case that (a pure
// fold/call/all-in abstraction is just what falls out naturally).
func AbstractActions(legal engine.LegalActions, pot int) []Action {
	var out []Action

	if legal.Call.Amount != 0 {
		out = append(out, Action{Kind: Fold})
	}
	out = append(out, Action{Kind: Call})

	if legal.Raise.Possible() {
		allInAmount := legal.Raise.Max
		for _, f := range F {
			amt := int(math.Floor(f * float64(pot)))
			if amt < legal.Raise.Min || amt >= legal.Raise.Max {
				continue
			}
			if amt == allInAmount {
				continue
			}
			out = append(out, Action{Kind: PotFraction, Fraction: f})
		}
		out = append(out, Action{Kind: AllIn})
	}

	return out
}

// Concrete inverts an abstract action back to the engine-level (action,
// amount) pair (spec §4.2 concrete).
func Concrete(a Action, legal engine.LegalActions, pot int) (engine.ConcreteAction, int, error) {
	switch a.Kind {
	case Fold:
		return engine.ActFold, 0, nil
	case Call:
		return engine.ActCall, legal.Call.Amount, nil
	case AllIn:
		if !legal.Raise.Possible() {
			return 0, 0, fmt.Errorf("abstraction: AllIn requested but raising is not legal")
		}
		return engine.ActRaise, legal.Raise.Max, nil
	case PotFraction:
		if !legal.Raise.Possible() {
			return 0, 0, fmt.Errorf("abstraction: PotFraction(%v) requested but raising is not legal", a.Fraction)
		}
		return engine.ActRaise, int(math.Floor(a.Fraction * float64(pot))), nil
	default:
		return 0, 0, fmt.Errorf("abstraction: unknown action kind %v", a.Kind)
	}
}

// NearestFraction maps an observed raise amount back to the abstract action
// it is closest to (spec §4.2 "Runtime mapping"): AllIn if the amount is at
// least the max stack, otherwise the PotFraction f minimizing |f - a/pot|,
// ties broken toward the smaller f.
func NearestFraction(amount, pot, maxStack int) Action {
	if amount >= maxStack {
		return Action{Kind: AllIn}
	}
	if pot <= 0 || len(F) == 0 {
		return Action{Kind: AllIn}
	}
	ratio := float64(amount) / float64(pot)
	best := F[0]
	bestDist := math.Abs(F[0] - ratio)
	for _, f := range F[1:] {
		dist := math.Abs(f - ratio)
		if dist < bestDist {
			best = f
			bestDist = dist
		}
	}
	return Action{Kind: PotFraction, Fraction: best}
}
