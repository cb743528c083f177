// Package infoset builds the canonical information-set key (spec §4.3): a
// deterministic byte string from an actor's private cards, the public
// board, and the per-street abstract action history.
//
// Grounded on the teacher's InfoSetKey (sdk/solver/regret.go, a small struct
// with a String() method) for the overall shape, and on
// ehrlich-b-poker/pkg/tree/node.go's GetInfoSet for the idea of folding
// board/history/hand into one key — generalized here into an explicit byte
// builder per spec.md's design note, rather than fmt.Sprintf string
// concatenation, so canonicalization is structural instead of textual.
package infoset

import (
	"sort"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/cards"
	"github.com/lox/pokercfr/internal/engine"
)

// Key is the canonical, comparable information-set key. Two states that are
// behaviorally indistinguishable from the actor's perspective under the
// abstraction produce an identical Key.
type Key string

// History is the abstract action history, one ordered sequence per street.
type History [4][]abstraction.Action

// Append returns a new History with action appended to the given street's
// sequence; the receiver is left untouched so callers can safely share it
// across sibling branches during traversal.
func (h History) Append(street engine.Street, a abstraction.Action) History {
	next := h
	seq := make([]abstraction.Action, len(h[street])+1)
	copy(seq, h[street])
	seq[len(h[street])] = a
	next[street] = seq
	return next
}

// Build constructs the canonical key from the actor's private cards, the
// public board, and the action history so far.
//
// Canonicalization (spec §4.3):
//  1. Private cards sorted by rank then suit.
//  2. Board: first three cards (the flop, revealed simultaneously) sorted;
//     remaining cards (turn, river) kept positional since they are revealed
//     one at a time and thus order-meaningful.
//  3. History: encoded street by street, each as its ordered action sequence.
func Build(private []cards.Card, board []cards.Card, history History) Key {
	priv := append([]cards.Card(nil), private...)
	sort.Slice(priv, func(i, j int) bool { return priv[i].Less(priv[j]) })

	canonBoard := append([]cards.Card(nil), board...)
	if len(canonBoard) >= 3 {
		flop := canonBoard[:3]
		sort.Slice(flop, func(i, j int) bool { return flop[i].Less(flop[j]) })
	}

	var b []byte
	b = append(b, 'H')
	for _, c := range priv {
		b = append(b, byte(c.ID()))
	}
	b = append(b, '|', 'B')
	for _, c := range canonBoard {
		b = append(b, byte(c.ID()))
	}
	for street := engine.Preflop; street <= engine.River; street++ {
		b = append(b, '|', 'S', byte(street))
		for _, a := range history[street] {
			b = append(b, a.Tag())
		}
	}
	return Key(b)
}
