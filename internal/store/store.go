// Package store persists and loads the average strategy produced by
// internal/solver training (spec §4.6/§6): one record per information set,
// mapping each of that set's frozen abstract actions to a probability.
//
// Grounded on ehrlich-b-poker's pkg/solver/serialization.go (the
// "JSON-friendly serializable struct, Save/Load via a file" shape) and the
// teacher's sdk/solver/blueprint.go (Blueprint.Save/LoadBlueprint naming,
// atomic-write discipline), generalized into the text grammar of spec.md §6
// and the binary schema of spec.md §4.6.
package store

import (
	"fmt"
	"sort"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/infoset"
)

// Record is one information set's averaged strategy: parallel Actions and
// Probabilities slices, same length, same order as the RegretNode that
// produced them.
type Record struct {
	Key           infoset.Key
	Actions       []abstraction.Action
	Probabilities []float64
}

// Strategy is the in-memory form of a strategy file: every record keyed by
// its information set.
type Strategy struct {
	records map[infoset.Key]Record
}

// New returns an empty strategy.
func New() *Strategy {
	return &Strategy{records: make(map[infoset.Key]Record)}
}

// Put inserts or replaces the record for key. actions and probabilities must
// be the same length and probabilities must sum to 1 within 1e-6 (spec §4.6
// invariant); Put returns an error rather than silently storing a malformed
// record.
func (s *Strategy) Put(key infoset.Key, actions []abstraction.Action, probabilities []float64) error {
	if len(actions) != len(probabilities) {
		return fmt.Errorf("store: action/probability length mismatch for key %q (%d vs %d)", key, len(actions), len(probabilities))
	}
	if len(actions) == 0 {
		return fmt.Errorf("store: record for key %q has no actions", key)
	}
	sum := 0.0
	for _, p := range probabilities {
		if p < 0 {
			return fmt.Errorf("store: negative probability in record for key %q", key)
		}
		sum += p
	}
	if diff := sum - 1.0; diff < -1e-6 || diff > 1e-6 {
		return fmt.Errorf("store: probabilities for key %q sum to %v, want 1±1e-6", key, sum)
	}
	s.records[key] = Record{Key: key, Actions: append([]abstraction.Action(nil), actions...), Probabilities: append([]float64(nil), probabilities...)}
	return nil
}

// Lookup returns the record stored for key, if any.
func (s *Strategy) Lookup(key infoset.Key) (Record, bool) {
	r, ok := s.records[key]
	return r, ok
}

// Len returns the number of records.
func (s *Strategy) Len() int {
	return len(s.records)
}

// Keys returns every key in the strategy, sorted — the order Save writes
// records in and the order round-trip tests compare against (spec §8 "Text
// round-trip: parse(format(store)) == store byte-for-byte after sorting
// keys").
func (s *Strategy) Keys() []infoset.Key {
	keys := make([]infoset.Key, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// FromNodeTable builds a Strategy from a trained solver.NodeTable-shaped
// source. It takes a plain callback instead of importing internal/solver
// directly, to keep store independent of the trainer package (store must be
// usable from internal/agent without pulling in the training loop).
func FromNodeTable(rng func(func(key infoset.Key, actions []abstraction.Action, averageStrategy []float64))) (*Strategy, error) {
	s := New()
	var putErr error
	rng(func(key infoset.Key, actions []abstraction.Action, averageStrategy []float64) {
		if putErr != nil {
			return
		}
		putErr = s.Put(key, actions, averageStrategy)
	})
	if putErr != nil {
		return nil, putErr
	}
	return s, nil
}
