// Package solver implements the MCCFR trainer (spec §4.4/§4.5): the
// regret/strategy node, regret matching, external-sampling traversal, and
// the training loop around it.
//
// Grounded on the teacher's sdk/solver/regret.go — the sharded RegretTable
// and mutex-guarded entry shape are kept, renamed to NodeTable/RegretNode to
// match spec.md §3 terminology. current_strategy()/average_strategy() are
// made pure per spec.md §4.4 (no cache field, no call-order dependency) —
// resolving the "do not silently fix, flag" open question (c) in spec.md §9
// in favor of the documented correct behavior.
package solver

import (
	"fmt"
	"sync"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/infoset"
)

// RegretNode holds the cumulative regrets and strategy sums for one
// information set (spec §3 RegretNode). Actions is frozen at creation:
// whatever abstraction.AbstractActions returned on first visit.
type RegretNode struct {
	mu          sync.Mutex
	Actions     []abstraction.Action
	RegretSum   []float64
	StrategySum []float64
}

func newRegretNode(actions []abstraction.Action) *RegretNode {
	if len(actions) == 0 {
		panic("solver: RegretNode requires at least one action")
	}
	return &RegretNode{
		Actions:     actions,
		RegretSum:   make([]float64, len(actions)),
		StrategySum: make([]float64, len(actions)),
	}
}

// CurrentStrategy derives the regret-matched strategy (spec §4.4): positive
// regrets normalized to sum to 1, or uniform if all regrets are non-positive.
// Pure: depends only on RegretSum at the time of the call.
func (n *RegretNode) CurrentStrategy() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return currentStrategyLocked(n.RegretSum)
}

func currentStrategyLocked(regretSum []float64) []float64 {
	strat := make([]float64, len(regretSum))
	total := 0.0
	for i, r := range regretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		u := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = u
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// AverageStrategy derives the averaged strategy from accumulated strategy
// sums (spec §4.4), the policy actually persisted to the strategy store.
func (n *RegretNode) AverageStrategy() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	strat := make([]float64, len(n.StrategySum))
	total := 0.0
	for _, s := range n.StrategySum {
		total += s
	}
	if total <= 0 {
		u := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = u
		}
		return strat
	}
	for i := range strat {
		strat[i] = n.StrategySum[i] / total
	}
	return strat
}

// AddRegret accumulates regret for action index i (spec §4.5 step 6:
// regret_sum[a] += u[a] - v). clampNegative implements the optional CFR+
// variant (SPEC_FULL.md supplemented feature 2): negative regret sums are
// floored at zero, which speeds convergence in practice.
func (n *RegretNode) AddRegret(i int, delta float64, clampNegative bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.RegretSum[i] += delta
	if clampNegative && n.RegretSum[i] < 0 {
		n.RegretSum[i] = 0
	}
}

// AddStrategy accumulates strategy-sum mass for action index i (spec §4.5
// step 7: strategy_sum[a] += σ[a]). weight is 1.0 for vanilla averaging, or
// the iteration number for linear (CFR+-style) averaging.
func (n *RegretNode) AddStrategy(i int, sigma, weight float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.StrategySum[i] += weight * sigma
}

// nodeTableShardCount follows the teacher's sharding width
// (sdk/solver/regret.go's regretTableShardCount) — enough to keep lock
// contention low under parallel traversal shards without per-key locks.
const nodeTableShardCount = 64
const nodeTableShardMask = nodeTableShardCount - 1

type nodeShard struct {
	mu      sync.RWMutex
	entries map[infoset.Key]*RegretNode
}

// NodeTable is the trainer's sole long-lived mutable resource (spec §3):
// a sharded map from InfoSetKey to RegretNode.
type NodeTable struct {
	shards [nodeTableShardCount]nodeShard
}

// NewNodeTable returns an empty, ready-to-use node table.
func NewNodeTable() *NodeTable {
	t := &NodeTable{}
	for i := range t.shards {
		t.shards[i].entries = make(map[infoset.Key]*RegretNode)
	}
	return t
}

// shardFor picks the shard owning key, hashing with FNV-1a (same algorithm
// as the teacher's sdk/solver/regret.go hashKey).
func (t *NodeTable) shardFor(key infoset.Key) *nodeShard {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= 1099511628211
	}
	return &t.shards[h&nodeTableShardMask]
}

// GetOrCreate returns the node for key, creating it with the given frozen
// action set on first visit (spec §4.5 step 4).
func (t *NodeTable) GetOrCreate(key infoset.Key, actions []abstraction.Action) *RegretNode {
	shard := t.shardFor(key)

	shard.mu.RLock()
	node, ok := shard.entries[key]
	shard.mu.RUnlock()
	if ok {
		return node
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if node, ok = shard.entries[key]; ok {
		return node
	}
	node = newRegretNode(actions)
	shard.entries[key] = node
	return node
}

// Lookup returns the node for key without creating it.
func (t *NodeTable) Lookup(key infoset.Key) (*RegretNode, bool) {
	shard := t.shardFor(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	node, ok := shard.entries[key]
	return node, ok
}

// Size returns the number of information sets tracked.
func (t *NodeTable) Size() int {
	total := 0
	for i := range t.shards {
		t.shards[i].mu.RLock()
		total += len(t.shards[i].entries)
		t.shards[i].mu.RUnlock()
	}
	return total
}

// Range calls fn for every key/node pair. fn must not mutate the table.
func (t *NodeTable) Range(fn func(infoset.Key, *RegretNode)) {
	for i := range t.shards {
		t.shards[i].mu.RLock()
		for k, v := range t.shards[i].entries {
			fn(k, v)
		}
		t.shards[i].mu.RUnlock()
	}
}

// Merge adds other's regret/strategy sums into t, keyed identically
// (SPEC_FULL.md supplemented feature 4: parallel traversal shards, spec §5
// "merged by summing regret_sum and strategy_sum per key"). Actions for a
// key not yet present in t are taken from other.
func (t *NodeTable) Merge(other *NodeTable) error {
	var mergeErr error
	other.Range(func(key infoset.Key, src *RegretNode) {
		if mergeErr != nil {
			return
		}
		dst := t.GetOrCreate(key, src.Actions)
		src.mu.Lock()
		defer src.mu.Unlock()
		if len(dst.RegretSum) != len(src.RegretSum) {
			mergeErr = fmt.Errorf("solver: merge: action-count mismatch for key %q (%d vs %d)", key, len(dst.RegretSum), len(src.RegretSum))
			return
		}
		dst.mu.Lock()
		defer dst.mu.Unlock()
		for i := range src.RegretSum {
			dst.RegretSum[i] += src.RegretSum[i]
			dst.StrategySum[i] += src.StrategySum[i]
		}
	})
	return mergeErr
}
