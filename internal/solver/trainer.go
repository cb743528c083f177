package solver

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/lox/pokercfr/internal/cards"
	"github.com/lox/pokercfr/internal/engine"
	"github.com/lox/pokercfr/internal/infoset"
	"golang.org/x/sync/errgroup"
)

// Progress is emitted periodically during Run, mirroring the teacher's
// Progress/TraversalStats shape (sdk/solver/trainer.go) so
// cmd/pokercfr can log it with zerolog the same way cmd/solver/main.go did.
type Progress struct {
	Iteration int
	NodeCount int
	Stats     TraversalStats
	GameValue float64
}

// Trainer orchestrates external-sampling MCCFR iterations (spec §4.5) over
// a single engine.Adapter. It owns the NodeTable — the only long-lived
// mutable state (spec §3 "Ownership") — plus the RNG used for opponent
// action sampling. Dealing is done by the engine adapter, which shuffles
// with math/rand's global source.
type Trainer struct {
	adapter engine.Adapter
	cfg     TrainingConfig
	table   *NodeTable
	rng     *rand.Rand

	iteration  atomic.Int64
	rngCalls   atomic.Int64
	valueSum   float64
	valueMu    sync.Mutex
	statsMu    sync.Mutex
	lastStats  TraversalStats
	customDeck []cards.Card
}

// NewTrainer constructs a trainer for the given engine adapter and config.
func NewTrainer(adapter engine.Adapter, cfg TrainingConfig) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	return &Trainer{
		adapter: adapter,
		cfg:     cfg,
		table:   NewNodeTable(),
		rng:     NewFastRand(seed),
	}, nil
}

// SetDeck restricts every dealt round to the given cards (spec §6 "train
// --deck CARDS"), fixing the card abstraction for reproducible runs.
func (t *Trainer) SetDeck(deck []cards.Card) {
	t.customDeck = deck
}

// NodeTable exposes the trainer's table, e.g. for internal/store to persist
// average strategies.
func (t *Trainer) NodeTable() *NodeTable {
	return t.table
}

// Iteration returns the number of completed iterations.
func (t *Trainer) Iteration() int64 {
	return t.iteration.Load()
}

// GameValue returns the running mean of player 0's return across completed
// iterations (spec glossary "Game value").
func (t *Trainer) GameValue() float64 {
	t.valueMu.Lock()
	defer t.valueMu.Unlock()
	n := t.iteration.Load()
	if n == 0 {
		return 0
	}
	return t.valueSum / float64(n)
}

// Run executes iterations until cfg.Iterations is reached or ctx is
// cancelled. Cancellation between iterations leaves the NodeTable in a
// consistent, checkpointable state (spec §5 "Cancellation"); a completed
// iteration is never partially applied.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	batch := t.cfg.ProgressEvery
	if batch <= 0 {
		batch = t.cfg.Iterations / 100
	}
	if batch <= 0 {
		batch = 1
	}

	for i := int(t.iteration.Load()); i < t.cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stats, value, err := t.runOneIteration()
		if err != nil {
			return err
		}

		t.statsMu.Lock()
		t.lastStats = stats
		t.statsMu.Unlock()

		t.valueMu.Lock()
		t.valueSum += value
		t.valueMu.Unlock()

		iter := int(t.iteration.Add(1))
		if progress != nil && iter%batch == 0 {
			progress(Progress{Iteration: iter, NodeCount: t.table.Size(), Stats: stats, GameValue: t.GameValue()})
		}
	}

	if progress != nil {
		progress(Progress{Iteration: int(t.iteration.Load()), NodeCount: t.table.Size(), Stats: t.Stats(), GameValue: t.GameValue()})
	}
	return nil
}

// runOneIteration deals a fresh hand and runs one cfr pass per traversing
// player (spec §4.5 "Outer loop"), returning player 0's return for the
// game-value estimator.
func (t *Trainer) runOneIteration() (TraversalStats, float64, error) {
	stacks := [2]int{t.cfg.StartingStack, t.cfg.StartingStack}

	aggregated := TraversalStats{}
	var p0Value float64
	for tau := engine.SeatZero; tau <= engine.SeatOne; tau++ {
		state, err := t.adapter.NewRound(stacks, t.customDeck)
		if err != nil {
			return TraversalStats{}, 0, fmt.Errorf("%w: %v", ErrEngineProtocol, err)
		}
		var hist infoset.History
		iter := int(t.iteration.Load()) + 1
		stats := TraversalStats{}
		value, err := t.cfr(state, hist, tau, iter, 0, &stats)
		if err != nil {
			return TraversalStats{}, 0, err
		}
		aggregated.NodesVisited += stats.NodesVisited
		aggregated.TerminalNodes += stats.TerminalNodes
		if stats.MaxDepth > aggregated.MaxDepth {
			aggregated.MaxDepth = stats.MaxDepth
		}
		if tau == engine.SeatZero {
			p0Value = value
		}
	}
	return aggregated, p0Value, nil
}

// Stats returns the most recently completed iteration's traversal stats.
func (t *Trainer) Stats() TraversalStats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.lastStats
}

// RunParallel runs cfg.ParallelTables independent trainers, each with its
// own NodeTable and RNG shard, and merges their regret/strategy sums into
// the receiver's table once all shards have finished (spec §5
// "Parallelism opportunity", SPEC_FULL.md supplemented feature 4). Grounded
// on the teacher's internal/evaluator/equity.go errgroup fan-out pattern.
// The core algorithm does not require this; it is an opt-in accelerator.
func (t *Trainer) RunParallel(ctx context.Context, progress func(Progress)) error {
	shards := t.cfg.ParallelTables
	if shards <= 1 {
		return t.Run(ctx, progress)
	}

	perShardIters := t.cfg.Iterations / shards
	if perShardIters <= 0 {
		perShardIters = 1
	}

	trainers := make([]*Trainer, shards)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < shards; i++ {
		shardCfg := t.cfg
		shardCfg.Iterations = perShardIters
		shardCfg.ParallelTables = 1
		shardCfg.Seed = t.cfg.Seed + int64(i) + 1
		shardTrainer, err := NewTrainer(t.adapter, shardCfg)
		if err != nil {
			return err
		}
		shardTrainer.customDeck = t.customDeck
		trainers[i] = shardTrainer

		g.Go(func() error {
			return shardTrainer.Run(gctx, nil)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, shardTrainer := range trainers {
		if err := t.table.Merge(shardTrainer.table); err != nil {
			return err
		}
		t.iteration.Add(shardTrainer.iteration.Load())
		t.valueMu.Lock()
		t.valueSum += shardTrainer.valueSum
		t.valueMu.Unlock()
	}

	if progress != nil {
		progress(Progress{Iteration: int(t.iteration.Load()), NodeCount: t.table.Size(), Stats: t.Stats(), GameValue: t.GameValue()})
	}
	return nil
}
