package solver

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/cards"
	"github.com/lox/pokercfr/internal/engine"
	"github.com/lox/pokercfr/internal/fileutil"
	"github.com/lox/pokercfr/internal/infoset"
)

// checkpointFileVersion guards against loading a checkpoint produced by an
// incompatible version of this schema.
const checkpointFileVersion = 1

// checkpoint is the JSON envelope persisted to disk (SPEC_FULL.md
// supplemented feature 1, grounded on the teacher's
// sdk/solver/checkpoint.go checkpointSnapshot). Full regrets and strategy
// sums are included, per spec §6 "optional checkpoint of the NodeTable...
// for resuming training".
type checkpoint struct {
	Version    int                       `json:"version"`
	Iteration  int64                     `json:"iteration"`
	ValueSum   float64                   `json:"value_sum"`
	RNGCalls   int64                     `json:"rng_calls"`
	Config     TrainingConfig            `json:"config"`
	CustomDeck []int                     `json:"custom_deck,omitempty"`
	Nodes      map[string]nodeCheckpoint `json:"nodes"`
}

type nodeCheckpoint struct {
	ActionTags  []byte    `json:"action_tags"`
	RegretSum   []float64 `json:"regret_sum"`
	StrategySum []float64 `json:"strategy_sum"`
}

// SaveCheckpoint atomically writes the trainer's full state to path, using
// the same temp-file-then-rename discipline as internal/store (and the
// teacher's own checkpoint.go, which hand-rolled the same thing inline).
func (t *Trainer) SaveCheckpoint(path string) error {
	snap := t.buildCheckpoint()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode checkpoint: %v", ErrIO, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func (t *Trainer) buildCheckpoint() *checkpoint {
	snap := &checkpoint{
		Version:   checkpointFileVersion,
		Iteration: t.iteration.Load(),
		Config:    t.cfg,
		Nodes:     make(map[string]nodeCheckpoint),
	}
	t.valueMu.Lock()
	snap.ValueSum = t.valueSum
	t.valueMu.Unlock()
	snap.RNGCalls = t.rngCalls.Load()

	for _, c := range t.customDeck {
		snap.CustomDeck = append(snap.CustomDeck, c.ID())
	}

	t.table.Range(func(key infoset.Key, node *RegretNode) {
		node.mu.Lock()
		defer node.mu.Unlock()
		tags := make([]byte, len(node.Actions))
		for i, a := range node.Actions {
			tags[i] = a.Tag()
		}
		snap.Nodes[string(key)] = nodeCheckpoint{
			ActionTags:  tags,
			RegretSum:   append([]float64(nil), node.RegretSum...),
			StrategySum: append([]float64(nil), node.StrategySum...),
		}
	})
	return snap
}

// LoadCheckpoint restores a trainer for the given engine.Adapter from a
// checkpoint file, replaying the RNG to its saved position so the resumed
// run continues the same opponent-sampling stream rather than restarting it
// (spec §5 "state after any completed iteration is a consistent
// checkpoint"). Dealing uses the engine's own shuffle and is not replayed.
func LoadCheckpoint(adapter engine.Adapter, path string) (*Trainer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	var snap checkpoint
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode checkpoint: %v", ErrIO, err)
	}
	if snap.Version != checkpointFileVersion {
		return nil, fmt.Errorf("%w: unsupported checkpoint version %d", ErrIO, snap.Version)
	}
	if err := snap.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: checkpoint config invalid: %v", ErrConfig, err)
	}

	trainer, err := NewTrainer(adapter, snap.Config)
	if err != nil {
		return nil, err
	}
	trainer.iteration.Store(snap.Iteration)
	trainer.valueSum = snap.ValueSum

	for _, id := range snap.CustomDeck {
		trainer.customDeck = append(trainer.customDeck, cards.CardFromID(id))
	}

	seed := snap.Config.Seed
	if seed == 0 {
		seed = 1
	}
	trainer.rng = NewFastRand(seed)
	for i := int64(0); i < snap.RNGCalls; i++ {
		trainer.rng.Float64()
	}
	trainer.rngCalls.Store(snap.RNGCalls)

	table := NewNodeTable()
	for k, nc := range snap.Nodes {
		actions := make([]abstraction.Action, len(nc.ActionTags))
		for i, tag := range nc.ActionTags {
			a, err := abstraction.FromTag(tag)
			if err != nil {
				return nil, fmt.Errorf("%w: checkpoint node %q: %v", ErrIO, k, err)
			}
			actions[i] = a
		}
		node := table.GetOrCreate(infoset.Key(k), actions)
		copy(node.RegretSum, nc.RegretSum)
		copy(node.StrategySum, nc.StrategySum)
	}
	trainer.table = table
	return trainer, nil
}
