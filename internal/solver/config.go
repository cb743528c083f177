package solver

import (
	"fmt"
	"time"
)

// Game selects which concrete engine.Adapter a TrainingConfig trains
// against.
type Game uint8

const (
	GameKuhn Game = iota
	GameLeduc
	GameHoldem
)

func (g Game) String() string {
	switch g {
	case GameKuhn:
		return "kuhn"
	case GameLeduc:
		return "leduc"
	case GameHoldem:
		return "holdem"
	default:
		return "unknown"
	}
}

// TrainingConfig aggregates the parameters that control one MCCFR run.
// Adapted from the teacher's sdk/solver/config.go TrainingConfig: the
// PreflopBucketCount/PostflopBucketCount knobs are dropped (spec.md's
// InfoSetKey is exact-card, not bucketed — see DESIGN.md Open Question
// resolution), EnableRaises/MaxRaisesPerBucket collapse into the fixed
// abstraction.F, and Sampling is dropped since spec.md only defines
// external sampling.
type TrainingConfig struct {
	Iterations      int
	Game            Game
	Seed            int64
	ParallelTables  int
	CheckpointEvery time.Duration
	ProgressEvery   int
	SmallBlind      int
	BigBlind        int
	StartingStack   int

	// UseCFRPlus enables the CFR+ variant (SPEC_FULL.md supplemented
	// feature 2): negative regrets are clamped to zero and strategy-sum
	// accumulation is weighted by iteration number. Off by default, in
	// which case training runs the vanilla algorithm of spec.md §4.5.
	UseCFRPlus bool

	// AdaptiveRaiseVisits is the teacher's visit-count knob (SPEC_FULL.md
	// supplemented feature 5). Validate rejects negative values; nothing
	// else reads it, so any value leaves training unchanged and F is used
	// as specified in spec.md §4.2, unconditionally.
	AdaptiveRaiseVisits int
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be > 0", ErrConfig)
	}
	if c.ParallelTables <= 0 {
		return fmt.Errorf("%w: parallel tables must be > 0", ErrConfig)
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("%w: checkpoint interval cannot be negative", ErrConfig)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("%w: progress interval cannot be negative", ErrConfig)
	}
	if c.SmallBlind <= 0 {
		return fmt.Errorf("%w: small blind must be > 0", ErrConfig)
	}
	if c.BigBlind <= c.SmallBlind {
		return fmt.Errorf("%w: big blind must be greater than small blind", ErrConfig)
	}
	if c.StartingStack <= 0 {
		return fmt.Errorf("%w: starting stack must be > 0", ErrConfig)
	}
	if c.AdaptiveRaiseVisits < 0 {
		return fmt.Errorf("%w: adaptive raise visits cannot be negative", ErrConfig)
	}
	return nil
}

// DefaultTrainingConfig returns a minimal configuration for local
// experimentation against Kuhn poker.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:      100000,
		Game:            GameKuhn,
		Seed:            1,
		ParallelTables:  1,
		CheckpointEvery: 5 * time.Minute,
		ProgressEvery:   10000,
		SmallBlind:      1,
		BigBlind:        2,
		StartingStack:   100,
		UseCFRPlus:      false,
	}
}
