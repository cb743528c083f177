package solver

import (
	"testing"

	"github.com/lox/pokercfr/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCG32IsDeterministicForASeed(t *testing.T) {
	a := NewPCG32(7)
	b := NewPCG32(7)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint32(), b.Uint32())
	}
}

func TestPCG32FloatsAreWithinUnitRange(t *testing.T) {
	r := NewPCG32(1)
	for i := 0; i < 1000; i++ {
		f := r.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestPCG32IntnIsWithinRange(t *testing.T) {
	r := NewPCG32(42)
	for i := 0; i < 1000; i++ {
		n := r.Intn(5)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 5)
	}
}

func TestNewFastRandBacksARegularRand(t *testing.T) {
	rng := NewFastRand(123)
	seen := make(map[int]bool)
	for i := 0; i < 50; i++ {
		seen[rng.Intn(1000)] = true
	}
	assert.Greater(t, len(seen), 1, "a fixed-state source would return one value forever")
}

func TestNewTrainerRNGIsSeedDeterministic(t *testing.T) {
	cfg := DefaultTrainingConfig()
	cfg.Seed = 9

	a, err := NewTrainer(engine.NewKuhn(), cfg)
	require.NoError(t, err)
	b, err := NewTrainer(engine.NewKuhn(), cfg)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.Equal(t, a.rng.Float64(), b.rng.Float64(), "two trainers built from the same seed must draw an identical PCG32 stream")
	}
}
