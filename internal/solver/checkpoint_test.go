package solver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/pokercfr/internal/engine"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadCheckpointRoundTrips(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrainingConfig()
	cfg.Iterations = 50
	cfg.ProgressEvery = 0
	trainer, err := NewTrainer(engine.NewKuhn(), cfg)
	require.NoError(t, err)
	require.NoError(t, trainer.Run(context.Background(), nil))

	path := filepath.Join(t.TempDir(), "ckpt.json")
	require.NoError(t, trainer.SaveCheckpoint(path))

	restored, err := LoadCheckpoint(engine.NewKuhn(), path)
	require.NoError(t, err)
	require.Equal(t, trainer.Iteration(), restored.Iteration())
	require.InDelta(t, trainer.GameValue(), restored.GameValue(), 1e-9)
	require.Equal(t, trainer.NodeTable().Size(), restored.NodeTable().Size())
}

func TestLoadCheckpointRejectsBadVersion(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrainingConfig()
	cfg.Iterations = 5
	trainer, err := NewTrainer(engine.NewKuhn(), cfg)
	require.NoError(t, err)
	require.NoError(t, trainer.Run(context.Background(), nil))

	path := filepath.Join(t.TempDir(), "ckpt.json")
	require.NoError(t, trainer.SaveCheckpoint(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	doc["version"] = 999
	raw, err = json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = LoadCheckpoint(engine.NewKuhn(), path)
	require.ErrorIs(t, err, ErrIO)
}

func TestLoadCheckpointRejectsMissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadCheckpoint(engine.NewKuhn(), filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, ErrIO)
}

func TestResumedTrainingContinuesToCompletion(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrainingConfig()
	cfg.Iterations = 20
	cfg.ProgressEvery = 0
	trainer, err := NewTrainer(engine.NewKuhn(), cfg)
	require.NoError(t, err)
	require.NoError(t, trainer.Run(context.Background(), nil))

	path := filepath.Join(t.TempDir(), "ckpt.json")
	require.NoError(t, trainer.SaveCheckpoint(path))

	restored, err := LoadCheckpoint(engine.NewKuhn(), path)
	require.NoError(t, err)
	restored.cfg.Iterations = 40
	require.NoError(t, restored.Run(context.Background(), nil))
	require.Equal(t, int64(40), restored.Iteration())
}
