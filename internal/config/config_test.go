package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/pokercfr/internal/solver"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	profile, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.Equal(t, DefaultTrainingProfile(), profile)
}

func TestLoadParsesHCLFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.hcl")
	contents := `
game             = "leduc"
iterations       = 5000
seed             = 42
parallel_tables  = 2
checkpoint_every = "1m"
progress_every   = 100
small_blind      = 1
big_blind        = 2
starting_stack   = 20
use_cfr_plus     = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	profile, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "leduc", profile.Game)
	require.Equal(t, 5000, profile.Iterations)
	require.True(t, profile.UseCFRPlus)

	cfg, err := profile.ToTrainingConfig()
	require.NoError(t, err)
	require.Equal(t, solver.GameLeduc, cfg.Game)
	require.Equal(t, 5000, cfg.Iterations)
	require.NoError(t, cfg.Validate())
}

func TestToTrainingConfigRejectsUnknownGame(t *testing.T) {
	t.Parallel()
	profile := DefaultTrainingProfile()
	profile.Game = "omaha"
	_, err := profile.ToTrainingConfig()
	require.ErrorIs(t, err, solver.ErrConfig)
}

func TestToTrainingConfigRejectsBadDuration(t *testing.T) {
	t.Parallel()
	profile := DefaultTrainingProfile()
	profile.CheckpointEvery = "not-a-duration"
	_, err := profile.ToTrainingConfig()
	require.Error(t, err)
}
