// Package config loads a TrainingProfile from an HCL file, in the same
// block-tag style and "file optional, defaults otherwise" discipline as the
// teacher's internal/client/config.go and internal/server/config.go. CLI
// flags in cmd/pokercfr override the loaded values, matching the teacher's
// cmd/solver/main.go TrainCmd.Run pattern.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokercfr/internal/solver"
)

// TrainingProfile is the HCL-decodable shape of a training configuration
// file (`pokercfr train --config FILE`). It maps directly onto
// solver.TrainingConfig.
type TrainingProfile struct {
	Game            string `hcl:"game,optional"`
	Iterations      int    `hcl:"iterations,optional"`
	Seed            int    `hcl:"seed,optional"`
	ParallelTables  int    `hcl:"parallel_tables,optional"`
	CheckpointEvery string `hcl:"checkpoint_every,optional"`
	ProgressEvery   int    `hcl:"progress_every,optional"`
	SmallBlind      int    `hcl:"small_blind,optional"`
	BigBlind        int    `hcl:"big_blind,optional"`
	StartingStack   int    `hcl:"starting_stack,optional"`
	UseCFRPlus      bool   `hcl:"use_cfr_plus,optional"`
}

// DefaultTrainingProfile mirrors solver.DefaultTrainingConfig so a missing
// config file produces the same behavior as no config file at all.
func DefaultTrainingProfile() TrainingProfile {
	d := solver.DefaultTrainingConfig()
	return TrainingProfile{
		Game:            d.Game.String(),
		Iterations:      d.Iterations,
		Seed:            int(d.Seed),
		ParallelTables:  d.ParallelTables,
		CheckpointEvery: d.CheckpointEvery.String(),
		ProgressEvery:   d.ProgressEvery,
		SmallBlind:      d.SmallBlind,
		BigBlind:        d.BigBlind,
		StartingStack:   d.StartingStack,
		UseCFRPlus:      d.UseCFRPlus,
	}
}

// Load reads an HCL training profile from path. A missing file is not an
// error: it returns DefaultTrainingProfile, matching the teacher's
// LoadClientConfig behavior of falling back to defaults when the file does
// not exist (CLI flags are expected to fill in the rest).
func Load(path string) (TrainingProfile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultTrainingProfile(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return TrainingProfile{}, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	profile := DefaultTrainingProfile()
	if diags := gohcl.DecodeBody(file.Body, nil, &profile); diags.HasErrors() {
		return TrainingProfile{}, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}
	return profile, nil
}

// ToTrainingConfig converts the profile into a solver.TrainingConfig,
// resolving the Game name and CheckpointEvery duration string.
func (p TrainingProfile) ToTrainingConfig() (solver.TrainingConfig, error) {
	game, err := parseGame(p.Game)
	if err != nil {
		return solver.TrainingConfig{}, err
	}

	interval, err := time.ParseDuration(p.CheckpointEvery)
	if err != nil {
		return solver.TrainingConfig{}, fmt.Errorf("config: invalid checkpoint_every %q: %w", p.CheckpointEvery, err)
	}

	return solver.TrainingConfig{
		Game:            game,
		Iterations:      p.Iterations,
		Seed:            int64(p.Seed),
		ParallelTables:  p.ParallelTables,
		CheckpointEvery: interval,
		ProgressEvery:   p.ProgressEvery,
		SmallBlind:      p.SmallBlind,
		BigBlind:        p.BigBlind,
		StartingStack:   p.StartingStack,
		UseCFRPlus:      p.UseCFRPlus,
	}, nil
}

func parseGame(name string) (solver.Game, error) {
	switch name {
	case "kuhn", "":
		return solver.GameKuhn, nil
	case "leduc":
		return solver.GameLeduc, nil
	case "holdem":
		return solver.GameHoldem, nil
	default:
		return 0, fmt.Errorf("%w: unknown game %q", solver.ErrConfig, name)
	}
}
