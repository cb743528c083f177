// Command pokercfr trains an external-sampling MCCFR solver against a
// small poker variant and plays hands from the resulting strategy.
//
// CLI surface and exit codes follow spec.md §6: 0 on success, 1 on an IO
// error, 2 on a configuration error. Kong command structs, zerolog setup,
// and the CLI-flags-override-config pattern are kept from the teacher's
// cmd/solver/main.go.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/agent"
	"github.com/lox/pokercfr/internal/cards"
	"github.com/lox/pokercfr/internal/config"
	"github.com/lox/pokercfr/internal/engine"
	"github.com/lox/pokercfr/internal/infoset"
	"github.com/lox/pokercfr/internal/solver"
	"github.com/lox/pokercfr/internal/store"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train TrainCmd `cmd:"" help:"run MCCFR training and write a strategy file"`
	Play  PlayCmd  `cmd:"" help:"sample hands from a saved strategy file"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("pokercfr"),
		kong.Description("external-sampling MCCFR poker solver"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	var err error
	switch ctx.Command() {
	case "train":
		err = cli.Train.Run(context.Background())
	case "play":
		err = cli.Play.Run(context.Background())
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}

	os.Exit(exitCode(err))
}

// exitCode maps the spec.md §7 error kinds onto spec.md §6's exit codes.
// Errors that are neither IO nor config related (engine-protocol, numeric)
// are programmer-visible bugs, not a result the CLI contract enumerates;
// they are logged and treated as a generic failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, solver.ErrIO):
		log.Error().Err(err).Msg("io error")
		return 1
	case errors.Is(err, solver.ErrConfig):
		log.Error().Err(err).Msg("config error")
		return 2
	default:
		log.Error().Err(err).Msg("fatal error")
		return 1
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

// TrainCmd implements `pokercfr train` (spec.md §6).
type TrainCmd struct {
	Iters           int    `help:"number of MCCFR iterations" name:"iters" required:""`
	Game            string `help:"game variant" enum:"kuhn,leduc,holdem" default:"kuhn"`
	Deck            string `help:"restrict the deck to these cards, e.g. AsKhQdJcTc9h" name:"deck"`
	Load            string `help:"resume training from a checkpoint file" name:"load"`
	Save            string `help:"write the trained strategy to this file" name:"save"`
	Checkpoint      string `help:"write a training checkpoint to this path once training completes"`
	CheckpointEvery time.Duration `help:"checkpoint interval stored in the training config; the trainer does not read it" default:"5m"`
	Config          string `help:"HCL training profile"`
	Seed            int64  `help:"random seed; 0 keeps the config/default seed"`
	Parallel        int    `help:"number of parallel traversal shards (1 disables sharding)"`
	ProgressEvery   int    `help:"log progress every N iterations (0 picks a default)"`
	SmallBlind      int    `help:"small blind size (holdem only)"`
	BigBlind        int    `help:"big blind size (holdem only)"`
	StartingStack   int    `help:"starting stack size"`
	CFRPlus         bool   `help:"enable the CFR+ variant"`
}

func (cmd *TrainCmd) Run(ctx context.Context) error {
	profile := config.DefaultTrainingProfile()
	if cmd.Config != "" {
		var err error
		profile, err = config.Load(cmd.Config)
		if err != nil {
			return err
		}
	}
	if cmd.Game != "" {
		profile.Game = cmd.Game
	}
	if cmd.Iters > 0 {
		profile.Iterations = cmd.Iters
	}
	if cmd.Seed != 0 {
		profile.Seed = int(cmd.Seed)
	}
	if cmd.Parallel > 0 {
		profile.ParallelTables = cmd.Parallel
	}
	if cmd.CheckpointEvery > 0 {
		profile.CheckpointEvery = cmd.CheckpointEvery.String()
	}
	if cmd.ProgressEvery > 0 {
		profile.ProgressEvery = cmd.ProgressEvery
	}
	if cmd.SmallBlind > 0 {
		profile.SmallBlind = cmd.SmallBlind
	}
	if cmd.BigBlind > 0 {
		profile.BigBlind = cmd.BigBlind
	}
	if cmd.StartingStack > 0 {
		profile.StartingStack = cmd.StartingStack
	}
	if cmd.CFRPlus {
		profile.UseCFRPlus = true
	}

	cfg, err := profile.ToTrainingConfig()
	if err != nil {
		return err
	}

	adapter, err := adapterForGame(cfg.Game, cfg.SmallBlind, cfg.BigBlind)
	if err != nil {
		return err
	}

	var trainer *solver.Trainer
	if cmd.Load != "" {
		trainer, err = solver.LoadCheckpoint(adapter, cmd.Load)
		if err != nil {
			return err
		}
		log.Info().Str("checkpoint", cmd.Load).Int64("resume_iteration", trainer.Iteration()).Msg("resumed training run")
	} else {
		trainer, err = solver.NewTrainer(adapter, cfg)
		if err != nil {
			return err
		}
	}

	if cmd.Deck != "" {
		deck, err := cards.ParseCards(cmd.Deck)
		if err != nil {
			return fmt.Errorf("%w: invalid --deck: %v", solver.ErrConfig, err)
		}
		trainer.SetDeck(deck)
	}

	log.Info().Str("game", adapter.Name()).Int("iterations", cfg.Iterations).Int("parallel_tables", cfg.ParallelTables).Bool("cfr_plus", cfg.UseCFRPlus).Msg("starting training run")

	start := time.Now()
	progress := func(p solver.Progress) {
		log.Info().
			Int("iteration", p.Iteration).
			Int("infosets", p.NodeCount).
			Int64("nodes_visited", p.Stats.NodesVisited).
			Int64("terminal_nodes", p.Stats.TerminalNodes).
			Int("max_depth", p.Stats.MaxDepth).
			Float64("game_value", p.GameValue).
			Msg("progress")
	}

	runErr := trainer.RunParallel(ctx, progress)
	if runErr != nil {
		return runErr
	}

	log.Info().Dur("duration", time.Since(start)).Int("infosets", trainer.NodeTable().Size()).Float64("game_value", trainer.GameValue()).Msg("training completed")

	if cmd.Checkpoint != "" {
		if err := trainer.SaveCheckpoint(cmd.Checkpoint); err != nil {
			return err
		}
		log.Info().Str("path", cmd.Checkpoint).Msg("checkpoint saved")
	}

	if cmd.Save != "" {
		strat, err := strategyFromTrainer(trainer)
		if err != nil {
			return fmt.Errorf("%w: %v", solver.ErrIO, err)
		}
		if err := store.Save(strat, cmd.Save); err != nil {
			return fmt.Errorf("%w: %v", solver.ErrIO, err)
		}
		log.Info().Str("path", cmd.Save).Int("records", strat.Len()).Msg("strategy saved")
	}

	return nil
}

// strategyFromTrainer extracts the average strategy for every information
// set visited during training (spec.md §4.6).
func strategyFromTrainer(trainer *solver.Trainer) (*store.Strategy, error) {
	return store.FromNodeTable(func(put func(infoset.Key, []abstraction.Action, []float64)) {
		trainer.NodeTable().Range(func(key infoset.Key, node *solver.RegretNode) {
			put(key, node.Actions, node.AverageStrategy())
		})
	})
}

// PlayCmd implements `pokercfr play` (spec.md §6): self-play hands sampling
// both seats from the loaded strategy, logging each decision and whether a
// safety override fired.
type PlayCmd struct {
	Strategy      string `help:"path to a saved strategy file" required:""`
	Game          string `help:"game variant" enum:"kuhn,leduc,holdem" default:"kuhn"`
	Hands         int    `help:"number of hands to play" default:"1"`
	Seed          int64  `help:"random seed"`
	SmallBlind    int    `help:"small blind size (holdem only)" default:"1"`
	BigBlind      int    `help:"big blind size (holdem only)" default:"2"`
	StartingStack int    `help:"starting stack size" default:"100"`
}

func (cmd *PlayCmd) Run(ctx context.Context) error {
	strat, err := store.Load(cmd.Strategy)
	if err != nil {
		return fmt.Errorf("%w: %v", solver.ErrIO, err)
	}

	game, err := parseGameName(cmd.Game)
	if err != nil {
		return err
	}
	adapter, err := adapterForGame(game, cmd.SmallBlind, cmd.BigBlind)
	if err != nil {
		return err
	}

	ag := agent.New(strat, cmd.Seed, cmd.BigBlind)

	for hand := 0; hand < cmd.Hands; hand++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := playOneHand(ag, adapter, cmd.StartingStack, hand); err != nil {
			return err
		}
	}
	return nil
}

func playOneHand(ag *agent.Agent, adapter engine.Adapter, startingStack, handIndex int) error {
	state, err := adapter.NewRound([2]int{startingStack, startingStack}, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", solver.ErrEngineProtocol, err)
	}

	var hist infoset.History
	for {
		terminal, payoffs := state.IsTerminal()
		if terminal {
			log.Info().Int("hand", handIndex).Float64("payoff_seat0", payoffs[0]).Float64("payoff_seat1", payoffs[1]).Msg("hand complete")
			return nil
		}

		pub := state.Public()
		decision, err := ag.Decide(state, hist)
		if err != nil {
			return fmt.Errorf("%w: %v", solver.ErrEngineProtocol, err)
		}

		logLine := log.Info().
			Int("hand", handIndex).
			Int("seat", int(state.Actor())).
			Str("street", pub.Street.String()).
			Str("action", decision.Sampled.String()).
			Int("amount", decision.Amount).
			Bool("used_stored_strategy", decision.UsedStoredStrategy)
		if decision.SafetyOverride != "" {
			logLine = logLine.Str("safety_override", decision.SafetyOverride)
		}
		logLine.Msg("decision")

		hist = hist.Append(pub.Street, decision.Sampled)
		snap := state.Snapshot()
		state, err = snap.Apply(decision.Action, decision.Amount)
		if err != nil {
			return fmt.Errorf("%w: %v", solver.ErrEngineProtocol, err)
		}
	}
}

func adapterForGame(game solver.Game, smallBlind, bigBlind int) (engine.Adapter, error) {
	switch game {
	case solver.GameKuhn:
		return engine.NewKuhn(), nil
	case solver.GameLeduc:
		return engine.NewLeduc(), nil
	case solver.GameHoldem:
		if smallBlind <= 0 {
			smallBlind = 1
		}
		if bigBlind <= 0 {
			bigBlind = 2
		}
		return engine.NewHoldem(smallBlind, bigBlind), nil
	default:
		return nil, fmt.Errorf("%w: unknown game %v", solver.ErrConfig, game)
	}
}

func parseGameName(name string) (solver.Game, error) {
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
