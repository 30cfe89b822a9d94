package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/spreadstarts/internal/config"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/distance"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/events"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/mapgen"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/setup"
	"github.com/mitchelldurbincs/spreadstarts/internal/logging"
	"github.com/mitchelldurbincs/spreadstarts/internal/snapshot"
	"github.com/mitchelldurbincs/spreadstarts/internal/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Rebalance failed")
	}
}

type options struct {
	configPath   string
	snapshotPath string
	emitPath     string
	players      int
	humans       int
	seed         int64
	dryRun       bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("rebalance", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "Path to config file")
	fs.StringVar(&o.snapshotPath, "snapshot", "", "Snapshot JSON to rebalance (default: generate a demo map)")
	fs.StringVar(&o.emitPath, "emit", "", "Write the generated map's snapshot JSON to this file before rebalancing")
	fs.IntVar(&o.players, "players", 6, "Participants on a generated map")
	fs.IntVar(&o.humans, "humans", 3, "Human participants on a generated map")
	fs.Int64Var(&o.seed, "seed", 0, "Seed for a generated map (0 picks one)")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Plan swaps without applying them")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.snapshotPath != "" && o.emitPath != "" {
		return o, fmt.Errorf("-emit only applies to generated maps")
	}
	switch {
	case o.players < 1:
		return o, fmt.Errorf("-players must be at least 1, got %d", o.players)
	case o.humans < 0:
		return o, fmt.Errorf("-humans must not be negative, got %d", o.humans)
	case o.humans > o.players:
		return o, fmt.Errorf("-humans %d exceeds -players %d", o.humans, o.players)
	}
	return o, nil
}

// game is what one invocation rebalances
type game struct {
	id       string
	roster   core.Roster
	oracle   core.DistanceOracle
	board    *core.Board // nil for snapshots
	executor setup.Executor
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg := config.Get()
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	var g *game
	if opts.snapshotPath != "" {
		g, err = loadSnapshot(opts.snapshotPath)
	} else {
		g, err = generate(cfg, opts)
	}
	if err != nil {
		return err
	}

	ctx := context.Background()
	recorder, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	if recorder != nil {
		defer recorder.Close()
	}

	bus := events.NewEventBus(logger)
	bus.Subscribe(subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.DebugLevel))

	if g.board != nil {
		fmt.Fprintf(stdout, "Before:\n%s\n", g.board.Render(labeller(g.roster)))
	}

	r := setup.NewRebalancer(setup.Config{
		GameID:          g.id,
		Oracle:          g.oracle,
		MaxParticipants: cfg.Spread.MaxParticipants,
		MinHumans:       cfg.Spread.MinHumans,
		DryRun:          opts.dryRun,
		Executor:        g.executor,
		Publisher:       bus,
		Recorder:        recorder,
		Logger:          logger,
	})
	out, err := r.Run(ctx, g.roster)
	if err != nil {
		return err
	}

	if g.board != nil && !out.DryRun && len(out.Moves) > 0 {
		fmt.Fprintf(stdout, "After:\n%s\n", g.board.Render(labeller(g.roster)))
	}
	report(stdout, out)
	return nil
}

func loadSnapshot(path string) (*game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := snapshot.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &game{id: snap.GameID, roster: snap.Roster, oracle: snap.Oracle()}, nil
}

func generate(cfg *config.Config, opts options) (*game, error) {
	seed := opts.seed
	if seed == 0 {
		seed = cfg.Map.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mc := mapgen.DefaultMapConfig(cfg.Map.Width, cfg.Map.Height, opts.players)
	mc.MinStartSpacing = cfg.Map.MinStartSpacing
	mc.MountainThreshold = cfg.Map.MountainThreshold
	mc.MountainFrequency = cfg.Map.MountainFrequency
	mc.Seed = seed

	board, placements := mapgen.NewGenerator(mc, rng).GenerateMap()
	roster := mapgen.Roster(board, placements, mapgen.PickHumans(rng, opts.players, opts.humans))
	id := fmt.Sprintf("demo-%d", seed)

	if opts.emitPath != "" {
		data, err := snapshot.FromBoard(id, board, roster).MarshalJSON()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(opts.emitPath, data, 0644); err != nil {
			return nil, fmt.Errorf("write snapshot: %w", err)
		}
	}

	var oracle core.DistanceOracle = distance.OnBoard(board)
	if cfg.Distance.Metric == config.MetricPath {
		oracle = distance.NewPath(board)
	}

	return &game{
		id:       id,
		roster:   roster,
		oracle:   oracle,
		board:    board,
		executor: setup.BoardExecutor{Board: board},
	}, nil
}

const glyphs = "0123456789abcdefghijklmnopqrstuvwxyz"

// labeller draws humans as upper case and AIs as lower case glyphs of their ID
func labeller(roster core.Roster) func(core.ParticipantID) byte {
	return func(id core.ParticipantID) byte {
		g := glyphs[int(id)%len(glyphs)]
		if p, ok := roster.Find(id); ok && p.Human {
			return strings.ToUpper(string(g))[0]
		}
		return g
	}
}

func report(w io.Writer, out setup.Outcome) {
	fmt.Fprintf(w, "Run %s (%s): %s\n", out.RunID, out.GameID, out.Status)
	fmt.Fprintf(w, "  %d participants, %d human, %d AI\n", out.Participants, out.Humans, out.AIs)
	if out.Status.Skipped() {
		fmt.Fprintf(w, "  %s\n", out.Reason)
		return
	}

	ids := make([]string, len(out.Winner))
	for i, p := range out.Winner {
		ids[i] = fmt.Sprintf("#%d@%d", p.ID, p.Position)
	}
	fmt.Fprintf(w, "  target positions %s: min distance %d, total %s\n",
		strings.Join(ids, " "), out.Profile.Min, humanize.Comma(int64(out.Profile.Sum)))
	fmt.Fprintf(w, "  searched %s combinations (%s abandoned early) with %s distance queries in %s\n",
		humanize.Comma(int64(out.Stats.Enumerated)),
		humanize.Comma(int64(out.Stats.Rejected)),
		humanize.Comma(int64(out.Queries)),
		humanize.SIWithDigits(out.Duration.Seconds(), 2, "s"))
	if out.Stats.TieBreaks > 0 {
		fmt.Fprintf(w, "  total distance broke %s tie(s) on the minimum\n", humanize.Comma(int64(out.Stats.TieBreaks)))
	}

	if len(out.Moves) == 0 {
		fmt.Fprintf(w, "  %s\n", out.Reason)
		return
	}
	verb := "applied"
	if out.DryRun {
		verb = "planned"
	}
	for i, m := range out.Moves {
		fmt.Fprintf(w, "  %s swap %s: %s\n", humanize.Ordinal(i+1), verb, m)
	}
}
