// Package setup runs the start-position rebalance as a game-setup hook.
package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/distance"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/events"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/spread"
	"github.com/mitchelldurbincs/spreadstarts/internal/store"
)

// ErrRecordFailed marks a run that completed but could not be persisted.
// The outcome returned alongside it is valid.
var ErrRecordFailed = errors.New("run not recorded")

// Config wires a Rebalancer to its collaborators. Only Oracle is required.
type Config struct {
	GameID          string
	Oracle          core.DistanceOracle
	MaxParticipants int  // <= 0 selects spread.DefaultMaxParticipants
	MinHumans       int  // values below 2 are raised to 2
	DryRun          bool // plan on a copy of the roster, leave the caller's state alone
	Executor        Executor
	Publisher       events.Publisher
	Recorder        store.Recorder
	Logger          zerolog.Logger
	NewRunID        func() string
}

// Move is one swap as it happened: the human left From and took To
type Move struct {
	Human core.ParticipantID
	Other core.ParticipantID
	From  core.PositionID
	To    core.PositionID
}

func (m Move) String() string {
	return fmt.Sprintf("#%d %d->%d (displaces #%d)", m.Human, m.From, m.To, m.Other)
}

// Outcome reports what a run decided and did
type Outcome struct {
	RunID        string
	GameID       string
	Status       Status
	Reason       string
	Participants int
	Humans       int
	AIs          int
	// Winner holds copies of the winning participants as they stood before any swap
	Winner   []core.Participant
	Profile  spread.Profile
	Stats    spread.Stats
	Queries  int
	Moves    []Move
	DryRun   bool
	Duration time.Duration
}

// Rebalancer moves human participants onto the most spread-out set of the
// existing start positions
type Rebalancer struct {
	config Config
	logger zerolog.Logger
}

// NewRebalancer applies defaults to cfg and returns a ready rebalancer
func NewRebalancer(cfg Config) *Rebalancer {
	if cfg.MaxParticipants <= 0 {
		cfg.MaxParticipants = spread.DefaultMaxParticipants
	}
	if cfg.MinHumans < 2 {
		cfg.MinHumans = 2
	}
	if cfg.Executor == nil {
		cfg.Executor = RosterExecutor{}
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.Discard
	}
	if cfg.NewRunID == nil {
		cfg.NewRunID = uuid.NewString
	}
	return &Rebalancer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "Rebalancer").Str("game_id", cfg.GameID).Logger(),
	}
}

// Run rebalances roster in place (unless DryRun). Unsupported games are a
// no-op reported through the outcome status, not an error. Errors mean the
// roster was invalid, the context ended before the run began, execution failed
// or the run could not be recorded. A failed swap is rolled back along with
// every swap before it, so the roster is never left half rebalanced.
func (r *Rebalancer) Run(ctx context.Context, roster core.Roster) (Outcome, error) {
	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	default:
	}

	if err := roster.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("invalid roster: %w", err)
	}

	start := time.Now()
	out := Outcome{
		RunID:        r.config.NewRunID(),
		GameID:       r.config.GameID,
		Participants: len(roster),
		DryRun:       r.config.DryRun,
	}
	logger := r.logger.With().Str("run_id", out.RunID).Logger()

	r.publish(events.NewRebalanceStartedEvent(out.GameID, out.RunID, out.Participants, r.config.MaxParticipants))

	out.Humans, out.AIs = roster.CountHumans()
	r.publish(events.NewParticipantsClassifiedEvent(out.GameID, out.RunID, out.Humans, out.AIs))
	logger.Info().
		Int("participants", out.Participants).
		Int("humans", out.Humans).
		Int("ais", out.AIs).
		Msg("Participants classified")

	if status, reason, skip := r.guard(out); skip {
		out.Status, out.Reason = status, reason
		out.Duration = time.Since(start)
		r.publish(events.NewRebalanceSkippedEvent(out.GameID, out.RunID, status.String(), reason))
		logger.Info().Str("status", status.String()).Str("reason", reason).Msg("Rebalance skipped")
		return out, r.record(ctx, out)
	}

	working, exec := roster, r.config.Executor
	if r.config.DryRun {
		working, exec = roster.Clone(), RosterExecutor{}
	}

	counting := distance.NewCounting(r.config.Oracle)
	result := spread.NewOptimizer(counting, r.config.MaxParticipants).FindMostDistantSubset(working, out.Humans)
	out.Profile, out.Stats, out.Queries = result.Profile, result.Stats, counting.Calls()
	out.Winner = make([]core.Participant, len(result.Combo))
	for i, p := range result.Combo {
		out.Winner[i] = *p
	}

	r.publish(events.NewSubsetSelectedEvent(out.GameID, out.RunID, events.MembersOf(result.Combo),
		out.Profile.Min, out.Profile.Sum, out.Stats.Enumerated, out.Stats.Rejected, out.Queries))
	if out.Stats.TieBreaks > 0 {
		r.publish(events.NewTieBreakAppliedEvent(out.GameID, out.RunID,
			out.Stats.TieBreaks, out.Stats.Ties, out.Profile.Min, out.Profile.Sum))
	}
	logger.Debug().
		Str("winner", result.Combo.String()).
		Int("min_distance", out.Profile.Min).
		Int("sum_distance", out.Profile.Sum).
		Int("enumerated", out.Stats.Enumerated).
		Int("rejected", out.Stats.Rejected).
		Msg("Most distant subset selected")

	humans := working.Humans()
	targets, movers := spread.Reconcile(result.Combo, humans)
	swaps, err := spread.Plan(targets, movers)
	if err != nil {
		logger.Error().Err(err).Msg("Reconciliation failed, no swaps applied")
		return Outcome{}, fmt.Errorf("run %s: %w", out.RunID, err)
	}
	r.publish(events.NewSwapPlannedEvent(out.GameID, out.RunID, len(swaps), len(humans)-len(movers)))

	// Swaps apply as a unit. A failed swap undoes the ones before it.
	for i, s := range swaps {
		m := Move{Human: s.Human.ID, Other: s.Other.ID, From: s.Human.Position, To: s.Other.Position}
		if err := exec.Swap(ctx, s.Human, s.Other); err != nil {
			err = fmt.Errorf("run %s swap %s: %w", out.RunID, s, err)
			if rbErr := r.rollback(ctx, exec, swaps[:i]); rbErr != nil {
				logger.Error().Err(rbErr).Int("applied", i).Msg("Rollback failed, roster left partially rebalanced")
				return Outcome{}, errors.Join(err, rbErr)
			}
			logger.Warn().Err(err).Int("rolled_back", i).Msg("Swap failed, earlier swaps rolled back")
			return Outcome{}, err
		}
		out.Moves = append(out.Moves, m)
		r.publish(events.NewSwapAppliedEvent(out.GameID, out.RunID, i, m.Human, m.Other, m.From, m.To))
		logger.Debug().Str("move", m.String()).Msg("Swap applied")
	}

	out.Status = StatusApplied
	if len(swaps) == 0 {
		out.Status = StatusAlreadyOptimal
		out.Reason = "humans already hold the most spread-out positions"
	}
	out.Duration = time.Since(start)

	r.publish(events.NewRebalanceCompletedEvent(out.GameID, out.RunID, out.Status.String(), len(out.Moves), out.DryRun, out.Duration))
	logger.Info().
		Str("status", out.Status.String()).
		Int("swaps", len(out.Moves)).
		Bool("dry_run", out.DryRun).
		Dur("duration", out.Duration).
		Msg("Rebalance complete")

	return out, r.record(ctx, out)
}

// guard decides whether the game qualifies, checking the cap first, then the
// human count, then that at least one AI is present
func (r *Rebalancer) guard(out Outcome) (Status, string, bool) {
	switch {
	case out.Participants > r.config.MaxParticipants:
		return StatusSkippedCapExceeded,
			fmt.Sprintf("%d participants exceeds the supported maximum of %d", out.Participants, r.config.MaxParticipants), true
	case out.Humans < r.config.MinHumans:
		return StatusSkippedTooFewHumans,
			fmt.Sprintf("%d human participants, at least %d needed", out.Humans, r.config.MinHumans), true
	case out.AIs == 0:
		return StatusSkippedAllHuman,
			fmt.Sprintf("all %d participants are human, no AI positions to trade", out.Participants), true
	}
	return 0, "", false
}

// rollback reverses applied swaps, newest first. A swap is its own inverse.
func (r *Rebalancer) rollback(ctx context.Context, exec Executor, applied []core.SwapInstruction) error {
	ctx = context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		s := applied[i]
		if err := exec.Swap(ctx, s.Human, s.Other); err != nil {
			return fmt.Errorf("rollback swap %s: %w", s, err)
		}
	}
	return nil
}

func (r *Rebalancer) publish(e events.Event) {
	r.config.Publisher.Publish(e)
}

func (r *Rebalancer) record(ctx context.Context, out Outcome) error {
	if r.config.Recorder == nil {
		return nil
	}
	if err := r.config.Recorder.SaveRun(ctx, ToRecord(out)); err != nil {
		r.logger.Warn().Err(err).Str("run_id", out.RunID).Msg("Failed to record rebalance run")
		return fmt.Errorf("%w: run %s: %w", ErrRecordFailed, out.RunID, err)
	}
	return nil
}

// ToRecord flattens an outcome into its persisted form
func ToRecord(out Outcome) store.RunRecord {
	rec := store.RunRecord{
		RunID:        out.RunID,
		GameID:       out.GameID,
		Status:       out.Status.String(),
		Reason:       out.Reason,
		Participants: out.Participants,
		Humans:       out.Humans,
		MinDistance:  out.Profile.Min,
		SumDistance:  out.Profile.Sum,
		Enumerated:   out.Stats.Enumerated,
		Rejected:     out.Stats.Rejected,
		DryRun:       out.DryRun,
		Duration:     out.Duration,
		CreatedAt:    time.Now(),
	}
	for _, m := range out.Moves {
		rec.Moves = append(rec.Moves, store.Move{
			HumanID: int(m.Human),
			OtherID: int(m.Other),
			From:    int(m.From),
			To:      int(m.To),
		})
	}
	return rec
}
