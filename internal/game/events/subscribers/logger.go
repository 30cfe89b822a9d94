package subscribers

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/events"
)

// LoggerSubscriber turns setup events into structured log lines
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables logging the whole event as JSON
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent logs an event with fields specific to its type
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel)
	if ls.logLevel == zerolog.NoLevel {
		logEvent = ls.logger.Info()
	}
	logEvent = logEvent.
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Str("run_id", event.RunID()).
		Time("timestamp", event.Timestamp())

	msg := "Setup event"
	switch e := event.(type) {
	case *events.RebalanceStartedEvent:
		msg = "Rebalancing human start positions"
		logEvent.
			Int("participants", e.Participants).
			Int("max_participants", e.MaxParticipants)

	case *events.ParticipantsClassifiedEvent:
		msg = "Participants classified"
		logEvent.
			Int("humans", e.Humans).
			Int("ais", e.AIs)

	case *events.RebalanceSkippedEvent:
		msg = "Rebalance skipped"
		logEvent.
			Str("status", e.Status).
			Str("reason", e.Reason)

	case *events.SubsetSelectedEvent:
		msg = "Most distant subset selected"
		logEvent.
			Str("members", formatMembers(e.Members)).
			Int("min_distance", e.MinDistance).
			Int("sum_distance", e.SumDistance).
			Int("enumerated", e.Enumerated).
			Int("rejected", e.Rejected).
			Int("distance_queries", e.Queries)

	case *events.TieBreakAppliedEvent:
		msg = "Equal minimum distance resolved by total distance"
		logEvent.
			Int("tie_breaks", e.TieBreaks).
			Int("ties", e.Ties).
			Int("min_distance", e.MinDistance).
			Int("sum_distance", e.SumDistance)

	case *events.SwapPlannedEvent:
		msg = "Swaps planned"
		logEvent.
			Int("count", e.Count).
			Int("already_placed", e.AlreadyPlaced)

	case *events.SwapAppliedEvent:
		msg = "Swap applied"
		logEvent.
			Int("index", e.Index).
			Int("human_id", int(e.HumanID)).
			Int("other_id", int(e.OtherID)).
			Int("human_from", int(e.HumanFrom)).
			Int("human_to", int(e.HumanTo))

	case *events.RebalanceCompletedEvent:
		msg = "Rebalance complete"
		logEvent.
			Str("status", e.Status).
			Int("swaps", e.Swaps).
			Bool("dry_run", e.DryRun).
			Dur("duration", e.Duration)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg(msg)
}

func formatMembers(members []events.Member) string {
	out := "["
	for i, m := range members {
		if i > 0 {
			out += " "
		}
		kind := "ai"
		if m.Human {
			kind = "human"
		}
		out += fmt.Sprintf("%d:%s@%d", m.ID, kind, m.Position)
	}
	return out + "]"
}
