package events

import (
	"time"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// Event type constants
const (
	TypeRebalanceStarted       = "rebalance.started"
	TypeParticipantsClassified = "participants.classified"
	TypeRebalanceSkipped       = "rebalance.skipped"
	TypeSubsetSelected         = "subset.selected"
	TypeTieBreakApplied        = "tiebreak.applied"
	TypeSwapPlanned            = "swap.planned"
	TypeSwapApplied            = "swap.applied"
	TypeRebalanceCompleted     = "rebalance.completed"
)

// Member is a participant as seen by an event
type Member struct {
	ID       core.ParticipantID `json:"id"`
	Name     string             `json:"name,omitempty"`
	Human    bool               `json:"human"`
	Position core.PositionID    `json:"position"`
}

// MembersOf snapshots participants so later swaps do not change the event
func MembersOf(ps []*core.Participant) []Member {
	out := make([]Member, len(ps))
	for i, p := range ps {
		out[i] = Member{ID: p.ID, Name: p.Name, Human: p.Human, Position: p.Position}
	}
	return out
}

// RebalanceStartedEvent is published before any participant is inspected
type RebalanceStartedEvent struct {
	BaseEvent
	Participants    int `json:"participants"`
	MaxParticipants int `json:"max_participants"`
}

func NewRebalanceStartedEvent(gameID, runID string, participants, maxParticipants int) *RebalanceStartedEvent {
	return &RebalanceStartedEvent{
		BaseEvent:       newBase(TypeRebalanceStarted, gameID, runID),
		Participants:    participants,
		MaxParticipants: maxParticipants,
	}
}

// ParticipantsClassifiedEvent reports the human/AI split
type ParticipantsClassifiedEvent struct {
	BaseEvent
	Humans int `json:"humans"`
	AIs    int `json:"ais"`
}

func NewParticipantsClassifiedEvent(gameID, runID string, humans, ais int) *ParticipantsClassifiedEvent {
	return &ParticipantsClassifiedEvent{
		BaseEvent: newBase(TypeParticipantsClassified, gameID, runID),
		Humans:    humans,
		AIs:       ais,
	}
}

// RebalanceSkippedEvent is published when the game does not qualify
type RebalanceSkippedEvent struct {
	BaseEvent
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func NewRebalanceSkippedEvent(gameID, runID, status, reason string) *RebalanceSkippedEvent {
	return &RebalanceSkippedEvent{
		BaseEvent: newBase(TypeRebalanceSkipped, gameID, runID),
		Status:    status,
		Reason:    reason,
	}
}

// SubsetSelectedEvent carries the winning combination
type SubsetSelectedEvent struct {
	BaseEvent
	Members     []Member `json:"members"`
	MinDistance int      `json:"min_distance"`
	SumDistance int      `json:"sum_distance"`
	Enumerated  int      `json:"enumerated"`
	Rejected    int      `json:"rejected"`
	Queries     int      `json:"distance_queries"`
}

func NewSubsetSelectedEvent(gameID, runID string, members []Member, minDist, sumDist, enumerated, rejected, queries int) *SubsetSelectedEvent {
	return &SubsetSelectedEvent{
		BaseEvent:   newBase(TypeSubsetSelected, gameID, runID),
		Members:     members,
		MinDistance: minDist,
		SumDistance: sumDist,
		Enumerated:  enumerated,
		Rejected:    rejected,
		Queries:     queries,
	}
}

// TieBreakAppliedEvent is published when the sum tie-break decided the winner
type TieBreakAppliedEvent struct {
	BaseEvent
	TieBreaks   int `json:"tie_breaks"`
	Ties        int `json:"ties"`
	MinDistance int `json:"min_distance"`
	SumDistance int `json:"sum_distance"`
}

func NewTieBreakAppliedEvent(gameID, runID string, tieBreaks, ties, minDist, sumDist int) *TieBreakAppliedEvent {
	return &TieBreakAppliedEvent{
		BaseEvent:   newBase(TypeTieBreakApplied, gameID, runID),
		TieBreaks:   tieBreaks,
		Ties:        ties,
		MinDistance: minDist,
		SumDistance: sumDist,
	}
}

// SwapPlannedEvent reports how many swaps the plan holds
type SwapPlannedEvent struct {
	BaseEvent
	Count         int `json:"count"`
	AlreadyPlaced int `json:"already_placed"`
}

func NewSwapPlannedEvent(gameID, runID string, count, alreadyPlaced int) *SwapPlannedEvent {
	return &SwapPlannedEvent{
		BaseEvent:     newBase(TypeSwapPlanned, gameID, runID),
		Count:         count,
		AlreadyPlaced: alreadyPlaced,
	}
}

// SwapAppliedEvent describes one executed swap
type SwapAppliedEvent struct {
	BaseEvent
	Index     int                `json:"index"`
	HumanID   core.ParticipantID `json:"human_id"`
	OtherID   core.ParticipantID `json:"other_id"`
	HumanFrom core.PositionID    `json:"human_from"`
	HumanTo   core.PositionID    `json:"human_to"`
}

func NewSwapAppliedEvent(gameID, runID string, index int, humanID, otherID core.ParticipantID, from, to core.PositionID) *SwapAppliedEvent {
	return &SwapAppliedEvent{
		BaseEvent: newBase(TypeSwapApplied, gameID, runID),
		Index:     index,
		HumanID:   humanID,
		OtherID:   otherID,
		HumanFrom: from,
		HumanTo:   to,
	}
}

// RebalanceCompletedEvent closes every run that reached the optimizer and
// applied its plan in full
type RebalanceCompletedEvent struct {
	BaseEvent
	Status   string        `json:"status"`
	Swaps    int           `json:"swaps"`
	DryRun   bool          `json:"dry_run"`
	Duration time.Duration `json:"duration"`
}

func NewRebalanceCompletedEvent(gameID, runID, status string, swaps int, dryRun bool, d time.Duration) *RebalanceCompletedEvent {
	return &RebalanceCompletedEvent{
		BaseEvent: newBase(TypeRebalanceCompleted, gameID, runID),
		Status:    status,
		Swaps:     swaps,
		DryRun:    dryRun,
		Duration:  d,
	}
}
