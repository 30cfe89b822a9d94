// Package store records rebalance runs so a game's setup history can be audited.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Move is one executed (or, in a dry run, planned) position swap
type Move struct {
	HumanID int `json:"human_id"`
	OtherID int `json:"other_id"`
	From    int `json:"from"`
	To      int `json:"to"`
}

// RunRecord is the persisted summary of one rebalance run
type RunRecord struct {
	RunID        string
	GameID       string
	Status       string
	Reason       string
	Participants int
	Humans       int
	MinDistance  int
	SumDistance  int
	Enumerated   int
	Rejected     int
	DryRun       bool
	Duration     time.Duration
	Moves        []Move
	CreatedAt    time.Time
}

// Recorder persists rebalance runs
type Recorder interface {
	// SaveRun stores one run. Saving the same run ID twice is an error.
	SaveRun(ctx context.Context, rec RunRecord) error
	// ListRuns returns the runs of a game, oldest first.
	ListRuns(ctx context.Context, gameID string) ([]RunRecord, error)
	// Close releases database resources.
	Close() error
}

func encodeMoves(moves []Move) (string, error) {
	if moves == nil {
		moves = []Move{}
	}
	b, err := json.Marshal(moves)
	if err != nil {
		return "", fmt.Errorf("encode moves: %w", err)
	}
	return string(b), nil
}

func decodeMoves(s string) ([]Move, error) {
	var moves []Move
	if err := json.Unmarshal([]byte(s), &moves); err != nil {
		return nil, fmt.Errorf("decode moves: %w", err)
	}
	return moves, nil
}
