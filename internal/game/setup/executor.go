package setup

import (
	"context"
	"fmt"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// Executor carries out one swap instruction on the host's game state
type Executor interface {
	Swap(ctx context.Context, human, other *core.Participant) error
}

// RosterExecutor exchanges the Position fields of the two participants
type RosterExecutor struct{}

func (RosterExecutor) Swap(_ context.Context, human, other *core.Participant) error {
	human.Position, other.Position = other.Position, human.Position
	return nil
}

// BoardExecutor swaps positions and moves start ownership on the board to match
type BoardExecutor struct {
	Board *core.Board
}

func (e BoardExecutor) Swap(ctx context.Context, human, other *core.Participant) error {
	hp, op := human.Position, other.Position
	if owner := e.Board.StartOwner(hp); owner != human.ID {
		return fmt.Errorf("position %d is owned by %d, not %d: %w", hp, owner, human.ID, core.ErrStaleBoard)
	}
	if owner := e.Board.StartOwner(op); owner != other.ID {
		return fmt.Errorf("position %d is owned by %d, not %d: %w", op, owner, other.ID, core.ErrStaleBoard)
	}

	if err := (RosterExecutor{}).Swap(ctx, human, other); err != nil {
		return err
	}
	e.Board.Claim(op, human.ID)
	e.Board.Claim(hp, other.ID)
	return nil
}
