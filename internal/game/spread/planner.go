package spread

import (
	"fmt"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// Plan pairs the i-th remaining human with the i-th remaining target occupant.
// Both sides must have the same length; anything else means the target set
// and the human set were not built from the same roster.
func Plan(remainingTargets, remainingHumans []*core.Participant) ([]core.SwapInstruction, error) {
	if len(remainingTargets) != len(remainingHumans) {
		return nil, fmt.Errorf("%d targets vs %d humans: %w",
			len(remainingTargets), len(remainingHumans), core.ErrUnbalancedReconciliation)
	}

	swaps := make([]core.SwapInstruction, 0, len(remainingHumans))
	for i, h := range remainingHumans {
		swaps = append(swaps, core.SwapInstruction{Human: h, Other: remainingTargets[i]})
	}
	return swaps, nil
}
