package spread

import "github.com/mitchelldurbincs/spreadstarts/internal/game/core"

// Reconcile drops the humans that already sit on a target position from both
// sides. What remains are the target occupants that must make room (AIs) and
// the humans that must move.
func Reconcile(target Combination, humans []*core.Participant) (remainingTargets, remainingHumans []*core.Participant) {
	isHuman := make(map[core.ParticipantID]struct{}, len(humans))
	for _, h := range humans {
		isHuman[h.ID] = struct{}{}
	}

	remainingTargets = make([]*core.Participant, 0, len(target))
	for _, p := range target {
		if _, ok := isHuman[p.ID]; !ok {
			remainingTargets = append(remainingTargets, p)
		}
	}

	remainingHumans = make([]*core.Participant, 0, len(humans))
	for _, h := range humans {
		if !target.Contains(h.ID) {
			remainingHumans = append(remainingHumans, h)
		}
	}

	return remainingTargets, remainingHumans
}
