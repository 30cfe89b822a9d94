package spread

import (
	"fmt"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// DefaultMaxParticipants bounds C(n,k) so a full search stays instant
const DefaultMaxParticipants = 12

// Stats counts what the search did; useful for reporting only
type Stats struct {
	Enumerated   int // candidates looked at
	Rejected     int // candidates abandoned below the current best minimum
	Improvements int // times the best was replaced by a larger minimum
	TieBreaks    int // times the best was replaced on an equal minimum by a larger sum
	Ties         int // candidates equal on the minimum that kept the earlier best
}

// Result is the winning combination together with its profile
type Result struct {
	Combo   Combination
	Profile Profile
	Stats   Stats
}

// verdict is the outcome of offering a candidate to the accumulator
type verdict int

const (
	verdictKept verdict = iota
	verdictImproved
	verdictTieBroken
)

// best is the running winner of a search. The zero value has seen nothing.
type best struct {
	combo   Combination
	profile Profile
	found   bool
}

// offer applies the selection rule to one scored candidate and returns the
// new accumulator. A strictly larger minimum always wins. An equal minimum
// wins only with a strictly larger sum, so earlier candidates keep ties.
func (b best) offer(combo Combination, p Profile) (best, verdict) {
	switch {
	case !b.found || p.Min > b.profile.Min:
		return best{combo: combo, profile: p, found: true}, verdictImproved
	case p.Min == b.profile.Min && p.Sum > b.profile.Sum:
		return best{combo: combo, profile: p, found: true}, verdictTieBroken
	default:
		return b, verdictKept
	}
}

// floor is the rejection threshold for the next candidate
func (b best) floor() int {
	return b.profile.Min
}

// Optimizer searches for the most spread-out k-subset of participants
type Optimizer struct {
	oracle          core.DistanceOracle
	maxParticipants int
}

// NewOptimizer creates an optimizer. maxParticipants <= 0 selects the default cap.
func NewOptimizer(oracle core.DistanceOracle, maxParticipants int) *Optimizer {
	if maxParticipants <= 0 {
		maxParticipants = DefaultMaxParticipants
	}
	return &Optimizer{oracle: oracle, maxParticipants: maxParticipants}
}

// MaxParticipants returns the participant cap this optimizer enforces
func (o *Optimizer) MaxParticipants() int {
	return o.maxParticipants
}

// FindMostDistantSubset returns the k participants whose positions are the
// most spread out. The search covers all participants regardless of whether
// they are human. Violated preconditions (k < 2, k > n, n over the cap) panic:
// callers are expected to have filtered those cases out.
func (o *Optimizer) FindMostDistantSubset(all []*core.Participant, k int) Result {
	n := len(all)
	switch {
	case n > o.maxParticipants:
		panic(fmt.Sprintf("spread: %d participants exceeds cap of %d", n, o.maxParticipants))
	case k < 2:
		panic(fmt.Sprintf("spread: subset size %d is below 2", k))
	case k > n:
		panic(fmt.Sprintf("spread: subset size %d exceeds %d participants", k, n))
	}

	if k == 2 {
		return o.farthestPair(all)
	}
	return o.search(all, k)
}

// farthestPair scans every pair i < j once. The first pair reaching a given
// maximum distance keeps it.
func (o *Optimizer) farthestPair(all []*core.Participant) Result {
	var (
		stats    Stats
		bestI    = -1
		bestJ    = -1
		bestDist = -1
	)

	for i := 0; i < len(all)-1; i++ {
		for j := i + 1; j < len(all); j++ {
			stats.Enumerated++
			d := o.oracle.Distance(all[i].Position, all[j].Position)
			switch {
			case d > bestDist:
				bestI, bestJ, bestDist = i, j, d
				stats.Improvements++
			case d == bestDist:
				stats.Ties++
			}
		}
	}

	return Result{
		Combo:   Combination{all[bestI], all[bestJ]},
		Profile: Profile{Min: bestDist, Sum: bestDist},
		Stats:   stats,
	}
}

// search enumerates all k-subsets in lexicographic order, scoring each one
// against the best minimum seen so far.
func (o *Optimizer) search(all []*core.Participant, k int) Result {
	var (
		stats Stats
		acc   best
	)
	scratch := make(Combination, k)

	EachIndexCombination(len(all), k, func(idx []int) bool {
		stats.Enumerated++
		for i, j := range idx {
			scratch[i] = all[j]
		}

		p, ok := Score(scratch, acc.floor(), o.oracle)
		if !ok {
			stats.Rejected++
			return true
		}

		var v verdict
		acc, v = acc.offer(scratch, p)
		switch v {
		case verdictImproved:
			stats.Improvements++
			acc.combo = scratch.Clone()
		case verdictTieBroken:
			stats.TieBreaks++
			acc.combo = scratch.Clone()
		default:
			if p.Min == acc.profile.Min {
				stats.Ties++
			}
		}
		return true
	})

	if !acc.found {
		panic("spread: enumeration produced no combination")
	}

	return Result{Combo: acc.combo, Profile: acc.profile, Stats: stats}
}
