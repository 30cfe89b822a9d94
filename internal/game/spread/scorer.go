package spread

import (
	"fmt"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// Profile summarizes the pairwise distances of a combination
type Profile struct {
	Min int
	Sum int
}

// Score computes the distance profile of combo. Pairs are visited with the
// outer index ascending, then the inner index ascending. The first distance
// strictly below floor aborts scoring and ok is false; the remaining pairs
// are never queried.
func Score(combo Combination, floor int, oracle core.DistanceOracle) (p Profile, ok bool) {
	if len(combo) < 2 {
		panic(fmt.Sprintf("spread: cannot score a combination of %d", len(combo)))
	}

	first := true
	for i := 0; i < len(combo)-1; i++ {
		for j := i + 1; j < len(combo); j++ {
			d := oracle.Distance(combo[i].Position, combo[j].Position)
			if d < floor {
				return Profile{}, false
			}
			if first || d < p.Min {
				p.Min = d
				first = false
			}
			p.Sum += d
		}
	}
	return p, true
}
