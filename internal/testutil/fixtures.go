package testutil

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/distance"
)

// MakeRoster builds a roster from a pattern such as "HAAH": H is a human,
// anything else an AI. Participant i gets ID i+1 and position i.
func MakeRoster(pattern string) core.Roster {
	r := make(core.Roster, len(pattern))
	for i, ch := range pattern {
		r[i] = &core.Participant{
			ID:       core.ParticipantID(i + 1),
			Name:     fmt.Sprintf("P%d", i+1),
			Human:    ch == 'H',
			Position: core.PositionID(i),
		}
	}
	return r
}

// MatrixFromRows builds a distance table for positions 0..n-1 from the upper
// triangle of rows. rows[i][j] is read for j > i only.
func MatrixFromRows(rows [][]int) *distance.Matrix {
	m := distance.NewMatrix()
	for i := range rows {
		for j := i + 1; j < len(rows[i]); j++ {
			if err := m.Set(core.PositionID(i), core.PositionID(j), rows[i][j]); err != nil {
				panic(err)
			}
		}
	}
	return m
}

// PointsOracle places positions 0..n-1 at the given coordinates
func PointsOracle(points ...core.Coordinate) *distance.Manhattan {
	coords := make(map[core.PositionID]core.Coordinate, len(points))
	for i, c := range points {
		coords[core.PositionID(i)] = c
	}
	return distance.NewManhattan(coords)
}

// RandomMatrix returns a symmetric table over n positions with distances in [0, maxDist]
func RandomMatrix(rng *rand.Rand, n, maxDist int) *distance.Matrix {
	m := distance.NewMatrix()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			_ = m.Set(core.PositionID(i), core.PositionID(j), rng.Intn(maxDist+1))
		}
	}
	return m
}
