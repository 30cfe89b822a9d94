package distance

import (
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

var ErrNegativeDistance = errors.New("distance must be non-negative")

type pair struct{ a, b core.PositionID }

func orderedPair(a, b core.PositionID) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// Matrix is an explicit symmetric distance table. A position is always at
// distance 0 from itself.
type Matrix struct {
	d map[pair]int
}

func NewMatrix() *Matrix {
	return &Matrix{d: make(map[pair]int)}
}

// Set records the distance between a and b in both directions
func (m *Matrix) Set(a, b core.PositionID, d int) error {
	if d < 0 {
		return fmt.Errorf("%d-%d = %d: %w", a, b, d, ErrNegativeDistance)
	}
	m.d[orderedPair(a, b)] = d
	return nil
}

// Has reports whether a distance is known for a and b
func (m *Matrix) Has(a, b core.PositionID) bool {
	if a == b {
		return true
	}
	_, ok := m.d[orderedPair(a, b)]
	return ok
}

// Complete returns the first pair among positions with no recorded distance
func (m *Matrix) Complete(positions []core.PositionID) error {
	for i := 0; i < len(positions)-1; i++ {
		for j := i + 1; j < len(positions); j++ {
			if !m.Has(positions[i], positions[j]) {
				return fmt.Errorf("no distance for %d-%d: %w", positions[i], positions[j], core.ErrUnknownPosition)
			}
		}
	}
	return nil
}

func (m *Matrix) Distance(a, b core.PositionID) int {
	if a == b {
		return 0
	}
	d, ok := m.d[orderedPair(a, b)]
	if !ok {
		panic(fmt.Sprintf("distance: pair %d-%d: %v", a, b, core.ErrUnknownPosition))
	}
	return d
}
