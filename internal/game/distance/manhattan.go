// Package distance provides DistanceOracle implementations over start positions.
package distance

import (
	"fmt"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// Manhattan measures grid distance between known position coordinates
type Manhattan struct {
	coords map[core.PositionID]core.Coordinate
}

// NewManhattan builds an oracle over an explicit position table
func NewManhattan(coords map[core.PositionID]core.Coordinate) *Manhattan {
	return &Manhattan{coords: coords}
}

// OnBoard builds a Manhattan oracle where positions are tile indices of b
func OnBoard(b *core.Board) core.DistanceOracle {
	return core.OracleFunc(func(p, q core.PositionID) int {
		return b.Coord(p).DistanceTo(b.Coord(q))
	})
}

func (m *Manhattan) Distance(a, b core.PositionID) int {
	return m.coord(a).DistanceTo(m.coord(b))
}

// Knows reports whether pos has a coordinate
func (m *Manhattan) Knows(pos core.PositionID) bool {
	_, ok := m.coords[pos]
	return ok
}

func (m *Manhattan) coord(pos core.PositionID) core.Coordinate {
	c, ok := m.coords[pos]
	if !ok {
		panic(fmt.Sprintf("distance: position %d: %v", pos, core.ErrUnknownPosition))
	}
	return c
}
