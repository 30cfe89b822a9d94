package distance

import "github.com/mitchelldurbincs/spreadstarts/internal/game/core"

// Counting wraps an oracle and counts how many queries reach it
type Counting struct {
	inner core.DistanceOracle
	calls int
}

func NewCounting(inner core.DistanceOracle) *Counting {
	return &Counting{inner: inner}
}

func (c *Counting) Distance(a, b core.PositionID) int {
	c.calls++
	return c.inner.Distance(a, b)
}

// Calls returns the number of queries so far
func (c *Counting) Calls() int { return c.calls }

// Reset zeroes the query counter
func (c *Counting) Reset() { c.calls = 0 }
