package core

import "fmt"

// Coordinate is a tile location on a board
type Coordinate struct {
	X, Y int
}

// FromIndex converts a row-major tile index back into a coordinate
func FromIndex(idx, width int) Coordinate {
	return Coordinate{X: idx % width, Y: idx / width}
}

// ToIndex is the inverse of FromIndex
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// DistanceTo is the Manhattan distance between two coordinates
func (c Coordinate) DistanceTo(other Coordinate) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

// Steps returns the orthogonal neighbours (N, E, S, W) that lie inside the bounds
func (c Coordinate) Steps(width, height int) []Coordinate {
	steps := make([]Coordinate, 0, 4)
	for _, d := range [4]Coordinate{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		n := Coordinate{X: c.X + d.X, Y: c.Y + d.Y}
		if n.IsValid(width, height) {
			steps = append(steps, n)
		}
	}
	return steps
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
