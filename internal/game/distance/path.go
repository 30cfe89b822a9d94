package distance

import (
	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// Path measures the length of the shortest orthogonal walk between two tiles
// that never steps onto a mountain. Results are memoized per source tile.
// Pairs with no walk between them score W*H, farther than any real walk.
// Not safe for concurrent use.
type Path struct {
	board *core.Board
	memo  map[core.PositionID][]int
}

func NewPath(b *core.Board) *Path {
	return &Path{board: b, memo: make(map[core.PositionID][]int)}
}

func (p *Path) Distance(a, b core.PositionID) int {
	if a == b {
		return 0
	}
	// Symmetric, so reuse whichever source is already expanded
	if dist, ok := p.memo[b]; ok {
		return p.lookup(dist, a)
	}
	return p.lookup(p.from(a), b)
}

// Unreachable is the score given to pairs with no connecting walk
func (p *Path) Unreachable() int {
	return p.board.W * p.board.H
}

func (p *Path) lookup(dist []int, to core.PositionID) int {
	if d := dist[to]; d >= 0 {
		return d
	}
	return p.Unreachable()
}

// from runs a breadth-first flood from src. Unvisited tiles hold -1.
func (p *Path) from(src core.PositionID) []int {
	if dist, ok := p.memo[src]; ok {
		return dist
	}

	b := p.board
	dist := make([]int, len(b.T))
	for i := range dist {
		dist[i] = -1
	}
	dist[src] = 0

	queue := []core.PositionID{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range b.Coord(cur).Steps(b.W, b.H) {
			idx := core.PositionID(next.ToIndex(b.W))
			if dist[idx] >= 0 || !b.Walkable(idx) {
				continue
			}
			dist[idx] = dist[cur] + 1
			queue = append(queue, idx)
		}
	}

	p.memo[src] = dist
	return dist
}
