package core

import "strings"

// Tile represents a single cell on the map.
// Owner: -1 means unclaimed; otherwise the participant whose start sits here.
// Type - 0 = normal, 1 = start, 2 = mountain.
type Tile struct {
	Owner ParticipantID
	Type  int
}

type Board struct {
	W, H int
	T    []Tile // length = W*H (row-major)
}

const (
	TileNormal   = 0
	TileStart    = 1
	TileMountain = 2

	NeutralID ParticipantID = -1
)

func (t *Tile) IsNeutral() bool  { return t.Owner == NeutralID }
func (t *Tile) IsStart() bool    { return t.Type == TileStart }
func (t *Tile) IsMountain() bool { return t.Type == TileMountain }
func (t *Tile) IsFree() bool     { return t.IsNeutral() && t.Type == TileNormal }

func NewBoard(w, h int) *Board {
	b := &Board{W: w, H: h, T: make([]Tile, w*h)}
	for i := range b.T {
		b.T[i].Owner = NeutralID
		b.T[i].Type = TileNormal
	}
	return b
}

func (b *Board) Idx(x, y int) int      { return y*b.W + x }
func (b *Board) XY(idx int) (int, int) { return idx % b.W, idx / b.W }

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// GetTile safely returns a tile pointer if coordinates are valid, nil otherwise
func (b *Board) GetTile(x, y int) *Tile {
	if !b.InBounds(x, y) {
		return nil
	}
	return &b.T[b.Idx(x, y)]
}

// Coord returns the board coordinate of a position
func (b *Board) Coord(pos PositionID) Coordinate {
	return FromIndex(int(pos), b.W)
}

// Walkable reports whether a position can be crossed on foot
func (b *Board) Walkable(pos PositionID) bool {
	return int(pos) >= 0 && int(pos) < len(b.T) && !b.T[pos].IsMountain()
}

// Distance is the Manhattan distance between two tiles
func (b *Board) Distance(x1, y1, x2, y2 int) int {
	return abs(x1-x2) + abs(y1-y2)
}

// Claim marks a position as the start of a participant
func (b *Board) Claim(pos PositionID, owner ParticipantID) {
	t := &b.T[pos]
	t.Type = TileStart
	t.Owner = owner
}

// StartOwner returns who currently starts on pos, or NeutralID
func (b *Board) StartOwner(pos PositionID) ParticipantID {
	if int(pos) < 0 || int(pos) >= len(b.T) || !b.T[pos].IsStart() {
		return NeutralID
	}
	return b.T[pos].Owner
}

// Render draws the board using one character per tile.
// Starts are drawn with the glyph returned by label for their owner.
func (b *Board) Render(label func(ParticipantID) byte) string {
	var sb strings.Builder
	sb.Grow((b.W + 1) * b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			t := b.T[b.Idx(x, y)]
			switch {
			case t.IsMountain():
				sb.WriteByte('^')
			case t.IsStart():
				sb.WriteByte(label(t.Owner))
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
