package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"small board", 5, 5},
		{"rectangular board", 10, 20},
		{"minimum board", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard(tt.width, tt.height)

			assert.Equal(t, tt.width, board.W)
			assert.Equal(t, tt.height, board.H)
			require.Len(t, board.T, tt.width*tt.height)
			for i, tile := range board.T {
				assert.True(t, tile.IsFree(), "tile %d should start free", i)
			}
		})
	}
}

func TestBoard_IdxXY(t *testing.T) {
	board := NewBoard(5, 4)
	for idx := range board.T {
		x, y := board.XY(idx)
		assert.Equal(t, idx, board.Idx(x, y))
		assert.Equal(t, Coordinate{x, y}, board.Coord(PositionID(idx)))
	}
}

func TestBoard_GetTile(t *testing.T) {
	board := NewBoard(3, 3)
	require.NotNil(t, board.GetTile(2, 2))
	assert.Nil(t, board.GetTile(3, 0))
	assert.Nil(t, board.GetTile(0, -1))

	board.GetTile(1, 1).Type = TileMountain
	assert.True(t, board.T[board.Idx(1, 1)].IsMountain())
}

func TestBoard_ClaimAndStartOwner(t *testing.T) {
	board := NewBoard(4, 4)
	pos := PositionID(board.Idx(2, 3))

	assert.Equal(t, NeutralID, board.StartOwner(pos))
	board.Claim(pos, 7)
	assert.Equal(t, ParticipantID(7), board.StartOwner(pos))
	assert.True(t, board.T[pos].IsStart())
	assert.False(t, board.T[pos].IsFree())

	assert.Equal(t, NeutralID, board.StartOwner(-1))
	assert.Equal(t, NeutralID, board.StartOwner(PositionID(len(board.T))))
}

func TestBoard_Walkable(t *testing.T) {
	board := NewBoard(3, 1)
	board.T[1].Type = TileMountain

	assert.True(t, board.Walkable(0))
	assert.False(t, board.Walkable(1))
	assert.True(t, board.Walkable(2))
	assert.False(t, board.Walkable(3), "out of range is never walkable")
}

func TestBoard_Distance(t *testing.T) {
	board := NewBoard(10, 10)
	assert.Equal(t, 0, board.Distance(4, 4, 4, 4))
	assert.Equal(t, 7, board.Distance(0, 0, 3, 4))
	assert.Equal(t, board.Distance(1, 8, 6, 2), board.Distance(6, 2, 1, 8))
}

func TestBoard_Render(t *testing.T) {
	board := NewBoard(3, 2)
	board.T[board.Idx(1, 0)].Type = TileMountain
	board.Claim(PositionID(board.Idx(0, 1)), 0)
	board.Claim(PositionID(board.Idx(2, 1)), 1)

	out := board.Render(func(id ParticipantID) byte { return byte('A' + id) })
	assert.Equal(t, ".^.\nA.B\n", out)
}
