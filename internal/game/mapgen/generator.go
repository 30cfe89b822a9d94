package mapgen

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width             int
	Height            int
	PlayerCount       int
	MinStartSpacing   int
	MountainThreshold float64 // noise value in [0,1) at or above which a tile is a mountain
	MountainFrequency float64
	Seed              int64 // 0 draws the noise seed from the generator's rng
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h, players int) MapConfig {
	return MapConfig{
		Width:             w,
		Height:            h,
		PlayerCount:       players,
		MinStartSpacing:   5,
		MountainThreshold: 0.72,
		MountainFrequency: 0.15,
	}
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// StartPlacement records where the engine put one participant
type StartPlacement struct {
	Slot int // index in placement order
	Pos  core.PositionID
	X, Y int
}

// GenerateMap creates a board with mountains and one start per player.
// Starts are left unowned; Roster binds them to participants.
func (g *Generator) GenerateMap() (*core.Board, []StartPlacement) {
	board := core.NewBoard(g.config.Width, g.config.Height)

	g.placeMountains(board)
	placements := g.placeStarts(board)

	return board, placements
}

func (g *Generator) noiseSeed() int64 {
	if g.config.Seed != 0 {
		return g.config.Seed
	}
	return g.rng.Int63()
}

func (g *Generator) placeMountains(b *core.Board) {
	if g.config.MountainThreshold >= 1 {
		return
	}
	noise := opensimplex.NewNormalized(g.noiseSeed())
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if octaveNoise(noise, float64(x), float64(y), 2, g.config.MountainFrequency, 0.5) >= g.config.MountainThreshold {
				b.T[b.Idx(x, y)].Type = core.TileMountain
			}
		}
	}
}

// octaveNoise layers frequencies of normalized noise; the result stays in [0,1)
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func (g *Generator) placeStarts(b *core.Board) []StartPlacement {
	placements := make([]StartPlacement, g.config.PlayerCount)

	for slot := 0; slot < g.config.PlayerCount; slot++ {
		placement := g.findStartLocation(b, placements[:slot])
		b.T[placement.Pos].Type = core.TileStart
		placements[slot] = placement
	}

	return placements
}

func (g *Generator) findStartLocation(b *core.Board, existing []StartPlacement) StartPlacement {
	maxAttempts := b.W * b.H

	for attempts := 0; attempts < maxAttempts; attempts++ {
		x, y := g.rng.Intn(b.W), g.rng.Intn(b.H)
		idx := b.Idx(x, y)

		if !b.T[idx].IsFree() {
			continue
		}

		validLocation := true
		for _, other := range existing {
			if b.Distance(x, y, other.X, other.Y) < g.config.MinStartSpacing {
				validLocation = false
				break
			}
		}

		if validLocation {
			return StartPlacement{Slot: len(existing), Pos: core.PositionID(idx), X: x, Y: y}
		}
	}

	// Spacing could not be honoured; take the first free tile
	for idx := range b.T {
		if b.T[idx].IsFree() {
			x, y := b.XY(idx)
			return StartPlacement{Slot: len(existing), Pos: core.PositionID(idx), X: x, Y: y}
		}
	}

	panic(fmt.Sprintf("mapgen: unable to place start %d - no free tiles", len(existing)))
}

// Roster binds participants to placements in slot order and claims their
// tiles on the board. Participant i gets ID i+1 and is human when i is in humans.
func Roster(b *core.Board, placements []StartPlacement, humans map[int]bool) core.Roster {
	roster := make(core.Roster, len(placements))
	for i, pl := range placements {
		p := &core.Participant{
			ID:       core.ParticipantID(i + 1),
			Human:    humans[i],
			Position: pl.Pos,
		}
		if p.Human {
			p.Name = fmt.Sprintf("human%d", i+1)
		} else {
			p.Name = fmt.Sprintf("bot%d", i+1)
		}
		b.Claim(pl.Pos, p.ID)
		roster[i] = p
	}
	return roster
}

// PickHumans chooses which placement slots are human controlled
func PickHumans(rng *rand.Rand, players, humans int) map[int]bool {
	if humans > players {
		humans = players
	}
	set := make(map[int]bool, humans)
	for _, slot := range rng.Perm(players)[:humans] {
		set[slot] = true
	}
	return set
}
