// Package snapshot reads a game's participant placement from JSON.
//
// A snapshot looks like
//
//	{
//	  "game_id": "g-1",
//	  "participants": [{"id": 1, "name": "ana", "human": true, "position": 10}],
//	  "positions": [{"id": 10, "x": 3, "y": 4}],
//	  "distances": [{"a": 10, "b": 11, "d": 7}]
//	}
//
// When distances is present it is the distance table; otherwise positions
// are measured by Manhattan distance between their coordinates.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/distance"
)

var ErrMalformed = errors.New("malformed snapshot")

// Snapshot is one parsed game placement
type Snapshot struct {
	GameID string
	Roster core.Roster
	Coords map[core.PositionID]core.Coordinate
	// Distances is nil when the document carried no distance table
	Distances *distance.Matrix
}

// Oracle returns the distance table if one was given, else Manhattan distance
func (s *Snapshot) Oracle() core.DistanceOracle {
	if s.Distances != nil {
		return s.Distances
	}
	return distance.NewManhattan(s.Coords)
}

// Parse reads and validates a snapshot document
func Parse(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON: %w", ErrMalformed)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("document is not an object: %w", ErrMalformed)
	}

	s := &Snapshot{
		GameID: doc.Get("game_id").String(),
		Coords: make(map[core.PositionID]core.Coordinate),
	}

	participants := doc.Get("participants")
	if !participants.IsArray() {
		return nil, fmt.Errorf("participants must be an array: %w", ErrMalformed)
	}
	for i, v := range participants.Array() {
		p, err := parseParticipant(v)
		if err != nil {
			return nil, fmt.Errorf("participants[%d]: %w", i, err)
		}
		s.Roster = append(s.Roster, p)
	}
	if err := s.Roster.Validate(); err != nil {
		return nil, err
	}

	if positions := doc.Get("positions"); positions.Exists() {
		if err := s.parsePositions(positions); err != nil {
			return nil, err
		}
	}

	if distances := doc.Get("distances"); distances.Exists() {
		if err := s.parseDistances(distances); err != nil {
			return nil, err
		}
	}

	if err := s.checkCoverage(); err != nil {
		return nil, err
	}
	return s, nil
}

func requireInt(v gjson.Result, field string) (int, error) {
	f := v.Get(field)
	if f.Type != gjson.Number {
		return 0, fmt.Errorf("%s must be a number: %w", field, ErrMalformed)
	}
	if f.Num != float64(int64(f.Num)) {
		return 0, fmt.Errorf("%s must be an integer: %w", field, ErrMalformed)
	}
	return int(f.Int()), nil
}

func parseParticipant(v gjson.Result) (*core.Participant, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("not an object: %w", ErrMalformed)
	}
	id, err := requireInt(v, "id")
	if err != nil {
		return nil, err
	}
	pos, err := requireInt(v, "position")
	if err != nil {
		return nil, err
	}
	return &core.Participant{
		ID:       core.ParticipantID(id),
		Name:     v.Get("name").String(),
		Human:    v.Get("human").Bool(),
		Position: core.PositionID(pos),
	}, nil
}

func (s *Snapshot) parsePositions(positions gjson.Result) error {
	if !positions.IsArray() {
		return fmt.Errorf("positions must be an array: %w", ErrMalformed)
	}
	for i, v := range positions.Array() {
		var xyz [3]int
		for j, field := range []string{"id", "x", "y"} {
			n, err := requireInt(v, field)
			if err != nil {
				return fmt.Errorf("positions[%d]: %w", i, err)
			}
			xyz[j] = n
		}
		id := core.PositionID(xyz[0])
		if _, dup := s.Coords[id]; dup {
			return fmt.Errorf("positions[%d]: position %d listed twice: %w", i, id, ErrMalformed)
		}
		s.Coords[id] = core.Coordinate{X: xyz[1], Y: xyz[2]}
	}
	return nil
}

func (s *Snapshot) parseDistances(distances gjson.Result) error {
	if !distances.IsArray() {
		return fmt.Errorf("distances must be an array: %w", ErrMalformed)
	}
	s.Distances = distance.NewMatrix()
	for i, v := range distances.Array() {
		var abd [3]int
		for j, field := range []string{"a", "b", "d"} {
			n, err := requireInt(v, field)
			if err != nil {
				return fmt.Errorf("distances[%d]: %w", i, err)
			}
			abd[j] = n
		}
		if err := s.Distances.Set(core.PositionID(abd[0]), core.PositionID(abd[1]), abd[2]); err != nil {
			return fmt.Errorf("distances[%d]: %w", i, err)
		}
	}
	return nil
}

// checkCoverage makes sure every pair of occupied positions can be measured
func (s *Snapshot) checkCoverage() error {
	occupied := make([]core.PositionID, len(s.Roster))
	for i, p := range s.Roster {
		occupied[i] = p.Position
	}

	if s.Distances != nil {
		return s.Distances.Complete(occupied)
	}
	for _, p := range s.Roster {
		if _, ok := s.Coords[p.Position]; !ok {
			return fmt.Errorf("participant %d sits on position %d with no coordinates: %w",
				p.ID, p.Position, core.ErrUnknownPosition)
		}
	}
	return nil
}

type participantJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Human    bool   `json:"human"`
	Position int    `json:"position"`
}

type positionJSON struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

type documentJSON struct {
	GameID       string            `json:"game_id,omitempty"`
	Participants []participantJSON `json:"participants"`
	Positions    []positionJSON    `json:"positions,omitempty"`
}

// FromBoard builds a coordinate snapshot of a generated board and its roster
func FromBoard(gameID string, b *core.Board, roster core.Roster) *Snapshot {
	s := &Snapshot{
		GameID: gameID,
		Roster: roster,
		Coords: make(map[core.PositionID]core.Coordinate, len(roster)),
	}
	for _, p := range roster {
		s.Coords[p.Position] = b.Coord(p.Position)
	}
	return s
}

// MarshalJSON writes the snapshot in the document form Parse reads.
// The distance table is not written; positions follow participant order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	doc := documentJSON{GameID: s.GameID}
	seen := make(map[core.PositionID]bool, len(s.Roster))
	for _, p := range s.Roster {
		doc.Participants = append(doc.Participants, participantJSON{
			ID:       int(p.ID),
			Name:     p.Name,
			Human:    p.Human,
			Position: int(p.Position),
		})
		if c, ok := s.Coords[p.Position]; ok && !seen[p.Position] {
			seen[p.Position] = true
			doc.Positions = append(doc.Positions, positionJSON{ID: int(p.Position), X: c.X, Y: c.Y})
		}
	}
	return json.Marshal(doc)
}
