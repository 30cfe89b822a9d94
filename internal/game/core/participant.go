package core

import (
	"fmt"
	"strings"
)

// ParticipantID identifies one actor in a game session
type ParticipantID int

// PositionID identifies a start slot. On a generated board it is the tile index.
type PositionID int

// Participant is one human- or AI-controlled actor bound to a start position
type Participant struct {
	ID       ParticipantID
	Name     string
	Human    bool
	Position PositionID
}

func (p *Participant) String() string {
	kind := "ai"
	if p.Human {
		kind = "human"
	}
	if p.Name != "" {
		return fmt.Sprintf("%s#%d(%s@%d)", p.Name, p.ID, kind, p.Position)
	}
	return fmt.Sprintf("#%d(%s@%d)", p.ID, kind, p.Position)
}

// DistanceOracle measures how far apart two positions are.
// Implementations must be deterministic, symmetric and non-negative.
type DistanceOracle interface {
	Distance(a, b PositionID) int
}

// OracleFunc adapts a plain function to DistanceOracle
type OracleFunc func(a, b PositionID) int

func (f OracleFunc) Distance(a, b PositionID) int { return f(a, b) }

// SwapInstruction exchanges the positions of a human and the participant
// currently sitting on a position the human should take.
type SwapInstruction struct {
	Human *Participant
	Other *Participant
}

func (s SwapInstruction) String() string {
	return fmt.Sprintf("%s <-> %s", s.Human, s.Other)
}

// Roster is the ordered participant list for one run, in engine order
type Roster []*Participant

// Humans returns the human participants in roster order
func (r Roster) Humans() []*Participant {
	out := make([]*Participant, 0, len(r))
	for _, p := range r {
		if p.Human {
			out = append(out, p)
		}
	}
	return out
}

// CountHumans returns the number of human and AI participants
func (r Roster) CountHumans() (humans, ais int) {
	for _, p := range r {
		if p.Human {
			humans++
		} else {
			ais++
		}
	}
	return humans, ais
}

// Find returns the participant with the given ID
func (r Roster) Find(id ParticipantID) (*Participant, bool) {
	for _, p := range r {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Validate checks that IDs are unique and that the participant to position
// mapping is a bijection.
func (r Roster) Validate() error {
	if len(r) == 0 {
		return ErrEmptyRoster
	}
	ids := make(map[ParticipantID]struct{}, len(r))
	positions := make(map[PositionID]ParticipantID, len(r))
	for _, p := range r {
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("participant %d: %w", p.ID, ErrDuplicateParticipant)
		}
		ids[p.ID] = struct{}{}
		if other, dup := positions[p.Position]; dup {
			return fmt.Errorf("position %d held by %d and %d: %w", p.Position, other, p.ID, ErrDuplicatePosition)
		}
		positions[p.Position] = p.ID
	}
	return nil
}

// Clone deep-copies the roster so a dry run cannot touch the caller's state
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for i, p := range r {
		cp := *p
		out[i] = &cp
	}
	return out
}

// Format renders participants as a compact comma separated list
func Format(ps []*Participant) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
