package engine

import "github.com/google/uuid"

// Team partition constants.
const (
	TeamPlayer = "player"
	TeamEnemy  = "enemy"
)

// Character is one combat participant. The engine owns the authoritative
// copy; the visual layer only mirrors it through bus events and never
// mutates it.
type Character struct {
	ID        int // assigned starting at 1; 0 means unassigned
	UniqueID  string
	Name      string
	Team      string
	CurrentHP int
	MaxHP     int
	Effects   []ActiveEffect
}

// ActiveEffect is the engine-side record of a status effect on a character.
type ActiveEffect struct {
	StatusID string
	Duration int
	Stacks   int
	SourceID string // UniqueID of the applier, empty when unattributed
}

// NewCharacter creates a participant with a fresh unique id and full health.
func NewCharacter(id int, name, team string, maxHP int) *Character {
	return &Character{
		ID:        id,
		UniqueID:  uuid.NewString(),
		Name:      name,
		Team:      team,
		CurrentHP: maxHP,
		MaxHP:     maxHP,
	}
}

// Alive reports whether the character has health remaining.
func (c *Character) Alive() bool {
	return c.CurrentHP > 0
}

// FindEffect returns the active effect with the given status id, or nil.
func (c *Character) FindEffect(statusID string) *ActiveEffect {
	for i := range c.Effects {
		if c.Effects[i].StatusID == statusID {
			return &c.Effects[i]
		}
	}
	return nil
}
