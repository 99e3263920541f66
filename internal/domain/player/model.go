package player

import (
	"fmt"
	"strings"
)

// Position is a slot on a team roster.
type Position string

const (
	PositionRB  Position = "RB"
	PositionQB  Position = "QB"
	PositionWR1 Position = "WR1"
	PositionWR2 Position = "WR2"
	PositionCO  Position = "CO"
	PositionGL  Position = "GL"
	PositionGR  Position = "GR"
	PositionS   Position = "S"
	PositionCB1 Position = "CB1"
	PositionCB2 Position = "CB2"
	PositionLB  Position = "LB"
	PositionCD  Position = "CD"
	PositionTR  Position = "TR"
	PositionTL  Position = "TL"
)

var AllPositions = map[Position]struct{}{
	PositionRB: {}, PositionQB: {}, PositionWR1: {}, PositionWR2: {},
	PositionCO: {}, PositionGL: {}, PositionGR: {},
	PositionS: {}, PositionCB1: {}, PositionCB2: {}, PositionLB: {},
	PositionCD: {}, PositionTR: {}, PositionTL: {},
}

var offense = map[Position]struct{}{
	PositionRB: {}, PositionQB: {}, PositionWR1: {}, PositionWR2: {},
	PositionCO: {}, PositionGL: {}, PositionGR: {},
}

func (p Position) Offense() bool {
	_, ok := offense[p]
	return ok
}

// Player is a registered player name. AssignedTeam is the team contract that
// registered it.
type Player struct {
	Address      string   `json:"address" validate:"required"`
	FirstName    string   `json:"first_name" validate:"required"`
	LastName     string   `json:"last_name" validate:"required"`
	Position     Position `json:"position" validate:"required"`
	AssignedTeam string   `json:"assigned_team,omitempty"`
}

func (p Player) Validate() error {
	if p.Address == "" {
		return fmt.Errorf("player address is required")
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("player first and last name are required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}

// NameKey is the case-insensitive identity of a player name.
func NameKey(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName)) + " " + strings.ToLower(strings.TrimSpace(lastName))
}

func (p Player) NameKey() string {
	return NameKey(p.FirstName, p.LastName)
}
