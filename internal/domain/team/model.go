package team

import (
	"fmt"
	"time"
)

// LeagueAssignment records which league a team currently plays in.
type LeagueAssignment struct {
	League       string    `json:"league"`
	AssignedDate time.Time `json:"assigned_date"`
}

// Team is the manager's record of a team contract.
type Team struct {
	Address        string            `json:"address"`
	Name           string            `json:"name"`
	Owner          string            `json:"owner"`
	Created        time.Time         `json:"created"`
	LeagueAssigned *LeagueAssignment `json:"league_assigned,omitempty"`
}

func (t Team) Validate() error {
	if t.Address == "" {
		return fmt.Errorf("team address is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Owner == "" {
		return fmt.Errorf("team owner is required")
	}

	return nil
}
