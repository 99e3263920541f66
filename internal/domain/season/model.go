package season

import (
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

const (
	// PriorToSeasonStartPadding is how long before the start a team must ask to join.
	PriorToSeasonStartPadding = 900 * time.Second
	MaxTeamsAllowed           = 300
)

type AccessKind string

const (
	AccessOpen          AccessKind = "open"
	AccessWinnerTakeAll AccessKind = "winner_take_all"
)

// AccessType describes how a team pays into a season. Stake is set for
// winner-take-all seasons only.
type AccessType struct {
	Kind  AccessKind `json:"kind" validate:"required,oneof=open winner_take_all"`
	Stake *coin.Coin `json:"stake,omitempty"`
}

func (a AccessType) IsWinnerTakeAll() bool {
	return a.Kind == AccessWinnerTakeAll
}

type StatusKind string

const (
	StatusActive    StatusKind = "active"
	StatusPrivate   StatusKind = "private"
	StatusCancelled StatusKind = "cancelled"
)

type Status struct {
	Kind        StatusKind `json:"kind" validate:"required,oneof=active private cancelled"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func Active() *Status {
	return &Status{Kind: StatusActive}
}

func Cancelled(at time.Time) *Status {
	return &Status{Kind: StatusCancelled, CancelledAt: &at}
}

// Season is a bounded competition window owned by a league.
type Season struct {
	ID              uint64      `json:"id"`
	League          string      `json:"league"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	StartDate       time.Time   `json:"start_date"`
	EndDate         time.Time   `json:"end_date"`
	AccessType      *AccessType `json:"access_type,omitempty"`
	Status          *Status     `json:"status,omitempty"`
	MaxTeamsAllowed uint32      `json:"max_teams_allowed"`
}

// LedgerEntry is one escrowed stake for a winner-take-all season.
// WithdrawalDistributionDate is set once the deposit has been paid back out.
type LedgerEntry struct {
	ID                         uint64     `json:"id"`
	SeasonID                   uint64     `json:"season_id"`
	League                     string     `json:"league"`
	Team                       string     `json:"team"`
	DepositAmount              coin.Coin  `json:"deposit_amount"`
	DepositDate                time.Time  `json:"deposit_date"`
	WithdrawalDistributionDate *time.Time `json:"withdrawal_distribution_date,omitempty"`
}

func (e LedgerEntry) Paid() bool {
	return e.WithdrawalDistributionDate != nil
}

// Filter selects seasons relative to the current block time.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterUpcoming Filter = "upcoming"
	FilterActive   Filter = "active"
	FilterPast     Filter = "past"
)
