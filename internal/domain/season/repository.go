package season

import (
	"context"
	"time"
)

// Repository describes season persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, id uint64) (Season, bool, error)
	Save(ctx context.Context, s Season) error
	ListByLeague(ctx context.Context, league string) ([]Season, error)
	// ListStartingAfter returns seasons whose start date is strictly after t, ordered by start.
	ListStartingAfter(ctx context.Context, t time.Time) ([]Season, error)
}

// LedgerRepository stores winner-take-all deposits.
type LedgerRepository interface {
	Save(ctx context.Context, entry LedgerEntry) error
	ListBySeason(ctx context.Context, seasonID uint64) ([]LedgerEntry, error)
	ListByTeam(ctx context.Context, team string) ([]LedgerEntry, error)
	ListUnpaid(ctx context.Context) ([]LedgerEntry, error)
}
