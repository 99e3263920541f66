package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, address string) (Team, bool, error)
	Save(ctx context.Context, t Team) error
	ListByLeague(ctx context.Context, league string) ([]Team, error)
}
