package player

import "context"

// Repository is the manager's registry of player names.
type Repository interface {
	GetByName(ctx context.Context, firstName, lastName string) (Player, bool, error)
	Save(ctx context.Context, p Player) error
	ListByTeam(ctx context.Context, team string) ([]Player, error)
}
