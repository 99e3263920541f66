package messaging

import (
	"context"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
)

// Repository is the invite ledger. Counts are derived from it on every read.
type Repository interface {
	Get(ctx context.Context, id uint64) (JoinRequest, bool, error)
	Save(ctx context.Context, req JoinRequest) error
	ListBySender(ctx context.Context, assetType asset.Type, address string) ([]JoinRequest, error)
	ListByRecipient(ctx context.Context, assetType asset.Type, address string) ([]JoinRequest, error)
	ListBySeason(ctx context.Context, seasonID uint64) ([]JoinRequest, error)
	FindBySeasonTeamLeague(ctx context.Context, seasonID uint64, team, league string) (JoinRequest, bool, error)
}
