package kvstore

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

var joinRequests = kv.NewIndexedMap[messaging.JoinRequest]("join_requests").
	WithIndex("sender", func(_ []byte, m messaging.JoinRequest) []byte {
		return kv.Tuple(kv.Uint8(uint8(m.Delivery.From.AssetType)), kv.String(m.Delivery.From.Address))
	}).
	WithIndex("recipient", func(_ []byte, m messaging.JoinRequest) []byte {
		return kv.Tuple(kv.Uint8(uint8(m.Delivery.To.AssetType)), kv.String(m.Delivery.To.Address))
	}).
	WithIndex("season", func(_ []byte, m messaging.JoinRequest) []byte {
		return kv.Tuple(kv.Uint64(m.Data.SeasonID))
	}).
	WithIndex("season_from_to", func(_ []byte, m messaging.JoinRequest) []byte {
		return kv.Tuple(kv.Uint64(m.Data.SeasonID), kv.String(m.Delivery.From.Address), kv.String(m.Delivery.To.Address))
	})

type MessageRepository struct {
	store kv.Store
}

func NewMessageRepository(store kv.Store) *MessageRepository {
	return &MessageRepository{store: store}
}

func (r *MessageRepository) Get(_ context.Context, id uint64) (messaging.JoinRequest, bool, error) {
	m, ok, err := joinRequests.May(r.store, kv.Uint64(id))
	if err != nil {
		return messaging.JoinRequest{}, false, fmt.Errorf("load join request %d: %w", id, err)
	}
	return m, ok, nil
}

func (r *MessageRepository) Save(_ context.Context, m messaging.JoinRequest) error {
	if err := joinRequests.Save(r.store, kv.Uint64(m.ID), m); err != nil {
		return fmt.Errorf("save join request %d: %w", m.ID, err)
	}
	return nil
}

func (r *MessageRepository) ListBySender(_ context.Context, assetType asset.Type, address string) ([]messaging.JoinRequest, error) {
	records, err := joinRequests.Index("sender").Prefix(r.store, kv.Tuple(kv.Uint8(uint8(assetType)), kv.String(address)))
	if err != nil {
		return nil, fmt.Errorf("list messages by sender: %w", err)
	}
	return values(records), nil
}

func (r *MessageRepository) ListByRecipient(_ context.Context, assetType asset.Type, address string) ([]messaging.JoinRequest, error) {
	records, err := joinRequests.Index("recipient").Prefix(r.store, kv.Tuple(kv.Uint8(uint8(assetType)), kv.String(address)))
	if err != nil {
		return nil, fmt.Errorf("list messages by recipient: %w", err)
	}
	return values(records), nil
}

func (r *MessageRepository) ListBySeason(_ context.Context, seasonID uint64) ([]messaging.JoinRequest, error) {
	records, err := joinRequests.Index("season").Prefix(r.store, kv.Tuple(kv.Uint64(seasonID)))
	if err != nil {
		return nil, fmt.Errorf("list messages by season: %w", err)
	}
	return values(records), nil
}

// FindBySeasonTeamLeague looks up the team's request for a season. Requests are
// always sent from the team to the league, one per season.
func (r *MessageRepository) FindBySeasonTeamLeague(_ context.Context, seasonID uint64, team, league string) (messaging.JoinRequest, bool, error) {
	records, err := joinRequests.Index("season_from_to").Prefix(r.store,
		kv.Tuple(kv.Uint64(seasonID), kv.String(team), kv.String(league)))
	if err != nil {
		return messaging.JoinRequest{}, false, fmt.Errorf("find season membership: %w", err)
	}
	if len(records) == 0 {
		return messaging.JoinRequest{}, false, nil
	}
	return records[0].Value, true, nil
}
