package kvstore

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

var playerNames = kv.NewIndexedMap[player.Player]("player_names").
	WithIndex("team", func(_ []byte, p player.Player) []byte {
		return kv.Tuple(kv.String(p.AssignedTeam))
	})

type PlayerRepository struct {
	store kv.Store
}

func NewPlayerRepository(store kv.Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) GetByName(_ context.Context, firstName, lastName string) (player.Player, bool, error) {
	p, ok, err := playerNames.May(r.store, []byte(player.NameKey(firstName, lastName)))
	if err != nil {
		return player.Player{}, false, fmt.Errorf("load player name: %w", err)
	}
	return p, ok, nil
}

func (r *PlayerRepository) Save(_ context.Context, p player.Player) error {
	if err := playerNames.Save(r.store, []byte(p.NameKey()), p); err != nil {
		return fmt.Errorf("save player %s: %w", p.NameKey(), err)
	}
	return nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, team string) ([]player.Player, error) {
	records, err := playerNames.Index("team").Prefix(r.store, kv.Tuple(kv.String(team)))
	if err != nil {
		return nil, fmt.Errorf("list players by team: %w", err)
	}
	return values(records), nil
}
