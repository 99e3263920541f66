package kvstore

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/team"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

var teams = kv.NewIndexedMap[team.Team]("teams").
	WithIndex("league", func(_ []byte, t team.Team) []byte {
		if t.LeagueAssigned == nil {
			return kv.Tuple(kv.String(""))
		}
		return kv.Tuple(kv.String(t.LeagueAssigned.League))
	})

type TeamRepository struct {
	store kv.Store
}

func NewTeamRepository(store kv.Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) Get(_ context.Context, address string) (team.Team, bool, error) {
	t, ok, err := teams.May(r.store, []byte(address))
	if err != nil {
		return team.Team{}, false, fmt.Errorf("load team %s: %w", address, err)
	}
	return t, ok, nil
}

func (r *TeamRepository) Save(_ context.Context, t team.Team) error {
	if err := teams.Save(r.store, []byte(t.Address), t); err != nil {
		return fmt.Errorf("save team %s: %w", t.Address, err)
	}
	return nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, league string) ([]team.Team, error) {
	if league == "" {
		return nil, nil
	}
	records, err := teams.Index("league").Prefix(r.store, kv.Tuple(kv.String(league)))
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}
	return values(records), nil
}
