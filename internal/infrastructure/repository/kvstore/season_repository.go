package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

var seasons = kv.NewIndexedMap[season.Season]("seasons").
	WithIndex("league", func(_ []byte, s season.Season) []byte {
		return kv.Tuple(kv.String(s.League))
	}).
	WithIndex("start", func(_ []byte, s season.Season) []byte {
		return kv.Tuple(unixKey(s.StartDate))
	}).
	WithIndex("end", func(_ []byte, s season.Season) []byte {
		return kv.Tuple(unixKey(s.EndDate))
	}).
	WithIndex("league_start_end", func(_ []byte, s season.Season) []byte {
		return kv.Tuple(kv.String(s.League), unixKey(s.StartDate), unixKey(s.EndDate))
	})

type SeasonRepository struct {
	store kv.Store
}

func NewSeasonRepository(store kv.Store) *SeasonRepository {
	return &SeasonRepository{store: store}
}

func (r *SeasonRepository) Get(_ context.Context, id uint64) (season.Season, bool, error) {
	s, ok, err := seasons.May(r.store, kv.Uint64(id))
	if err != nil {
		return season.Season{}, false, fmt.Errorf("load season %d: %w", id, err)
	}
	return s, ok, nil
}

func (r *SeasonRepository) Save(_ context.Context, s season.Season) error {
	if err := seasons.Save(r.store, kv.Uint64(s.ID), s); err != nil {
		return fmt.Errorf("save season %d: %w", s.ID, err)
	}
	return nil
}

// ListByLeague returns the league's seasons ordered by start then end date.
func (r *SeasonRepository) ListByLeague(_ context.Context, league string) ([]season.Season, error) {
	records, err := seasons.Index("league_start_end").Prefix(r.store, kv.Tuple(kv.String(league)))
	if err != nil {
		return nil, fmt.Errorf("list seasons by league: %w", err)
	}
	return values(records), nil
}

func (r *SeasonRepository) ListStartingAfter(_ context.Context, t time.Time) ([]season.Season, error) {
	records, err := seasons.Index("start").Range(r.store, kv.After(kv.Tuple(unixKey(t))), nil)
	if err != nil {
		return nil, fmt.Errorf("list upcoming seasons: %w", err)
	}
	out := make([]season.Season, 0, len(records))
	for _, rec := range records {
		if rec.Value.StartDate.After(t) {
			out = append(out, rec.Value)
		}
	}
	return out, nil
}
