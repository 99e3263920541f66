package kvstore

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

var seasonLedger = kv.NewIndexedMap[season.LedgerEntry]("season_ledger").
	WithIndex("league", func(_ []byte, e season.LedgerEntry) []byte {
		return kv.Tuple(kv.String(e.League))
	}).
	WithIndex("team", func(_ []byte, e season.LedgerEntry) []byte {
		return kv.Tuple(kv.String(e.Team))
	}).
	WithIndex("season", func(_ []byte, e season.LedgerEntry) []byte {
		return kv.Tuple(kv.Uint64(e.SeasonID))
	}).
	WithIndex("deposit_amount", func(_ []byte, e season.LedgerEntry) []byte {
		return kv.Tuple(kv.String(e.DepositAmount.Denom), kv.Uint64(e.DepositAmount.Amount))
	}).
	WithIndex("deposit_date", func(_ []byte, e season.LedgerEntry) []byte {
		return kv.Tuple(unixKey(e.DepositDate))
	}).
	WithIndex("withdrawal_date", func(_ []byte, e season.LedgerEntry) []byte {
		if e.WithdrawalDistributionDate == nil {
			return kv.Tuple(kv.Uint64(0))
		}
		return kv.Tuple(unixKey(*e.WithdrawalDistributionDate))
	})

type LedgerRepository struct {
	store kv.Store
}

func NewLedgerRepository(store kv.Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) Save(_ context.Context, e season.LedgerEntry) error {
	if err := seasonLedger.Save(r.store, kv.Uint64(e.ID), e); err != nil {
		return fmt.Errorf("save ledger entry %d: %w", e.ID, err)
	}
	return nil
}

func (r *LedgerRepository) ListBySeason(_ context.Context, seasonID uint64) ([]season.LedgerEntry, error) {
	records, err := seasonLedger.Index("season").Prefix(r.store, kv.Tuple(kv.Uint64(seasonID)))
	if err != nil {
		return nil, fmt.Errorf("list ledger by season: %w", err)
	}
	return values(records), nil
}

func (r *LedgerRepository) ListByTeam(_ context.Context, team string) ([]season.LedgerEntry, error) {
	records, err := seasonLedger.Index("team").Prefix(r.store, kv.Tuple(kv.String(team)))
	if err != nil {
		return nil, fmt.Errorf("list ledger by team: %w", err)
	}
	return values(records), nil
}

// ListUnpaid returns every deposit that has not been paid back out.
func (r *LedgerRepository) ListUnpaid(_ context.Context) ([]season.LedgerEntry, error) {
	records, err := seasonLedger.Index("withdrawal_date").Prefix(r.store, kv.Tuple(kv.Uint64(0)))
	if err != nil {
		return nil, fmt.Errorf("list unpaid ledger entries: %w", err)
	}
	return values(records), nil
}
