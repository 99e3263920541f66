package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	basecache "github.com/riskibarqy/fantasy-league-contracts/internal/platform/cache"
)

const contractEventKeyPrefix = "events:"

// ContractEventRepository caches per-contract event listings in front of the index.
type ContractEventRepository struct {
	next  eventlog.Repository
	cache *basecache.Store
}

func NewContractEventRepository(next eventlog.Repository, cache *basecache.Store) *ContractEventRepository {
	return &ContractEventRepository{next: next, cache: cache}
}

// InsertBatch writes through and drops cached listings of every touched contract.
func (r *ContractEventRepository) InsertBatch(ctx context.Context, entries []eventlog.Entry) error {
	if err := r.next.InsertBatch(ctx, entries); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Contract]; ok {
			continue
		}
		seen[entry.Contract] = struct{}{}
		r.cache.DeletePrefix(ctx, contractEventKeyPrefix+entry.Contract+":")
	}
	return nil
}

func (r *ContractEventRepository) ListByContract(ctx context.Context, contract string, limit int) ([]eventlog.Entry, error) {
	key := contractEventKeyPrefix + contract + ":" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByContract(ctx, contract, limit)
		if err != nil {
			return nil, err
		}
		return append([]eventlog.Entry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]eventlog.Entry)
	return append([]eventlog.Entry(nil), items...), nil
}
