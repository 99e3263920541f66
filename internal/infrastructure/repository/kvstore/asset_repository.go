package kvstore

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

var managedAssets = kv.NewIndexedMap[asset.ManagedAsset]("managed_assets").
	WithIndex("owner", func(_ []byte, a asset.ManagedAsset) []byte {
		return kv.Tuple(kv.String(a.Owner))
	}).
	WithIndex("type", func(_ []byte, a asset.ManagedAsset) []byte {
		return kv.Tuple(kv.Uint8(uint8(a.Type)), kv.String(a.Address))
	}).
	WithIndex("for_sale", func(_ []byte, a asset.ManagedAsset) []byte {
		return kv.Tuple(kv.Uint8(a.ForSale), kv.Uint8(uint8(a.Type)))
	})

type AssetRepository struct {
	store kv.Store
}

func NewAssetRepository(store kv.Store) *AssetRepository {
	return &AssetRepository{store: store}
}

func (r *AssetRepository) Get(_ context.Context, address string) (asset.ManagedAsset, bool, error) {
	a, ok, err := managedAssets.May(r.store, []byte(address))
	if err != nil {
		return asset.ManagedAsset{}, false, fmt.Errorf("load managed asset %s: %w", address, err)
	}
	return a, ok, nil
}

func (r *AssetRepository) Save(_ context.Context, a asset.ManagedAsset) error {
	if err := managedAssets.Save(r.store, []byte(a.Address), a); err != nil {
		return fmt.Errorf("save managed asset %s: %w", a.Address, err)
	}
	return nil
}

func (r *AssetRepository) ListByOwner(_ context.Context, owner string) ([]asset.ManagedAsset, error) {
	records, err := managedAssets.Index("owner").Prefix(r.store, kv.Tuple(kv.String(owner)))
	if err != nil {
		return nil, fmt.Errorf("list assets by owner: %w", err)
	}
	return values(records), nil
}

func (r *AssetRepository) ListByType(_ context.Context, assetType asset.Type) ([]asset.ManagedAsset, error) {
	records, err := managedAssets.Index("type").Prefix(r.store, kv.Tuple(kv.Uint8(uint8(assetType))))
	if err != nil {
		return nil, fmt.Errorf("list assets by type: %w", err)
	}
	return values(records), nil
}

func (r *AssetRepository) ListForSale(_ context.Context, assetType asset.Type) ([]asset.ManagedAsset, error) {
	records, err := managedAssets.Index("for_sale").Prefix(r.store, kv.Tuple(kv.Uint8(1), kv.Uint8(uint8(assetType))))
	if err != nil {
		return nil, fmt.Errorf("list assets for sale: %w", err)
	}
	return values(records), nil
}
