package asset

import "context"

// Repository describes managed asset persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, address string) (ManagedAsset, bool, error)
	Save(ctx context.Context, asset ManagedAsset) error
	ListByOwner(ctx context.Context, owner string) ([]ManagedAsset, error)
	ListByType(ctx context.Context, assetType Type) ([]ManagedAsset, error)
	ListForSale(ctx context.Context, assetType Type) ([]ManagedAsset, error)
}
