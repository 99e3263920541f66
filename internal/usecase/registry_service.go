package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/team"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

// RegisterInput describes a newly instantiated asset contract.
type RegisterInput struct {
	Address string
	Owner   string
	Type    asset.Type
	Name    string
}

// RegistryService keeps the manager's record of every managed asset.
type RegistryService struct {
	assetRepo asset.Repository
	teamRepo  team.Repository
	now       func() time.Time
}

func NewRegistryService(assetRepo asset.Repository, teamRepo team.Repository, now func() time.Time) *RegistryService {
	if now == nil {
		now = time.Now
	}
	return &RegistryService{
		assetRepo: assetRepo,
		teamRepo:  teamRepo,
		now:       now,
	}
}

// Register inserts a fresh Enabled record with a single open ownership entry.
// Team assets also get a team row with no league assigned.
func (s *RegistryService) Register(ctx context.Context, input RegisterInput) (asset.ManagedAsset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistryService.Register")
	defer span.End()

	input.Address = strings.TrimSpace(input.Address)
	input.Owner = strings.TrimSpace(input.Owner)
	if input.Address == "" || input.Owner == "" {
		return asset.ManagedAsset{}, fmt.Errorf("%w: asset address and owner are required", ErrInvalidInput)
	}
	if !input.Type.Valid() {
		return asset.ManagedAsset{}, fmt.Errorf("%w: asset type=%d", ErrInvalidInput, input.Type)
	}

	_, exists, err := s.assetRepo.Get(ctx, input.Address)
	if err != nil {
		return asset.ManagedAsset{}, fmt.Errorf("get managed asset: %w", err)
	}
	if exists {
		return asset.ManagedAsset{}, fmt.Errorf("%w: address=%s", ErrAssetAlreadyRegistered, input.Address)
	}

	now := s.now()
	record := asset.ManagedAsset{
		Address:          input.Address,
		Name:             input.Name,
		Owner:            input.Owner,
		Type:             input.Type,
		Status:           asset.StatusEnabled,
		OwnershipHistory: []asset.OwnershipRecord{{Owner: input.Owner, AcquiredAt: now}},
		Created:          now,
		Updated:          now,
	}
	if err := s.assetRepo.Save(ctx, record); err != nil {
		return asset.ManagedAsset{}, fmt.Errorf("save managed asset: %w", err)
	}

	if input.Type == asset.TypeTeam {
		if err := s.teamRepo.Save(ctx, team.Team{
			Address: input.Address,
			Name:    input.Name,
			Owner:   input.Owner,
			Created: now,
		}); err != nil {
			return asset.ManagedAsset{}, fmt.Errorf("save team: %w", err)
		}
	}

	return record, nil
}

// SetStatus moves an existing asset between managed statuses. Ownership history is untouched.
func (s *RegistryService) SetStatus(ctx context.Context, address string, status asset.ManagedStatus) (asset.ManagedAsset, error) {
	if !status.Valid() {
		return asset.ManagedAsset{}, fmt.Errorf("%w: status=%d", ErrInvalidManagedStatus, status)
	}
	record, err := s.Get(ctx, address)
	if err != nil {
		return asset.ManagedAsset{}, err
	}

	record.Status = status
	record.Updated = s.now()
	if err := s.assetRepo.Save(ctx, record); err != nil {
		return asset.ManagedAsset{}, fmt.Errorf("save managed asset: %w", err)
	}
	return record, nil
}

// Authorize is the gate for asset-originated calls: the sender must be a
// registered, Enabled asset of one of the given types (any type when none given).
func (s *RegistryService) Authorize(ctx context.Context, sender string, types ...asset.Type) (asset.ManagedAsset, error) {
	record, exists, err := s.assetRepo.Get(ctx, sender)
	if err != nil {
		return asset.ManagedAsset{}, fmt.Errorf("get managed asset: %w", err)
	}
	if !exists || !record.Enabled() {
		return asset.ManagedAsset{}, Unauthorized(sender)
	}
	if len(types) > 0 && !slices.Contains(types, record.Type) {
		return asset.ManagedAsset{}, Unauthorized(sender)
	}
	return record, nil
}

// UpdateSaleStatus mirrors an asset's sale state. The stored price is kept
// when price is nil. The price version moves on every call.
func (s *RegistryService) UpdateSaleStatus(ctx context.Context, address string, forSale bool, price *coin.Coin) (asset.ManagedAsset, error) {
	record, err := s.Get(ctx, address)
	if err != nil {
		return asset.ManagedAsset{}, err
	}

	now := s.now()
	record.ForSale = 0
	if forSale {
		record.ForSale = 1
	}
	if price != nil {
		p := *price
		record.ForSalePrice = &p
	}
	record.ForSalePriceVersion++
	record.ForSaleLastUpdated = &now
	record.Updated = now

	if err := s.assetRepo.Save(ctx, record); err != nil {
		return asset.ManagedAsset{}, fmt.Errorf("save managed asset: %w", err)
	}
	return record, nil
}

// TransferOwnership records a sale: the open history entry is closed, a new
// one is opened for newOwner and the asset comes off sale.
func (s *RegistryService) TransferOwnership(ctx context.Context, address, newOwner string) (asset.ManagedAsset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistryService.TransferOwnership")
	defer span.End()

	newOwner = strings.TrimSpace(newOwner)
	if newOwner == "" {
		return asset.ManagedAsset{}, fmt.Errorf("%w: new owner is required", ErrInvalidInput)
	}
	record, err := s.Get(ctx, address)
	if err != nil {
		return asset.ManagedAsset{}, err
	}

	record.Transfer(newOwner, s.now())
	if err := record.Validate(); err != nil {
		return asset.ManagedAsset{}, fmt.Errorf("transfer ownership: %w", err)
	}
	if err := s.assetRepo.Save(ctx, record); err != nil {
		return asset.ManagedAsset{}, fmt.Errorf("save managed asset: %w", err)
	}

	if record.Type == asset.TypeTeam {
		t, exists, err := s.teamRepo.Get(ctx, address)
		if err != nil {
			return asset.ManagedAsset{}, fmt.Errorf("get team: %w", err)
		}
		if exists {
			t.Owner = newOwner
			if err := s.teamRepo.Save(ctx, t); err != nil {
				return asset.ManagedAsset{}, fmt.Errorf("save team: %w", err)
			}
		}
	}

	return s.UpdateSaleStatus(ctx, address, false, nil)
}

func (s *RegistryService) Get(ctx context.Context, address string) (asset.ManagedAsset, error) {
	record, exists, err := s.assetRepo.Get(ctx, address)
	if err != nil {
		return asset.ManagedAsset{}, fmt.Errorf("get managed asset: %w", err)
	}
	if !exists {
		return asset.ManagedAsset{}, &ItemNotFoundError{Address: address}
	}
	return record, nil
}

func (s *RegistryService) ListByOwner(ctx context.Context, owner string) ([]asset.ManagedAsset, error) {
	items, err := s.assetRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list assets by owner: %w", err)
	}
	return items, nil
}

func (s *RegistryService) ListByType(ctx context.Context, assetType asset.Type) ([]asset.ManagedAsset, error) {
	items, err := s.assetRepo.ListByType(ctx, assetType)
	if err != nil {
		return nil, fmt.Errorf("list assets by type: %w", err)
	}
	return items, nil
}

func (s *RegistryService) ListForSale(ctx context.Context, assetType asset.Type) ([]asset.ManagedAsset, error) {
	items, err := s.assetRepo.ListForSale(ctx, assetType)
	if err != nil {
		return nil, fmt.Errorf("list assets for sale: %w", err)
	}
	return items, nil
}
