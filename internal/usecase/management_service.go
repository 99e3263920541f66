package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
)

const managementDescription = "Protocol development fee(s)"

// ManagementService keeps the manager's sale fee schedule.
type ManagementService struct {
	feeRepo fee.Repository
}

func NewManagementService(feeRepo fee.Repository) *ManagementService {
	return &ManagementService{feeRepo: feeRepo}
}

// Init seeds the schedule with the development fee payable to the manager itself.
func (s *ManagementService) Init(ctx context.Context, managerAddr string, devPercent decimal.Decimal, height uint64) (fee.Management, error) {
	info := fee.Management{
		Description: managementDescription,
		Fees: []fee.ManagementFee{{
			ID:              1,
			CreatedAtHeight: height,
			Active:          true,
			Fee: fee.Fee{
				Type:        fee.TypeDev,
				Description: managementDescription,
				ToAddress:   managerAddr,
				Percent:     devPercent,
			},
		}},
	}
	if err := info.Fees[0].Fee.Validate(); err != nil {
		return fee.Management{}, fmt.Errorf("%w: %v", ErrInvalidFee, err)
	}
	if err := s.feeRepo.Save(ctx, info); err != nil {
		return fee.Management{}, fmt.Errorf("save management info: %w", err)
	}
	return info, nil
}

func (s *ManagementService) Info(ctx context.Context) (fee.Management, error) {
	info, exists, err := s.feeRepo.Get(ctx)
	if err != nil {
		return fee.Management{}, fmt.Errorf("get management info: %w", err)
	}
	if !exists {
		return fee.Management{Description: managementDescription}, nil
	}
	return info, nil
}

// UpdateFees removes fees by id and appends new ones. Removing an unknown id fails.
func (s *ManagementService) UpdateFees(ctx context.Context, add []fee.Fee, removeIDs []uint64, height uint64) (fee.Management, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return fee.Management{}, err
	}

	remove := make(map[uint64]struct{}, len(removeIDs))
	for _, feeID := range removeIDs {
		remove[feeID] = struct{}{}
	}
	kept := make([]fee.ManagementFee, 0, len(info.Fees)+len(add))
	var maxID uint64
	for _, f := range info.Fees {
		maxID = max(maxID, f.ID)
		if _, drop := remove[f.ID]; drop {
			delete(remove, f.ID)
			continue
		}
		kept = append(kept, f)
	}
	for feeID := range remove {
		return fee.Management{}, fmt.Errorf("%w: id=%d", ErrFeeNotFound, feeID)
	}

	total := decimal.Zero
	for _, f := range kept {
		total = total.Add(f.Fee.Percent)
	}
	for _, f := range add {
		if err := f.Validate(); err != nil {
			return fee.Management{}, fmt.Errorf("%w: %v", ErrInvalidFee, err)
		}
		maxID++
		kept = append(kept, fee.ManagementFee{ID: maxID, CreatedAtHeight: height, Active: true, Fee: f})
		total = total.Add(f.Percent)
	}
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return fee.Management{}, fmt.Errorf("%w: fees add up to %s of the price", ErrInvalidFee, total)
	}

	info.Fees = kept
	if err := s.feeRepo.Save(ctx, info); err != nil {
		return fee.Management{}, fmt.Errorf("save management info: %w", err)
	}
	return info, nil
}
