package kvstore

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

var managementInfo = kv.NewItem[fee.Management]("management_info")

type FeeRepository struct {
	store kv.Store
}

func NewFeeRepository(store kv.Store) *FeeRepository {
	return &FeeRepository{store: store}
}

func (r *FeeRepository) Get(_ context.Context) (fee.Management, bool, error) {
	m, ok, err := managementInfo.May(r.store)
	if err != nil {
		return fee.Management{}, false, fmt.Errorf("load management info: %w", err)
	}
	return m, ok, nil
}

func (r *FeeRepository) Save(_ context.Context, m fee.Management) error {
	if err := managementInfo.Save(r.store, m); err != nil {
		return fmt.Errorf("save management info: %w", err)
	}
	return nil
}
