package managed

import (
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/saleable"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

// InfoResponse is the get_info answer every managed asset gives.
type InfoResponse[T any] struct {
	Data        T                   `json:"data"`
	SaleInfo    saleable.State      `json:"sale_info"`
	ManagedInfo Info                `json:"managed_info"`
	Owners      []groupadmin.Member `json:"owners"`
	Admin       string              `json:"admin,omitempty"`
}

func QueryInfo[T any](store kv.Reader, data T) (InfoResponse[T], error) {
	sale, err := saleable.Load(store)
	if err != nil {
		return InfoResponse[T]{}, err
	}
	info, err := Load(store)
	if err != nil {
		return InfoResponse[T]{}, err
	}
	owners, err := groupadmin.AllMembers(store)
	if err != nil {
		return InfoResponse[T]{}, err
	}
	admin, err := groupadmin.Admin(store)
	if err != nil {
		return InfoResponse[T]{}, err
	}
	return InfoResponse[T]{
		Data:        data,
		SaleInfo:    sale,
		ManagedInfo: info,
		Owners:      owners,
		Admin:       admin,
	}, nil
}

type NameResponse struct {
	Name string `json:"name"`
}
