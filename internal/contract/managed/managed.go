// Package managed ties an asset contract's roster and sale state to the
// manager contract that registers it.
package managed

import (
	"context"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/saleable"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

var (
	ErrSaleServiceNotEnabled            = usecase.NewKindError(usecase.ErrInvalidInput, "sale service not enabled")
	ErrNoManagerContractAddressProvided = usecase.NewKindError(usecase.ErrInvalidInput, "no manager contract address provided")
)

// Info is what an asset knows about its manager.
type Info struct {
	ManagingContract string     `json:"managing_contract,omitempty"`
	AssetType        asset.Type `json:"asset_type"`
}

func (i Info) Managed() bool {
	return i.ManagingContract != ""
}

var infoItem = kv.NewItem[Info]("manageable")

func Load(store kv.Reader) (Info, error) {
	info, err := infoItem.Load(store)
	if err != nil {
		return Info{}, crerr.Wrap(err, "load managed info")
	}
	return info, nil
}

// Manager returns the managing contract or ErrNoManagerContractAddressProvided.
func Manager(store kv.Reader) (string, error) {
	info, err := Load(store)
	if err != nil {
		return "", err
	}
	if !info.Managed() {
		return "", ErrNoManagerContractAddressProvided
	}
	return info.ManagingContract, nil
}

// InitParams is the shared part of every asset contract's instantiate message.
type InitParams struct {
	Manager   string
	AssetType asset.Type
	Name      string
	Admin     string
	Members   []groupadmin.Member
	// Sale enables the sale component.
	Sale    bool
	ForSale bool
	Price   *coin.Coin
}

// Callbacks let an asset decide what it tells its manager. A nil callback
// sends nothing.
type Callbacks struct {
	OnInit       func(p InitParams, owner string, info Info) ([]chain.Msg, error)
	OnSaleUpdate func(state saleable.State, info Info) ([]chain.Msg, error)
	OnBuy        func(buyer string, info Info) ([]chain.Msg, error)
}

// ManagerCallbacks report registration, sale updates and sales to the manager.
func ManagerCallbacks() Callbacks {
	return Callbacks{
		OnInit: func(p InitParams, owner string, info Info) ([]chain.Msg, error) {
			msg, err := managermsg.Call(info.ManagingContract, &managermsg.AddManagedContract{
				AssetName:    p.Name,
				AssetOwner:   owner,
				ContractType: info.AssetType,
			})
			return []chain.Msg{msg}, err
		},
		OnSaleUpdate: func(state saleable.State, info Info) ([]chain.Msg, error) {
			msg, err := managermsg.Call(info.ManagingContract, &managermsg.UpdateAssetForSaleStatusHook{
				ForSaleStatus: state.ForSale,
				Price:         state.Price,
			})
			return []chain.Msg{msg}, err
		},
		OnBuy: func(buyer string, info Info) ([]chain.Msg, error) {
			msg, err := managermsg.Call(info.ManagingContract, &managermsg.ManagedAssetSoldHook{NewOwner: buyer})
			return []chain.Msg{msg}, err
		},
	}
}

// Init sets up roster, sale state and manager link for a new asset. The admin
// defaults to the sender, and the roster defaults to the admin with full weight.
func Init(store kv.Store, sender string, p InitParams, cb Callbacks) (*chain.Response, error) {
	admin := strings.TrimSpace(p.Admin)
	if admin == "" {
		admin = sender
	}
	members := p.Members
	if len(members) == 0 {
		members = []groupadmin.Member{{Addr: admin, Weight: 100}}
	}
	if err := groupadmin.CheckOwnerCount(distinct(members)); err != nil {
		return nil, err
	}

	if p.Sale {
		if _, err := saleable.Init(store, p.ForSale, p.Price); err != nil {
			return nil, err
		}
	} else if p.ForSale {
		return nil, ErrSaleServiceNotEnabled
	}

	info := Info{ManagingContract: strings.TrimSpace(p.Manager), AssetType: p.AssetType}
	if err := infoItem.Save(store, info); err != nil {
		return nil, crerr.Wrap(err, "save managed info")
	}
	if err := groupadmin.Init(store, admin, members); err != nil {
		return nil, err
	}

	res := chain.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("owner", sender).
		AddAttribute("admin", admin)
	if !info.Managed() {
		return res, nil
	}
	if err := groupadmin.RegisterHook(store, info.ManagingContract); err != nil {
		return nil, err
	}
	if cb.OnInit != nil {
		msgs, err := cb.OnInit(p, admin, info)
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			res.AddMessage(m)
		}
	}
	return res, nil
}

func distinct(members []groupadmin.Member) int {
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		seen[strings.TrimSpace(m.Addr)] = struct{}{}
	}
	return len(seen)
}

// Fees asks the manager for the fees currently charged on a sale.
func Fees(ctx context.Context, querier chain.Querier, manager string) ([]fee.Fee, error) {
	info, err := managermsg.Query[fee.Management](ctx, querier, manager, &managermsg.ManagementInfo{})
	if err != nil {
		return nil, fmt.Errorf("query management info: %w", err)
	}
	return info.ActiveFees(), nil
}

// InstantiateMsg is the instantiate payload shared by every managed asset.
type InstantiateMsg struct {
	Name             string              `json:"name" validate:"required"`
	Admin            string              `json:"admin,omitempty"`
	Members          []groupadmin.Member `json:"members,omitempty" validate:"dive"`
	ManagingContract string              `json:"managing_contract,omitempty"`
	ForSale          bool                `json:"for_sale"`
	Price            *coin.Coin          `json:"price,omitempty"`
}

// Params turns the payload into InitParams for an asset with the sale component.
func (m InstantiateMsg) Params(assetType asset.Type) InitParams {
	return InitParams{
		Manager:   m.ManagingContract,
		AssetType: assetType,
		Name:      m.Name,
		Admin:     m.Admin,
		Members:   m.Members,
		Sale:      true,
		ForSale:   m.ForSale,
		Price:     m.Price,
	}
}
