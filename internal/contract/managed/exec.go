package managed

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/saleable"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

// ExecuteMsg is SaleableMsg, UpdateManagerMsg or GroupAdminHooksMsg. The
// nested messages stay raw until the target component decodes them.
type ExecuteMsg interface {
	chain.Variant
	isManagedMsg()
}

type SaleableMsg struct {
	Msg json.RawMessage `json:"saleable_msg" validate:"required"`
}

type UpdateManagerMsg struct {
	ManagerAddress string `json:"manager_address" validate:"required"`
}

type GroupAdminHooksMsg struct {
	Msg json.RawMessage `json:"group_admin_hooks_msg" validate:"required"`
}

func (*SaleableMsg) VariantName() string        { return "saleable" }
func (*UpdateManagerMsg) VariantName() string   { return "update_manager" }
func (*GroupAdminHooksMsg) VariantName() string { return "group_admin_hooks" }

func (*SaleableMsg) isManagedMsg()        {}
func (*UpdateManagerMsg) isManagedMsg()   {}
func (*GroupAdminHooksMsg) isManagedMsg() {}

var executeMsgs = chain.NewUnion[ExecuteMsg]("managed_execute_msg",
	&SaleableMsg{}, &UpdateManagerMsg{}, &GroupAdminHooksMsg{},
)

func DecodeExecuteMsg(raw json.RawMessage) (ExecuteMsg, error) {
	return executeMsgs.Decode(raw)
}

// Exec runs a managed-service message for an asset. sale says whether the
// asset has the sale component.
func Exec(ctx context.Context, deps chain.Deps, info chain.MessageInfo, msg ExecuteMsg, sale bool, cb Callbacks) (*chain.Response, error) {
	switch m := msg.(type) {
	case *SaleableMsg:
		if !sale {
			return nil, ErrSaleServiceNotEnabled
		}
		inner, err := saleable.DecodeExecuteMsg(m.Msg)
		if err != nil {
			return nil, err
		}
		return execSaleable(ctx, deps, info, inner, cb)
	case *UpdateManagerMsg:
		return updateManager(deps.Storage, info.Sender, m.ManagerAddress)
	case *GroupAdminHooksMsg:
		inner, err := groupadmin.DecodeExecuteMsg(m.Msg)
		if err != nil {
			return nil, err
		}
		return groupadmin.Execute(deps.Storage, info.Sender, inner)
	default:
		return nil, chain.ErrInvalidMessage
	}
}

func execSaleable(ctx context.Context, deps chain.Deps, info chain.MessageInfo, msg saleable.ExecuteMsg, cb Callbacks) (*chain.Response, error) {
	managedInfo, err := Load(deps.Storage)
	if err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *saleable.UpdateMsg:
		if err := groupadmin.AssertAdmin(deps.Storage, info.Sender); err != nil {
			return nil, err
		}
		state, err := saleable.Update(deps.Storage, m.ForSaleStatus, m.Price)
		if err != nil {
			return nil, err
		}
		res := saleable.UpdateResponse(state)
		if managedInfo.Managed() && cb.OnSaleUpdate != nil {
			msgs, err := cb.OnSaleUpdate(state, managedInfo)
			if err != nil {
				return nil, err
			}
			for _, sub := range msgs {
				res.AddMessage(sub)
			}
		}
		return res, nil

	case *saleable.BuyMsg:
		owners, err := groupadmin.AllMembers(deps.Storage)
		if err != nil {
			return nil, err
		}
		var fees []fee.Fee
		if managedInfo.Managed() {
			fees, err = Fees(ctx, deps.Querier, managedInfo.ManagingContract)
			if err != nil {
				return nil, err
			}
		}
		state, payouts, err := saleable.Buy(deps.Storage, info.Funds, owners, fees)
		if err != nil {
			return nil, err
		}
		if err := groupadmin.ResetOwnership(deps.Storage, info.Sender); err != nil {
			return nil, err
		}
		res := saleable.BuyResponse(info.Sender, *state.Price, payouts)
		if managedInfo.Managed() && cb.OnBuy != nil {
			msgs, err := cb.OnBuy(info.Sender, managedInfo)
			if err != nil {
				return nil, err
			}
			for _, sub := range msgs {
				res.AddMessage(sub)
			}
		}
		return res, nil

	default:
		return nil, chain.ErrInvalidMessage
	}
}

// updateManager points the asset at a new manager and moves the roster hook
// along with it. The asset type never changes.
func updateManager(store kv.Store, sender, manager string) (*chain.Response, error) {
	if err := groupadmin.AssertAdmin(store, sender); err != nil {
		return nil, err
	}
	manager = strings.TrimSpace(manager)
	current, err := Load(store)
	if err != nil {
		return nil, err
	}
	if current.Managed() {
		if err := groupadmin.UnregisterHook(store, current.ManagingContract); err != nil && !errors.Is(err, groupadmin.ErrHookNotRegistered) {
			return nil, err
		}
	}
	current.ManagingContract = manager
	if err := infoItem.Save(store, current); err != nil {
		return nil, crerr.Wrap(err, "save managed info")
	}
	if err := groupadmin.RegisterHook(store, manager); err != nil && !errors.Is(err, groupadmin.ErrHookAlreadyRegistered) {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "update_manager").
		AddAttribute("sender", sender).
		AddAttribute("manager", manager), nil
}
