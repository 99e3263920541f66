package managed

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/saleable"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

type managerStub struct {
	info fee.Management
}

func (m managerStub) QueryContract(_ context.Context, _ string, msg json.RawMessage) ([]byte, error) {
	if !json.Valid(msg) {
		return nil, chain.ErrInvalidMessage
	}
	return json.Marshal(m.info)
}

func (managerStub) ContractInfo(context.Context, string) (chain.ContractMeta, error) {
	return chain.ContractMeta{}, chain.ErrContractNotFound
}

func (managerStub) Balance(_ context.Context, _, denom string) (coin.Coin, error) {
	return coin.New(0, denom), nil
}

func initTeam(t *testing.T, store kv.Store, price *coin.Coin) *chain.Response {
	t.Helper()
	res, err := Init(store, "wasm1creator", InitParams{
		Manager:   "wasm1manager",
		AssetType: asset.TypeTeam,
		Name:      "Night Owls",
		Admin:     "wasm1owner",
		Members:   []groupadmin.Member{{Addr: "wasm1owner", Weight: 100}},
		Sale:      true,
		Price:     price,
	}, ManagerCallbacks())
	require.NoError(t, err)
	return res
}

func TestInit_RegistersWithManager(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	res := initTeam(t, store, nil)

	require.Len(t, res.Messages, 1)
	exec, ok := res.Messages[0].Msg.(chain.WasmExecute)
	require.True(t, ok)
	assert.Equal(t, "wasm1manager", exec.ContractAddr)
	assert.Contains(t, string(exec.Msg), `"add_managed_contract"`)
	assert.Contains(t, string(exec.Msg), `"asset_owner":"wasm1owner"`)

	hooks, err := groupadmin.Hooks(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"wasm1manager"}, hooks)
}

func TestInit_Rejections(t *testing.T) {
	t.Parallel()

	tooMany := make([]groupadmin.Member, 0, 11)
	for i := 0; i < 11; i++ {
		tooMany = append(tooMany, groupadmin.Member{Addr: string(rune('a'+i)), Weight: 1})
	}
	_, err := Init(kv.NewMemStore(), "wasm1creator", InitParams{AssetType: asset.TypeLeague, Members: tooMany}, Callbacks{})
	require.ErrorIs(t, err, groupadmin.ErrOwnershipMembersRequirementNotMet)

	_, err = Init(kv.NewMemStore(), "wasm1creator", InitParams{AssetType: asset.TypeLeague, ForSale: true}, Callbacks{})
	require.ErrorIs(t, err, ErrSaleServiceNotEnabled)
}

func TestExec_BuyPaysFeesAndResetsOwnership(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	price := coin.New(10_000, "ujuno")
	initTeam(t, store, &price)

	querier := managerStub{info: fee.Management{Fees: []fee.ManagementFee{
		{ID: 1, Active: true, Fee: fee.Fee{Type: fee.TypeDev, ToAddress: "wasm1manager", Percent: fee.DevFeePercent}},
	}}}
	deps := chain.Deps{Storage: store, Querier: querier}

	update := &SaleableMsg{Msg: chain.MustEncode(&saleable.UpdateMsg{ForSaleStatus: true})}
	_, err := Exec(context.Background(), deps, chain.MessageInfo{Sender: "wasm1stranger"}, update, true, ManagerCallbacks())
	require.Error(t, err)

	res, err := Exec(context.Background(), deps, chain.MessageInfo{Sender: "wasm1owner"}, update, true, ManagerCallbacks())
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, string(res.Messages[0].Msg.(chain.WasmExecute).Msg), "update_asset_for_sale_status_hook")

	buy := &SaleableMsg{Msg: chain.MustEncode(&saleable.BuyMsg{})}
	res, err = Exec(context.Background(), deps, chain.MessageInfo{Sender: "wasm1buyer", Funds: []coin.Coin{price}}, buy, true, ManagerCallbacks())
	require.NoError(t, err)

	// dev fee 35, owner 9965, then the sold hook.
	require.Len(t, res.Messages, 3)
	assert.Equal(t, chain.BankSend{ToAddress: "wasm1manager", Amount: []coin.Coin{coin.New(35, "ujuno")}}, res.Messages[0].Msg)
	assert.Equal(t, chain.BankSend{ToAddress: "wasm1owner", Amount: []coin.Coin{coin.New(9_965, "ujuno")}}, res.Messages[1].Msg)
	assert.Contains(t, string(res.Messages[2].Msg.(chain.WasmExecute).Msg), "managed_asset_sold_hook")

	admin, err := groupadmin.Admin(store)
	require.NoError(t, err)
	assert.Equal(t, "wasm1buyer", admin)

	sale, err := saleable.Load(store)
	require.NoError(t, err)
	assert.False(t, sale.ForSale)
}

func TestExec_UpdateManagerMovesHook(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	initTeam(t, store, nil)
	deps := chain.Deps{Storage: store}

	_, err := Exec(context.Background(), deps, chain.MessageInfo{Sender: "wasm1owner"}, &UpdateManagerMsg{ManagerAddress: "wasm1manager2"}, true, Callbacks{})
	require.NoError(t, err)

	manager, err := Manager(store)
	require.NoError(t, err)
	assert.Equal(t, "wasm1manager2", manager)

	hooks, err := groupadmin.Hooks(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"wasm1manager2"}, hooks)
}

func TestExec_SaleDisabled(t *testing.T) {
	t.Parallel()

	buy := &SaleableMsg{Msg: chain.MustEncode(&saleable.BuyMsg{})}
	_, err := Exec(context.Background(), chain.Deps{Storage: kv.NewMemStore()}, chain.MessageInfo{}, buy, false, Callbacks{})
	require.ErrorIs(t, err, ErrSaleServiceNotEnabled)
}
