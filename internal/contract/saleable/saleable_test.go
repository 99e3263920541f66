package saleable

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

func devFee(to string) fee.Fee {
	return fee.Fee{Type: fee.TypeDev, ToAddress: to, Percent: fee.DevFeePercent}
}

func TestDistribute_FeesThenOwners(t *testing.T) {
	t.Parallel()

	owners := []groupadmin.Member{{Addr: "wasm1a", Weight: 60}, {Addr: "wasm1b", Weight: 40}}
	payouts, err := Distribute(coin.New(1_000_000, "ujuno"), owners, []fee.Fee{devFee("wasm1manager")})
	require.NoError(t, err)

	// fee = floor(1_000_000 * 0.0035) = 3500, remainder 996_500
	assert.Equal(t, []Payout{
		{Recipient: "wasm1manager", Amount: coin.New(3_500, "ujuno")},
		{Recipient: "wasm1a", Amount: coin.New(597_900, "ujuno")},
		{Recipient: "wasm1b", Amount: coin.New(398_600, "ujuno")},
	}, payouts)
}

func TestDistribute_TruncatesPerPayee(t *testing.T) {
	t.Parallel()

	owners := []groupadmin.Member{{Addr: "wasm1a", Weight: 33}, {Addr: "wasm1b", Weight: 33}, {Addr: "wasm1c", Weight: 34}}
	payouts, err := Distribute(coin.New(101, "ujuno"), owners, nil)
	require.NoError(t, err)

	var paid uint64
	for _, p := range payouts {
		paid += p.Amount.Amount
	}
	assert.Equal(t, uint64(33+33+34), paid)
	assert.LessOrEqual(t, paid, uint64(101))
}

func TestDistribute_Failures(t *testing.T) {
	t.Parallel()

	full := []groupadmin.Member{{Addr: "wasm1a", Weight: 100}}

	_, err := Distribute(coin.New(0, "ujuno"), full, nil)
	require.ErrorIs(t, err, ErrEmptyBalance)

	_, err = Distribute(coin.New(10, "ujuno"), []groupadmin.Member{{Addr: "wasm1a", Weight: 99}}, nil)
	require.ErrorIs(t, err, ErrOwnershipRequirementNotMet)

	_, err = Distribute(coin.New(10, "ujuno"), nil, nil)
	require.ErrorIs(t, err, ErrCurrentOwnersRequired)

	greedy := []fee.Fee{
		{Type: fee.TypeServices, ToAddress: "wasm1x", Percent: decimal.RequireFromString("0.7")},
		{Type: fee.TypeServices, ToAddress: "wasm1y", Percent: decimal.RequireFromString("0.7")},
	}
	_, err = Distribute(coin.New(100, "ujuno"), full, greedy)
	require.ErrorIs(t, err, ErrFeesExceedBalance)
	require.ErrorIs(t, err, usecase.ErrFunding)
}

func TestUpdate_PriceRules(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	_, err := Init(store, true, nil)
	require.ErrorIs(t, err, ErrPriceNotSet)

	state, err := Init(store, false, nil)
	require.NoError(t, err)
	assert.Zero(t, state.PriceVersion)

	_, err = Update(store, true, nil)
	require.ErrorIs(t, err, ErrPriceNotSet)

	zero := coin.New(0, "ujuno")
	_, err = Update(store, true, &zero)
	require.ErrorIs(t, err, ErrInvalidPrice)

	price := coin.New(50, "ujuno")
	state, err = Update(store, true, &price)
	require.NoError(t, err)
	assert.EqualValues(t, 1, state.PriceVersion)

	state, err = Update(store, false, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, state.PriceVersion)
	require.NotNil(t, state.Price)
	assert.Equal(t, price, *state.Price)
}

func TestBuy(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	price := coin.New(1_000, "ujuno")
	_, err := Init(store, false, &price)
	require.NoError(t, err)

	owners := []groupadmin.Member{{Addr: "wasm1seller", Weight: 100}}
	_, _, err = Buy(store, []coin.Coin{price}, owners, nil)
	require.ErrorIs(t, err, ErrNotForSale)

	_, err = Update(store, true, nil)
	require.NoError(t, err)

	_, _, err = Buy(store, []coin.Coin{coin.New(999, "ujuno")}, owners, nil)
	require.ErrorIs(t, err, ErrInsufficientFundsSend)

	_, _, err = Buy(store, []coin.Coin{coin.New(5_000, "uatom")}, owners, nil)
	require.ErrorIs(t, err, ErrInsufficientFundsSend)

	state, payouts, err := Buy(store, []coin.Coin{price}, owners, nil)
	require.NoError(t, err)
	assert.False(t, state.ForSale)
	assert.EqualValues(t, 2, state.PriceVersion)
	assert.Equal(t, []Payout{{Recipient: "wasm1seller", Amount: price}}, payouts)

	res := BuyResponse("wasm1buyer", price, payouts)
	assert.Len(t, res.Messages, 1)
}
