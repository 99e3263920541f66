// Package saleable holds an asset's sale state and splits a purchase between
// fee recipients and owners.
package saleable

import (
	"fmt"
	"math/big"

	crerr "github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

var (
	ErrNotForSale                 = usecase.NewKindError(usecase.ErrInvalidInput, "not for sale")
	ErrPriceNotSet                = usecase.NewKindError(usecase.ErrInvalidInput, "price not set")
	ErrInvalidPrice               = usecase.NewKindError(usecase.ErrInvalidInput, "invalid price")
	ErrEmptyBalance               = usecase.NewKindError(usecase.ErrFunding, "empty balance")
	ErrInsufficientFundsSend      = usecase.NewKindError(usecase.ErrFunding, "insufficient funds sent")
	ErrOwnershipRequirementNotMet = usecase.NewKindError(usecase.ErrInvalidInput, "total ownership of all members has to equal 100%")
	ErrFeesExceedBalance          = usecase.NewKindError(usecase.ErrFunding, "fees exceed balance")
	ErrCurrentOwnersRequired      = usecase.NewKindError(usecase.ErrInvalidInput, "current owners required")
)

const fullOwnership = 100

// State is the sale status of one asset.
type State struct {
	PriceVersion uint64     `json:"price_version"`
	Price        *coin.Coin `json:"price,omitempty"`
	ForSale      bool       `json:"for_sale"`
}

var stateItem = kv.NewItem[State]("saleable")

// Payout is one transfer a purchase produces.
type Payout struct {
	Recipient string    `json:"recipient"`
	Amount    coin.Coin `json:"amount"`
}

func validatePrice(price *coin.Coin) error {
	if price == nil {
		return nil
	}
	if price.Amount == 0 || price.Denom == "" {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	return nil
}

// Init stores the first sale state. Putting an asset on sale needs a price.
func Init(store kv.Store, forSale bool, price *coin.Coin) (State, error) {
	if err := validatePrice(price); err != nil {
		return State{}, err
	}
	if forSale && price == nil {
		return State{}, ErrPriceNotSet
	}
	state := State{Price: price, ForSale: forSale}
	if err := stateItem.Save(store, state); err != nil {
		return State{}, crerr.Wrap(err, "save sale state")
	}
	return state, nil
}

func Load(store kv.Reader) (State, error) {
	state, _, err := stateItem.May(store)
	if err != nil {
		return State{}, crerr.Wrap(err, "load sale state")
	}
	return state, nil
}

// Update changes the sale flag and optionally the price. The stored price is
// kept when none is supplied, and the version moves on every call.
func Update(store kv.Store, forSale bool, price *coin.Coin) (State, error) {
	state, err := Load(store)
	if err != nil {
		return State{}, err
	}
	if err := validatePrice(price); err != nil {
		return State{}, err
	}
	if price != nil {
		p := *price
		state.Price = &p
	}
	if forSale && state.Price == nil {
		return State{}, ErrPriceNotSet
	}
	state.ForSale = forSale
	state.PriceVersion++
	if err := stateItem.Save(store, state); err != nil {
		return State{}, crerr.Wrap(err, "save sale state")
	}
	return state, nil
}

// Buy checks the purchase against the current state, computes the payouts and
// takes the asset off sale.
func Buy(store kv.Store, funds []coin.Coin, owners []groupadmin.Member, fees []fee.Fee) (State, []Payout, error) {
	state, err := Load(store)
	if err != nil {
		return State{}, nil, err
	}
	if !state.ForSale {
		return State{}, nil, ErrNotForSale
	}
	if state.Price == nil {
		return State{}, nil, ErrPriceNotSet
	}
	if sent := coin.AmountOf(funds, state.Price.Denom); sent < state.Price.Amount {
		return State{}, nil, fmt.Errorf("%w: sent=%d%s price=%s", ErrInsufficientFundsSend, sent, state.Price.Denom, state.Price)
	}

	payouts, err := Distribute(*state.Price, owners, fees)
	if err != nil {
		return State{}, nil, err
	}

	state.ForSale = false
	state.PriceVersion++
	if err := stateItem.Save(store, state); err != nil {
		return State{}, nil, crerr.Wrap(err, "save sale state")
	}
	return state, payouts, nil
}

// Distribute splits price between fees and owners. Each fee is
// floor(price * percent) and is taken from the running balance in order; each
// owner then gets floor(balance * weight / 100). Dust stays with the asset.
func Distribute(price coin.Coin, owners []groupadmin.Member, fees []fee.Fee) ([]Payout, error) {
	if price.Amount == 0 {
		return nil, ErrEmptyBalance
	}
	if len(owners) == 0 {
		return nil, ErrCurrentOwnersRequired
	}
	var weights uint64
	for _, o := range owners {
		weights += o.Weight
	}
	if weights != fullOwnership {
		return nil, fmt.Errorf("%w: total=%d", ErrOwnershipRequirementNotMet, weights)
	}

	total := decimalOf(price.Amount)
	balance := price.Amount
	payouts := make([]Payout, 0, len(fees)+len(owners))
	for _, f := range fees {
		cut := uint64Of(total.Mul(f.Percent).Floor())
		if cut > balance {
			return nil, fmt.Errorf("%w: fee to %s of %d exceeds remaining %d", ErrFeesExceedBalance, f.ToAddress, cut, balance)
		}
		balance -= cut
		if cut > 0 {
			payouts = append(payouts, Payout{Recipient: f.ToAddress, Amount: coin.New(cut, price.Denom)})
		}
	}

	remaining := decimalOf(balance)
	hundred := decimal.NewFromInt(fullOwnership)
	for _, o := range owners {
		share := uint64Of(remaining.Mul(decimalOf(o.Weight)).Div(hundred).Floor())
		if share > 0 {
			payouts = append(payouts, Payout{Recipient: o.Addr, Amount: coin.New(share, price.Denom)})
		}
	}
	return payouts, nil
}

func decimalOf(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

func uint64Of(d decimal.Decimal) uint64 {
	if d.IsNegative() {
		return 0
	}
	return d.BigInt().Uint64()
}
