package saleable

import (
	"encoding/json"
	"strconv"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

// ExecuteMsg is BuyMsg or UpdateMsg.
type ExecuteMsg interface {
	chain.Variant
	isSaleableMsg()
}

type BuyMsg struct{}

type UpdateMsg struct {
	ForSaleStatus bool       `json:"for_sale_status"`
	Price         *coin.Coin `json:"price,omitempty"`
}

func (*BuyMsg) VariantName() string    { return "buy" }
func (*UpdateMsg) VariantName() string { return "update" }

func (*BuyMsg) isSaleableMsg()    {}
func (*UpdateMsg) isSaleableMsg() {}

var executeMsgs = chain.NewUnion[ExecuteMsg]("saleable_msg", &BuyMsg{}, &UpdateMsg{})

func DecodeExecuteMsg(raw json.RawMessage) (ExecuteMsg, error) {
	return executeMsgs.Decode(raw)
}

// BuyResponse records a completed purchase and queues one bank transfer per payout.
func BuyResponse(buyer string, price coin.Coin, payouts []Payout) *chain.Response {
	res := chain.NewResponse().
		AddAttribute("amount_paid", strconv.FormatUint(price.Amount, 10)).
		AddAttribute("new_owner", buyer).
		AddAttribute("action", "execute_buy")
	for _, p := range payouts {
		res.AddMessage(chain.BankSend{ToAddress: p.Recipient, Amount: []coin.Coin{p.Amount}})
	}
	return res
}

func UpdateResponse(state State) *chain.Response {
	return chain.NewResponse().
		AddAttribute("for_sale_status_updated", strconv.FormatBool(state.ForSale))
}
