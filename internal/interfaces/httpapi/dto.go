package httpapi

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

type instantiateRequest struct {
	Sender string              `json:"sender" validate:"required"`
	Msg    jsoniter.RawMessage `json:"msg" validate:"required"`
	Funds  []coin.Coin         `json:"funds" validate:"omitempty,dive"`
	Label  string              `json:"label" validate:"required,max=128"`
}

type executeRequest struct {
	Sender string              `json:"sender" validate:"required"`
	Msg    jsoniter.RawMessage `json:"msg" validate:"required"`
	Funds  []coin.Coin         `json:"funds" validate:"omitempty,dive"`
}

type queryRequest struct {
	Msg jsoniter.RawMessage `json:"msg" validate:"required"`
}

type healthDTO struct {
	Status  string `json:"status"`
	ChainID string `json:"chain_id"`
	Height  uint64 `json:"height"`
}

type txResultDTO struct {
	Height          uint64     `json:"height"`
	ContractAddress string     `json:"contract_address,omitempty"`
	Data            []byte     `json:"data,omitempty"`
	Events          []eventOut `json:"events"`
}

type eventOut struct {
	Type       string         `json:"type"`
	Attributes []attributeDTO `json:"attributes"`
}

type attributeDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type balanceDTO struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
	Amount  uint64 `json:"amount"`
}

type eventDTO struct {
	EventID    string         `json:"event_id"`
	Height     uint64         `json:"height"`
	BlockTime  time.Time      `json:"block_time"`
	Contract   string         `json:"contract"`
	Sender     string         `json:"sender"`
	Action     string         `json:"action"`
	Index      int            `json:"event_index"`
	Type       string         `json:"event_type"`
	Attributes []attributeDTO `json:"attributes"`
}

func txResultToDTO(res chain.TxResult) txResultDTO {
	events := make([]eventOut, 0, len(res.Events))
	for _, ev := range res.Events {
		attrs := make([]attributeDTO, 0, len(ev.Attributes))
		for _, a := range ev.Attributes {
			attrs = append(attrs, attributeDTO{Key: a.Key, Value: a.Value})
		}
		events = append(events, eventOut{Type: ev.Type, Attributes: attrs})
	}
	return txResultDTO{
		Height:          res.Height,
		ContractAddress: res.ContractAddress,
		Data:            res.Data,
		Events:          events,
	}
}

func eventToDTO(entry eventlog.Entry) eventDTO {
	attrs := make([]attributeDTO, 0, len(entry.Attributes))
	for _, a := range entry.Attributes {
		attrs = append(attrs, attributeDTO{Key: a.Key, Value: a.Value})
	}
	return eventDTO{
		EventID:    entry.EventID,
		Height:     entry.Height,
		BlockTime:  entry.BlockTime,
		Contract:   entry.Contract,
		Sender:     entry.Sender,
		Action:     entry.Action,
		Index:      entry.Index,
		Type:       entry.Type,
		Attributes: attrs,
	}
}
