// Package chain is the in-process contract host: it stores code, instantiates
// and executes contracts, moves funds, and dispatches the sub-messages
// contracts emit, delivering replies back to them.
package chain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
)

type BlockInfo struct {
	Height  uint64    `json:"height"`
	Time    time.Time `json:"time"`
	ChainID string    `json:"chain_id"`
}

type ContractInfo struct {
	Address string `json:"address"`
}

type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

type MessageInfo struct {
	Sender string      `json:"sender"`
	Funds  []coin.Coin `json:"funds"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// ReplyOn says when the emitting contract wants to hear back about a sub-message.
type ReplyOn uint8

const (
	ReplyNever ReplyOn = iota
	ReplyOnSuccess
	ReplyOnError
	ReplyAlways
)

func (r ReplyOn) onSuccess() bool { return r == ReplyOnSuccess || r == ReplyAlways }
func (r ReplyOn) onError() bool   { return r == ReplyOnError || r == ReplyAlways }

// Msg is one of BankSend, WasmExecute or WasmInstantiate.
type Msg interface {
	isMsg()
}

type BankSend struct {
	ToAddress string      `json:"to_address"`
	Amount    []coin.Coin `json:"amount"`
}

type WasmExecute struct {
	ContractAddr string          `json:"contract_addr"`
	Msg          json.RawMessage `json:"msg"`
	Funds        []coin.Coin     `json:"funds"`
}

type WasmInstantiate struct {
	CodeID uint64          `json:"code_id"`
	Msg    json.RawMessage `json:"msg"`
	Funds  []coin.Coin     `json:"funds"`
	Label  string          `json:"label"`
}

func (BankSend) isMsg()        {}
func (WasmExecute) isMsg()     {}
func (WasmInstantiate) isMsg() {}

// SubMsg is a deferred effect. ID correlates the reply.
type SubMsg struct {
	ID      uint64
	Msg     Msg
	ReplyOn ReplyOn
}

type SubMsgResult struct {
	Data            []byte  `json:"data,omitempty"`
	ContractAddress string  `json:"contract_address,omitempty"`
	Events          []Event `json:"events,omitempty"`
	Err             string  `json:"error,omitempty"`
}

func (r SubMsgResult) OK() bool {
	return r.Err == ""
}

type Reply struct {
	ID     uint64       `json:"id"`
	Result SubMsgResult `json:"result"`
}

// Response is what a contract entry point returns on success.
type Response struct {
	Attributes []Attribute
	Messages   []SubMsg
	Events     []Event
	Data       []byte
}

func NewResponse() *Response {
	return &Response{}
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddMessage queues a fire-and-forget sub-message. A failure aborts the transaction.
func (r *Response) AddMessage(msg Msg) *Response {
	r.Messages = append(r.Messages, SubMsg{Msg: msg, ReplyOn: ReplyNever})
	return r
}

func (r *Response) AddSubMessage(sub SubMsg) *Response {
	r.Messages = append(r.Messages, sub)
	return r
}

func (r *Response) AddEvent(event Event) *Response {
	r.Events = append(r.Events, event)
	return r
}

func (r *Response) SetData(data []byte) *Response {
	r.Data = data
	return r
}

// ContractMeta is what the host knows about an instance.
type ContractMeta struct {
	Address string `json:"address"`
	CodeID  uint64 `json:"code_id"`
	Creator string `json:"creator"`
	Label   string `json:"label"`
}

// Querier gives a contract read access to the rest of the chain as of the
// current point in the transaction.
type Querier interface {
	QueryContract(ctx context.Context, address string, msg json.RawMessage) ([]byte, error)
	ContractInfo(ctx context.Context, address string) (ContractMeta, error)
	Balance(ctx context.Context, address, denom string) (coin.Coin, error)
}

type Deps struct {
	Storage kv.Store
	Querier Querier
	Logger  *logging.Logger
}

// Contract is implemented by every contract type the host can run.
type Contract interface {
	Instantiate(ctx context.Context, deps Deps, env Env, info MessageInfo, msg json.RawMessage) (*Response, error)
	Execute(ctx context.Context, deps Deps, env Env, info MessageInfo, msg json.RawMessage) (*Response, error)
	Query(ctx context.Context, deps Deps, env Env, msg json.RawMessage) ([]byte, error)
	Reply(ctx context.Context, deps Deps, env Env, reply Reply) (*Response, error)
}

// NoReply can be embedded by contracts that never ask for replies.
type NoReply struct{}

func (NoReply) Reply(_ context.Context, _ Deps, _ Env, reply Reply) (*Response, error) {
	return nil, &UnexpectedReplyError{ID: reply.ID}
}
