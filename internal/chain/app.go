package chain

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
)

var hostTracer = otel.Tracer("fantasy-league-contracts/internal/chain")

var contractMetas = kv.NewIndexedMap[ContractMeta]("host/contracts").
	WithIndex("code", func(_ []byte, m ContractMeta) []byte {
		return kv.Tuple(kv.Uint64(m.CodeID))
	})

var (
	instanceSeq = kv.NewCounter("host/instance_seq")
	blockHeight = kv.NewItem[uint64]("host/height")
	bankPrefix  = []byte("host/bank/")
)

type Options struct {
	ChainID       string
	AddressPrefix string
	// BlockInterval truncates block time. Zero keeps the clock's resolution.
	BlockInterval time.Duration
	Clock         clockwork.Clock
	Logger        *logging.Logger
	Emitter       *Emitter
}

// TxResult is what a committed top-level transaction produced.
type TxResult struct {
	Height          uint64  `json:"height"`
	ContractAddress string  `json:"contract_address,omitempty"`
	Data            []byte  `json:"data,omitempty"`
	Events          []Event `json:"events"`
}

// App runs contracts over a single store. Transactions are serialized; each
// one executes on a branch that is committed only when every message in it
// succeeds.
type App struct {
	mu       sync.RWMutex
	store    kv.Store
	clock    clockwork.Clock
	chainID  string
	prefix   string
	interval time.Duration
	logger   *logging.Logger
	emitter  *Emitter

	codes  map[uint64]Contract
	height uint64
}

func NewApp(store kv.Store, opts Options) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.ChainID == "" {
		opts.ChainID = "fantasy-local"
	}
	height, _, err := blockHeight.May(store)
	if err != nil {
		return nil, crerr.Wrap(err, "load block height")
	}
	return &App{
		store:    store,
		clock:    opts.Clock,
		chainID:  opts.ChainID,
		prefix:   opts.AddressPrefix,
		interval: opts.BlockInterval,
		logger:   opts.Logger,
		emitter:  opts.Emitter,
		codes:    make(map[uint64]Contract),
		height:   height,
	}, nil
}

// StoreCode registers a contract implementation and returns its code id.
// Ids are handed out in registration order starting at 1, so a node reopening
// a persistent store must register its codes in the same order.
func (a *App) StoreCode(contract Contract) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	codeID := uint64(len(a.codes) + 1)
	a.codes[codeID] = contract
	return codeID
}

func (a *App) Height() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.height
}

func (a *App) ChainID() string {
	return a.chainID
}

func (a *App) Instantiate(ctx context.Context, codeID uint64, sender string, msg json.RawMessage, funds []coin.Coin, label string) (TxResult, error) {
	return a.runTx(ctx, sender, "", "instantiate", func(ctx context.Context, tx *txContext, store kv.Store) (TxResult, error) {
		addr, data, events, err := tx.instantiate(ctx, store, sender, codeID, msg, funds, label)
		if err != nil {
			return TxResult{}, err
		}
		return TxResult{ContractAddress: addr, Data: data, Events: events}, nil
	})
}

func (a *App) Execute(ctx context.Context, contractAddr, sender string, msg json.RawMessage, funds []coin.Coin) (TxResult, error) {
	return a.runTx(ctx, sender, contractAddr, variantOf(msg), func(ctx context.Context, tx *txContext, store kv.Store) (TxResult, error) {
		data, events, err := tx.execute(ctx, store, sender, contractAddr, msg, funds)
		if err != nil {
			return TxResult{}, err
		}
		return TxResult{ContractAddress: contractAddr, Data: data, Events: events}, nil
	})
}

// Query runs a read-only query against committed state.
func (a *App) Query(ctx context.Context, contractAddr string, msg json.RawMessage) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	tx := &txContext{app: a, block: a.blockAt(a.height)}
	return tx.query(ctx, a.store, contractAddr, msg)
}

func (a *App) ContractInfo(_ context.Context, contractAddr string) (ContractMeta, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return loadMeta(a.store, contractAddr)
}

// Mint credits an account outside of any contract. It is how genesis balances
// and test funds are created.
func (a *App) Mint(_ context.Context, address string, amount coin.Coin) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.IsZero() {
		return nil
	}
	return credit(a.store, address, amount)
}

func (a *App) Balance(_ context.Context, address, denom string) (coin.Coin, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	amount, err := bankBalance(a.store, address, denom)
	if err != nil {
		return coin.Coin{}, err
	}
	return coin.New(amount, denom), nil
}

func (a *App) blockAt(height uint64) BlockInfo {
	now := a.clock.Now().UTC()
	if a.interval > 0 {
		now = now.Truncate(a.interval)
	}
	return BlockInfo{Height: height, Time: now, ChainID: a.chainID}
}

func (a *App) runTx(
	ctx context.Context,
	sender, contractAddr, action string,
	fn func(ctx context.Context, tx *txContext, store kv.Store) (TxResult, error),
) (TxResult, error) {
	ctx, span := hostTracer.Start(ctx, "chain.App."+action, trace.WithAttributes(
		attribute.String("chain.sender", sender),
		attribute.String("chain.contract", contractAddr),
	))
	defer span.End()

	a.mu.Lock()
	defer a.mu.Unlock()

	height := a.height + 1
	tx := &txContext{app: a, block: a.blockAt(height)}
	branch := kv.NewBranch(a.store)

	result, err := fn(ctx, tx, branch)
	if err != nil {
		branch.Discard()
		span.RecordError(err)
		a.logger.WarnContext(ctx, "transaction failed",
			"contract", contractAddr,
			"sender", sender,
			"action", action,
			"height", height,
			"error", err,
		)
		return TxResult{}, err
	}

	if err := blockHeight.Save(branch, height); err != nil {
		branch.Discard()
		return TxResult{}, crerr.Wrap(err, "save block height")
	}
	if err := branch.Write(); err != nil {
		return TxResult{}, crerr.Wrap(err, "commit transaction")
	}
	a.height = height
	result.Height = height

	if contractAddr == "" {
		contractAddr = result.ContractAddress
	}
	a.logger.InfoContext(ctx, "transaction committed",
		"contract", contractAddr,
		"sender", sender,
		"action", action,
		"height", height,
	)
	a.emitter.Publish(ctx, TxEvent{
		ChainID:  a.chainID,
		Height:   height,
		Time:     tx.block.Time,
		Contract: contractAddr,
		Sender:   sender,
		Action:   action,
		Events:   result.Events,
	})
	return result, nil
}

// txContext carries the block a transaction runs in through nested dispatch.
type txContext struct {
	app   *App
	block BlockInfo
}

func (t *txContext) env(contractAddr string) Env {
	return Env{Block: t.block, Contract: ContractInfo{Address: contractAddr}}
}

func (t *txContext) deps(store kv.Store, contractAddr string) Deps {
	return Deps{
		Storage: kv.NewPrefixStore(store, contractPrefix(contractAddr)),
		Querier: &querier{tx: t, store: store},
		Logger:  t.app.logger.With("contract", contractAddr),
	}
}

func (t *txContext) load(store kv.Reader, contractAddr string) (ContractMeta, Contract, error) {
	meta, err := loadMeta(store, contractAddr)
	if err != nil {
		return ContractMeta{}, nil, err
	}
	contract, ok := t.app.codes[meta.CodeID]
	if !ok {
		return ContractMeta{}, nil, crerr.Wrapf(ErrCodeNotFound, "code_id=%d", meta.CodeID)
	}
	return meta, contract, nil
}

func (t *txContext) instantiate(
	ctx context.Context,
	store kv.Store,
	sender string,
	codeID uint64,
	msg json.RawMessage,
	funds []coin.Coin,
	label string,
) (string, []byte, []Event, error) {
	contract, ok := t.app.codes[codeID]
	if !ok {
		return "", nil, nil, crerr.Wrapf(ErrCodeNotFound, "code_id=%d", codeID)
	}
	seq, err := instanceSeq.Next(store)
	if err != nil {
		return "", nil, nil, crerr.Wrap(err, "next instance sequence")
	}
	addr := ContractAddress(t.app.prefix, codeID, seq)
	meta := ContractMeta{Address: addr, CodeID: codeID, Creator: sender, Label: label}
	if err := contractMetas.Save(store, []byte(addr), meta); err != nil {
		return "", nil, nil, crerr.Wrap(err, "save contract meta")
	}

	events, err := transfer(store, sender, addr, funds)
	if err != nil {
		return "", nil, nil, err
	}
	events = append(events, Event{Type: "instantiate", Attributes: []Attribute{
		{Key: "_contract_address", Value: addr},
		{Key: "code_id", Value: strconv.FormatUint(codeID, 10)},
	}})

	resp, err := contract.Instantiate(ctx, t.deps(store, addr), t.env(addr), MessageInfo{Sender: sender, Funds: funds}, msg)
	if err != nil {
		return "", nil, nil, err
	}
	data, more, err := t.handleResponse(ctx, store, addr, resp)
	if err != nil {
		return "", nil, nil, err
	}
	return addr, data, append(events, more...), nil
}

func (t *txContext) execute(
	ctx context.Context,
	store kv.Store,
	sender, contractAddr string,
	msg json.RawMessage,
	funds []coin.Coin,
) ([]byte, []Event, error) {
	_, contract, err := t.load(store, contractAddr)
	if err != nil {
		return nil, nil, err
	}
	events, err := transfer(store, sender, contractAddr, funds)
	if err != nil {
		return nil, nil, err
	}
	events = append(events, Event{Type: "execute", Attributes: []Attribute{
		{Key: "_contract_address", Value: contractAddr},
	}})

	resp, err := contract.Execute(ctx, t.deps(store, contractAddr), t.env(contractAddr), MessageInfo{Sender: sender, Funds: funds}, msg)
	if err != nil {
		return nil, nil, err
	}
	data, more, err := t.handleResponse(ctx, store, contractAddr, resp)
	if err != nil {
		return nil, nil, err
	}
	return data, append(events, more...), nil
}

func (t *txContext) query(ctx context.Context, store kv.Store, contractAddr string, msg json.RawMessage) ([]byte, error) {
	_, contract, err := t.load(store, contractAddr)
	if err != nil {
		return nil, err
	}
	// Writes made by a query are dropped with the branch.
	scratch := kv.NewBranch(store)
	defer scratch.Discard()
	return contract.Query(ctx, t.deps(scratch, contractAddr), t.env(contractAddr), msg)
}

// handleResponse records the response's events and then runs its
// sub-messages in order. Data returned by a reply replaces the response data.
func (t *txContext) handleResponse(ctx context.Context, store kv.Store, contractAddr string, resp *Response) ([]byte, []Event, error) {
	if resp == nil {
		resp = NewResponse()
	}
	var events []Event
	if len(resp.Attributes) > 0 {
		attrs := make([]Attribute, 0, len(resp.Attributes)+1)
		attrs = append(attrs, Attribute{Key: "_contract_address", Value: contractAddr})
		attrs = append(attrs, resp.Attributes...)
		events = append(events, Event{Type: "wasm", Attributes: attrs})
	}
	for _, ev := range resp.Events {
		attrs := make([]Attribute, 0, len(ev.Attributes)+1)
		attrs = append(attrs, Attribute{Key: "_contract_address", Value: contractAddr})
		attrs = append(attrs, ev.Attributes...)
		events = append(events, Event{Type: "wasm-" + ev.Type, Attributes: attrs})
	}

	data := resp.Data
	for _, sub := range resp.Messages {
		override, subEvents, err := t.runSubMsg(ctx, store, contractAddr, sub)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, subEvents...)
		if override != nil {
			data = override
		}
	}
	return data, events, nil
}

// runSubMsg executes one sub-message on its own branch. A failure rolls the
// branch back and either aborts the caller or is delivered as a reply.
func (t *txContext) runSubMsg(ctx context.Context, store kv.Store, caller string, sub SubMsg) ([]byte, []Event, error) {
	branch := kv.NewBranch(store)
	result, events, err := t.dispatch(ctx, branch, caller, sub.Msg)
	if err == nil {
		if werr := branch.Write(); werr != nil {
			return nil, nil, crerr.Wrap(werr, "commit sub-message")
		}
		if !sub.ReplyOn.onSuccess() {
			return nil, events, nil
		}
		result.Events = events
		return t.reply(ctx, store, caller, Reply{ID: sub.ID, Result: result}, events)
	}

	branch.Discard()
	t.app.logger.WarnContext(ctx, "sub-message failed",
		"contract", caller,
		"submsg_id", sub.ID,
		"reply_on", int(sub.ReplyOn),
		"height", t.block.Height,
		"error", err,
	)
	if !sub.ReplyOn.onError() {
		return nil, nil, err
	}
	return t.reply(ctx, store, caller, Reply{ID: sub.ID, Result: SubMsgResult{Err: err.Error()}}, nil)
}

func (t *txContext) reply(ctx context.Context, store kv.Store, contractAddr string, reply Reply, prior []Event) ([]byte, []Event, error) {
	_, contract, err := t.load(store, contractAddr)
	if err != nil {
		return nil, nil, err
	}
	resp, err := contract.Reply(ctx, t.deps(store, contractAddr), t.env(contractAddr), reply)
	if err != nil {
		return nil, nil, err
	}
	data, events, err := t.handleResponse(ctx, store, contractAddr, resp)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Event, 0, len(prior)+len(events)+1)
	out = append(out, prior...)
	out = append(out, Event{Type: "reply", Attributes: []Attribute{
		{Key: "_contract_address", Value: contractAddr},
		{Key: "id", Value: strconv.FormatUint(reply.ID, 10)},
	}})
	return data, append(out, events...), nil
}

func (t *txContext) dispatch(ctx context.Context, store kv.Store, caller string, msg Msg) (SubMsgResult, []Event, error) {
	switch m := msg.(type) {
	case BankSend:
		events, err := transfer(store, caller, m.ToAddress, m.Amount)
		return SubMsgResult{}, events, err
	case WasmExecute:
		data, events, err := t.execute(ctx, store, caller, m.ContractAddr, m.Msg, m.Funds)
		return SubMsgResult{Data: data}, events, err
	case WasmInstantiate:
		addr, data, events, err := t.instantiate(ctx, store, caller, m.CodeID, m.Msg, m.Funds, m.Label)
		return SubMsgResult{Data: data, ContractAddress: addr}, events, err
	default:
		return SubMsgResult{}, nil, invalidMessage(nil, "unsupported message %T", msg)
	}
}

// querier is bound to the store of the message being executed, so contracts
// see the writes made earlier in the same transaction.
type querier struct {
	tx    *txContext
	store kv.Store
}

func (q *querier) QueryContract(ctx context.Context, address string, msg json.RawMessage) ([]byte, error) {
	return q.tx.query(ctx, q.store, address, msg)
}

func (q *querier) ContractInfo(_ context.Context, address string) (ContractMeta, error) {
	return loadMeta(q.store, address)
}

func (q *querier) Balance(_ context.Context, address, denom string) (coin.Coin, error) {
	amount, err := bankBalance(q.store, address, denom)
	if err != nil {
		return coin.Coin{}, err
	}
	return coin.New(amount, denom), nil
}

func loadMeta(store kv.Reader, contractAddr string) (ContractMeta, error) {
	meta, ok, err := contractMetas.May(store, []byte(contractAddr))
	if err != nil {
		return ContractMeta{}, crerr.Wrap(err, "load contract meta")
	}
	if !ok {
		return ContractMeta{}, crerr.Wrapf(ErrContractNotFound, "address=%s", contractAddr)
	}
	return meta, nil
}

func contractPrefix(contractAddr string) []byte {
	return []byte("c/" + contractAddr + "/")
}

func bankKey(address, denom string) []byte {
	return append(append([]byte{}, bankPrefix...), kv.Tuple(kv.String(address), kv.String(denom))...)
}

func bankBalance(store kv.Reader, address, denom string) (uint64, error) {
	raw, err := store.Get(bankKey(address, denom))
	if crerr.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, crerr.Wrap(err, "load balance")
	}
	return binary.BigEndian.Uint64(raw), nil
}

func setBankBalance(store kv.Store, address, denom string, amount uint64) error {
	if amount == 0 {
		return store.Delete(bankKey(address, denom))
	}
	return store.Set(bankKey(address, denom), binary.BigEndian.AppendUint64(nil, amount))
}

// credit adds c to address. A balance that would wrap past MaxUint64 is
// refused and left as it was.
func credit(store kv.Store, address string, c coin.Coin) error {
	have, err := bankBalance(store, address, c.Denom)
	if err != nil {
		return err
	}
	sum, ok := coin.AddAmount(have, c.Amount)
	if !ok {
		return invalidMessage(nil, "balance overflow: %s holds %d%s, crediting %s", address, have, c.Denom, c)
	}
	return setBankBalance(store, address, c.Denom, sum)
}

// fundsTotal rejects fund lists whose per-denom total overflows, before
// Normalize merges them.
func fundsTotal(funds []coin.Coin) error {
	totals := make(map[string]uint64, len(funds))
	for _, c := range funds {
		sum, ok := coin.AddAmount(totals[c.Denom], c.Amount)
		if !ok {
			return invalidMessage(nil, "funds overflow in %s", c.Denom)
		}
		totals[c.Denom] = sum
	}
	return nil
}

func transfer(store kv.Store, from, to string, funds []coin.Coin) ([]Event, error) {
	if err := fundsTotal(funds); err != nil {
		return nil, err
	}
	funds = coin.Normalize(funds)
	if len(funds) == 0 {
		return nil, nil
	}
	for _, c := range funds {
		have, err := bankBalance(store, from, c.Denom)
		if err != nil {
			return nil, err
		}
		if have < c.Amount {
			return nil, crerr.Wrapf(ErrInsufficientFunds, "%s has %d%s, needs %s", from, have, c.Denom, c)
		}
		if err := setBankBalance(store, from, c.Denom, have-c.Amount); err != nil {
			return nil, err
		}
		if err := credit(store, to, c); err != nil {
			return nil, err
		}
	}
	return []Event{{Type: "transfer", Attributes: []Attribute{
		{Key: "recipient", Value: to},
		{Key: "sender", Value: from},
		{Key: "amount", Value: coin.Format(funds)},
	}}}, nil
}

// variantOf names a top-level execute message for logs and the event index.
func variantOf(msg json.RawMessage) string {
	var tag string
	if err := sonic.Unmarshal(msg, &tag); err == nil {
		return tag
	}
	var envelope map[string]json.RawMessage
	if err := sonic.Unmarshal(msg, &envelope); err != nil || len(envelope) != 1 {
		return "execute"
	}
	for k := range envelope {
		return k
	}
	return "execute"
}

func (m ContractMeta) String() string {
	return fmt.Sprintf("%s(code=%d)", m.Address, m.CodeID)
}
