package task

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

type Contract struct {
	chain.NoReply
}

func New() *Contract {
	return &Contract{}
}

// Instantiate stores a new pending task. The creator is the owning
// application, which reads the returned Data in its reply.
func (c *Contract) Instantiate(_ context.Context, deps chain.Deps, env chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg InstantiateMsg
	if err := chain.Decode(raw, &msg); err != nil {
		return nil, err
	}
	if msg.EndDate != nil && !msg.EndDate.After(msg.StartDate) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", usecase.ErrInvalidInput)
	}
	admin := strings.TrimSpace(msg.Admin)
	if admin == "" {
		admin = info.Sender
	}

	t := Task{
		ID:                       msg.TaskID,
		Name:                     msg.Name,
		Description:              msg.Description,
		Admin:                    admin,
		Application:              info.Sender,
		StartDate:                msg.StartDate,
		EndDate:                  msg.EndDate,
		RewardThreshold:          msg.RewardThreshold,
		BondAmount:               coin.Normalize(msg.BondAmount),
		ExecMsg:                  msg.ExecMsg,
		TargetExecutableContract: msg.TargetExecutableContract,
		Status:                   StatusPending,
	}
	if err := state.Save(deps.Storage, t); err != nil {
		return nil, crerr.Wrap(err, "save task")
	}

	data, err := chain.Marshal(Data{
		TaskID:      t.ID,
		Name:        t.Name,
		Description: t.Description,
		TaskData:    infoOf(t, env.Contract.Address),
	})
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("application", info.Sender).
		AddAttribute("task_address", env.Contract.Address).
		SetData(data), nil
}

func infoOf(t Task, addr string) *Info {
	return &Info{
		TaskID:                   t.ID,
		TaskAddress:              addr,
		Status:                   t.Status,
		ExecMsg:                  t.ExecMsg,
		TargetExecutableContract: t.TargetExecutableContract,
		BondAmount:               t.BondAmount,
	}
}

func (c *Contract) Execute(_ context.Context, deps chain.Deps, _ chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	msg, err := executeMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}
	t, err := state.Load(deps.Storage)
	if err != nil {
		return nil, crerr.Wrap(err, "load task")
	}
	// Only the owning application talks to a task.
	if info.Sender != t.Application {
		return nil, usecase.Unauthorized(info.Sender)
	}

	switch m := msg.(type) {
	case *AddNode:
		return addNode(deps.Storage, m.XNodeAddress, info.Funds)
	case *UpdateStatus:
		if !m.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, m.Status)
		}
		t.Status = m.Status
		if err := state.Save(deps.Storage, t); err != nil {
			return nil, crerr.Wrap(err, "save task")
		}
		return chain.NewResponse().
			AddAttribute("action", "update_status").
			AddAttribute("status", string(t.Status)), nil
	default:
		return nil, chain.ErrInvalidMessage
	}
}

func addNode(store kv.Store, addr string, bond []coin.Coin) (*chain.Response, error) {
	exists, err := xnodes.Has(store, []byte(addr))
	if err != nil {
		return nil, crerr.Wrap(err, "load xnode")
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrNodeAlreadyAdded, addr)
	}
	node := XNode{NodeAddress: addr, BondedAmount: coin.Normalize(bond), Status: NodePending}
	if err := xnodes.Save(store, []byte(addr), node); err != nil {
		return nil, crerr.Wrap(err, "save xnode")
	}
	data, err := chain.Marshal(node)
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "add_node").
		AddAttribute("xnode_address", addr).
		SetData(data), nil
}

func (c *Contract) Query(_ context.Context, deps chain.Deps, _ chain.Env, raw json.RawMessage) ([]byte, error) {
	msg, err := queryMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}
	t, err := state.Load(deps.Storage)
	if err != nil {
		return nil, crerr.Wrap(err, "load task")
	}
	switch msg.(type) {
	case *GetInfo:
		records, err := xnodes.All(deps.Storage)
		if err != nil {
			return nil, crerr.Wrap(err, "list xnodes")
		}
		nodes := make([]XNode, 0, len(records))
		for _, r := range records {
			nodes = append(nodes, r.Value)
		}
		return chain.Marshal(InfoResponse{Data: Response{Task: t, XNodes: nodes}})
	case *GetName:
		return chain.Marshal(NameResponse{Name: t.Name})
	default:
		return nil, chain.ErrInvalidMessage
	}
}
