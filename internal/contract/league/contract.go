// Package league is the league asset contract. Seasons, enrollments and
// refunds live in the manager; the league admin drives them from here.
package league

import (
	"context"
	"encoding/json"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managed"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/policy"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

type Data struct {
	Address string          `json:"address"`
	Owner   string          `json:"owner"`
	Name    string          `json:"name"`
	Created chain.BlockInfo `json:"created"`
}

var state = kv.NewItem[Data]("league")

type Contract struct {
	chain.NoReply

	creators policy.CreatorPolicy
}

func New(creators policy.CreatorPolicy) *Contract {
	return &Contract{creators: creators}
}

func (c *Contract) Instantiate(_ context.Context, deps chain.Deps, env chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg managed.InstantiateMsg
	if err := chain.Decode(raw, &msg); err != nil {
		return nil, err
	}
	if err := c.creators.Authorize(info.Sender); err != nil {
		return nil, err
	}
	data := Data{
		Address: env.Contract.Address,
		Owner:   info.Sender,
		Name:    msg.Name,
		Created: env.Block,
	}
	if err := state.Save(deps.Storage, data); err != nil {
		return nil, crerr.Wrap(err, "save league")
	}
	return managed.Init(deps.Storage, info.Sender, msg.Params(asset.TypeLeague), managed.ManagerCallbacks())
}

func (c *Contract) Execute(ctx context.Context, deps chain.Deps, _ chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	msg, err := executeMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}
	if m, ok := msg.(*ManagedServiceMessage); ok {
		inner, err := managed.DecodeExecuteMsg(m.Message)
		if err != nil {
			return nil, err
		}
		return managed.Exec(ctx, deps, info, inner, true, managed.ManagerCallbacks())
	}

	if err := groupadmin.AssertAdmin(deps.Storage, info.Sender); err != nil {
		return nil, err
	}
	manager, err := managed.Manager(deps.Storage)
	if err != nil {
		return nil, err
	}

	res := chain.NewResponse().AddAttribute("sender", info.Sender)
	var call managermsg.ExecuteMsg
	switch m := msg.(type) {
	case *AddSeasonToLeague:
		res.AddAttribute("action", "add_season_to_league").
			AddAttribute("season_name", m.Season.Name)
		call = &managermsg.AddSeasonToLeague{Season: m.Season}
	case *AddTeamsToLeague:
		res.AddAttribute("action", "add_teams_to_league").
			AddAttribute("team_count", strconv.Itoa(len(m.TeamAddresses)))
		call = &managermsg.AddTeamsToLeague{Teams: m.TeamAddresses, SendingUser: info.Sender}
	case *UpdateMessageStatus:
		res.AddAttribute("action", "update_message_status").
			AddAttribute("season_id", strconv.FormatUint(m.SeasonID, 10)).
			AddAttribute("status", string(m.UpdatedMessageStatus))
		call = &managermsg.UpdateSeasonStatus{SeasonID: m.SeasonID, Status: m.UpdatedMessageStatus}
	default:
		return nil, chain.ErrInvalidMessage
	}

	exec, err := managermsg.Call(manager, call)
	if err != nil {
		return nil, err
	}
	return res.AddMessage(exec), nil
}

func (c *Contract) Query(_ context.Context, deps chain.Deps, _ chain.Env, raw json.RawMessage) ([]byte, error) {
	msg, err := queryMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}
	data, err := state.Load(deps.Storage)
	if err != nil {
		return nil, crerr.Wrap(err, "load league")
	}
	switch msg.(type) {
	case *GetInfo:
		res, err := managed.QueryInfo(deps.Storage, data)
		if err != nil {
			return nil, err
		}
		return chain.Marshal(res)
	case *GetName:
		return chain.Marshal(managed.NameResponse{Name: data.Name})
	default:
		return nil, chain.ErrInvalidMessage
	}
}
