// Package team is the team asset contract: a managed, saleable roster of
// player contracts that joins league seasons through the manager.
package team

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managed"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/policy"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	playerdomain "github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

type Data struct {
	Address string          `json:"address"`
	Owner   string          `json:"owner"`
	Name    string          `json:"name"`
	Created chain.BlockInfo `json:"created"`
	Roster  Roster          `json:"roster"`
}

var state = kv.NewItem[Data]("team")

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
		Roster:  Roster{},
	}
	if err := state.Save(deps.Storage, data); err != nil {
		return nil, crerr.Wrap(err, "save team")
	}
	return managed.Init(deps.Storage, info.Sender, msg.Params(asset.TypeTeam), managed.ManagerCallbacks())
}

func (c *Contract) Execute(ctx context.Context, deps chain.Deps, _ chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	msg, err := executeMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *ManagedServiceMessage:
		inner, err := managed.DecodeExecuteMsg(m.Message)
		if err != nil {
			return nil, err
		}
		return managed.Exec(ctx, deps, info, inner, true, managed.ManagerCallbacks())
	case *AddPlayersToTeam:
		return addPlayers(ctx, deps, info.Sender, m.Players)
	case *RemovePlayersFromTeam:
		return removePlayers(deps.Storage, info.Sender, m.Players)
	case *JoinLeague:
		return forward(deps.Storage, info.Sender, "join_league", m.SeasonID, &managermsg.JoinLeague{SeasonID: m.SeasonID})
	case *JoinLeagueWinnerTakeAll:
		if m.Fee.IsZero() {
			return nil, fmt.Errorf("%w: fee is required", usecase.ErrIncorrectFundingSent)
		}
		return forward(deps.Storage, info.Sender, "join_league_winner_take_all", m.SeasonID,
			&managermsg.JoinLeagueWinnerTakeAll{SeasonID: m.SeasonID, Fee: m.Fee}, m.Fee)
	case *CancelSeasonSpot:
		return forward(deps.Storage, info.Sender, "cancel_season_spot", m.SeasonID, &managermsg.CancelSeasonSpot{SeasonID: m.SeasonID})
	default:
		return nil, chain.ErrInvalidMessage
	}
}

// addPlayers fills roster slots and registers the players with the manager.
// The manager rejects names already held by another team, which rolls the
// whole transaction back.
func addPlayers(ctx context.Context, deps chain.Deps, sender string, assignments []Assignment) (*chain.Response, error) {
	if err := groupadmin.AssertAdmin(deps.Storage, sender); err != nil {
		return nil, err
	}
	manager, err := managed.Manager(deps.Storage)
	if err != nil {
		return nil, err
	}
	data, err := state.Load(deps.Storage)
	if err != nil {
		return nil, crerr.Wrap(err, "load team")
	}
	roster, players, err := verifyAssignments(ctx, deps.Querier, data.Roster, assignments)
	if err != nil {
		return nil, err
	}
	data.Roster = roster
	if err := state.Save(deps.Storage, data); err != nil {
		return nil, crerr.Wrap(err, "save team")
	}

	call, err := managermsg.Call(manager, &managermsg.AddPlayersToTeam{Players: players})
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "create_players").
		AddAttribute("sender", sender).
		AddAttribute("player_count", strconv.Itoa(len(players))).
		AddMessage(call), nil
}

func removePlayers(store kv.Store, sender string, assignments []Assignment) (*chain.Response, error) {
	if err := groupadmin.AssertAdmin(store, sender); err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, ErrPositionAssignmentsNotProvided
	}
	data, err := state.Load(store)
	if err != nil {
		return nil, crerr.Wrap(err, "load team")
	}
	roster := data.Roster.clone()
	for _, a := range assignments {
		if err := roster.release(a); err != nil {
			return nil, err
		}
	}
	data.Roster = roster
	if err := state.Save(store, data); err != nil {
		return nil, crerr.Wrap(err, "save team")
	}
	return chain.NewResponse().
		AddAttribute("action", "remove_players").
		AddAttribute("sender", sender).
		AddAttribute("player_count", strconv.Itoa(len(assignments))), nil
}

// forward relays a season message to the manager on behalf of the team. Only
// the team admin may commit the team to a season.
func forward(store kv.Reader, sender, action string, seasonID uint64, msg managermsg.ExecuteMsg, funds ...coin.Coin) (*chain.Response, error) {
	if err := groupadmin.AssertAdmin(store, sender); err != nil {
		return nil, err
	}
	manager, err := managed.Manager(store)
	if err != nil {
		return nil, err
	}
	call, err := managermsg.Call(manager, msg, funds...)
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", action).
		AddAttribute("sender", sender).
		AddAttribute("season_id", strconv.FormatUint(seasonID, 10)).
		AddMessage(call), nil
}

func (c *Contract) Query(_ context.Context, deps chain.Deps, _ chain.Env, raw json.RawMessage) ([]byte, error) {
	msg, err := queryMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}
	data, err := state.Load(deps.Storage)
	if err != nil {
		return nil, crerr.Wrap(err, "load team")
	}

	switch m := msg.(type) {
	case *GetInfo:
		res, err := managed.QueryInfo(deps.Storage, data)
		if err != nil {
			return nil, err
		}
		return chain.Marshal(res)
	case *GetName:
		return chain.Marshal(managed.NameResponse{Name: data.Name})
	case *GetPlayer:
		res := PlayerResponse{}
		if addr, ok := data.Roster[m.Position]; ok {
			slot := slotOf(m.Position, addr)
			res.Player = &slot
		}
		return chain.Marshal(res)
	case *GetAllPlayers:
		return chain.Marshal(PlayersResponse{Players: data.Roster.slots(func(playerdomain.Position) bool { return true })})
	case *GetOffense:
		return chain.Marshal(PlayersResponse{Players: data.Roster.slots(playerdomain.Position.Offense)})
	case *GetDefense:
		return chain.Marshal(PlayersResponse{Players: data.Roster.slots(func(p playerdomain.Position) bool { return !p.Offense() })})
	default:
		return nil, chain.ErrInvalidMessage
	}
}
