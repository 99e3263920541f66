package manager

import (
	"context"
	"encoding/json"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
)

func (c *Contract) Query(ctx context.Context, deps chain.Deps, env chain.Env, raw json.RawMessage) ([]byte, error) {
	msg, err := managermsg.DecodeQueryMsg(raw)
	if err != nil {
		return nil, err
	}
	out, err := c.query(ctx, deps, env, msg)
	if err != nil {
		return nil, err
	}
	return chain.Marshal(out)
}

func (c *Contract) query(ctx context.Context, deps chain.Deps, env chain.Env, msg managermsg.QueryMsg) (any, error) {
	svc := newServices(deps.Storage, env.Block.Time)

	switch m := msg.(type) {
	case *managermsg.GetManagedContract:
		record, err := svc.registry.Get(ctx, m.ContractAddress)
		if err != nil {
			return nil, err
		}
		return managermsg.AssetResponse{Asset: record}, nil
	case *managermsg.ManagementInfo:
		return svc.management.Info(ctx)
	case *managermsg.GetOwnerAssets:
		items, err := svc.registry.ListByOwner(ctx, m.Owner)
		return managermsg.AssetsResponse{Assets: items}, err
	case *managermsg.GetAssetsForSale:
		items, err := svc.registry.ListForSale(ctx, m.AssetType)
		return managermsg.AssetsResponse{Assets: items}, err
	case *managermsg.GetAllSeasonsForLeague:
		return seasonsFor(ctx, svc, m.League, season.FilterAll)
	case *managermsg.GetActiveSeasonsForLeague:
		return seasonsFor(ctx, svc, m.League, season.FilterActive)
	case *managermsg.GetUpcomingSeasonsForLeague:
		return seasonsFor(ctx, svc, m.League, season.FilterUpcoming)
	case *managermsg.GetPastSeasonsForLeague:
		return seasonsFor(ctx, svc, m.League, season.FilterPast)
	case *managermsg.GetSeasonByID:
		found, err := svc.seasons.Get(ctx, m.SeasonID)
		if err != nil {
			return nil, err
		}
		return managermsg.SeasonResponse{Season: found}, nil
	case *managermsg.GetUpcomingSeasonsForAllLeagues:
		items, err := svc.seasons.ListUpcoming(ctx)
		return managermsg.SeasonsResponse{Seasons: items}, err
	case *managermsg.CheckSeasonDateRangeForLeague:
		conflicts, err := svc.seasons.CheckDateRange(ctx, m.League, m.StartDate, m.EndDate)
		return managermsg.DateRangeResponse{Available: len(conflicts) == 0, ConflictingSeasons: conflicts}, err
	case *managermsg.GetMessagesToItem:
		items, err := svc.invites.MessagesTo(ctx, m.AssetType, m.Item)
		return managermsg.MessagesResponse{Messages: items}, err
	case *managermsg.GetMessagesFromItem:
		items, err := svc.invites.MessagesFrom(ctx, m.AssetType, m.Item)
		return managermsg.MessagesResponse{Messages: items}, err
	case *managermsg.GetLeagueTeams:
		items, err := svc.teams.ListByLeague(ctx, m.League)
		return managermsg.TeamsResponse{Teams: items}, err
	case *managermsg.GetPlayerByName:
		found, exists, err := svc.players.GetByName(ctx, m.FirstName, m.LastName)
		if err != nil || !exists {
			return managermsg.PlayerResponse{}, err
		}
		return managermsg.PlayerResponse{Player: &found}, nil
	case *managermsg.GetSeasonDeposits:
		items, err := svc.seasons.Deposits(ctx, m.SeasonID)
		return managermsg.DepositsResponse{Deposits: items}, err
	case *managermsg.GetTeamDeposits:
		items, err := svc.seasons.TeamDeposits(ctx, m.Team)
		return managermsg.DepositsResponse{Deposits: items}, err
	case *managermsg.ListMembers:
		items, err := groupadmin.ListMembers(deps.Storage, m.StartAfter, m.Limit)
		return managermsg.MembersResponse{Members: items}, err
	default:
		return nil, chain.ErrInvalidMessage
	}
}

func seasonsFor(ctx context.Context, svc services, league string, filter season.Filter) (managermsg.SeasonsResponse, error) {
	items, err := svc.seasons.ListByLeague(ctx, league, filter)
	return managermsg.SeasonsResponse{Seasons: items}, err
}
