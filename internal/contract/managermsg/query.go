package managermsg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/team"
)

type QueryMsg interface {
	chain.Variant
	isManagerQuery()
}

type GetManagedContract struct {
	ContractAddress string `json:"contract_address" validate:"required"`
}

type ManagementInfo struct{}

type GetOwnerAssets struct {
	Owner string `json:"owner" validate:"required"`
}

type GetAssetsForSale struct {
	AssetType asset.Type `json:"asset_type"`
}

type GetAllSeasonsForLeague struct {
	League string `json:"league" validate:"required"`
}

type GetActiveSeasonsForLeague struct {
	League string `json:"league" validate:"required"`
}

type GetUpcomingSeasonsForLeague struct {
	League string `json:"league" validate:"required"`
}

type GetPastSeasonsForLeague struct {
	League string `json:"league" validate:"required"`
}

type GetSeasonByID struct {
	SeasonID uint64 `json:"season_id" validate:"required"`
}

type GetUpcomingSeasonsForAllLeagues struct{}

type CheckSeasonDateRangeForLeague struct {
	League    string    `json:"league" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type GetMessagesToItem struct {
	Item      string     `json:"item" validate:"required"`
	AssetType asset.Type `json:"asset_type"`
}

type GetMessagesFromItem struct {
	Item      string     `json:"item" validate:"required"`
	AssetType asset.Type `json:"asset_type"`
}

type GetLeagueTeams struct {
	League string `json:"league" validate:"required"`
}

type GetPlayerByName struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type GetSeasonDeposits struct {
	SeasonID uint64 `json:"season_id" validate:"required"`
}

type GetTeamDeposits struct {
	Team string `json:"team" validate:"required"`
}

type ListMembers struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

func (*GetManagedContract) VariantName() string              { return "get_managed_contract" }
func (*ManagementInfo) VariantName() string                  { return "management_info" }
func (*GetOwnerAssets) VariantName() string                  { return "get_owner_assets" }
func (*GetAssetsForSale) VariantName() string                { return "get_assets_for_sale" }
func (*GetAllSeasonsForLeague) VariantName() string          { return "get_all_seasons_for_league" }
func (*GetActiveSeasonsForLeague) VariantName() string       { return "get_active_seasons_for_league" }
func (*GetUpcomingSeasonsForLeague) VariantName() string     { return "get_upcoming_seasons_for_league" }
func (*GetPastSeasonsForLeague) VariantName() string         { return "get_past_seasons_for_league" }
func (*GetSeasonByID) VariantName() string                   { return "get_season_by_id" }
func (*GetUpcomingSeasonsForAllLeagues) VariantName() string { return "get_upcoming_seasons_for_all_leagues" }
func (*CheckSeasonDateRangeForLeague) VariantName() string   { return "check_season_date_range_for_league" }
func (*GetMessagesToItem) VariantName() string               { return "get_messages_to_item" }
func (*GetMessagesFromItem) VariantName() string             { return "get_messages_from_item" }
func (*GetLeagueTeams) VariantName() string                  { return "get_league_teams" }
func (*GetPlayerByName) VariantName() string                 { return "get_player_by_name" }
func (*GetSeasonDeposits) VariantName() string               { return "get_season_deposits" }
func (*GetTeamDeposits) VariantName() string                 { return "get_team_deposits" }
func (*ListMembers) VariantName() string                     { return "list_members" }

func (*GetManagedContract) isManagerQuery()              {}
func (*ManagementInfo) isManagerQuery()                  {}
func (*GetOwnerAssets) isManagerQuery()                  {}
func (*GetAssetsForSale) isManagerQuery()                {}
func (*GetAllSeasonsForLeague) isManagerQuery()          {}
func (*GetActiveSeasonsForLeague) isManagerQuery()       {}
func (*GetUpcomingSeasonsForLeague) isManagerQuery()     {}
func (*GetPastSeasonsForLeague) isManagerQuery()         {}
func (*GetSeasonByID) isManagerQuery()                   {}
func (*GetUpcomingSeasonsForAllLeagues) isManagerQuery() {}
func (*CheckSeasonDateRangeForLeague) isManagerQuery()   {}
func (*GetMessagesToItem) isManagerQuery()               {}
func (*GetMessagesFromItem) isManagerQuery()             {}
func (*GetLeagueTeams) isManagerQuery()                  {}
func (*GetPlayerByName) isManagerQuery()                 {}
func (*GetSeasonDeposits) isManagerQuery()               {}
func (*GetTeamDeposits) isManagerQuery()                 {}
func (*ListMembers) isManagerQuery()                     {}

var queryMsgs = chain.NewUnion[QueryMsg]("manager_query_msg",
	&GetManagedContract{},
	&ManagementInfo{},
	&GetOwnerAssets{},
	&GetAssetsForSale{},
	&GetAllSeasonsForLeague{},
	&GetActiveSeasonsForLeague{},
	&GetUpcomingSeasonsForLeague{},
	&GetPastSeasonsForLeague{},
	&GetSeasonByID{},
	&GetUpcomingSeasonsForAllLeagues{},
	&CheckSeasonDateRangeForLeague{},
	&GetMessagesToItem{},
	&GetMessagesFromItem{},
	&GetLeagueTeams{},
	&GetPlayerByName{},
	&GetSeasonDeposits{},
	&GetTeamDeposits{},
	&ListMembers{},
)

func DecodeQueryMsg(raw json.RawMessage) (QueryMsg, error) {
	return queryMsgs.Decode(raw)
}

type AssetResponse struct {
	Asset asset.ManagedAsset `json:"asset"`
}

type AssetsResponse struct {
	Assets []asset.ManagedAsset `json:"assets"`
}

type SeasonsResponse struct {
	Seasons []season.Season `json:"seasons"`
}

type SeasonResponse struct {
	Season season.Season `json:"season"`
}

type DateRangeResponse struct {
	Available          bool     `json:"available"`
	ConflictingSeasons []uint64 `json:"conflicting_seasons"`
}

type MessagesResponse struct {
	Messages []messaging.JoinRequest `json:"messages"`
}

type TeamsResponse struct {
	Teams []team.Team `json:"teams"`
}

type PlayerResponse struct {
	Player *player.Player `json:"player"`
}

type DepositsResponse struct {
	Deposits []season.LedgerEntry `json:"deposits"`
}

type MembersResponse struct {
	Members []groupadmin.Member `json:"members"`
}

// Query runs a manager query through the caller's querier and decodes the answer.
func Query[T any](ctx context.Context, querier chain.Querier, manager string, msg QueryMsg) (T, error) {
	var out T
	body, err := chain.Encode(msg)
	if err != nil {
		return out, err
	}
	raw, err := querier.QueryContract(ctx, manager, body)
	if err != nil {
		return out, err
	}
	if err := chain.Decode(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
