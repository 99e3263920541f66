package team

import (
	"encoding/json"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	playerdomain "github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

// Assignment puts the player contract at Address into a roster slot.
type Assignment struct {
	Address  string                `json:"address" validate:"required"`
	Position playerdomain.Position `json:"position" validate:"required"`
}

type ExecuteMsg interface {
	chain.Variant
	isTeamMsg()
}

type ManagedServiceMessage struct {
	Message json.RawMessage `json:"message" validate:"required"`
}

type AddPlayersToTeam struct {
	Players []Assignment `json:"players" validate:"dive"`
}

type RemovePlayersFromTeam struct {
	Players []Assignment `json:"players" validate:"dive"`
}

type JoinLeague struct {
	SeasonID uint64 `json:"season_id" validate:"required"`
}

type JoinLeagueWinnerTakeAll struct {
	SeasonID uint64    `json:"season_id" validate:"required"`
	Fee      coin.Coin `json:"fee"`
}

type CancelSeasonSpot struct {
	SeasonID uint64 `json:"season_id" validate:"required"`
}

func (*ManagedServiceMessage) VariantName() string   { return "managed_service_message" }
func (*AddPlayersToTeam) VariantName() string        { return "add_players_to_team" }
func (*RemovePlayersFromTeam) VariantName() string   { return "remove_players_from_team" }
func (*JoinLeague) VariantName() string              { return "join_league" }
func (*JoinLeagueWinnerTakeAll) VariantName() string { return "join_league_winner_take_all" }
func (*CancelSeasonSpot) VariantName() string        { return "cancel_season_spot" }

func (*ManagedServiceMessage) isTeamMsg()   {}
func (*AddPlayersToTeam) isTeamMsg()        {}
func (*RemovePlayersFromTeam) isTeamMsg()   {}
func (*JoinLeague) isTeamMsg()              {}
func (*JoinLeagueWinnerTakeAll) isTeamMsg() {}
func (*CancelSeasonSpot) isTeamMsg()        {}

var executeMsgs = chain.NewUnion[ExecuteMsg]("team_execute_msg",
	&ManagedServiceMessage{},
	&AddPlayersToTeam{},
	&RemovePlayersFromTeam{},
	&JoinLeague{},
	&JoinLeagueWinnerTakeAll{},
	&CancelSeasonSpot{},
)

type QueryMsg interface {
	chain.Variant
	isTeamQuery()
}

type GetInfo struct{}

type GetName struct{}

type GetPlayer struct {
	Position playerdomain.Position `json:"position" validate:"required"`
}

type GetAllPlayers struct{}

type GetOffense struct{}

type GetDefense struct{}

func (*GetInfo) VariantName() string       { return "get_info" }
func (*GetName) VariantName() string       { return "get_name" }
func (*GetPlayer) VariantName() string     { return "get_player" }
func (*GetAllPlayers) VariantName() string { return "get_all_players" }
func (*GetOffense) VariantName() string    { return "get_offense" }
func (*GetDefense) VariantName() string    { return "get_defense" }

func (*GetInfo) isTeamQuery()       {}
func (*GetName) isTeamQuery()       {}
func (*GetPlayer) isTeamQuery()     {}
func (*GetAllPlayers) isTeamQuery() {}
func (*GetOffense) isTeamQuery()    {}
func (*GetDefense) isTeamQuery()    {}

var queryMsgs = chain.NewUnion[QueryMsg]("team_query_msg",
	&GetInfo{}, &GetName{}, &GetPlayer{}, &GetAllPlayers{}, &GetOffense{}, &GetDefense{},
)

// Slot is one filled roster position.
type Slot struct {
	Player     string                `json:"player"`
	Position   playerdomain.Position `json:"position"`
	SideOfBall SideOfBall            `json:"side_of_ball"`
}

type SideOfBall string

const (
	Offense SideOfBall = "offense"
	Defense SideOfBall = "defense"
)

type PlayersResponse struct {
	Players []Slot `json:"players"`
}

type PlayerResponse struct {
	Player *Slot `json:"player"`
}
