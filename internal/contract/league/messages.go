package league

import (
	"encoding/json"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
)

type ExecuteMsg interface {
	chain.Variant
	isLeagueMsg()
}

type ManagedServiceMessage struct {
	Message json.RawMessage `json:"message" validate:"required"`
}

type AddSeasonToLeague struct {
	Season managermsg.SeasonInput `json:"season"`
}

type AddTeamsToLeague struct {
	TeamAddresses []string `json:"team_addresses" validate:"required,min=1"`
}

// UpdateMessageStatus changes the status of the league's join messages for
// one season. Only cancel_season is accepted by the manager.
type UpdateMessageStatus struct {
	SeasonID             uint64           `json:"season_id" validate:"required"`
	UpdatedMessageStatus messaging.Status `json:"updated_message_status" validate:"required"`
}

func (*ManagedServiceMessage) VariantName() string { return "managed_service_message" }
func (*AddSeasonToLeague) VariantName() string     { return "add_season_to_league" }
func (*AddTeamsToLeague) VariantName() string      { return "add_teams_to_league" }
func (*UpdateMessageStatus) VariantName() string   { return "update_message_status" }

func (*ManagedServiceMessage) isLeagueMsg() {}
func (*AddSeasonToLeague) isLeagueMsg()     {}
func (*AddTeamsToLeague) isLeagueMsg()      {}
func (*UpdateMessageStatus) isLeagueMsg()   {}

var executeMsgs = chain.NewUnion[ExecuteMsg]("league_execute_msg",
	&ManagedServiceMessage{}, &AddSeasonToLeague{}, &AddTeamsToLeague{}, &UpdateMessageStatus{},
)

type QueryMsg interface {
	chain.Variant
	isLeagueQuery()
}

type GetInfo struct{}

type GetName struct{}

func (*GetInfo) VariantName() string { return "get_info" }
func (*GetName) VariantName() string { return "get_name" }

func (*GetInfo) isLeagueQuery() {}
func (*GetName) isLeagueQuery() {}

var queryMsgs = chain.NewUnion[QueryMsg]("league_query_msg", &GetInfo{}, &GetName{})
