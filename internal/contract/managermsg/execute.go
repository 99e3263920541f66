// Package managermsg is the manager contract's message surface. Asset
// contracts build their calls to the manager from it, and the manager decodes
// them with it.
package managermsg

import (
	"encoding/json"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

type InstantiateMsg struct {
	Admin   string              `json:"admin,omitempty"`
	Members []groupadmin.Member `json:"members,omitempty" validate:"dive"`
}

type ExecuteMsg interface {
	chain.Variant
	isManagerMsg()
}

type AddManagedContract struct {
	AssetName    string     `json:"asset_name" validate:"required"`
	AssetOwner   string     `json:"asset_owner" validate:"required"`
	ContractType asset.Type `json:"contract_type"`
}

type SetManagedStatus struct {
	Contract string              `json:"contract" validate:"required"`
	Status   asset.ManagedStatus `json:"status"`
}

type GroupAdminHooks struct {
	GroupAdminHooksMsg json.RawMessage `json:"group_admin_hooks_msg" validate:"required"`
}

// MemberChangedHook is delivered by managed assets whenever their roster changes.
type MemberChangedHook struct {
	Diffs []groupadmin.MemberDiff `json:"diffs"`
}

type UpdateFees struct {
	Add    []fee.Fee `json:"add,omitempty" validate:"dive"`
	Remove []uint64  `json:"remove,omitempty"`
}

type AddPlayersToTeam struct {
	Players []player.Player `json:"players" validate:"required,min=1,dive"`
}

type UpdateAssetForSaleStatusHook struct {
	ForSaleStatus bool       `json:"for_sale_status"`
	Price         *coin.Coin `json:"price,omitempty"`
}

type ManagedAssetSoldHook struct {
	NewOwner string `json:"new_owner" validate:"required"`
}

type Withdraw struct {
	Recipient string    `json:"recipient" validate:"required"`
	Amount    coin.Coin `json:"amount"`
}

// SeasonInput is a season as a league proposes it.
type SeasonInput struct {
	Name            string             `json:"name" validate:"required"`
	Description     string             `json:"description"`
	StartDate       time.Time          `json:"start_date" validate:"required"`
	EndDate         time.Time          `json:"end_date" validate:"required"`
	AccessType      *season.AccessType `json:"access_type,omitempty"`
	Status          *season.Status     `json:"status,omitempty"`
	MaxTeamsAllowed uint32             `json:"max_teams_allowed"`
}

type AddSeasonToLeague struct {
	Season SeasonInput `json:"season"`
}

type AddTeamsToLeague struct {
	Teams       []string `json:"teams" validate:"required,min=1"`
	SendingUser string   `json:"sending_user" validate:"required"`
}

type UpdateSeasonStatus struct {
	SeasonID uint64           `json:"season_id" validate:"required"`
	Status   messaging.Status `json:"status" validate:"required"`
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

func (*AddManagedContract) VariantName() string           { return "add_managed_contract" }
func (*SetManagedStatus) VariantName() string             { return "set_managed_status" }
func (*GroupAdminHooks) VariantName() string              { return "group_admin_hooks" }
func (*MemberChangedHook) VariantName() string            { return "member_changed_hook" }
func (*UpdateFees) VariantName() string                   { return "update_fees" }
func (*AddPlayersToTeam) VariantName() string             { return "add_players_to_team" }
func (*UpdateAssetForSaleStatusHook) VariantName() string { return "update_asset_for_sale_status_hook" }
func (*ManagedAssetSoldHook) VariantName() string         { return "managed_asset_sold_hook" }
func (*Withdraw) VariantName() string                     { return "withdraw" }
func (*AddSeasonToLeague) VariantName() string            { return "add_season_to_league" }
func (*AddTeamsToLeague) VariantName() string             { return "add_teams_to_league" }
func (*UpdateSeasonStatus) VariantName() string           { return "update_season_status" }
func (*JoinLeague) VariantName() string                   { return "join_league" }
func (*JoinLeagueWinnerTakeAll) VariantName() string      { return "join_league_winner_take_all" }
func (*CancelSeasonSpot) VariantName() string             { return "cancel_season_spot" }

func (*AddManagedContract) isManagerMsg()           {}
func (*SetManagedStatus) isManagerMsg()             {}
func (*GroupAdminHooks) isManagerMsg()              {}
func (*MemberChangedHook) isManagerMsg()            {}
func (*UpdateFees) isManagerMsg()                   {}
func (*AddPlayersToTeam) isManagerMsg()             {}
func (*UpdateAssetForSaleStatusHook) isManagerMsg() {}
func (*ManagedAssetSoldHook) isManagerMsg()         {}
func (*Withdraw) isManagerMsg()                     {}
func (*AddSeasonToLeague) isManagerMsg()            {}
func (*AddTeamsToLeague) isManagerMsg()             {}
func (*UpdateSeasonStatus) isManagerMsg()           {}
func (*JoinLeague) isManagerMsg()                   {}
func (*JoinLeagueWinnerTakeAll) isManagerMsg()      {}
func (*CancelSeasonSpot) isManagerMsg()             {}

var executeMsgs = chain.NewUnion[ExecuteMsg]("manager_execute_msg",
	&AddManagedContract{},
	&SetManagedStatus{},
	&GroupAdminHooks{},
	&MemberChangedHook{},
	&UpdateFees{},
	&AddPlayersToTeam{},
	&UpdateAssetForSaleStatusHook{},
	&ManagedAssetSoldHook{},
	&Withdraw{},
	&AddSeasonToLeague{},
	&AddTeamsToLeague{},
	&UpdateSeasonStatus{},
	&JoinLeague{},
	&JoinLeagueWinnerTakeAll{},
	&CancelSeasonSpot{},
)

func DecodeExecuteMsg(raw json.RawMessage) (ExecuteMsg, error) {
	return executeMsgs.Decode(raw)
}

// Call builds the sub-message that delivers msg to the manager.
func Call(manager string, msg ExecuteMsg, funds ...coin.Coin) (chain.WasmExecute, error) {
	body, err := chain.Encode(msg)
	if err != nil {
		return chain.WasmExecute{}, err
	}
	return chain.WasmExecute{ContractAddr: manager, Msg: body, Funds: funds}, nil
}
