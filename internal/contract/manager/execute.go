package manager

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

type handler struct {
	deps chain.Deps
	env  chain.Env
	info chain.MessageInfo
	svc  services
	log  *logging.Logger
}

func (h handler) sender() string {
	return h.info.Sender
}

func (h handler) assertAdmin() error {
	return groupadmin.AssertAdmin(h.deps.Storage, h.sender())
}

func payout(res *chain.Response, transfers []usecase.Transfer) *chain.Response {
	for _, t := range transfers {
		res.AddMessage(chain.BankSend{ToAddress: t.Recipient, Amount: []coin.Coin{t.Amount}})
	}
	return res
}

// addManagedContract registers the calling contract. Only instantiated
// contracts can register themselves.
func (h handler) addManagedContract(ctx context.Context, m *managermsg.AddManagedContract) (*chain.Response, error) {
	if _, err := h.deps.Querier.ContractInfo(ctx, h.sender()); err != nil {
		return nil, usecase.Unauthorized(h.sender())
	}
	record, err := h.svc.registry.Register(ctx, usecase.RegisterInput{
		Address: h.sender(),
		Owner:   m.AssetOwner,
		Type:    m.ContractType,
		Name:    m.AssetName,
	})
	if err != nil {
		return nil, err
	}
	h.log.InfoContext(ctx, "managed contract registered",
		"asset", record.Address,
		"type", record.Type.String(),
		"owner", record.Owner,
	)
	return chain.NewResponse().
		AddAttribute("action", "add_managed_contract").
		AddAttribute("contract", record.Address).
		AddAttribute("asset_type", record.Type.String()).
		AddAttribute("owner", record.Owner), nil
}

func (h handler) setManagedStatus(ctx context.Context, m *managermsg.SetManagedStatus) (*chain.Response, error) {
	if err := h.assertAdmin(); err != nil {
		return nil, err
	}
	record, err := h.svc.registry.SetStatus(ctx, m.Contract, m.Status)
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "set_managed_status").
		AddAttribute("contract", record.Address).
		AddAttribute("status", record.Status.String()), nil
}

// memberChanged acknowledges a roster change reported by a managed asset.
func (h handler) memberChanged(ctx context.Context, m *managermsg.MemberChangedHook) (*chain.Response, error) {
	if _, err := h.svc.registry.Authorize(ctx, h.sender()); err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "member_changed_hook").
		AddAttribute("contract", h.sender()).
		AddAttribute("changes", strconv.Itoa(len(m.Diffs))), nil
}

func (h handler) updateFees(ctx context.Context, m *managermsg.UpdateFees) (*chain.Response, error) {
	if err := h.assertAdmin(); err != nil {
		return nil, err
	}
	info, err := h.svc.management.UpdateFees(ctx, m.Add, m.Remove, h.env.Block.Height)
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "update_fees").
		AddAttribute("fee_count", strconv.Itoa(len(info.Fees))), nil
}

func (h handler) addPlayersToTeam(ctx context.Context, m *managermsg.AddPlayersToTeam) (*chain.Response, error) {
	if err := h.svc.players.AddPlayers(ctx, h.sender(), m.Players); err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "add_players_to_team").
		AddAttribute("team", h.sender()).
		AddAttribute("player_count", strconv.Itoa(len(m.Players))), nil
}

func (h handler) updateSaleStatus(ctx context.Context, m *managermsg.UpdateAssetForSaleStatusHook) (*chain.Response, error) {
	if _, err := h.svc.registry.Authorize(ctx, h.sender()); err != nil {
		return nil, err
	}
	record, err := h.svc.registry.UpdateSaleStatus(ctx, h.sender(), m.ForSaleStatus, m.Price)
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "update_asset_for_sale_status").
		AddAttribute("contract", record.Address).
		AddAttribute("for_sale", strconv.FormatBool(record.IsForSale())).
		AddAttribute("price_version", strconv.FormatUint(record.ForSalePriceVersion, 10)), nil
}

func (h handler) assetSold(ctx context.Context, m *managermsg.ManagedAssetSoldHook) (*chain.Response, error) {
	if _, err := h.svc.registry.Authorize(ctx, h.sender()); err != nil {
		return nil, err
	}
	record, err := h.svc.registry.TransferOwnership(ctx, h.sender(), m.NewOwner)
	if err != nil {
		return nil, err
	}
	h.log.InfoContext(ctx, "managed asset sold", "asset", record.Address, "new_owner", record.Owner)
	return chain.NewResponse().
		AddAttribute("action", "managed_asset_sold").
		AddAttribute("contract", record.Address).
		AddAttribute("new_owner", record.Owner), nil
}

// withdraw pays out treasury funds. Unpaid winner-take-all deposits stay
// reserved.
func (h handler) withdraw(ctx context.Context, m *managermsg.Withdraw) (*chain.Response, error) {
	if err := h.assertAdmin(); err != nil {
		return nil, err
	}
	if m.Amount.IsZero() || m.Amount.Denom == "" {
		return nil, fmt.Errorf("%w: withdraw amount is required", usecase.ErrInvalidInput)
	}
	balance, err := h.deps.Querier.Balance(ctx, h.env.Contract.Address, m.Amount.Denom)
	if err != nil {
		return nil, err
	}
	if err := h.svc.seasons.CheckWithdraw(ctx, balance, m.Amount); err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "withdraw").
		AddAttribute("recipient", m.Recipient).
		AddAttribute("amount", m.Amount.String()).
		AddMessage(chain.BankSend{ToAddress: m.Recipient, Amount: []coin.Coin{m.Amount}}), nil
}

func (h handler) addSeason(ctx context.Context, m *managermsg.AddSeasonToLeague) (*chain.Response, error) {
	created, err := h.svc.seasons.AddSeason(ctx, h.sender(), usecase.AddSeasonInput{
		Name:            m.Season.Name,
		Description:     m.Season.Description,
		StartDate:       m.Season.StartDate,
		EndDate:         m.Season.EndDate,
		AccessType:      m.Season.AccessType,
		Status:          m.Season.Status,
		MaxTeamsAllowed: m.Season.MaxTeamsAllowed,
	})
	if err != nil {
		return nil, err
	}
	h.log.InfoContext(ctx, "season added", "league", created.League, "season_id", created.ID)
	return chain.NewResponse().
		AddAttribute("action", "add_season_to_league").
		AddAttribute("league", created.League).
		AddAttribute("season_id", strconv.FormatUint(created.ID, 10)).
		SetData([]byte(strconv.FormatUint(created.ID, 10))), nil
}

func (h handler) addTeams(ctx context.Context, m *managermsg.AddTeamsToLeague) (*chain.Response, error) {
	assigned, err := h.svc.teams.AssignToLeague(ctx, h.sender(), m.SendingUser, m.Teams)
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().
		AddAttribute("action", "add_teams_to_league").
		AddAttribute("league", h.sender()).
		AddAttribute("team_count", strconv.Itoa(len(assigned))), nil
}

func (h handler) updateSeasonStatus(ctx context.Context, m *managermsg.UpdateSeasonStatus) (*chain.Response, error) {
	refunds, err := h.svc.seasons.CancelSeason(ctx, h.sender(), m.SeasonID, m.Status)
	if err != nil {
		return nil, err
	}
	h.log.InfoContext(ctx, "season cancelled", "league", h.sender(), "season_id", m.SeasonID, "refunds", len(refunds))
	res := chain.NewResponse().
		AddAttribute("action", "cancel_season").
		AddAttribute("season_id", strconv.FormatUint(m.SeasonID, 10)).
		AddAttribute("refund_count", strconv.Itoa(len(refunds)))
	return payout(res, refunds), nil
}

func (h handler) joinLeague(ctx context.Context, seasonID uint64) (*chain.Response, error) {
	result, err := h.svc.seasons.JoinSeason(ctx, usecase.JoinSeasonInput{
		Team:     h.sender(),
		SeasonID: seasonID,
		Funds:    h.info.Funds,
	})
	if err != nil {
		return nil, err
	}
	res := chain.NewResponse().
		AddAttribute("action", "join_league").
		AddAttribute("team", h.sender()).
		AddAttribute("season_id", strconv.FormatUint(seasonID, 10)).
		AddAttribute("message_id", strconv.FormatUint(result.Request.ID, 10))
	if result.Deposit != nil {
		res.AddAttribute("deposit", result.Deposit.DepositAmount.String())
	}
	return res, nil
}

// joinLeagueWinnerTakeAll also requires the declared fee to be exactly what
// was attached.
func (h handler) joinLeagueWinnerTakeAll(ctx context.Context, m *managermsg.JoinLeagueWinnerTakeAll) (*chain.Response, error) {
	if m.Fee.IsZero() || coin.AmountOf(h.info.Funds, m.Fee.Denom) != m.Fee.Amount {
		return nil, fmt.Errorf("%w: declared=%s sent=%s", usecase.ErrIncorrectFundingSent, m.Fee, coin.Format(h.info.Funds))
	}
	return h.joinLeague(ctx, m.SeasonID)
}

func (h handler) cancelSeasonSpot(ctx context.Context, m *managermsg.CancelSeasonSpot) (*chain.Response, error) {
	refunds, err := h.svc.seasons.CancelTeamSeasonSpot(ctx, h.sender(), m.SeasonID)
	if err != nil {
		return nil, err
	}
	res := chain.NewResponse().
		AddAttribute("action", "cancel_season_spot").
		AddAttribute("team", h.sender()).
		AddAttribute("season_id", strconv.FormatUint(m.SeasonID, 10))
	return payout(res, refunds), nil
}
