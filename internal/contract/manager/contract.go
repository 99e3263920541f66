// Package manager is the central contract: it registers managed assets,
// mirrors their ownership and sale state, runs the season engine and holds
// winner-take-all stakes in escrow.
package manager

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/groupadmin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/policy"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/fee"
	"github.com/riskibarqy/fantasy-league-contracts/internal/infrastructure/repository/kvstore"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

type Contract struct {
	chain.NoReply

	creators policy.CreatorPolicy
	devFee   decimal.Decimal
}

// New returns the manager contract. A zero devFee falls back to fee.DevFeePercent.
func New(creators policy.CreatorPolicy, devFee decimal.Decimal) *Contract {
	if devFee.IsZero() {
		devFee = fee.DevFeePercent
	}
	return &Contract{creators: creators, devFee: devFee}
}

// services wires the usecase layer over the manager's own storage for one
// invocation. Block time is the only clock.
type services struct {
	registry   *usecase.RegistryService
	invites    *usecase.InviteService
	seasons    *usecase.SeasonService
	teams      *usecase.TeamService
	players    *usecase.PlayerService
	management *usecase.ManagementService
}

func newServices(store kv.Store, blockTime time.Time) services {
	now := func() time.Time { return blockTime }

	assetRepo := kvstore.NewAssetRepository(store)
	teamRepo := kvstore.NewTeamRepository(store)
	sequence := kvstore.NewSequence(store)

	registry := usecase.NewRegistryService(assetRepo, teamRepo, now)
	invites := usecase.NewInviteService(kvstore.NewMessageRepository(store), sequence, now)
	return services{
		registry: registry,
		invites:  invites,
		seasons: usecase.NewSeasonService(
			kvstore.NewSeasonRepository(store),
			kvstore.NewLedgerRepository(store),
			invites,
			registry,
			sequence,
			now,
		),
		teams:      usecase.NewTeamService(registry, teamRepo, now),
		players:    usecase.NewPlayerService(registry, kvstore.NewPlayerRepository(store)),
		management: usecase.NewManagementService(kvstore.NewFeeRepository(store)),
	}
}

func loggerOf(deps chain.Deps) *logging.Logger {
	if deps.Logger == nil {
		return logging.NewNop()
	}
	return deps.Logger
}

func (c *Contract) Instantiate(ctx context.Context, deps chain.Deps, env chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg managermsg.InstantiateMsg
	if len(raw) > 0 {
		if err := chain.Decode(raw, &msg); err != nil {
			return nil, err
		}
	}
	if err := c.creators.Authorize(info.Sender); err != nil {
		return nil, err
	}

	admin := strings.TrimSpace(msg.Admin)
	if admin == "" {
		admin = info.Sender
	}
	members := msg.Members
	if len(members) == 0 {
		members = []groupadmin.Member{{Addr: admin, Weight: 100}}
	}
	if err := groupadmin.CheckOwnerCount(len(members)); err != nil {
		return nil, err
	}
	if err := groupadmin.Init(deps.Storage, admin, members); err != nil {
		return nil, err
	}

	svc := newServices(deps.Storage, env.Block.Time)
	if _, err := svc.management.Init(ctx, env.Contract.Address, c.devFee, env.Block.Height); err != nil {
		return nil, err
	}

	loggerOf(deps).InfoContext(ctx, "manager instantiated", "admin", admin, "dev_fee", c.devFee.String())
	return chain.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("owner", info.Sender).
		AddAttribute("admin", admin), nil
}

func (c *Contract) Execute(ctx context.Context, deps chain.Deps, env chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	msg, err := managermsg.DecodeExecuteMsg(raw)
	if err != nil {
		return nil, err
	}
	h := handler{
		deps: deps,
		env:  env,
		info: info,
		svc:  newServices(deps.Storage, env.Block.Time),
		log:  loggerOf(deps),
	}

	switch m := msg.(type) {
	case *managermsg.AddManagedContract:
		return h.addManagedContract(ctx, m)
	case *managermsg.SetManagedStatus:
		return h.setManagedStatus(ctx, m)
	case *managermsg.GroupAdminHooks:
		inner, err := groupadmin.DecodeExecuteMsg(m.GroupAdminHooksMsg)
		if err != nil {
			return nil, err
		}
		return groupadmin.Execute(deps.Storage, info.Sender, inner)
	case *managermsg.MemberChangedHook:
		return h.memberChanged(ctx, m)
	case *managermsg.UpdateFees:
		return h.updateFees(ctx, m)
	case *managermsg.AddPlayersToTeam:
		return h.addPlayersToTeam(ctx, m)
	case *managermsg.UpdateAssetForSaleStatusHook:
		return h.updateSaleStatus(ctx, m)
	case *managermsg.ManagedAssetSoldHook:
		return h.assetSold(ctx, m)
	case *managermsg.Withdraw:
		return h.withdraw(ctx, m)
	case *managermsg.AddSeasonToLeague:
		return h.addSeason(ctx, m)
	case *managermsg.AddTeamsToLeague:
		return h.addTeams(ctx, m)
	case *managermsg.UpdateSeasonStatus:
		return h.updateSeasonStatus(ctx, m)
	case *managermsg.JoinLeague:
		return h.joinLeague(ctx, m.SeasonID)
	case *managermsg.JoinLeagueWinnerTakeAll:
		return h.joinLeagueWinnerTakeAll(ctx, m)
	case *managermsg.CancelSeasonSpot:
		return h.cancelSeasonSpot(ctx, m)
	default:
		return nil, chain.ErrInvalidMessage
	}
}
