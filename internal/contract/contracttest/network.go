// Package contracttest runs the full contract set on an in-memory chain for
// tests that span more than one contract.
package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/application"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/league"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managed"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/manager"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/policy"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/task"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/team"
	playerdomain "github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
)

const (
	Prefix  = "wasm1"
	Creator = "wasm1creator"
	Admin   = "wasm1admin"
	Denom   = "ujuno"
)

// Genesis is the block time every network starts at.
var Genesis = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

type Codes struct {
	Manager     uint64
	Team        uint64
	League      uint64
	Player      uint64
	Application uint64
	Task        uint64
}

// Network is one chain with every contract code stored and a manager
// instantiated by Creator with Admin as its admin.
type Network struct {
	T       *testing.T
	Ctx     context.Context
	App     *chain.App
	Clock   *clockwork.FakeClock
	Codes   Codes
	Manager string
}

func New(t *testing.T) *Network {
	t.Helper()

	clock := clockwork.NewFakeClockAt(Genesis)
	app, err := chain.NewApp(kv.NewMemStore(), chain.Options{
		ChainID:       "fantasy-test",
		AddressPrefix: Prefix,
		Clock:         clock,
		Logger:        logging.NewNop(),
	})
	require.NoError(t, err)

	creators := policy.NewCreatorPolicy(Creator)
	n := &Network{T: t, Ctx: context.Background(), App: app, Clock: clock}
	n.Codes = Codes{
		Manager:     app.StoreCode(manager.New(creators, decimal.Zero)),
		Team:        app.StoreCode(team.New(creators)),
		League:      app.StoreCode(league.New(creators)),
		Player:      app.StoreCode(player.New()),
		Application: app.StoreCode(application.New(creators)),
		Task:        app.StoreCode(task.New()),
	}

	res, err := n.Instantiate(n.Codes.Manager, Creator, managermsg.InstantiateMsg{Admin: Admin}, "manager")
	require.NoError(t, err)
	n.Manager = res.ContractAddress
	return n
}

func (n *Network) Now() time.Time {
	return n.Clock.Now().UTC()
}

func (n *Network) Instantiate(code uint64, sender string, msg any, label string, funds ...coin.Coin) (chain.TxResult, error) {
	n.T.Helper()
	body, err := chain.Marshal(msg)
	require.NoError(n.T, err)
	return n.App.Instantiate(n.Ctx, code, sender, body, funds, label)
}

func (n *Network) Execute(contract, sender string, msg chain.Variant, funds ...coin.Coin) (chain.TxResult, error) {
	n.T.Helper()
	body, err := chain.Encode(msg)
	require.NoError(n.T, err)
	return n.App.Execute(n.Ctx, contract, sender, body, funds)
}

// MustExecute fails the test when the transaction does not commit.
func (n *Network) MustExecute(contract, sender string, msg chain.Variant, funds ...coin.Coin) chain.TxResult {
	n.T.Helper()
	res, err := n.Execute(contract, sender, msg, funds...)
	require.NoError(n.T, err)
	return res
}

// Query decodes a contract query answer into T.
func Query[T any](n *Network, contract string, msg chain.Variant) T {
	n.T.Helper()
	body, err := chain.Encode(msg)
	require.NoError(n.T, err)
	raw, err := n.App.Query(n.Ctx, contract, body)
	require.NoError(n.T, err)
	var out T
	require.NoError(n.T, sonic.Unmarshal(raw, &out))
	return out
}

func (n *Network) Mint(addr string, amount uint64) {
	n.T.Helper()
	require.NoError(n.T, n.App.Mint(n.Ctx, addr, coin.New(amount, Denom)))
}

func (n *Network) Balance(addr string) uint64 {
	n.T.Helper()
	c, err := n.App.Balance(n.Ctx, addr, Denom)
	require.NoError(n.T, err)
	return c.Amount
}

func (n *Network) asset(code uint64, msg any, label string) string {
	n.T.Helper()
	res, err := n.Instantiate(code, Creator, msg, label)
	require.NoError(n.T, err)
	return res.ContractAddress
}

// NewTeam instantiates a managed team administered by owner.
func (n *Network) NewTeam(name, owner string) string {
	n.T.Helper()
	return n.asset(n.Codes.Team, managed.InstantiateMsg{Name: name, Admin: owner, ManagingContract: n.Manager}, "team")
}

func (n *Network) NewLeague(name, owner string) string {
	n.T.Helper()
	return n.asset(n.Codes.League, managed.InstantiateMsg{Name: name, Admin: owner, ManagingContract: n.Manager}, "league")
}

func (n *Network) NewPlayer(firstName, lastName string, position playerdomain.Position) (string, error) {
	n.T.Helper()
	res, err := n.Instantiate(n.Codes.Player, "wasm1scout", player.InstantiateMsg{
		FirstName:               firstName,
		LastName:                lastName,
		Position:                position,
		ManagingContractAddress: n.Manager,
	}, "player")
	return res.ContractAddress, err
}

// OpenSeason and WinnerTakeAllSeason build season proposals a manager accepts.
func OpenSeason(name string, start time.Time, length time.Duration) managermsg.SeasonInput {
	return managermsg.SeasonInput{
		Name:            name,
		StartDate:       start,
		EndDate:         start.Add(length),
		AccessType:      &season.AccessType{Kind: season.AccessOpen},
		Status:          season.Active(),
		MaxTeamsAllowed: season.MaxTeamsAllowed,
	}
}

func WinnerTakeAllSeason(name string, start time.Time, length time.Duration, stake uint64) managermsg.SeasonInput {
	in := OpenSeason(name, start, length)
	s := coin.New(stake, Denom)
	in.AccessType = &season.AccessType{Kind: season.AccessWinnerTakeAll, Stake: &s}
	return in
}

// AddSeason proposes a season through the league contract and returns the id
// the manager assigned to it.
func (n *Network) AddSeason(leagueAddr, owner string, in managermsg.SeasonInput) (uint64, error) {
	n.T.Helper()
	if _, err := n.Execute(leagueAddr, owner, &league.AddSeasonToLeague{Season: in}); err != nil {
		return 0, err
	}
	seasons := Query[managermsg.SeasonsResponse](n, n.Manager, &managermsg.GetAllSeasonsForLeague{League: leagueAddr})
	for _, s := range seasons.Seasons {
		if s.Name == in.Name {
			return s.ID, nil
		}
	}
	n.T.Fatalf("season %q not found after it was added", in.Name)
	return 0, nil
}

func (n *Network) MustAddSeason(leagueAddr, owner string, in managermsg.SeasonInput) uint64 {
	n.T.Helper()
	id, err := n.AddSeason(leagueAddr, owner, in)
	require.NoError(n.T, err)
	return id
}

func (n *Network) Season(id uint64) season.Season {
	n.T.Helper()
	return Query[managermsg.SeasonResponse](n, n.Manager, &managermsg.GetSeasonByID{SeasonID: id}).Season
}

// Attr returns the first value of key across events, or "".
func Attr(events []chain.Event, key string) string {
	for _, ev := range events {
		for _, a := range ev.Attributes {
			if a.Key == key {
				return a.Value
			}
		}
	}
	return ""
}

// Transfers returns the bank transfer events sent by from.
func Transfers(events []chain.Event, from string) []chain.Event {
	var out []chain.Event
	for _, ev := range events {
		if ev.Type != "transfer" {
			continue
		}
		for _, a := range ev.Attributes {
			if a.Key == "sender" && a.Value == from {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}
