// Package player is the contract behind one player card. Names are unique
// across every team the manager knows about.
package player

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/managermsg"
	playerdomain "github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

var (
	ErrPlayerNameAlreadyInUse = usecase.NewKindError(usecase.ErrConflict, "player name already in use")
	ErrPlayerNameCheck        = usecase.NewKindError(usecase.ErrDependencyUnavailable, "player name check failed")
	ErrInvalidPosition        = usecase.NewKindError(usecase.ErrInvalidInput, "invalid player position")
)

type Attributes struct {
	Hands             decimal.Decimal `json:"hands"`
	Accuracy          decimal.Decimal `json:"accuracy"`
	Speed             decimal.Decimal `json:"speed"`
	Strength          decimal.Decimal `json:"strength"`
	Leader            decimal.Decimal `json:"leader"`
	PressureThreshold decimal.Decimal `json:"pressure_threshold"`
	Agility           decimal.Decimal `json:"agility"`
	FootballIQ        decimal.Decimal `json:"football_iq"`
	Temperament       decimal.Decimal `json:"temperament"`
	AngleOfView       uint8           `json:"angle_of_view"`
}

type Data struct {
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	Owner            string                `json:"owner"`
	Position         playerdomain.Position `json:"position"`
	Attributes       Attributes            `json:"attributes"`
	ManagingContract string                `json:"managing_contract"`
}

func (d Data) FullName() string {
	return d.FirstName + " " + d.LastName
}

var state = kv.NewItem[Data]("player")

type InstantiateMsg struct {
	FirstName               string                `json:"first_name" validate:"required"`
	LastName                string                `json:"last_name" validate:"required"`
	Position                playerdomain.Position `json:"position" validate:"required"`
	Attributes              Attributes            `json:"attributes"`
	ManagingContractAddress string                `json:"managing_contract_address" validate:"required"`
}

type Contract struct {
	chain.NoReply
}

func New() *Contract {
	return &Contract{}
}

func (c *Contract) Instantiate(ctx context.Context, deps chain.Deps, env chain.Env, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg InstantiateMsg
	if err := chain.Decode(raw, &msg); err != nil {
		return nil, err
	}
	if _, ok := playerdomain.AllPositions[msg.Position]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPosition, msg.Position)
	}

	firstName := strings.TrimSpace(msg.FirstName)
	lastName := strings.TrimSpace(msg.LastName)
	existing, err := managermsg.Query[managermsg.PlayerResponse](ctx, deps.Querier, msg.ManagingContractAddress,
		&managermsg.GetPlayerByName{FirstName: firstName, LastName: lastName})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlayerNameCheck, err)
	}
	if existing.Player != nil {
		return nil, fmt.Errorf("%w: first_name=%s last_name=%s", ErrPlayerNameAlreadyInUse, firstName, lastName)
	}

	data := Data{
		FirstName:        firstName,
		LastName:         lastName,
		Owner:            info.Sender,
		Position:         msg.Position,
		Attributes:       msg.Attributes,
		ManagingContract: msg.ManagingContractAddress,
	}
	if err := state.Save(deps.Storage, data); err != nil {
		return nil, crerr.Wrap(err, "save player")
	}
	return chain.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("owner", info.Sender).
		AddAttribute("first_name", firstName).
		AddAttribute("last_name", lastName).
		AddAttribute("contract_address", env.Contract.Address), nil
}

func (c *Contract) Execute(context.Context, chain.Deps, chain.Env, chain.MessageInfo, json.RawMessage) (*chain.Response, error) {
	return nil, fmt.Errorf("%w: player accepts no execute messages", chain.ErrInvalidMessage)
}

type QueryMsg interface {
	chain.Variant
	isPlayerQuery()
}

type GetInfo struct{}

type GetName struct{}

func (*GetInfo) VariantName() string { return "get_info" }
func (*GetName) VariantName() string { return "get_name" }

func (*GetInfo) isPlayerQuery() {}
func (*GetName) isPlayerQuery() {}

var queryMsgs = chain.NewUnion[QueryMsg]("player_query_msg", &GetInfo{}, &GetName{})

type InfoResponse struct {
	Player Data `json:"player"`
}

type NameResponse struct {
	Name string `json:"name"`
}

func (c *Contract) Query(_ context.Context, deps chain.Deps, _ chain.Env, raw json.RawMessage) ([]byte, error) {
	msg, err := queryMsgs.Decode(raw)
	if err != nil {
		return nil, err
	}
	data, err := state.Load(deps.Storage)
	if err != nil {
		return nil, crerr.Wrap(err, "load player")
	}
	switch msg.(type) {
	case *GetInfo:
		return chain.Marshal(InfoResponse{Player: data})
	case *GetName:
		return chain.Marshal(NameResponse{Name: data.FullName()})
	default:
		return nil, chain.ErrInvalidMessage
	}
}
