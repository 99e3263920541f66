package team

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	playercontract "github.com/riskibarqy/fantasy-league-contracts/internal/contract/player"
	playerdomain "github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

var (
	ErrPositionAlreadyAssigned        = usecase.NewKindError(usecase.ErrConflict, "position already assigned")
	ErrPositionNotAssigned            = usecase.NewKindError(usecase.ErrNotFound, "position not assigned")
	ErrPositionAssignmentsNotProvided = usecase.NewKindError(usecase.ErrInvalidInput, "position assignments not provided")
	ErrPositionMismatch               = usecase.NewKindError(usecase.ErrInvalidInput, "player declared position and assigned position mismatch")
)

// PositionMismatchError is returned when the requested slot differs from the
// position the player contract declares.
type PositionMismatchError struct {
	Player           string
	Position         playerdomain.Position
	ContractPosition playerdomain.Position
	FirstName        string
	LastName         string
}

func (e *PositionMismatchError) Error() string {
	return fmt.Sprintf("player declared position and assigned position mismatch: player=%s position=%s contract_position=%s name=%s %s",
		e.Player, e.Position, e.ContractPosition, e.FirstName, e.LastName)
}

func (e *PositionMismatchError) Unwrap() error { return ErrPositionMismatch }

// positionOrder is the order rosters are listed in: offense first.
var positionOrder = []playerdomain.Position{
	playerdomain.PositionRB, playerdomain.PositionQB, playerdomain.PositionWR1, playerdomain.PositionWR2,
	playerdomain.PositionCO, playerdomain.PositionGL, playerdomain.PositionGR,
	playerdomain.PositionS, playerdomain.PositionCB1, playerdomain.PositionCB2, playerdomain.PositionLB,
	playerdomain.PositionCD, playerdomain.PositionTR, playerdomain.PositionTL,
}

// Roster maps a position to the player contract holding it.
type Roster map[playerdomain.Position]string

func (r Roster) assign(a Assignment) error {
	if _, ok := playerdomain.AllPositions[a.Position]; !ok {
		return fmt.Errorf("%w: %s", playercontract.ErrInvalidPosition, a.Position)
	}
	if holder, taken := r[a.Position]; taken {
		return fmt.Errorf("%w: position=%s player=%s", ErrPositionAlreadyAssigned, a.Position, holder)
	}
	r[a.Position] = a.Address
	return nil
}

func (r Roster) release(a Assignment) error {
	holder, taken := r[a.Position]
	if !taken || holder != a.Address {
		return fmt.Errorf("%w: position=%s player=%s", ErrPositionNotAssigned, a.Position, a.Address)
	}
	delete(r, a.Position)
	return nil
}

func (r Roster) clone() Roster {
	out := make(Roster, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r Roster) slots(keep func(playerdomain.Position) bool) []Slot {
	out := make([]Slot, 0, len(r))
	for _, pos := range positionOrder {
		addr, ok := r[pos]
		if !ok || !keep(pos) {
			continue
		}
		out = append(out, slotOf(pos, addr))
	}
	return out
}

func slotOf(pos playerdomain.Position, addr string) Slot {
	side := Defense
	if pos.Offense() {
		side = Offense
	}
	return Slot{Player: addr, Position: pos, SideOfBall: side}
}

// verifyAssignments checks every requested slot against the player contract
// and the current roster, and returns the updated roster along with the
// players to register with the manager. Nothing is written.
func verifyAssignments(ctx context.Context, querier chain.Querier, current Roster, assignments []Assignment) (Roster, []playerdomain.Player, error) {
	if len(assignments) == 0 {
		return nil, nil, ErrPositionAssignmentsNotProvided
	}
	next := current.clone()
	players := make([]playerdomain.Player, 0, len(assignments))
	for _, a := range assignments {
		info, err := queryPlayer(ctx, querier, a.Address)
		if err != nil {
			return nil, nil, err
		}
		if info.Player.Position != a.Position {
			return nil, nil, &PositionMismatchError{
				Player:           a.Address,
				Position:         a.Position,
				ContractPosition: info.Player.Position,
				FirstName:        info.Player.FirstName,
				LastName:         info.Player.LastName,
			}
		}
		if err := next.assign(a); err != nil {
			return nil, nil, err
		}
		players = append(players, playerdomain.Player{
			Address:   a.Address,
			FirstName: info.Player.FirstName,
			LastName:  info.Player.LastName,
			Position:  a.Position,
		})
	}
	return next, players, nil
}

func queryPlayer(ctx context.Context, querier chain.Querier, addr string) (playercontract.InfoResponse, error) {
	var out playercontract.InfoResponse
	body, err := chain.Encode(&playercontract.GetInfo{})
	if err != nil {
		return out, err
	}
	raw, err := querier.QueryContract(ctx, addr, body)
	if err != nil {
		return out, fmt.Errorf("query player %s: %w", addr, err)
	}
	if err := chain.Decode(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
