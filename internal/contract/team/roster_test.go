package team

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	playercontract "github.com/riskibarqy/fantasy-league-contracts/internal/contract/player"
	playerdomain "github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

func TestRoster_AssignAndRelease(t *testing.T) {
	t.Parallel()

	r := Roster{}
	require.NoError(t, r.assign(Assignment{Address: "wasm1qb", Position: playerdomain.PositionQB}))

	err := r.assign(Assignment{Address: "wasm1other", Position: playerdomain.PositionQB})
	assert.ErrorIs(t, err, ErrPositionAlreadyAssigned)
	assert.ErrorIs(t, err, usecase.ErrConflict)

	err = r.assign(Assignment{Address: "wasm1k", Position: playerdomain.Position("K")})
	assert.ErrorIs(t, err, playercontract.ErrInvalidPosition)

	err = r.release(Assignment{Address: "wasm1other", Position: playerdomain.PositionQB})
	assert.ErrorIs(t, err, ErrPositionNotAssigned)
	assert.Equal(t, "wasm1qb", r[playerdomain.PositionQB])

	require.NoError(t, r.release(Assignment{Address: "wasm1qb", Position: playerdomain.PositionQB}))
	assert.Empty(t, r)
}

func TestRoster_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	r := Roster{playerdomain.PositionRB: "wasm1rb"}
	c := r.clone()
	c[playerdomain.PositionLB] = "wasm1lb"

	assert.Len(t, r, 1)
	assert.Len(t, c, 2)
}

func TestRoster_SlotsFollowPositionOrder(t *testing.T) {
	t.Parallel()

	r := Roster{
		playerdomain.PositionTL:  "wasm1tl",
		playerdomain.PositionWR1: "wasm1wr",
		playerdomain.PositionRB:  "wasm1rb",
		playerdomain.PositionS:   "wasm1s",
	}

	all := r.slots(func(playerdomain.Position) bool { return true })
	require.Len(t, all, 4)
	got := []playerdomain.Position{all[0].Position, all[1].Position, all[2].Position, all[3].Position}
	assert.Equal(t, []playerdomain.Position{playerdomain.PositionRB, playerdomain.PositionWR1, playerdomain.PositionS, playerdomain.PositionTL}, got)
	assert.Equal(t, Offense, all[0].SideOfBall)
	assert.Equal(t, Defense, all[3].SideOfBall)

	offense := r.slots(playerdomain.Position.Offense)
	assert.Len(t, offense, 2)
}

func TestPositionMismatchError_Unwraps(t *testing.T) {
	t.Parallel()

	err := error(&PositionMismatchError{Player: "wasm1p", Position: playerdomain.PositionWR2, ContractPosition: playerdomain.PositionWR1})
	assert.True(t, errors.Is(err, ErrPositionMismatch))
	assert.True(t, errors.Is(err, usecase.ErrInvalidInput))
	assert.Contains(t, err.Error(), "contract_position=WR1")
}
