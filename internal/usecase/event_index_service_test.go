package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	eventlogmock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/domain/eventlog"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/resilience"
)

func joinTx() chain.TxEvent {
	return chain.TxEvent{
		ID:       "ev-1",
		ChainID:  "fantasy-1",
		Height:   4,
		Time:     mockNow,
		Contract: mockTeam,
		Sender:   "wasm1coach",
		Action:   "execute",
		Events: []chain.Event{
			{Type: "execute", Attributes: []chain.Attribute{{Key: "_contract_address", Value: mockTeam}}},
			{Type: "wasm", Attributes: []chain.Attribute{
				{Key: "_contract_address", Value: "wasm1manager"},
				{Key: "action", Value: "join_league"},
			}},
		},
	}
}

func TestFlatten_FilesEventsUnderEmittingContract(t *testing.T) {
	t.Parallel()

	entries := Flatten(joinTx())
	require.Len(t, entries, 2)
	assert.Equal(t, mockTeam, entries[0].Contract)
	assert.Equal(t, "wasm1manager", entries[1].Contract)
	assert.Equal(t, 1, entries[1].Index)
	v, ok := entries[1].Attr("action")
	assert.True(t, ok)
	assert.Equal(t, "join_league", v)
	assert.Equal(t, "ev-1", entries[1].EventID)
}

func TestEventIndexService_IndexUsingMockery(t *testing.T) {
	t.Parallel()

	repo := eventlogmock.NewRepository(t)
	service := NewEventIndexService(repo, resilience.CircuitBreakerConfig{}, logging.NewNop())

	repo.
		On("InsertBatch", mock.Anything, mock.MatchedBy(func(entries []eventlog.Entry) bool {
			return len(entries) == 2 && entries[0].Height == 4
		})).
		Return(nil).
		Once()

	require.NoError(t, service.Subscriber()(context.Background(), joinTx()))
}

func TestEventIndexService_BreakerOpensAfterFailuresUsingMockery(t *testing.T) {
	t.Parallel()

	repo := eventlogmock.NewRepository(t)
	service := NewEventIndexService(repo, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}, logging.NewNop())

	down := errors.New("dial tcp: connection refused")
	repo.On("InsertBatch", mock.Anything, mock.Anything).Return(down).Twice()

	for range 2 {
		err := service.Index(context.Background(), joinTx())
		require.ErrorIs(t, err, down)
	}

	err := service.Index(context.Background(), joinTx())
	require.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestEventIndexService_ListByContractClampsLimitUsingMockery(t *testing.T) {
	t.Parallel()

	repo := eventlogmock.NewRepository(t)
	service := NewEventIndexService(repo, resilience.CircuitBreakerConfig{}, nil)

	repo.On("ListByContract", mock.Anything, "wasm1manager", maxEventListLimit).Return([]eventlog.Entry{{EventID: "ev-1"}}, nil).Once()
	repo.On("ListByContract", mock.Anything, "wasm1manager", defaultEventListLimit).Return(nil, nil).Once()

	got, err := service.ListByContract(context.Background(), " wasm1manager ", 10_000)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = service.ListByContract(context.Background(), "wasm1manager", 0)
	require.NoError(t, err)

	_, err = service.ListByContract(context.Background(), "", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
