package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	eventlogmock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/domain/eventlog"
	basecache "github.com/riskibarqy/fantasy-league-contracts/internal/platform/cache"
)

func TestContractEventRepository_ListByContractIsCached(t *testing.T) {
	t.Parallel()

	next := eventlogmock.NewRepository(t)
	repo := NewContractEventRepository(next, basecache.NewStore(time.Minute))

	stored := []eventlog.Entry{{EventID: "e1", Contract: "wasm1league", Height: 3, Type: "wasm"}}
	next.On("ListByContract", mock.Anything, "wasm1league", 10).Return(stored, nil).Once()

	first, err := repo.ListByContract(context.Background(), "wasm1league", 10)
	require.NoError(t, err)
	second, err := repo.ListByContract(context.Background(), "wasm1league", 10)
	require.NoError(t, err)

	assert.Equal(t, stored, first)
	assert.Equal(t, stored, second)

	// Callers get their own copy.
	first[0].Type = "mutated"
	third, err := repo.ListByContract(context.Background(), "wasm1league", 10)
	require.NoError(t, err)
	assert.Equal(t, "wasm", third[0].Type)
}

func TestContractEventRepository_InsertBatchInvalidatesTouchedContracts(t *testing.T) {
	t.Parallel()

	next := eventlogmock.NewRepository(t)
	repo := NewContractEventRepository(next, basecache.NewStore(time.Minute))

	next.On("ListByContract", mock.Anything, "wasm1league", 10).Return([]eventlog.Entry{}, nil).Twice()
	next.On("ListByContract", mock.Anything, "wasm1team", 10).Return([]eventlog.Entry{}, nil).Once()

	_, err := repo.ListByContract(context.Background(), "wasm1league", 10)
	require.NoError(t, err)
	_, err = repo.ListByContract(context.Background(), "wasm1team", 10)
	require.NoError(t, err)

	batch := []eventlog.Entry{{EventID: "e2", Contract: "wasm1league"}, {EventID: "e2", Index: 1, Contract: "wasm1league"}}
	next.On("InsertBatch", mock.Anything, batch).Return(nil).Once()
	require.NoError(t, repo.InsertBatch(context.Background(), batch))

	// League listing reloads; team listing stays cached.
	_, err = repo.ListByContract(context.Background(), "wasm1league", 10)
	require.NoError(t, err)
	_, err = repo.ListByContract(context.Background(), "wasm1team", 10)
	require.NoError(t, err)
}

func TestContractEventRepository_InsertBatchErrorKeepsCache(t *testing.T) {
	t.Parallel()

	next := eventlogmock.NewRepository(t)
	repo := NewContractEventRepository(next, basecache.NewStore(time.Minute))

	next.On("ListByContract", mock.Anything, "wasm1league", 5).Return([]eventlog.Entry{}, nil).Once()
	_, err := repo.ListByContract(context.Background(), "wasm1league", 5)
	require.NoError(t, err)

	boom := errors.New("db down")
	next.On("InsertBatch", mock.Anything, mock.Anything).Return(boom).Once()
	assert.ErrorIs(t, repo.InsertBatch(context.Background(), []eventlog.Entry{{Contract: "wasm1league"}}), boom)

	_, err = repo.ListByContract(context.Background(), "wasm1league", 5)
	require.NoError(t, err)
}
