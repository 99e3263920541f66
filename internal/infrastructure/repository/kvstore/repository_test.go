package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

func TestMessageRepository_Indexes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMessageRepository(kv.NewMemStore())

	send := func(id, seasonID uint64, team, league string) {
		require.NoError(t, repo.Save(ctx, messaging.JoinRequest{
			ID: id,
			Delivery: messaging.Delivery{
				From: messaging.Packet{AssetType: asset.TypeTeam, Address: team},
				To:   messaging.Packet{AssetType: asset.TypeLeague, Address: league},
			},
			Data: messaging.Data{SeasonID: seasonID, Status: messaging.StatusAccepted},
		}))
	}
	send(1, 10, "team-a", "league-x")
	send(2, 10, "team-b", "league-x")
	send(3, 11, "team-a", "league-y")

	bySeason, err := repo.ListBySeason(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, bySeason, 2)

	fromTeam, err := repo.ListBySender(ctx, asset.TypeTeam, "team-a")
	require.NoError(t, err)
	assert.Len(t, fromTeam, 2)

	toLeague, err := repo.ListByRecipient(ctx, asset.TypeLeague, "league-x")
	require.NoError(t, err)
	assert.Len(t, toLeague, 2)

	found, ok, err := repo.FindBySeasonTeamLeague(ctx, 11, "team-a", "league-y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(3), found.ID)

	_, ok, err = repo.FindBySeasonTeamLeague(ctx, 11, "team-b", "league-y")
	require.NoError(t, err)
	assert.False(t, ok)

	send(4, 11, "team-a", "league-y")
	found, ok, err = repo.FindBySeasonTeamLeague(ctx, 11, "team-a", "league-y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(3), found.ID, "the earliest request wins")
}

func TestSeasonRepository_ListStartingAfter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository(kv.NewMemStore())
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	for id, offset := range map[uint64]time.Duration{1: -time.Hour, 2: time.Hour, 3: 72 * time.Hour} {
		require.NoError(t, repo.Save(ctx, season.Season{
			ID:        id,
			League:    "league-x",
			StartDate: now.Add(offset),
			EndDate:   now.Add(offset + 24*time.Hour),
		}))
	}

	upcoming, err := repo.ListStartingAfter(ctx, now)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, uint64(2), upcoming[0].ID)
	assert.Equal(t, uint64(3), upcoming[1].ID)

	byLeague, err := repo.ListByLeague(ctx, "league-x")
	require.NoError(t, err)
	assert.Len(t, byLeague, 3)
}

func TestLedgerRepository_ListUnpaid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewLedgerRepository(kv.NewMemStore())
	paidAt := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, season.LedgerEntry{ID: 1, SeasonID: 7, Team: "team-a"}))
	require.NoError(t, repo.Save(ctx, season.LedgerEntry{ID: 2, SeasonID: 7, Team: "team-b", WithdrawalDistributionDate: &paidAt}))

	require.NoError(t, repo.Save(ctx, season.LedgerEntry{ID: 3, SeasonID: 8, Team: "team-a", WithdrawalDistributionDate: &paidAt}))

	unpaid, err := repo.ListUnpaid(ctx)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "team-a", unpaid[0].Team)

	byTeam, err := repo.ListByTeam(ctx, "team-a")
	require.NoError(t, err)
	require.Len(t, byTeam, 2)
	assert.Equal(t, uint64(1), byTeam[0].ID)
	assert.Equal(t, uint64(3), byTeam[1].ID)
}

func TestSequence_IsShared(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	first, err := NewSequence(store).Next(context.Background())
	require.NoError(t, err)
	second, err := NewSequence(store).Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}
