package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
	assetmock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/domain/asset"
	messagingmock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/domain/messaging"
	seasonmock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/domain/season"
	teammock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/domain/team"
	idmock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/platform/id"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
)

const (
	mockLeague = "wasm1league"
	mockTeam   = "wasm1team"
)

var mockNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type seasonMocks struct {
	assets   *assetmock.Repository
	teams    *teammock.Repository
	seasons  *seasonmock.Repository
	ledger   *seasonmock.LedgerRepository
	messages *messagingmock.Repository
	sequence *idmock.Sequence
	service  *SeasonService
}

func newSeasonMocks(t *testing.T) seasonMocks {
	t.Helper()
	m := seasonMocks{
		assets:   assetmock.NewRepository(t),
		teams:    teammock.NewRepository(t),
		seasons:  seasonmock.NewRepository(t),
		ledger:   seasonmock.NewLedgerRepository(t),
		messages: messagingmock.NewRepository(t),
		sequence: idmock.NewSequence(t),
	}
	now := func() time.Time { return mockNow }
	registry := NewRegistryService(m.assets, m.teams, now)
	invites := NewInviteService(m.messages, m.sequence, now)
	m.service = NewSeasonService(m.seasons, m.ledger, invites, registry, m.sequence, now)
	return m
}

func (m seasonMocks) enabled(address string, assetType asset.Type) {
	m.assets.
		On("Get", mock.Anything, address).
		Return(asset.ManagedAsset{Address: address, Type: assetType, Status: asset.StatusEnabled, Owner: "wasm1owner"}, true, nil).
		Once()
}

func openSeason(id uint64, start time.Time) season.Season {
	return season.Season{
		ID:              id,
		League:          mockLeague,
		Name:            "Spring",
		StartDate:       start,
		EndDate:         start.Add(72 * time.Hour),
		AccessType:      &season.AccessType{Kind: season.AccessOpen},
		Status:          season.Active(),
		MaxTeamsAllowed: season.MaxTeamsAllowed,
	}
}

func acceptedRequest(id, seasonID uint64, teamAddr string) messaging.JoinRequest {
	return messaging.JoinRequest{
		ID: id,
		Delivery: messaging.Delivery{
			From: messaging.Packet{AssetType: asset.TypeTeam, Address: teamAddr},
			To:   messaging.Packet{AssetType: asset.TypeLeague, Address: mockLeague},
		},
		Data: messaging.Data{SeasonID: seasonID, Status: messaging.StatusAccepted},
	}
}

func TestSeasonService_AddSeason_ConflictUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	existing := openSeason(4, mockNow.Add(48*time.Hour))

	m.enabled(mockLeague, asset.TypeLeague)
	m.seasons.On("ListByLeague", mock.Anything, mockLeague).Return([]season.Season{existing}, nil).Once()

	_, err := m.service.AddSeason(context.Background(), mockLeague, AddSeasonInput{
		Name:            "Overlapping",
		StartDate:       mockNow.Add(72 * time.Hour),
		EndDate:         mockNow.Add(144 * time.Hour),
		AccessType:      &season.AccessType{Kind: season.AccessOpen},
		Status:          season.Active(),
		MaxTeamsAllowed: season.MaxTeamsAllowed,
	})

	var conflict *SeasonScheduleConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uint64{4}, conflict.ConflictingSeasons)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSeasonService_AddSeason_SavesWithNextIDUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	start := mockNow.Add(24 * time.Hour)

	m.enabled(mockLeague, asset.TypeLeague)
	m.seasons.On("ListByLeague", mock.Anything, mockLeague).Return(nil, nil).Once()
	m.sequence.On("Next", mock.Anything).Return(uint64(11), nil).Once()
	m.seasons.
		On("Save", mock.Anything, mock.MatchedBy(func(s season.Season) bool {
			return s.ID == 11 && s.League == mockLeague && s.StartDate.Equal(start)
		})).
		Return(nil).
		Once()

	got, err := m.service.AddSeason(context.Background(), mockLeague, AddSeasonInput{
		Name:            "Summer",
		StartDate:       start,
		EndDate:         start.Add(time.Hour),
		AccessType:      &season.AccessType{Kind: season.AccessOpen},
		Status:          season.Active(),
		MaxTeamsAllowed: season.MaxTeamsAllowed,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 11, got.ID)
}

func TestSeasonService_JoinSeason_CapacityUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	target := openSeason(9, mockNow.Add(24*time.Hour))

	full := make([]messaging.JoinRequest, 0, season.MaxTeamsAllowed)
	for i := range season.MaxTeamsAllowed {
		full = append(full, acceptedRequest(uint64(100+i), target.ID, "wasm1other"))
	}

	m.enabled(mockTeam, asset.TypeTeam)
	m.seasons.On("Get", mock.Anything, target.ID).Return(target, true, nil).Once()
	m.messages.On("ListBySeason", mock.Anything, target.ID).Return(full, nil).Once()

	_, err := m.service.JoinSeason(context.Background(), JoinSeasonInput{Team: mockTeam, SeasonID: target.ID})
	require.ErrorIs(t, err, ErrSeasonHasReachedCapacity)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSeasonService_JoinSeason_RecordsAcceptedRequestUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	target := openSeason(9, mockNow.Add(24*time.Hour))

	m.enabled(mockTeam, asset.TypeTeam)
	m.seasons.On("Get", mock.Anything, target.ID).Return(target, true, nil).Once()
	m.messages.On("ListBySeason", mock.Anything, target.ID).Return(nil, nil).Once()
	m.messages.
		On("FindBySeasonTeamLeague", mock.Anything, target.ID, mockTeam, mockLeague).
		Return(messaging.JoinRequest{}, false, nil).
		Once()
	m.messages.On("ListBySender", mock.Anything, asset.TypeTeam, mockTeam).Return(nil, nil).Once()
	m.messages.On("ListByRecipient", mock.Anything, asset.TypeTeam, mockTeam).Return(nil, nil).Once()
	m.sequence.On("Next", mock.Anything).Return(uint64(12), nil).Once()
	m.messages.
		On("Save", mock.Anything, mock.MatchedBy(func(req messaging.JoinRequest) bool {
			return req.ID == 12 && req.Accepted() && req.TeamAddress() == mockTeam && req.Delivery.To.Address == mockLeague
		})).
		Return(nil).
		Once()

	got, err := m.service.JoinSeason(context.Background(), JoinSeasonInput{Team: mockTeam, SeasonID: target.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 12, got.Request.ID)
	assert.Nil(t, got.Deposit)
}

func TestSeasonService_JoinSeason_OverlapAcrossLeaguesUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	target := openSeason(9, mockNow.Add(24*time.Hour))
	elsewhere := openSeason(3, mockNow.Add(48*time.Hour))
	elsewhere.League = "wasm1otherleague"

	m.enabled(mockTeam, asset.TypeTeam)
	m.seasons.On("Get", mock.Anything, target.ID).Return(target, true, nil).Once()
	m.messages.On("ListBySeason", mock.Anything, target.ID).Return(nil, nil).Once()
	m.messages.
		On("FindBySeasonTeamLeague", mock.Anything, target.ID, mockTeam, mockLeague).
		Return(messaging.JoinRequest{}, false, nil).
		Once()
	m.messages.
		On("ListBySender", mock.Anything, asset.TypeTeam, mockTeam).
		Return([]messaging.JoinRequest{acceptedRequest(20, elsewhere.ID, mockTeam)}, nil).
		Once()
	m.messages.On("ListByRecipient", mock.Anything, asset.TypeTeam, mockTeam).Return(nil, nil).Once()
	m.seasons.On("Get", mock.Anything, elsewhere.ID).Return(elsewhere, true, nil).Once()

	_, err := m.service.JoinSeason(context.Background(), JoinSeasonInput{Team: mockTeam, SeasonID: target.ID})
	var conflict *SeasonScheduleConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uint64{elsewhere.ID}, conflict.ConflictingSeasons)
}

func TestSeasonService_CancelTeamSeasonSpot_SecondCancelReportsClaimedUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	stake := coin.New(1000, "ujuno")
	target := openSeason(9, mockNow.Add(24*time.Hour))
	target.AccessType = &season.AccessType{Kind: season.AccessWinnerTakeAll, Stake: &stake}
	req := acceptedRequest(12, target.ID, mockTeam)
	req.Data.Status = messaging.StatusCancelSeason
	paidAt := mockNow.Add(-time.Hour)

	m.enabled(mockTeam, asset.TypeTeam)
	m.seasons.On("Get", mock.Anything, target.ID).Return(target, true, nil).Once()
	m.messages.On("ListBySeason", mock.Anything, target.ID).Return([]messaging.JoinRequest{req}, nil).Once()
	m.messages.
		On("FindBySeasonTeamLeague", mock.Anything, target.ID, mockTeam, mockLeague).
		Return(req, true, nil).
		Once()
	m.ledger.
		On("ListBySeason", mock.Anything, target.ID).
		Return([]season.LedgerEntry{{ID: 13, SeasonID: target.ID, Team: mockTeam, DepositAmount: stake, WithdrawalDistributionDate: &paidAt}}, nil).
		Once()

	_, err := m.service.CancelTeamSeasonSpot(context.Background(), mockTeam, target.ID)
	require.ErrorIs(t, err, ErrSeasonDepositAlreadyClaimed)
	assert.ErrorIs(t, err, ErrAlreadyHandled)
	m.messages.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSeasonService_CancelTeamSeasonSpot_NoRequestUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	target := openSeason(9, mockNow.Add(24*time.Hour))

	m.enabled(mockTeam, asset.TypeTeam)
	m.seasons.On("Get", mock.Anything, target.ID).Return(target, true, nil).Once()
	m.messages.On("ListBySeason", mock.Anything, target.ID).Return(nil, nil).Once()
	m.messages.
		On("FindBySeasonTeamLeague", mock.Anything, target.ID, mockTeam, mockLeague).
		Return(messaging.JoinRequest{}, false, nil).
		Once()

	_, err := m.service.CancelTeamSeasonSpot(context.Background(), mockTeam, target.ID)
	assert.ErrorIs(t, err, ErrTeamNotMemberOfSeason)
}

func TestSeasonService_JoinSeason_CancelledRequestStillCountsUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	target := openSeason(9, mockNow.Add(24*time.Hour))
	cancelled := acceptedRequest(12, target.ID, mockTeam)
	cancelled.Data.Status = messaging.StatusCancelSeason

	m.enabled(mockTeam, asset.TypeTeam)
	m.seasons.On("Get", mock.Anything, target.ID).Return(target, true, nil).Once()
	m.messages.On("ListBySeason", mock.Anything, target.ID).Return([]messaging.JoinRequest{cancelled}, nil).Once()
	m.messages.
		On("FindBySeasonTeamLeague", mock.Anything, target.ID, mockTeam, mockLeague).
		Return(cancelled, true, nil).
		Once()

	_, err := m.service.JoinSeason(context.Background(), JoinSeasonInput{Team: mockTeam, SeasonID: target.ID})
	assert.ErrorIs(t, err, ErrTeamAlreadyMemberOfSeason)
	m.sequence.AssertNotCalled(t, "Next", mock.Anything)
}

func TestSeasonService_CheckWithdraw_KeepsEscrowUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	paidAt := mockNow.Add(-time.Hour)
	unpaid := []season.LedgerEntry{
		{ID: 1, SeasonID: 9, Team: mockTeam, DepositAmount: coin.New(600, "ujuno")},
		{ID: 2, SeasonID: 9, Team: "wasm1rival", DepositAmount: coin.New(400, "ujuno")},
		{ID: 3, SeasonID: 10, Team: mockTeam, DepositAmount: coin.New(50, "uatom")},
	}
	m.ledger.On("ListUnpaid", mock.Anything).Return(unpaid, nil).Times(3)

	escrowed, err := m.service.Escrowed(context.Background(), "ujuno")
	require.NoError(t, err)
	assert.Equal(t, coin.New(1000, "ujuno"), escrowed)

	require.NoError(t, m.service.CheckWithdraw(context.Background(), coin.New(1500, "ujuno"), coin.New(500, "ujuno")))

	err = m.service.CheckWithdraw(context.Background(), coin.New(1500, "ujuno"), coin.New(501, "ujuno"))
	require.ErrorIs(t, err, ErrWithdrawExceedsTreasury)
	assert.ErrorIs(t, err, ErrFunding)

	m.ledger.
		On("ListByTeam", mock.Anything, mockTeam).
		Return([]season.LedgerEntry{unpaid[0], {ID: 4, Team: mockTeam, WithdrawalDistributionDate: &paidAt}}, nil).
		Once()
	deposits, err := m.service.TeamDeposits(context.Background(), mockTeam)
	require.NoError(t, err)
	assert.Len(t, deposits, 2)
}

func TestSeasonService_CheckWithdraw_ShortBalanceUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	m.ledger.
		On("ListUnpaid", mock.Anything).
		Return([]season.LedgerEntry{{ID: 1, DepositAmount: coin.New(1000, "ujuno")}}, nil).
		Once()

	err := m.service.CheckWithdraw(context.Background(), coin.New(800, "ujuno"), coin.New(1, "ujuno"))
	assert.ErrorIs(t, err, ErrWithdrawExceedsTreasury)
}

func TestSeasonService_CancelSeason_OnlyCancelStatusUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)

	_, err := m.service.CancelSeason(context.Background(), mockLeague, 9, messaging.StatusAccepted)
	var unauthorized *UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, mockLeague, unauthorized.Sender)
}

func TestSeasonService_Get_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSeasonMocks(t)
	boom := errors.New("leveldb: closed")
	m.seasons.On("Get", mock.Anything, uint64(9)).Return(season.Season{}, false, boom).Once()

	_, err := m.service.Get(context.Background(), 9)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSeasonNotFound)
}
