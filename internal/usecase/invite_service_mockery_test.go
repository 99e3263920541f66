package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
	messagingmock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/domain/messaging"
	idmock "github.com/riskibarqy/fantasy-league-contracts/internal/mocks/platform/id"
)

func joinRequest(id, seasonID uint64, teamAddr string, status messaging.Status) messaging.JoinRequest {
	return messaging.JoinRequest{
		ID: id,
		Delivery: messaging.Delivery{
			From: messaging.Packet{AssetType: asset.TypeTeam, Address: teamAddr},
			To:   messaging.Packet{AssetType: asset.TypeLeague, Address: mockLeague},
		},
		Data: messaging.Data{SeasonID: seasonID, Status: status},
	}
}

func TestInviteService_RecordJoin_UsesNextSequenceUsingMockery(t *testing.T) {
	t.Parallel()

	messages := messagingmock.NewRepository(t)
	sequence := idmock.NewSequence(t)
	service := NewInviteService(messages, sequence, fixedNow)

	sequence.On("Next", mock.Anything).Return(uint64(7), nil).Once()
	messages.
		On("Save", mock.Anything, mock.MatchedBy(func(req messaging.JoinRequest) bool {
			return req.ID == 7 &&
				req.Accepted() &&
				req.TeamAddress() == mockTeam &&
				req.Delivery.To == messaging.Packet{AssetType: asset.TypeLeague, Address: mockLeague} &&
				req.Created.Equal(mockNow)
		})).
		Return(nil).
		Once()

	got, err := service.RecordJoin(context.Background(), 3, mockTeam, mockLeague)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Data.SeasonID)
}

func TestInviteService_RecordJoin_SequenceFailureUsingMockery(t *testing.T) {
	t.Parallel()

	sequence := idmock.NewSequence(t)
	service := NewInviteService(messagingmock.NewRepository(t), sequence, fixedNow)

	boom := errors.New("store closed")
	sequence.On("Next", mock.Anything).Return(uint64(0), boom).Once()

	_, err := service.RecordJoin(context.Background(), 3, mockTeam, mockLeague)
	assert.ErrorIs(t, err, boom)
}

func TestInviteService_AcceptedCountSkipsCancelledUsingMockery(t *testing.T) {
	t.Parallel()

	messages := messagingmock.NewRepository(t)
	service := NewInviteService(messages, idmock.NewSequence(t), fixedNow)

	messages.On("ListBySeason", mock.Anything, uint64(4)).Return([]messaging.JoinRequest{
		joinRequest(1, 4, "wasm1owls", messaging.StatusAccepted),
		joinRequest(2, 4, "wasm1hawks", messaging.StatusCancelSeason),
		joinRequest(3, 4, "wasm1strays", messaging.StatusAccepted),
	}, nil).Once()

	count, err := service.AcceptedCount(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInviteService_AcceptedSeasonsForTeam_BothDirectionsUsingMockery(t *testing.T) {
	t.Parallel()

	messages := messagingmock.NewRepository(t)
	service := NewInviteService(messages, idmock.NewSequence(t), fixedNow)

	invited := messaging.JoinRequest{
		ID: 9,
		Delivery: messaging.Delivery{
			From: messaging.Packet{AssetType: asset.TypeLeague, Address: mockLeague},
			To:   messaging.Packet{AssetType: asset.TypeTeam, Address: mockTeam},
		},
		Data: messaging.Data{SeasonID: 5, Status: messaging.StatusAccepted},
	}
	messages.On("ListBySender", mock.Anything, asset.TypeTeam, mockTeam).Return([]messaging.JoinRequest{
		joinRequest(1, 2, mockTeam, messaging.StatusAccepted),
		joinRequest(2, 3, mockTeam, messaging.StatusCancelSeason),
		joinRequest(3, 2, mockTeam, messaging.StatusAccepted),
	}, nil).Once()
	messages.On("ListByRecipient", mock.Anything, asset.TypeTeam, mockTeam).Return([]messaging.JoinRequest{invited}, nil).Once()

	ids, err := service.AcceptedSeasonsForTeam(context.Background(), mockTeam)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 5}, ids)
	assert.Equal(t, mockTeam, invited.TeamAddress())
}

func TestInviteService_SetStatusTouchesUpdatedUsingMockery(t *testing.T) {
	t.Parallel()

	messages := messagingmock.NewRepository(t)
	service := NewInviteService(messages, idmock.NewSequence(t), fixedNow)

	req := joinRequest(1, 4, mockTeam, messaging.StatusAccepted)
	messages.
		On("Save", mock.Anything, mock.MatchedBy(func(saved messaging.JoinRequest) bool {
			return saved.Data.Status == messaging.StatusCancelSeason && saved.Updated.Equal(mockNow)
		})).
		Return(nil).
		Once()

	got, err := service.SetStatus(context.Background(), req, messaging.StatusCancelSeason)
	require.NoError(t, err)
	assert.False(t, got.Accepted())
}
