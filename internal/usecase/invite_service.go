package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/id"
)

// InviteService is the join-request ledger between teams and leagues.
type InviteService struct {
	messageRepo messaging.Repository
	sequence    id.Sequence
	now         func() time.Time
}

func NewInviteService(messageRepo messaging.Repository, sequence id.Sequence, now func() time.Time) *InviteService {
	if now == nil {
		now = time.Now
	}
	return &InviteService{
		messageRepo: messageRepo,
		sequence:    sequence,
		now:         now,
	}
}

// RecordJoin writes an Accepted request from the team to the league.
func (s *InviteService) RecordJoin(ctx context.Context, seasonID uint64, teamAddr, leagueAddr string) (messaging.JoinRequest, error) {
	next, err := s.sequence.Next(ctx)
	if err != nil {
		return messaging.JoinRequest{}, fmt.Errorf("next message id: %w", err)
	}

	now := s.now()
	req := messaging.JoinRequest{
		ID:      next,
		Created: now,
		Updated: now,
		Delivery: messaging.Delivery{
			From: messaging.Packet{AssetType: asset.TypeTeam, Address: teamAddr},
			To:   messaging.Packet{AssetType: asset.TypeLeague, Address: leagueAddr},
		},
		Data: messaging.Data{SeasonID: seasonID, Status: messaging.StatusAccepted},
	}
	if err := s.messageRepo.Save(ctx, req); err != nil {
		return messaging.JoinRequest{}, fmt.Errorf("save join request: %w", err)
	}
	return req, nil
}

func (s *InviteService) SetStatus(ctx context.Context, req messaging.JoinRequest, status messaging.Status) (messaging.JoinRequest, error) {
	req.Data.Status = status
	req.Updated = s.now()
	if err := s.messageRepo.Save(ctx, req); err != nil {
		return messaging.JoinRequest{}, fmt.Errorf("update join request %d: %w", req.ID, err)
	}
	return req, nil
}

// AcceptedForSeason returns the season's requests that are still Accepted.
func (s *InviteService) AcceptedForSeason(ctx context.Context, seasonID uint64) ([]messaging.JoinRequest, error) {
	all, err := s.messageRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season messages: %w", err)
	}
	out := make([]messaging.JoinRequest, 0, len(all))
	for _, req := range all {
		if req.Accepted() {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *InviteService) AcceptedCount(ctx context.Context, seasonID uint64) (int, error) {
	accepted, err := s.AcceptedForSeason(ctx, seasonID)
	if err != nil {
		return 0, err
	}
	return len(accepted), nil
}

func (s *InviteService) FindMembership(ctx context.Context, seasonID uint64, teamAddr, leagueAddr string) (messaging.JoinRequest, bool, error) {
	req, exists, err := s.messageRepo.FindBySeasonTeamLeague(ctx, seasonID, teamAddr, leagueAddr)
	if err != nil {
		return messaging.JoinRequest{}, false, fmt.Errorf("find season membership: %w", err)
	}
	return req, exists, nil
}

// AcceptedSeasonsForTeam returns the ids of seasons the team is currently
// accepted into, whichever side of the message the team is on.
func (s *InviteService) AcceptedSeasonsForTeam(ctx context.Context, teamAddr string) ([]uint64, error) {
	sent, err := s.messageRepo.ListBySender(ctx, asset.TypeTeam, teamAddr)
	if err != nil {
		return nil, fmt.Errorf("list messages sent by team: %w", err)
	}
	received, err := s.messageRepo.ListByRecipient(ctx, asset.TypeTeam, teamAddr)
	if err != nil {
		return nil, fmt.Errorf("list messages sent to team: %w", err)
	}

	seen := make(map[uint64]struct{})
	var ids []uint64
	for _, req := range append(sent, received...) {
		if !req.Accepted() {
			continue
		}
		if _, ok := seen[req.Data.SeasonID]; ok {
			continue
		}
		seen[req.Data.SeasonID] = struct{}{}
		ids = append(ids, req.Data.SeasonID)
	}
	return ids, nil
}

func (s *InviteService) MessagesTo(ctx context.Context, assetType asset.Type, address string) ([]messaging.JoinRequest, error) {
	items, err := s.messageRepo.ListByRecipient(ctx, assetType, address)
	if err != nil {
		return nil, fmt.Errorf("list messages to item: %w", err)
	}
	return items, nil
}

func (s *InviteService) MessagesFrom(ctx context.Context, assetType asset.Type, address string) ([]messaging.JoinRequest, error) {
	items, err := s.messageRepo.ListBySender(ctx, assetType, address)
	if err != nil {
		return nil, fmt.Errorf("list messages from item: %w", err)
	}
	return items, nil
}
