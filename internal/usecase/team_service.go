package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/team"
)

type TeamService struct {
	registry *RegistryService
	teamRepo team.Repository
	now      func() time.Time
}

func NewTeamService(registry *RegistryService, teamRepo team.Repository, now func() time.Time) *TeamService {
	if now == nil {
		now = time.Now
	}
	return &TeamService{
		registry: registry,
		teamRepo: teamRepo,
		now:      now,
	}
}

// AssignToLeague attaches teams owned by sendingUser to the sending league.
// Every team is checked before any is written.
func (s *TeamService) AssignToLeague(ctx context.Context, league, sendingUser string, teamAddrs []string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.AssignToLeague")
	defer span.End()

	if _, err := s.registry.Authorize(ctx, league, asset.TypeLeague); err != nil {
		return nil, err
	}
	sendingUser = strings.TrimSpace(sendingUser)
	if sendingUser == "" || len(teamAddrs) == 0 {
		return nil, fmt.Errorf("%w: sending user and teams are required", ErrInvalidTeamSubmissions)
	}

	pending := make([]team.Team, 0, len(teamAddrs))
	seen := make(map[string]struct{}, len(teamAddrs))
	for _, addr := range teamAddrs {
		if _, dup := seen[addr]; dup {
			return nil, fmt.Errorf("%w: team %s submitted twice", ErrInvalidTeamSubmissions, addr)
		}
		seen[addr] = struct{}{}

		record, exists, err := s.registry.assetRepo.Get(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("get managed asset: %w", err)
		}
		if !exists || record.Type != asset.TypeTeam || !record.Enabled() {
			return nil, fmt.Errorf("%w: %s is not an enabled team", ErrInvalidTeamSubmissions, addr)
		}

		t, exists, err := s.teamRepo.Get(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return nil, &ItemNotFoundError{Address: addr}
		}
		if record.Owner != sendingUser {
			return nil, fmt.Errorf("%w: %s is not owned by %s", ErrInvalidTeamSubmissions, addr, sendingUser)
		}
		if t.LeagueAssigned != nil {
			return nil, &TeamAlreadyMemberOfALeagueError{Team: addr, League: t.LeagueAssigned.League}
		}
		pending = append(pending, t)
	}

	now := s.now()
	for i := range pending {
		pending[i].LeagueAssigned = &team.LeagueAssignment{League: league, AssignedDate: now}
		if err := s.teamRepo.Save(ctx, pending[i]); err != nil {
			return nil, fmt.Errorf("save team: %w", err)
		}
	}
	return pending, nil
}

func (s *TeamService) ListByLeague(ctx context.Context, league string) ([]team.Team, error) {
	league = strings.TrimSpace(league)
	if league == "" {
		return nil, fmt.Errorf("%w: league address is required", ErrInvalidInput)
	}
	teams, err := s.teamRepo.ListByLeague(ctx, league)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}
	return teams, nil
}
