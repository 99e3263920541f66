package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/player"
)

// PlayerService keeps player names unique across every managed team.
type PlayerService struct {
	registry   *RegistryService
	playerRepo player.Repository
}

func NewPlayerService(registry *RegistryService, playerRepo player.Repository) *PlayerService {
	return &PlayerService{
		registry:   registry,
		playerRepo: playerRepo,
	}
}

// AddPlayers registers the batch against the sending team. Problems are
// collected and reported together; nothing is written when any are found.
func (s *PlayerService) AddPlayers(ctx context.Context, teamAddr string, players []player.Player) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.AddPlayers")
	defer span.End()

	report := &AddPlayerError{}
	if _, err := s.registry.Authorize(ctx, teamAddr); err != nil {
		report.UnauthorizedRequest = true
		return report
	}

	names := make(map[string]struct{}, len(players))
	for _, p := range players {
		key := p.NameKey()
		if _, dup := names[key]; dup {
			report.SourceDupeNameCount++
			continue
		}
		names[key] = struct{}{}
	}
	if report.SourceDupeNameCount > 0 {
		return report
	}

	var fresh []player.Player
	for _, p := range players {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		existing, exists, err := s.playerRepo.GetByName(ctx, p.FirstName, p.LastName)
		if err != nil {
			return fmt.Errorf("get player by name: %w", err)
		}
		if !exists {
			p.AssignedTeam = teamAddr
			fresh = append(fresh, p)
			continue
		}
		if existing.AssignedTeam != "" && existing.AssignedTeam != teamAddr {
			report.PlayersAssignedToAnotherTeam = append(report.PlayersAssignedToAnotherTeam, existing)
		}
	}
	if len(report.PlayersAssignedToAnotherTeam) > 0 {
		return report
	}

	for _, p := range fresh {
		if err := s.playerRepo.Save(ctx, p); err != nil {
			return fmt.Errorf("save player: %w", err)
		}
	}
	return nil
}

func (s *PlayerService) GetByName(ctx context.Context, firstName, lastName string) (player.Player, bool, error) {
	p, exists, err := s.playerRepo.GetByName(ctx, firstName, lastName)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("get player by name: %w", err)
	}
	return p, exists, nil
}

func (s *PlayerService) ListByTeam(ctx context.Context, teamAddr string) ([]player.Player, error) {
	players, err := s.playerRepo.ListByTeam(ctx, teamAddr)
	if err != nil {
		return nil, fmt.Errorf("list players by team: %w", err)
	}
	return players, nil
}
