package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/asset"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/messaging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/id"
)

// Transfer is a payment the caller must emit after a successful operation.
type Transfer struct {
	Recipient string
	Amount    coin.Coin
}

type AddSeasonInput struct {
	Name            string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	AccessType      *season.AccessType
	Status          *season.Status
	MaxTeamsAllowed uint32
}

type JoinSeasonInput struct {
	Team     string
	SeasonID uint64
	Funds    []coin.Coin
}

type JoinSeasonResult struct {
	Request messaging.JoinRequest
	Deposit *season.LedgerEntry
}

// SeasonService owns season scheduling, enrollment and winner-take-all escrow.
type SeasonService struct {
	seasonRepo season.Repository
	ledgerRepo season.LedgerRepository
	invites    *InviteService
	registry   *RegistryService
	sequence   id.Sequence
	now        func() time.Time
}

func NewSeasonService(
	seasonRepo season.Repository,
	ledgerRepo season.LedgerRepository,
	invites *InviteService,
	registry *RegistryService,
	sequence id.Sequence,
	now func() time.Time,
) *SeasonService {
	if now == nil {
		now = time.Now
	}
	return &SeasonService{
		seasonRepo: seasonRepo,
		ledgerRepo: ledgerRepo,
		invites:    invites,
		registry:   registry,
		sequence:   sequence,
		now:        now,
	}
}

// AddSeason schedules a season for the sending league.
func (s *SeasonService) AddSeason(ctx context.Context, sender string, input AddSeasonInput) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.AddSeason")
	defer span.End()

	candidate := season.Season{
		Name:            input.Name,
		Description:     input.Description,
		StartDate:       input.StartDate.UTC(),
		EndDate:         input.EndDate.UTC(),
		AccessType:      input.AccessType,
		Status:          input.Status,
		MaxTeamsAllowed: input.MaxTeamsAllowed,
	}
	if err := candidate.Validate(s.now()); err != nil {
		return season.Season{}, fmt.Errorf("%w: %w", ErrInvalidSeason, err)
	}
	if at := candidate.AccessType; at != nil && at.IsWinnerTakeAll() && (at.Stake == nil || at.Stake.IsZero()) {
		return season.Season{}, fmt.Errorf("%w: winner take all season requires a stake", ErrInvalidSeason)
	}

	league, err := s.registry.Authorize(ctx, sender, asset.TypeLeague)
	if err != nil {
		return season.Season{}, err
	}

	conflicts, err := s.CheckDateRange(ctx, league.Address, candidate.StartDate, candidate.EndDate)
	if err != nil {
		return season.Season{}, err
	}
	if len(conflicts) > 0 {
		return season.Season{}, &SeasonScheduleConflictError{ConflictingSeasons: conflicts}
	}

	next, err := s.sequence.Next(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("next season id: %w", err)
	}
	candidate.ID = next
	candidate.League = league.Address
	if err := s.seasonRepo.Save(ctx, candidate); err != nil {
		return season.Season{}, fmt.Errorf("save season: %w", err)
	}
	return candidate, nil
}

// CheckDateRange returns the ids of the league's seasons overlapping [start, end).
func (s *SeasonService) CheckDateRange(ctx context.Context, league string, start, end time.Time) ([]uint64, error) {
	existing, err := s.seasonRepo.ListByLeague(ctx, league)
	if err != nil {
		return nil, fmt.Errorf("list league seasons: %w", err)
	}
	var conflicts []uint64
	for _, other := range existing {
		if season.RangesOverlap(start, end, other.StartDate, other.EndDate) {
			conflicts = append(conflicts, other.ID)
		}
	}
	return conflicts, nil
}

// JoinSeason enrolls a team. The checks run cheapest first and stop at the
// first failure.
func (s *SeasonService) JoinSeason(ctx context.Context, input JoinSeasonInput) (JoinSeasonResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.JoinSeason")
	defer span.End()

	if _, err := s.registry.Authorize(ctx, input.Team, asset.TypeTeam); err != nil {
		return JoinSeasonResult{}, err
	}

	target, err := s.Get(ctx, input.SeasonID)
	if err != nil {
		return JoinSeasonResult{}, err
	}

	now := s.now()
	if !target.JoinWindowOpen(now) {
		return JoinSeasonResult{}, fmt.Errorf("%w: season=%d starts %s", ErrTooLateToRequestToJoinLeagueSeason, target.ID, target.StartDate.Format(time.RFC3339))
	}

	if err := s.checkJoinableStatus(ctx, target); err != nil {
		return JoinSeasonResult{}, err
	}

	current, exists, err := s.invites.FindMembership(ctx, target.ID, input.Team, target.League)
	if err != nil {
		return JoinSeasonResult{}, err
	}
	if exists {
		return JoinSeasonResult{}, fmt.Errorf("%w: season=%d team=%s request=%d", ErrTeamAlreadyMemberOfSeason, target.ID, input.Team, current.ID)
	}

	if err := checkFunding(target, input.Funds); err != nil {
		return JoinSeasonResult{}, err
	}

	conflicts, err := s.teamConflicts(ctx, input.Team, target)
	if err != nil {
		return JoinSeasonResult{}, err
	}
	if len(conflicts) > 0 {
		return JoinSeasonResult{}, &SeasonScheduleConflictError{ConflictingSeasons: conflicts}
	}

	req, err := s.invites.RecordJoin(ctx, target.ID, input.Team, target.League)
	if err != nil {
		return JoinSeasonResult{}, err
	}
	result := JoinSeasonResult{Request: req}

	if target.AccessType.IsWinnerTakeAll() {
		ledgerID, err := s.sequence.Next(ctx)
		if err != nil {
			return JoinSeasonResult{}, fmt.Errorf("next ledger id: %w", err)
		}
		deposit := season.LedgerEntry{
			ID:            ledgerID,
			SeasonID:      target.ID,
			League:        target.League,
			Team:          input.Team,
			DepositAmount: input.Funds[0],
			DepositDate:   now,
		}
		if err := s.ledgerRepo.Save(ctx, deposit); err != nil {
			return JoinSeasonResult{}, fmt.Errorf("save ledger deposit: %w", err)
		}
		result.Deposit = &deposit
	}

	return result, nil
}

func (s *SeasonService) checkJoinableStatus(ctx context.Context, target season.Season) error {
	if target.Status == nil {
		return ErrSeasonStatusNotSet
	}
	switch target.Status.Kind {
	case season.StatusCancelled:
		return &SeasonStatusCancelledError{CancelledAt: target.Status.CancelledAt}
	case season.StatusPrivate:
		return ErrSeasonStatusPrivate
	case season.StatusActive:
		accepted, err := s.invites.AcceptedCount(ctx, target.ID)
		if err != nil {
			return err
		}
		if accepted >= int(target.MaxTeamsAllowed) {
			return fmt.Errorf("%w: season=%d accepted=%d", ErrSeasonHasReachedCapacity, target.ID, accepted)
		}
		return nil
	default:
		return ErrSeasonStatusNotSet
	}
}

func checkFunding(target season.Season, funds []coin.Coin) error {
	if target.AccessType == nil {
		return ErrSeasonTypeNotSet
	}
	if !target.AccessType.IsWinnerTakeAll() {
		if len(coin.Normalize(funds)) > 0 {
			return fmt.Errorf("%w: open seasons take no funds", ErrIncorrectFundingSent)
		}
		return nil
	}
	stake := target.AccessType.Stake
	if len(funds) == 0 || stake == nil || funds[0] != *stake {
		return fmt.Errorf("%w: expected %s, got %s", ErrIncorrectFundingSent, stakeString(stake), coin.Format(funds))
	}
	return nil
}

func stakeString(stake *coin.Coin) string {
	if stake == nil {
		return "none"
	}
	return stake.String()
}

// teamConflicts finds the team's other accepted seasons that overlap target,
// across every league.
func (s *SeasonService) teamConflicts(ctx context.Context, teamAddr string, target season.Season) ([]uint64, error) {
	seasonIDs, err := s.invites.AcceptedSeasonsForTeam(ctx, teamAddr)
	if err != nil {
		return nil, err
	}
	var conflicts []uint64
	for _, seasonID := range seasonIDs {
		if seasonID == target.ID {
			continue
		}
		other, exists, err := s.seasonRepo.Get(ctx, seasonID)
		if err != nil {
			return nil, fmt.Errorf("get season: %w", err)
		}
		if exists && season.Overlaps(target, other) {
			conflicts = append(conflicts, other.ID)
		}
	}
	return conflicts, nil
}

// CancelTeamSeasonSpot withdraws a team from a season and returns its stake
// for winner-take-all seasons. A request that is already cancelled still goes
// through the refund, which reports the deposit as claimed.
func (s *SeasonService) CancelTeamSeasonSpot(ctx context.Context, teamAddr string, seasonID uint64) ([]Transfer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.CancelTeamSeasonSpot")
	defer span.End()

	if _, err := s.registry.Authorize(ctx, teamAddr, asset.TypeTeam); err != nil {
		return nil, err
	}
	target, err := s.Get(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCancellable(ctx, target); err != nil {
		return nil, err
	}

	req, exists, err := s.invites.FindMembership(ctx, target.ID, teamAddr, target.League)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: season=%d team=%s", ErrTeamNotMemberOfSeason, target.ID, teamAddr)
	}
	if req.Data.Status != messaging.StatusCancelSeason {
		if _, err := s.invites.SetStatus(ctx, req, messaging.StatusCancelSeason); err != nil {
			return nil, err
		}
	}

	if target.AccessType == nil || !target.AccessType.IsWinnerTakeAll() {
		return nil, nil
	}
	transfer, err := s.refundTeam(ctx, target.ID, teamAddr)
	if err != nil {
		return nil, err
	}
	return []Transfer{transfer}, nil
}

// CancelSeason is the league-level cancel. The only status a league may push
// onto its season's messages is CancelSeason.
func (s *SeasonService) CancelSeason(ctx context.Context, sender string, seasonID uint64, status messaging.Status) ([]Transfer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.CancelSeason")
	defer span.End()

	if status != messaging.StatusCancelSeason {
		return nil, Unauthorized(sender)
	}
	if _, err := s.registry.Authorize(ctx, sender, asset.TypeLeague); err != nil {
		return nil, err
	}
	target, err := s.Get(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if target.League != sender {
		return nil, Unauthorized(sender)
	}
	if target.Status != nil && target.Status.Kind == season.StatusCancelled {
		return nil, &SeasonStatusCancelledError{CancelledAt: target.Status.CancelledAt}
	}
	if err := s.checkCancellable(ctx, target); err != nil {
		return nil, err
	}

	now := s.now()
	target.Status = season.Cancelled(now)
	if err := s.seasonRepo.Save(ctx, target); err != nil {
		return nil, fmt.Errorf("save season: %w", err)
	}

	accepted, err := s.invites.AcceptedForSeason(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	for _, req := range accepted {
		if _, err := s.invites.SetStatus(ctx, req, messaging.StatusCancelSeason); err != nil {
			return nil, err
		}
	}

	if target.AccessType == nil || !target.AccessType.IsWinnerTakeAll() {
		return nil, nil
	}
	return s.refundSeason(ctx, target.ID)
}

func (s *SeasonService) checkCancellable(ctx context.Context, target season.Season) error {
	accepted, err := s.invites.AcceptedCount(ctx, target.ID)
	if err != nil {
		return err
	}
	if !target.CanCancel(s.now(), accepted) {
		return fmt.Errorf("%w: season=%d accepted=%d", ErrTooLateToCancelSeason, target.ID, accepted)
	}
	return nil
}

// refundTeam pays back the team's unpaid deposit. The row is marked paid
// before the transfer is handed back, so a second call finds nothing to pay.
func (s *SeasonService) refundTeam(ctx context.Context, seasonID uint64, teamAddr string) (Transfer, error) {
	entries, err := s.ledgerRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return Transfer{}, fmt.Errorf("list season ledger: %w", err)
	}
	for _, entry := range entries {
		if entry.Team != teamAddr || entry.Paid() {
			continue
		}
		if err := s.markPaid(ctx, &entry); err != nil {
			return Transfer{}, err
		}
		return Transfer{Recipient: entry.Team, Amount: entry.DepositAmount}, nil
	}
	return Transfer{}, fmt.Errorf("%w: season=%d team=%s", ErrSeasonDepositAlreadyClaimed, seasonID, teamAddr)
}

func (s *SeasonService) refundSeason(ctx context.Context, seasonID uint64) ([]Transfer, error) {
	entries, err := s.ledgerRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season ledger: %w", err)
	}
	var transfers []Transfer
	for _, entry := range entries {
		if entry.Paid() {
			continue
		}
		if err := s.markPaid(ctx, &entry); err != nil {
			return nil, err
		}
		transfers = append(transfers, Transfer{Recipient: entry.Team, Amount: entry.DepositAmount})
	}
	return transfers, nil
}

func (s *SeasonService) markPaid(ctx context.Context, entry *season.LedgerEntry) error {
	paidAt := s.now()
	entry.WithdrawalDistributionDate = &paidAt
	if err := s.ledgerRepo.Save(ctx, *entry); err != nil {
		return fmt.Errorf("mark ledger entry %d paid: %w", entry.ID, err)
	}
	return nil
}

func (s *SeasonService) Get(ctx context.Context, seasonID uint64) (season.Season, error) {
	found, exists, err := s.seasonRepo.Get(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: season=%d", ErrSeasonNotFound, seasonID)
	}
	return found, nil
}

func (s *SeasonService) ListByLeague(ctx context.Context, league string, filter season.Filter) ([]season.Season, error) {
	all, err := s.seasonRepo.ListByLeague(ctx, league)
	if err != nil {
		return nil, fmt.Errorf("list league seasons: %w", err)
	}
	now := s.now()
	out := make([]season.Season, 0, len(all))
	for _, item := range all {
		if item.Matches(filter, now) {
			out = append(out, item)
		}
	}
	return out, nil
}

// ListUpcoming returns every league's seasons that have not started yet.
func (s *SeasonService) ListUpcoming(ctx context.Context) ([]season.Season, error) {
	items, err := s.seasonRepo.ListStartingAfter(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list upcoming seasons: %w", err)
	}
	return items, nil
}

func (s *SeasonService) Deposits(ctx context.Context, seasonID uint64) ([]season.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season ledger: %w", err)
	}
	return entries, nil
}

// TeamDeposits lists every stake a team has placed, across seasons.
func (s *SeasonService) TeamDeposits(ctx context.Context, teamAddr string) ([]season.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListByTeam(ctx, teamAddr)
	if err != nil {
		return nil, fmt.Errorf("list team ledger: %w", err)
	}
	return entries, nil
}

// Escrowed sums the unpaid deposits held in denom.
func (s *SeasonService) Escrowed(ctx context.Context, denom string) (coin.Coin, error) {
	entries, err := s.ledgerRepo.ListUnpaid(ctx)
	if err != nil {
		return coin.Coin{}, fmt.Errorf("list unpaid ledger: %w", err)
	}
	total := coin.New(0, denom)
	for _, e := range entries {
		if e.DepositAmount.Denom != denom {
			continue
		}
		sum, ok := coin.AddAmount(total.Amount, e.DepositAmount.Amount)
		if !ok {
			return coin.Coin{}, fmt.Errorf("%w: escrowed %s overflows", ErrInvalidInput, denom)
		}
		total.Amount = sum
	}
	return total, nil
}

// CheckWithdraw refuses a treasury withdrawal that would spend escrowed
// deposits. balance is the manager's current holding in amount's denom.
func (s *SeasonService) CheckWithdraw(ctx context.Context, balance, amount coin.Coin) error {
	escrowed, err := s.Escrowed(ctx, amount.Denom)
	if err != nil {
		return err
	}
	var free uint64
	if balance.Amount > escrowed.Amount {
		free = balance.Amount - escrowed.Amount
	}
	if amount.Amount > free {
		return fmt.Errorf("%w: requested=%s available=%d%s escrowed=%s",
			ErrWithdrawExceedsTreasury, amount, free, amount.Denom, escrowed)
	}
	return nil
}
